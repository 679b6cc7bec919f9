package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"onboarding/internal/domain/adminforms"
	"onboarding/internal/domain/audit"
	"onboarding/internal/domain/auth"
	"onboarding/internal/domain/imagesets"
	"onboarding/internal/domain/notifications"
	"onboarding/internal/domain/onboarding"
	"onboarding/internal/domain/timesheets"
	"onboarding/internal/platform/config"
	"onboarding/internal/platform/crypto"
	"onboarding/internal/platform/db"
	"onboarding/internal/platform/docstore"
	"onboarding/internal/platform/email"
	"onboarding/internal/platform/jobs"
	"onboarding/internal/platform/logging"
	"onboarding/internal/platform/metrics"
	"onboarding/internal/platform/pdf"
	"onboarding/internal/platform/storage"
	adminformshandler "onboarding/internal/transport/http/handlers/adminforms"
	audithandler "onboarding/internal/transport/http/handlers/audit"
	authhandler "onboarding/internal/transport/http/handlers/auth"
	fileshandler "onboarding/internal/transport/http/handlers/files"
	imagesetshandler "onboarding/internal/transport/http/handlers/imagesets"
	notificationshandler "onboarding/internal/transport/http/handlers/notifications"
	onboardinghandler "onboarding/internal/transport/http/handlers/onboarding"
	timesheetshandler "onboarding/internal/transport/http/handlers/timesheets"
	"onboarding/internal/transport/http/middleware"
	"onboarding/internal/transport/http/shared"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Jobs   *jobs.Service
	Router http.Handler
	stop   context.CancelFunc
}

// Services is everything the HTTP layer drives. Optional parts are nil.
type Services struct {
	Auth          authhandler.Service
	Interns       onboardinghandler.FormService[onboarding.Intern]
	Temporaries   onboardinghandler.FormService[onboarding.Temporary]
	AdminForms    adminformshandler.Service
	ImageSets     []imagesetshandler.Service
	TimeSheets    timesheetshandler.Service
	Notifications notificationshandler.Service
	AuditLog      shared.AuditLogger
	AuditEvents   audithandler.Service
	Storage       shared.FileSaver
	Presigner     fileshandler.Presigner
	Metrics       *metrics.Collector
	Ready         func(ctx context.Context) error
}

// New connects to the database, prepares it and wires every service.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed failed: %w", err)
		}
	}

	cipher, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		pool.Close()
		return nil, err
	}

	var mirror storage.Mirror
	var presigner fileshandler.Presigner
	if cfg.S3Enabled {
		s3Mirror, err := storage.NewS3Mirror(ctx, cfg)
		if err != nil {
			pool.Close()
			return nil, err
		}
		mirror, presigner = s3Mirror, s3Mirror
	}
	files := storage.NewLocal(cfg.UploadDir, mirror)

	collector := metrics.New()
	renderer := pdf.NewRenderer(onboarding.Letterhead(), onboarding.CompanyName, files.ReadFile)

	notifier := notifications.New(notifications.NewStore(pool), email.New(cfg))
	notifier.From = cfg.EmailFrom
	notifier.AdminEmail = cfg.AdminEmail
	notifier.Company = onboarding.CompanyName

	jobCtx, stop := context.WithCancel(context.Background())
	worker := jobs.New(pool)
	worker.Start(jobCtx)

	interns := onboarding.NewInternService(docstore.NewCollection(pool, cipher, onboarding.TableIntern), renderer)
	configureForm(interns, cfg, notifier, worker, collector)
	temporaries := onboarding.NewTemporaryService(docstore.NewCollection(pool, cipher, onboarding.TableTemporary), renderer)
	configureForm(temporaries, cfg, notifier, worker, collector)

	sets := make([]imagesetshandler.Service, 0, len(imagesets.Kinds))
	for _, kind := range imagesets.Kinds {
		sets = append(sets, imagesets.NewService(kind, docstore.NewCollection(pool, cipher, kind.Table)))
	}

	auditService := audit.New(pool)
	services := Services{
		Auth:          auth.NewService(auth.NewStore(pool), cfg.JWTSecret),
		Interns:       interns,
		Temporaries:   temporaries,
		AdminForms:    adminforms.NewService(docstore.NewCollection(pool, cipher, adminforms.Table)),
		ImageSets:     sets,
		TimeSheets:    timesheets.NewService(docstore.NewCollection(pool, cipher, timesheets.Table)),
		Notifications: notifier,
		AuditLog:      auditService,
		AuditEvents:   auditService,
		Storage:       files,
		Presigner:     presigner,
		Metrics:       collector,
		Ready:         pool.Ping,
	}

	return &App{
		Config: cfg,
		DB:     pool,
		Jobs:   worker,
		Router: NewRouter(cfg, services),
		stop:   stop,
	}, nil
}

func configureForm[T any](svc *onboarding.Service[T], cfg config.Config, notifier onboarding.Notifier, worker onboarding.Enqueuer, recorder onboarding.Recorder) {
	svc.Notifier = notifier
	svc.Jobs = worker
	svc.Metrics = recorder
	svc.PublicBaseURL = cfg.PublicBaseURL
	svc.RenderTimeout = cfg.PDFRenderTimeout
}

// Close stops the job worker after it drained and releases the pool.
func (a *App) Close() {
	if a.stop != nil {
		a.stop()
	}
	if a.Jobs != nil {
		a.Jobs.Wait()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

// NewRouter builds the HTTP surface over svc.
func NewRouter(cfg config.Config, svc Services) http.Handler {
	production := cfg.IsProduction()
	var recorder middleware.MetricsRecorder
	if svc.Metrics != nil {
		recorder = svc.Metrics
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(recorder))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(production))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes, cfg.MaxUploadBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := svc.Ready(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled && svc.Metrics != nil {
		router.Handle("/metrics", svc.Metrics.Handler())
	}

	uploaded := uploadsHandler(cfg.UploadDir)
	for _, folder := range []string{"/image/*", "/media/*", "/doc/*"} {
		router.Handle(folder, uploaded)
	}
	router.Handle("/uploads/*", http.StripPrefix("/uploads", uploaded))

	uploader := shared.NewUploader(svc.Storage, cfg.MaxUploadBytes)
	if svc.Metrics != nil {
		uploader.Metrics = svc.Metrics
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(svc.Auth, svc.AuditLog, production).RegisterRoutes(r)

		onboardinghandler.NewHandler(onboardinghandler.InternRoutes, svc.Interns, uploader, svc.AuditLog, production).RegisterRoutes(r)
		onboardinghandler.NewHandler(onboardinghandler.TemporaryRoutes, svc.Temporaries, uploader, svc.AuditLog, production).RegisterRoutes(r)

		adminformshandler.NewHandler(svc.AdminForms, uploader, svc.AuditLog, production).RegisterRoutes(r)
		imagesetshandler.Mount(r, svc.ImageSets, uploader, svc.AuditLog, production)
		timesheetshandler.NewHandler(svc.TimeSheets, uploader, svc.AuditLog, production).RegisterRoutes(r)

		if svc.Notifications != nil {
			notificationshandler.NewHandler(svc.Notifications, production).RegisterRoutes(r)
		}
		if svc.AuditEvents != nil {
			audithandler.NewHandler(svc.AuditEvents, production).RegisterRoutes(r)
		}
		if svc.Presigner != nil {
			fileshandler.NewHandler(svc.Presigner, production).RegisterRoutes(r)
		}
	})

	return router
}

// uploadsHandler serves stored uploads without directory listings.
func uploadsHandler(root string) http.Handler {
	files := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// Run serves until SIGINT or SIGTERM and then drains in-flight requests and
// queued jobs.
func Run() {
	cfg := config.Load()
	logging.Setup(cfg.Environment)
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := New(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("onboarding server listening", "addr", cfg.Addr, "env", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
		}
	case <-ctx.Done():
		shutdownCtx, done := context.WithTimeout(context.Background(), 15*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown failed", "err", err)
		}
	}
}
