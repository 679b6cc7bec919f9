package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"onboarding/internal/domain/adminforms"
	"onboarding/internal/domain/auth"
	"onboarding/internal/domain/imagesets"
	"onboarding/internal/domain/onboarding"
	"onboarding/internal/domain/timesheets"
	"onboarding/internal/platform/config"
	"onboarding/internal/platform/docstore/docstoretest"
	"onboarding/internal/platform/metrics"
	"onboarding/internal/platform/pdf"
	"onboarding/internal/platform/storage"
	authhandler "onboarding/internal/transport/http/handlers/auth"
	"onboarding/internal/transport/http/handlers/handlertest"
	imagesetshandler "onboarding/internal/transport/http/handlers/imagesets"
)

// stubAuth satisfies the auth handler; the routes under test never reach it.
type stubAuth struct {
	authhandler.Service
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		JWTSecret:          handlertest.Secret,
		Environment:        "test",
		PublicBaseURL:      "http://hr.example.com",
		UploadDir:          t.TempDir(),
		MaxUploadBytes:     1 << 20,
		MaxBodyBytes:       64 << 10,
		PDFRenderTimeout:   5 * time.Second,
		RateLimitPerMinute: 1000,
		MetricsEnabled:     true,
	}
}

func testServices(cfg config.Config, ready func(context.Context) error) Services {
	files := storage.NewLocal(cfg.UploadDir, nil)
	renderer := pdf.NewRenderer(onboarding.Letterhead(), onboarding.CompanyName, files.ReadFile)
	sets := make([]imagesetshandler.Service, 0, len(imagesets.Kinds))
	for _, kind := range imagesets.Kinds {
		sets = append(sets, imagesets.NewService(kind, docstoretest.NewMemory()))
	}
	return Services{
		Auth:        stubAuth{},
		Interns:     onboarding.NewInternService(docstoretest.NewMemory(), renderer),
		Temporaries: onboarding.NewTemporaryService(docstoretest.NewMemory(), renderer),
		AdminForms:  adminforms.NewService(docstoretest.NewMemory()),
		ImageSets:   sets,
		TimeSheets:  timesheets.NewService(docstoretest.NewMemory()),
		Storage:     files,
		Metrics:     metrics.New(),
		Ready:       ready,
	}
}

func TestOpsEndpoints(t *testing.T) {
	cfg := testConfig(t)
	h := NewRouter(cfg, testServices(cfg, func(context.Context) error { return errors.New("down") }))

	rr, _ := handlertest.Do(t, h, http.MethodGet, "/healthz", "", nil, "")
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("unexpected healthz %d %q", rr.Code, rr.Body.String())
	}
	rr, _ = handlertest.Do(t, h, http.MethodGet, "/readyz", "", nil, "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when the database is down, got %d", rr.Code)
	}
	rr, _ = handlertest.Do(t, h, http.MethodGet, "/metrics", "", nil, "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "requests") {
		t.Fatalf("unexpected metrics %d %q", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("expected security headers on every response")
	}
}

func TestServesStoredUploads(t *testing.T) {
	cfg := testConfig(t)
	h := NewRouter(cfg, testServices(cfg, nil))
	if err := os.MkdirAll(filepath.Join(cfg.UploadDir, "image"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.UploadDir, "image", "sig-1.png"), handlertest.PNG, 0o640); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{"/image/sig-1.png", "/uploads/image/sig-1.png"} {
		rr, _ := handlertest.Do(t, h, http.MethodGet, path, "", nil, "")
		if rr.Code != http.StatusOK || rr.Body.String() != string(handlertest.PNG) {
			t.Fatalf("%s: unexpected response %d", path, rr.Code)
		}
	}
	rr, _ := handlertest.Do(t, h, http.MethodGet, "/image/", "", nil, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected directory listing to be hidden, got %d", rr.Code)
	}
}

func TestInternJourneyThroughRouter(t *testing.T) {
	cfg := testConfig(t)
	h := NewRouter(cfg, testServices(cfg, nil))
	userID := "6f1d2c3b-4a59-4e8f-9d0c-1b2a3c4d5e6f"
	employee := handlertest.Token(t, userID, auth.RoleUser)

	body, ct := handlertest.Multipart(t, map[string]string{
		"generalInfo.firstName":                "Jane",
		"generalInfo.lastName":                 "Doe",
		"bankForm.name":                        "Jane Doe",
		"bankForm.checkingAccount.bankName":    "Chase",
		"bankForm.checkingAccount.transitNo":   "021000021",
		"bankForm.checkingAccount.accountNo":   "12345",
		"bankForm.checkingAccount.depositType": "full",
		"i9Form.lastName":                      "Doe",
		"i9Form.status":                        "US Citizen",
		"w4Form.lastName":                      "Doe",
		"citizenShipForm.citizenshipStatus":    "citizen",
	}, handlertest.File{Field: "employeeSignature1", Name: "sig.png", ContentType: "image/png", Data: handlertest.PNG})

	rr, _ := handlertest.Do(t, h, http.MethodPost, "/api/v1/internForm/intern", employee, body, ct)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	rr, _ = handlertest.Do(t, h, http.MethodGet, "/api/v1/internForm/pdf/"+userID, "", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("Content-Type") != "application/pdf" || !strings.HasPrefix(rr.Body.String(), "%PDF") {
		t.Fatalf("expected a pdf, got %q", rr.Header().Get("Content-Type"))
	}
	if rr.Header().Get("Cross-Origin-Resource-Policy") != "cross-origin" {
		t.Fatal("expected pdf to be embeddable")
	}
}

func TestOptionalRoutesStayUnmounted(t *testing.T) {
	cfg := testConfig(t)
	h := NewRouter(cfg, testServices(cfg, nil))
	admin := handlertest.Token(t, "admin", auth.RoleSuperAdmin)

	for _, path := range []string{"/api/v1/admin/notifications", "/api/v1/admin/audit/events", "/api/v1/files/presign?path=/image/a.png"} {
		rr, _ := handlertest.Do(t, h, http.MethodGet, path, admin, nil, "")
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rr.Code)
		}
	}
}

func TestRouterRejectsOversizedJSON(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxBodyBytes = 1024
	h := NewRouter(cfg, testServices(cfg, nil))
	employee := handlertest.Token(t, "6f1d2c3b-4a59-4e8f-9d0c-1b2a3c4d5e6f", auth.RoleUser)

	big := `{"generalInfo":{"firstName":"` + strings.Repeat("a", 4096) + `"}}`
	rr, _ := handlertest.Do(t, h, http.MethodPost, "/api/v1/timeSheet", employee, strings.NewReader(big), "application/json")
	if rr.Code != http.StatusRequestEntityTooLarge && rr.Code != http.StatusBadRequest {
		t.Fatalf("expected the body limit to reject the request, got %d", rr.Code)
	}
}
