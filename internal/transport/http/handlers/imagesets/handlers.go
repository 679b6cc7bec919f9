package imagesetshandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"onboarding/internal/domain/audit"
	"onboarding/internal/domain/imagesets"
	"onboarding/internal/transport/http/api"
	"onboarding/internal/transport/http/middleware"
	"onboarding/internal/transport/http/shared"
)

// Paths mounts every image set kind under its public URL.
var Paths = map[string]string{
	imagesets.Calendar.Name:       "/calendar",
	imagesets.AdminTimeSheet.Name: "/adminTimeSheet",
	imagesets.ExampleI9.Name:      "/example/i9",
	imagesets.ExampleW4.Name:      "/example/w4",
	imagesets.AdminI9.Name:        "/adminForms/i9form",
	imagesets.AdminW4.Name:        "/adminForms/w4form",
}

type Service interface {
	Kind() imagesets.Kind
	Create(ctx context.Context, userID string, images []string, example string) (imagesets.ImageSet, error)
	Latest(ctx context.Context) (imagesets.ImageSet, error)
	Get(ctx context.Context, id string) (imagesets.ImageSet, error)
	Replace(ctx context.Context, id string, images []string, example *string) (imagesets.ImageSet, error)
	Delete(ctx context.Context, id string) (imagesets.ImageSet, error)
}

type Handler struct {
	Service    Service
	Uploads    *shared.Uploader
	Audit      shared.AuditLogger
	Production bool
}

func NewHandler(service Service, uploads *shared.Uploader, auditLog shared.AuditLogger, production bool) *Handler {
	return &Handler{Service: service, Uploads: uploads, Audit: auditLog, Production: production}
}

// RegisterRoutes mounts the set at Paths[kind]. The routes carry no role
// guard.
func (h *Handler) RegisterRoutes(r chi.Router) {
	base, ok := Paths[h.Service.Kind().Name]
	if !ok {
		base = "/" + h.Service.Kind().Name
	}
	r.Route(base, func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleLatest)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleReplace)
		r.Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	form, err := h.Uploads.Parse(r)
	if err != nil {
		shared.FailUpload(w, err, h.Production, requestID)
		return
	}
	user, _ := middleware.GetUser(r.Context())
	set, err := h.Service.Create(r.Context(), user.UserID, form.Files[imagesets.FileField], form.Fields["example"])
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionCreate, h.Service.Kind().Name, set.ID)
	api.Created(w, h.Service.Kind().Label+" uploaded successfully", set, requestID)
}

func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	set, err := h.Service.Latest(r.Context())
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	api.SuccessMessage(w, h.Service.Kind().Label+" fetched successfully", set, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	set, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	api.SuccessMessage(w, h.Service.Kind().Label+" fetched successfully", set, requestID)
}

func (h *Handler) handleReplace(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	form, err := h.Uploads.Parse(r)
	if err != nil {
		shared.FailUpload(w, err, h.Production, requestID)
		return
	}
	var example *string
	if v, ok := form.Fields["example"]; ok {
		example = &v
	}
	id := chi.URLParam(r, "id")
	set, err := h.Service.Replace(r.Context(), id, form.Files[imagesets.FileField], example)
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionUpdate, h.Service.Kind().Name, id)
	api.SuccessMessage(w, h.Service.Kind().Label+" updated successfully", set, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "id")
	set, err := h.Service.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionDelete, h.Service.Kind().Name, id)
	api.SuccessMessage(w, h.Service.Kind().Label+" deleted successfully", set, requestID)
}

func (h *Handler) fail(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, imagesets.ErrMissingImages):
		api.Fail(w, http.StatusBadRequest, "missing_images", "No images uploaded", requestID)
	case errors.Is(err, imagesets.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", h.Service.Kind().Label+" not found", requestID)
	default:
		api.Internal(w, err, h.Production, requestID)
	}
}

// Mount registers one handler per kind.
func Mount(r chi.Router, services []Service, uploads *shared.Uploader, auditLog shared.AuditLogger, production bool) {
	for _, svc := range services {
		NewHandler(svc, uploads, auditLog, production).RegisterRoutes(r)
	}
}

var _ Service = (*imagesets.Service)(nil)
