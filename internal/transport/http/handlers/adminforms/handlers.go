package adminformshandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"onboarding/internal/domain/adminforms"
	"onboarding/internal/domain/audit"
	"onboarding/internal/domain/auth"
	"onboarding/internal/platform/docstore"
	"onboarding/internal/transport/http/api"
	"onboarding/internal/transport/http/middleware"
	"onboarding/internal/transport/http/shared"
)

type Service interface {
	Create(ctx context.Context, userID string, body map[string]string, receivedBy string) (adminforms.JobForm, error)
	List(ctx context.Context, page, limit int) ([]adminforms.JobForm, docstore.Pagination, error)
	Get(ctx context.Context, id string) (adminforms.JobForm, error)
	Update(ctx context.Context, id string, body map[string]string, receivedBy string) (adminforms.JobForm, error)
	Delete(ctx context.Context, id string) (adminforms.JobForm, error)
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

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin/job", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleSuperAdmin))
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Patch("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	form, err := h.Uploads.Parse(r)
	if err != nil {
		shared.FailUpload(w, err, h.Production, requestID)
		return
	}
	job, err := h.Service.Create(r.Context(), user.UserID, form.Fields, form.File(adminforms.FileField))
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionCreate, "admin_job_form", job.ID)
	api.Created(w, "Admin job form created successfully", job, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page, limit := shared.ParsePage(r)
	items, pagination, err := h.Service.List(r.Context(), page, limit)
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	api.Page(w, "Admin job forms fetched successfully", items, pagination, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	job, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	api.SuccessMessage(w, "Admin job form fetched successfully", job, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	form, err := h.Uploads.Parse(r)
	if err != nil {
		shared.FailUpload(w, err, h.Production, requestID)
		return
	}
	id := chi.URLParam(r, "id")
	job, err := h.Service.Update(r.Context(), id, form.Fields, form.File(adminforms.FileField))
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionUpdate, "admin_job_form", id)
	api.SuccessMessage(w, "Admin job form updated successfully", job, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "id")
	job, err := h.Service.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionDelete, "admin_job_form", id)
	api.SuccessMessage(w, "Admin job form deleted successfully", job, requestID)
}

func (h *Handler) fail(w http.ResponseWriter, err error, requestID string) {
	var invalid *adminforms.ValidationError
	switch {
	case errors.As(err, &invalid):
		shared.FailField(w, requestID, invalid.Field, invalid.Reason)
	case errors.Is(err, adminforms.ErrInvalidForm):
		api.Fail(w, http.StatusBadRequest, "invalid_form", adminforms.ErrInvalidForm.Error(), requestID)
	case errors.Is(err, adminforms.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "Admin job form not found", requestID)
	default:
		api.Internal(w, err, h.Production, requestID)
	}
}
