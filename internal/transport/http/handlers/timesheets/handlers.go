package timesheetshandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"onboarding/internal/domain/audit"
	"onboarding/internal/domain/auth"
	"onboarding/internal/domain/timesheets"
	"onboarding/internal/platform/docstore"
	"onboarding/internal/transport/http/api"
	"onboarding/internal/transport/http/middleware"
	"onboarding/internal/transport/http/shared"
)

type Service interface {
	Create(ctx context.Context, userID string, body, files map[string]string) (timesheets.TimeSheet, error)
	List(ctx context.Context, userID string, page, limit int) ([]timesheets.TimeSheet, docstore.Pagination, error)
	Get(ctx context.Context, id string) (timesheets.TimeSheet, error)
	Update(ctx context.Context, id string, body, files map[string]string) (timesheets.TimeSheet, error)
	Delete(ctx context.Context, id string) (timesheets.TimeSheet, error)
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
	r.Route("/timeSheet", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleUser, auth.RoleSuperAdmin))
		r.With(middleware.RequireRole(auth.RoleUser)).Post("/", h.handleCreate)
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
	sheet, err := h.Service.Create(r.Context(), user.UserID, form.Fields, form.FirstFiles())
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionCreate, "time_sheet", sheet.ID)
	api.Created(w, "Time sheet created successfully", sheet, requestID)
}

// handleList pages through the caller's sheets; administrators see every
// sheet.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	owner := user.UserID
	if user.Role == auth.RoleSuperAdmin {
		owner = ""
	}
	page, limit := shared.ParsePage(r)
	items, pagination, err := h.Service.List(r.Context(), owner, page, limit)
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	api.Page(w, "Time sheets fetched successfully", items, pagination, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sheet, ok := h.owned(w, r)
	if !ok {
		return
	}
	api.SuccessMessage(w, "Time sheet fetched successfully", sheet, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := h.owned(w, r); !ok {
		return
	}
	form, err := h.Uploads.Parse(r)
	if err != nil {
		shared.FailUpload(w, err, h.Production, requestID)
		return
	}
	id := chi.URLParam(r, "id")
	sheet, err := h.Service.Update(r.Context(), id, form.Fields, form.FirstFiles())
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionUpdate, "time_sheet", id)
	api.SuccessMessage(w, "Time sheet updated successfully", sheet, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := h.owned(w, r); !ok {
		return
	}
	id := chi.URLParam(r, "id")
	sheet, err := h.Service.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionDelete, "time_sheet", id)
	api.SuccessMessage(w, "Time sheet deleted successfully", sheet, requestID)
}

func (h *Handler) owned(w http.ResponseWriter, r *http.Request) (timesheets.TimeSheet, bool) {
	requestID := middleware.GetRequestID(r.Context())
	sheet, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err, requestID)
		return sheet, false
	}
	user, _ := middleware.GetUser(r.Context())
	if user.Role != auth.RoleSuperAdmin && sheet.UserID != user.UserID {
		h.fail(w, timesheets.ErrNotFound, requestID)
		return sheet, false
	}
	return sheet, true
}

func (h *Handler) fail(w http.ResponseWriter, err error, requestID string) {
	var invalid *timesheets.ValidationError
	switch {
	case errors.As(err, &invalid):
		shared.FailField(w, requestID, invalid.Field, invalid.Reason)
	case errors.Is(err, timesheets.ErrInvalidTimeSheet):
		api.Fail(w, http.StatusBadRequest, "invalid_time_sheet", timesheets.ErrInvalidTimeSheet.Error(), requestID)
	case errors.Is(err, timesheets.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "Time sheet not found", requestID)
	default:
		api.Internal(w, err, h.Production, requestID)
	}
}
