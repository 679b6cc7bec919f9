package onboardinghandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"onboarding/internal/domain/audit"
	"onboarding/internal/domain/auth"
	"onboarding/internal/domain/onboarding"
	"onboarding/internal/platform/docstore"
	"onboarding/internal/transport/http/api"
	"onboarding/internal/transport/http/middleware"
	"onboarding/internal/transport/http/shared"
)

// FormService is the part of onboarding.Service the handler drives.
type FormService[T any] interface {
	Type() string
	Meta(rec T) docstore.Meta
	Submit(ctx context.Context, userID string, body, uploaded map[string]string) (T, error)
	Latest(ctx context.Context, userID string) (T, error)
	Get(ctx context.Context, id string) (T, error)
	List(ctx context.Context, page, limit int) ([]T, docstore.Pagination, error)
	Update(ctx context.Context, id string, body, uploaded map[string]string) (T, error)
	Delete(ctx context.Context, id string) (T, error)
	RenderPDF(ctx context.Context, key string) (onboarding.PDF, error)
}

// Routes names the URL family of one form, e.g. /internForm/intern.
type Routes struct {
	Family         string
	Resource       string
	UpdatePath     string
	UpdateDisabled bool
	Label          string
}

var (
	InternRoutes    = Routes{Family: "internForm", Resource: "intern", UpdatePath: "/{id}", Label: "Intern"}
	TemporaryRoutes = Routes{Family: "temporaryForm", Resource: "temporary", UpdatePath: "/update/{id}", UpdateDisabled: true, Label: "Temporary employee"}
)

type Handler[T any] struct {
	Service    FormService[T]
	Uploads    *shared.Uploader
	Audit      shared.AuditLogger
	Routes     Routes
	Production bool
}

func NewHandler[T any](routes Routes, service FormService[T], uploads *shared.Uploader, auditLog shared.AuditLogger, production bool) *Handler[T] {
	return &Handler[T]{Service: service, Uploads: uploads, Audit: auditLog, Routes: routes, Production: production}
}

func (h *Handler[T]) RegisterRoutes(r chi.Router) {
	base := "/" + h.Routes.Family + "/" + h.Routes.Resource
	employee := middleware.RequireRole(auth.RoleUser)
	admin := middleware.RequireRole(auth.RoleSuperAdmin)
	either := middleware.RequireRole(auth.RoleUser, auth.RoleSuperAdmin)

	r.With(employee).Post(base, h.HandleCreate)
	r.With(employee).Get(base, h.HandleLatest)
	r.With(admin).Get(base+"/all", h.HandleList)
	r.With(either).Get(base+"/{id}", h.HandleGet)
	r.With(either).Patch(base+h.Routes.UpdatePath, h.HandleUpdate)
	r.With(either).Delete(base+"/{id}", h.HandleDelete)
	r.Get("/"+h.Routes.Family+"/pdf/{id}", h.HandlePDF)
}

func (h *Handler[T]) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())

	form, err := h.Uploads.Parse(r)
	if err != nil {
		shared.FailUpload(w, err, h.Production, requestID)
		return
	}
	rec, err := h.Service.Submit(r.Context(), user.UserID, form.Fields, form.FirstFiles())
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionCreate, h.entityType(), h.Service.Meta(rec).ID)
	api.Created(w, h.Routes.Label+" created successfully", rec, requestID)
}

func (h *Handler[T]) HandleLatest(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	rec, err := h.Service.Latest(r.Context(), user.UserID)
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	api.SuccessMessage(w, h.Routes.Label+" fetched successfully", rec, requestID)
}

func (h *Handler[T]) HandleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page, limit := shared.ParsePage(r)
	items, pagination, err := h.Service.List(r.Context(), page, limit)
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	api.Page(w, h.Routes.Label+" forms fetched successfully", items, pagination, requestID)
}

func (h *Handler[T]) HandleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	rec, ok := h.owned(w, r)
	if !ok {
		return
	}
	api.SuccessMessage(w, h.Routes.Label+" fetched successfully", rec, requestID)
}

func (h *Handler[T]) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if h.Routes.UpdateDisabled {
		h.fail(w, onboarding.ErrUpdateDisabled, requestID)
		return
	}
	if _, ok := h.owned(w, r); !ok {
		return
	}
	form, err := h.Uploads.Parse(r)
	if err != nil {
		shared.FailUpload(w, err, h.Production, requestID)
		return
	}
	id := chi.URLParam(r, "id")
	rec, err := h.Service.Update(r.Context(), id, form.Fields, form.FirstFiles())
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionUpdate, h.entityType(), id)
	api.SuccessMessage(w, h.Routes.Label+" updated successfully", rec, requestID)
}

func (h *Handler[T]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := h.owned(w, r); !ok {
		return
	}
	id := chi.URLParam(r, "id")
	rec, err := h.Service.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionDelete, h.entityType(), id)
	api.SuccessMessage(w, h.Routes.Label+" deleted successfully", rec, requestID)
}

// HandlePDF streams the rendered form as an attachment. The link is mailed
// to the administrator, so it carries no bearer token.
func (h *Handler[T]) HandlePDF(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	doc, err := h.Service.RenderPDF(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Data); err != nil {
		slog.Warn("write pdf failed", "formType", h.Service.Type(), "err", err)
	}
}

// owned loads the {id} record. Employees only see their own records; any
// other record answers 404 as if it did not exist.
func (h *Handler[T]) owned(w http.ResponseWriter, r *http.Request) (T, bool) {
	requestID := middleware.GetRequestID(r.Context())
	rec, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err, requestID)
		return rec, false
	}
	user, _ := middleware.GetUser(r.Context())
	if user.Role != auth.RoleSuperAdmin && h.Service.Meta(rec).UserID != user.UserID {
		h.fail(w, onboarding.ErrNotFound, requestID)
		return rec, false
	}
	return rec, true
}

func (h *Handler[T]) fail(w http.ResponseWriter, err error, requestID string) {
	var invalid *onboarding.ValidationError
	switch {
	case errors.As(err, &invalid):
		api.FailWithDetails(w, http.StatusBadRequest, "invalid_submission", onboarding.ErrInvalidSubmission.Error(),
			map[string]any{"fields": []shared.ValidationIssue{{Field: invalid.Field, Reason: invalid.Reason}}}, requestID)
	case errors.Is(err, onboarding.ErrInvalidSubmission):
		api.Fail(w, http.StatusBadRequest, "invalid_submission", onboarding.ErrInvalidSubmission.Error(), requestID)
	case errors.Is(err, onboarding.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", h.Routes.Label+" form not found", requestID)
	case errors.Is(err, onboarding.ErrUpdateDisabled):
		api.Fail(w, http.StatusMethodNotAllowed, "update_disabled", onboarding.ErrUpdateDisabled.Error(), requestID)
	case errors.Is(err, onboarding.ErrRenderTimeout):
		api.Fail(w, http.StatusGatewayTimeout, "render_timeout", onboarding.ErrRenderTimeout.Error(), requestID)
	default:
		api.Internal(w, err, h.Production, requestID)
	}
}

func (h *Handler[T]) entityType() string {
	return h.Service.Type() + "_form"
}
