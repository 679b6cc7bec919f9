package notificationshandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"onboarding/internal/domain/auth"
	"onboarding/internal/domain/notifications"
	"onboarding/internal/platform/docstore"
	"onboarding/internal/transport/http/api"
	"onboarding/internal/transport/http/middleware"
	"onboarding/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, page, limit int) ([]notifications.Notification, docstore.Pagination, error)
}

type Handler struct {
	Service    Service
	Production bool
}

func NewHandler(service Service, production bool) *Handler {
	return &Handler{Service: service, Production: production}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireRole(auth.RoleSuperAdmin)).Get("/admin/notifications", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page, limit := shared.ParsePage(r)
	items, pagination, err := h.Service.List(r.Context(), page, limit)
	if err != nil {
		api.Internal(w, err, h.Production, requestID)
		return
	}
	api.Page(w, "Notifications fetched successfully", items, pagination, requestID)
}
