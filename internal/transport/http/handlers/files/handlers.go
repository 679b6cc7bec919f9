package fileshandler

import (
	"context"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"onboarding/internal/domain/auth"
	"onboarding/internal/transport/http/api"
	"onboarding/internal/transport/http/middleware"
)

// Presigner issues a temporary download link for a mirrored upload key.
type Presigner interface {
	PresignedURL(ctx context.Context, key string) (string, error)
}

type Handler struct {
	Presigner  Presigner
	Production bool
}

func NewHandler(presigner Presigner, production bool) *Handler {
	return &Handler{Presigner: presigner, Production: production}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireRole(auth.RoleUser, auth.RoleSuperAdmin)).Get("/files/presign", h.handlePresign)
}

// handlePresign turns a stored reference such as /image/sig-1700000000000.png
// into a short lived object storage link.
func (h *Handler) handlePresign(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	key, ok := objectKey(r.URL.Query().Get("path"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_query", "path query parameter must reference an upload", requestID)
		return
	}
	url, err := h.Presigner.PresignedURL(r.Context(), key)
	if err != nil {
		api.Internal(w, err, h.Production, requestID)
		return
	}
	api.Success(w, map[string]string{"url": url}, requestID)
}

func objectKey(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.Contains(ref, "..") {
		return "", false
	}
	key := strings.TrimPrefix(path.Clean("/"+ref), "/")
	folder, name, found := strings.Cut(key, "/")
	if !found || name == "" || strings.Contains(name, "/") {
		return "", false
	}
	switch folder {
	case "image", "media", "doc":
		return key, true
	}
	return "", false
}
