package shared

import (
	"context"
	"net/http"

	"onboarding/internal/domain/audit"
	"onboarding/internal/transport/http/middleware"
)

type AuditLogger interface {
	Log(ctx context.Context, evt audit.Event)
}

// Audit records action on the entity for the calling user. A nil logger is
// a no-op.
func Audit(r *http.Request, logger AuditLogger, action, entityType, entityID string) {
	if logger == nil {
		return
	}
	evt := audit.Event{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  middleware.GetRequestID(r.Context()),
		IP:         middleware.ClientIP(r),
	}
	if user, ok := middleware.GetUser(r.Context()); ok {
		evt.ActorID = user.UserID
	}
	logger.Log(r.Context(), evt)
}
