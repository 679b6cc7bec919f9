package audithandler

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"onboarding/internal/domain/audit"
	"onboarding/internal/domain/auth"
	"onboarding/internal/transport/http/handlers/handlertest"
	"onboarding/internal/transport/http/middleware"
)

type fakeService struct {
	events     []audit.Event
	lastFilter audit.Filter
	lastLimit  int
	lastOffset int
}

func (f *fakeService) Count(ctx context.Context, filter audit.Filter) (int, error) {
	return len(f.events), nil
}

func (f *fakeService) List(ctx context.Context, filter audit.Filter, limit, offset int) ([]audit.Event, error) {
	f.lastFilter, f.lastLimit, f.lastOffset = filter, limit, offset
	return f.events, nil
}

func newRouter(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Auth(handlertest.Secret))
	NewHandler(svc, false).RegisterRoutes(r)
	return r
}

func sampleEvents() []audit.Event {
	return []audit.Event{{
		ID: "e1", ActorID: "u1", Action: audit.ActionCreate, EntityType: "intern_form", EntityID: "f1",
		RequestID: "req-1", IP: "10.0.0.1", CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}}
}

func TestListEventsAppliesFilterAndPage(t *testing.T) {
	svc := &fakeService{events: sampleEvents()}
	admin := handlertest.Token(t, "admin", auth.RoleSuperAdmin)

	rr, env := handlertest.Do(t, newRouter(svc), http.MethodGet, "/admin/audit/events?action=create&entityType=intern_form&page=3&limit=20", admin, nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Header().Get("X-Total-Count") != "1" {
		t.Fatalf("expected total header 1, got %q", rr.Header().Get("X-Total-Count"))
	}
	if svc.lastFilter.Action != "create" || svc.lastFilter.EntityType != "intern_form" {
		t.Fatalf("unexpected filter %+v", svc.lastFilter)
	}
	if svc.lastLimit != 20 || svc.lastOffset != 40 {
		t.Fatalf("expected limit 20 offset 40, got %d %d", svc.lastLimit, svc.lastOffset)
	}
	if env.Pagination == nil || env.Pagination.Page != 3 {
		t.Fatalf("unexpected pagination %+v", env.Pagination)
	}
}

func TestExportEventsWritesCSV(t *testing.T) {
	svc := &fakeService{events: sampleEvents()}
	admin := handlertest.Token(t, "admin", auth.RoleSuperAdmin)

	rr, _ := handlertest.Do(t, newRouter(svc), http.MethodGet, "/admin/audit/events/export", admin, nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("expected text/csv, got %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", rr.Body.String())
	}
	if lines[1] != "e1,u1,create,intern_form,f1,req-1,10.0.0.1,2024-03-01T12:00:00Z" {
		t.Fatalf("unexpected row %q", lines[1])
	}
	if svc.lastLimit != exportLimit {
		t.Fatalf("expected export limit %d, got %d", exportLimit, svc.lastLimit)
	}
}

func TestAuditRequiresAdmin(t *testing.T) {
	rr, _ := handlertest.Do(t, newRouter(&fakeService{}), http.MethodGet, "/admin/audit/events", handlertest.Token(t, "u1", auth.RoleUser), nil, "")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}
