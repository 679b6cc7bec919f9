package imagesetshandler

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"onboarding/internal/domain/imagesets"
	"onboarding/internal/platform/docstore/docstoretest"
	"onboarding/internal/platform/storage"
	"onboarding/internal/transport/http/handlers/handlertest"
	"onboarding/internal/transport/http/middleware"
	"onboarding/internal/transport/http/shared"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Auth(handlertest.Secret))
	uploader := shared.NewUploader(storage.NewLocal(t.TempDir(), nil), 1<<20)
	services := make([]Service, 0, len(imagesets.Kinds))
	for _, kind := range imagesets.Kinds {
		services = append(services, imagesets.NewService(kind, docstoretest.NewMemory()))
	}
	Mount(r, services, uploader, nil, false)
	return r
}

func image(name string) handlertest.File {
	return handlertest.File{Field: imagesets.FileField, Name: name, ContentType: "image/png", Data: handlertest.PNG}
}

func TestEveryKindIsMounted(t *testing.T) {
	h := newRouter(t)
	for _, kind := range imagesets.Kinds {
		path := Paths[kind.Name]
		t.Run(kind.Name, func(t *testing.T) {
			rr, env := handlertest.Do(t, h, http.MethodGet, path, "", nil, "")
			if rr.Code != http.StatusNotFound {
				t.Fatalf("expected 404 for empty %s, got %d", path, rr.Code)
			}
			if env.Message != kind.Label+" not found" {
				t.Fatalf("unexpected message %q", env.Message)
			}
		})
	}
}

func TestCalendarLifecycle(t *testing.T) {
	h := newRouter(t)

	body, ct := handlertest.Multipart(t, map[string]string{"example": " 2024 "}, image("Jan.png"), image("Feb.png"))
	rr, env := handlertest.Do(t, h, http.MethodPost, "/calendar", "", body, ct)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var created imagesets.ImageSet
	handlertest.Decode(t, env, &created)
	if len(created.Images) != 2 || created.Example != "2024" {
		t.Fatalf("unexpected set %+v", created)
	}

	rr, env = handlertest.Do(t, h, http.MethodGet, "/calendar", "", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var latest imagesets.ImageSet
	handlertest.Decode(t, env, &latest)
	if latest.ID != created.ID {
		t.Fatalf("expected latest %s, got %s", created.ID, latest.ID)
	}

	replace, rct := handlertest.Multipart(t, nil, image("Mar.png"))
	rr, env = handlertest.Do(t, h, http.MethodPut, "/calendar/"+created.ID, "", replace, rct)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var replaced imagesets.ImageSet
	handlertest.Decode(t, env, &replaced)
	if len(replaced.Images) != 1 || replaced.Example != "2024" {
		t.Fatalf("unexpected replacement %+v", replaced)
	}

	rr, _ = handlertest.Do(t, h, http.MethodDelete, "/calendar/"+created.ID, "", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	rr, _ = handlertest.Do(t, h, http.MethodGet, "/calendar/"+created.ID, "", nil, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rr.Code)
	}
}

func TestCreateWithoutImages(t *testing.T) {
	h := newRouter(t)
	body, ct := handlertest.Multipart(t, map[string]string{"example": "nothing"})
	rr, env := handlertest.Do(t, h, http.MethodPost, "/adminForms/i9form", "", body, ct)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if env.Message != "No images uploaded" {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestCreateRejectsTooManyImages(t *testing.T) {
	h := newRouter(t)
	body, ct := handlertest.Multipart(t, nil, image("1.png"), image("2.png"), image("3.png"), image("4.png"))
	rr, _ := handlertest.Do(t, h, http.MethodPost, "/example/w4", "", body, ct)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
