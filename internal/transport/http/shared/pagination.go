package shared

import (
	"net/http"
	"strconv"

	"onboarding/internal/platform/docstore"
)

// ParsePage reads ?page= and ?limit=. Missing or malformed values fall back
// to the first page of docstore.DefaultPageLimit items; limits above
// docstore.MaxPageLimit are capped.
func ParsePage(r *http.Request) (page, limit int) {
	page, limit = 1, docstore.DefaultPageLimit
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > docstore.MaxPageLimit {
		limit = docstore.MaxPageLimit
	}
	return page, limit
}
