package docstore

import "testing"

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name             string
		page, limit, tot int
		want             Pagination
	}{
		{"first page", 1, 10, 25, Pagination{Page: 1, Limit: 10, TotalPages: 3, Total: 25, HasNextPage: true}},
		{"last page", 3, 10, 25, Pagination{Page: 3, Limit: 10, TotalPages: 3, Total: 25, HasPrevPage: true}},
		{"empty", 1, 10, 0, Pagination{Page: 1, Limit: 10}},
		{"clamped", 0, 1000, 5, Pagination{Page: 1, Limit: MaxPageLimit, TotalPages: 1, Total: 5}},
		{"default limit", 2, 0, 15, Pagination{Page: 2, Limit: DefaultPageLimit, TotalPages: 2, Total: 15, HasPrevPage: true}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := NewPagination(tc.page, tc.limit, tc.tot)
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	if got := NewPagination(3, 20, 100).Offset(); got != 40 {
		t.Fatalf("expected offset 40, got %d", got)
	}
}
