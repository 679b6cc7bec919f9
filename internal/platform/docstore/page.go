package docstore

import "context"

// Store is the subset of Collection the domain services depend on.
type Store interface {
	Insert(ctx context.Context, userID string, doc any) (Row, error)
	Get(ctx context.Context, id string) (Row, error)
	Latest(ctx context.Context, userID string) (Row, error)
	Page(ctx context.Context, userID string, limit, offset int) ([]Row, int, error)
	Count(ctx context.Context) (int, error)
	Replace(ctx context.Context, id string, doc any) (Row, error)
	Delete(ctx context.Context, id string) (Row, error)
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type Pagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"totalPages"`
	Total       int  `json:"total"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// NewPagination clamps page and limit and derives the page counters.
func NewPagination(page, limit, total int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		Total:       total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Fetch loads one page of documents newest first and decodes each row.
func Fetch[T any](ctx context.Context, store Store, userID string, page, limit int) ([]T, Pagination, error) {
	p := NewPagination(page, limit, 0)
	rows, total, err := store.Page(ctx, userID, p.Limit, p.Offset())
	if err != nil {
		return nil, Pagination{}, err
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		var item T
		if err := Decode(row, &item); err != nil {
			return nil, Pagination{}, err
		}
		out = append(out, item)
	}
	return out, NewPagination(p.Page, p.Limit, total), nil
}
