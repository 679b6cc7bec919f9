// Package docstoretest provides an in-memory docstore.Store for tests.
package docstoretest

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"onboarding/internal/platform/docstore"
)

type Memory struct {
	mu   sync.Mutex
	rows map[string]docstore.Row
	seq  int
	// Now stamps inserted rows; each insert advances it by a second so
	// ordering is stable.
	Now time.Time
	// Err, when set, is returned by every call.
	Err error
}

func NewMemory() *Memory {
	return &Memory{
		rows: map[string]docstore.Row{},
		Now:  time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
	}
}

func (m *Memory) Insert(ctx context.Context, userID string, doc any) (docstore.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return docstore.Row{}, m.Err
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return docstore.Row{}, err
	}
	m.seq++
	ts := m.Now.Add(time.Duration(m.seq) * time.Second)
	row := docstore.Row{
		Meta:    docstore.Meta{ID: uuid.NewString(), UserID: userID, CreatedAt: ts, UpdatedAt: ts},
		Payload: payload,
	}
	m.rows[row.ID] = row
	return row, nil
}

func (m *Memory) Get(ctx context.Context, id string) (docstore.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return docstore.Row{}, m.Err
	}
	row, ok := m.rows[id]
	if !ok {
		return docstore.Row{}, docstore.ErrNotFound
	}
	return row, nil
}

func (m *Memory) Latest(ctx context.Context, userID string) (docstore.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return docstore.Row{}, m.Err
	}
	rows := m.sorted(userID)
	if len(rows) == 0 {
		return docstore.Row{}, docstore.ErrNotFound
	}
	return rows[0], nil
}

func (m *Memory) Page(ctx context.Context, userID string, limit, offset int) ([]docstore.Row, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, 0, m.Err
	}
	rows := m.sorted(userID)
	total := len(rows)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return rows[offset:end], total, nil
}

func (m *Memory) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.rows), nil
}

func (m *Memory) Replace(ctx context.Context, id string, doc any) (docstore.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return docstore.Row{}, m.Err
	}
	row, ok := m.rows[id]
	if !ok {
		return docstore.Row{}, docstore.ErrNotFound
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return docstore.Row{}, err
	}
	row.Payload = payload
	row.UpdatedAt = row.UpdatedAt.Add(time.Minute)
	m.rows[id] = row
	return row, nil
}

func (m *Memory) Delete(ctx context.Context, id string) (docstore.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return docstore.Row{}, m.Err
	}
	row, ok := m.rows[id]
	if !ok {
		return docstore.Row{}, docstore.ErrNotFound
	}
	delete(m.rows, id)
	return row, nil
}

func (m *Memory) sorted(userID string) []docstore.Row {
	out := make([]docstore.Row, 0, len(m.rows))
	for _, row := range m.rows {
		if userID == "" || row.UserID == userID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
