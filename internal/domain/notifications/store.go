package notifications

import (
	"context"

	"onboarding/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateNotification(ctx context.Context, n Notification) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO notifications (recipient, type, subject, link)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, n.Recipient, n.Type, n.Subject, n.Link).Scan(&id)
	return id, err
}

func (s *Store) MarkDelivered(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "UPDATE notifications SET delivered_at = now() WHERE id = $1", id)
	return err
}

func (s *Store) ListNotifications(ctx context.Context, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, recipient, type, subject, link, delivered_at, created_at
    FROM notifications
    ORDER BY created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Notification{}
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Recipient, &n.Type, &n.Subject, &n.Link, &n.DeliveredAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) CountNotifications(ctx context.Context) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM notifications").Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
