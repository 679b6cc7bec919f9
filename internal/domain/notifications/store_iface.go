package notifications

import "context"

type StoreAPI interface {
	CreateNotification(ctx context.Context, n Notification) (string, error)
	MarkDelivered(ctx context.Context, id string) error
	ListNotifications(ctx context.Context, limit, offset int) ([]Notification, error)
	CountNotifications(ctx context.Context) (int, error)
}

var _ StoreAPI = (*Store)(nil)
