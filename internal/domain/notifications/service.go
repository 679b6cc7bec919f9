package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"onboarding/internal/platform/docstore"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Service struct {
	store      StoreAPI
	Mailer     Mailer
	From       string
	AdminEmail string
	Company    string
}

func New(store StoreAPI, mailer Mailer) *Service {
	return &Service{store: store, Mailer: mailer, From: defaultFrom}
}

// NotifyAdmin records a "PDF ready" notice for the administrator and mails
// it when a mailer and admin address are configured. The row is marked
// delivered only after the mail was accepted.
func (s *Service) NotifyAdmin(ctx context.Context, subject, link string) error {
	recipient := strings.TrimSpace(s.AdminEmail)
	id, err := s.store.CreateNotification(ctx, Notification{
		Recipient: recipient,
		Type:      TypeFormSubmitted,
		Subject:   subject,
		Link:      link,
	})
	if err != nil {
		return fmt.Errorf("record notification: %w", err)
	}
	if s.Mailer == nil || recipient == "" {
		return nil
	}

	body, err := renderPDFReady(s.Company, subject, link)
	if err != nil {
		return err
	}
	from := s.From
	if from == "" {
		from = defaultFrom
	}
	if err := s.Mailer.Send(ctx, from, recipient, subject, body); err != nil {
		return fmt.Errorf("send admin notification: %w", err)
	}
	if err := s.store.MarkDelivered(ctx, id); err != nil {
		slog.Warn("notification mark delivered failed", "id", id, "err", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, page, limit int) ([]Notification, docstore.Pagination, error) {
	p := docstore.NewPagination(page, limit, 0)
	items, err := s.store.ListNotifications(ctx, p.Limit, p.Offset())
	if err != nil {
		return nil, docstore.Pagination{}, err
	}
	total, err := s.store.CountNotifications(ctx)
	if err != nil {
		return nil, docstore.Pagination{}, err
	}
	return items, docstore.NewPagination(p.Page, p.Limit, total), nil
}
