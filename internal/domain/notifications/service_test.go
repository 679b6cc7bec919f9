package notifications

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	items     []Notification
	delivered []string
}

func (m *memoryStore) CreateNotification(ctx context.Context, n Notification) (string, error) {
	n.ID = fmt.Sprintf("n%d", len(m.items)+1)
	n.CreatedAt = time.Now()
	m.items = append(m.items, n)
	return n.ID, nil
}

func (m *memoryStore) MarkDelivered(ctx context.Context, id string) error {
	m.delivered = append(m.delivered, id)
	return nil
}

func (m *memoryStore) ListNotifications(ctx context.Context, limit, offset int) ([]Notification, error) {
	if offset >= len(m.items) {
		return []Notification{}, nil
	}
	return m.items[offset:min(offset+limit, len(m.items))], nil
}

func (m *memoryStore) CountNotifications(ctx context.Context) (int, error) {
	return len(m.items), nil
}

type sentMail struct {
	from, to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, from, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{from, to, subject, body})
	return nil
}

func TestNotifyAdminRecordsAndMails(t *testing.T) {
	store := &memoryStore{}
	mailer := &fakeMailer{}
	svc := New(store, mailer)
	svc.AdminEmail = "admin@example.com"
	svc.From = "forms@example.com"
	svc.Company = "CBYRAC, INC"

	link := "https://forms.example.com/api/v1/internForm/pdf/u1"
	require.NoError(t, svc.NotifyAdmin(context.Background(), "Intern Employee pdf", link))

	require.Len(t, store.items, 1)
	assert.Equal(t, TypeFormSubmitted, store.items[0].Type)
	assert.Equal(t, link, store.items[0].Link)
	assert.Equal(t, []string{"n1"}, store.delivered)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "forms@example.com", mailer.sent[0].from)
	assert.Equal(t, "admin@example.com", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].body, `href="https://forms.example.com/api/v1/internForm/pdf/u1"`)
	assert.Contains(t, mailer.sent[0].body, "CBYRAC, INC")
}

func TestNotifyAdminWithoutRecipientOnlyRecords(t *testing.T) {
	store := &memoryStore{}
	mailer := &fakeMailer{}
	svc := New(store, mailer)

	require.NoError(t, svc.NotifyAdmin(context.Background(), "subject", "link"))
	assert.Len(t, store.items, 1)
	assert.Empty(t, mailer.sent)
	assert.Empty(t, store.delivered)
}

func TestNotifyAdminMailFailureLeavesUndelivered(t *testing.T) {
	store := &memoryStore{}
	svc := New(store, &fakeMailer{err: errors.New("smtp down")})
	svc.AdminEmail = "admin@example.com"

	err := svc.NotifyAdmin(context.Background(), "subject", "link")
	require.Error(t, err)
	assert.Len(t, store.items, 1)
	assert.Empty(t, store.delivered)
}

func TestTemplateEscapesLink(t *testing.T) {
	body, err := renderPDFReady("Co", "<b>subject</b>", `javascript:alert("x")`)
	require.NoError(t, err)
	assert.NotContains(t, body, "<b>subject</b>")
	assert.NotContains(t, body, `javascript:alert`)
}

func TestListPaginates(t *testing.T) {
	store := &memoryStore{}
	svc := New(store, nil)
	for i := 0; i < 5; i++ {
		require.NoError(t, svc.NotifyAdmin(context.Background(), "s", "l"))
	}
	items, page, err := svc.List(context.Background(), 3, 2)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)
}
