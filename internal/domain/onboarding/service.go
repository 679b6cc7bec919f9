package onboarding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"onboarding/internal/domain/formdata"
	"onboarding/internal/platform/docstore"
	"onboarding/internal/platform/jobs"
	"onboarding/internal/platform/pdf"
)

// Renderer turns a laid-out document into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, doc pdf.Document) ([]byte, error)
}

// Notifier tells the administrator that a new form is ready.
type Notifier interface {
	NotifyAdmin(ctx context.Context, subject, link string) error
}

// Enqueuer runs work after the request has been answered.
type Enqueuer interface {
	Enqueue(jobType string, run func(context.Context) (any, error)) bool
	RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error)
}

type Recorder interface {
	RecordSubmission(accepted bool)
	RecordRender(duration time.Duration, err error)
}

// Form describes one onboarding record family.
type Form[T any] struct {
	Type      string
	Family    string
	Slots     []Slot
	Assemble  func(body map[string]any, uploaded map[string]string) (T, error)
	Layout    func(T) pdf.Document
	Meta      func(T) docstore.Meta
	Surname   func(T) string
	Updatable bool
}

var InternForm = Form[Intern]{
	Type:      TypeIntern,
	Family:    "internForm",
	Slots:     slotsIntern,
	Assemble:  AssembleIntern,
	Layout:    InternDocument,
	Meta:      func(r Intern) docstore.Meta { return r.Meta },
	Surname:   func(r Intern) string { return r.GeneralInfo.LastName },
	Updatable: true,
}

var TemporaryForm = Form[Temporary]{
	Type:     TypeTemporary,
	Family:   "temporaryForm",
	Slots:    slotsTemporary,
	Assemble: AssembleTemporary,
	Layout:   TemporaryDocument,
	Meta:     func(r Temporary) docstore.Meta { return r.Meta },
	Surname:  func(r Temporary) string { return r.GeneralInfo.LastName },
}

type Service[T any] struct {
	form          Form[T]
	store         docstore.Store
	Renderer      Renderer
	Notifier      Notifier
	Jobs          Enqueuer
	Metrics       Recorder
	PublicBaseURL string
	RenderTimeout time.Duration
}

func NewService[T any](form Form[T], store docstore.Store, renderer Renderer) *Service[T] {
	return &Service[T]{
		form:          form,
		store:         store,
		Renderer:      renderer,
		RenderTimeout: 15 * time.Second,
	}
}

func NewInternService(store docstore.Store, renderer Renderer) *Service[Intern] {
	return NewService(InternForm, store, renderer)
}

func NewTemporaryService(store docstore.Store, renderer Renderer) *Service[Temporary] {
	return NewService(TemporaryForm, store, renderer)
}

func (s *Service[T]) Type() string {
	return s.form.Type
}

// Meta exposes the id, owner and timestamps of rec.
func (s *Service[T]) Meta(rec T) docstore.Meta {
	return s.form.Meta(rec)
}

// Submit assembles and stores a new record for userID. body holds the cleaned
// flat form fields and uploaded the stored paths keyed by multipart field.
// Nothing is stored when the submission is invalid.
func (s *Service[T]) Submit(ctx context.Context, userID string, body, uploaded map[string]string) (T, error) {
	var zero T
	tree, err := formdata.Parse(s.stripFileKeys(body))
	if err != nil {
		s.recordSubmission(false)
		return zero, &ValidationError{Field: "body", Reason: err.Error()}
	}
	rec, err := s.form.Assemble(tree, uploaded)
	if err != nil {
		s.recordSubmission(false)
		return zero, err
	}

	row, err := s.store.Insert(ctx, userID, rec)
	if err != nil {
		return zero, fmt.Errorf("store %s form: %w", s.form.Type, err)
	}
	s.recordSubmission(true)
	if err := docstore.Decode(row, &rec); err != nil {
		return zero, err
	}
	s.notify(userID)
	return rec, nil
}

// Latest returns the caller's most recent record.
func (s *Service[T]) Latest(ctx context.Context, userID string) (T, error) {
	return s.load(s.store.Latest(ctx, userID))
}

func (s *Service[T]) Get(ctx context.Context, id string) (T, error) {
	return s.load(s.store.Get(ctx, id))
}

// List pages through every record, newest first.
func (s *Service[T]) List(ctx context.Context, page, limit int) ([]T, docstore.Pagination, error) {
	return docstore.Fetch[T](ctx, s.store, "", page, limit)
}

// Update merges body over the stored record and re-assembles it, so the
// result passes the same validation as a new submission. New uploads replace
// the stored path of their slot; other paths are kept.
func (s *Service[T]) Update(ctx context.Context, id string, body, uploaded map[string]string) (T, error) {
	var zero T
	if !s.form.Updatable {
		return zero, ErrUpdateDisabled
	}
	row, err := s.store.Get(ctx, id)
	if err != nil {
		return zero, mapStoreErr(err)
	}
	flat, err := flattenPayload(row.Payload)
	if err != nil {
		return zero, err
	}
	for k, v := range s.stripFileKeys(body) {
		flat[k] = v
	}
	tree, err := formdata.Parse(flat)
	if err != nil {
		return zero, &ValidationError{Field: "body", Reason: err.Error()}
	}
	rec, err := s.form.Assemble(tree, uploaded)
	if err != nil {
		return zero, err
	}
	row, err = s.store.Replace(ctx, id, rec)
	if err != nil {
		return zero, mapStoreErr(err)
	}
	if err := docstore.Decode(row, &rec); err != nil {
		return zero, err
	}
	return rec, nil
}

// Delete removes the record and returns it. Uploaded files stay on disk.
func (s *Service[T]) Delete(ctx context.Context, id string) (T, error) {
	return s.load(s.store.Delete(ctx, id))
}

// RenderPDF renders the record with id key, or the latest record of the
// user with id key. Rendering is bounded by RenderTimeout.
func (s *Service[T]) RenderPDF(ctx context.Context, key string) (PDF, error) {
	rec, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		rec, err = s.Latest(ctx, key)
	}
	if err != nil {
		return PDF{}, err
	}
	if s.Renderer == nil {
		return PDF{}, errors.New("pdf renderer not configured")
	}

	timeout := s.RenderTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	renderCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	data, err := s.Renderer.Render(renderCtx, s.form.Layout(rec))
	if s.Metrics != nil {
		s.Metrics.RecordRender(time.Since(start), err)
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return PDF{}, ErrRenderTimeout
	}
	if err != nil {
		return PDF{}, fmt.Errorf("render %s form: %w", s.form.Type, err)
	}
	return PDF{Filename: s.Filename(rec), Data: data}, nil
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

// Filename is "<lastname>-<form type>-<YYYY-MM-DD>.pdf" dated by the record's
// creation.
func (s *Service[T]) Filename(rec T) string {
	surname := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(s.form.Surname(rec)), "-"), "-")
	if surname == "" {
		surname = "employee"
	}
	return fmt.Sprintf("%s-%s-%s.pdf", surname, s.form.Type, s.form.Meta(rec).CreatedAt.UTC().Format("2006-01-02"))
}

// PDFLink is the public link to the latest rendered form of userID.
func (s *Service[T]) PDFLink(userID string) string {
	return fmt.Sprintf("%s/api/v1/%s/pdf/%s", strings.TrimRight(s.PublicBaseURL, "/"), s.form.Family, userID)
}

func (s *Service[T]) notify(userID string) {
	if s.Notifier == nil {
		return
	}
	subject := fmt.Sprintf("New %s form submitted", s.form.Type)
	link := s.PDFLink(userID)
	run := func(ctx context.Context) (any, error) {
		return map[string]any{"link": link}, s.Notifier.NotifyAdmin(ctx, subject, link)
	}
	if s.Jobs != nil && s.Jobs.Enqueue(jobs.JobAdminNotification, run) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var err error
	if s.Jobs != nil {
		_, err = s.Jobs.RunNow(ctx, jobs.JobAdminNotification, run)
	} else {
		_, err = run(ctx)
	}
	if err != nil {
		slog.Warn("admin notification failed", "formType", s.form.Type, "err", err)
	}
}

func (s *Service[T]) recordSubmission(accepted bool) {
	if s.Metrics != nil {
		s.Metrics.RecordSubmission(accepted)
	}
}

// stripFileKeys drops body fields that address an upload slot; slot paths
// only come from stored uploads.
func (s *Service[T]) stripFileKeys(body map[string]string) map[string]string {
	out := make(map[string]string, len(body))
	for k, v := range body {
		out[k] = v
	}
	for _, slot := range s.form.Slots {
		for logical := range slot.Files {
			delete(out, slot.Path+"."+logical)
		}
	}
	return out
}

func (s *Service[T]) load(row docstore.Row, err error) (T, error) {
	var rec T
	if err != nil {
		return rec, mapStoreErr(err)
	}
	if err := docstore.Decode(row, &rec); err != nil {
		return rec, err
	}
	return rec, nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// flattenPayload turns a stored record back into flat form fields. Numbers
// keep their exact digits and record metadata is dropped.
func flattenPayload(payload []byte) (map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var tree map[string]any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("decode stored form: %w", err)
	}
	for _, key := range []string{"id", "userId", "createdAt", "updatedAt"} {
		delete(tree, key)
	}
	return formdata.Flatten(tree), nil
}
