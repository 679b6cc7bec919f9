package adminforms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"onboarding/internal/platform/docstore"
)

type Service struct {
	store    docstore.Store
	validate *validator.Validate
}

func NewService(store docstore.Store) *Service {
	return &Service{store: store, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Create stores a job form; receivedBy is the stored path of the uploaded
// receipt and is required.
func (s *Service) Create(ctx context.Context, userID string, body map[string]string, receivedBy string) (JobForm, error) {
	values := copyFields(body)
	values["receivedBy"] = receivedBy
	form, err := s.check(values)
	if err != nil {
		return JobForm{}, err
	}
	row, err := s.store.Insert(ctx, userID, form)
	if err != nil {
		return JobForm{}, fmt.Errorf("store admin job form: %w", err)
	}
	if err := docstore.Decode(row, &form); err != nil {
		return JobForm{}, err
	}
	return form, nil
}

func (s *Service) List(ctx context.Context, page, limit int) ([]JobForm, docstore.Pagination, error) {
	return docstore.Fetch[JobForm](ctx, s.store, "", page, limit)
}

func (s *Service) Get(ctx context.Context, id string) (JobForm, error) {
	return load(s.store.Get(ctx, id))
}

// Update overlays the submitted fields on the stored form. A new receipt
// upload replaces receivedBy; otherwise the stored one is kept.
func (s *Service) Update(ctx context.Context, id string, body map[string]string, receivedBy string) (JobForm, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return JobForm{}, err
	}
	values := fields(current)
	for k, v := range body {
		if k == "receivedBy" {
			continue
		}
		values[k] = v
	}
	if receivedBy != "" {
		values["receivedBy"] = receivedBy
	}
	form, err := s.check(values)
	if err != nil {
		return JobForm{}, err
	}
	row, err := s.store.Replace(ctx, id, form)
	if err != nil {
		return JobForm{}, mapStoreErr(err)
	}
	if err := docstore.Decode(row, &form); err != nil {
		return JobForm{}, err
	}
	return form, nil
}

func (s *Service) Delete(ctx context.Context, id string) (JobForm, error) {
	return load(s.store.Delete(ctx, id))
}

func (s *Service) check(values map[string]string) (JobForm, error) {
	form, err := parseForm(values)
	if err != nil {
		return JobForm{}, err
	}
	if err := s.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return JobForm{}, &ValidationError{Field: lowerFirst(verrs[0].Field()), Reason: reason(verrs[0])}
		}
		return JobForm{}, err
	}
	return form, nil
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "must be at least " + fe.Param()
	}
	return "is invalid"
}

func lowerFirst(s string) string {
	switch s {
	case "WCCode":
		return "wcCode"
	case "OTRate":
		return "otRate"
	}
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func copyFields(body map[string]string) map[string]string {
	out := make(map[string]string, len(body)+1)
	for k, v := range body {
		out[k] = v
	}
	return out
}

func load(row docstore.Row, err error) (JobForm, error) {
	if err != nil {
		return JobForm{}, mapStoreErr(err)
	}
	var form JobForm
	if err := docstore.Decode(row, &form); err != nil {
		return JobForm{}, err
	}
	return form, nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
