// Package timesheets holds the weekly time sheets employees submit together
// with a scanned or photographed sheet and their signature.
package timesheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"onboarding/internal/platform/docstore"
)

const Table = "weekly_timesheets"

// Upload fields and the record fields they fill.
const (
	FileSheet     = "timeSheetPdfOrImage"
	FileSignature = "employeeSignature1"
)

var (
	ErrNotFound         = errors.New("time sheet not found")
	ErrInvalidTimeSheet = errors.New("invalid time sheet")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidTimeSheet
}

type TimeSheet struct {
	docstore.Meta
	FirstName           string `json:"firstName" validate:"required"`
	LastName            string `json:"lastName" validate:"required"`
	DepartmentName      string `json:"departmentName" validate:"required"`
	JobTitle            string `json:"jobTitle" validate:"required"`
	Address             string `json:"address" validate:"required"`
	PhoneNumber         string `json:"phoneNumber" validate:"required"`
	SupervisorEmail     string `json:"supervisorEmail" validate:"required,email"`
	SupervisorPhone     string `json:"supervisorPhone" validate:"required"`
	TimeSheetPdfOrImage string `json:"timeSheetPdfOrImage" validate:"required"`
	EmployeeSignature   string `json:"employeeSignature" validate:"required"`
}

type Service struct {
	store    docstore.Store
	validate *validator.Validate
}

func NewService(store docstore.Store) *Service {
	return &Service{store: store, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Create stores a sheet for userID. files maps upload fields to stored paths.
func (s *Service) Create(ctx context.Context, userID string, body, files map[string]string) (TimeSheet, error) {
	sheet := fromFields(body)
	sheet.TimeSheetPdfOrImage = files[FileSheet]
	sheet.EmployeeSignature = files[FileSignature]
	if err := s.check(sheet); err != nil {
		return TimeSheet{}, err
	}
	row, err := s.store.Insert(ctx, userID, sheet)
	if err != nil {
		return TimeSheet{}, fmt.Errorf("store time sheet: %w", err)
	}
	return decode(row)
}

// List pages through the sheets of userID, or every sheet when userID is
// empty.
func (s *Service) List(ctx context.Context, userID string, page, limit int) ([]TimeSheet, docstore.Pagination, error) {
	return docstore.Fetch[TimeSheet](ctx, s.store, userID, page, limit)
}

func (s *Service) Get(ctx context.Context, id string) (TimeSheet, error) {
	return load(s.store.Get(ctx, id))
}

// Update overlays the sent text fields. New uploads replace the stored
// paths; without an upload the stored path is kept.
func (s *Service) Update(ctx context.Context, id string, body, files map[string]string) (TimeSheet, error) {
	sheet, err := s.Get(ctx, id)
	if err != nil {
		return TimeSheet{}, err
	}
	meta := sheet.Meta
	patch := fromFields(body)
	overlay(&sheet.FirstName, patch.FirstName)
	overlay(&sheet.LastName, patch.LastName)
	overlay(&sheet.DepartmentName, patch.DepartmentName)
	overlay(&sheet.JobTitle, patch.JobTitle)
	overlay(&sheet.Address, patch.Address)
	overlay(&sheet.PhoneNumber, patch.PhoneNumber)
	overlay(&sheet.SupervisorEmail, patch.SupervisorEmail)
	overlay(&sheet.SupervisorPhone, patch.SupervisorPhone)
	overlay(&sheet.TimeSheetPdfOrImage, files[FileSheet])
	overlay(&sheet.EmployeeSignature, files[FileSignature])
	if err := s.check(sheet); err != nil {
		return TimeSheet{}, err
	}
	sheet.Meta = docstore.Meta{}
	row, err := s.store.Replace(ctx, meta.ID, sheet)
	if err != nil {
		return TimeSheet{}, mapStoreErr(err)
	}
	return decode(row)
}

func (s *Service) Delete(ctx context.Context, id string) (TimeSheet, error) {
	return load(s.store.Delete(ctx, id))
}

func (s *Service) check(sheet TimeSheet) error {
	err := s.validate.Struct(sheet)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	reason := "is required"
	if fe.Tag() == "email" {
		reason = "must be a valid email"
	}
	return &ValidationError{Field: strings.ToLower(fe.Field()[:1]) + fe.Field()[1:], Reason: reason}
}

func fromFields(body map[string]string) TimeSheet {
	get := func(key string) string { return strings.TrimSpace(body[key]) }
	return TimeSheet{
		FirstName:       get("firstName"),
		LastName:        get("lastName"),
		DepartmentName:  get("departmentName"),
		JobTitle:        get("jobTitle"),
		Address:         get("address"),
		PhoneNumber:     get("phoneNumber"),
		SupervisorEmail: get("supervisorEmail"),
		SupervisorPhone: get("supervisorPhone"),
	}
}

func overlay(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func load(row docstore.Row, err error) (TimeSheet, error) {
	if err != nil {
		return TimeSheet{}, mapStoreErr(err)
	}
	return decode(row)
}

func decode(row docstore.Row) (TimeSheet, error) {
	var sheet TimeSheet
	if err := docstore.Decode(row, &sheet); err != nil {
		return TimeSheet{}, err
	}
	return sheet, nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
