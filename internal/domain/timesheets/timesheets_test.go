package timesheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding/internal/platform/docstore/docstoretest"
)

const owner = "3c1e4c54-8d7b-4a4f-9b0e-0c6a2f1d9e11"

func sheetBody() map[string]string {
	return map[string]string{
		"firstName":       " Jane ",
		"lastName":        "Doe",
		"departmentName":  "Operations",
		"jobTitle":        "Intern",
		"address":         "1 Main St",
		"phoneNumber":     "5550100",
		"supervisorEmail": "boss@example.com",
		"supervisorPhone": "5550101",
	}
}

func sheetFiles() map[string]string {
	return map[string]string{
		FileSheet:     "/doc/week-1.pdf",
		FileSignature: "/image/sig.png",
	}
}

func TestCreateMapsUploads(t *testing.T) {
	svc := NewService(docstoretest.NewMemory())
	sheet, err := svc.Create(context.Background(), owner, sheetBody(), sheetFiles())
	require.NoError(t, err)

	assert.Equal(t, owner, sheet.UserID)
	assert.Equal(t, "Jane", sheet.FirstName)
	assert.Equal(t, "/doc/week-1.pdf", sheet.TimeSheetPdfOrImage)
	assert.Equal(t, "/image/sig.png", sheet.EmployeeSignature)
}

func TestCreateValidation(t *testing.T) {
	cases := []struct {
		name  string
		body  func() map[string]string
		files map[string]string
		field string
	}{
		{"missing sheet upload", sheetBody, map[string]string{FileSignature: "/image/sig.png"}, "timeSheetPdfOrImage"},
		{"missing signature", sheetBody, map[string]string{FileSheet: "/doc/w.pdf"}, "employeeSignature"},
		{"bad supervisor email", func() map[string]string {
			b := sheetBody()
			b["supervisorEmail"] = "boss"
			return b
		}, sheetFiles(), "supervisorEmail"},
		{"missing job title", func() map[string]string {
			b := sheetBody()
			delete(b, "jobTitle")
			return b
		}, sheetFiles(), "jobTitle"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(docstoretest.NewMemory())
			_, err := svc.Create(context.Background(), owner, tc.body(), tc.files)
			require.ErrorIs(t, err, ErrInvalidTimeSheet)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestUpdateKeepsStoredUploads(t *testing.T) {
	svc := NewService(docstoretest.NewMemory())
	ctx := context.Background()
	sheet, err := svc.Create(ctx, owner, sheetBody(), sheetFiles())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, sheet.ID, map[string]string{"jobTitle": "Analyst"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Analyst", updated.JobTitle)
	assert.Equal(t, "/doc/week-1.pdf", updated.TimeSheetPdfOrImage)
	assert.Equal(t, owner, updated.UserID)

	updated, err = svc.Update(ctx, sheet.ID, nil, map[string]string{FileSheet: "/doc/week-2.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "/doc/week-2.pdf", updated.TimeSheetPdfOrImage)
	assert.Equal(t, "/image/sig.png", updated.EmployeeSignature)

	_, err = svc.Update(ctx, sheet.ID, map[string]string{"supervisorEmail": "nope"}, nil)
	assert.ErrorIs(t, err, ErrInvalidTimeSheet)
}

func TestListIsScopedToOwner(t *testing.T) {
	svc := NewService(docstoretest.NewMemory())
	ctx := context.Background()
	_, err := svc.Create(ctx, owner, sheetBody(), sheetFiles())
	require.NoError(t, err)
	_, err = svc.Create(ctx, "9a1e4c54-8d7b-4a4f-9b0e-0c6a2f1d9e12", sheetBody(), sheetFiles())
	require.NoError(t, err)

	mine, page, err := svc.List(ctx, owner, 1, 10)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, 1, page.Total)

	all, _, err := svc.List(ctx, "", 1, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteMissing(t *testing.T) {
	svc := NewService(docstoretest.NewMemory())
	ctx := context.Background()
	sheet, err := svc.Create(ctx, owner, sheetBody(), sheetFiles())
	require.NoError(t, err)

	_, err = svc.Delete(ctx, sheet.ID)
	require.NoError(t, err)
	_, err = svc.Get(ctx, sheet.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Update(ctx, sheet.ID, nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
