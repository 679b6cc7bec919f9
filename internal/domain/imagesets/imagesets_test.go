package imagesets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding/internal/platform/docstore/docstoretest"
)

func TestCreateRequiresImages(t *testing.T) {
	store := docstoretest.NewMemory()
	svc := NewService(Calendar, store)

	_, err := svc.Create(context.Background(), "", nil, "")
	assert.ErrorIs(t, err, ErrMissingImages)
	_, err = svc.Create(context.Background(), "", []string{" "}, "")
	assert.ErrorIs(t, err, ErrMissingImages)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLatestReturnsNewestSet(t *testing.T) {
	svc := NewService(AdminI9, docstoretest.NewMemory())
	ctx := context.Background()

	_, err := svc.Latest(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(ctx, "", []string{"/image/a.png"}, "")
	require.NoError(t, err)
	second, err := svc.Create(ctx, "", []string{"/image/b.png", "/doc/b.pdf"}, " sample ")
	require.NoError(t, err)

	latest, err := svc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, []string{"/image/b.png", "/doc/b.pdf"}, latest.Images)
	assert.Equal(t, "sample", latest.Example)
}

func TestReplaceKeepsWhatWasNotSent(t *testing.T) {
	svc := NewService(AdminTimeSheet, docstoretest.NewMemory())
	ctx := context.Background()
	set, err := svc.Create(ctx, "", []string{"/image/a.png"}, "first")
	require.NoError(t, err)

	updated, err := svc.Replace(ctx, set.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/image/a.png"}, updated.Images)
	assert.Equal(t, "first", updated.Example)

	example := "second"
	updated, err = svc.Replace(ctx, set.ID, []string{"/image/c.png"}, &example)
	require.NoError(t, err)
	assert.Equal(t, []string{"/image/c.png"}, updated.Images)
	assert.Equal(t, "second", updated.Example)
	assert.Equal(t, set.ID, updated.ID)
}

func TestGetDeleteMissing(t *testing.T) {
	svc := NewService(ExampleW4, docstoretest.NewMemory())
	ctx := context.Background()
	set, err := svc.Create(ctx, "", []string{"/image/w4.png"}, "")
	require.NoError(t, err)

	got, err := svc.Get(ctx, set.ID)
	require.NoError(t, err)
	assert.Equal(t, set.Images, got.Images)

	_, err = svc.Delete(ctx, set.ID)
	require.NoError(t, err)
	_, err = svc.Delete(ctx, set.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Replace(ctx, set.ID, []string{"/image/x.png"}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKindsHaveDistinctTables(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range Kinds {
		assert.False(t, seen[k.Table], k.Table)
		seen[k.Table] = true
	}
	assert.Len(t, seen, 6)
}
