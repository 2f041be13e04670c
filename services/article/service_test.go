package article

import (
	"context"
	"testing"

	"github.com/scribe-app/scribe/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *Service {
	t.Helper()
	return NewService(testutils.SetupTestDB(t, &Article{}))
}

func TestService_CreateAndGet(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "Hello", "First post", "a@example.com")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "a@example.com", got.Author)

	_, err = svc.Get(ctx, 999)
	testutils.AssertErrorType(t, ErrNotFound, err)

	_, err = svc.Create(ctx, "", "no title", "a@example.com")
	testutils.AssertErrorType(t, ErrEmptyTitle, err)
}

func TestService_List(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	articles, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, articles)

	_, err = svc.Create(ctx, "One", "", "a@example.com")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Two", "", "b@example.com")
	require.NoError(t, err)

	articles, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "One", articles[0].Title)
	assert.Equal(t, "Two", articles[1].Title)
}

func TestService_Update(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "Before", "old", "a@example.com")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, "After", "new")
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Title)
	assert.Equal(t, "new", updated.Content)

	_, err = svc.Update(ctx, 999, "X", "Y")
	testutils.AssertErrorType(t, ErrNotFound, err)
}

func TestService_Delete(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "Doomed", "", "a@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	testutils.AssertErrorType(t, ErrNotFound, err)

	testutils.AssertErrorType(t, ErrNotFound, svc.Delete(ctx, created.ID))
}
