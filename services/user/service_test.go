package user

import (
	"context"
	"sync"
	"testing"

	"github.com/scribe-app/scribe/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *Service {
	t.Helper()
	db := testutils.SetupTestDB(t, &User{})
	return NewService(db, testutils.GetTestConfig(), nil)
}

func TestService_Upsert(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	t.Run("creates on first login", func(t *testing.T) {
		u, err := svc.Upsert(ctx, "new@example.com", "New User")

		require.NoError(t, err)
		assert.NotZero(t, u.ID)
		assert.Equal(t, "new@example.com", u.Email)
		assert.Equal(t, "New User", u.Nickname)
	})

	t.Run("updates display name on later logins", func(t *testing.T) {
		first, err := svc.Upsert(ctx, "again@example.com", "Old Name")
		require.NoError(t, err)

		second, err := svc.Upsert(ctx, "again@example.com", "New Name")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "New Name", second.Nickname)

		var count int64
		require.NoError(t, svc.db.Model(&User{}).Where("email = ?", "again@example.com").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("empty email rejected", func(t *testing.T) {
		_, err := svc.Upsert(ctx, "", "name")
		testutils.AssertErrorType(t, ErrEmptyEmail, err)
	})

	t.Run("concurrent first logins create exactly one user", func(t *testing.T) {
		const workers = 8
		var wg sync.WaitGroup
		wg.Add(workers)
		for i := 0; i < workers; i++ {
			go func() {
				defer wg.Done()
				_, _ = svc.Upsert(ctx, "race@example.com", "Racer")
			}()
		}
		wg.Wait()

		var count int64
		require.NoError(t, svc.db.Model(&User{}).Where("email = ?", "race@example.com").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestService_Create(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	t.Run("hashes the password", func(t *testing.T) {
		u, err := svc.Create(ctx, "local@example.com", "hunter2hunter2")

		require.NoError(t, err)
		assert.NotZero(t, u.ID)
		assert.NotEqual(t, "hunter2hunter2", u.Password)
		assert.True(t, svc.CheckPassword(u, "hunter2hunter2"))
		assert.False(t, svc.CheckPassword(u, "wrong"))
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Create(ctx, "dupe@example.com", "password-one")
		require.NoError(t, err)

		_, err = svc.Create(ctx, "dupe@example.com", "password-two")
		testutils.AssertErrorType(t, ErrEmailTaken, err)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.Create(ctx, "", "pw")
		testutils.AssertErrorType(t, ErrEmptyEmail, err)

		_, err = svc.Create(ctx, "a@example.com", "")
		testutils.AssertErrorType(t, ErrEmptyPassword, err)
	})
}

func TestService_Find(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	created, err := svc.Upsert(ctx, "findme@example.com", "Find Me")
	require.NoError(t, err)

	t.Run("by email", func(t *testing.T) {
		u, err := svc.FindByEmail(ctx, "findme@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, u.ID)

		_, err = svc.FindByEmail(ctx, "nobody@example.com")
		testutils.AssertErrorType(t, ErrNotFound, err)
	})

	t.Run("by id", func(t *testing.T) {
		u, err := svc.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "findme@example.com", u.Email)

		_, err = svc.FindByID(ctx, 424242)
		testutils.AssertErrorType(t, ErrNotFound, err)
	})
}

func TestService_CheckPassword_ExternalUser(t *testing.T) {
	svc := setup(t)

	u, err := svc.Upsert(context.Background(), "oauth@example.com", "OAuth User")
	require.NoError(t, err)

	// External-login users have no local credential to match.
	assert.False(t, svc.CheckPassword(u, "anything"))
	assert.False(t, svc.CheckPassword(nil, "anything"))
}
