package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentora/internal/domain"
	"rentora/internal/repository"
)

func newUserRepo(t *testing.T) repository.UserRepository {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewUserRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func TestUserRepositoryUniqueEmail(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	user := &domain.User{
		ID:           "u1",
		Name:         "Jo",
		Email:        "jo@x.com",
		PasswordHash: "hash",
		Role:         domain.RoleTenant,
	}
	require.NoError(t, repo.Create(ctx, user))

	dup := &domain.User{
		ID:           "u2",
		Name:         "Other",
		Email:        "jo@x.com",
		PasswordHash: "hash",
		Role:         domain.RoleOwner,
	}
	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	exists, err := repo.EmailExists(ctx, "jo@x.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.EmailExists(ctx, "other@x.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepositoryLookups(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	_, err := repo.GetByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByName(ctx, "Missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Create(ctx, &domain.User{
		ID: "u1", Name: "Jo", Email: "jo@x.com", PasswordHash: "h", Role: domain.RoleTenant,
	}))

	got, err := repo.GetByEmail(ctx, "jo@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, domain.RoleTenant, got.Role)
	assert.False(t, got.CreatedAt.IsZero())

	got, err = repo.GetByName(ctx, "Jo")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	got, err = repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "jo@x.com", got.Email)
}

func TestUserRepositoryGetByNameOldestFirst(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{
		ID: "u1", Name: "Jo", Email: "first@x.com", PasswordHash: "h", Role: domain.RoleTenant,
	}))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, repo.Create(ctx, &domain.User{
		ID: "u2", Name: "Jo", Email: "second@x.com", PasswordHash: "h", Role: domain.RoleOwner,
	}))

	got, err := repo.GetByName(ctx, "Jo")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
}
