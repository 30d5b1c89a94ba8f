package repository

import (
	"context"
	"testing"
	"time"

	"trademind/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_CreateAndFetch(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestDB(t))

	a := &domain.Account{
		Email:        "  Trader@Example.COM ",
		PasswordHash: "hash",
		Metadata:     map[string]string{domain.MetadataFullName: "Ravi"},
	}
	require.NoError(t, repo.Create(ctx, a))
	require.NotEmpty(t, a.ID)

	exists, err := repo.ExistsByEmail(ctx, "trader@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := repo.GetByEmail(ctx, "TRADER@example.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, "Ravi", got.FullName())
	assert.Nil(t, got.EmailConfirmedAt)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountRepository_UpdateMetadataAndConfirm(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestDB(t))

	a := &domain.Account{Email: "t@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, a))

	updated, err := repo.UpdateMetadata(ctx, a.ID, map[string]string{domain.MetadataFullName: "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.FullName())

	require.NoError(t, repo.ConfirmEmail(ctx, a.ID))
	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.EmailConfirmedAt)
	assert.Equal(t, "New Name", got.FullName())
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(newTestDB(t))

	require.NoError(t, repo.Put(ctx, "s1", "u1", time.Hour))
	require.NoError(t, repo.Put(ctx, "s2", "u1", -time.Minute))

	userID, ok, err := repo.Lookup(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "u1", userID)

	_, ok, err = repo.Lookup(ctx, "s2")
	require.NoError(t, err)
	assert.False(t, ok, "expired session must not be live")

	require.NoError(t, repo.Revoke(ctx, "s1"))
	_, ok, err = repo.Lookup(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err := repo.DeleteExpired(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}
