package repository

import (
	"context"
	"errors"
	"testing"

	"gemplay/models"
	"gemplay/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_FreezeAndRelease(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	account, err := repo.Create(ctx, "alice", 10000)
	require.NoError(t, err)

	require.NoError(t, repo.FreezeBalance(ctx, account.UserID, 3000))

	frozen, err := repo.GetByID(ctx, account.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(7000), frozen.VirtualBalance)
	assert.Equal(t, int64(3000), frozen.FrozenBalance)
	assert.Equal(t, int64(10000), frozen.TotalBalance())

	require.NoError(t, repo.ReleaseBalance(ctx, account.UserID, 3000))

	released, err := repo.GetByID(ctx, account.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), released.VirtualBalance)
	assert.Equal(t, int64(0), released.FrozenBalance)
}

func TestAccountRepository_FreezeBeyondAvailable(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	account, err := repo.Create(ctx, "bob", 1000)
	require.NoError(t, err)

	err = repo.FreezeBalance(ctx, account.UserID, 1001)
	assert.True(t, errors.Is(err, models.ErrInsufficientFunds))

	// Nothing moved.
	after, err := repo.GetByID(ctx, account.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), after.VirtualBalance)
	assert.Equal(t, int64(0), after.FrozenBalance)
}

func TestAccountRepository_ReleaseBeyondFrozenFailsLoudly(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	account, err := repo.Create(ctx, "carol", 1000)
	require.NoError(t, err)
	require.NoError(t, repo.FreezeBalance(ctx, account.UserID, 500))

	err = repo.ReleaseBalance(ctx, account.UserID, 600)
	assert.True(t, errors.Is(err, models.ErrInvariantViolation))
}

func TestAccountRepository_DebitFrozen(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	account, err := repo.Create(ctx, "dave", 2000)
	require.NoError(t, err)
	require.NoError(t, repo.FreezeBalance(ctx, account.UserID, 60))
	require.NoError(t, repo.DebitFrozen(ctx, account.UserID, 60))

	after, err := repo.GetByID(ctx, account.UserID)
	require.NoError(t, err)
	// Commission is gone from circulation, not returned.
	assert.Equal(t, int64(1940), after.VirtualBalance)
	assert.Equal(t, int64(0), after.FrozenBalance)
}

func TestAccountRepository_GetByID_Missing(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewAccountRepository(testDB.DB)

	account, err := repo.GetByID(context.Background(), 999999)
	require.NoError(t, err)
	assert.Nil(t, account)
}
