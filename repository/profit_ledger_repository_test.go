package repository

import (
	"context"
	"testing"

	"gemplay/models"
	"gemplay/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfitLedgerRepository_RecordOncePerGame(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	accounts := NewAccountRepository(testDB.DB)
	games := NewGameRepository(testDB.DB)
	repo := NewProfitLedgerRepository(testDB.DB)
	ctx := context.Background()

	creator, err := accounts.Create(ctx, "alice", 10000)
	require.NoError(t, err)
	game := testutil.NewGame(creator.UserID, models.GemAmount{models.GemRuby: 20})
	require.NoError(t, games.Create(ctx, game))

	entry := &models.ProfitLedgerEntry{
		EntryType:       models.ProfitBetCommission,
		Amount:          60,
		ReferenceGameID: game.ID,
		Metadata:        map[string]any{"loser_id": int64(2)},
	}
	require.NoError(t, repo.Record(ctx, entry))
	assert.NotZero(t, entry.ID)

	// The unique constraint rejects a second charge for the same game.
	dup := &models.ProfitLedgerEntry{
		EntryType:       models.ProfitBetCommission,
		Amount:          60,
		ReferenceGameID: game.ID,
	}
	assert.Error(t, repo.Record(ctx, dup))

	loaded, err := repo.GetByGame(ctx, game.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, int64(60), loaded.Amount)
	assert.Equal(t, models.ProfitBetCommission, loaded.EntryType)
}

func TestProfitLedgerRepository_TotalByType(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	accounts := NewAccountRepository(testDB.DB)
	games := NewGameRepository(testDB.DB)
	repo := NewProfitLedgerRepository(testDB.DB)
	ctx := context.Background()

	creator, err := accounts.Create(ctx, "alice", 10000)
	require.NoError(t, err)

	amounts := map[string]struct {
		entryType models.ProfitEntryType
		amount    int64
	}{
		"first":  {models.ProfitBetCommission, 60},
		"second": {models.ProfitBetCommission, 30},
		"third":  {models.ProfitHumanBotCommission, 45},
	}
	for _, a := range amounts {
		game := testutil.NewGame(creator.UserID, models.GemAmount{models.GemRuby: 20})
		require.NoError(t, games.Create(ctx, game))
		require.NoError(t, repo.Record(ctx, &models.ProfitLedgerEntry{
			EntryType:       a.entryType,
			Amount:          a.amount,
			ReferenceGameID: game.ID,
		}))
	}

	totals, err := repo.TotalByType(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(90), totals[models.ProfitBetCommission])
	assert.Equal(t, int64(45), totals[models.ProfitHumanBotCommission])
}
