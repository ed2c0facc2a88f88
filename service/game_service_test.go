package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gemplay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fixedOutcomeEngine always chooses the same outcome, so settlement paths
// can be exercised deterministically.
type fixedOutcomeEngine struct {
	outcome BotOutcome
}

func (e fixedOutcomeEngine) Choose(bot *models.Bot, rng Rand) BotOutcome {
	return e.outcome
}

type gameServiceMocks struct {
	factory  *MockUnitOfWorkFactory
	uow      *MockUnitOfWork
	accounts *MockAccountRepository
	gems     *MockGemHoldingRepository
	games    *MockGameRepository
	bots     *MockBotRepository
	profit   *MockProfitLedgerRepository
}

func newGameServiceMocks(ctx context.Context) *gameServiceMocks {
	m := &gameServiceMocks{
		factory:  new(MockUnitOfWorkFactory),
		uow:      new(MockUnitOfWork),
		accounts: new(MockAccountRepository),
		gems:     new(MockGemHoldingRepository),
		games:    new(MockGameRepository),
		bots:     new(MockBotRepository),
		profit:   new(MockProfitLedgerRepository),
	}
	m.uow.SetRepositories(m.accounts, m.gems, m.games, m.bots, m.profit, nil)
	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	return m
}

func testGameConfig() GameConfig {
	return GameConfig{
		MinBet:                100,
		MaxBet:                1000000,
		Timeout:               time.Minute,
		ExposeRegularBotGames: true,
	}
}

func newTestGameService(m *gameServiceMocks, outcome OutcomeEngine) GameService {
	if outcome == nil {
		outcome = NewOutcomeEngine()
	}
	return NewGameService(m.factory, NewCommissionEngine(0.03), outcome, NewSeededRand(1), testGameConfig())
}

func humanAccount(userID, balance int64) *models.Account {
	return &models.Account{
		UserID:         userID,
		Username:       "player",
		VirtualBalance: balance,
		IsActive:       true,
	}
}

func TestGameService_CreateGame_FreezesStakeAndCommission(t *testing.T) {
	ctx := context.Background()
	m := newGameServiceMocks(ctx)
	svc := newTestGameService(m, nil)

	stake := models.GemAmount{models.GemRuby: 20}

	m.accounts.On("GetForUpdate", ctx, int64(1)).Return(humanAccount(1, 10000), nil)
	m.bots.On("GetByUserID", ctx, int64(1)).Return(nil, nil)
	m.games.On("CountOpenByCreator", ctx, int64(1)).Return(0, nil)
	// 2000 * 0.03 = 60 commission for a human creator.
	m.accounts.On("FreezeBalance", ctx, int64(1), int64(60)).Return(nil)
	m.gems.On("Freeze", ctx, int64(1), stake).Return(nil)
	m.games.On("Create", ctx, mock.MatchedBy(func(g *models.Game) bool {
		return g.CreatorID == 1 &&
			g.Status == models.GameStatusWaiting &&
			g.BetAmount == 2000 &&
			g.CreatorCommission == 60 &&
			g.CreatorType == models.ActorUser &&
			VerifyMove(g.CreatorMove, g.CreatorSalt, g.CreatorMoveHash)
	})).Return(nil)

	game, err := svc.CreateGame(ctx, 1, CreateGameRequest{Gems: stake, Move: models.MoveRock})

	require.NoError(t, err)
	assert.Equal(t, models.MoveRock, game.CreatorMove)
	assert.NotEmpty(t, game.ID)
	m.accounts.AssertExpectations(t)
	m.gems.AssertExpectations(t)
	m.games.AssertExpectations(t)
	m.uow.AssertCalled(t, "Commit")
}

func TestGameService_CreateGame_SelectsGemsWhenNotExplicit(t *testing.T) {
	ctx := context.Background()
	m := newGameServiceMocks(ctx)
	svc := newTestGameService(m, nil)

	m.accounts.On("GetForUpdate", ctx, int64(1)).Return(humanAccount(1, 10000), nil)
	m.bots.On("GetByUserID", ctx, int64(1)).Return(nil, nil)
	m.games.On("CountOpenByCreator", ctx, int64(1)).Return(0, nil)
	m.gems.On("GetByUser", ctx, int64(1)).Return([]*models.GemHolding{
		{GemType: models.GemRuby, Quantity: 50},
	}, nil)
	m.accounts.On("FreezeBalance", ctx, int64(1), int64(30)).Return(nil)
	m.gems.On("Freeze", ctx, int64(1), models.GemAmount{models.GemRuby: 10}).Return(nil)
	m.games.On("Create", ctx, mock.Anything).Return(nil)

	game, err := svc.CreateGame(ctx, 1, CreateGameRequest{Amount: 1000, Strategy: StrategySmall, Move: models.MovePaper})

	require.NoError(t, err)
	assert.Equal(t, int64(1000), game.BetAmount)
	m.gems.AssertExpectations(t)
}

func TestGameService_CreateGame_RejectsOutOfRangeBet(t *testing.T) {
	ctx := context.Background()
	m := newGameServiceMocks(ctx)
	svc := newTestGameService(m, nil)

	m.accounts.On("GetForUpdate", ctx, int64(1)).Return(humanAccount(1, 10000), nil)

	_, err := svc.CreateGame(ctx, 1, CreateGameRequest{
		Gems: models.GemAmount{models.GemMagic: 200},
		Move: models.MoveRock,
	})

	assert.True(t, errors.Is(err, models.ErrInvalidBetAmount))
	m.uow.AssertNotCalled(t, "Commit")
}

func TestGameService_CreateGame_InsufficientGems(t *testing.T) {
	ctx := context.Background()
	m := newGameServiceMocks(ctx)
	svc := newTestGameService(m, nil)

	stake := models.GemAmount{models.GemRuby: 20}

	m.accounts.On("GetForUpdate", ctx, int64(1)).Return(humanAccount(1, 10000), nil)
	m.bots.On("GetByUserID", ctx, int64(1)).Return(nil, nil)
	m.games.On("CountOpenByCreator", ctx, int64(1)).Return(0, nil)
	m.accounts.On("FreezeBalance", ctx, int64(1), int64(60)).Return(nil)
	m.gems.On("Freeze", ctx, int64(1), stake).Return(models.ErrInsufficientGems)

	_, err := svc.CreateGame(ctx, 1, CreateGameRequest{Gems: stake, Move: models.MoveRock})

	assert.True(t, errors.Is(err, models.ErrInsufficientGems))
	m.games.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Commit")
}

func TestGameService_CreateGame_OpenGameLimit(t *testing.T) {
	ctx := context.Background()
	m := newGameServiceMocks(ctx)
	svc := newTestGameService(m, nil)

	stake := models.GemAmount{models.GemRuby: 20}

	// The default cap is 10 unresolved games per human creator.
	m.accounts.On("GetForUpdate", ctx, int64(1)).Return(humanAccount(1, 10000), nil)
	m.bots.On("GetByUserID", ctx, int64(1)).Return(nil, nil)
	m.games.On("CountOpenByCreator", ctx, int64(1)).Return(10, nil)

	_, err := svc.CreateGame(ctx, 1, CreateGameRequest{Gems: stake, Move: models.MoveRock})

	assert.True(t, errors.Is(err, models.ErrOpenGameLimit))
	m.accounts.AssertNotCalled(t, "FreezeBalance", mock.Anything, mock.Anything, mock.Anything)
	m.games.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Commit")
}

// waitingGame builds a human-created waiting game with a verifiable
// commitment on the given move.
func waitingGame(t *testing.T, creatorID int64, move models.Move, stake models.GemAmount) *models.Game {
	t.Helper()
	commitment, err := CommitmentFor(move)
	require.NoError(t, err)
	return &models.Game{
		ID:                "game-1",
		CreatorID:         creatorID,
		Status:            models.GameStatusWaiting,
		BetGems:           stake,
		BetAmount:         stake.Value(),
		CreatorCommission: 60,
		CreatorMoveHash:   commitment.Hash,
		CreatorSalt:       commitment.Salt,
		CreatorMove:       commitment.Move,
		CreatorType:       models.ActorUser,
		CreatedAt:         time.Now(),
	}
}

func TestGameService_JoinGame_CreatorWins(t *testing.T) {
	ctx := context.Background()
	m := newGameServiceMocks(ctx)
	svc := newTestGameService(m, nil)

	stake := models.GemAmount{models.GemRuby: 20}
	game := waitingGame(t, 1, models.MoveRock, stake)
	opponentStake := models.GemAmount{models.GemTopaz: 4}

	m.games.On("GetByID", ctx, "game-1").Return(game, nil)
	m.accounts.On("GetForUpdate", ctx, int64(1)).Return(humanAccount(1, 10000), nil)
	m.accounts.On("GetForUpdate", ctx, int64(2)).Return(humanAccount(2, 10000), nil)
	m.bots.On("GetByUserID", ctx, int64(2)).Return(nil, nil)
	m.accounts.On("FreezeBalance", ctx, int64(2), int64(60)).Return(nil)
	m.gems.On("Freeze", ctx, int64(2), opponentStake).Return(nil)
	m.games.On("ClaimForJoin", ctx, game).Return(true, nil)

	// Creator's rock beats scissors: creator keeps their gems, takes the
	// opponent's, and gets their commission back. The loser's commission
	// is charged into the profit ledger.
	m.gems.On("Release", ctx, int64(1), stake).Return(nil)
	m.gems.On("TransferFrozen", ctx, int64(2), int64(1), opponentStake).Return(nil)
	m.accounts.On("ReleaseBalance", ctx, int64(1), int64(60)).Return(nil)
	m.accounts.On("DebitFrozen", ctx, int64(2), int64(60)).Return(nil)
	m.profit.On("Record", ctx, mock.MatchedBy(func(e *models.ProfitLedgerEntry) bool {
		return e.EntryType == models.ProfitBetCommission &&
			e.Amount == 60 &&
			e.ReferenceGameID == "game-1"
	})).Return(nil)
	m.games.On("Complete", ctx, game).Return(true, nil)

	settlement, err := svc.JoinGame(ctx, "game-1", 2, JoinGameRequest{
		Move: models.MoveScissors,
		Gems: opponentStake,
	})

	require.NoError(t, err)
	assert.Equal(t, models.ResultCreatorWins, settlement.Result)
	assert.Equal(t, models.GameStatusCompleted, settlement.Game.Status)
	require.NotNil(t, settlement.Game.Result)
	require.NotNil(t, settlement.Game.CompletedAt)
	require.NotNil(t, settlement.WinnerID)
	assert.Equal(t, int64(1), *settlement.WinnerID)
	assert.Equal(t, int64(60), settlement.CommissionCharged)
	assert.Equal(t, int64(60), settlement.CommissionReleased)
	m.accounts.AssertExpectations(t)
	m.gems.AssertExpectations(t)
	m.profit.AssertExpectations(t)
	m.uow.AssertCalled(t, "Commit")
}

func TestGameService_JoinGame_DrawRefundsEverything(t *testing.T) {
	ctx := context.Background()
	m := newGameServiceMocks(ctx)
	svc := newTestGameService(m, nil)

	stake := models.GemAmount{models.GemRuby: 20}
	game := waitingGame(t, 1, models.MoveRock, stake)
	opponentStake := models.GemAmount{models.GemSapphire: 2}

	m.games.On("GetByID", ctx, "game-1").Return(game, nil)
	m.accounts.On("GetForUpdate", ctx, int64(1)).Return(humanAccount(1, 10000), nil)
	m.accounts.On("GetForUpdate", ctx, int64(2)).Return(humanAccount(2, 10000), nil)
	m.bots.On("GetByUserID", ctx, int64(2)).Return(nil, nil)
	m.accounts.On("FreezeBalance", ctx, int64(2), int64(60)).Return(nil)
	m.gems.On("Freeze", ctx, int64(2), opponentStake).Return(nil)
	m.games.On("ClaimForJoin", ctx, game).Return(true, nil)

	m.gems.On("Release", ctx, int64(1), stake).Return(nil)
	m.gems.On("Release", ctx, int64(2), opponentStake).Return(nil)
	m.accounts.On("ReleaseBalance", ctx, int64(1), int64(60)).Return(nil)
	m.accounts.On("ReleaseBalance", ctx, int64(2), int64(60)).Return(nil)
	m.games.On("Complete", ctx, game).Return(true, nil)

	settlement, err := svc.JoinGame(ctx, "game-1", 2, JoinGameRequest{
		Move: models.MoveRock,
		Gems: opponentStake,
	})

	require.NoError(t, err)
	assert.Equal(t, models.ResultDraw, settlement.Result)
	assert.Nil(t, settlement.WinnerID)
	assert.Equal(t, int64(0), settlement.CommissionCharged)
	m.accounts.AssertNotCalled(t, "DebitFrozen", mock.Anything, mock.Anything, mock.Anything)
	m.profit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	m.gems.AssertExpectations(t)
}

func TestGameService_JoinGame_SelfJoinRejected(t *testing.T) {
	ctx := context.Background()
	m := newGameServiceMocks(ctx)
	svc := newTestGameService(m, nil)

	game := waitingGame(t, 1, models.MoveRock, models.GemAmount{models.GemRuby: 20})
	m.games.On("GetByID", ctx, "game-1").Return(game, nil)

	_, err := svc.JoinGame(ctx, "game-1", 1, JoinGameRequest{Move: models.MoveRock})

	assert.True(t, errors.Is(err, models.ErrSelfJoin))
	m.uow.AssertNotCalled(t, "Commit")
}

func TestGameService_JoinGame_StakeMustMatchBetValue(t *testing.T) {
	ctx := context.Background()
	m := newGameServiceMocks(ctx)
	svc := newTestGameService(m, nil)

	game := waitingGame(t, 1, models.MoveRock, models.GemAmount{models.GemRuby: 20})

	m.games.On("GetByID", ctx, "game-1").Return(game, nil)
	m.accounts.On("GetForUpdate", ctx, int64(1)).Return(humanAccount(1, 10000), nil)
	m.accounts.On("GetForUpdate", ctx, int64(2)).Return(humanAccount(2, 10000), nil)
	m.bots.On("GetByUserID", ctx, int64(2)).Return(nil, nil)

	_, err := svc.JoinGame(ctx, "game-1", 2, JoinGameRequest{
		Move: models.MoveRock,
		Gems: models.GemAmount{models.GemRuby: 19},
	})

	assert.True(t, errors.Is(err, models.ErrInvalidBetAmount))
	m.gems.AssertNotCalled(t, "Freeze", mock.Anything, mock.Anything, mock.Anything)
}

func TestGameService_JoinGame_RaceLost(t *testing.T) {
	ctx := context.Background()
	m := newGameServiceMocks(ctx)
	svc := newTestGameService(m, nil)

	stake := models.GemAmount{models.GemRuby: 20}
	game := waitingGame(t, 1, models.MoveRock, stake)
	opponentStake := models.GemAmount{models.GemRuby: 20}

	m.games.On("GetByID", ctx, "game-1").Return(game, nil)
	m.accounts.On("GetForUpdate", ctx, int64(1)).Return(humanAccount(1, 10000), nil)
	m.accounts.On("GetForUpdate", ctx, int64(2)).Return(humanAccount(2, 10000), nil)
	m.bots.On("GetByUserID", ctx, int64(2)).Return(nil, nil)
	m.accounts.On("FreezeBalance", ctx, int64(2), int64(60)).Return(nil)
	m.gems.On("Freeze", ctx, int64(2), opponentStake).Return(nil)
	m.games.On("ClaimForJoin", ctx, game).Return(false, nil)

	_, err := svc.JoinGame(ctx, "game-1", 2, JoinGameRequest{
		Move: models.MoveRock,
		Gems: opponentStake,
	})

	// The transaction rolls back, so the freezes above never stick.
	assert.True(t, errors.Is(err, models.ErrGameNotJoinable))
	m.games.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Commit")
}

func TestGameService_JoinGame_RegularBotCreator_NoCommission(t *testing.T) {
	ctx := context.Background()
	m := newGameServiceMocks(ctx)
	// The bot is steered to win this game.
	svc := newTestGameService(m, fixedOutcomeEngine{outcome: BotWins})

	stake := models.GemAmount{models.GemRuby: 20}
	game := waitingGame(t, 1, models.MoveRock, stake)
	game.CreatorType = models.ActorRegularBot
	game.CreatorCommission = 0
	opponentStake := models.GemAmount{models.GemRuby: 20}

	bot := &models.Bot{
		ID:         5,
		UserID:     1,
		Type:       models.BotTypeRegular,
		CycleGames: 10,
		ActiveBets: 1,
	}

	m.games.On("GetByID", ctx, "game-1").Return(game, nil)
	m.accounts.On("GetForUpdate", ctx, int64(1)).Return(humanAccount(1, 10000), nil)
	m.accounts.On("GetForUpdate", ctx, int64(2)).Return(humanAccount(2, 10000), nil)
	m.bots.On("GetByUserID", ctx, int64(2)).Return(nil, nil)
	m.gems.On("Freeze", ctx, int64(2), opponentStake).Return(nil)
	m.games.On("ClaimForJoin", ctx, game).Return(true, nil)
	m.bots.On("GetByUserIDForUpdate", ctx, int64(1)).Return(bot, nil)

	m.gems.On("Release", ctx, int64(1), stake).Return(nil)
	m.gems.On("TransferFrozen", ctx, int64(2), int64(1), opponentStake).Return(nil)
	m.games.On("Complete", ctx, game).Return(true, nil)
	m.bots.On("Update", ctx, mock.MatchedBy(func(b *models.Bot) bool {
		return b.CurrentCycleWins == 1 && b.ActiveBets == 0 && b.CurrentCycleProfit == 2000
	})).Return(nil)

	settlement, err := svc.JoinGame(ctx, "game-1", 2, JoinGameRequest{
		Move: models.MovePaper,
		Gems: opponentStake,
	})

	require.NoError(t, err)
	assert.Equal(t, models.ResultCreatorWins, settlement.Result)
	// The steered move was re-committed and still verifies.
	assert.Equal(t, models.MoveScissors, game.CreatorMove)
	assert.True(t, VerifyMove(game.CreatorMove, game.CreatorSalt, game.CreatorMoveHash))
	// No commission on either side of a regular-bot game.
	m.accounts.AssertNotCalled(t, "FreezeBalance", mock.Anything, mock.Anything, mock.Anything)
	m.accounts.AssertNotCalled(t, "DebitFrozen", mock.Anything, mock.Anything, mock.Anything)
	m.profit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	m.bots.AssertExpectations(t)
}

func TestGameService_JoinGame_BotCycleCompletes(t *testing.T) {
	ctx := context.Background()
	m := newGameServiceMocks(ctx)
	svc := newTestGameService(m, fixedOutcomeEngine{outcome: BotLoses})

	stake := models.GemAmount{models.GemRuby: 20}
	game := waitingGame(t, 1, models.MoveRock, stake)
	game.CreatorType = models.ActorRegularBot
	game.CreatorCommission = 0
	opponentStake := models.GemAmount{models.GemRuby: 20}

	// 7-game cycle with 6 already played; this loss finishes it.
	bot := &models.Bot{
		ID:                 5,
		UserID:             1,
		Type:               models.BotTypeRegular,
		CycleGames:         7,
		CurrentCycleWins:   4,
		CurrentCycleLosses: 1,
		CurrentCycleDraws:  1,
		CurrentCycleProfit: 6000,
		ActiveBets:         1,
	}

	m.games.On("GetByID", ctx, "game-1").Return(game, nil)
	m.accounts.On("GetForUpdate", ctx, int64(1)).Return(humanAccount(1, 10000), nil)
	m.accounts.On("GetForUpdate", ctx, int64(2)).Return(humanAccount(2, 10000), nil)
	m.bots.On("GetByUserID", ctx, int64(2)).Return(nil, nil)
	m.gems.On("Freeze", ctx, int64(2), opponentStake).Return(nil)
	m.games.On("ClaimForJoin", ctx, game).Return(true, nil)
	m.bots.On("GetByUserIDForUpdate", ctx, int64(1)).Return(bot, nil)

	m.gems.On("Release", ctx, int64(2), opponentStake).Return(nil)
	m.gems.On("TransferFrozen", ctx, int64(1), int64(2), stake).Return(nil)
	m.games.On("Complete", ctx, game).Return(true, nil)
	m.bots.On("Update", ctx, mock.MatchedBy(func(b *models.Bot) bool {
		return b.CompletedCycles == 1 &&
			b.TotalNetProfit == 4000 &&
			b.CurrentCycleWins == 0 &&
			b.CurrentCycleLosses == 0 &&
			b.CurrentCycleDraws == 0 &&
			b.CurrentCycleProfit == 0
	})).Return(nil)

	settlement, err := svc.JoinGame(ctx, "game-1", 2, JoinGameRequest{
		Move: models.MovePaper,
		Gems: opponentStake,
	})

	require.NoError(t, err)
	assert.Equal(t, models.ResultOpponentWins, settlement.Result)
	m.bots.AssertExpectations(t)
}

func TestGameService_LeaveGame_RecyclesWithFreshCommitment(t *testing.T) {
	ctx := context.Background()
	m := newGameServiceMocks(ctx)
	svc := newTestGameService(m, nil)

	stake := models.GemAmount{models.GemRuby: 20}
	game := waitingGame(t, 1, models.MoveRock, stake)
	opponentID := int64(2)
	opponentStake := models.GemAmount{models.GemRuby: 20}
	game.Status = models.GameStatusActive
	game.OpponentID = &opponentID
	game.OpponentGems = opponentStake
	game.OpponentCommission = 60
	oldHash := game.CreatorMoveHash

	m.games.On("GetByID", ctx, "game-1").Return(game, nil)
	m.accounts.On("GetForUpdate", ctx, opponentID).Return(humanAccount(2, 10000), nil)
	m.games.On("Recycle", ctx, "game-1", mock.Anything, mock.Anything, mock.MatchedBy(func(hash string) bool {
		return hash != oldHash
	})).Return(true, nil)
	m.gems.On("Release", ctx, opponentID, opponentStake).Return(nil)
	m.accounts.On("ReleaseBalance", ctx, opponentID, int64(60)).Return(nil)

	result, err := svc.LeaveGame(ctx, "game-1", opponentID)

	require.NoError(t, err)
	assert.Equal(t, models.GameStatusWaiting, result.NewStatus)
	assert.Equal(t, opponentStake, result.GemsReturned)
	assert.Equal(t, int64(60), result.CommissionReturned)
	m.games.AssertExpectations(t)
	m.uow.AssertCalled(t, "Commit")
}

func TestGameService_LeaveGame_OnlyOpponentMayLeave(t *testing.T) {
	ctx := context.Background()
	m := newGameServiceMocks(ctx)
	svc := newTestGameService(m, nil)

	game := waitingGame(t, 1, models.MoveRock, models.GemAmount{models.GemRuby: 20})
	opponentID := int64(2)
	game.Status = models.GameStatusActive
	game.OpponentID = &opponentID

	m.games.On("GetByID", ctx, "game-1").Return(game, nil)

	_, err := svc.LeaveGame(ctx, "game-1", 1)

	assert.True(t, errors.Is(err, models.ErrForbidden))
	m.games.AssertNotCalled(t, "Recycle", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGameService_CancelGame_RefundsCreator(t *testing.T) {
	ctx := context.Background()
	m := newGameServiceMocks(ctx)
	svc := newTestGameService(m, nil)

	stake := models.GemAmount{models.GemRuby: 20}
	game := waitingGame(t, 1, models.MoveRock, stake)

	m.games.On("GetByID", ctx, "game-1").Return(game, nil)
	m.accounts.On("GetForUpdate", ctx, int64(1)).Return(humanAccount(1, 10000), nil)
	m.games.On("Cancel", ctx, "game-1", int64(1)).Return(true, nil)
	m.gems.On("Release", ctx, int64(1), stake).Return(nil)
	m.accounts.On("ReleaseBalance", ctx, int64(1), int64(60)).Return(nil)

	result, err := svc.CancelGame(ctx, "game-1", 1)

	require.NoError(t, err)
	assert.Equal(t, models.GameStatusCancelled, result.NewStatus)
	assert.Equal(t, int64(60), result.CommissionReturned)
	m.gems.AssertExpectations(t)
}

func TestGameService_CancelGame_NonCreatorForbidden(t *testing.T) {
	ctx := context.Background()
	m := newGameServiceMocks(ctx)
	svc := newTestGameService(m, nil)

	game := waitingGame(t, 1, models.MoveRock, models.GemAmount{models.GemRuby: 20})
	m.games.On("GetByID", ctx, "game-1").Return(game, nil)

	_, err := svc.CancelGame(ctx, "game-1", 2)

	assert.True(t, errors.Is(err, models.ErrForbidden))
}

func TestGameService_ListAvailableGames_MasksHumanBots(t *testing.T) {
	ctx := context.Background()
	m := newGameServiceMocks(ctx)
	svc := newTestGameService(m, nil)

	m.games.On("ListAvailable", ctx, int64(9), true, 50).Return([]*models.Game{
		{ID: "a", CreatorID: 1, BetAmount: 500, CreatorType: models.ActorUser},
		{ID: "b", CreatorID: 2, BetAmount: 700, CreatorType: models.ActorHumanBot},
		{ID: "c", CreatorID: 3, BetAmount: 900, CreatorType: models.ActorRegularBot},
	}, nil)

	summaries, err := svc.ListAvailableGames(ctx, 9)

	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, models.ActorUser, summaries[0].CreatorType)
	// A human-like bot is indistinguishable from a user in the feed.
	assert.Equal(t, models.ActorUser, summaries[1].CreatorType)
	assert.Equal(t, models.ActorRegularBot, summaries[2].CreatorType)
}

func TestGameService_ReapExpired_RecyclesEachGame(t *testing.T) {
	ctx := context.Background()
	m := newGameServiceMocks(ctx)
	svc := newTestGameService(m, nil)

	opponentID := int64(2)
	deadline := time.Now().Add(-time.Minute)
	expired := &models.Game{
		ID:                 "game-1",
		CreatorID:          1,
		Status:             models.GameStatusActive,
		BetGems:            models.GemAmount{models.GemRuby: 20},
		BetAmount:          2000,
		OpponentID:         &opponentID,
		OpponentGems:       models.GemAmount{models.GemRuby: 20},
		OpponentCommission: 60,
		Deadline:           &deadline,
	}

	m.games.On("ListExpiredActive", ctx, mock.AnythingOfType("time.Time")).Return([]*models.Game{expired}, nil)
	m.games.On("GetByID", ctx, "game-1").Return(expired, nil)
	m.accounts.On("GetForUpdate", ctx, opponentID).Return(humanAccount(2, 10000), nil)
	m.games.On("Recycle", ctx, "game-1", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	m.gems.On("Release", ctx, opponentID, expired.OpponentGems).Return(nil)
	m.accounts.On("ReleaseBalance", ctx, opponentID, int64(60)).Return(nil)

	count, err := svc.ReapExpired(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	m.games.AssertExpectations(t)
}

func TestGameService_ReapExpired_SkipsGamesResolvedMeanwhile(t *testing.T) {
	ctx := context.Background()
	m := newGameServiceMocks(ctx)
	svc := newTestGameService(m, nil)

	deadline := time.Now().Add(-time.Minute)
	expired := &models.Game{ID: "game-1", Status: models.GameStatusActive, Deadline: &deadline}
	// Resolved between the sweep's listing and its per-game transaction.
	resolved := &models.Game{ID: "game-1", Status: models.GameStatusCompleted, Deadline: &deadline}

	m.games.On("ListExpiredActive", ctx, mock.AnythingOfType("time.Time")).Return([]*models.Game{expired}, nil)
	m.games.On("GetByID", ctx, "game-1").Return(resolved, nil)

	count, err := svc.ReapExpired(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, count)
	m.games.AssertNotCalled(t, "Recycle", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
