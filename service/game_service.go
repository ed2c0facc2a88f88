package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"gemplay/events"
	"gemplay/models"
)

// GameConfig carries the settlement engine's tunables.
type GameConfig struct {
	MinBet                int64
	MaxBet                int64
	Timeout               time.Duration
	ExposeRegularBotGames bool
	AvailableLimit        int
	MaxOpenGames          int
}

type gameService struct {
	uowFactory UnitOfWorkFactory
	commission *CommissionEngine
	outcome    OutcomeEngine
	rng        Rand
	cfg        GameConfig
}

// NewGameService creates the game settlement engine.
func NewGameService(uowFactory UnitOfWorkFactory, commission *CommissionEngine, outcome OutcomeEngine, rng Rand, cfg GameConfig) GameService {
	if cfg.AvailableLimit <= 0 {
		cfg.AvailableLimit = 50
	}
	if cfg.MaxOpenGames <= 0 {
		cfg.MaxOpenGames = 10
	}
	return &gameService{
		uowFactory: uowFactory,
		commission: commission,
		outcome:    outcome,
		rng:        rng,
		cfg:        cfg,
	}
}

// CreateGame opens a new waiting game. The creator's stake and, for human
// creators, commission are frozen before the row is written; a failed
// freeze aborts the whole operation.
func (s *gameService) CreateGame(ctx context.Context, creatorID int64, req CreateGameRequest) (*models.Game, error) {
	if req.Move != "" && !req.Move.IsValid() {
		return nil, fmt.Errorf("invalid move %q", req.Move)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetForUpdate(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get creator account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("account %d: %w", creatorID, models.ErrNotFound)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("account %d is deactivated", creatorID)
	}

	gems := req.Gems
	if gems == nil {
		holdings, err := uow.GemHoldingRepository().GetByUser(ctx, creatorID)
		if err != nil {
			return nil, fmt.Errorf("failed to get creator inventory: %w", err)
		}
		picks, err := SelectCombination(req.Amount, req.Strategy, StocksFromHoldings(holdings))
		if err != nil {
			return nil, err
		}
		gems = AmountFromPicks(picks)
	} else if !gems.Validate() {
		return nil, fmt.Errorf("%w: bet gems are empty or unknown", models.ErrInvalidBetAmount)
	}

	amount := gems.Value()
	if amount < s.cfg.MinBet || amount > s.cfg.MaxBet {
		return nil, fmt.Errorf("%w: bet of %d outside [%d, %d]",
			models.ErrInvalidBetAmount, amount, s.cfg.MinBet, s.cfg.MaxBet)
	}

	creatorType, creatorBot, err := s.actorOf(ctx, uow, creatorID)
	if err != nil {
		return nil, err
	}

	// Bots are bounded by their cycle size; human creators get a flat cap
	// on unresolved games.
	if creatorBot == nil {
		open, err := uow.GameRepository().CountOpenByCreator(ctx, creatorID)
		if err != nil {
			return nil, fmt.Errorf("failed to count open games: %w", err)
		}
		if open >= s.cfg.MaxOpenGames {
			return nil, fmt.Errorf("%w: %d of %d allowed", models.ErrOpenGameLimit, open, s.cfg.MaxOpenGames)
		}
	}

	commission := s.commission.CreatorReservation(amount, creatorType)
	if err := s.freeze(ctx, uow, account, commission, gems, "game_create"); err != nil {
		return nil, err
	}

	move := req.Move
	if move == "" {
		move = models.Moves[s.rng.Intn(len(models.Moves))]
	}
	commitment, err := CommitmentFor(move)
	if err != nil {
		return nil, err
	}

	game := &models.Game{
		ID:                uuid.NewString(),
		CreatorID:         creatorID,
		Status:            models.GameStatusWaiting,
		BetGems:           gems,
		BetAmount:         amount,
		CreatorCommission: commission,
		CreatorMoveHash:   commitment.Hash,
		CreatorSalt:       commitment.Salt,
		CreatorMove:       commitment.Move,
		CreatorType:       creatorType,
	}
	if err := uow.GameRepository().Create(ctx, game); err != nil {
		return nil, err
	}

	if creatorBot != nil {
		if err := uow.BotRepository().AdjustActiveBets(ctx, creatorBot.ID, 1); err != nil {
			return nil, err
		}
	}

	uow.EventBus().Publish(events.GameCreatedEvent{
		GameID:      game.ID,
		CreatorID:   creatorID,
		BetAmount:   amount,
		CreatorType: creatorType,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return game, nil
}

// JoinGame joins a waiting game and resolves it in the same transaction.
// There is no durable reveal state: the compare-and-set on status is the
// only gate, and the loser of a concurrent join observes ErrGameNotJoinable
// with every freeze rolled back.
func (s *gameService) JoinGame(ctx context.Context, gameID string, opponentID int64, req JoinGameRequest) (*models.SettlementResult, error) {
	if !req.Move.IsValid() {
		return nil, fmt.Errorf("invalid move %q", req.Move)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, fmt.Errorf("game %s: %w", gameID, models.ErrNotFound)
	}
	if game.CreatorID == opponentID {
		return nil, models.ErrSelfJoin
	}
	if game.Status != models.GameStatusWaiting {
		return nil, fmt.Errorf("%w: game is %s", models.ErrGameNotJoinable, game.Status)
	}

	// Both accounts participate in settlement; lock in ascending user-ID
	// order so concurrent settlements cannot deadlock.
	creatorAcc, opponentAcc, err := s.lockPair(ctx, uow, game.CreatorID, opponentID)
	if err != nil {
		return nil, err
	}

	opponentType, _, err := s.actorOf(ctx, uow, opponentID)
	if err != nil {
		return nil, err
	}

	gems := req.Gems
	if gems == nil {
		holdings, err := uow.GemHoldingRepository().GetByUser(ctx, opponentID)
		if err != nil {
			return nil, fmt.Errorf("failed to get opponent inventory: %w", err)
		}
		picks, err := SelectCombination(game.BetAmount, req.Strategy, StocksFromHoldings(holdings))
		if err != nil {
			return nil, err
		}
		gems = AmountFromPicks(picks)
	} else if !gems.Validate() {
		return nil, fmt.Errorf("%w: stake gems are empty or unknown", models.ErrInvalidBetAmount)
	}
	if gems.Value() != game.BetAmount {
		return nil, fmt.Errorf("%w: stake value %d does not match bet amount %d",
			models.ErrInvalidBetAmount, gems.Value(), game.BetAmount)
	}

	opponentCommission := s.commission.OpponentReservation(game.BetAmount, game.CreatorType, opponentType)
	if err := s.freeze(ctx, uow, opponentAcc, opponentCommission, gems, "game_join"); err != nil {
		return nil, err
	}

	now := time.Now()
	deadline := now.Add(s.cfg.Timeout)
	move := req.Move
	game.OpponentID = &opponentID
	game.OpponentGems = gems
	game.OpponentMove = &move
	game.OpponentType = &opponentType
	game.OpponentCommission = opponentCommission
	game.JoinedAt = &now
	game.Deadline = &deadline

	claimed, err := uow.GameRepository().ClaimForJoin(ctx, game)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, fmt.Errorf("%w: game was taken", models.ErrGameNotJoinable)
	}

	// A bot creator's move is decided only now, steered toward its cycle
	// target, and re-committed under a fresh salt.
	var creatorBot *models.Bot
	if game.CreatorType.IsBot() {
		creatorBot, err = uow.BotRepository().GetByUserIDForUpdate(ctx, game.CreatorID)
		if err != nil {
			return nil, err
		}
		if creatorBot != nil {
			outcome := s.outcome.Choose(creatorBot, s.rng)
			commitment, err := CommitmentFor(moveForOutcome(outcome, move))
			if err != nil {
				return nil, err
			}
			game.CreatorMove = commitment.Move
			game.CreatorSalt = commitment.Salt
			game.CreatorMoveHash = commitment.Hash
		}
	}

	if !VerifyMove(game.CreatorMove, game.CreatorSalt, game.CreatorMoveHash) {
		return nil, fmt.Errorf("commitment check failed for game %s: %w", game.ID, models.ErrInvariantViolation)
	}

	result := models.ResolveResult(game.CreatorMove, move)
	settlement, err := s.settle(ctx, uow, game, result, creatorAcc, opponentAcc, creatorBot, now)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return settlement, nil
}

// settle moves an active game to completed and applies the full economic
// outcome inside the caller's transaction: stake transfer or return,
// commission release for the winner, commission charge for a human loser,
// and bot cycle bookkeeping.
func (s *gameService) settle(ctx context.Context, uow UnitOfWork, game *models.Game, result models.GameResult, creatorAcc, opponentAcc *models.Account, creatorBot *models.Bot, now time.Time) (*models.SettlementResult, error) {
	opponentID := *game.OpponentID
	gemRepo := uow.GemHoldingRepository()

	var winnerID *int64
	var charged, released int64

	switch result {
	case models.ResultDraw:
		if err := gemRepo.Release(ctx, game.CreatorID, game.BetGems); err != nil {
			return nil, err
		}
		if err := gemRepo.Release(ctx, opponentID, game.OpponentGems); err != nil {
			return nil, err
		}
		if err := s.releaseCommission(ctx, uow, creatorAcc, game.CreatorCommission, "draw_refund"); err != nil {
			return nil, err
		}
		if err := s.releaseCommission(ctx, uow, opponentAcc, game.OpponentCommission, "draw_refund"); err != nil {
			return nil, err
		}
		released = game.CreatorCommission + game.OpponentCommission

	case models.ResultCreatorWins:
		winnerID = &game.CreatorID
		if err := gemRepo.Release(ctx, game.CreatorID, game.BetGems); err != nil {
			return nil, err
		}
		if err := gemRepo.TransferFrozen(ctx, opponentID, game.CreatorID, game.OpponentGems); err != nil {
			return nil, err
		}
		if err := s.releaseCommission(ctx, uow, creatorAcc, game.CreatorCommission, "win_refund"); err != nil {
			return nil, err
		}
		released = game.CreatorCommission
		charged = game.OpponentCommission
		if err := s.chargeLoser(ctx, uow, game, opponentID, game.OpponentCommission); err != nil {
			return nil, err
		}

	case models.ResultOpponentWins:
		winnerID = &opponentID
		if err := gemRepo.Release(ctx, opponentID, game.OpponentGems); err != nil {
			return nil, err
		}
		if err := gemRepo.TransferFrozen(ctx, game.CreatorID, opponentID, game.BetGems); err != nil {
			return nil, err
		}
		if err := s.releaseCommission(ctx, uow, opponentAcc, game.OpponentCommission, "win_refund"); err != nil {
			return nil, err
		}
		released = game.OpponentCommission
		charged = game.CreatorCommission
		if err := s.chargeLoser(ctx, uow, game, game.CreatorID, game.CreatorCommission); err != nil {
			return nil, err
		}
	}

	game.Status = models.GameStatusCompleted
	game.Result = &result
	game.WinnerID = winnerID
	game.CompletedAt = &now

	completed, err := uow.GameRepository().Complete(ctx, game)
	if err != nil {
		return nil, err
	}
	if !completed {
		return nil, fmt.Errorf("game %s: %w", game.ID, models.ErrConcurrentModification)
	}

	if creatorBot != nil {
		if err := s.applyBotResult(ctx, uow, creatorBot, game, result, now); err != nil {
			return nil, err
		}
	}

	uow.EventBus().Publish(events.GameResolvedEvent{
		GameID:     game.ID,
		CreatorID:  game.CreatorID,
		OpponentID: opponentID,
		Result:     result,
		WinnerID:   winnerID,
		BetAmount:  game.BetAmount,
	})

	return &models.SettlementResult{
		Game:               game,
		Result:             result,
		WinnerID:           winnerID,
		CommissionCharged:  charged,
		CommissionReleased: released,
	}, nil
}

func (s *gameService) chargeLoser(ctx context.Context, uow UnitOfWork, game *models.Game, loserID int64, amount int64) error {
	if amount <= 0 {
		return nil
	}
	opponentType := models.ActorUser
	if game.OpponentType != nil {
		opponentType = *game.OpponentType
	}
	entryType := s.commission.EntryType(game.CreatorType, opponentType)
	return chargeCommission(ctx, uow, game, loserID, amount, entryType)
}

// applyBotResult updates the bot's cycle counters after one of its games
// settles, folding the cycle into lifetime totals when it completes.
func (s *gameService) applyBotResult(ctx context.Context, uow UnitOfWork, bot *models.Bot, game *models.Game, result models.GameResult, now time.Time) error {
	switch result {
	case models.ResultCreatorWins:
		bot.CurrentCycleWins++
		bot.CurrentCycleProfit += game.BetAmount
	case models.ResultOpponentWins:
		bot.CurrentCycleLosses++
		bot.CurrentCycleProfit -= game.BetAmount
	case models.ResultDraw:
		bot.CurrentCycleDraws++
	}
	if bot.ActiveBets > 0 {
		bot.ActiveBets--
	}
	bot.LastCompletedAt = &now

	if bot.CycleComplete() {
		uow.EventBus().Publish(events.BotCycleCompletedEvent{
			BotID:       bot.ID,
			CycleNumber: bot.CompletedCycles + 1,
			Wins:        bot.CurrentCycleWins,
			Losses:      bot.CurrentCycleLosses,
			Draws:       bot.CurrentCycleDraws,
			CycleProfit: bot.CurrentCycleProfit,
		})
		bot.TotalNetProfit += bot.CurrentCycleProfit
		bot.CompletedCycles++
		bot.CurrentCycleWins = 0
		bot.CurrentCycleLosses = 0
		bot.CurrentCycleDraws = 0
		bot.CurrentCycleProfit = 0
	}

	return uow.BotRepository().Update(ctx, bot)
}

// LeaveGame abandons an active game as its opponent. The game is recycled:
// the opponent's stake and commission come back in full, the creator's
// stay frozen, and the game reappears in the waiting pool under a fresh
// commitment.
func (s *gameService) LeaveGame(ctx context.Context, gameID string, userID int64) (*LeaveResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, fmt.Errorf("game %s: %w", gameID, models.ErrNotFound)
	}
	if game.Status != models.GameStatusActive {
		return nil, fmt.Errorf("%w: game already resolved", models.ErrConcurrentModification)
	}
	if game.OpponentID == nil || *game.OpponentID != userID {
		return nil, fmt.Errorf("%w: only the opponent can leave a game", models.ErrForbidden)
	}

	result, err := s.recycle(ctx, uow, game, false)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}

// recycle is the single code path for explicit leave and system timeout,
// so releases can never be duplicated between the two.
func (s *gameService) recycle(ctx context.Context, uow UnitOfWork, game *models.Game, byTimeout bool) (*LeaveResult, error) {
	opponentID := *game.OpponentID

	opponentAcc, err := uow.AccountRepository().GetForUpdate(ctx, opponentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get opponent account: %w", err)
	}
	if opponentAcc == nil {
		return nil, fmt.Errorf("account %d: %w", opponentID, models.ErrNotFound)
	}

	commitment, err := NewCommitment(s.rng)
	if err != nil {
		return nil, err
	}

	recycled, err := uow.GameRepository().Recycle(ctx, game.ID, commitment.Move, commitment.Salt, commitment.Hash)
	if err != nil {
		return nil, err
	}
	if !recycled {
		return nil, fmt.Errorf("game %s: %w", game.ID, models.ErrConcurrentModification)
	}

	if err := uow.GemHoldingRepository().Release(ctx, opponentID, game.OpponentGems); err != nil {
		return nil, err
	}
	if err := s.releaseCommission(ctx, uow, opponentAcc, game.OpponentCommission, "leave_refund"); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.GameRecycledEvent{
		GameID:     game.ID,
		CreatorID:  game.CreatorID,
		OpponentID: opponentID,
		ByTimeout:  byTimeout,
	})

	return &LeaveResult{
		GameID:             game.ID,
		GemsReturned:       game.OpponentGems,
		CommissionReturned: game.OpponentCommission,
		NewStatus:          models.GameStatusWaiting,
	}, nil
}

// CancelGame withdraws a still-unjoined game, returning the creator's
// stake and commission in full.
func (s *gameService) CancelGame(ctx context.Context, gameID string, userID int64) (*LeaveResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, fmt.Errorf("game %s: %w", gameID, models.ErrNotFound)
	}
	if game.CreatorID != userID {
		return nil, fmt.Errorf("%w: only the creator can cancel a game", models.ErrForbidden)
	}
	if game.Status != models.GameStatusWaiting {
		return nil, fmt.Errorf("%w: game is %s", models.ErrGameNotJoinable, game.Status)
	}

	creatorAcc, err := uow.AccountRepository().GetForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get creator account: %w", err)
	}

	cancelled, err := uow.GameRepository().Cancel(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	if !cancelled {
		return nil, fmt.Errorf("game %s: %w", gameID, models.ErrConcurrentModification)
	}

	if err := uow.GemHoldingRepository().Release(ctx, userID, game.BetGems); err != nil {
		return nil, err
	}
	if err := s.releaseCommission(ctx, uow, creatorAcc, game.CreatorCommission, "cancel_refund"); err != nil {
		return nil, err
	}

	if game.CreatorType.IsBot() {
		bot, err := uow.BotRepository().GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if bot != nil {
			if err := uow.BotRepository().AdjustActiveBets(ctx, bot.ID, -1); err != nil {
				return nil, err
			}
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &LeaveResult{
		GameID:             gameID,
		GemsReturned:       game.BetGems,
		CommissionReturned: game.CreatorCommission,
		NewStatus:          models.GameStatusCancelled,
	}, nil
}

// ListAvailableGames returns the joinable waiting games for a user.
// Human-like bots are presented as ordinary users.
func (s *gameService) ListAvailableGames(ctx context.Context, userID int64) ([]*models.GameSummary, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	games, err := uow.GameRepository().ListAvailable(ctx, userID, s.cfg.ExposeRegularBotGames, s.cfg.AvailableLimit)
	if err != nil {
		return nil, err
	}

	summaries := make([]*models.GameSummary, 0, len(games))
	for _, game := range games {
		creatorType := game.CreatorType
		if creatorType == models.ActorHumanBot {
			creatorType = models.ActorUser
		}
		summaries = append(summaries, &models.GameSummary{
			ID:          game.ID,
			CreatorID:   game.CreatorID,
			BetAmount:   game.BetAmount,
			BetGems:     game.BetGems,
			CreatedAt:   game.CreatedAt,
			CreatorType: creatorType,
		})
	}
	return summaries, nil
}

// ReapExpired recycles every active game past its deadline. Each game gets
// its own transaction; a failure on one row is logged and never blocks the
// rest of the sweep.
func (s *gameService) ReapExpired(ctx context.Context) (int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	expired, err := uow.GameRepository().ListExpiredActive(ctx, time.Now())
	uow.Rollback()
	if err != nil {
		return 0, err
	}

	recycled := 0
	for _, game := range expired {
		if err := s.reapOne(ctx, game.ID); err != nil {
			if errors.Is(err, models.ErrConcurrentModification) {
				// Another actor resolved or recycled it first.
				continue
			}
			log.WithError(err).WithField("game_id", game.ID).Error("Failed to recycle expired game")
			continue
		}
		recycled++
	}
	return recycled, nil
}

func (s *gameService) reapOne(ctx context.Context, gameID string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil || !game.PastDeadline(time.Now()) {
		return fmt.Errorf("game %s: %w", gameID, models.ErrConcurrentModification)
	}

	if _, err := s.recycle(ctx, uow, game, true); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// actorOf resolves a user's actor type, returning the backing bot when the
// account belongs to one.
func (s *gameService) actorOf(ctx context.Context, uow UnitOfWork, userID int64) (models.ActorType, *models.Bot, error) {
	bot, err := uow.BotRepository().GetByUserID(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	if bot == nil {
		return models.ActorUser, nil, nil
	}
	return bot.Type.ActorType(), bot, nil
}

// lockPair locks two accounts in ascending user-ID order and returns them
// in (first-argument, second-argument) order.
func (s *gameService) lockPair(ctx context.Context, uow UnitOfWork, aID, bID int64) (*models.Account, *models.Account, error) {
	lo, hi := aID, bID
	if lo > hi {
		lo, hi = hi, lo
	}

	accounts := make(map[int64]*models.Account, 2)
	for _, id := range []int64{lo, hi} {
		acc, err := uow.AccountRepository().GetForUpdate(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to lock account %d: %w", id, err)
		}
		if acc == nil {
			return nil, nil, fmt.Errorf("account %d: %w", id, models.ErrNotFound)
		}
		accounts[id] = acc
	}
	return accounts[aID], accounts[bID], nil
}

// freeze holds a stake and commission for one side, publishing the balance
// movement. Both the balance and gem guards are all-or-nothing: any
// shortfall aborts the enclosing transaction with nothing frozen.
func (s *gameService) freeze(ctx context.Context, uow UnitOfWork, account *models.Account, commission int64, gems models.GemAmount, reason string) error {
	if commission > 0 {
		if err := uow.AccountRepository().FreezeBalance(ctx, account.UserID, commission); err != nil {
			return err
		}
		uow.EventBus().Publish(events.BalanceChangeEvent{
			UserID:        account.UserID,
			VirtualBefore: account.VirtualBalance,
			VirtualAfter:  account.VirtualBalance - commission,
			FrozenBefore:  account.FrozenBalance,
			FrozenAfter:   account.FrozenBalance + commission,
			Reason:        reason,
		})
	}
	return uow.GemHoldingRepository().Freeze(ctx, account.UserID, gems)
}

func (s *gameService) releaseCommission(ctx context.Context, uow UnitOfWork, account *models.Account, commission int64, reason string) error {
	if commission <= 0 {
		return nil
	}
	if err := uow.AccountRepository().ReleaseBalance(ctx, account.UserID, commission); err != nil {
		return err
	}
	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:        account.UserID,
		VirtualBefore: account.VirtualBalance,
		VirtualAfter:  account.VirtualBalance + commission,
		FrozenBefore:  account.FrozenBalance,
		FrozenAfter:   account.FrozenBalance - commission,
		Reason:        reason,
	})
	return nil
}
