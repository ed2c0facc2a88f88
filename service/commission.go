package service

import (
	"context"
	"fmt"
	"math"

	"gemplay/events"
	"gemplay/models"
)

// CommissionEngine computes the commission reserved per side of a game and
// routes charged commission into the profit ledger.
//
// Regular-bot games are commission-free on both sides. Games between a
// human-like bot and a live user charge the human side only, under a
// separate ledger entry kind. Human-vs-human games charge the loser.
type CommissionEngine struct {
	rate float64
}

// NewCommissionEngine creates a commission engine with the given rate,
// a fraction of bet value (e.g. 0.03).
func NewCommissionEngine(rate float64) *CommissionEngine {
	return &CommissionEngine{rate: rate}
}

// CreatorReservation returns the commission frozen from the creator at
// create time. Bots of either kind never pay commission. The opponent is
// unknown at this point; bots never join, so a human creator always
// reserves.
func (e *CommissionEngine) CreatorReservation(betAmount int64, creatorType models.ActorType) int64 {
	if creatorType.IsBot() {
		return 0
	}
	return e.amount(betAmount)
}

// OpponentReservation returns the commission frozen from the opponent at
// join time. Zero when the opponent is a bot or when the creator is a
// regular bot (regular-bot games are free for the human side too).
func (e *CommissionEngine) OpponentReservation(betAmount int64, creatorType, opponentType models.ActorType) int64 {
	if opponentType.IsBot() {
		return 0
	}
	if creatorType == models.ActorRegularBot {
		return 0
	}
	return e.amount(betAmount)
}

// EntryType returns the profit ledger kind for a charge on this pairing.
func (e *CommissionEngine) EntryType(creatorType, opponentType models.ActorType) models.ProfitEntryType {
	if creatorType == models.ActorHumanBot || opponentType == models.ActorHumanBot {
		return models.ProfitHumanBotCommission
	}
	return models.ProfitBetCommission
}

func (e *CommissionEngine) amount(betAmount int64) int64 {
	return int64(math.Round(float64(betAmount) * e.rate))
}

// chargeCommission permanently debits a loser's frozen commission and
// appends the matching profit ledger entry, all inside the caller's unit
// of work. The unique constraint on the ledger makes a second charge for
// the same game impossible.
func chargeCommission(ctx context.Context, uow UnitOfWork, game *models.Game, loserID int64, amount int64, entryType models.ProfitEntryType) error {
	if amount <= 0 {
		return nil
	}

	if err := uow.AccountRepository().DebitFrozen(ctx, loserID, amount); err != nil {
		return fmt.Errorf("failed to charge commission: %w", err)
	}

	entry := &models.ProfitLedgerEntry{
		EntryType:       entryType,
		Amount:          amount,
		ReferenceGameID: game.ID,
		Metadata: map[string]any{
			"loser_id":   loserID,
			"bet_amount": game.BetAmount,
		},
	}
	if err := uow.ProfitLedgerRepository().Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record profit entry: %w", err)
	}

	uow.EventBus().Publish(events.CommissionChargedEvent{
		GameID:    game.ID,
		UserID:    loserID,
		Amount:    amount,
		EntryType: entryType,
	})
	return nil
}
