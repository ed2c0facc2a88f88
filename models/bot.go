package models

import (
	"time"
)

// BotType distinguishes the two kinds of synthetic opponents. Regular bots
// play commission-free; human-like bots are indistinguishable from users and
// commission is charged to the human side of their games.
type BotType string

const (
	BotTypeRegular BotType = "regular"
	BotTypeHuman   BotType = "human"
)

// ActorType maps the bot kind onto the game actor taxonomy.
func (t BotType) ActorType() ActorType {
	if t == BotTypeHuman {
		return ActorHumanBot
	}
	return ActorRegularBot
}

// BotCharacter selects the betting personality of a human-like bot.
type BotCharacter string

const (
	CharacterAggressive BotCharacter = "aggressive"
	CharacterCautious   BotCharacter = "cautious"
	CharacterBalanced   BotCharacter = "balanced"
)

// IsValid reports whether c is one of the known characters.
func (c BotCharacter) IsValid() bool {
	return c == CharacterAggressive || c == CharacterCautious || c == CharacterBalanced
}

// Bot configures one synthetic opponent. Bots own an ordinary account row
// (UserID) and stake from it like any player; only this table is special.
type Bot struct {
	ID                 int64        `db:"id"`
	UserID             int64        `db:"user_id"`
	Name               string       `db:"name"`
	Type               BotType      `db:"type"`
	Character          BotCharacter `db:"character"`
	MinBet             int64        `db:"min_bet"`
	MaxBet             int64        `db:"max_bet"`
	CycleGames         int          `db:"cycle_games"`
	WinPercentage      float64      `db:"win_percentage"`
	ActiveBets         int          `db:"active_bets"`
	CompletedCycles    int          `db:"completed_cycles"`
	CurrentCycleWins   int          `db:"current_cycle_wins"`
	CurrentCycleLosses int          `db:"current_cycle_losses"`
	CurrentCycleDraws  int          `db:"current_cycle_draws"`
	CurrentCycleProfit int64        `db:"current_cycle_profit"`
	TotalNetProfit     int64        `db:"total_net_profit"`
	PauseSeconds       int          `db:"pause_seconds"`
	Priority           int          `db:"priority"`
	IsActive           bool         `db:"is_active"`
	LastCompletedAt    *time.Time   `db:"last_completed_at"`
	CreatedAt          time.Time    `db:"created_at"`
	UpdatedAt          time.Time    `db:"updated_at"`
}

// CycleGamesPlayed returns how many games of the current cycle are done.
func (b *Bot) CycleGamesPlayed() int {
	return b.CurrentCycleWins + b.CurrentCycleLosses + b.CurrentCycleDraws
}

// CycleComplete reports whether the current cycle has run its full length.
func (b *Bot) CycleComplete() bool {
	return b.CycleGames > 0 && b.CycleGamesPlayed() >= b.CycleGames
}

// PauseBetweenGames returns the minimum delay before the bot's next
// creation after one of its games completes.
func (b *Bot) PauseBetweenGames() time.Duration {
	return time.Duration(b.PauseSeconds) * time.Second
}

// InPause reports whether the bot is still inside its post-game pause.
func (b *Bot) InPause(now time.Time) bool {
	if b.LastCompletedAt == nil || b.PauseSeconds <= 0 {
		return false
	}
	return now.Before(b.LastCompletedAt.Add(b.PauseBetweenGames()))
}
