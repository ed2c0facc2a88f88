package models

import (
	"time"
)

// ProfitEntryType represents the kind of commission captured by an entry.
// Human-vs-human commission and human-vs-human-bot commission are kept as
// separate kinds for reporting but follow identical mechanics.
type ProfitEntryType string

const (
	ProfitBetCommission      ProfitEntryType = "bet_commission"
	ProfitHumanBotCommission ProfitEntryType = "human_bot_commission"
)

// ProfitLedgerEntry is an append-only record of commission permanently
// removed from circulation. At most one entry exists per game.
type ProfitLedgerEntry struct {
	ID              int64           `db:"id"`
	EntryType       ProfitEntryType `db:"entry_type"`
	Amount          int64           `db:"amount"`
	ReferenceGameID string          `db:"reference_game_id"`
	Metadata        map[string]any  `db:"metadata"`
	CreatedAt       time.Time       `db:"created_at"`
}
