package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"gemplay/database"
	"gemplay/models"
)

// BotRepository implements the BotRepository interface
type BotRepository struct {
	q queryable
}

// NewBotRepository creates a new bot repository
func NewBotRepository(db *database.DB) *BotRepository {
	return &BotRepository{q: db.Pool}
}

// newBotRepositoryWithTx creates a new bot repository with a transaction
func newBotRepositoryWithTx(tx queryable) *BotRepository {
	return &BotRepository{q: tx}
}

const botColumns = `
	id, user_id, name, type, character, min_bet, max_bet, cycle_games,
	win_percentage, active_bets, completed_cycles,
	current_cycle_wins, current_cycle_losses, current_cycle_draws,
	current_cycle_profit, total_net_profit, pause_seconds, priority,
	is_active, last_completed_at, created_at, updated_at`

func scanBot(row pgx.Row) (*models.Bot, error) {
	var b models.Bot
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.Name,
		&b.Type,
		&b.Character,
		&b.MinBet,
		&b.MaxBet,
		&b.CycleGames,
		&b.WinPercentage,
		&b.ActiveBets,
		&b.CompletedCycles,
		&b.CurrentCycleWins,
		&b.CurrentCycleLosses,
		&b.CurrentCycleDraws,
		&b.CurrentCycleProfit,
		&b.TotalNetProfit,
		&b.PauseSeconds,
		&b.Priority,
		&b.IsActive,
		&b.LastCompletedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a new bot row
func (r *BotRepository) Create(ctx context.Context, bot *models.Bot) error {
	query := `
		INSERT INTO bots
			(user_id, name, type, character, min_bet, max_bet, cycle_games,
			 win_percentage, pause_seconds, priority, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		bot.UserID, bot.Name, bot.Type, bot.Character,
		bot.MinBet, bot.MaxBet, bot.CycleGames, bot.WinPercentage,
		bot.PauseSeconds, bot.Priority, bot.IsActive,
	).Scan(&bot.ID, &bot.CreatedAt, &bot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bot %q: %w", bot.Name, err)
	}
	return nil
}

// GetByID retrieves a bot by ID
func (r *BotRepository) GetByID(ctx context.Context, id int64) (*models.Bot, error) {
	query := `SELECT ` + botColumns + ` FROM bots WHERE id = $1`

	bot, err := scanBot(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get bot %d: %w", id, err)
	}
	return bot, nil
}

// GetByUserID retrieves the bot owning the given account, if any.
func (r *BotRepository) GetByUserID(ctx context.Context, userID int64) (*models.Bot, error) {
	query := `SELECT ` + botColumns + ` FROM bots WHERE user_id = $1`

	bot, err := scanBot(r.q.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get bot for user %d: %w", userID, err)
	}
	return bot, nil
}

// GetByUserIDForUpdate retrieves the bot owning the given account and takes
// a row lock so cycle bookkeeping cannot race between settlements.
func (r *BotRepository) GetByUserIDForUpdate(ctx context.Context, userID int64) (*models.Bot, error) {
	query := `SELECT ` + botColumns + ` FROM bots WHERE user_id = $1 FOR UPDATE`

	bot, err := scanBot(r.q.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock bot for user %d: %w", userID, err)
	}
	return bot, nil
}

// ListActive returns active bots in scheduling order: highest priority
// first, ties broken by ID so the ordering is stable across ticks.
func (r *BotRepository) ListActive(ctx context.Context) ([]*models.Bot, error) {
	query := `SELECT ` + botColumns + ` FROM bots WHERE is_active ORDER BY priority DESC, id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active bots: %w", err)
	}
	defer rows.Close()

	var bots []*models.Bot
	for rows.Next() {
		bot, err := scanBot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bot: %w", err)
		}
		bots = append(bots, bot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bots: %w", err)
	}
	return bots, nil
}

// ListByType returns all bots of one type, scheduling order.
func (r *BotRepository) ListByType(ctx context.Context, botType models.BotType) ([]*models.Bot, error) {
	query := `SELECT ` + botColumns + ` FROM bots WHERE type = $1 ORDER BY priority DESC, id`

	rows, err := r.q.Query(ctx, query, botType)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s bots: %w", botType, err)
	}
	defer rows.Close()

	var bots []*models.Bot
	for rows.Next() {
		bot, err := scanBot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bot: %w", err)
		}
		bots = append(bots, bot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bots: %w", err)
	}
	return bots, nil
}

// Update persists the bot's configuration and cycle bookkeeping.
func (r *BotRepository) Update(ctx context.Context, bot *models.Bot) error {
	query := `
		UPDATE bots
		SET name = $1, type = $2, character = $3, min_bet = $4, max_bet = $5,
		    cycle_games = $6, win_percentage = $7, active_bets = $8,
		    completed_cycles = $9, current_cycle_wins = $10,
		    current_cycle_losses = $11, current_cycle_draws = $12,
		    current_cycle_profit = $13, total_net_profit = $14,
		    pause_seconds = $15, priority = $16, is_active = $17,
		    last_completed_at = $18, updated_at = NOW()
		WHERE id = $19
	`

	result, err := r.q.Exec(ctx, query,
		bot.Name, bot.Type, bot.Character, bot.MinBet, bot.MaxBet,
		bot.CycleGames, bot.WinPercentage, bot.ActiveBets,
		bot.CompletedCycles, bot.CurrentCycleWins,
		bot.CurrentCycleLosses, bot.CurrentCycleDraws,
		bot.CurrentCycleProfit, bot.TotalNetProfit,
		bot.PauseSeconds, bot.Priority, bot.IsActive,
		bot.LastCompletedAt, bot.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bot %d: %w", bot.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("bot %d: %w", bot.ID, models.ErrNotFound)
	}
	return nil
}

// AdjustActiveBets changes a bot's open-bet count by the given delta,
// guarded so the count never goes negative.
func (r *BotRepository) AdjustActiveBets(ctx context.Context, botID int64, delta int) error {
	query := `
		UPDATE bots
		SET active_bets = active_bets + $1, updated_at = NOW()
		WHERE id = $2 AND active_bets + $1 >= 0
	`

	result, err := r.q.Exec(ctx, query, delta, botID)
	if err != nil {
		return fmt.Errorf("failed to adjust active bets for bot %d: %w", botID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("active bet count for bot %d would go negative: %w",
			botID, models.ErrInvariantViolation)
	}
	return nil
}
