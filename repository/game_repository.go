package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"gemplay/database"
	"gemplay/models"
)

// GameRepository implements the GameRepository interface
type GameRepository struct {
	q queryable
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{q: db.Pool}
}

// newGameRepositoryWithTx creates a new game repository with a transaction
func newGameRepositoryWithTx(tx queryable) *GameRepository {
	return &GameRepository{q: tx}
}

const gameColumns = `
	id, creator_id, opponent_id, status, bet_gems, bet_amount,
	creator_commission, opponent_commission,
	creator_move_hash, creator_salt, creator_move,
	opponent_gems, opponent_move, result, winner_id,
	creator_type, opponent_type,
	created_at, joined_at, deadline, completed_at`

func scanGame(row pgx.Row) (*models.Game, error) {
	var g models.Game
	var betGems, opponentGems []byte

	err := row.Scan(
		&g.ID,
		&g.CreatorID,
		&g.OpponentID,
		&g.Status,
		&betGems,
		&g.BetAmount,
		&g.CreatorCommission,
		&g.OpponentCommission,
		&g.CreatorMoveHash,
		&g.CreatorSalt,
		&g.CreatorMove,
		&opponentGems,
		&g.OpponentMove,
		&g.Result,
		&g.WinnerID,
		&g.CreatorType,
		&g.OpponentType,
		&g.CreatedAt,
		&g.JoinedAt,
		&g.Deadline,
		&g.CompletedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(betGems, &g.BetGems); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bet gems: %w", err)
	}
	if len(opponentGems) > 0 {
		if err := json.Unmarshal(opponentGems, &g.OpponentGems); err != nil {
			return nil, fmt.Errorf("failed to unmarshal opponent gems: %w", err)
		}
	}
	return &g, nil
}

// Create inserts a new waiting game
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	betGems, err := json.Marshal(game.BetGems)
	if err != nil {
		return fmt.Errorf("failed to marshal bet gems: %w", err)
	}

	query := `
		INSERT INTO games
			(id, creator_id, status, bet_gems, bet_amount, creator_commission,
			 creator_move_hash, creator_salt, creator_move, creator_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	err = r.q.QueryRow(ctx, query,
		game.ID,
		game.CreatorID,
		game.Status,
		betGems,
		game.BetAmount,
		game.CreatorCommission,
		game.CreatorMoveHash,
		game.CreatorSalt,
		game.CreatorMove,
		game.CreatorType,
	).Scan(&game.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create game %s: %w", game.ID, err)
	}
	return nil
}

// GetByID retrieves a game by ID
func (r *GameRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	game, err := scanGame(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get game %s: %w", id, err)
	}
	return game, nil
}

// ClaimForJoin atomically moves a waiting game to active and records the
// opponent's side. Returns false when the compare-and-set on status loses;
// a concurrent join, cancel or recycle got there first.
func (r *GameRepository) ClaimForJoin(ctx context.Context, game *models.Game) (bool, error) {
	opponentGems, err := json.Marshal(game.OpponentGems)
	if err != nil {
		return false, fmt.Errorf("failed to marshal opponent gems: %w", err)
	}

	query := `
		UPDATE games
		SET status = $1, opponent_id = $2, opponent_gems = $3, opponent_move = $4,
		    opponent_type = $5, opponent_commission = $6, joined_at = $7, deadline = $8
		WHERE id = $9 AND status = $10
	`

	result, err := r.q.Exec(ctx, query,
		models.GameStatusActive,
		game.OpponentID,
		opponentGems,
		game.OpponentMove,
		game.OpponentType,
		game.OpponentCommission,
		game.JoinedAt,
		game.Deadline,
		game.ID,
		models.GameStatusWaiting,
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim game %s for join: %w", game.ID, err)
	}
	return result.RowsAffected() == 1, nil
}

// Complete atomically moves an active game to completed with its result.
func (r *GameRepository) Complete(ctx context.Context, game *models.Game) (bool, error) {
	query := `
		UPDATE games
		SET status = $1, result = $2, winner_id = $3, completed_at = $4,
		    creator_move = $5, creator_salt = $6, creator_move_hash = $7
		WHERE id = $8 AND status = $9
	`

	result, err := r.q.Exec(ctx, query,
		models.GameStatusCompleted,
		game.Result,
		game.WinnerID,
		game.CompletedAt,
		game.CreatorMove,
		game.CreatorSalt,
		game.CreatorMoveHash,
		game.ID,
		models.GameStatusActive,
	)
	if err != nil {
		return false, fmt.Errorf("failed to complete game %s: %w", game.ID, err)
	}
	return result.RowsAffected() == 1, nil
}

// Cancel atomically moves a still-unjoined game to cancelled. Only matches
// the creator's own waiting game.
func (r *GameRepository) Cancel(ctx context.Context, id string, creatorID int64) (bool, error) {
	query := `
		UPDATE games
		SET status = $1, completed_at = NOW()
		WHERE id = $2 AND creator_id = $3 AND status = $4
	`

	result, err := r.q.Exec(ctx, query,
		models.GameStatusCancelled, id, creatorID, models.GameStatusWaiting)
	if err != nil {
		return false, fmt.Errorf("failed to cancel game %s: %w", id, err)
	}
	return result.RowsAffected() == 1, nil
}

// Recycle atomically returns an abandoned active game to the waiting pool.
// The opponent's side is cleared and the creator's commitment replaced with
// a fresh move, salt and hash.
func (r *GameRepository) Recycle(ctx context.Context, id string, move models.Move, salt, hash string) (bool, error) {
	query := `
		UPDATE games
		SET status = $1,
		    opponent_id = NULL, opponent_gems = NULL, opponent_move = NULL,
		    opponent_type = NULL, opponent_commission = 0,
		    joined_at = NULL, deadline = NULL,
		    creator_move = $2, creator_salt = $3, creator_move_hash = $4
		WHERE id = $5 AND status = $6
	`

	result, err := r.q.Exec(ctx, query,
		models.GameStatusWaiting, move, salt, hash, id, models.GameStatusActive)
	if err != nil {
		return false, fmt.Errorf("failed to recycle game %s: %w", id, err)
	}
	return result.RowsAffected() == 1, nil
}

// ListAvailable returns waiting games joinable by the given user, newest
// first. The caller's own games are always excluded; regular-bot games are
// excluded unless the feed is configured to expose them.
func (r *GameRepository) ListAvailable(ctx context.Context, excludeUserID int64, includeRegularBots bool, limit int) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE status = $1
		  AND creator_id <> $2
		  AND ($3 OR creator_type <> $4)
		ORDER BY created_at DESC
		LIMIT $5
	`

	rows, err := r.q.Query(ctx, query,
		models.GameStatusWaiting, excludeUserID, includeRegularBots, models.ActorRegularBot, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list available games: %w", err)
	}
	defer rows.Close()

	return collectGames(rows)
}

// ListExpiredActive returns active games whose deadline has passed.
func (r *GameRepository) ListExpiredActive(ctx context.Context, now time.Time) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE status = $1 AND deadline IS NOT NULL AND deadline < $2
		ORDER BY deadline
	`

	rows, err := r.q.Query(ctx, query, models.GameStatusActive, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired games: %w", err)
	}
	defer rows.Close()

	return collectGames(rows)
}

// CountOpenByCreator counts a creator's waiting and active games.
func (r *GameRepository) CountOpenByCreator(ctx context.Context, creatorID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM games
		WHERE creator_id = $1 AND status IN ($2, $3)
	`

	var count int
	err := r.q.QueryRow(ctx, query, creatorID, models.GameStatusWaiting, models.GameStatusActive).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count open games for creator %d: %w", creatorID, err)
	}
	return count, nil
}

func collectGames(rows pgx.Rows) ([]*models.Game, error) {
	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}
	return games, nil
}
