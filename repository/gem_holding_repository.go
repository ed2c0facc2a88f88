package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"gemplay/database"
	"gemplay/models"
)

// GemHoldingRepository implements the GemHoldingRepository interface
type GemHoldingRepository struct {
	q queryable
}

// NewGemHoldingRepository creates a new gem holding repository
func NewGemHoldingRepository(db *database.DB) *GemHoldingRepository {
	return &GemHoldingRepository{q: db.Pool}
}

// newGemHoldingRepositoryWithTx creates a new gem holding repository with a transaction
func newGemHoldingRepositoryWithTx(tx queryable) *GemHoldingRepository {
	return &GemHoldingRepository{q: tx}
}

// GetByUser returns all of a user's gem holdings, cheapest type first.
func (r *GemHoldingRepository) GetByUser(ctx context.Context, userID int64) ([]*models.GemHolding, error) {
	query := `
		SELECT user_id, gem_type, quantity, frozen_quantity, updated_at
		FROM gem_holdings
		WHERE user_id = $1
		ORDER BY gem_type
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get gem holdings for user %d: %w", userID, err)
	}
	defer rows.Close()

	var holdings []*models.GemHolding
	for rows.Next() {
		var h models.GemHolding
		if err := rows.Scan(&h.UserID, &h.GemType, &h.Quantity, &h.FrozenQuantity, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan gem holding: %w", err)
		}
		holdings = append(holdings, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate gem holdings: %w", err)
	}
	return holdings, nil
}

// Freeze increments the frozen quantity of each requested gem type, guarded
// so no row can go over its available stock. Per-type failures surface as
// ErrInsufficientGems; the enclosing transaction keeps the whole freeze
// all-or-nothing.
func (r *GemHoldingRepository) Freeze(ctx context.Context, userID int64, gems models.GemAmount) error {
	query := `
		UPDATE gem_holdings
		SET frozen_quantity = frozen_quantity + $1, updated_at = NOW()
		WHERE user_id = $2 AND gem_type = $3 AND quantity - frozen_quantity >= $1
	`

	for _, gemType := range models.GemTypesByPrice() {
		count, ok := gems[gemType]
		if !ok {
			continue
		}
		result, err := r.q.Exec(ctx, query, count, userID, gemType)
		if err != nil {
			return fmt.Errorf("failed to freeze %d %s for user %d: %w", count, gemType, userID, err)
		}
		if result.RowsAffected() == 0 {
			available, err := r.availableOf(ctx, userID, gemType)
			if err != nil {
				return err
			}
			return fmt.Errorf("%w: %s: have %d available, need %d",
				models.ErrInsufficientGems, gemType, available, count)
		}
	}
	return nil
}

// Release returns previously frozen gems to available stock. Releasing more
// than is frozen fails with ErrInvariantViolation.
func (r *GemHoldingRepository) Release(ctx context.Context, userID int64, gems models.GemAmount) error {
	query := `
		UPDATE gem_holdings
		SET frozen_quantity = frozen_quantity - $1, updated_at = NOW()
		WHERE user_id = $2 AND gem_type = $3 AND frozen_quantity >= $1
	`

	for _, gemType := range models.GemTypesByPrice() {
		count, ok := gems[gemType]
		if !ok {
			continue
		}
		result, err := r.q.Exec(ctx, query, count, userID, gemType)
		if err != nil {
			return fmt.Errorf("failed to release %d %s for user %d: %w", count, gemType, userID, err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("release of %d %s exceeds frozen quantity for user %d: %w",
				count, gemType, userID, models.ErrInvariantViolation)
		}
	}
	return nil
}

// TransferFrozen moves a frozen stake out of the loser's holdings into the
// winner's spendable stock. Ownership changes hands; total gem count in the
// system is unchanged.
func (r *GemHoldingRepository) TransferFrozen(ctx context.Context, fromUserID, toUserID int64, gems models.GemAmount) error {
	deduct := `
		UPDATE gem_holdings
		SET quantity = quantity - $1,
		    frozen_quantity = frozen_quantity - $1,
		    updated_at = NOW()
		WHERE user_id = $2 AND gem_type = $3 AND frozen_quantity >= $1
	`

	for _, gemType := range models.GemTypesByPrice() {
		count, ok := gems[gemType]
		if !ok {
			continue
		}
		result, err := r.q.Exec(ctx, deduct, count, fromUserID, gemType)
		if err != nil {
			return fmt.Errorf("failed to transfer %d %s from user %d: %w", count, gemType, fromUserID, err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("transfer of %d %s exceeds frozen quantity of user %d: %w",
				count, gemType, fromUserID, models.ErrInvariantViolation)
		}
		if err := r.Add(ctx, toUserID, models.GemAmount{gemType: count}); err != nil {
			return err
		}
	}
	return nil
}

// Add credits gems to a user's available stock, creating holding rows as
// needed. Used for settlement payouts and admin seeding.
func (r *GemHoldingRepository) Add(ctx context.Context, userID int64, gems models.GemAmount) error {
	query := `
		INSERT INTO gem_holdings (user_id, gem_type, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, gem_type)
		DO UPDATE SET quantity = gem_holdings.quantity + EXCLUDED.quantity, updated_at = NOW()
	`

	for _, gemType := range models.GemTypesByPrice() {
		count, ok := gems[gemType]
		if !ok {
			continue
		}
		if _, err := r.q.Exec(ctx, query, userID, gemType, count); err != nil {
			return fmt.Errorf("failed to add %d %s for user %d: %w", count, gemType, userID, err)
		}
	}
	return nil
}

func (r *GemHoldingRepository) availableOf(ctx context.Context, userID int64, gemType models.GemType) (int64, error) {
	query := `
		SELECT quantity - frozen_quantity
		FROM gem_holdings
		WHERE user_id = $1 AND gem_type = $2
	`

	var available int64
	err := r.q.QueryRow(ctx, query, userID, gemType).Scan(&available)
	if err == pgx.ErrNoRows {
		// No row means no stock of this type at all.
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to check %s stock for user %d: %w", gemType, userID, err)
	}
	return available, nil
}
