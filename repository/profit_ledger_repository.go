package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"gemplay/database"
	"gemplay/models"
)

// ProfitLedgerRepository implements the ProfitLedgerRepository interface
type ProfitLedgerRepository struct {
	q queryable
}

// NewProfitLedgerRepository creates a new profit ledger repository
func NewProfitLedgerRepository(db *database.DB) *ProfitLedgerRepository {
	return &ProfitLedgerRepository{q: db.Pool}
}

// newProfitLedgerRepositoryWithTx creates a new profit ledger repository with a transaction
func newProfitLedgerRepositoryWithTx(tx queryable) *ProfitLedgerRepository {
	return &ProfitLedgerRepository{q: tx}
}

// Record appends a profit ledger entry. The unique constraint on
// reference_game_id rejects a second entry for the same game, so a double
// charge can never be recorded.
func (r *ProfitLedgerRepository) Record(ctx context.Context, entry *models.ProfitLedgerEntry) error {
	metadataJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal profit entry metadata: %w", err)
	}

	query := `
		INSERT INTO profit_ledger (entry_type, amount, reference_game_id, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		entry.EntryType, entry.Amount, entry.ReferenceGameID, metadataJSON,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record profit entry for game %s: %w", entry.ReferenceGameID, err)
	}
	return nil
}

// GetByGame returns the profit entry referencing a game, or nil.
func (r *ProfitLedgerRepository) GetByGame(ctx context.Context, gameID string) (*models.ProfitLedgerEntry, error) {
	query := `
		SELECT id, entry_type, amount, reference_game_id, metadata, created_at
		FROM profit_ledger
		WHERE reference_game_id = $1
	`

	var entry models.ProfitLedgerEntry
	var metadataJSON []byte
	err := r.q.QueryRow(ctx, query, gameID).Scan(
		&entry.ID, &entry.EntryType, &entry.Amount, &entry.ReferenceGameID,
		&metadataJSON, &entry.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profit entry for game %s: %w", gameID, err)
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profit entry metadata: %w", err)
		}
	}
	return &entry, nil
}

// TotalByType returns the summed commission captured per entry kind.
func (r *ProfitLedgerRepository) TotalByType(ctx context.Context) (map[models.ProfitEntryType]int64, error) {
	query := `
		SELECT entry_type, COALESCE(SUM(amount), 0)
		FROM profit_ledger
		GROUP BY entry_type
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to total profit ledger: %w", err)
	}
	defer rows.Close()

	totals := make(map[models.ProfitEntryType]int64)
	for rows.Next() {
		var entryType models.ProfitEntryType
		var total int64
		if err := rows.Scan(&entryType, &total); err != nil {
			return nil, fmt.Errorf("failed to scan profit total: %w", err)
		}
		totals[entryType] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profit totals: %w", err)
	}
	return totals, nil
}
