package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"gemplay/database"
	"gemplay/models"
)

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

const accountColumns = `user_id, username, virtual_balance, frozen_balance, is_active, created_at, updated_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.UserID,
		&a.Username,
		&a.VirtualBalance,
		&a.FrozenBalance,
		&a.IsActive,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID retrieves an account by user ID
func (r *AccountRepository) GetByID(ctx context.Context, userID int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", userID, err)
	}
	return account, nil
}

// GetForUpdate retrieves an account and takes a row-level lock for the
// duration of the enclosing transaction. Callers locking two accounts must
// lock in ascending user-ID order.
func (r *AccountRepository) GetForUpdate(ctx context.Context, userID int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 FOR UPDATE`

	account, err := scanAccount(r.q.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %d: %w", userID, err)
	}
	return account, nil
}

// Create creates a new account with an initial spendable balance
func (r *AccountRepository) Create(ctx context.Context, username string, initialBalance int64) (*models.Account, error) {
	query := `
		INSERT INTO accounts (username, virtual_balance)
		VALUES ($1, $2)
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, username, initialBalance))
	if err != nil {
		return nil, fmt.Errorf("failed to create account %q: %w", username, err)
	}
	return account, nil
}

// Credit adds spendable currency to an account. Together with Debit this is
// the only operation that changes an account's total currency.
func (r *AccountRepository) Credit(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive")
	}

	query := `
		UPDATE accounts
		SET virtual_balance = virtual_balance + $1, updated_at = NOW()
		WHERE user_id = $2
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to credit account %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %d: %w", userID, models.ErrNotFound)
	}
	return nil
}

// Debit removes spendable currency from an account, failing on shortfall.
func (r *AccountRepository) Debit(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("debit amount must be positive")
	}

	query := `
		UPDATE accounts
		SET virtual_balance = virtual_balance - $1, updated_at = NOW()
		WHERE user_id = $2 AND virtual_balance >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to debit account %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return r.shortfall(ctx, userID, amount)
	}
	return nil
}

// FreezeBalance moves currency from the spendable to the frozen bucket.
// The guard makes the operation all-or-nothing under concurrency.
func (r *AccountRepository) FreezeBalance(ctx context.Context, userID int64, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("freeze amount must not be negative")
	}
	if amount == 0 {
		return nil
	}

	query := `
		UPDATE accounts
		SET virtual_balance = virtual_balance - $1,
		    frozen_balance = frozen_balance + $1,
		    updated_at = NOW()
		WHERE user_id = $2 AND virtual_balance >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to freeze balance for account %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return r.shortfall(ctx, userID, amount)
	}
	return nil
}

// ReleaseBalance moves previously frozen currency back to the spendable
// bucket. Releasing more than is frozen is a programming error and fails
// loudly instead of clamping.
func (r *AccountRepository) ReleaseBalance(ctx context.Context, userID int64, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("release amount must not be negative")
	}
	if amount == 0 {
		return nil
	}

	query := `
		UPDATE accounts
		SET virtual_balance = virtual_balance + $1,
		    frozen_balance = frozen_balance - $1,
		    updated_at = NOW()
		WHERE user_id = $2 AND frozen_balance >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to release balance for account %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("release of %d exceeds frozen balance of account %d: %w",
			amount, userID, models.ErrInvariantViolation)
	}
	return nil
}

// DebitFrozen permanently removes frozen currency from circulation. Used
// for commission charges; the matching profit ledger entry is recorded by
// the caller in the same transaction.
func (r *AccountRepository) DebitFrozen(ctx context.Context, userID int64, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("debit amount must not be negative")
	}
	if amount == 0 {
		return nil
	}

	query := `
		UPDATE accounts
		SET frozen_balance = frozen_balance - $1, updated_at = NOW()
		WHERE user_id = $2 AND frozen_balance >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to debit frozen balance for account %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("frozen debit of %d exceeds frozen balance of account %d: %w",
			amount, userID, models.ErrInvariantViolation)
	}
	return nil
}

// shortfall builds the user-facing insufficient-funds error, or not-found
// if the account does not exist at all.
func (r *AccountRepository) shortfall(ctx context.Context, userID int64, required int64) error {
	account, err := r.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check account: %w", err)
	}
	if account == nil {
		return fmt.Errorf("account %d: %w", userID, models.ErrNotFound)
	}
	return fmt.Errorf("%w: have %d available, need %d",
		models.ErrInsufficientFunds, account.AvailableBalance(), required)
}
