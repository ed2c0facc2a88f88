package service

import (
	"context"
	"fmt"

	"gemplay/events"
	"gemplay/models"
)

type ledgerService struct {
	uowFactory UnitOfWorkFactory
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(uowFactory UnitOfWorkFactory) LedgerService {
	return &ledgerService{uowFactory: uowFactory}
}

func (s *ledgerService) GetBalance(ctx context.Context, userID int64) (*BalanceSnapshot, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("account %d: %w", userID, models.ErrNotFound)
	}

	return &BalanceSnapshot{
		VirtualBalance:   account.VirtualBalance,
		FrozenBalance:    account.FrozenBalance,
		AvailableBalance: account.AvailableBalance(),
	}, nil
}

func (s *ledgerService) GetInventory(ctx context.Context, userID int64) ([]*models.GemHolding, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	holdings, err := uow.GemHoldingRepository().GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	return holdings, nil
}

func (s *ledgerService) ProfitSummary(ctx context.Context) (map[models.ProfitEntryType]int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	totals, err := uow.ProfitLedgerRepository().TotalByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum profit ledger: %w", err)
	}
	return totals, nil
}

// Credit adds spendable currency and gems to an account. This is the only
// path by which total currency in the system grows.
func (s *ledgerService) Credit(ctx context.Context, userID int64, amount int64, gems models.GemAmount) error {
	if amount < 0 {
		return fmt.Errorf("credit amount must not be negative, got %d", amount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetForUpdate(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return fmt.Errorf("account %d: %w", userID, models.ErrNotFound)
	}

	if amount > 0 {
		if err := uow.AccountRepository().Credit(ctx, userID, amount); err != nil {
			return err
		}
		uow.EventBus().Publish(events.BalanceChangeEvent{
			UserID:        userID,
			VirtualBefore: account.VirtualBalance,
			VirtualAfter:  account.VirtualBalance + amount,
			FrozenBefore:  account.FrozenBalance,
			FrozenAfter:   account.FrozenBalance,
			Reason:        "admin_credit",
		})
	}
	if len(gems) > 0 {
		if !gems.Validate() {
			return fmt.Errorf("%w: credited gems are invalid", models.ErrInvalidBetAmount)
		}
		if err := uow.GemHoldingRepository().Add(ctx, userID, gems); err != nil {
			return err
		}
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
