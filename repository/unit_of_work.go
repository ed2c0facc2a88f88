package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"gemplay/database"
	"gemplay/events"
	"gemplay/service"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	accountRepo      service.AccountRepository
	gemRepo          service.GemHoldingRepository
	gameRepo         service.GameRepository
	botRepo          service.BotRepository
	profitRepo       service.ProfitLedgerRepository
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.accountRepo = newAccountRepositoryWithTx(tx)
	u.gemRepo = newGemHoldingRepositoryWithTx(tx)
	u.gameRepo = newGameRepositoryWithTx(tx)
	u.botRepo = newBotRepositoryWithTx(tx)
	u.profitRepo = newProfitLedgerRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction and discards pending events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	if err := u.tx.Rollback(u.ctx); err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() service.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

// GemHoldingRepository returns the gem holding repository for this unit of work
func (u *unitOfWork) GemHoldingRepository() service.GemHoldingRepository {
	if u.gemRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.gemRepo
}

// GameRepository returns the game repository for this unit of work
func (u *unitOfWork) GameRepository() service.GameRepository {
	if u.gameRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.gameRepo
}

// BotRepository returns the bot repository for this unit of work
func (u *unitOfWork) BotRepository() service.BotRepository {
	if u.botRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.botRepo
}

// ProfitLedgerRepository returns the profit ledger repository for this unit of work
func (u *unitOfWork) ProfitLedgerRepository() service.ProfitLedgerRepository {
	if u.profitRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.profitRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
