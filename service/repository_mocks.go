package service

import (
	"context"
	"time"

	"gemplay/events"
	"gemplay/models"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, userID int64) (*models.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetForUpdate(ctx context.Context, userID int64) (*models.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, username string, initialBalance int64) (*models.Account, error) {
	args := m.Called(ctx, username, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Credit(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) Debit(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) FreezeBalance(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) ReleaseBalance(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) DebitFrozen(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

// MockGemHoldingRepository is a mock implementation of GemHoldingRepository
type MockGemHoldingRepository struct {
	mock.Mock
}

func (m *MockGemHoldingRepository) GetByUser(ctx context.Context, userID int64) ([]*models.GemHolding, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GemHolding), args.Error(1)
}

func (m *MockGemHoldingRepository) Freeze(ctx context.Context, userID int64, gems models.GemAmount) error {
	args := m.Called(ctx, userID, gems)
	return args.Error(0)
}

func (m *MockGemHoldingRepository) Release(ctx context.Context, userID int64, gems models.GemAmount) error {
	args := m.Called(ctx, userID, gems)
	return args.Error(0)
}

func (m *MockGemHoldingRepository) TransferFrozen(ctx context.Context, fromUserID, toUserID int64, gems models.GemAmount) error {
	args := m.Called(ctx, fromUserID, toUserID, gems)
	return args.Error(0)
}

func (m *MockGemHoldingRepository) Add(ctx context.Context, userID int64, gems models.GemAmount) error {
	args := m.Called(ctx, userID, gems)
	return args.Error(0)
}

// MockGameRepository is a mock implementation of GameRepository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Create(ctx context.Context, game *models.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) ClaimForJoin(ctx context.Context, game *models.Game) (bool, error) {
	args := m.Called(ctx, game)
	return args.Bool(0), args.Error(1)
}

func (m *MockGameRepository) Complete(ctx context.Context, game *models.Game) (bool, error) {
	args := m.Called(ctx, game)
	return args.Bool(0), args.Error(1)
}

func (m *MockGameRepository) Cancel(ctx context.Context, id string, creatorID int64) (bool, error) {
	args := m.Called(ctx, id, creatorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGameRepository) Recycle(ctx context.Context, id string, move models.Move, salt, hash string) (bool, error) {
	args := m.Called(ctx, id, move, salt, hash)
	return args.Bool(0), args.Error(1)
}

func (m *MockGameRepository) ListAvailable(ctx context.Context, excludeUserID int64, includeRegularBots bool, limit int) ([]*models.Game, error) {
	args := m.Called(ctx, excludeUserID, includeRegularBots, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Game), args.Error(1)
}

func (m *MockGameRepository) ListExpiredActive(ctx context.Context, now time.Time) ([]*models.Game, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Game), args.Error(1)
}

func (m *MockGameRepository) CountOpenByCreator(ctx context.Context, creatorID int64) (int, error) {
	args := m.Called(ctx, creatorID)
	return args.Int(0), args.Error(1)
}

// MockBotRepository is a mock implementation of BotRepository
type MockBotRepository struct {
	mock.Mock
}

func (m *MockBotRepository) Create(ctx context.Context, bot *models.Bot) error {
	args := m.Called(ctx, bot)
	return args.Error(0)
}

func (m *MockBotRepository) GetByID(ctx context.Context, id int64) (*models.Bot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bot), args.Error(1)
}

func (m *MockBotRepository) GetByUserID(ctx context.Context, userID int64) (*models.Bot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bot), args.Error(1)
}

func (m *MockBotRepository) GetByUserIDForUpdate(ctx context.Context, userID int64) (*models.Bot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bot), args.Error(1)
}

func (m *MockBotRepository) ListActive(ctx context.Context) ([]*models.Bot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bot), args.Error(1)
}

func (m *MockBotRepository) ListByType(ctx context.Context, botType models.BotType) ([]*models.Bot, error) {
	args := m.Called(ctx, botType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bot), args.Error(1)
}

func (m *MockBotRepository) Update(ctx context.Context, bot *models.Bot) error {
	args := m.Called(ctx, bot)
	return args.Error(0)
}

func (m *MockBotRepository) AdjustActiveBets(ctx context.Context, botID int64, delta int) error {
	args := m.Called(ctx, botID, delta)
	return args.Error(0)
}

// MockProfitLedgerRepository is a mock implementation of ProfitLedgerRepository
type MockProfitLedgerRepository struct {
	mock.Mock
}

func (m *MockProfitLedgerRepository) Record(ctx context.Context, entry *models.ProfitLedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockProfitLedgerRepository) GetByGame(ctx context.Context, gameID string) (*models.ProfitLedgerEntry, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProfitLedgerEntry), args.Error(1)
}

func (m *MockProfitLedgerRepository) TotalByType(ctx context.Context) (map[models.ProfitEntryType]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.ProfitEntryType]int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// NoopEventPublisher drops every event; for tests that do not assert on
// the event stream.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(event events.Event) {}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	accountRepo      AccountRepository
	gemHoldingRepo   GemHoldingRepository
	gameRepo         GameRepository
	botRepo          BotRepository
	profitLedgerRepo ProfitLedgerRepository
	eventBus         EventPublisher
}

// SetRepositories wires the repositories the mock getters will hand out.
// A nil event bus gets the noop publisher.
func (m *MockUnitOfWork) SetRepositories(
	accountRepo AccountRepository,
	gemHoldingRepo GemHoldingRepository,
	gameRepo GameRepository,
	botRepo BotRepository,
	profitLedgerRepo ProfitLedgerRepository,
	eventBus EventPublisher,
) {
	m.accountRepo = accountRepo
	m.gemHoldingRepo = gemHoldingRepo
	m.gameRepo = gameRepo
	m.botRepo = botRepo
	m.profitLedgerRepo = profitLedgerRepo
	if eventBus == nil {
		eventBus = NoopEventPublisher{}
	}
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository {
	return m.accountRepo
}

func (m *MockUnitOfWork) GemHoldingRepository() GemHoldingRepository {
	return m.gemHoldingRepo
}

func (m *MockUnitOfWork) GameRepository() GameRepository {
	return m.gameRepo
}

func (m *MockUnitOfWork) BotRepository() BotRepository {
	return m.botRepo
}

func (m *MockUnitOfWork) ProfitLedgerRepository() ProfitLedgerRepository {
	return m.profitLedgerRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
