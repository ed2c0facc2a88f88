package service

import (
	"context"
	"time"

	"gemplay/events"
	"gemplay/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByID retrieves an account by user ID
	GetByID(ctx context.Context, userID int64) (*models.Account, error)

	// GetForUpdate retrieves an account under a row-level lock. Callers
	// locking two accounts must lock in ascending user-ID order.
	GetForUpdate(ctx context.Context, userID int64) (*models.Account, error)

	// Create creates a new account with an initial spendable balance
	Create(ctx context.Context, username string, initialBalance int64) (*models.Account, error)

	// Credit adds spendable currency; the only growth path for total currency
	Credit(ctx context.Context, userID int64, amount int64) error

	// Debit removes spendable currency, failing on shortfall
	Debit(ctx context.Context, userID int64, amount int64) error

	// FreezeBalance moves currency from spendable to frozen atomically
	FreezeBalance(ctx context.Context, userID int64, amount int64) error

	// ReleaseBalance moves previously frozen currency back to spendable;
	// releasing more than is frozen fails with ErrInvariantViolation
	ReleaseBalance(ctx context.Context, userID int64, amount int64) error

	// DebitFrozen permanently removes frozen currency from circulation
	DebitFrozen(ctx context.Context, userID int64, amount int64) error
}

// GemHoldingRepository defines the interface for gem stock data access
type GemHoldingRepository interface {
	// GetByUser returns all of a user's gem holdings
	GetByUser(ctx context.Context, userID int64) ([]*models.GemHolding, error)

	// Freeze holds the given gems pending settlement
	Freeze(ctx context.Context, userID int64, gems models.GemAmount) error

	// Release returns previously frozen gems to available stock
	Release(ctx context.Context, userID int64, gems models.GemAmount) error

	// TransferFrozen moves a frozen stake from the loser to the winner's
	// spendable stock
	TransferFrozen(ctx context.Context, fromUserID, toUserID int64, gems models.GemAmount) error

	// Add credits gems to available stock (payouts, admin seeding)
	Add(ctx context.Context, userID int64, gems models.GemAmount) error
}

// GameRepository defines the interface for game data access
type GameRepository interface {
	// Create inserts a new waiting game
	Create(ctx context.Context, game *models.Game) error

	// GetByID retrieves a game by ID
	GetByID(ctx context.Context, id string) (*models.Game, error)

	// ClaimForJoin compare-and-sets waiting→active with the opponent's
	// side; false means the race was lost
	ClaimForJoin(ctx context.Context, game *models.Game) (bool, error)

	// Complete compare-and-sets active→completed with the result
	Complete(ctx context.Context, game *models.Game) (bool, error)

	// Cancel compare-and-sets the creator's waiting game to cancelled
	Cancel(ctx context.Context, id string, creatorID int64) (bool, error)

	// Recycle compare-and-sets active→waiting with a fresh commitment
	Recycle(ctx context.Context, id string, move models.Move, salt, hash string) (bool, error)

	// ListAvailable returns joinable waiting games for a user
	ListAvailable(ctx context.Context, excludeUserID int64, includeRegularBots bool, limit int) ([]*models.Game, error)

	// ListExpiredActive returns active games past their deadline
	ListExpiredActive(ctx context.Context, now time.Time) ([]*models.Game, error)

	// CountOpenByCreator counts a creator's waiting and active games
	CountOpenByCreator(ctx context.Context, creatorID int64) (int, error)
}

// BotRepository defines the interface for bot data access
type BotRepository interface {
	// Create inserts a new bot row
	Create(ctx context.Context, bot *models.Bot) error

	// GetByID retrieves a bot by ID
	GetByID(ctx context.Context, id int64) (*models.Bot, error)

	// GetByUserID retrieves the bot owning the given account, if any
	GetByUserID(ctx context.Context, userID int64) (*models.Bot, error)

	// GetByUserIDForUpdate retrieves the bot under a row lock so cycle
	// bookkeeping cannot race between settlements
	GetByUserIDForUpdate(ctx context.Context, userID int64) (*models.Bot, error)

	// ListActive returns active bots in scheduling order
	ListActive(ctx context.Context) ([]*models.Bot, error)

	// ListByType returns all bots of one type
	ListByType(ctx context.Context, botType models.BotType) ([]*models.Bot, error)

	// Update persists configuration and cycle bookkeeping
	Update(ctx context.Context, bot *models.Bot) error

	// AdjustActiveBets changes the open-bet count by delta, never below zero
	AdjustActiveBets(ctx context.Context, botID int64, delta int) error
}

// ProfitLedgerRepository defines the interface for the append-only
// commission audit trail
type ProfitLedgerRepository interface {
	// Record appends an entry; a second entry for the same game is rejected
	Record(ctx context.Context, entry *models.ProfitLedgerEntry) error

	// GetByGame returns the entry referencing a game, or nil
	GetByGame(ctx context.Context, gameID string) (*models.ProfitLedgerEntry, error)

	// TotalByType returns summed commission per entry kind
	TotalByType(ctx context.Context) (map[models.ProfitEntryType]int64, error)
}

// CreateGameRequest carries the creator's stake. Either Gems is given
// explicitly, or Amount plus Strategy select a combination from the
// creator's inventory. Move is optional; a random move is committed when
// it is empty.
type CreateGameRequest struct {
	Gems     models.GemAmount
	Amount   int64
	Strategy Strategy
	Move     models.Move
}

// JoinGameRequest carries the opponent's move and stake. When Gems is nil
// a combination matching the creator's bet value is selected from the
// opponent's inventory using Strategy.
type JoinGameRequest struct {
	Move     models.Move
	Gems     models.GemAmount
	Strategy Strategy
}

// LeaveResult reports what a leave, cancel or timeout returned to the
// departing side.
type LeaveResult struct {
	GameID             string
	GemsReturned       models.GemAmount
	CommissionReturned int64
	NewStatus          models.GameStatus
}

// GameService defines the interface for the game settlement engine
type GameService interface {
	// CreateGame opens a new waiting game, freezing the creator's stake
	// and commission
	CreateGame(ctx context.Context, creatorID int64, req CreateGameRequest) (*models.Game, error)

	// JoinGame joins a waiting game and resolves it immediately
	JoinGame(ctx context.Context, gameID string, opponentID int64, req JoinGameRequest) (*models.SettlementResult, error)

	// LeaveGame abandons an active game as the opponent, recycling it
	LeaveGame(ctx context.Context, gameID string, userID int64) (*LeaveResult, error)

	// CancelGame withdraws the creator's own waiting game
	CancelGame(ctx context.Context, gameID string, userID int64) (*LeaveResult, error)

	// ListAvailableGames returns joinable games for a user
	ListAvailableGames(ctx context.Context, userID int64) ([]*models.GameSummary, error)

	// ReapExpired recycles all active games past their deadline,
	// returning how many were recycled
	ReapExpired(ctx context.Context) (int, error)
}

// BalanceSnapshot is the ledger view returned to a user.
type BalanceSnapshot struct {
	VirtualBalance   int64 `json:"virtual_balance"`
	FrozenBalance    int64 `json:"frozen_balance"`
	AvailableBalance int64 `json:"available_balance"`
}

// LedgerService defines the interface for balance and inventory queries
// plus the explicit credit path
type LedgerService interface {
	// GetBalance returns a user's ledger snapshot
	GetBalance(ctx context.Context, userID int64) (*BalanceSnapshot, error)

	// GetInventory returns a user's gem holdings
	GetInventory(ctx context.Context, userID int64) ([]*models.GemHolding, error)

	// Credit adds currency and gems to an account (admin/house seeding)
	Credit(ctx context.Context, userID int64, amount int64, gems models.GemAmount) error

	// ProfitSummary returns the house commission captured per entry kind
	ProfitSummary(ctx context.Context) (map[models.ProfitEntryType]int64, error)
}

// HumanBotSettings is the global bet-limit configuration applied to all
// human-like bots with proportional adjustment.
type HumanBotSettings struct {
	MinBet int64 `json:"min_bet"`
	MaxBet int64 `json:"max_bet"`
}

// BotAdminService defines the interface for bot configuration
type BotAdminService interface {
	// CreateBot provisions a bot and its backing account
	CreateBot(ctx context.Context, bot *models.Bot, seedBalance int64, seedGems models.GemAmount) (*models.Bot, error)

	// GetBot retrieves a bot by ID
	GetBot(ctx context.Context, id int64) (*models.Bot, error)

	// UpdateBot updates a bot's configuration
	UpdateBot(ctx context.Context, bot *models.Bot) error

	// UpdateHumanBotSettings rescales every human-like bot's bet limits
	// proportionally into the new global range
	UpdateHumanBotSettings(ctx context.Context, settings HumanBotSettings) (int, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	GemHoldingRepository() GemHoldingRepository
	GameRepository() GameRepository
	BotRepository() BotRepository
	ProfitLedgerRepository() ProfitLedgerRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
