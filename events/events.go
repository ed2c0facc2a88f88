package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"gemplay/models"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange     EventType = "balance_change"
	EventTypeGameCreated       EventType = "game_created"
	EventTypeGameResolved      EventType = "game_resolved"
	EventTypeGameRecycled      EventType = "game_recycled"
	EventTypeCommissionCharged EventType = "commission_charged"
	EventTypeBotCycleCompleted EventType = "bot_cycle_completed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a change to an account's spendable or
// frozen balance
type BalanceChangeEvent struct {
	UserID        int64
	VirtualBefore int64
	VirtualAfter  int64
	FrozenBefore  int64
	FrozenAfter   int64
	Reason        string
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// GameCreatedEvent represents a new waiting game entering the feed
type GameCreatedEvent struct {
	GameID      string
	CreatorID   int64
	BetAmount   int64
	CreatorType models.ActorType
}

func (e GameCreatedEvent) Type() EventType {
	return EventTypeGameCreated
}

// GameResolvedEvent represents a game reaching its completed state
type GameResolvedEvent struct {
	GameID     string
	CreatorID  int64
	OpponentID int64
	Result     models.GameResult
	WinnerID   *int64
	BetAmount  int64
}

func (e GameResolvedEvent) Type() EventType {
	return EventTypeGameResolved
}

// GameRecycledEvent represents an abandoned active game returning to the
// waiting pool with a fresh commitment
type GameRecycledEvent struct {
	GameID     string
	CreatorID  int64
	OpponentID int64
	ByTimeout  bool
}

func (e GameRecycledEvent) Type() EventType {
	return EventTypeGameRecycled
}

// CommissionChargedEvent represents commission permanently leaving
// circulation
type CommissionChargedEvent struct {
	GameID    string
	UserID    int64
	Amount    int64
	EntryType models.ProfitEntryType
}

func (e CommissionChargedEvent) Type() EventType {
	return EventTypeCommissionCharged
}

// BotCycleCompletedEvent represents a bot finishing a full cycle of games
type BotCycleCompletedEvent struct {
	BotID       int64
	CycleNumber int
	Wins        int
	Losses      int
	Draws       int
	CycleProfit int64
}

func (e BotCycleCompletedEvent) Type() EventType {
	return EventTypeBotCycleCompleted
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit publishes an event to all registered handlers. Handlers run
// asynchronously so a slow consumer never blocks settlement.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

// TransactionalBus stashes events published during a unit of work and
// forwards them to the real bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful commit. Events are emitted on a
// background context; their lifecycle is independent of the transaction's.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
