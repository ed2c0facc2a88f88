package models

import (
	"errors"
)

// Ledger and game-state errors. Callers match with errors.Is; services wrap
// these with the shortfall or status detail the user should see.
var (
	// ErrInsufficientFunds means an account's available balance cannot
	// cover a requested freeze or debit.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientGems means a holding's available quantity cannot
	// cover a requested freeze.
	ErrInsufficientGems = errors.New("insufficient gems")

	// ErrInvalidBetAmount means a bet is below the floor or above the
	// ceiling, or its gems do not price out to the stated amount.
	ErrInvalidBetAmount = errors.New("invalid bet amount")

	// ErrSelfJoin means a user tried to join their own game.
	ErrSelfJoin = errors.New("cannot join your own game")

	// ErrGameNotJoinable means the game is not in a joinable state or was
	// taken by another opponent first.
	ErrGameNotJoinable = errors.New("game is not joinable")

	// ErrConcurrentModification means a compare-and-set on game status
	// lost a race; the operation was already performed by another actor.
	ErrConcurrentModification = errors.New("game was modified concurrently")

	// ErrInvariantViolation is an internal programming error, e.g. a
	// release exceeding the frozen amount. It must fail loudly.
	ErrInvariantViolation = errors.New("ledger invariant violation")

	// ErrInfeasibleCombination means no exact gem combination exists
	// within available stock for the requested amount.
	ErrInfeasibleCombination = errors.New("no feasible gem combination")

	// ErrOpenGameLimit means a creator already holds the maximum number
	// of unresolved games.
	ErrOpenGameLimit = errors.New("too many open games")

	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller may not act on this entity.
	ErrForbidden = errors.New("forbidden")
)
