package models

import (
	"time"
)

// GameStatus represents the state of a game.
type GameStatus string

const (
	GameStatusWaiting   GameStatus = "waiting"
	GameStatusActive    GameStatus = "active"
	GameStatusCompleted GameStatus = "completed"
	GameStatusCancelled GameStatus = "cancelled"
)

// Move is a rock-paper-scissors move.
type Move string

const (
	MoveRock     Move = "rock"
	MovePaper    Move = "paper"
	MoveScissors Move = "scissors"
)

// Moves lists the legal moves in a stable order.
var Moves = []Move{MoveRock, MovePaper, MoveScissors}

// IsValid reports whether the move is one of rock, paper or scissors.
func (m Move) IsValid() bool {
	return m == MoveRock || m == MovePaper || m == MoveScissors
}

// Beats reports whether m wins against other.
func (m Move) Beats(other Move) bool {
	switch m {
	case MoveRock:
		return other == MoveScissors
	case MovePaper:
		return other == MoveRock
	case MoveScissors:
		return other == MovePaper
	}
	return false
}

// CounterOf returns the move that beats other.
func CounterOf(other Move) Move {
	switch other {
	case MoveRock:
		return MovePaper
	case MovePaper:
		return MoveScissors
	default:
		return MoveRock
	}
}

// LoserOf returns the move that loses to other.
func LoserOf(other Move) Move {
	switch other {
	case MoveRock:
		return MoveScissors
	case MovePaper:
		return MoveRock
	default:
		return MovePaper
	}
}

// GameResult is the outcome of a resolved game.
type GameResult string

const (
	ResultCreatorWins  GameResult = "creator_wins"
	ResultOpponentWins GameResult = "opponent_wins"
	ResultDraw         GameResult = "draw"
)

// ActorType distinguishes human players from the two bot kinds.
type ActorType string

const (
	ActorUser       ActorType = "user"
	ActorRegularBot ActorType = "regular_bot"
	ActorHumanBot   ActorType = "human_bot"
)

// IsBot reports whether the actor is a synthetic opponent of either kind.
func (a ActorType) IsBot() bool {
	return a == ActorRegularBot || a == ActorHumanBot
}

// Game represents a single rock-paper-scissors wager between a creator and
// an opponent. The creator's move is committed (hash of move and salt) when
// the game is created and replaced whenever the game is recycled back to
// waiting after abandonment.
type Game struct {
	ID                 string      `db:"id"`
	CreatorID          int64       `db:"creator_id"`
	OpponentID         *int64      `db:"opponent_id"`
	Status             GameStatus  `db:"status"`
	BetGems            GemAmount   `db:"bet_gems"`
	BetAmount          int64       `db:"bet_amount"`
	CreatorCommission  int64       `db:"creator_commission"`
	OpponentCommission int64       `db:"opponent_commission"`
	CreatorMoveHash    string      `db:"creator_move_hash"`
	CreatorSalt        string      `db:"creator_salt"`
	CreatorMove        Move        `db:"creator_move"`
	OpponentGems       GemAmount   `db:"opponent_gems"`
	OpponentMove       *Move       `db:"opponent_move"`
	Result             *GameResult `db:"result"`
	WinnerID           *int64      `db:"winner_id"`
	CreatorType        ActorType   `db:"creator_type"`
	OpponentType       *ActorType  `db:"opponent_type"`
	CreatedAt          time.Time   `db:"created_at"`
	JoinedAt           *time.Time  `db:"joined_at"`
	Deadline           *time.Time  `db:"deadline"`
	CompletedAt        *time.Time  `db:"completed_at"`
}

// IsParticipant checks whether a user is involved in the game.
func (g *Game) IsParticipant(userID int64) bool {
	if g.CreatorID == userID {
		return true
	}
	return g.OpponentID != nil && *g.OpponentID == userID
}

// CanBeJoined checks whether the game is open for the given user to join.
func (g *Game) CanBeJoined(userID int64) bool {
	return g.Status == GameStatusWaiting && g.CreatorID != userID
}

// CanBeCancelled checks whether the given user may withdraw the game.
// Only the creator of a still-unjoined game can cancel.
func (g *Game) CanBeCancelled(userID int64) bool {
	return g.Status == GameStatusWaiting && g.CreatorID == userID
}

// CanBeLeft checks whether the given user may abandon the game as opponent.
func (g *Game) CanBeLeft(userID int64) bool {
	return g.Status == GameStatusActive && g.OpponentID != nil && *g.OpponentID == userID
}

// IsTerminal reports whether the game has reached a final state.
func (g *Game) IsTerminal() bool {
	return g.Status == GameStatusCompleted || g.Status == GameStatusCancelled
}

// PastDeadline reports whether an active game has outlived its deadline.
func (g *Game) PastDeadline(now time.Time) bool {
	return g.Status == GameStatusActive && g.Deadline != nil && now.After(*g.Deadline)
}

// ResolveResult compares the two moves and returns the game result.
func ResolveResult(creator, opponent Move) GameResult {
	if creator == opponent {
		return ResultDraw
	}
	if creator.Beats(opponent) {
		return ResultCreatorWins
	}
	return ResultOpponentWins
}

// GameSummary is the compact listing shape for the available-games feed.
type GameSummary struct {
	ID          string    `json:"game_id"`
	CreatorID   int64     `json:"creator_id"`
	BetAmount   int64     `json:"bet_amount"`
	BetGems     GemAmount `json:"bet_gems"`
	CreatedAt   time.Time `json:"created_at"`
	CreatorType ActorType `json:"creator_type"`
}

// SettlementResult captures everything a join produced: the resolved game
// plus the commission flows applied during settlement.
type SettlementResult struct {
	Game               *Game
	Result             GameResult
	WinnerID           *int64
	CommissionCharged  int64
	CommissionReleased int64
}
