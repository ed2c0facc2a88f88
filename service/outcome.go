package service

import (
	"math"

	"gemplay/models"
)

// BotOutcome is the outcome of a bot game from the bot's perspective.
type BotOutcome int

const (
	BotLoses BotOutcome = iota
	BotWins
	BotDraws
)

// OutcomeEngine decides whether a bot should win, lose or draw the game a
// human just joined. Implementations bias the draw so the bot's realized
// win rate converges on its configured percentage across a cycle.
type OutcomeEngine interface {
	Choose(bot *models.Bot, rng Rand) BotOutcome
}

// defaultDrawChance keeps ties occurring at a believable rate without
// dominating the cycle.
const defaultDrawChance = 0.10

type cycleOutcomeEngine struct {
	drawChance float64
}

// NewOutcomeEngine creates the cycle-converging outcome engine.
func NewOutcomeEngine() OutcomeEngine {
	return &cycleOutcomeEngine{drawChance: defaultDrawChance}
}

// Choose weights the win/loss draw by how many wins the bot still needs in
// the remainder of its cycle. A bot ahead of target trends toward losses,
// a bot behind trends toward wins, and the weight is clamped so no single
// game is ever a certainty.
func (e *cycleOutcomeEngine) Choose(bot *models.Bot, rng Rand) BotOutcome {
	if rng.Float64() < e.drawChance {
		return BotDraws
	}

	played := bot.CycleGamesPlayed()
	remaining := bot.CycleGames - played
	if remaining <= 0 {
		remaining = 1
	}

	targetWins := math.Round(bot.WinPercentage / 100.0 * float64(bot.CycleGames))
	needed := targetWins - float64(bot.CurrentCycleWins)

	p := needed / float64(remaining)
	if p < 0.05 {
		p = 0.05
	}
	if p > 0.95 {
		p = 0.95
	}

	if rng.Float64() < p {
		return BotWins
	}
	return BotLoses
}

// moveForOutcome returns the creator move that produces the desired
// outcome against the opponent's move.
func moveForOutcome(outcome BotOutcome, opponentMove models.Move) models.Move {
	switch outcome {
	case BotWins:
		return models.CounterOf(opponentMove)
	case BotLoses:
		return models.LoserOf(opponentMove)
	default:
		return opponentMove
	}
}
