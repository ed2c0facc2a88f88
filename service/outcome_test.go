package service

import (
	"testing"

	"gemplay/models"

	"github.com/stretchr/testify/assert"
)

func TestMoveForOutcome(t *testing.T) {
	assert.Equal(t, models.MovePaper, moveForOutcome(BotWins, models.MoveRock))
	assert.Equal(t, models.MoveScissors, moveForOutcome(BotLoses, models.MoveRock))
	assert.Equal(t, models.MoveRock, moveForOutcome(BotDraws, models.MoveRock))

	assert.Equal(t, models.MoveScissors, moveForOutcome(BotWins, models.MovePaper))
	assert.Equal(t, models.MoveRock, moveForOutcome(BotLoses, models.MovePaper))
}

func TestOutcomeEngine_BehindTargetTrendsTowardWins(t *testing.T) {
	engine := NewOutcomeEngine()
	rng := NewSeededRand(1)

	// Needs 9 wins in the remaining 10 games; win probability clamps high.
	bot := &models.Bot{
		CycleGames:        20,
		WinPercentage:     50,
		CurrentCycleWins:  1,
		CurrentCycleDraws: 9,
	}

	wins := 0
	for i := 0; i < 1000; i++ {
		if engine.Choose(bot, rng) == BotWins {
			wins++
		}
	}
	// 0.95 win weight minus the 10% draw band still clears 75%.
	assert.Greater(t, wins, 750)
}

func TestOutcomeEngine_AheadOfTargetTrendsTowardLosses(t *testing.T) {
	engine := NewOutcomeEngine()
	rng := NewSeededRand(2)

	// Already over target; win probability clamps to the floor.
	bot := &models.Bot{
		CycleGames:       10,
		WinPercentage:    50,
		CurrentCycleWins: 6,
	}

	wins := 0
	for i := 0; i < 1000; i++ {
		if engine.Choose(bot, rng) == BotWins {
			wins++
		}
	}
	assert.Less(t, wins, 150)
}

func TestOutcomeEngine_ConvergesOnTargetAcrossCycle(t *testing.T) {
	engine := NewOutcomeEngine()
	rng := NewSeededRand(3)

	const cycles = 200
	totalWins, totalGames := 0, 0
	for c := 0; c < cycles; c++ {
		bot := &models.Bot{CycleGames: 20, WinPercentage: 60}
		for bot.CycleGamesPlayed() < bot.CycleGames {
			switch engine.Choose(bot, rng) {
			case BotWins:
				bot.CurrentCycleWins++
			case BotLoses:
				bot.CurrentCycleLosses++
			default:
				bot.CurrentCycleDraws++
			}
		}
		totalWins += bot.CurrentCycleWins
		totalGames += bot.CycleGames
	}

	rate := float64(totalWins) / float64(totalGames)
	assert.InDelta(t, 0.60, rate, 0.08)
}

func TestOutcomeEngine_NeverCertain(t *testing.T) {
	engine := NewOutcomeEngine()
	rng := NewSeededRand(4)

	// Even a bot that cannot mathematically reach its target keeps a
	// residual chance of winning each game.
	bot := &models.Bot{
		CycleGames:         10,
		WinPercentage:      100,
		CurrentCycleLosses: 9,
	}

	sawWin, sawLoss := false, false
	for i := 0; i < 2000; i++ {
		switch engine.Choose(bot, rng) {
		case BotWins:
			sawWin = true
		case BotLoses:
			sawLoss = true
		}
	}
	assert.True(t, sawWin)
	assert.True(t, sawLoss)
}
