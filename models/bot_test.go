package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBot_CycleBookkeeping(t *testing.T) {
	bot := &Bot{CycleGames: 7, CurrentCycleWins: 4, CurrentCycleLosses: 1, CurrentCycleDraws: 1}

	assert.Equal(t, 6, bot.CycleGamesPlayed())
	assert.False(t, bot.CycleComplete())

	bot.CurrentCycleLosses++
	assert.True(t, bot.CycleComplete())
}

func TestBot_InPause(t *testing.T) {
	now := time.Now()
	completed := now.Add(-30 * time.Second)
	bot := &Bot{PauseSeconds: 60, LastCompletedAt: &completed}

	assert.True(t, bot.InPause(now))
	assert.False(t, bot.InPause(now.Add(time.Minute)))

	bot.LastCompletedAt = nil
	assert.False(t, bot.InPause(now))

	bot.LastCompletedAt = &completed
	bot.PauseSeconds = 0
	assert.False(t, bot.InPause(now))
}

func TestBotType_ActorType(t *testing.T) {
	assert.Equal(t, ActorRegularBot, BotTypeRegular.ActorType())
	assert.Equal(t, ActorHumanBot, BotTypeHuman.ActorType())
}
