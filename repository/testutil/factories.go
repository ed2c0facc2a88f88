package testutil

import (
	"strings"

	"github.com/google/uuid"

	"gemplay/models"
)

// NewGame builds a waiting game between a creator and nobody yet, staking
// the given gems. The commitment fields carry a fixed triple; repository
// tests do not verify hashes.
func NewGame(creatorID int64, gems models.GemAmount) *models.Game {
	return &models.Game{
		ID:                uuid.NewString(),
		CreatorID:         creatorID,
		Status:            models.GameStatusWaiting,
		BetGems:           gems,
		BetAmount:         gems.Value(),
		CreatorCommission: 60,
		CreatorMoveHash:   strings.Repeat("a", 64),
		CreatorSalt:       strings.Repeat("b", 64),
		CreatorMove:       models.MoveRock,
		CreatorType:       models.ActorUser,
	}
}

// NewBot builds a regular bot with a workable default configuration.
func NewBot(userID int64, name string) *models.Bot {
	return &models.Bot{
		UserID:        userID,
		Name:          name,
		Type:          models.BotTypeRegular,
		Character:     models.CharacterBalanced,
		MinBet:        500,
		MaxBet:        2000,
		CycleGames:    7,
		WinPercentage: 50,
		IsActive:      true,
	}
}
