package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"gemplay/models"
)

// BotScheduler drives the bot population: on every tick it walks the
// active bots in priority order and lets each eligible one open a game
// through the same settlement engine human players use.
type BotScheduler struct {
	games         GameService
	uowFactory    UnitOfWorkFactory
	rng           Rand
	interval      time.Duration
	maxConcurrent int
}

// NewBotScheduler creates a scheduler. maxConcurrent caps how many bots may
// hold open games at once across the whole population.
func NewBotScheduler(games GameService, uowFactory UnitOfWorkFactory, rng Rand, interval time.Duration, maxConcurrent int) *BotScheduler {
	return &BotScheduler{
		games:         games,
		uowFactory:    uowFactory,
		rng:           rng,
		interval:      interval,
		maxConcurrent: maxConcurrent,
	}
}

// Run blocks until ctx is cancelled, ticking at the configured interval.
func (s *BotScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.WithFields(log.Fields{
		"interval":      s.interval,
		"maxConcurrent": s.maxConcurrent,
	}).Info("Bot scheduler started")

	for {
		select {
		case <-ctx.Done():
			log.Info("Bot scheduler stopped")
			return
		case <-ticker.C:
			if err := s.tick(ctx); err != nil {
				log.WithError(err).Error("Bot scheduler tick failed")
			}
		}
	}
}

// tick tops each eligible bot's waiting pool back up to cycle_games −
// active_bets open games. A failure for one bot is logged and never blocks
// the rest of the population.
func (s *BotScheduler) tick(ctx context.Context) error {
	bots, err := s.listActive(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	busy := 0
	for _, bot := range bots {
		if bot.ActiveBets > 0 {
			busy++
		}
	}

	for _, bot := range bots {
		if busy >= s.maxConcurrent && bot.ActiveBets == 0 {
			continue
		}
		if !s.eligible(bot, now) {
			continue
		}
		opened := 0
		for i := bot.CycleGames - bot.ActiveBets; i > 0; i-- {
			if err := s.openGame(ctx, bot); err != nil {
				if errors.Is(err, models.ErrInsufficientGems) || errors.Is(err, models.ErrInsufficientFunds) {
					log.WithFields(log.Fields{
						"botId": bot.ID,
						"name":  bot.Name,
					}).Warn("Bot cannot cover a stake, skipping")
					break
				}
				log.WithError(err).WithField("botId", bot.ID).Error("Bot failed to open game")
				break
			}
			opened++
		}
		if opened > 0 && bot.ActiveBets == 0 {
			busy++
		}
	}
	return nil
}

// eligible reports whether the bot should top up its waiting pool right
// now: it must have fewer open bets than its cycle size, and it must be
// out of its post-game pause. Human-like bots jitter the pause through
// their character so their cadence does not look mechanical.
func (s *BotScheduler) eligible(bot *models.Bot, now time.Time) bool {
	if bot.CycleGames-bot.ActiveBets <= 0 {
		return false
	}
	if bot.LastCompletedAt == nil || bot.PauseSeconds <= 0 {
		return true
	}
	pause := bot.PauseBetweenGames()
	if bot.Type == models.BotTypeHuman {
		pause = CharacterFor(bot.Character).ChooseDelay(s.rng, pause)
	}
	return !now.Before(bot.LastCompletedAt.Add(pause))
}

func (s *BotScheduler) openGame(ctx context.Context, bot *models.Bot) error {
	amount := CharacterFor(bot.Character).ChooseBetSize(s.rng, bot.MinBet, bot.MaxBet)
	_, err := s.games.CreateGame(ctx, bot.UserID, CreateGameRequest{
		Amount:   amount,
		Strategy: StrategySmart,
	})
	return err
}

func (s *BotScheduler) listActive(ctx context.Context) ([]*models.Bot, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()
	return uow.BotRepository().ListActive(ctx)
}
