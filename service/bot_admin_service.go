package service

import (
	"context"
	"fmt"
	"math"

	"gemplay/models"
)

type botAdminService struct {
	uowFactory UnitOfWorkFactory
}

// NewBotAdminService creates a new bot administration service.
func NewBotAdminService(uowFactory UnitOfWorkFactory) BotAdminService {
	return &botAdminService{uowFactory: uowFactory}
}

// CreateBot provisions a bot together with its backing account. The account
// is seeded with spendable currency and gems so the bot can open games
// immediately.
func (s *botAdminService) CreateBot(ctx context.Context, bot *models.Bot, seedBalance int64, seedGems models.GemAmount) (*models.Bot, error) {
	if bot.Name == "" {
		return nil, fmt.Errorf("bot name must not be empty")
	}
	if bot.MinBet <= 0 || bot.MaxBet < bot.MinBet {
		return nil, fmt.Errorf("invalid bet range [%d, %d]", bot.MinBet, bot.MaxBet)
	}
	if bot.CycleGames <= 0 {
		return nil, fmt.Errorf("cycle length must be positive, got %d", bot.CycleGames)
	}
	if bot.WinPercentage < 0 || bot.WinPercentage > 100 {
		return nil, fmt.Errorf("win percentage must be within [0, 100], got %g", bot.WinPercentage)
	}
	if bot.Type == models.BotTypeHuman && bot.Character != "" && !bot.Character.IsValid() {
		return nil, fmt.Errorf("unknown bot character %q", bot.Character)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().Create(ctx, bot.Name, seedBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot account: %w", err)
	}
	if len(seedGems) > 0 {
		if !seedGems.Validate() {
			return nil, fmt.Errorf("%w: seed gems are invalid", models.ErrInvalidBetAmount)
		}
		if err := uow.GemHoldingRepository().Add(ctx, account.UserID, seedGems); err != nil {
			return nil, err
		}
	}

	bot.UserID = account.UserID
	bot.IsActive = true
	if err := uow.BotRepository().Create(ctx, bot); err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return bot, nil
}

func (s *botAdminService) GetBot(ctx context.Context, id int64) (*models.Bot, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bot, err := uow.BotRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get bot: %w", err)
	}
	if bot == nil {
		return nil, fmt.Errorf("bot %d: %w", id, models.ErrNotFound)
	}
	return bot, nil
}

// UpdateBot persists configuration changes. Cycle counters are owned by
// settlement and are re-read under lock here so an admin update cannot
// clobber them.
func (s *botAdminService) UpdateBot(ctx context.Context, bot *models.Bot) error {
	if bot.MinBet <= 0 || bot.MaxBet < bot.MinBet {
		return fmt.Errorf("invalid bet range [%d, %d]", bot.MinBet, bot.MaxBet)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	current, err := uow.BotRepository().GetByID(ctx, bot.ID)
	if err != nil {
		return fmt.Errorf("failed to get bot: %w", err)
	}
	if current == nil {
		return fmt.Errorf("bot %d: %w", bot.ID, models.ErrNotFound)
	}

	current.Name = bot.Name
	current.Character = bot.Character
	current.MinBet = bot.MinBet
	current.MaxBet = bot.MaxBet
	current.CycleGames = bot.CycleGames
	current.WinPercentage = bot.WinPercentage
	current.PauseSeconds = bot.PauseSeconds
	current.Priority = bot.Priority
	current.IsActive = bot.IsActive

	if err := uow.BotRepository().Update(ctx, current); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateHumanBotSettings rescales every human-like bot's bet limits into
// the new global range, preserving each bot's relative position within the
// old population range. Returns how many bots were adjusted.
func (s *botAdminService) UpdateHumanBotSettings(ctx context.Context, settings HumanBotSettings) (int, error) {
	if settings.MinBet <= 0 || settings.MaxBet < settings.MinBet {
		return 0, fmt.Errorf("invalid bet range [%d, %d]", settings.MinBet, settings.MaxBet)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bots, err := uow.BotRepository().ListByType(ctx, models.BotTypeHuman)
	if err != nil {
		return 0, fmt.Errorf("failed to list human bots: %w", err)
	}
	if len(bots) == 0 {
		return 0, nil
	}

	oldMin, oldMax := bots[0].MinBet, bots[0].MaxBet
	for _, bot := range bots[1:] {
		if bot.MinBet < oldMin {
			oldMin = bot.MinBet
		}
		if bot.MaxBet > oldMax {
			oldMax = bot.MaxBet
		}
	}

	for _, bot := range bots {
		bot.MinBet = rescale(bot.MinBet, oldMin, oldMax, settings.MinBet, settings.MaxBet)
		bot.MaxBet = rescale(bot.MaxBet, oldMin, oldMax, settings.MinBet, settings.MaxBet)
		if bot.MaxBet < bot.MinBet {
			bot.MaxBet = bot.MinBet
		}
		if err := uow.BotRepository().Update(ctx, bot); err != nil {
			return 0, err
		}
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return len(bots), nil
}

// rescale maps v from [oldMin, oldMax] into [newMin, newMax]. A degenerate
// old range collapses everything to the new minimum.
func rescale(v, oldMin, oldMax, newMin, newMax int64) int64 {
	if oldMax <= oldMin {
		return newMin
	}
	fraction := float64(v-oldMin) / float64(oldMax-oldMin)
	return newMin + int64(math.Round(fraction*float64(newMax-newMin)))
}
