package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gemplay/models"
	"gemplay/service"
)

// AdminHandler exposes bot provisioning, bot configuration and the
// explicit credit path.
type AdminHandler struct {
	bots   service.BotAdminService
	ledger service.LedgerService
}

func NewAdminHandler(bots service.BotAdminService, ledger service.LedgerService) *AdminHandler {
	return &AdminHandler{bots: bots, ledger: ledger}
}

type createBotRequest struct {
	Name          string           `json:"name" binding:"required"`
	Type          string           `json:"type" binding:"required"`
	Character     string           `json:"character"`
	MinBet        int64            `json:"min_bet" binding:"required"`
	MaxBet        int64            `json:"max_bet" binding:"required"`
	CycleGames    int              `json:"cycle_games" binding:"required"`
	WinPercentage float64          `json:"win_percentage"`
	PauseSeconds  int              `json:"pause_seconds"`
	Priority      int              `json:"priority"`
	SeedBalance   int64            `json:"seed_balance"`
	SeedGems      models.GemAmount `json:"seed_gems"`
}

func (h *AdminHandler) CreateBot(c *gin.Context) {
	var req createBotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	botType := models.BotType(req.Type)
	if botType != models.BotTypeRegular && botType != models.BotTypeHuman {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown bot type"})
		return
	}

	bot, err := h.bots.CreateBot(c.Request.Context(), &models.Bot{
		Name:          req.Name,
		Type:          botType,
		Character:     models.BotCharacter(req.Character),
		MinBet:        req.MinBet,
		MaxBet:        req.MaxBet,
		CycleGames:    req.CycleGames,
		WinPercentage: req.WinPercentage,
		PauseSeconds:  req.PauseSeconds,
		Priority:      req.Priority,
	}, req.SeedBalance, req.SeedGems)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, botResponse(bot))
}

func (h *AdminHandler) GetBot(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bot ID"})
		return
	}

	bot, err := h.bots.GetBot(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, botResponse(bot))
}

type updateBotRequest struct {
	Name          string  `json:"name" binding:"required"`
	Character     string  `json:"character"`
	MinBet        int64   `json:"min_bet" binding:"required"`
	MaxBet        int64   `json:"max_bet" binding:"required"`
	CycleGames    int     `json:"cycle_games" binding:"required"`
	WinPercentage float64 `json:"win_percentage"`
	PauseSeconds  int     `json:"pause_seconds"`
	Priority      int     `json:"priority"`
	IsActive      bool    `json:"is_active"`
}

func (h *AdminHandler) UpdateBot(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bot ID"})
		return
	}

	var req updateBotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	err = h.bots.UpdateBot(c.Request.Context(), &models.Bot{
		ID:            id,
		Name:          req.Name,
		Character:     models.BotCharacter(req.Character),
		MinBet:        req.MinBet,
		MaxBet:        req.MaxBet,
		CycleGames:    req.CycleGames,
		WinPercentage: req.WinPercentage,
		PauseSeconds:  req.PauseSeconds,
		Priority:      req.Priority,
		IsActive:      req.IsActive,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateHumanBotSettings rescales every human-like bot's bet limits into
// a new global range.
func (h *AdminHandler) UpdateHumanBotSettings(c *gin.Context) {
	var req service.HumanBotSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	adjusted, err := h.bots.UpdateHumanBotSettings(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"bots_adjusted": adjusted,
	})
}

type creditRequest struct {
	Amount int64            `json:"amount"`
	Gems   models.GemAmount `json:"gems"`
}

func (h *AdminHandler) CreditAccount(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return
	}

	var req creditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if err := h.ledger.Credit(c.Request.Context(), userID, req.Amount, req.Gems); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetProfitSummary reports total commission captured per entry kind.
func (h *AdminHandler) GetProfitSummary(c *gin.Context) {
	totals, err := h.ledger.ProfitSummary(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	byType := gin.H{}
	var total int64
	for entryType, amount := range totals {
		byType[string(entryType)] = amount
		total += amount
	}
	c.JSON(http.StatusOK, gin.H{
		"by_type": byType,
		"total":   total,
	})
}

func botResponse(bot *models.Bot) gin.H {
	return gin.H{
		"id":                   bot.ID,
		"user_id":              bot.UserID,
		"name":                 bot.Name,
		"type":                 bot.Type,
		"character":            bot.Character,
		"min_bet":              bot.MinBet,
		"max_bet":              bot.MaxBet,
		"cycle_games":          bot.CycleGames,
		"win_percentage":       bot.WinPercentage,
		"active_bets":          bot.ActiveBets,
		"completed_cycles":     bot.CompletedCycles,
		"current_cycle_wins":   bot.CurrentCycleWins,
		"current_cycle_losses": bot.CurrentCycleLosses,
		"current_cycle_draws":  bot.CurrentCycleDraws,
		"current_cycle_profit": bot.CurrentCycleProfit,
		"total_net_profit":     bot.TotalNetProfit,
		"pause_seconds":        bot.PauseSeconds,
		"priority":             bot.Priority,
		"is_active":            bot.IsActive,
	}
}
