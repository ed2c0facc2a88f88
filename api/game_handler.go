package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gemplay/models"
	"gemplay/service"
)

// GameHandler exposes the settlement engine over HTTP.
type GameHandler struct {
	games service.GameService
}

func NewGameHandler(games service.GameService) *GameHandler {
	return &GameHandler{games: games}
}

type createGameRequest struct {
	Gems     models.GemAmount `json:"gems"`
	Amount   int64            `json:"amount"`
	Strategy string           `json:"strategy"`
	Move     string           `json:"move"`
}

func (h *GameHandler) CreateGame(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	game, err := h.games.CreateGame(c.Request.Context(), userID, service.CreateGameRequest{
		Gems:     req.Gems,
		Amount:   req.Amount,
		Strategy: service.Strategy(req.Strategy),
		Move:     models.Move(req.Move),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"game_id":             game.ID,
		"bet_amount":          game.BetAmount,
		"bet_gems":            game.BetGems,
		"commission_reserved": game.CreatorCommission,
		"status":              game.Status,
	})
}

type joinGameRequest struct {
	Move     string           `json:"move" binding:"required"`
	Gems     models.GemAmount `json:"gems"`
	Strategy string           `json:"strategy"`
}

func (h *GameHandler) JoinGame(c *gin.Context) {
	userID := c.GetInt64("user_id")
	gameID := c.Param("id")

	var req joinGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	settlement, err := h.games.JoinGame(c.Request.Context(), gameID, userID, service.JoinGameRequest{
		Move:     models.Move(req.Move),
		Gems:     req.Gems,
		Strategy: service.Strategy(req.Strategy),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	game := settlement.Game
	c.JSON(http.StatusOK, gin.H{
		"game_id":             game.ID,
		"status":              game.Status,
		"result":              settlement.Result,
		"creator_move":        game.CreatorMove,
		"opponent_move":       game.OpponentMove,
		"winner_id":           settlement.WinnerID,
		"commission_charged":  settlement.CommissionCharged,
		"commission_released": settlement.CommissionReleased,
	})
}

func (h *GameHandler) LeaveGame(c *gin.Context) {
	userID := c.GetInt64("user_id")
	gameID := c.Param("id")

	result, err := h.games.LeaveGame(c.Request.Context(), gameID, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"gems_returned":       result.GemsReturned,
		"commission_returned": result.CommissionReturned,
		"new_game_status":     result.NewStatus,
	})
}

func (h *GameHandler) CancelGame(c *gin.Context) {
	userID := c.GetInt64("user_id")
	gameID := c.Param("id")

	result, err := h.games.CancelGame(c.Request.Context(), gameID, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gems_returned":       result.GemsReturned,
		"commission_returned": result.CommissionReturned,
		"status":              result.NewStatus,
	})
}

func (h *GameHandler) ListAvailable(c *gin.Context) {
	userID := c.GetInt64("user_id")

	games, err := h.games.ListAvailableGames(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"games": games})
}
