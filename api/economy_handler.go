package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gemplay/service"
)

// EconomyHandler exposes balance and inventory queries plus the
// combination preview endpoint.
type EconomyHandler struct {
	ledger service.LedgerService
}

func NewEconomyHandler(ledger service.LedgerService) *EconomyHandler {
	return &EconomyHandler{ledger: ledger}
}

func (h *EconomyHandler) GetBalance(c *gin.Context) {
	userID := c.GetInt64("user_id")

	balance, err := h.ledger.GetBalance(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

func (h *EconomyHandler) GetInventory(c *gin.Context) {
	userID := c.GetInt64("user_id")

	holdings, err := h.ledger.GetInventory(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	rows := make([]gin.H, 0, len(holdings))
	for _, holding := range holdings {
		rows = append(rows, gin.H{
			"gem_type":  holding.GemType,
			"quantity":  holding.Quantity,
			"frozen":    holding.FrozenQuantity,
			"available": holding.Available(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"inventory": rows})
}

type calculateCombinationRequest struct {
	Amount   int64  `json:"amount" binding:"required"`
	Strategy string `json:"strategy"`
}

// CalculateCombination previews the gem combination a create or join with
// the given amount and strategy would freeze. Nothing is reserved.
func (h *EconomyHandler) CalculateCombination(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req calculateCombinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	holdings, err := h.ledger.GetInventory(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	picks, err := service.SelectCombination(req.Amount, service.Strategy(req.Strategy), service.StocksFromHoldings(holdings))
	if err != nil {
		abortWithError(c, err)
		return
	}

	combinations := make([]gin.H, 0, len(picks))
	var total int64
	for _, pick := range picks {
		value := pick.Type.Price() * pick.Count
		total += value
		combinations = append(combinations, gin.H{
			"gem_type": pick.Type,
			"count":    pick.Count,
			"value":    value,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"combinations": combinations,
		"total_amount": total,
	})
}
