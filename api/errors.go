package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gemplay/models"
)

// statusFor maps domain errors onto HTTP status codes. Anything unmapped
// is a server fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrGameNotJoinable),
		errors.Is(err, models.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, models.ErrOpenGameLimit):
		return http.StatusTooManyRequests
	case errors.Is(err, models.ErrInsufficientFunds),
		errors.Is(err, models.ErrInsufficientGems),
		errors.Is(err, models.ErrInvalidBetAmount),
		errors.Is(err, models.ErrInfeasibleCombination),
		errors.Is(err, models.ErrSelfJoin):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}
	if status == http.StatusInternalServerError {
		body = gin.H{"error": "Internal server error"}
	}
	c.JSON(status, body)
}
