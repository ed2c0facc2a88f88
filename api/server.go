package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"gemplay/service"
)

// Server is the HTTP front of the settlement engine.
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// NewServer builds the router with the full route table. limiter may be
// nil when redis is not configured.
func NewServer(addr string, jwtService *JWTService, limiter *RateLimiter, games service.GameService, ledger service.LedgerService, bots service.BotAdminService) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	gameHandler := NewGameHandler(games)
	economyHandler := NewEconomyHandler(ledger)
	adminHandler := NewAdminHandler(bots, ledger)

	authed := router.Group("/api", AuthMiddleware(jwtService))
	{
		gamesGroup := authed.Group("/games", RateLimitMiddleware(limiter))
		{
			gamesGroup.POST("/create", gameHandler.CreateGame)
			gamesGroup.POST("/:id/join", gameHandler.JoinGame)
			gamesGroup.POST("/:id/leave", gameHandler.LeaveGame)
			gamesGroup.DELETE("/:id/cancel", gameHandler.CancelGame)
			gamesGroup.GET("/available", gameHandler.ListAvailable)
		}

		authed.GET("/economy/balance", economyHandler.GetBalance)
		authed.GET("/gems/inventory", economyHandler.GetInventory)
		authed.POST("/gems/calculate-combination", economyHandler.CalculateCombination)

		admin := authed.Group("/admin", AdminMiddleware())
		{
			admin.POST("/bots", adminHandler.CreateBot)
			admin.GET("/bots/:id", adminHandler.GetBot)
			admin.PUT("/bots/:id", adminHandler.UpdateBot)
			admin.POST("/human-bots/update-settings", adminHandler.UpdateHumanBotSettings)
			admin.POST("/accounts/:id/credit", adminHandler.CreditAccount)
			admin.GET("/profit", adminHandler.GetProfitSummary)
		}
	}

	return &Server{
		router: router,
		http: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// Router exposes the gin engine, mainly for handler tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	log.WithField("addr", s.http.Addr).Info("HTTP server listening")
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("Request handled")
	}
}
