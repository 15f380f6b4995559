package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/ashtari/pointledger/internal/config"
	pkgAuth "github.com/ashtari/pointledger/internal/pkg/auth"
	"github.com/ashtari/pointledger/internal/server/http/handlers"
	"github.com/ashtari/pointledger/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.LedgerFacade, hasher pkgAuth.TokenHasher, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	pointHandler := handlers.NewPointHandler(facade)
	balanceHandler := handlers.NewBalanceHandler(facade)
	reconcileHandler := handlers.NewReconcileHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/health", healthHandler.Check)

	api := engine.Group("/api")
	api.Use(middleware.AdminTokenRequired(hasher, cfg.AdminTokenHash))

	points := api.Group("/points")
	points.POST("/accumulate", pointHandler.Accumulate)
	points.POST("/use", pointHandler.Use)

	api.POST("/usages/:key/cancel", pointHandler.CancelUsage)
	api.POST("/accumulations/:key/cancel", pointHandler.CancelAccumulation)
	api.POST("/accumulations/:key/expire", pointHandler.ExpireAccumulation)

	members := api.Group("/members")
	members.GET("/:id/balance", balanceHandler.Balance)
	members.GET("/:id/usages", balanceHandler.Usages)
	members.POST("/:id/reconcile", reconcileHandler.Member)

	api.POST("/reconcile", reconcileHandler.All)

	return engine
}
