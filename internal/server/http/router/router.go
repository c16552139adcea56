package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/pointledger/internal/domain/repository"
	"github.com/polkiloo/pointledger/internal/metrics"
	"github.com/polkiloo/pointledger/internal/server/http/handlers"
	"github.com/polkiloo/pointledger/internal/server/http/middleware"
)

// Params lists the dependencies of the HTTP router.
type Params struct {
	fx.In

	Facade  handlers.PointFacade
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Pinger  repository.Pinger
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(p.Logger))
	engine.Use(middleware.Metrics(p.Metrics))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	pointHandler := handlers.NewPointHandler(p.Facade)
	healthHandler := handlers.NewHealthHandler(p.Pinger)

	point := engine.Group("/point/:id")
	point.GET("", pointHandler.Point)
	point.GET("/histories", pointHandler.Histories)
	point.PATCH("/charge", pointHandler.Charge)
	point.PATCH("/use", pointHandler.Use)

	engine.GET("/metrics", gin.WrapH(p.Metrics.Handler()))
	engine.GET("/healthz", healthHandler.Check)

	return engine
}
