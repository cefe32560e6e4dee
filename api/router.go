package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/ballotmap/api/handler"
	"github.com/use-agent/ballotmap/api/middleware"
	"github.com/use-agent/ballotmap/cache"
	"github.com/use-agent/ballotmap/config"
)

// NewRouter creates a configured Gin engine serving the pipeline artifacts.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health is outside auth so monitoring probes always work.
func NewRouter(cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	v1.GET("/health", handler.Health(cfg.Files, cc, startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.GET("/stats", handler.Stats(cc, cfg.Files.AggregateJSON))
	protected.GET("/stats/:county", handler.CountyStats(cc, cfg.Files.AggregateJSON))
	protected.GET("/precincts", handler.Precincts(cc, cfg.Files.MatchedCSV))
	protected.GET("/unmatched", handler.Unmatched(cc, cfg.Files.UnmatchedCSV))

	return r
}
