package api

import (
	"github.com/gin-gonic/gin"

	"github.com/SebInfo/AeroportsProches/airports"
	"github.com/SebInfo/AeroportsProches/config"
	"github.com/SebInfo/AeroportsProches/pkg/cache"
	"github.com/SebInfo/AeroportsProches/pkg/middleware"
)

// RegisterRoutes registers all API routes. cacheManager may be nil, in which
// case responses are always computed from the in-memory collection.
func RegisterRoutes(router *gin.Engine, col *airports.Collection, stats airports.LoadStats, cacheManager *cache.CacheManager, cfg *config.Config) {
	// Setup middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())

	// Health check endpoint
	router.GET("/health", Health(col, stats))

	// API v1 routes
	v1 := router.Group("/api/v1")
	if cacheManager != nil {
		v1.Use(middleware.ResponseCache(cacheManager, middleware.CacheConfig{
			TTL:       cfg.RedisConfig.CacheTTL,
			KeyPrefix: "airports",
		}))
	}
	{
		// Airport routes
		v1.GET("/airports", GetAirports(col))
		v1.GET("/airports/:code", GetAirport(col))
		v1.GET("/airports/:code/nearby", GetNearby(col, cfg.DatasetConfig))

		// Search route backing the lookup form
		v1.GET("/search", SearchAirports(col, cfg.DatasetConfig))
	}
}
