package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the server engine with logging, recovery and CORS.
func NewRouter(h *Handler, allowOrigins []string) *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(corsConfig(allowOrigins)))
	Register(router, h)
	return router
}

func corsConfig(allowOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowOrigins) == 0 || (len(allowOrigins) == 1 && allowOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowOrigins
	}
	return cfg
}

// Register mounts /health, /reports and /stored-procedures on router.
func Register(router gin.IRouter, h *Handler) {
	router.GET("/health", h.Health)

	reports := router.Group("/reports")
	{
		reports.GET("/sales-unoptimized", h.SalesUnoptimized)
		reports.GET("/sales-optimized", h.SalesOptimized)
		reports.GET("/top-products", h.TopProducts)
		reports.GET("/store-performance", h.StorePerformance)
	}

	procedures := router.Group("/stored-procedures")
	{
		procedures.GET("/orders-unoptimized", h.OrdersUnoptimized)
		procedures.GET("/orders-optimized", h.OrdersOptimized)
		procedures.GET("/products-unoptimized", h.ProductsUnoptimized)
		procedures.GET("/products-optimized", h.ProductsOptimized)
		procedures.GET("/stores-unoptimized", h.StoresUnoptimized)
		procedures.GET("/stores-optimized", h.StoresOptimized)
	}
}
