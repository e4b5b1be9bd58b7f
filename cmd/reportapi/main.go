package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"store-report-lab/internal/config"
	"store-report-lab/internal/data"
	"store-report-lab/internal/db"
	"store-report-lab/internal/httpapi"
	"store-report-lab/internal/report"
)

func main() {
	cfg := config.Load()
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	gdb, err := db.Open(db.FromEnv())
	if err != nil {
		log.Fatalf("failed to connect to store: %v", err)
	}
	defer db.Close(gdb)

	if err := data.EnsureSchema(gdb); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	if cfg.SeedOnStartup {
		seedCfg := data.SeedConfig{
			Orders:    cfg.SeedOrders,
			BatchSize: cfg.SeedBatchSize,
		}
		if err := data.Seed(context.Background(), gdb, seedCfg); err != nil {
			log.Fatalf("failed to seed dataset: %v", err)
		}
	}

	handler := httpapi.NewHandler(report.NewService(gdb), report.NewRunner(gdb))
	router := httpapi.NewRouter(handler, cfg.CORSOrigins)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
