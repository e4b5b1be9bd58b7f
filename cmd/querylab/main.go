package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"
	"gorm.io/gorm"

	"store-report-lab/internal/config"
	"store-report-lab/internal/data"
	"store-report-lab/internal/db"
	"store-report-lab/internal/report"
)

func main() {
	var (
		orderCount    = flag.Int("orders", data.DefaultSeedOrders, "number of orders to generate when the store is empty")
		batchSize     = flag.Int("batch", data.DefaultSeedBatchSize, "batch size for bulk inserts")
		randSeed      = flag.Int64("seed", data.DefaultRandSeed, "random seed for order generation")
		skipSeed      = flag.Bool("skip-seed", false, "skip inserting sample data")
		skipScenarios = flag.Bool("skip-scenarios", false, "skip running the query pairs")
		showExplain   = flag.Bool("explain", true, "print EXPLAIN output for each query")
	)
	flag.Parse()

	config.Load()
	gdb, err := db.Open(db.FromEnv())
	if err != nil {
		log.Fatalf("failed to connect to store: %v", err)
	}
	defer db.Close(gdb)

	if err := data.EnsureSchema(gdb); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	ctx := context.Background()

	if !*skipSeed {
		start := time.Now()
		seedCfg := data.SeedConfig{
			Orders:    *orderCount,
			BatchSize: *batchSize,
			RandSeed:  *randSeed,
		}
		if err := data.Seed(ctx, gdb, seedCfg); err != nil {
			log.Fatalf("failed to seed dataset: %v", err)
		}
		log.Printf("dataset ready in %s", time.Since(start))
	} else {
		log.Printf("skip-seed enabled; reusing existing data")
	}

	if err := logDatasetStats(ctx, gdb); err != nil {
		log.Printf("failed to collect dataset stats: %v", err)
	}

	if *skipScenarios {
		log.Println("skip-scenarios enabled; exiting")
		return
	}

	runner := report.NewRunner(gdb)
	results := runner.Compare(ctx)

	if *showExplain {
		for i, res := range results {
			if res.Err != nil {
				log.Printf("[%s/%s] skipped explain due to error: %v", res.Pair, res.Variant, res.Err)
				continue
			}
			lines, err := runner.Explain(ctx, report.Procedures[i])
			if err != nil {
				lines = []string{fmt.Sprintf("failed to collect EXPLAIN: %v", err)}
			}
			log.Printf("[%s/%s] %s", res.Pair, res.Variant, res.Description)
			for _, line := range lines {
				log.Printf("  %s", line)
			}
		}
	}

	if err := printResultsTable(results); err != nil {
		log.Fatalf("failed to render results: %v", err)
	}
}

func logDatasetStats(ctx context.Context, gdb *gorm.DB) error {
	var stores, orders, items int64
	tx := gdb.WithContext(ctx)
	if err := tx.Model(&data.Store{}).Count(&stores).Error; err != nil {
		return err
	}
	if err := tx.Model(&data.Order{}).Count(&orders).Error; err != nil {
		return err
	}
	if err := tx.Model(&data.OrderItem{}).Count(&items).Error; err != nil {
		return err
	}
	log.Printf("dataset: stores=%d orders=%d order_items=%d", stores, orders, items)
	return nil
}

func printResultsTable(results []report.Comparison) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Pair", "Variant", "Description", "Duration", "Rows", "Status")
	for _, res := range results {
		status := "OK"
		if res.Err != nil {
			status = "ERR: " + res.Err.Error()
		}
		if err := table.Append(
			res.Pair,
			res.Variant,
			truncateText(res.Description, 40),
			res.Duration.String(),
			fmt.Sprintf("%d", res.RowCount),
			status,
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func truncateText(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "…"
}
