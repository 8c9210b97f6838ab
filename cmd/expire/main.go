package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/woofadaar/server/config"
	"github.com/woofadaar/server/internal/database"
	"github.com/woofadaar/server/internal/repository"
)

var dryRun = flag.Bool("dry-run", true, "List due subscriptions without marking them expired")

// Sweeps active subscriptions whose expiry has passed. Run from cron.
func main() {
	flag.Parse()

	log.Println("Starting subscription expiry sweep...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	subRepo := repository.NewSubscriptionRepository(db)
	now := time.Now()

	due, err := subRepo.ListDueForExpiry(now)
	if err != nil {
		log.Fatalf("Failed to list due subscriptions: %v", err)
	}

	for _, sub := range due {
		log.Printf("  subscription %d (user %d, plan %s) expired at %s",
			sub.ID, sub.UserID, sub.Plan, sub.ExpiresAt.Format(time.RFC3339))
	}

	if *dryRun {
		log.Printf("Dry run: %d subscriptions due, nothing changed", len(due))
		return
	}

	marked, err := subRepo.MarkExpired(now)
	if err != nil {
		log.Fatalf("Failed to mark subscriptions expired: %v", err)
	}
	log.Printf("Done: %d subscriptions marked expired", marked)
}
