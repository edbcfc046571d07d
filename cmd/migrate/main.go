package main

import (
	"context"
	"log"

	"github.com/ahmed8601/kahramana-site/pkg/config"
	"github.com/ahmed8601/kahramana-site/pkg/database"
	"github.com/ahmed8601/kahramana-site/pkg/persistence"

	flag "github.com/spf13/pflag"
)

func main() {
	purge := flag.Bool("purge-stale", false, "delete cart snapshots written with another format version")
	flag.Parse()

	// Load configuration
	cfg := config.LoadConfig()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.CloseDatabase()

	if err := database.AutoMigrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if !*purge {
		return
	}

	n, err := database.PurgeStale(context.Background(), persistence.Version)
	if err != nil {
		log.Fatal("Failed to purge stale snapshots:", err)
	}
	log.Printf("✅ Purged %d stale cart snapshots", n)
}
