package main

import (
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/calvinwijaya/twentyone/internal/bot"
	"github.com/calvinwijaya/twentyone/internal/config"
	"github.com/calvinwijaya/twentyone/internal/db"
	"github.com/calvinwijaya/twentyone/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.BotToken == "" {
		log.Fatal("BOT_TOKEN is required")
	}

	if cfg.DBDriver == config.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DBDSN), 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
	}

	var journal store.Journal
	database, err := db.NewDatabase(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Printf("Warning: Failed to initialize database: %v", err)
		log.Println("Keeping the round journal in memory")
		journal = store.NewMemoryJournal()
	} else {
		log.Println("Database connected")
		defer database.Close()
		journal = store.NewDatabaseJournal(database)
	}

	b, err := bot.New(cfg, store.NewMemoryStore(), journal)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	// Stop polling on a termination signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		log.Println("Shutting down bot...")
		b.Stop()
	}()

	if err := b.Run(); err != nil {
		log.Printf("Bot error: %v", err)
	}
}
