package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/calvinwijaya/twentyone/internal/api"
	"github.com/calvinwijaya/twentyone/internal/config"
	"github.com/calvinwijaya/twentyone/internal/db"
	"github.com/calvinwijaya/twentyone/internal/game"
	"github.com/calvinwijaya/twentyone/internal/store"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Command line flags override the environment
	var (
		port        = flag.String("port", cfg.Port, "Server port")
		dbDriver    = flag.String("db-driver", cfg.DBDriver, "Journal database driver (sqlite3 or postgres)")
		dbDSN       = flag.String("db", cfg.DBDSN, "Journal database path or DSN")
		frontendURL = flag.String("frontend", cfg.FrontendURL, "Frontend URL for CORS")
		policyName  = flag.String("policy", cfg.DealerPolicy.Name, "Dealer policy (classic or aggressive)")
	)
	flag.Parse()

	policy, err := game.ParseDealerPolicy(*policyName)
	if err != nil {
		log.Fatalf("Invalid -policy: %v", err)
	}

	// Create data directory if it doesn't exist
	if *dbDriver == config.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(*dbDSN), 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
	}

	// Initialize the store
	roundStore := store.NewMemoryStore()
	log.Println("In-memory round store initialized")

	// Initialize the journal
	var journal store.Journal
	database, err := db.NewDatabase(*dbDriver, *dbDSN)
	if err != nil {
		log.Printf("Warning: Failed to initialize database: %v", err)
		log.Println("Keeping the round journal in memory")
		journal = store.NewMemoryJournal()
	} else {
		log.Printf("Database initialized successfully (%s)", database.Driver())
		defer database.Close()
		journal = store.NewDatabaseJournal(database)
	}

	// Initialize WebSocket hub
	hub := api.NewHub()
	go hub.Run()
	log.Println("WebSocket hub started")

	// Initialize API handlers
	handlers := api.NewHandlers(roundStore, journal, hub, policy)
	log.Printf("Dealer policy: %s", policy)

	// Set up router
	r := mux.NewRouter()
	handlers.RegisterRoutes(r)

	// Add middleware for logging
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Printf("%s %s %s", r.Method, r.RequestURI, time.Since(start))
		})
	})

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{*frontendURL},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Create server
	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      c.Handler(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", *port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Set up graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a termination signal
	<-stop

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
