package config

import (
	"fmt"
	"os"

	"github.com/calvinwijaya/twentyone/internal/game"
	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DBDriver     string
	DBDSN        string
	FrontendURL  string
	BotToken     string
	DealerPolicy game.DealerPolicy
}

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Load reads an optional .env file and then the environment. Missing
// values fall back to defaults suitable for local play.
func Load(files ...string) (*Config, error) {
	// a missing .env is fine
	godotenv.Load(files...)

	policy, err := game.ParseDealerPolicy(os.Getenv("DEALER_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("DEALER_POLICY: %w", err)
	}

	driver := getenv("DB_DRIVER", DriverSQLite)
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("DB_DRIVER %q is not supported", driver)
	}

	return &Config{
		Port:         getenv("PORT", "8080"),
		DBDriver:     driver,
		DBDSN:        getenv("DB_DSN", "./data/twentyone.db"),
		FrontendURL:  getenv("FRONTEND_URL", "http://localhost:5173"),
		BotToken:     os.Getenv("BOT_TOKEN"),
		DealerPolicy: policy,
	}, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
