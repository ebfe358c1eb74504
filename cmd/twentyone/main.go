package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/calvinwijaya/twentyone/internal/config"
	"github.com/calvinwijaya/twentyone/internal/console"
	"github.com/calvinwijaya/twentyone/internal/game"
)

func main() {
	var (
		policyName = flag.String("policy", "", "Dealer policy: classic or aggressive (overrides DEALER_POLICY)")
		logPath    = flag.String("log", "", "Append round events to this file")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	policy := cfg.DealerPolicy
	if *policyName != "" {
		if policy, err = game.ParseDealerPolicy(*policyName); err != nil {
			log.Fatalf("Invalid -policy: %v", err)
		}
	}

	eventLog := log.New(io.Discard, "", 0)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		eventLog = log.New(f, "", log.LstdFlags)
	}
	eventLog.Printf("Session started, dealer policy %s", policy)

	newRound := func() (*game.Round, error) {
		return game.NewRound(
			game.WithPolicy(policy),
			game.WithObserver(console.LogObserver(eventLog)),
		)
	}

	if err := console.NewSession(os.Stdin, os.Stdout, newRound).Run(); err != nil {
		log.Fatalf("Session error: %v", err)
	}
}
