package store

import (
	"errors"

	"github.com/calvinwijaya/twentyone/internal/game"
)

var ErrRoundNotFound = errors.New("round not found")

// Store defines the interface for live round storage
type Store interface {
	// SaveRound saves a round to the store
	SaveRound(r *game.Round) error

	// GetRound retrieves a round by ID
	GetRound(id string) (*game.Round, error)

	// WithRound runs fn on the round while holding that round's lock
	WithRound(id string, fn func(r *game.Round) error) error

	// DeleteRound removes a round from the store
	DeleteRound(id string) error

	// GetAllRounds returns all rounds in the store
	GetAllRounds() ([]*game.Round, error)
}

// Journal is the persistent log of round events
type Journal interface {
	// Record appends one event
	Record(ev game.Event) error

	// Events returns the events of a round in sequence order
	Events(roundID string) ([]game.Event, error)
}
