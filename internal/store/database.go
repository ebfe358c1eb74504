package store

import (
	"github.com/calvinwijaya/twentyone/internal/db"
	"github.com/calvinwijaya/twentyone/internal/game"
)

// DatabaseJournal is a database implementation of the event journal
type DatabaseJournal struct {
	db *db.Database
}

// NewDatabaseJournal creates a new database journal
func NewDatabaseJournal(database *db.Database) *DatabaseJournal {
	return &DatabaseJournal{
		db: database,
	}
}

// Record saves an event to the database
func (j *DatabaseJournal) Record(ev game.Event) error {
	return j.db.InsertEvent(ev)
}

// Events retrieves a round's events from the database
func (j *DatabaseJournal) Events(roundID string) ([]game.Event, error) {
	return j.db.GetRoundEvents(roundID)
}
