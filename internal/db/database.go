package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/calvinwijaya/twentyone/internal/game"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Database keeps the action journal: one row per round event.
type Database struct {
	db     *sql.DB
	driver string
}

// NewDatabase creates a new database connection. driver is "sqlite3" or
// "postgres"; dsn is passed to the driver unchanged.
func NewDatabase(driver, dsn string) (*Database, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	if driver == "sqlite3" {
		// sqlite serializes writers anyway
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(time.Hour)
	}

	if err := initTables(db, driver); err != nil {
		db.Close()
		return nil, err
	}

	return &Database{db: db, driver: driver}, nil
}

// initTables creates the necessary tables if they don't exist
func initTables(db *sql.DB, driver string) error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == "postgres" {
		idColumn = "id SERIAL PRIMARY KEY"
	}

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS round_events (
			` + idColumn + `,
			round_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			kind TEXT NOT NULL,
			phase TEXT NOT NULL,
			actor TEXT NOT NULL DEFAULT '',
			action TEXT NOT NULL DEFAULT '',
			card_rank TEXT NOT NULL DEFAULT '',
			card_suit TEXT NOT NULL DEFAULT '',
			detail TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			UNIQUE (round_id, seq)
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating round_events table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_round_events_round ON round_events (round_id)`)
	if err != nil {
		return fmt.Errorf("error creating round_events index: %w", err)
	}

	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// InsertEvent appends one event to the journal
func (d *Database) InsertEvent(ev game.Event) error {
	var rank, suit string
	if ev.Card != nil {
		rank, suit = string(ev.Card.Rank), string(ev.Card.Suit)
	}

	_, err := d.db.Exec(`
		INSERT INTO round_events (round_id, seq, kind, phase, actor, action, card_rank, card_suit, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		ev.RoundID, ev.Seq, string(ev.Kind), string(ev.Phase), string(ev.Actor), string(ev.Action),
		rank, suit, ev.Detail, ev.At.UTC())
	if err != nil {
		return fmt.Errorf("error inserting event %s/%d: %w", ev.RoundID, ev.Seq, err)
	}
	return nil
}

// GetRoundEvents returns the journal of one round in sequence order
func (d *Database) GetRoundEvents(roundID string) ([]game.Event, error) {
	rows, err := d.db.Query(`
		SELECT round_id, seq, kind, phase, actor, action, card_rank, card_suit, detail, created_at
		FROM round_events WHERE round_id = $1 ORDER BY seq
	`, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []game.Event{}
	for rows.Next() {
		var ev game.Event
		var kind, phase, actor, action, rank, suit string
		if err := rows.Scan(&ev.RoundID, &ev.Seq, &kind, &phase, &actor, &action, &rank, &suit, &ev.Detail, &ev.At); err != nil {
			return nil, err
		}
		ev.Kind = game.EventKind(kind)
		ev.Phase = game.Phase(phase)
		ev.Actor = game.Role(actor)
		ev.Action = game.Action(action)
		if card, ok := game.NewCard(game.Rank(rank), game.Suit(suit)); ok {
			ev.Card = &card
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}

// Driver returns the name of the SQL driver in use
func (d *Database) Driver() string {
	return d.driver
}
