package store

import (
	"sort"
	"sync"

	"github.com/calvinwijaya/twentyone/internal/game"
)

type entry struct {
	mu    sync.Mutex
	round *game.Round
}

// MemoryStore is an in-memory implementation of round storage
type MemoryStore struct {
	rounds map[string]*entry
	mu     sync.RWMutex
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rounds: make(map[string]*entry),
	}
}

// SaveRound saves a round to the store
func (s *MemoryStore) SaveRound(r *game.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.rounds[r.ID]; exists {
		e.mu.Lock()
		e.round = r
		e.mu.Unlock()
		return nil
	}
	s.rounds[r.ID] = &entry{round: r}
	return nil
}

// GetRound retrieves a round by ID
func (s *MemoryStore) GetRound(id string) (*game.Round, error) {
	e, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return e.round, nil
}

// WithRound runs fn with exclusive access to the round
func (s *MemoryStore) WithRound(id string, fn func(r *game.Round) error) error {
	e, err := s.get(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.round)
}

// DeleteRound removes a round from the store
func (s *MemoryStore) DeleteRound(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rounds[id]; !exists {
		return ErrRoundNotFound
	}
	delete(s.rounds, id)
	return nil
}

// GetAllRounds returns all rounds in the store, oldest first
func (s *MemoryStore) GetAllRounds() ([]*game.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rounds := make([]*game.Round, 0, len(s.rounds))
	for _, e := range s.rounds {
		rounds = append(rounds, e.round)
	}
	sort.Slice(rounds, func(i, j int) bool {
		return rounds[i].CreatedAt.Before(rounds[j].CreatedAt)
	})

	return rounds, nil
}

func (s *MemoryStore) get(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.rounds[id]
	if !exists {
		return nil, ErrRoundNotFound
	}
	return e, nil
}

// MemoryJournal keeps round events in memory. It is used when no database
// is configured.
type MemoryJournal struct {
	events map[string][]game.Event
	mu     sync.RWMutex
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{events: make(map[string][]game.Event)}
}

// Record appends one event
func (j *MemoryJournal) Record(ev game.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.events[ev.RoundID] = append(j.events[ev.RoundID], ev)
	return nil
}

// Events returns a copy of a round's events in sequence order
func (j *MemoryJournal) Events(roundID string) ([]game.Event, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]game.Event, len(j.events[roundID]))
	copy(out, j.events[roundID])
	sort.Slice(out, func(a, b int) bool { return out[a].Seq < out[b].Seq })
	return out, nil
}
