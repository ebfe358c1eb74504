package game

import (
	"fmt"
	"math/rand"
	"time"
)

// MaxDrawAttempts bounds rejection sampling in Draw. Once that many random
// picks in a row hit already-dealt cards, the deck picks from the remaining
// identities directly.
const MaxDrawAttempts = 32

// Deck hands out cards of the 52-card catalog without replacement. It lives
// for a single round; there is no way to put a card back.
type Deck struct {
	rng     *rand.Rand
	stacked []Card
	dealt   map[Card]struct{}
	order   []Card
}

type DeckOption func(*Deck)

// WithSource makes the deck draw from src instead of a time-seeded source.
func WithSource(src rand.Source) DeckOption {
	return func(d *Deck) {
		d.rng = rand.New(src)
	}
}

// WithStackedCards puts cards on top of the deck. They come out first, in
// order, and still count against the no-repeat rule.
func WithStackedCards(cards ...Card) DeckOption {
	return func(d *Deck) {
		d.stacked = append(d.stacked, cards...)
	}
}

// NewDeck creates a fresh deck with nothing dealt
func NewDeck(opts ...DeckOption) *Deck {
	d := &Deck{
		dealt: make(map[Card]struct{}, DeckSize),
		order: make([]Card, 0, DeckSize),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.rng == nil {
		d.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return d
}

// Draw returns a card this deck has never returned before.
func (d *Deck) Draw() (Card, error) {
	if len(d.order) >= DeckSize {
		return Card{}, ErrDeckExhausted
	}

	if len(d.stacked) > 0 {
		card := d.stacked[0]
		d.stacked = d.stacked[1:]
		if !card.Valid() {
			return Card{}, fmt.Errorf("%w: stacked rank %q, suit %q", ErrInvalidCard, card.Rank, card.Suit)
		}
		if d.IsDealt(card) {
			return Card{}, fmt.Errorf("%w: %s", ErrDuplicateCard, card)
		}
		d.record(card)
		return card, nil
	}

	for i := 0; i < MaxDrawAttempts; i++ {
		card := Card{
			Rank: ranks[d.rng.Intn(len(ranks))],
			Suit: suits[d.rng.Intn(len(suits))],
		}
		if !d.IsDealt(card) {
			d.record(card)
			return card, nil
		}
	}

	remaining := d.remaining()
	card := remaining[d.rng.Intn(len(remaining))]
	d.record(card)
	return card, nil
}

// IsDealt reports whether card has already left this deck.
func (d *Deck) IsDealt(card Card) bool {
	_, ok := d.dealt[card]
	return ok
}

// Dealt returns the cards drawn so far, in draw order.
func (d *Deck) Dealt() []Card {
	out := make([]Card, len(d.order))
	copy(out, d.order)
	return out
}

// RemainingCards returns the number of cards left in the deck
func (d *Deck) RemainingCards() int {
	return DeckSize - len(d.order)
}

func (d *Deck) record(card Card) {
	d.dealt[card] = struct{}{}
	d.order = append(d.order, card)
}

func (d *Deck) remaining() []Card {
	out := make([]Card, 0, d.RemainingCards())
	for _, card := range AllCards() {
		if !d.IsDealt(card) {
			out = append(out, card)
		}
	}
	return out
}
