package game

import (
	"fmt"
	"strings"
)

const (
	// BlackjackTotal is the best possible hand value.
	BlackjackTotal = 21

	aceDemotion = 10
)

// Hand is the ordered list of cards one participant holds. Every hand owns
// its own backing slice.
type Hand struct {
	cards []Card
}

// NewHand returns a hand holding cards in the given order.
func NewHand(cards ...Card) *Hand {
	h := &Hand{cards: make([]Card, 0, len(cards)+4)}
	h.cards = append(h.cards, cards...)
	return h
}

// Add appends a card at the end of the hand.
func (h *Hand) Add(card Card) {
	h.cards = append(h.cards, card)
}

// Cards returns a copy of the hand in deal order.
func (h *Hand) Cards() []Card {
	out := make([]Card, len(h.cards))
	copy(out, h.cards)
	return out
}

func (h *Hand) Len() int {
	return len(h.cards)
}

// Total calculates the value of the hand. Every Ace counts 11; if that sum
// is over 21 and the hand holds an Ace, 10 is taken off once, no matter how
// many Aces there are.
func (h *Hand) Total() (int, error) {
	return CalculateHandScore(h.cards)
}

// IsSoft reports whether an Ace in the hand is still counted as 11.
func (h *Hand) IsSoft() bool {
	sum, aces := rawSum(h.cards)
	return aces > 0 && sum <= BlackjackTotal
}

func (h *Hand) String() string {
	parts := make([]string, len(h.cards))
	for i, card := range h.cards {
		parts[i] = card.String()
	}
	return strings.Join(parts, ", ")
}

// CalculateHandScore calculates the score of a card sequence, accounting for
// aces. A card outside the catalog is an error, not a zero.
func CalculateHandScore(cards []Card) (int, error) {
	if len(cards) == 0 {
		return 0, ErrEmptyHand
	}
	for _, card := range cards {
		if !card.Valid() {
			return 0, fmt.Errorf("%w: rank %q, suit %q", ErrInvalidCard, card.Rank, card.Suit)
		}
	}

	score, aces := rawSum(cards)
	if aces > 0 && score > BlackjackTotal {
		score -= aceDemotion
	}
	return score, nil
}

func rawSum(cards []Card) (score, aces int) {
	for _, card := range cards {
		if card.IsAce() {
			aces++
		}
		score += card.Value()
	}
	return score, aces
}
