package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHand_Total(t *testing.T) {
	tests := []struct {
		name  string
		cards []Card
		want  int
		soft  bool
	}{
		{"plain sum", []Card{{Nine, Clubs}, {Seven, Hearts}}, 16, false},
		{"faces", []Card{{King, Clubs}, {Queen, Hearts}}, 20, false},
		{"blackjack", []Card{{Ace, Spades}, {King, Hearts}}, 21, true},
		{"soft ace kept", []Card{{Ace, Spades}, {Six, Hearts}}, 17, true},
		{"ace demoted", []Card{{Ace, Spades}, {Nine, Hearts}, {Five, Clubs}}, 15, false},
		{"two aces", []Card{{Ace, Spades}, {Ace, Hearts}}, 12, false},
		{"three aces demote once", []Card{{Ace, Spades}, {Ace, Hearts}, {Ace, Clubs}}, 23, false},
		{"ace with two faces", []Card{{Ace, Spades}, {King, Hearts}, {Queen, Clubs}}, 21, false},
		{"bust without ace", []Card{{King, Spades}, {Queen, Hearts}, {Five, Clubs}}, 25, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHand(tt.cards...)

			got, err := h.Total()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.soft, h.IsSoft())

			again, err := h.Total()
			require.NoError(t, err)
			assert.Equal(t, got, again, "total must be idempotent")
		})
	}
}

func TestHand_TotalEmpty(t *testing.T) {
	_, err := NewHand().Total()
	assert.ErrorIs(t, err, ErrEmptyHand)
	assert.True(t, IsFatal(err))
}

func TestHand_TotalRejectsCardsOutsideCatalog(t *testing.T) {
	tests := []struct {
		name  string
		cards []Card
	}{
		{"zero card", []Card{{}}},
		{"unknown rank", []Card{{Rank("One"), Spades}, {King, Hearts}}},
		{"unknown suit", []Card{{Ace, Suit("Stars")}, {Nine, Clubs}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := NewHand(tt.cards...).Total()
			assert.ErrorIs(t, err, ErrInvalidCard)
			assert.True(t, IsFatal(err))
			assert.Zero(t, total)
		})
	}

	p := NewPlayer("")
	p.Hit(Card{})
	_, err := p.Total()
	assert.ErrorIs(t, err, ErrInvalidCard)
}

func TestHand_AceRuleMatchesRawSum(t *testing.T) {
	// every two- and three-card hand from a small pool
	pool := []Card{{Ace, Spades}, {Ace, Hearts}, {King, Clubs}, {Five, Diamonds}, {Nine, Spades}}
	var hands [][]Card
	for i := range pool {
		for j := range pool {
			if i == j {
				continue
			}
			hands = append(hands, []Card{pool[i], pool[j]})
			for k := range pool {
				if k != i && k != j {
					hands = append(hands, []Card{pool[i], pool[j], pool[k]})
				}
			}
		}
	}

	for _, cards := range hands {
		raw, aces := 0, 0
		for _, c := range cards {
			raw += c.Value()
			if c.IsAce() {
				aces++
			}
		}
		want := raw
		if aces > 0 && raw > BlackjackTotal {
			want = raw - 10
		}

		got, err := NewHand(cards...).Total()
		require.NoError(t, err)
		assert.Equal(t, want, got, NewHand(cards...).String())
	}
}

func TestHand_OwnsItsCards(t *testing.T) {
	src := []Card{{Two, Spades}, {Three, Spades}}
	h := NewHand(src...)
	src[0] = Card{King, Hearts}

	assert.Equal(t, Card{Two, Spades}, h.Cards()[0])

	out := h.Cards()
	out[1] = Card{Ace, Hearts}
	assert.Equal(t, Card{Three, Spades}, h.Cards()[1])
}

func TestHand_String(t *testing.T) {
	h := NewHand(Card{Ace, Spades}, Card{Ten, Hearts})
	assert.Equal(t, "Ace of Spades, Ten of Hearts", h.String())
	assert.Equal(t, 2, h.Len())
}
