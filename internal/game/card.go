package game

type Suit string
type Rank string

const (
	Spades   Suit = "Spades"
	Hearts   Suit = "Hearts"
	Diamonds Suit = "Diamonds"
	Clubs    Suit = "Clubs"
)

const (
	Two   Rank = "Two"
	Three Rank = "Three"
	Four  Rank = "Four"
	Five  Rank = "Five"
	Six   Rank = "Six"
	Seven Rank = "Seven"
	Eight Rank = "Eight"
	Nine  Rank = "Nine"
	Ten   Rank = "Ten"
	Jack  Rank = "Jack"
	Queen Rank = "Queen"
	King  Rank = "King"
	Ace   Rank = "Ace"
)

// DeckSize is the number of distinct card identities in the catalog.
const DeckSize = 52

var (
	suits = [...]Suit{Spades, Hearts, Diamonds, Clubs}
	ranks = [...]Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}
)

// AllCards returns every card identity of the catalog, suit by suit.
func AllCards() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range suits {
		for _, rank := range ranks {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}
	return cards
}

// Card is an immutable (rank, suit) pair. Two cards with the same rank and
// suit are the same identity.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// NewCard builds a card, reporting false when rank or suit is not in the catalog.
func NewCard(rank Rank, suit Suit) (Card, bool) {
	c := Card{Rank: rank, Suit: suit}
	return c, c.Valid()
}

// Valid reports whether both halves of the card belong to the catalog.
func (c Card) Valid() bool {
	return c.Rank.Valid() && c.Suit.Valid()
}

// Value returns the base value of the card. Aces count as 11 here; demotion
// to 1 is the hand's business.
func (c Card) Value() int {
	return c.Rank.Value()
}

// IsAce reports whether the card is an Ace.
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

func (c Card) String() string {
	return string(c.Rank) + " of " + string(c.Suit)
}

// Value returns the base value of the rank
func (r Rank) Value() int {
	switch r {
	case Ace:
		return 11 // soft by default
	case Ten, Jack, Queen, King:
		return 10
	case Two:
		return 2
	case Three:
		return 3
	case Four:
		return 4
	case Five:
		return 5
	case Six:
		return 6
	case Seven:
		return 7
	case Eight:
		return 8
	case Nine:
		return 9
	default:
		return 0
	}
}

func (r Rank) Valid() bool {
	return r.Value() > 0
}

func (s Suit) Valid() bool {
	switch s {
	case Spades, Hearts, Diamonds, Clubs:
		return true
	}
	return false
}
