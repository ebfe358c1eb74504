package game

import (
	"fmt"
	"strings"
)

type Role string

const (
	RolePlayer Role = "player"
	RoleDealer Role = "dealer"
)

// DoubleDownLimit is the hit count at which doubling down stops being
// allowed. The two opening cards count as hits.
const DoubleDownLimit = 3

const (
	DefaultPlayerName = "Player"
	DefaultDealerName = "Dealer"
)

// Player is the human side of a round.
type Player struct {
	Name        string
	hand        *Hand
	hitCount    int
	doubled     bool
	surrendered bool
}

func NewPlayer(name string) *Player {
	if name == "" {
		name = DefaultPlayerName
	}
	return &Player{Name: name, hand: NewHand()}
}

// Hit adds a card to the hand and counts it
func (p *Player) Hit(card Card) {
	p.hitCount++
	p.hand.Add(card)
}

// CanDoubleDown reports whether the double down window is still open.
func (p *Player) CanDoubleDown() bool {
	return p.hitCount < DoubleDownLimit
}

// DoubleDown takes one more card if the window is open. Otherwise nothing
// changes and ErrDoubleDownIneligible is returned.
func (p *Player) DoubleDown(card Card) error {
	if !p.CanDoubleDown() {
		return ErrDoubleDownIneligible
	}
	p.hitCount++
	p.doubled = true
	p.hand.Add(card)
	return nil
}

// Stand ends the player's turn. It does not touch the hand.
func (p *Player) Stand() {}

// Surrender forfeits the round; the player's total reads 0 from now on.
func (p *Player) Surrender() {
	p.surrendered = true
}

// Total is the hand value, or 0 once the player has surrendered.
func (p *Player) Total() (int, error) {
	total, err := p.hand.Total()
	if err != nil {
		return 0, fmt.Errorf("player %s: %w", p.Name, err)
	}
	if p.surrendered {
		return 0, nil
	}
	return total, nil
}

func (p *Player) Cards() []Card { return p.hand.Cards() }

func (p *Player) HitCount() int { return p.hitCount }

func (p *Player) Doubled() bool { return p.doubled }

func (p *Player) Surrendered() bool { return p.surrendered }

// Dealer draws by a fixed policy and has no choices to make.
type Dealer struct {
	Name string
	hand *Hand
}

func NewDealer(name string) *Dealer {
	if name == "" {
		name = DefaultDealerName
	}
	return &Dealer{Name: name, hand: NewHand()}
}

func (d *Dealer) Hit(card Card) {
	d.hand.Add(card)
}

func (d *Dealer) Total() (int, error) {
	total, err := d.hand.Total()
	if err != nil {
		return 0, fmt.Errorf("dealer %s: %w", d.Name, err)
	}
	return total, nil
}

// ShouldDraw reports whether policy makes the dealer take another card.
func (d *Dealer) ShouldDraw(policy DealerPolicy) (bool, error) {
	total, err := d.Total()
	if err != nil {
		return false, err
	}
	return total < policy.StandOn, nil
}

// UpCard is the dealer's first card, the one the player sees during the deal.
func (d *Dealer) UpCard() (Card, bool) {
	if d.hand.Len() == 0 {
		return Card{}, false
	}
	return d.hand.cards[0], true
}

func (d *Dealer) Cards() []Card { return d.hand.Cards() }

// Stand thresholds for the two dealer policies.
const (
	ClassicStandOn    = 17
	AggressiveStandOn = 21
)

// DealerPolicy fixes when the dealer stops drawing: it draws while its
// total is below StandOn.
type DealerPolicy struct {
	Name    string `json:"name"`
	StandOn int    `json:"standOn"`
}

var (
	// ClassicPolicy stops the dealer at 17 or more.
	ClassicPolicy = DealerPolicy{Name: "classic", StandOn: ClassicStandOn}
	// AggressivePolicy keeps the dealer drawing until 21 or a bust.
	AggressivePolicy = DealerPolicy{Name: "aggressive", StandOn: AggressiveStandOn}

	DefaultDealerPolicy = ClassicPolicy
)

// ParseDealerPolicy maps a policy name to its policy. An empty name gives
// the default.
func ParseDealerPolicy(name string) (DealerPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DefaultDealerPolicy, nil
	case ClassicPolicy.Name:
		return ClassicPolicy, nil
	case AggressivePolicy.Name:
		return AggressivePolicy, nil
	}
	return DealerPolicy{}, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

func (p DealerPolicy) String() string {
	return fmt.Sprintf("%s (stands on %d)", p.Name, p.StandOn)
}
