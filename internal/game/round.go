package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Phase string

const (
	PhaseDealing    Phase = "dealing"
	PhasePlayerTurn Phase = "playerTurn"
	PhaseDealerTurn Phase = "dealerTurn"
	PhaseResolved   Phase = "resolved"
	PhaseAborted    Phase = "aborted" // a fatal error ended the round
)

// Terminal reports whether no further action can change the round.
func (p Phase) Terminal() bool {
	return p == PhaseResolved || p == PhaseAborted
}

// Round runs a single hand of twenty-one between one player and the dealer.
// It owns its deck and both participants; a new round needs a new Round.
// A Round is not safe for concurrent use.
type Round struct {
	ID        string
	CreatedAt time.Time

	policy DealerPolicy
	deck   *Deck
	player *Player
	dealer *Dealer

	phase        Phase
	transitions  []Phase
	holeRevealed bool
	result       *Result
	err          error

	observer Observer
	seq      int
	now      func() time.Time
}

type roundConfig struct {
	id         string
	policy     DealerPolicy
	deckOpts   []DeckOption
	observer   Observer
	playerName string
	now        func() time.Time
}

type RoundOption func(*roundConfig)

// WithPolicy sets the dealer's drawing policy.
func WithPolicy(policy DealerPolicy) RoundOption {
	return func(c *roundConfig) { c.policy = policy }
}

// WithDeckOptions passes options through to the round's deck.
func WithDeckOptions(opts ...DeckOption) RoundOption {
	return func(c *roundConfig) { c.deckOpts = append(c.deckOpts, opts...) }
}

// WithObserver registers fn to receive the round's events.
func WithObserver(fn Observer) RoundOption {
	return func(c *roundConfig) { c.observer = fn }
}

func WithPlayerName(name string) RoundOption {
	return func(c *roundConfig) { c.playerName = name }
}

// WithRoundID overrides the generated round ID.
func WithRoundID(id string) RoundOption {
	return func(c *roundConfig) { c.id = id }
}

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) RoundOption {
	return func(c *roundConfig) { c.now = now }
}

// PhaseResult is what the caller gets back after submitting an action.
type PhaseResult struct {
	Phase       Phase   `json:"phase"`
	Action      Action  `json:"action,omitempty"`
	Card        *Card   `json:"card,omitempty"`
	PlayerTotal int     `json:"playerTotal"`
	Result      *Result `json:"result,omitempty"`
}

// NewRound allocates a deck and both participants and deals the opening
// cards: two to the player, then two to the dealer. A player dealt 21 skips
// straight to the dealer's turn, in which case the round comes back
// already resolved.
func NewRound(opts ...RoundOption) (*Round, error) {
	cfg := roundConfig{policy: DefaultDealerPolicy, now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.id == "" {
		cfg.id = uuid.New().String()
	}

	r := &Round{
		ID:       cfg.id,
		policy:   cfg.policy,
		deck:     NewDeck(cfg.deckOpts...),
		player:   NewPlayer(cfg.playerName),
		dealer:   NewDealer(""),
		observer: cfg.observer,
		now:      cfg.now,
	}
	r.CreatedAt = r.now()

	if err := r.deal(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Round) deal() error {
	r.setPhase(PhaseDealing)

	for i := 0; i < 2; i++ {
		card, err := r.draw()
		if err != nil {
			return err
		}
		r.player.Hit(card)
		r.emit(Event{Kind: EventDeal, Actor: RolePlayer, Card: &card})
	}
	for i := 0; i < 2; i++ {
		card, err := r.draw()
		if err != nil {
			return err
		}
		r.dealer.Hit(card)
		ev := Event{Kind: EventDeal, Actor: RoleDealer}
		if i == 0 {
			ev.Card = &card
		} else {
			ev.Detail = "hole card"
		}
		r.emit(ev)
	}

	total, err := r.player.Total()
	if err != nil {
		return r.abort(err)
	}
	if total == BlackjackTotal {
		r.emit(Event{Kind: EventAction, Actor: RolePlayer, Detail: "blackjack on the deal"})
		return r.playDealer()
	}

	r.setPhase(PhasePlayerTurn)
	return nil
}

// Apply submits one player action. Rejected actions (unknown token, double
// down outside its window, wrong phase) leave the round as it was and come
// back as errors. A fatal error aborts the round.
func (r *Round) Apply(action Action) (PhaseResult, error) {
	switch r.phase {
	case PhasePlayerTurn:
	case PhaseAborted:
		return r.phaseResult(action, nil), ErrRoundAborted
	case PhaseResolved:
		return r.phaseResult(action, nil), ErrRoundResolved
	default:
		return r.phaseResult(action, nil), ErrNotPlayerTurn
	}

	if !action.Valid() {
		return r.reject(action, fmt.Errorf("%w: %q", ErrInvalidAction, action))
	}

	switch action {
	case Hit:
		card, err := r.draw()
		if err != nil {
			return r.phaseResult(action, nil), err
		}
		r.player.Hit(card)
		r.emit(Event{Kind: EventAction, Actor: RolePlayer, Action: action, Card: &card})
		return r.afterPlayerCard(action, card)

	case DoubleDown:
		if !r.player.CanDoubleDown() {
			return r.reject(action, ErrDoubleDownIneligible)
		}
		card, err := r.draw()
		if err != nil {
			return r.phaseResult(action, nil), err
		}
		if err := r.player.DoubleDown(card); err != nil {
			return r.phaseResult(action, nil), r.abort(err)
		}
		r.emit(Event{Kind: EventAction, Actor: RolePlayer, Action: action, Card: &card})
		return r.afterPlayerCard(action, card)

	case Stand:
		r.player.Stand()
		r.emit(Event{Kind: EventAction, Actor: RolePlayer, Action: action})
		if err := r.playDealer(); err != nil {
			return r.phaseResult(action, nil), err
		}
		return r.phaseResult(action, nil), nil

	default: // Surrender
		r.player.Surrender()
		r.emit(Event{Kind: EventAction, Actor: RolePlayer, Action: action})
		if err := r.resolve(OutcomePlayerSurrendered); err != nil {
			return r.phaseResult(action, nil), err
		}
		return r.phaseResult(action, nil), nil
	}
}

// afterPlayerCard checks for a bust after the player took a card. A double
// down that survives ends the player's turn.
func (r *Round) afterPlayerCard(action Action, card Card) (PhaseResult, error) {
	total, err := r.player.Total()
	if err != nil {
		return r.phaseResult(action, &card), r.abort(err)
	}

	switch {
	case total > BlackjackTotal:
		err = r.resolve(OutcomePlayerBust)
	case action == DoubleDown:
		err = r.playDealer()
	}
	return r.phaseResult(action, &card), err
}

// playDealer flips the hole card and draws under the round's policy, then
// settles the round.
func (r *Round) playDealer() error {
	r.setPhase(PhaseDealerTurn)
	r.holeRevealed = true

	for {
		draw, err := r.dealer.ShouldDraw(r.policy)
		if err != nil {
			return r.abort(err)
		}
		if !draw {
			break
		}
		card, err := r.draw()
		if err != nil {
			return err
		}
		r.dealer.Hit(card)
		r.emit(Event{Kind: EventDealerDraw, Actor: RoleDealer, Card: &card})
	}

	dealerTotal, err := r.dealer.Total()
	if err != nil {
		return r.abort(err)
	}
	if dealerTotal > BlackjackTotal {
		return r.resolve(OutcomeDealerBust)
	}

	playerTotal, err := r.player.Total()
	if err != nil {
		return r.abort(err)
	}
	return r.resolve(compareTotals(playerTotal, dealerTotal))
}

func (r *Round) resolve(outcome Outcome) error {
	playerTotal, err := r.player.Total()
	if err != nil {
		return r.abort(err)
	}
	dealerTotal, err := r.dealer.Total()
	if err != nil {
		return r.abort(err)
	}

	r.holeRevealed = true
	r.result = &Result{
		Outcome:       outcome,
		PlayerTotal:   playerTotal,
		DealerTotal:   dealerTotal,
		HalfStakeLost: outcome == OutcomePlayerSurrendered,
	}
	r.setPhase(PhaseResolved)
	r.emit(Event{
		Kind:   EventResolved,
		Detail: fmt.Sprintf("%s: player %d, dealer %d", outcome, playerTotal, dealerTotal),
	})
	return nil
}

// draw takes a card from the deck, aborting the round if the deck fails.
func (r *Round) draw() (Card, error) {
	card, err := r.deck.Draw()
	if err != nil {
		return Card{}, r.abort(err)
	}
	return card, nil
}

func (r *Round) abort(cause error) error {
	r.err = cause
	r.setPhase(PhaseAborted)
	r.emit(Event{Kind: EventAbort, Detail: cause.Error()})
	return fmt.Errorf("%w: %w", ErrRoundAborted, cause)
}

func (r *Round) reject(action Action, cause error) (PhaseResult, error) {
	r.emit(Event{Kind: EventRejected, Actor: RolePlayer, Action: action, Detail: cause.Error()})
	return r.phaseResult(action, nil), cause
}

func (r *Round) setPhase(p Phase) {
	r.phase = p
	r.transitions = append(r.transitions, p)
	r.emit(Event{Kind: EventTransition, Detail: string(p)})
}

func (r *Round) emit(ev Event) {
	r.seq++
	ev.RoundID = r.ID
	ev.Seq = r.seq
	ev.Phase = r.phase
	ev.At = r.now()
	if r.observer != nil {
		r.observer(ev)
	}
}

func (r *Round) phaseResult(action Action, card *Card) PhaseResult {
	total, _ := r.player.Total()
	return PhaseResult{
		Phase:       r.phase,
		Action:      action,
		Card:        card,
		PlayerTotal: total,
		Result:      r.result,
	}
}

// Phase returns the round's current phase.
func (r *Round) Phase() Phase {
	return r.phase
}

// Transitions lists every phase the round has entered, in order.
func (r *Round) Transitions() []Phase {
	out := make([]Phase, len(r.transitions))
	copy(out, r.transitions)
	return out
}

// Outcome returns the final result. It is only available once the round is
// resolved.
func (r *Round) Outcome() (Result, error) {
	switch {
	case r.phase == PhaseAborted:
		return Result{}, ErrRoundAborted
	case r.result == nil:
		return Result{}, ErrNotResolved
	}
	return *r.result, nil
}

// Err returns the fatal error that aborted the round, if any.
func (r *Round) Err() error {
	return r.err
}

func (r *Round) Policy() DealerPolicy {
	return r.policy
}

func (r *Round) Player() *Player {
	return r.player
}

func (r *Round) Dealer() *Dealer {
	return r.dealer
}

// DealtCards lists every card the round's deck has handed out.
func (r *Round) DealtCards() []Card {
	return r.deck.Dealt()
}
