package game

import "time"

// View is the round as the player is allowed to see it.
type View struct {
	ID         string     `json:"id"`
	Phase      Phase      `json:"phase"`
	Policy     string     `json:"policy"`
	Player     PlayerView `json:"player"`
	Dealer     DealerView `json:"dealer"`
	Result     *Result    `json:"result,omitempty"`
	Error      string     `json:"error,omitempty"`
	DealtCards int        `json:"dealtCards"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type PlayerView struct {
	Name          string `json:"name"`
	Cards         []Card `json:"cards"`
	Total         int    `json:"total"`
	HitCount      int    `json:"hitCount"`
	CanDoubleDown bool   `json:"canDoubleDown"`
	Doubled       bool   `json:"doubled"`
	Surrendered   bool   `json:"surrendered"`
}

// DealerView hides the hole card and the dealer's total until the dealer's
// turn has started.
type DealerView struct {
	Name           string `json:"name"`
	Cards          []Card `json:"cards"`
	HoleCardHidden bool   `json:"holeCardHidden"`
	Total          *int   `json:"total,omitempty"`
}

// View returns the player-facing state of the round
func (r *Round) View() View {
	v := View{
		ID:         r.ID,
		Phase:      r.phase,
		Policy:     r.policy.Name,
		Result:     r.result,
		DealtCards: DeckSize - r.deck.RemainingCards(),
		CreatedAt:  r.CreatedAt,
	}
	if r.err != nil {
		v.Error = r.err.Error()
	}

	playerTotal, _ := r.player.Total()
	v.Player = PlayerView{
		Name:          r.player.Name,
		Cards:         r.player.Cards(),
		Total:         playerTotal,
		HitCount:      r.player.HitCount(),
		CanDoubleDown: r.phase == PhasePlayerTurn && r.player.CanDoubleDown(),
		Doubled:       r.player.Doubled(),
		Surrendered:   r.player.Surrendered(),
	}

	v.Dealer = DealerView{Name: r.dealer.Name, Cards: []Card{}}
	if r.holeRevealed {
		v.Dealer.Cards = r.dealer.Cards()
		if total, err := r.dealer.Total(); err == nil {
			v.Dealer.Total = &total
		}
	} else if up, ok := r.dealer.UpCard(); ok {
		v.Dealer.Cards = append(v.Dealer.Cards, up)
		v.Dealer.HoleCardHidden = r.dealer.hand.Len() > 1
	}

	return v
}
