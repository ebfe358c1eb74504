package game

// Outcome is how a resolved round ended.
type Outcome string

const (
	OutcomeNone              Outcome = ""
	OutcomePlayerWin         Outcome = "player_win"
	OutcomeDealerWin         Outcome = "dealer_win"
	OutcomeDraw              Outcome = "draw"
	OutcomePlayerBust        Outcome = "player_bust"
	OutcomeDealerBust        Outcome = "dealer_bust"
	OutcomePlayerSurrendered Outcome = "player_surrendered"
)

// Result is the final score of a round. Both totals are always revealed.
type Result struct {
	Outcome     Outcome `json:"outcome"`
	PlayerTotal int     `json:"playerTotal"`
	DealerTotal int     `json:"dealerTotal"`
	// HalfStakeLost is set only on surrender.
	HalfStakeLost bool `json:"halfStakeLost"`
}

// PlayerWon reports whether the outcome goes the player's way.
func (o Outcome) PlayerWon() bool {
	return o == OutcomePlayerWin || o == OutcomeDealerBust
}

// DealerWon reports whether the dealer takes the round.
func (o Outcome) DealerWon() bool {
	switch o {
	case OutcomeDealerWin, OutcomePlayerBust, OutcomePlayerSurrendered:
		return true
	}
	return false
}

// Message is the line shown to the player when the round ends.
func (o Outcome) Message() string {
	switch o {
	case OutcomePlayerWin:
		return "You win"
	case OutcomeDealerWin:
		return "Dealer wins"
	case OutcomeDraw:
		return "Draw, no one wins"
	case OutcomePlayerBust:
		return "You bust, you lose"
	case OutcomeDealerBust:
		return "Dealer busts, you win"
	case OutcomePlayerSurrendered:
		return "You surrendered. Half of the bet is lost"
	}
	return "Round in progress"
}

// compareTotals decides a round in which nobody went bust.
func compareTotals(player, dealer int) Outcome {
	switch {
	case player > dealer:
		return OutcomePlayerWin
	case player < dealer:
		return OutcomeDealerWin
	default:
		return OutcomeDraw
	}
}
