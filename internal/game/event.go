package game

import "time"

type EventKind string

const (
	EventDeal       EventKind = "deal"
	EventAction     EventKind = "action"
	EventRejected   EventKind = "rejected"
	EventDealerDraw EventKind = "dealerDraw"
	EventTransition EventKind = "transition"
	EventResolved   EventKind = "resolved"
	EventAbort      EventKind = "abort"
)

// Event records one step of a round. Seq starts at 1 and has no gaps within
// a round.
type Event struct {
	RoundID string    `json:"roundId"`
	Seq     int       `json:"seq"`
	Kind    EventKind `json:"kind"`
	Phase   Phase     `json:"phase"`
	Actor   Role      `json:"actor,omitempty"`
	Action  Action    `json:"action,omitempty"`
	Card    *Card     `json:"card,omitempty"`
	Detail  string    `json:"detail,omitempty"`
	At      time.Time `json:"at"`
}

// Observer receives every event of a round as it happens. It must not call
// back into the round.
type Observer func(Event)
