package game

import "errors"

// User input and illegal-action errors. The round is left untouched when
// one of these is returned.
var (
	ErrInvalidAction        = errors.New("invalid action")
	ErrDoubleDownIneligible = errors.New("double down no longer allowed")
	ErrNotPlayerTurn        = errors.New("not the player's turn")
	ErrRoundResolved        = errors.New("round already resolved")
	ErrRoundAborted         = errors.New("round aborted")
	ErrNotResolved          = errors.New("round not resolved yet")
	ErrUnknownPolicy        = errors.New("unknown dealer policy")
)

// Fatal errors. A round that hits one of these is aborted and cannot be
// resumed.
var (
	ErrDeckExhausted = errors.New("deck exhausted")
	ErrDuplicateCard = errors.New("card already dealt")
	ErrEmptyHand     = errors.New("hand has no cards")
	ErrInvalidCard   = errors.New("card is not in the catalog")
)

// IsFatal reports whether err ends the round it came from.
func IsFatal(err error) bool {
	return errors.Is(err, ErrDeckExhausted) ||
		errors.Is(err, ErrDuplicateCard) ||
		errors.Is(err, ErrEmptyHand) ||
		errors.Is(err, ErrInvalidCard) ||
		errors.Is(err, ErrRoundAborted)
}
