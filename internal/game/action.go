package game

import (
	"fmt"
	"strings"
)

// Action is a move the player can submit during their turn.
type Action string

const (
	Hit        Action = "hit"
	DoubleDown Action = "double_down"
	Stand      Action = "stand"
	Surrender  Action = "surrender"
)

// Actions lists the player actions in menu order.
var Actions = []Action{Hit, DoubleDown, Stand, Surrender}

var actionAliases = map[string]Action{
	"hit":         Hit,
	"double":      DoubleDown,
	"double down": DoubleDown,
	"doubledown":  DoubleDown,
	"double-down": DoubleDown,
	"double_down": DoubleDown,
	"stand":       Stand,
	"surrender":   Surrender,
}

// ParseAction turns user text into an Action. Matching ignores case and
// surrounding space.
func ParseAction(s string) (Action, error) {
	key := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	if a, ok := actionAliases[key]; ok {
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

func (a Action) Valid() bool {
	switch a {
	case Hit, DoubleDown, Stand, Surrender:
		return true
	}
	return false
}

// Label is the name shown to players.
func (a Action) Label() string {
	switch a {
	case Hit:
		return "Hit"
	case DoubleDown:
		return "Double down"
	case Stand:
		return "Stand"
	case Surrender:
		return "Surrender"
	}
	return string(a)
}
