package console

import (
	"fmt"
	"log"
	"strings"

	"github.com/calvinwijaya/twentyone/internal/game"
)

// LogObserver writes every round event to l, one line per event.
func LogObserver(l *log.Logger) game.Observer {
	return func(ev game.Event) {
		l.Print(formatEvent(ev))
	}
}

func formatEvent(ev game.Event) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s #%d | %s | %s", shortID(ev.RoundID), ev.Seq, ev.Phase, ev.Kind)
	if ev.Actor != "" {
		fmt.Fprintf(&sb, " | %s", ev.Actor)
	}
	if ev.Action != "" {
		fmt.Fprintf(&sb, " %s", ev.Action)
	}
	if ev.Card != nil {
		fmt.Fprintf(&sb, " | %s", ev.Card)
	}
	if ev.Detail != "" {
		fmt.Fprintf(&sb, " | %s", ev.Detail)
	}
	return sb.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
