package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/calvinwijaya/twentyone/internal/game"
)

// RoundFactory deals a fresh round for every "Start".
type RoundFactory func() (*game.Round, error)

// Session is the interactive Start/Quit loop around the round engine.
type Session struct {
	in       *bufio.Scanner
	out      io.Writer
	newRound RoundFactory
}

func NewSession(in io.Reader, out io.Writer, newRound RoundFactory) *Session {
	return &Session{
		in:       bufio.NewScanner(in),
		out:      out,
		newRound: newRound,
	}
}

// errInputClosed ends the session when the input runs dry mid-round.
var errInputClosed = errors.New("input closed")

// Run plays rounds until the user quits or the input ends.
func (s *Session) Run() error {
	s.println("********************************")
	s.println("Welcome to 21 Black Jack")
	s.println("********************************")
	s.println("")

	for {
		s.println("Enter 'Start' to start a new game")
		s.println("Enter 'Quit' to quit")
		line, err := s.prompt("Entered option (Start or Quit): ")
		if err != nil {
			return ignoreClosed(err)
		}
		s.println("")

		switch strings.ToLower(line) {
		case "start":
			if err := s.playRound(); err != nil {
				return ignoreClosed(err)
			}
		case "quit":
			s.println("Have a nice Day!!!")
			return nil
		default:
			s.println("Invalid option, please try again")
		}
	}
}

func (s *Session) playRound() error {
	round, err := s.newRound()
	if err != nil {
		s.printf("Round aborted: %v\n\n", err)
		return nil
	}

	s.println("Shuffling the deck...")
	s.println("Handing cards...")
	s.println("")
	s.printOpening(round.View())

	if round.Phase() == game.PhaseResolved {
		s.println("21 Black Jack!!!")
		s.printResult(round)
		return nil
	}

	s.println(actionMenu())
	for !round.Phase().Terminal() {
		line, err := s.prompt("Entered option (Player action): ")
		if err != nil {
			return err
		}

		action, err := game.ParseAction(line)
		if err != nil {
			s.println("Invalid option, please try again")
			continue
		}

		res, err := round.Apply(action)
		switch {
		case errors.Is(err, game.ErrDoubleDownIneligible):
			s.println("Player has already hit once, impossible to double down")
			s.println("")
			continue
		case err != nil:
			s.printf("Round aborted: %v\n\n", err)
			return nil
		}

		s.printAction(round, res)
	}

	s.printResult(round)
	return nil
}

// actionMenu lists the player actions in menu order.
func actionMenu() string {
	labels := make([]string, len(game.Actions))
	for i, a := range game.Actions {
		labels[i] = a.Label()
	}
	last := len(labels) - 1
	return fmt.Sprintf("Do you want to: %s or %s?", strings.Join(labels[:last], ", "), labels[last])
}

func (s *Session) printOpening(v game.View) {
	s.println("Your cards are: ")
	for _, c := range v.Player.Cards {
		s.printf("-%s\n", c)
	}
	s.printf("-Total of: %d\n\n", v.Player.Total)

	s.println("Dealer's cards are: ")
	if len(v.Dealer.Cards) > 0 {
		s.printf("-%s\n", v.Dealer.Cards[0])
	}
	s.println("-Secret card")
	s.println("-Total of: ???")
	s.println("")
}

func (s *Session) printAction(round *game.Round, res game.PhaseResult) {
	player := round.Player()
	switch res.Action {
	case game.Hit:
		s.printf("-Player New card: %s\n", res.Card)
		s.printf("Total of: %d\n\n", res.PlayerTotal)
	case game.DoubleDown:
		s.printf("-New card: %s, Be careful!\n", res.Card)
		s.printf("Total of: %d\n\n", res.PlayerTotal)
	case game.Stand:
		s.printf("%s stands with:\n", player.Name)
		for _, c := range player.Cards() {
			s.printf("-%s\n", c)
		}
		s.printf("Total of: %d\n\n", res.PlayerTotal)
	case game.Surrender:
		s.printf("%s surrenders. Half of the bet is lost.\n\n", player.Name)
	}
}

func (s *Session) printResult(round *game.Round) {
	v := round.View()
	if v.Result == nil {
		return
	}
	r := v.Result

	if r.Outcome != game.OutcomePlayerBust && r.Outcome != game.OutcomePlayerSurrendered {
		s.println("Dealer's cards are: ")
		for i, c := range v.Dealer.Cards {
			if i < 2 {
				s.printf("-%s\n", c)
			} else {
				s.printf("-Dealer New card: %s\n", c)
			}
		}
		s.printf("Total of: %d\n\n", r.DealerTotal)
	}

	s.println(r.Outcome.Message())
	dealerNote, playerNote := "", ""
	switch r.Outcome {
	case game.OutcomeDealerBust:
		dealerNote = " (bust)"
	case game.OutcomePlayerBust:
		playerNote = " (bust)"
	}
	s.printf("-Dealer score: %d%s\n", r.DealerTotal, dealerNote)
	s.printf("-Player score: %d%s\n\n", r.PlayerTotal, playerNote)
	s.printDealt(round.DealtCards())
}

func (s *Session) printDealt(cards []game.Card) {
	s.println("Dealt cards so far are: ")
	if len(cards) == 0 {
		s.println("No cards dealt so far")
		return
	}
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.String()
	}
	s.printf("%s.\n\n", strings.Join(names, ", "))
}

func (s *Session) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Session) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

func ignoreClosed(err error) error {
	if errors.Is(err, errInputClosed) {
		return nil
	}
	return err
}
