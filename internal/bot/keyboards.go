package bot

import (
	"github.com/calvinwijaya/twentyone/internal/game"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	CallbackHit       = "hit"
	CallbackStand     = "stand"
	CallbackDouble    = "double"
	CallbackSurrender = "surrender"
	CallbackPlayAgain = "play_again"
)

type actionButton struct {
	icon string
	data string
}

var actionButtons = map[game.Action]actionButton{
	game.Hit:        {"👊", CallbackHit},
	game.DoubleDown: {"💰", CallbackDouble},
	game.Stand:      {"✋", CallbackStand},
	game.Surrender:  {"🏳", CallbackSurrender},
}

// callbackAction maps a button's callback data back to its action.
func callbackAction(data string) (game.Action, bool) {
	for _, a := range game.Actions {
		if actionButtons[a].data == data {
			return a, true
		}
	}
	return "", false
}

type GameKeyboardOptions struct {
	CanDouble bool
}

// GameKeyboard shows one button per player action in menu order. Double
// down is left out once the player can no longer take it.
func GameKeyboard(opts GameKeyboardOptions) tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(game.Actions))
	for _, a := range game.Actions {
		if a == game.DoubleDown && !opts.CanDouble {
			continue
		}
		b := actionButtons[a]
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.icon+" "+a.Label(), b.data))
	}

	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func EndGameKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Play again", CallbackPlayAgain),
		),
	)
}
