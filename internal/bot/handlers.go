package bot

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/calvinwijaya/twentyone/internal/game"
	"github.com/calvinwijaya/twentyone/internal/store"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the part of *tgbotapi.BotAPI the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler struct {
	bot     sender
	rounds  store.Store
	journal store.Journal
	policy  game.DealerPolicy

	// roundOptions are appended to every new round; tests use them to stack decks
	roundOptions []game.RoundOption

	mu    sync.Mutex
	chats map[int64]string // chat ID -> current round ID
}

func NewHandler(bot sender, rounds store.Store, journal store.Journal, policy game.DealerPolicy, opts ...game.RoundOption) *Handler {
	return &Handler{
		bot:          bot,
		rounds:       rounds,
		journal:      journal,
		policy:       policy,
		roundOptions: opts,
		chats:        make(map[int64]string),
	}
}

// ============== HELPERS ==============

func (h *Handler) send(chatID int64, text string) {
	if _, err := h.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handler) sendWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		log.Printf("Failed to answer callback: %v", err)
	}
}

func (h *Handler) record(ev game.Event) {
	if h.journal == nil {
		return
	}
	if err := h.journal.Record(ev); err != nil {
		log.Printf("Failed to journal event %s/%d: %v", ev.RoundID, ev.Seq, err)
	}
}

func (h *Handler) currentRound(chatID int64) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id, ok := h.chats[chatID]
	return id, ok
}

func (h *Handler) setRound(chatID int64, roundID string) (previous string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	previous = h.chats[chatID]
	h.chats[chatID] = roundID
	return previous
}

func (h *Handler) dropRound(chatID int64) {
	h.mu.Lock()
	id, ok := h.chats[chatID]
	delete(h.chats, chatID)
	h.mu.Unlock()

	if ok {
		if err := h.rounds.DeleteRound(id); err != nil && !errors.Is(err, store.ErrRoundNotFound) {
			log.Printf("Failed to delete round %s: %v", id, err)
		}
	}
}

// ============== FORMATTING ==============

func formatCards(cards []game.Card) string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}

func formatRoundStatus(v game.View) string {
	dealerDisplay := fmt.Sprintf("[%s, ?]", formatCards(v.Dealer.Cards))
	if !v.Dealer.HoleCardHidden && v.Dealer.Total != nil {
		dealerDisplay = fmt.Sprintf("[%s] (%d)", formatCards(v.Dealer.Cards), *v.Dealer.Total)
	}

	return fmt.Sprintf("🎴 You: [%s] (%d)\n🃏 Dealer: %s",
		formatCards(v.Player.Cards), v.Player.Total, dealerDisplay)
}

func formatRoundEnd(v game.View) string {
	r := v.Result
	msg := fmt.Sprintf("🎴 You: [%s] (%d)\n🃏 Dealer: [%s] (%d)\n\n",
		formatCards(v.Player.Cards), r.PlayerTotal, formatCards(v.Dealer.Cards), r.DealerTotal)

	switch {
	case r.Outcome.PlayerWon():
		msg += "🎉 "
	case r.Outcome == game.OutcomeDraw:
		msg += "🤝 "
	default:
		msg += "😔 "
	}
	msg += r.Outcome.Message() + "!"

	if v.Player.Doubled {
		msg = "💰 Doubled down\n\n" + msg
	}
	return msg
}

// ============== COMMAND HANDLERS ==============

func (h *Handler) HandleStart(chatID int64) {
	h.send(chatID,
		"🎰 Welcome to 21 Black Jack!\n\n"+
			"/play — deal a new round\n"+
			"/quit — leave the current round\n"+
			"/help — rules")
}

func (h *Handler) HandleHelp(chatID int64) {
	h.send(chatID, fmt.Sprintf(
		"📖 Rules:\n\n"+
			"🎯 Get closer to 21 than the dealer without going over\n\n"+
			"📊 Points:\n"+
			"• 2-10 — face value\n"+
			"• J, Q, K — 10\n"+
			"• A — 11, or 1 if you would bust\n\n"+
			"🎮 Actions:\n"+
			"• Hit — take a card\n"+
			"• Stand — end your turn\n"+
			"• Double — one last card (first move only)\n"+
			"• Surrender — give up half the bet\n\n"+
			"🃏 Dealer policy: %s", h.policy))
}

func (h *Handler) HandlePlay(chatID int64, playerName string) {
	opts := []game.RoundOption{
		game.WithPolicy(h.policy),
		game.WithPlayerName(playerName),
		game.WithObserver(h.record),
	}
	round, err := game.NewRound(append(opts, h.roundOptions...)...)
	if err != nil {
		log.Printf("Failed to deal round for chat %d: %v", chatID, err)
		h.send(chatID, "❌ Could not deal a round. Try again later.")
		return
	}

	if err := h.rounds.SaveRound(round); err != nil {
		log.Printf("Failed to save round: %v", err)
		h.send(chatID, "❌ Could not deal a round. Try again later.")
		return
	}
	if previous := h.setRound(chatID, round.ID); previous != "" {
		if err := h.rounds.DeleteRound(previous); err != nil && !errors.Is(err, store.ErrRoundNotFound) {
			log.Printf("Failed to delete round %s: %v", previous, err)
		}
	}

	view := round.View()
	if view.Result != nil {
		h.sendWithKeyboard(chatID, "🎰 BLACKJACK! 🎰\n\n"+formatRoundEnd(view), EndGameKeyboard())
		return
	}

	h.sendWithKeyboard(chatID, formatRoundStatus(view),
		GameKeyboard(GameKeyboardOptions{CanDouble: view.Player.CanDoubleDown}))
}

func (h *Handler) HandleQuit(chatID int64) {
	if _, ok := h.currentRound(chatID); !ok {
		h.send(chatID, "No round in progress. /play to deal one.")
		return
	}
	h.dropRound(chatID)
	h.send(chatID, "👋 Have a nice Day!!!")
}

// ============== CALLBACK HANDLERS ==============

func (h *Handler) HandleCallback(callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil || callback.Message.Chat == nil {
		h.answerCallback(callback.ID, "")
		return
	}
	chatID := callback.Message.Chat.ID

	if callback.Data == CallbackPlayAgain {
		h.answerCallback(callback.ID, "")
		h.HandlePlay(chatID, playerName(callback.From))
		return
	}

	action, ok := callbackAction(callback.Data)
	if !ok {
		h.answerCallback(callback.ID, "Unknown action")
		return
	}

	roundID, ok := h.currentRound(chatID)
	if !ok {
		h.answerCallback(callback.ID, "No round in progress")
		return
	}

	h.answerCallback(callback.ID, h.play(chatID, roundID, action))
}

// play applies one action and reports the new state to the chat. The
// returned text is shown as the callback answer.
func (h *Handler) play(chatID int64, roundID string, action game.Action) string {
	var view game.View
	err := h.rounds.WithRound(roundID, func(round *game.Round) error {
		_, err := round.Apply(action)
		view = round.View()
		return err
	})

	switch {
	case errors.Is(err, store.ErrRoundNotFound):
		h.dropRound(chatID)
		return "No round in progress"
	case errors.Is(err, game.ErrDoubleDownIneligible):
		return "Double down is only allowed on your first move"
	case errors.Is(err, game.ErrRoundResolved):
		return "This round is over"
	case game.IsFatal(err):
		log.Printf("Round %s aborted: %v", roundID, err)
		h.dropRound(chatID)
		h.sendWithKeyboard(chatID, "❌ The round was aborted: "+view.Error, EndGameKeyboard())
		return ""
	case err != nil:
		log.Printf("Round %s: %v", roundID, err)
		return "Action rejected"
	}

	if view.Result != nil {
		h.sendWithKeyboard(chatID, formatRoundEnd(view), EndGameKeyboard())
		return ""
	}

	h.sendWithKeyboard(chatID, formatRoundStatus(view),
		GameKeyboard(GameKeyboardOptions{CanDouble: view.Player.CanDoubleDown}))
	return ""
}

// ============== MESSAGE HANDLER ==============

func (h *Handler) HandleMessage(msg *tgbotapi.Message) {
	if msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID
	parts := strings.Fields(msg.Text)

	if len(parts) == 0 {
		return
	}

	switch strings.ToLower(parts[0]) {
	case "/start":
		h.HandleStart(chatID)
	case "/help":
		h.HandleHelp(chatID)
	case "/play":
		h.HandlePlay(chatID, playerName(msg.From))
	case "/quit":
		h.HandleQuit(chatID)
	}
}

func playerName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	return u.FirstName
}
