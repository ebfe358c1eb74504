package bot

import (
	"log"

	"github.com/calvinwijaya/twentyone/internal/config"
	"github.com/calvinwijaya/twentyone/internal/store"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	api     *tgbotapi.BotAPI
	handler *Handler
}

func New(cfg *config.Config, rounds store.Store, journal store.Journal) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:     api,
		handler: NewHandler(api, rounds, journal, cfg.DealerPolicy),
	}, nil
}

func (b *Bot) Run() error {
	log.Printf("Bot started: @%s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.CallbackQuery != nil {
			go b.handler.HandleCallback(update.CallbackQuery)
			continue
		}

		if update.Message != nil {
			go b.handler.HandleMessage(update.Message)
		}
	}

	return nil
}

// Stop ends the update loop started by Run.
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}
