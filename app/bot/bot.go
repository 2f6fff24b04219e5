package bot

import (
	"context"
	"time"

	"github.com/rbhz/jp-vocabulary/app/db"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const updateTimeout = 10 * time.Second

type Handler interface {
	Handle(ctx context.Context, b Bot, u tgbotapi.Update)
	Passthrough(tgbotapi.Update) bool
	Match(u tgbotapi.Update) bool
}

// TelegramBot handles Telegram API intragration and updates handling
type TelegramBot struct {
	UserName string
	api      *tgbotapi.BotAPI
	store    *db.CollectionStore
	searcher Searcher
	entries  *EntryCache
	owner    int64
	handlers []Handler
}

// senderID returns id of user who sent update, 0 if unknown
func senderID(u tgbotapi.Update) int64 {
	switch {
	case u.Message != nil && u.Message.From != nil:
		return u.Message.From.ID
	case u.CallbackQuery != nil && u.CallbackQuery.From != nil:
		return u.CallbackQuery.From.ID
	}
	return 0
}

func (b *TelegramBot) processUpdate(ctx context.Context, u tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()

	if b.owner != 0 && senderID(u) != b.owner {
		log.Warn().Int64("user", senderID(u)).Msg("update from foreign user ignored")
		return
	}
	for _, handler := range b.handlers {
		if handler.Match(u) {
			handler.Handle(ctx, b, u)
			if !handler.Passthrough(u) {
				break
			}
		}
	}
}

// Start processes updates until ctx is done
func (b *TelegramBot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			log.Info().Msg("telegram bot stopped")
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			b.processUpdate(ctx, u)
		}
	}
}

func (b *TelegramBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	message, err := b.api.Send(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to send")
	}
	return message, err
}

func (b *TelegramBot) SendCallback(c tgbotapi.CallbackConfig) (*tgbotapi.APIResponse, error) {
	resp, err := b.api.Request(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to answer callback")
	}
	return resp, err
}

func (b *TelegramBot) Store() *db.CollectionStore {
	return b.store
}

func (b *TelegramBot) Searcher() Searcher {
	return b.searcher
}

func (b *TelegramBot) Entries() *EntryCache {
	return b.entries
}

// NewTelegramBot creates bot with default handlers. Non zero owner restricts bot to one user.
func NewTelegramBot(token string, store *db.CollectionStore, searcher Searcher, owner int64) (*TelegramBot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize bot")
	}
	log.Info().Str("username", botAPI.Self.UserName).Msg("telegram bot initialized")
	return &TelegramBot{
		UserName: botAPI.Self.UserName,
		api:      botAPI,
		store:    store,
		searcher: searcher,
		entries:  NewEntryCache(entryCacheSize),
		owner:    owner,
		handlers: DefaultHandlers(),
	}, nil
}
