package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const startText = `Hi! Send me a Japanese or English word to look it up.
/new <title> - create collection
/collections - show your collections`

type StartHandler struct {
	neverPassthorugh
}

func (h StartHandler) Match(u tgbotapi.Update) bool {
	return u.Message != nil && (u.Message.Command() == "start" || u.Message.Command() == "help")
}

func (h StartHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	_, _ = b.Send(tgbotapi.NewMessage(u.Message.From.ID, startText))
}
