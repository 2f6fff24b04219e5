package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rbhz/jp-vocabulary/app/db"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

const maxSearchResults = 5

// SearchHandler looks up text messages in dictionary
type SearchHandler struct {
	neverPassthorugh
}

// Match returns true if message is a text
func (h SearchHandler) Match(u tgbotapi.Update) bool {
	return u.Message != nil && u.Message.Text != "" && !u.Message.IsCommand()
}

// Handle sends found entries with save buttons
func (h SearchHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	keyword := strings.TrimSpace(u.Message.Text)
	words, err := b.Searcher().Search(ctx, keyword)
	if err != nil {
		log.Error().Err(err).Str("keyword", keyword).Msg("failed to search")
		_, _ = b.Send(tgbotapi.NewMessage(u.Message.From.ID, "Sorry, dictionary is unavailable, try again later"))
		return
	}
	if len(words) == 0 {
		_, _ = b.Send(tgbotapi.NewMessage(u.Message.From.ID, "Sorry, nothing found"))
		return
	}
	if len(words) > maxSearchResults {
		words = words[:maxSearchResults]
	}
	for _, entry := range db.NewDictionaryEntries(words) {
		text, err := GetEntryMessageText(entry)
		if err != nil {
			log.Error().Err(err).Str("slug", entry.Slug).Msg("failed to get text for message")
			continue
		}
		key := b.Entries().Put(entry)
		msg := tgbotapi.NewMessage(u.Message.From.ID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Save", callbackData(callbackIDPick, key)),
			),
		)
		if _, err := b.Send(msg); err != nil {
			return
		}
	}
}

// PickCollectionHandler sends collections to save searched entry to
type PickCollectionHandler struct {
	neverPassthorugh
}

// Match returns true if update is save button callback
func (h PickCollectionHandler) Match(u tgbotapi.Update) bool {
	return matchCallback(u, callbackIDPick)
}

// Handle sends collections keyboard, collections having the word are marked
func (h PickCollectionHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	args, err := callbackArgs(u, 1)
	if err != nil {
		log.Error().Err(err).Msg("invalid pick callback")
		return
	}
	entry, ok := b.Entries().Get(args[0])
	if !ok {
		answer(b, u, "Search result expired, search again")
		return
	}
	collections, err := b.Store().All()
	if err != nil && !errors.Is(err, db.ErrCorruptState) {
		log.Error().Err(err).Msg("failed to list collections")
		answer(b, u, "Failed to load collections")
		return
	}
	if len(collections) == 0 {
		answer(b, u, "Create a collection first: /new <title>")
		return
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(collections))
	for _, c := range collections {
		title := c.Title
		if c.Contains(entry.Slug) {
			title = "✅ " + title
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(title, callbackData(callbackIDSave, args[0], c.ID)),
		))
	}
	msg := tgbotapi.NewMessage(u.CallbackQuery.From.ID, fmt.Sprintf("Save %s to:", entry.Headword()))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, _ = b.Send(msg)
	answer(b, u, "")
}

// SaveWordHandler saves searched entry to picked collection
type SaveWordHandler struct {
	neverPassthorugh
}

// Match returns true if update is collection pick callback
func (h SaveWordHandler) Match(u tgbotapi.Update) bool {
	return matchCallback(u, callbackIDSave)
}

// Handle adds entry to collection
func (h SaveWordHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	args, err := callbackArgs(u, 2)
	if err != nil {
		log.Error().Err(err).Msg("invalid save callback")
		return
	}
	key, collectionID := args[0], args[1]
	entry, ok := b.Entries().Get(key)
	if !ok {
		answer(b, u, "Search result expired, search again")
		return
	}
	outcome, err := b.Store().AddWord(entry, collectionID)
	if err != nil {
		log.Error().Err(err).Str("slug", entry.Slug).Str("collection", collectionID).Msg("failed to save word")
		answer(b, u, "Failed to save word")
		return
	}
	switch outcome {
	case db.CollectionNotFound:
		answer(b, u, "Collection not found")
	case db.Unchanged:
		answer(b, u, "Word is already in collection")
	default:
		title := ""
		if c, err := b.Store().Get(collectionID); err == nil {
			title = c.Title
		}
		answer(b, u, fmt.Sprintf("Word saved to %q", title))
	}
}
