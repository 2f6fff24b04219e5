package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rbhz/jp-vocabulary/app/db"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// NewCollectionHandler handles /new command
type NewCollectionHandler struct {
	neverPassthorugh
}

// Match returns true if update is /new command
func (h NewCollectionHandler) Match(u tgbotapi.Update) bool {
	return u.Message != nil && u.Message.Command() == "new"
}

// Handle creates collection with title from command arguments
func (h NewCollectionHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	title := strings.TrimSpace(u.Message.CommandArguments())
	if title == "" {
		_, _ = b.Send(tgbotapi.NewMessage(u.Message.From.ID, "Usage: /new <title>"))
		return
	}
	collection, err := b.Store().Create(title)
	if err != nil {
		log.Error().Err(err).Str("title", title).Msg("failed to create collection")
		_, _ = b.Send(tgbotapi.NewMessage(u.Message.From.ID, "Failed to create collection"))
		return
	}
	_, _ = b.Send(tgbotapi.NewMessage(u.Message.From.ID, fmt.Sprintf("Collection %q created", collection.Title)))
}

// ListCollectionsHandler handles /collections command
type ListCollectionsHandler struct {
	neverPassthorugh
}

// Match returns true if update is /collections command
func (h ListCollectionsHandler) Match(u tgbotapi.Update) bool {
	return u.Message != nil && u.Message.Command() == "collections"
}

// Handle sends collections keyboard
func (h ListCollectionsHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	collections, err := b.Store().All()
	if err != nil && !errors.Is(err, db.ErrCorruptState) {
		log.Error().Err(err).Msg("failed to list collections")
		_, _ = b.Send(tgbotapi.NewMessage(u.Message.From.ID, "Failed to load collections"))
		return
	}
	if len(collections) == 0 {
		_, _ = b.Send(tgbotapi.NewMessage(u.Message.From.ID, "You don't have any collections yet, create one with /new <title>"))
		return
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(collections))
	for _, c := range collections {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s (%d)", c.Title, len(c.Words)), callbackData(callbackIDShowCollection, c.ID, "0"),
			),
		))
	}
	msg := tgbotapi.NewMessage(u.Message.From.ID, "Your collections:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, _ = b.Send(msg)
}

// ShowCollectionHandler sends collection words
type ShowCollectionHandler struct {
	neverPassthorugh
}

// Match returns true if update is collection callback
func (h ShowCollectionHandler) Match(u tgbotapi.Update) bool {
	return matchCallback(u, callbackIDShowCollection)
}

// Handle sends a page of collection words with remove buttons
func (h ShowCollectionHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	args, err := callbackArgs(u, 2)
	if err != nil {
		log.Error().Err(err).Msg("invalid collection callback")
		return
	}
	page, err := strconv.Atoi(args[1])
	if err != nil {
		log.Error().Err(err).Str("page", args[1]).Msg("invalid collection page")
		return
	}
	collection, ok := getCollection(b, u, args[0])
	if !ok {
		return
	}
	text, err := GetCollectionMessageText(collection, page)
	if err != nil {
		log.Error().Err(err).Str("collection", collection.ID).Msg("failed to get text for message")
		return
	}
	start, end, pages, current := collectionPage(collection, page)
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, end-start+2)
	for _, w := range collection.Words[start:end] {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				"✖ "+w.Headword(), callbackData(callbackIDRemoveWord, collection.ID, db.SlugKey(w.Slug)),
			),
		))
	}
	if pages > 1 {
		nav := make([]tgbotapi.InlineKeyboardButton, 0, 2)
		if current > 0 {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
				"« Prev", callbackData(callbackIDShowCollection, collection.ID, strconv.Itoa(current-1)),
			))
		}
		if current < pages-1 {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
				"Next »", callbackData(callbackIDShowCollection, collection.ID, strconv.Itoa(current+1)),
			))
		}
		rows = append(rows, nav)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Delete collection", callbackData(callbackIDDeleteCollection, collection.ID)),
	))
	msg := tgbotapi.NewMessage(u.CallbackQuery.From.ID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.Send(msg); err != nil {
		answer(b, u, "Failed to show collection")
		return
	}
	answer(b, u, "")
}

// getCollection loads collection answering callback when it can't be shown.
// Unreadable state has no collections, so it is reported as not found.
func getCollection(b Bot, u tgbotapi.Update, id string) (db.Collection, bool) {
	collection, err := b.Store().Get(id)
	if err == nil {
		return collection, true
	}
	if errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrCorruptState) {
		answer(b, u, "Collection not found")
		return db.Collection{}, false
	}
	log.Error().Err(err).Str("collection", id).Msg("failed to get collection")
	answer(b, u, "Failed to load collection")
	return db.Collection{}, false
}

// RemoveWordHandler removes word from collection
type RemoveWordHandler struct {
	neverPassthorugh
}

// Match returns true if update is remove word callback
func (h RemoveWordHandler) Match(u tgbotapi.Update) bool {
	return matchCallback(u, callbackIDRemoveWord)
}

// Handle removes word identified by slug key
func (h RemoveWordHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	args, err := callbackArgs(u, 2)
	if err != nil {
		log.Error().Err(err).Msg("invalid remove callback")
		return
	}
	collectionID, key := args[0], args[1]
	collection, ok := getCollection(b, u, collectionID)
	if !ok {
		return
	}
	var word *db.DictionaryEntry
	for idx := range collection.Words {
		if db.SlugKey(collection.Words[idx].Slug) == key {
			word = &collection.Words[idx]
			break
		}
	}
	if word == nil {
		answer(b, u, "Word is not in collection")
		return
	}
	outcome, err := b.Store().RemoveWord(*word, collectionID)
	if err != nil {
		log.Error().Err(err).Str("slug", word.Slug).Str("collection", collectionID).Msg("failed to remove word")
		answer(b, u, "Failed to remove word")
		return
	}
	if outcome == db.CollectionNotFound {
		answer(b, u, "Collection not found")
		return
	}
	answer(b, u, fmt.Sprintf("%s removed from %q", word.Headword(), collection.Title))
}

// DeleteCollectionHandler deletes collection
type DeleteCollectionHandler struct {
	neverPassthorugh
}

// Match returns true if update is delete collection callback
func (h DeleteCollectionHandler) Match(u tgbotapi.Update) bool {
	return matchCallback(u, callbackIDDeleteCollection)
}

// Handle deletes collection
func (h DeleteCollectionHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	args, err := callbackArgs(u, 1)
	if err != nil {
		log.Error().Err(err).Msg("invalid delete callback")
		return
	}
	outcome, err := b.Store().Delete(args[0])
	if err != nil {
		log.Error().Err(err).Str("collection", args[0]).Msg("failed to delete collection")
		answer(b, u, "Failed to delete collection")
		return
	}
	if outcome == db.CollectionNotFound {
		answer(b, u, "Collection not found")
		return
	}
	answer(b, u, "Collection deleted")
}
