package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/rbhz/jp-vocabulary/app/clients/jisho"
	"github.com/rbhz/jp-vocabulary/app/db"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	callbackIDPick             = "pk"
	callbackIDSave             = "sv"
	callbackIDShowCollection   = "cl"
	callbackIDRemoveWord       = "rm"
	callbackIDDeleteCollection = "dc"
)

// Searcher looks up dictionary words
type Searcher interface {
	Search(ctx context.Context, keyword string) ([]jisho.Word, error)
}

// Bot describes bot for handlers
type Bot interface {
	Send(tgbotapi.Chattable) (tgbotapi.Message, error)
	SendCallback(tgbotapi.CallbackConfig) (*tgbotapi.APIResponse, error)
	Store() *db.CollectionStore
	Searcher() Searcher
	Entries() *EntryCache
}

// DefaultHandlers returns handlers chain in matching order
func DefaultHandlers() []Handler {
	return []Handler{
		StartHandler{},
		// Collections
		NewCollectionHandler{},
		ListCollectionsHandler{},
		ShowCollectionHandler{},
		DeleteCollectionHandler{},
		RemoveWordHandler{},
		// Dictionary
		PickCollectionHandler{},
		SaveWordHandler{},
		SearchHandler{},
	}
}

// neverPassthorugh implements Passthrough with always false
type neverPassthorugh struct{}

// Passthrough always returns false
func (h neverPassthorugh) Passthrough(u tgbotapi.Update) bool {
	return false
}

// callbackData builds callback data from id and arguments
func callbackData(id string, args ...string) string {
	return strings.Join(append([]string{id}, args...), "|")
}

// matchCallback returns true if update is a callback with given id
func matchCallback(u tgbotapi.Update, id string) bool {
	return u.CallbackQuery != nil && strings.HasPrefix(u.CallbackQuery.Data, id+"|")
}

// callbackArgs returns exactly n callback arguments
func callbackArgs(u tgbotapi.Update, n int) ([]string, error) {
	parts := strings.Split(u.CallbackQuery.Data, "|")
	if len(parts) != n+1 {
		return nil, fmt.Errorf("invalid callback data %q", u.CallbackQuery.Data)
	}
	return parts[1:], nil
}

// answer replies to callback query with a short notification
func answer(b Bot, u tgbotapi.Update, text string) {
	_, _ = b.SendCallback(tgbotapi.NewCallback(u.CallbackQuery.ID, text))
}
