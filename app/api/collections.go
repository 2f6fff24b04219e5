package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rbhz/jp-vocabulary/app/db"
	"github.com/rs/zerolog/log"
)

const maxTitleLength = 100

// degradedHeader marks responses built from unreadable stored state
const degradedHeader = "X-Degraded"

// TitleRequest is the request body for creating or renaming a collection
type TitleRequest struct {
	Title string `json:"title"`
}

// Validate checks title
func (r TitleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.RuneLength(1, maxTitleLength)),
	)
}

// collectionService implements methods for collections API
type collectionService struct {
	store *db.CollectionStore
}

func decodeTitle(r *http.Request) (string, error) {
	var req TitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", errors.New("invalid JSON")
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := req.Validate(); err != nil {
		return "", err
	}
	return req.Title, nil
}

// List returns all collections
func (c collectionService) List(w http.ResponseWriter, r *http.Request) {
	collections, err := c.store.All()
	if err != nil {
		if !errors.Is(err, db.ErrCorruptState) {
			log.Error().Err(err).Msg("failed to list collections")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set(degradedHeader, "corrupt-state")
	}
	writeJSON(w, http.StatusOK, collections)
}

// Create creates new empty collection
func (c collectionService) Create(w http.ResponseWriter, r *http.Request) {
	title, err := decodeTitle(r)
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	collection, err := c.store.Create(title)
	if err != nil {
		log.Error().Err(err).Int64("user", requestUser(r)).Str("title", title).Msg("failed to create collection")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, collection)
}

// Get returns single collection
func (c collectionService) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	collection, err := c.store.Get(id)
	if err != nil {
		if errors.Is(err, db.ErrCorruptState) {
			w.Header().Set(degradedHeader, "corrupt-state")
		}
		if errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrCorruptState) {
			writeText(w, http.StatusNotFound, "collection not found")
			return
		}
		log.Error().Err(err).Str("collection", id).Msg("failed to get collection")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, collection)
}

// Rename changes collection title
func (c collectionService) Rename(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	title, err := decodeTitle(r)
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	outcome, err := c.store.Rename(id, title)
	c.writeOutcome(w, r, id, outcome, err, http.StatusOK)
}

// Delete removes collection
func (c collectionService) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	outcome, err := c.store.Delete(id)
	c.writeOutcome(w, r, id, outcome, err, http.StatusNoContent)
}

// AddWord saves dictionary entry to collection
func (c collectionService) AddWord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var entry db.DictionaryEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeText(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(entry.Slug) == "" {
		writeText(w, http.StatusBadRequest, "slug is required")
		return
	}
	outcome, err := c.store.AddWord(entry, id)
	status := http.StatusCreated
	if outcome == db.Unchanged {
		status = http.StatusOK
	}
	c.writeOutcome(w, r, id, outcome, err, status)
}

// slugParam returns decoded slug URL parameter.
// chi routes on RawPath when the client escaping is kept, params are escaped then.
func slugParam(r *http.Request) (string, error) {
	slug := chi.URLParam(r, "slug")
	if r.URL.RawPath == "" {
		return slug, nil
	}
	return url.PathUnescape(slug)
}

// RemoveWord removes word from collection by slug
func (c collectionService) RemoveWord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	slug, err := slugParam(r)
	if err != nil {
		writeText(w, http.StatusBadRequest, "invalid slug")
		return
	}
	outcome, err := c.store.RemoveWord(db.DictionaryEntry{Slug: slug}, id)
	c.writeOutcome(w, r, id, outcome, err, http.StatusNoContent)
}

// writeOutcome responds with updated collection or an error status
func (c collectionService) writeOutcome(w http.ResponseWriter, r *http.Request, id string, outcome db.Outcome, err error, status int) {
	if err != nil {
		log.Error().Err(err).Int64("user", requestUser(r)).Str("collection", id).Msg("failed to update collection")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	log.Debug().Int64("user", requestUser(r)).Str("collection", id).Stringer("outcome", outcome).Msg("collection update")
	if outcome == db.CollectionNotFound {
		writeText(w, http.StatusNotFound, "collection not found")
		return
	}
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	collection, err := c.store.Get(id)
	if err != nil {
		log.Error().Err(err).Str("collection", id).Msg("failed to get collection")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, collection)
}
