package api

import (
	"net/http"
	"strings"

	"github.com/rbhz/jp-vocabulary/app/db"
	"github.com/rs/zerolog/log"
)

// searchService implements dictionary search API
type searchService struct {
	searcher Searcher
}

// Search looks up keyword in remote dictionary
func (s searchService) Search(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if keyword == "" {
		writeText(w, http.StatusBadRequest, "keyword is required")
		return
	}
	words, err := s.searcher.Search(r.Context(), keyword)
	if err != nil {
		log.Error().Err(err).Str("keyword", keyword).Msg("failed to search")
		writeText(w, http.StatusBadGateway, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, db.NewDictionaryEntries(words))
}
