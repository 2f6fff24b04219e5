package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rbhz/jp-vocabulary/app/clients/jisho"
	"github.com/rbhz/jp-vocabulary/app/db"
	"github.com/rs/zerolog/log"
)

type ctxKey string

const ctxUserIDKey ctxKey = "userID"

const shutdownTimeout = 10 * time.Second

// Searcher looks up dictionary words
type Searcher interface {
	Search(ctx context.Context, keyword string) ([]jisho.Word, error)
}

type Server struct {
	router chi.Router
}

// Run serves API until ctx is done
func (s *Server) Run(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown API server")
		}
	}()
	log.Info().Int("port", port).Msg("starting API server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) setJsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// writeJSON marshals v and writes it with given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	response, jerr := json.Marshal(v)
	if jerr != nil {
		log.Error().Err(jerr).Msg("failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	if _, err := w.Write(response); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

// writeText writes plain message with given status
func writeText(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	if _, err := w.Write([]byte(msg)); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

// NewServer creates API server. Non zero owner restricts access to one telegram user.
func NewServer(store *db.CollectionStore, searcher Searcher, tgToken string, jwtSecret string, owner int64) *Server {
	s := &Server{}
	collections := collectionService{store: store}
	search := searchService{searcher: searcher}
	auth := authService{telegramToken: tgToken, jwtSecret: []byte(jwtSecret), owner: owner}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.setJsonContentType)
		r.Route("/auth", func(r chi.Router) {
			r.Get("/telegram", auth.TelegramRedirectHandler)
		})
		r.Group(func(r chi.Router) {
			r.Use(auth.UserCtx)
			r.Get("/search", search.Search)
			r.Route("/collections", func(r chi.Router) {
				r.Get("/", collections.List)
				r.Post("/", collections.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", collections.Get)
					r.Patch("/", collections.Rename)
					r.Delete("/", collections.Delete)
					r.Post("/words", collections.AddWord)
					r.Delete("/words/{slug}", collections.RemoveWord)
				})
			})
		})
	})

	s.router = r
	return s
}
