package api

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/rbhz/jp-vocabulary/app/clients/jisho"
	"github.com/rbhz/jp-vocabulary/app/db"
)

const (
	testTGToken   = "123123213:1231231312"
	testJWTSecret = "tokentokentokentoken"
	testUserID    = 1
)

// emptyHandler is a dummy handler for testing.
type emptyHandler struct{}

func (h *emptyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {}

// searcherFunc adapts function to Searcher.
type searcherFunc func(ctx context.Context, keyword string) ([]jisho.Word, error)

func (f searcherFunc) Search(ctx context.Context, keyword string) ([]jisho.Word, error) {
	return f(ctx, keyword)
}

// noSearch fails every lookup.
var noSearch = searcherFunc(func(ctx context.Context, keyword string) ([]jisho.Word, error) {
	return nil, jisho.ErrLookup
})

// getTestServer returns a test server.
func getTestServer(store *db.CollectionStore, searcher Searcher) (*httptest.Server, func()) {
	if store == nil {
		store = db.NewCollectionStore(db.NewInMemoryKV())
	}
	if searcher == nil {
		searcher = noSearch
	}

	server := NewServer(store, searcher, testTGToken, testJWTSecret, 0)
	srv := httptest.NewServer(server.router)
	return srv, srv.Close
}

// getTestJWT returns a test JWT signed with testJWTSecret
func getTestJWT() string {
	token, _ := (&authService{telegramToken: testTGToken, jwtSecret: []byte(testJWTSecret)}).createToken(testUserID)
	return "Bearer " + token
}
