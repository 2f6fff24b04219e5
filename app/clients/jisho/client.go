package jisho

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

const searchURL = "https://jisho.org/api/v1/search/words"

// ErrLookup is returned for any failed search: transport, status or decoding
var ErrLookup = errors.New("jisho lookup failed")

// Client implements integration with jisho.org words search
// docs: https://jisho.org/forum/54fefc1f6e73340b1f160000-is-there-any-kind-of-search-api
type Client struct {
	client *http.Client
}

// Search returns entries matching keyword
func (c *Client) Search(ctx context.Context, keyword string) ([]Word, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrLookup, err)
	}
	req.URL.RawQuery = url.Values{"keyword": []string{keyword}}.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch jisho.org: %w", ErrLookup, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %w", ErrLookup, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error().
			Str("status", resp.Status).
			Str("keyword", keyword).
			Msg("unsuccessfull response from jisho API")
		return nil, fmt.Errorf("%w: unsuccessfull API response %v", ErrLookup, resp.StatusCode)
	}
	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: unmarshal response: %w", ErrLookup, err)
	}
	return result.Data, nil
}

// NewClient creates jisho Client with default HTTP client
func NewClient() *Client {
	return &Client{client: http.DefaultClient}
}
