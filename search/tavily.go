package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hupe1980/researchmesh/core"
)

const defaultTavilyEndpoint = "https://api.tavily.com/search"

// TavilyOptions configure the Tavily search provider.
type TavilyOptions struct {
	// Endpoint overrides the API URL, mainly for tests.
	Endpoint string
	// SearchDepth is "basic" or "advanced".
	SearchDepth string
	// MaxResults caps the number of results per query.
	MaxResults int
	// HTTPClient overrides the default client (10s timeout).
	HTTPClient *http.Client
}

// Tavily queries the Tavily Search API. An API key is required.
type Tavily struct {
	apiKey string
	opts   TavilyOptions
	client *http.Client
}

// NewTavily constructs a Tavily search provider.
func NewTavily(apiKey string, optFns ...func(o *TavilyOptions)) *Tavily {
	opts := TavilyOptions{
		Endpoint:    defaultTavilyEndpoint,
		SearchDepth: "basic",
		MaxResults:  5,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Tavily{apiKey: apiKey, opts: opts, client: client}
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search executes one Tavily query and normalizes the results.
func (t *Tavily) Search(ctx context.Context, query string) ([]core.SearchResult, error) {
	if strings.TrimSpace(t.apiKey) == "" {
		return nil, errors.New("tavily: API key is missing")
	}
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("tavily: query is empty")
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:      t.apiKey,
		Query:       query,
		SearchDepth: t.opts.SearchDepth,
		MaxResults:  t.opts.MaxResults,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily http %d", resp.StatusCode)
	}

	var payload tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("tavily decode failed: %w", err)
	}

	results := make([]core.SearchResult, 0, len(payload.Results))
	for _, r := range payload.Results {
		results = append(results, core.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Score:   r.Score,
		})
	}
	return results, nil
}
