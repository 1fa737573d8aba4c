package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/researchmesh/core"
)

const defaultBraveEndpoint = "https://api.search.brave.com/res/v1/web/search"

// BraveOptions configure the Brave search provider.
type BraveOptions struct {
	// Endpoint overrides the API URL, mainly for tests.
	Endpoint string
	// MaxResults caps the number of results per query.
	MaxResults int
	// MinInterval paces successive requests. The free Brave tier allows one
	// request per second.
	MinInterval time.Duration
	// HTTPClient overrides the default client (10s timeout).
	HTTPClient *http.Client
}

// Brave queries the Brave Search API. Concurrent calls through one instance
// are paced by a shared gate so the provider's per-second rate limit is
// respected even when the agent fans out sub-query searches.
type Brave struct {
	apiKey string
	opts   BraveOptions
	client *http.Client

	mu      sync.Mutex
	readyAt time.Time // earliest moment the next request may fire
}

// NewBrave constructs a Brave search provider.
func NewBrave(apiKey string, optFns ...func(o *BraveOptions)) *Brave {
	opts := BraveOptions{
		Endpoint:    defaultBraveEndpoint,
		MaxResults:  5,
		MinInterval: time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Brave{apiKey: apiKey, opts: opts, client: client}
}

// wait blocks until this instance may issue its next request, honoring
// context cancellation while sleeping.
func (b *Brave) wait(ctx context.Context) error {
	for {
		b.mu.Lock()
		now := time.Now()
		if !b.readyAt.After(now) {
			b.readyAt = now.Add(b.opts.MinInterval)
			b.mu.Unlock()
			return nil
		}
		sleep := b.readyAt.Sub(now)
		b.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search executes one Brave query and normalizes the results.
func (b *Brave) Search(ctx context.Context, query string) ([]core.SearchResult, error) {
	if strings.TrimSpace(b.apiKey) == "" {
		return nil, errors.New("brave: API key is missing")
	}
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("brave: query is empty")
	}
	if err := b.wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s?q=%s", b.opts.Endpoint, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brave request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brave http %d", resp.StatusCode)
	}

	var payload braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("brave decode failed: %w", err)
	}

	results := make([]core.SearchResult, 0, b.opts.MaxResults)
	for _, r := range payload.Web.Results {
		results = append(results, core.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Description,
		})
		if len(results) >= b.opts.MaxResults {
			break
		}
	}
	return results, nil
}
