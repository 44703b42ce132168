package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultTavilyURL = "https://api.tavily.com/search"

// Tavily implements Provider against the Tavily search API. It is the
// primary, key-gated provider and should only be placed in the chain when a
// credential is configured.
type Tavily struct {
	APIKey     string
	BaseURL    string // defaults to the public API endpoint
	HTTPClient *http.Client
}

func (t *Tavily) Name() string { return "tavily" }

func (t *Tavily) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	if t.APIKey == "" {
		return nil, fmt.Errorf("missing tavily api key")
	}
	if limit <= 0 {
		limit = 5
	}
	endpoint := t.BaseURL
	if endpoint == "" {
		endpoint = defaultTavilyURL
	}
	payload, err := json.Marshal(tavilyRequest{
		APIKey:     t.APIKey,
		Query:      query,
		MaxResults: limit,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	hc := t.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("tavily status: %d", resp.StatusCode)
	}
	var tr tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, err
	}
	out := make([]Hit, 0, len(tr.Results))
	for _, r := range tr.Results {
		if r.URL == "" {
			continue
		}
		out = append(out, Hit{
			Title: strings.TrimSpace(r.Title),
			URL:   strings.TrimSpace(r.URL),
		})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

type tavilyRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"results"`
}
