package search

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// Hit represents a single candidate document discovered for a query.
type Hit struct {
	Title string
	URL   string
}

// Provider is a minimal interface for search backends.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Hit, error)
	Name() string
}

// Sentinel states for source resolution. These are informational outcomes,
// not hard failures: the orchestrator turns them into plain-language answers.
var (
	ErrNoValidSeeds   = errors.New("no valid seed URLs provided")
	ErrSearchDisabled = errors.New("search disabled and no seed URLs given")
	ErrNoResults      = errors.New("no search results")
)

// NormalizeURL canonicalizes a URL for deduplication: the query string and
// fragment are stripped and the host is lowercased.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	return u.String(), nil
}

// Dedupe removes hits whose normalized URLs collide, preserving first-seen
// order. Hit URLs are rewritten to their normalized form, so applying Dedupe
// twice yields the same list as applying it once.
func Dedupe(hits []Hit) []Hit {
	seen := map[string]struct{}{}
	out := make([]Hit, 0, len(hits))
	for _, h := range hits {
		if h.URL == "" {
			continue
		}
		key, err := NormalizeURL(h.URL)
		if err != nil || key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		h.URL = key
		out = append(out, h)
	}
	return out
}
