package search

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
)

// Finder resolves a query to an ordered list of candidate sources. Providers
// are tried in priority order until one yields results; seed URLs bypass the
// providers entirely.
type Finder struct {
	Providers []Provider
}

// Find returns deduplicated hits for the query, truncated to maxResults.
//
// Seeds, when present, take precedence: each non-blank seed becomes a hit
// titled "seed" and no provider is consulted. With no seeds and allowSearch
// false, ErrSearchDisabled is returned. When every provider comes up empty
// the sentinel ErrNoResults is returned rather than a hard error.
func (f *Finder) Find(ctx context.Context, query string, maxResults int, seeds []string, allowSearch bool) ([]Hit, error) {
	if maxResults <= 0 {
		maxResults = 5
	}

	if len(seeds) > 0 {
		// Seeds are fetched verbatim; normalization is only the dedup key,
		// so query strings the caller relies on survive.
		seen := map[string]struct{}{}
		hits := make([]Hit, 0, len(seeds))
		for _, s := range seeds {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			key, err := NormalizeURL(s)
			if err != nil || key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			hits = append(hits, Hit{Title: "seed", URL: s})
		}
		if len(hits) == 0 {
			return nil, ErrNoValidSeeds
		}
		return truncate(hits, maxResults), nil
	}

	if !allowSearch {
		return nil, ErrSearchDisabled
	}

	for _, p := range f.Providers {
		results, err := p.Search(ctx, query, maxResults)
		if err != nil {
			log.Warn().Err(err).Str("provider", p.Name()).Msg("search provider failed; falling through")
			continue
		}
		if len(results) == 0 {
			continue
		}
		return truncate(Dedupe(results), maxResults), nil
	}
	return nil, ErrNoResults
}

func truncate(hits []Hit, n int) []Hit {
	if len(hits) > n {
		return hits[:n]
	}
	return hits
}
