package search

import (
	"context"
	"errors"
	"testing"
)

// countingProvider records how often it is consulted.
type countingProvider struct {
	hits  []Hit
	err   error
	calls int
}

func (c *countingProvider) Name() string { return "counting" }

func (c *countingProvider) Search(context.Context, string, int) ([]Hit, error) {
	c.calls++
	return c.hits, c.err
}

func TestFind_SeedsBypassProviders(t *testing.T) {
	p := &countingProvider{hits: []Hit{{Title: "x", URL: "https://x.example/"}}}
	f := &Finder{Providers: []Provider{p}}

	got, err := f.Find(context.Background(), "q", 5, []string{"https://a.example/doc"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.calls != 0 {
		t.Fatalf("provider consulted %d times for seed-only run", p.calls)
	}
	if len(got) != 1 || got[0].Title != "seed" || got[0].URL != "https://a.example/doc" {
		t.Fatalf("unexpected hits: %+v", got)
	}
}

func TestFind_SeedURLsKeptVerbatim(t *testing.T) {
	f := &Finder{}
	got, err := f.Find(context.Background(), "q", 5, []string{
		"https://a.example/doc?id=7",
		"https://a.example/doc?id=9", // same document after normalization
		"https://b.example/page#frag",
	}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 hits after dedup, got %d: %+v", len(got), got)
	}
	if got[0].URL != "https://a.example/doc?id=7" {
		t.Fatalf("seed query string lost: %q", got[0].URL)
	}
	if got[1].URL != "https://b.example/page#frag" {
		t.Fatalf("seed fragment lost: %q", got[1].URL)
	}
}

func TestFind_AllBlankSeeds(t *testing.T) {
	f := &Finder{}
	_, err := f.Find(context.Background(), "q", 5, []string{"", "   "}, true)
	if !errors.Is(err, ErrNoValidSeeds) {
		t.Fatalf("expected ErrNoValidSeeds, got %v", err)
	}
}

func TestFind_SearchDisabledWithoutSeeds(t *testing.T) {
	f := &Finder{}
	_, err := f.Find(context.Background(), "q", 5, nil, false)
	if !errors.Is(err, ErrSearchDisabled) {
		t.Fatalf("expected ErrSearchDisabled, got %v", err)
	}
}

func TestFind_PrimaryErrorFallsThrough(t *testing.T) {
	primary := &countingProvider{err: errors.New("boom")}
	secondary := &countingProvider{hits: []Hit{{Title: "s", URL: "https://s.example/"}}}
	f := &Finder{Providers: []Provider{primary, secondary}}

	got, err := f.Find(context.Background(), "q", 5, nil, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Fatalf("expected both providers consulted, got %d/%d", primary.calls, secondary.calls)
	}
	if len(got) != 1 || got[0].URL != "https://s.example/" {
		t.Fatalf("unexpected hits: %+v", got)
	}
}

func TestFind_EmptyPrimaryFallsThrough(t *testing.T) {
	primary := &countingProvider{}
	secondary := &countingProvider{hits: []Hit{{Title: "s", URL: "https://s.example/"}}}
	f := &Finder{Providers: []Provider{primary, secondary}}

	got, err := f.Find(context.Background(), "q", 5, nil, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unexpected hits: %+v", got)
	}
}

func TestFind_NoResultsSentinel(t *testing.T) {
	f := &Finder{Providers: []Provider{&countingProvider{}, &countingProvider{}}}
	_, err := f.Find(context.Background(), "q", 5, nil, true)
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestFind_TruncatesToMaxResults(t *testing.T) {
	p := &countingProvider{hits: []Hit{
		{Title: "1", URL: "https://a.example/1"},
		{Title: "2", URL: "https://a.example/2"},
		{Title: "3", URL: "https://a.example/3"},
	}}
	f := &Finder{Providers: []Provider{p}}
	got, err := f.Find(context.Background(), "q", 2, nil, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(got))
	}
}
