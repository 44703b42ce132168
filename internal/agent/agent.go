// Package agent sequences the pipeline: resolve sources, fetch and assemble
// notes, synthesize an answer. A run always terminates with a usable
// Result; failures surface as explanatory answer text.
package agent

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/aletho/quaero/internal/fetch"
	"github.com/aletho/quaero/internal/notes"
	"github.com/aletho/quaero/internal/search"
	"github.com/aletho/quaero/internal/summary"
	"github.com/aletho/quaero/internal/synth"
)

// MaxResultsCap is the hard ceiling on sources per run.
const MaxResultsCap = 8

// DefaultMaxResults applies when the caller leaves the source count unset.
const DefaultMaxResults = 5

// forceLocalSentences is the bullet budget for an explicitly local run.
const forceLocalSentences = 8

// Terminal answers for input errors. These are results, not failures.
const (
	msgNoValidSeeds   = "No valid seed URLs provided."
	msgSearchDisabled = "Search is disabled and no seed URLs were given. Provide at least one seed URL."
	msgNoResults      = "No search results (rate-limited or blocked). Try fewer results or provide seed URLs."
)

// Request is one pipeline invocation.
type Request struct {
	Query       string
	Seeds       []string
	AllowSearch bool
	ForceLocal  bool
	MaxResults  int
	SavePath    string
	Profile     string
}

// Result is the terminal artifact of a run.
type Result struct {
	Answer   string
	Sources  []string
	Degraded bool
}

// Agent wires the pipeline stages together. All fields must be set except
// FetchParallelism, which defaults to 4.
type Agent struct {
	Finder           *search.Finder
	Fetcher          *fetch.Client
	Synth            *synth.Synthesizer
	FetchParallelism int
}

// Run executes the pipeline for one request. It never returns an error:
// input problems become terminal informational answers and per-source or
// synthesis failures are folded into the answer text.
func (a *Agent) Run(ctx context.Context, req Request) Result {
	maxResults := clampResults(req.MaxResults)
	query := ApplyProfile(req.Profile, req.Query)

	hits, err := a.Finder.Find(ctx, query, maxResults, req.Seeds, req.AllowSearch)
	if err != nil {
		return terminalResult(err)
	}
	log.Info().Int("sources", len(hits)).Str("query", req.Query).Msg("resolved sources")

	bundle := a.assembleNotes(ctx, hits)

	var answer string
	degraded := false
	if req.ForceLocal {
		answer = summary.Summarize(bundle, forceLocalSentences)
		degraded = true
	} else {
		answer, degraded = a.Synth.Synthesize(ctx, query, bundle, hits)
	}

	if req.SavePath != "" {
		if err := os.WriteFile(req.SavePath, []byte(answer), 0o644); err != nil {
			log.Warn().Err(err).Str("path", req.SavePath).Msg("saving answer failed")
		} else {
			log.Info().Str("path", req.SavePath).Msg("saved answer")
		}
	}

	sources := make([]string, 0, len(hits))
	for _, h := range hits {
		sources = append(sources, h.URL)
	}
	return Result{Answer: answer, Sources: sources, Degraded: degraded}
}

// assembleNotes fetches every source under a bounded worker pool and joins
// the texts in source order. Fetch completion order never matters: each
// worker writes to its own slot.
func (a *Agent) assembleNotes(ctx context.Context, hits []search.Hit) string {
	texts := make([]string, len(hits))
	g, gctx := errgroup.WithContext(ctx)
	limit := a.FetchParallelism
	if limit <= 0 {
		limit = 4
	}
	g.SetLimit(limit)
	for i, h := range hits {
		g.Go(func() error {
			texts[i] = a.Fetcher.Text(gctx, h.URL)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; markers flow through texts

	docs := make([]notes.Document, 0, len(hits))
	for i, h := range hits {
		docs = append(docs, notes.NewDocument(h.URL, texts[i], notes.DefaultClipLimit))
	}
	return notes.Bundle(docs)
}

func terminalResult(err error) Result {
	switch {
	case errors.Is(err, search.ErrNoValidSeeds):
		return Result{Answer: msgNoValidSeeds, Sources: []string{}}
	case errors.Is(err, search.ErrSearchDisabled):
		return Result{Answer: msgSearchDisabled, Sources: []string{}}
	case errors.Is(err, search.ErrNoResults):
		return Result{Answer: msgNoResults, Sources: []string{}}
	}
	// Unknown resolution failures still terminate informationally.
	return Result{Answer: "Source resolution failed: " + err.Error(), Sources: []string{}}
}

// clampResults bounds an explicit request to [1, MaxResultsCap]; zero
// means the caller left the count unset and takes the default.
func clampResults(n int) int {
	if n == 0 {
		return DefaultMaxResults
	}
	if n < 1 {
		return 1
	}
	if n > MaxResultsCap {
		return MaxResultsCap
	}
	return n
}
