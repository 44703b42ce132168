// Package synth produces the final answer by calling a remote chat model,
// degrading to the local extractive summarizer when the call fails. It
// always returns usable answer text, never an error.
package synth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/aletho/quaero/internal/llm"
	"github.com/aletho/quaero/internal/search"
	"github.com/aletho/quaero/internal/summary"
)

// Degrade tags let callers tell configuration problems (bad key, exhausted
// quota) apart from transient service trouble while still getting an answer.
const (
	AuthQuotaTag = "[LLM auth/quota]"
	ErrorTag     = "[LLM error]"
)

// DefaultTimeout bounds one synthesis call including the retry.
const DefaultTimeout = 30 * time.Second

var errEmptyCompletion = errors.New("model returned no content")

// Synthesizer calls the chat model with query, notes, and sources.
type Synthesizer struct {
	Client  llm.Client
	Model   string
	Timeout time.Duration

	// sleep is the backoff hook between the initial attempt and the retry.
	// Tests replace it to keep runs deterministic.
	sleep func(time.Duration)
}

// Synthesize returns the answer text and whether the fallback path was
// used. Remote failures are folded into the answer: a tag, the failure
// detail, and the local summary over the same notes.
func (s *Synthesizer) Synthesize(ctx context.Context, query, notesText string, sources []search.Hit) (string, bool) {
	if s.Client == nil || strings.TrimSpace(s.Model) == "" {
		return s.degrade(ErrorTag, errors.New("synthesizer not configured"), notesText), true
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: userMessage(query, notesText, sources)},
		},
		Temperature: 0.2,
		N:           1,
	}

	resp, err := s.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		// one short-backoff retry before degrading
		pause := s.sleep
		if pause == nil {
			pause = time.Sleep
		}
		pause(200 * time.Millisecond)
		resp, err = s.Client.CreateChatCompletion(ctx, req)
	}
	if err != nil {
		if isAuthOrQuota(err) {
			return s.degrade(AuthQuotaTag, err, notesText), true
		}
		return s.degrade(ErrorTag, err, notesText), true
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return s.degrade(ErrorTag, errEmptyCompletion, notesText), true
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), false
}

func (s *Synthesizer) degrade(tag string, err error, notesText string) string {
	log.Warn().Err(err).Str("tag", tag).Msg("synthesis degraded to local summary")
	return fmt.Sprintf("%s\n%v\n\nLocal summary:\n%s", tag, err, summary.Summarize(notesText, summary.DefaultMaxSentences))
}

// isAuthOrQuota reports whether the failure stems from credentials or
// quota rather than connectivity or a malformed request.
func isAuthOrQuota(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401, 403, 429:
			return true
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.HTTPStatusCode {
		case 401, 403, 429:
			return true
		}
	}
	return false
}

const systemMessage = "You are a concise research assistant. Answer ONLY the user query using NOTES. " +
	"Cite the provided URLs inline. Prefer recent, credible sources. Be specific."

func userMessage(query, notesText string, sources []search.Hit) string {
	var sb strings.Builder
	sb.WriteString("USER QUERY:\n")
	sb.WriteString(query)
	sb.WriteString("\n\nNOTES:\n")
	sb.WriteString(notesText)
	sb.WriteString("\n\nSOURCES:\n")
	for _, h := range sources {
		sb.WriteString("- ")
		sb.WriteString(h.URL)
		sb.WriteString("\n")
	}
	return sb.String()
}
