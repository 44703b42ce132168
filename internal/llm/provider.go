package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the minimal chat-completion capability the synthesizer needs.
// Any OpenAI-compatible backend can be adapted behind it, and tests inject
// fakes without touching the network.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// New builds an OpenAI-compatible client for the given credential and
// optional base URL override.
func New(apiKey, baseURL string) Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}
