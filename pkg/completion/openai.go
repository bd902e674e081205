package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"kiarachat/pkg/logger"
)

// SamplingParams are the generation knobs passed on every request.
type SamplingParams struct {
	Temperature      float32
	MaxTokens        int
	PresencePenalty  float32
	FrequencyPenalty float32
}

// DefaultSamplingParams match the companion-bot tuning: high temperature
// for playfulness, penalties to avoid repetitive replies.
var DefaultSamplingParams = SamplingParams{
	Temperature:      0.9,
	MaxTokens:        500,
	PresencePenalty:  0.6,
	FrequencyPenalty: 0.4,
}

const defaultModel = openai.GPT3Dot5Turbo

// Client wraps the OpenAI chat-completion API behind the single call the
// chat pipeline needs. Any failure is fatal for the request; no retry is
// attempted at this layer.
type Client struct {
	api    *openai.Client
	model  string
	params SamplingParams
}

// New builds a Client. model may be empty to use the default; a zero-value
// params selects DefaultSamplingParams.
func New(apiKey, model string, params SamplingParams) *Client {
	if model == "" {
		model = defaultModel
	}
	if params == (SamplingParams{}) {
		params = DefaultSamplingParams
	}
	return &Client{api: openai.NewClient(apiKey), model: model, params: params}
}

// Complete sends one system+user exchange and returns the raw assistant
// text. The caller's context bounds the call; a canceled request never
// reaches the persistence pipeline.
func (c *Client) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature:      c.params.Temperature,
		MaxTokens:        c.params.MaxTokens,
		PresencePenalty:  c.params.PresencePenalty,
		FrequencyPenalty: c.params.FrequencyPenalty,
	})
	if err != nil {
		logger.Error("chat_completion_failed", "model", c.model, "error", err)
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: empty choices")
	}
	logger.Debug("chat_completion_ok", "model", c.model, "elapsed_ms", time.Since(start).Milliseconds())
	return resp.Choices[0].Message.Content, nil
}
