// Package sentiment implements the text sentiment port, with an OpenAI
// adapter for production and a lexicon adapter for deterministic,
// offline operation.
package sentiment

import (
	"context"
	"fmt"
	"strings"

	"relay_server/core/port/out"
	"relay_server/pkg/httputil"
	"relay_server/pkg/logger"
	"relay_server/pkg/resilience"

	"github.com/goccy/go-json"
	openai "github.com/sashabaranov/go-openai"
)

const DefaultModel = openai.GPT4oMini

const systemPrompt = `You rate the sentiment of one chat message.
Respond with a JSON object {"polarity": p, "subjectivity": s} where
p is in [-1,1] (negative..positive) and s is in [0,1]
(objective..subjective). Respond with JSON only.`

// OpenAIConfig holds OpenAI adapter configuration.
type OpenAIConfig struct {
	APIKey string
	Model  string
}

// OpenAIAdapter scores sentiment with a chat completion in JSON mode.
type OpenAIAdapter struct {
	client *openai.Client
	model  string
	cb     *resilience.CircuitBreaker
}

// NewOpenAIAdapter creates the adapter over the shared OpenAI HTTP
// client pool.
func NewOpenAIAdapter(cfg OpenAIConfig) *OpenAIAdapter {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.HTTPClient = httputil.OpenAIClient()

	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("openai-sentiment"))
	cb.OnStateChange(func(name string, from, to resilience.CircuitState) {
		logger.WithFields(map[string]any{
			"breaker": name,
			"from":    from.String(),
			"to":      to.String(),
		}).Warn("Circuit breaker state changed")
	})

	return &OpenAIAdapter{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		cb:     cb,
	}
}

// Analyze scores one text. Temperature 0 keeps repeated calls on the
// same text as close to deterministic as the model allows.
func (a *OpenAIAdapter) Analyze(ctx context.Context, text string) (out.SentimentScore, error) {
	var resp openai.ChatCompletionResponse
	err := a.cb.Execute(func() error {
		var callErr error
		resp, callErr = a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       a.model,
			Temperature: 0,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: text,
				},
			},
		})
		return callErr
	})
	if err != nil {
		return out.SentimentScore{}, fmt.Errorf("openai sentiment: %w", err)
	}
	if len(resp.Choices) == 0 {
		return out.SentimentScore{}, fmt.Errorf("openai sentiment: empty response")
	}

	var score out.SentimentScore
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &score); err != nil {
		return out.SentimentScore{}, fmt.Errorf("openai sentiment: decode %q: %w", content, err)
	}

	return clamp(score), nil
}

func clamp(s out.SentimentScore) out.SentimentScore {
	if s.Polarity > 1 {
		s.Polarity = 1
	}
	if s.Polarity < -1 {
		s.Polarity = -1
	}
	if s.Subjectivity > 1 {
		s.Subjectivity = 1
	}
	if s.Subjectivity < 0 {
		s.Subjectivity = 0
	}
	return s
}
