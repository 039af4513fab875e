package openai

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	openaiapi "github.com/sashabaranov/go-openai"

	"mcbot/internal/domain"
)

// Client talks to any OpenAI-compatible chat completion endpoint. Ollama
// serves one under <base>/v1, which makes this an alternate backend against
// the same inference server.
type Client struct {
	api *openaiapi.Client
}

func NewClient(token, baseURL string) *Client {
	cfg := openaiapi.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/") + "/v1"
	}
	return &Client{api: openaiapi.NewClientWithConfig(cfg)}
}

func (c *Client) Complete(ctx context.Context, model string, messages []domain.Message) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openaiapi.ChatCompletionRequest{
		Model:    model,
		Stream:   false,
		Messages: toAPIMessages(messages),
	})
	if err != nil {
		return "", errors.Wrap(err, "chat completion")
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("completion endpoint returned empty response")
	}

	return resp.Choices[0].Message.Content, nil
}

func toAPIMessages(msgs []domain.Message) []openaiapi.ChatCompletionMessage {
	res := make([]openaiapi.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		res = append(res, openaiapi.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return res
}
