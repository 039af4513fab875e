package ollama

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
	"github.com/pkg/errors"

	"mcbot/internal/domain"
)

// Client talks to the native Ollama chat endpoint. Requests are
// non-streaming: the server answers with one final message.
type Client struct {
	api *api.Client
}

func NewClient(baseURL string) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parse ollama url %q", baseURL)
	}
	return &Client{api: api.NewClient(base, http.DefaultClient)}, nil
}

func (c *Client) Complete(ctx context.Context, model string, messages []domain.Message) (string, error) {
	req := &api.ChatRequest{
		Model:    model,
		Messages: toAPIMessages(messages),
		Stream:   new(bool),
	}

	var reply string
	err := c.api.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply += resp.Message.Content
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "ollama chat")
	}
	if reply == "" {
		return "", errors.New("ollama returned empty response")
	}
	return reply, nil
}

func toAPIMessages(msgs []domain.Message) []api.Message {
	res := make([]api.Message, 0, len(msgs))
	for _, m := range msgs {
		res = append(res, api.Message{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return res
}
