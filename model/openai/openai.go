// Package openai adapts the OpenAI Chat Completions API to the model.Client
// contract. All response-shape handling and error classification lives here.
package openai

import (
	"context"
	"errors"
	"strconv"
	"time"

	sdk "github.com/openai/openai-go"

	"github.com/hupe1980/edumentor/model"
)

// Options configures the OpenAI adapter.
type Options struct {
	Model               string
	MaxCompletionTokens int64
}

// Client wraps the OpenAI Chat Completions API behind model.Client.
type Client struct {
	client *sdk.Client
	opts   Options
}

// New creates a new OpenAI client using the official SDK (API key from env).
func New(optFns ...func(o *Options)) *Client {
	client := sdk.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates an adapter from an existing SDK client.
func NewFromClient(client *sdk.Client, optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:               sdk.ChatModelGPT4oMini,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{client: client, opts: opts}
}

// Generate implements model.Client.
func (c *Client) Generate(ctx context.Context, req model.Request) (string, error) {
	modelID := req.Model
	if modelID == "" {
		modelID = c.opts.Model
	}
	maxTokens := req.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = c.opts.MaxCompletionTokens
	}

	var messages []sdk.ChatCompletionMessageParamUnion
	if req.SystemPrompt != "" {
		messages = append(messages, sdk.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, sdk.UserMessage(req.UserPrompt))

	params := sdk.ChatCompletionNewParams{
		Model:               modelID,
		Messages:            messages,
		Temperature:         sdk.Float(req.Temperature),
		MaxCompletionTokens: sdk.Int(maxTokens),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", model.Wrap("openai api error", errors.New("empty choices in response"))
	}
	return resp.Choices[0].Message.Content, nil
}

// classify maps SDK errors onto the model.ServiceError taxonomy.
func classify(err error) error {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 429 {
			return model.QuotaError(retryAfter(apiErr), err)
		}
	}
	return model.Wrap("openai api error", err)
}

func retryAfter(apiErr *sdk.Error) time.Duration {
	if apiErr.Response == nil {
		return 0
	}
	header := apiErr.Response.Header.Get("retry-after")
	if header == "" {
		return 0
	}
	if secs, err := strconv.ParseFloat(header, 64); err == nil && secs > 0 {
		return time.Duration(secs * float64(time.Second))
	}
	return 0
}
