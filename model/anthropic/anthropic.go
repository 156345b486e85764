// Package anthropic adapts the Anthropic Messages API to the model.Client
// contract. All response-shape handling and error classification lives here.
package anthropic

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hupe1980/edumentor/model"
)

// Options configures the Anthropic adapter.
type Options struct {
	Model     string
	MaxTokens int64
	APIKey    string
}

// Client wraps the Anthropic Messages API behind model.Client.
type Client struct {
	client *sdk.Client
	opts   Options
}

// New creates a new Anthropic client using the official SDK.
func New(optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:     string(sdk.ModelClaude3_5Sonnet20241022),
		MaxTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := sdk.NewClient(clientOpts...)

	return &Client{client: &client, opts: opts}
}

// NewFromClient creates an adapter from an existing SDK client.
func NewFromClient(client *sdk.Client, optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:     string(sdk.ModelClaude3_5Sonnet20241022),
		MaxTokens: 4096,
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
		maxTokens = c.opts.MaxTokens
	}

	params := sdk.MessageNewParams{
		Model:       sdk.Model(modelID),
		MaxTokens:   maxTokens,
		Temperature: sdk.Float(req.Temperature),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.UserPrompt)),
		},
	}
	if req.SystemPrompt != "" {
		params.System = []sdk.TextBlockParam{{Text: req.SystemPrompt}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	return sb.String(), nil
}

// classify maps SDK errors onto the model.ServiceError taxonomy.
func classify(err error) error {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 429 {
			return model.QuotaError(retryAfter(apiErr), err)
		}
	}
	return model.Wrap("anthropic api error", err)
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
