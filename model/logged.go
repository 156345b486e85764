package model

import (
	"context"
	"time"

	"github.com/hupe1980/edumentor/logging"
)

// LoggedClient wraps a Client and records every completion call's latency and
// outcome through the logger's model-call helper.
type LoggedClient struct {
	inner  Client
	logger *logging.EduLogger
	name   string
}

// NewLoggedClient decorates inner with per-call logging. name labels calls
// whose request carries no model id (e.g. the mock provider).
func NewLoggedClient(inner Client, logger *logging.EduLogger, name string) *LoggedClient {
	return &LoggedClient{inner: inner, logger: logger, name: name}
}

// Generate implements Client.
func (c *LoggedClient) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	text, err := c.inner.Generate(ctx, req)

	modelName := req.Model
	if modelName == "" {
		modelName = c.name
	}
	c.logger.LogModelCall(modelName, time.Since(start), err == nil, err)
	return text, err
}
