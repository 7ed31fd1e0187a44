// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"github.com/targetkit/promptfilter/internal/backoff"
)

type Config struct {
	// Model is the chat model used for extraction. Defaults to gpt-4o-mini.
	Model string
	// APIKey authenticates against the provider.
	APIKey string
	// BaseURL overrides the provider endpoint, allowing any OpenAI
	// compatible server.
	BaseURL string
	// Temperature for the extraction call. Extraction wants determinism, so
	// this defaults to 0.
	Temperature float64
	// MaxTokens caps the model response size. Defaults to 2000.
	MaxTokens int
	// Backoff configures retries of failed model calls. Defaults to no
	// retries.
	Backoff backoff.Config
}

const (
	defaultModel     = "gpt-4o-mini"
	defaultMaxTokens = 2000
)

func (c *Config) model() string {
	if c.Model != "" {
		return c.Model
	}
	return defaultModel
}

func (c *Config) maxTokens() int {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return defaultMaxTokens
}

func (c *Config) backoffProvider() backoff.Provider {
	return backoff.NewProvider(&c.Backoff)
}
