// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	lcschema "github.com/tmc/langchaingo/schema"

	"github.com/targetkit/promptfilter/internal/backoff"
	"github.com/targetkit/promptfilter/pkg/filter"
	loglib "github.com/targetkit/promptfilter/pkg/log"
	"github.com/targetkit/promptfilter/pkg/schema"
)

// LLMExtractor extracts candidate filters through a chat model. It is safe
// for concurrent use: the template and registry are immutable and the model
// client is stateless per call.
type LLMExtractor struct {
	model           llms.Model
	registry        *schema.Registry
	template        *template.Template
	temperature     float64
	maxTokens       int
	backoffProvider backoff.Provider
	logger          loglib.Logger
}

type Option func(*LLMExtractor)

func New(cfg *Config, registry *schema.Registry, opts ...Option) (*LLMExtractor, error) {
	openaiOpts := []openai.Option{
		openai.WithModel(cfg.model()),
	}
	if cfg.APIKey != "" {
		openaiOpts = append(openaiOpts, openai.WithToken(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		openaiOpts = append(openaiOpts, openai.WithBaseURL(cfg.BaseURL))
	}

	model, err := openai.New(openaiOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating chat model client: %w", err)
	}

	return NewWithModel(model, cfg, registry, opts...)
}

// NewWithModel builds an extractor on top of an existing model client.
func NewWithModel(model llms.Model, cfg *Config, registry *schema.Registry, opts ...Option) (*LLMExtractor, error) {
	tmpl, err := newPromptTemplate()
	if err != nil {
		return nil, fmt.Errorf("parsing extraction prompt template: %w", err)
	}

	e := &LLMExtractor{
		model:           model,
		registry:        registry,
		template:        tmpl,
		temperature:     cfg.Temperature,
		maxTokens:       cfg.maxTokens(),
		backoffProvider: cfg.backoffProvider(),
		logger:          loglib.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

func WithLogger(l loglib.Logger) Option {
	return func(e *LLMExtractor) {
		e.logger = loglib.NewLogger(l).WithFields(loglib.Fields{
			loglib.ModuleField: "llm_extractor",
		})
	}
}

func (e *LLMExtractor) Extract(ctx context.Context, prompt, language string) ([]filter.Candidate, error) {
	rendered, err := renderPrompt(e.template, e.registry, prompt, language)
	if err != nil {
		return nil, fmt.Errorf("rendering extraction prompt: %w", err)
	}

	messages := []llms.MessageContent{
		llms.TextParts(lcschema.ChatMessageTypeHuman, rendered),
	}

	var response *llms.ContentResponse
	generate := func() error {
		var generateErr error
		response, generateErr = e.model.GenerateContent(ctx, messages,
			llms.WithTemperature(e.temperature),
			llms.WithMaxTokens(e.maxTokens),
			llms.WithJSONMode(),
		)
		if generateErr != nil && ctx.Err() != nil {
			// the request is gone, retrying is pointless
			return fmt.Errorf("%w: %w", backoff.ErrPermanent, generateErr)
		}
		return generateErr
	}

	bo := e.backoffProvider(ctx)
	if err := bo.RetryNotify(generate, func(retryErr error, wait time.Duration) {
		e.logger.Warn(retryErr, "retrying model call", loglib.Fields{"backoff": wait})
	}); err != nil {
		return nil, fmt.Errorf("calling chat model: %w", err)
	}

	if response == nil || len(response.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	candidates, err := parseCandidates(response.Choices[0].Content)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("extraction completed", loglib.Fields{
		"language":        language,
		"candidate_count": len(candidates),
	})

	return candidates, nil
}

// parseCandidates reads the model output leniently: markdown fences are
// stripped and each entry keeps whatever shape the model produced, since the
// normalizer is the component responsible for validation.
func parseCandidates(content string) ([]filter.Candidate, error) {
	payload := strings.TrimSpace(content)
	payload = strings.TrimPrefix(payload, "```json")
	payload = strings.TrimPrefix(payload, "```")
	payload = strings.TrimSuffix(payload, "```")
	payload = strings.TrimSpace(payload)

	if !gjson.Valid(payload) {
		return nil, ErrMalformedResponse
	}

	result := gjson.Get(payload, "filters")
	if !result.Exists() || !result.IsArray() {
		return nil, ErrMalformedResponse
	}

	items := result.Array()
	candidates := make([]filter.Candidate, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, filter.Candidate{
			Field:    item.Get("field").String(),
			Operator: item.Get("operator").String(),
			Value:    item.Get("value").Value(),
		})
	}

	return candidates, nil
}
