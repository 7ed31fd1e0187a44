// SPDX-License-Identifier: Apache-2.0

// Package agent wires the extraction and normalization stages into the
// prompt parsing pipeline: prepare input, extract candidates through the
// model, validate and canonicalise them, shape the output.
package agent

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/targetkit/promptfilter/pkg/extractor"
	"github.com/targetkit/promptfilter/pkg/filter"
	loglib "github.com/targetkit/promptfilter/pkg/log"
	"github.com/targetkit/promptfilter/pkg/normalizer"
	"github.com/targetkit/promptfilter/pkg/otel"
)

// Parser is the pipeline contract consumed by the API layer and the CLI.
type Parser interface {
	Parse(ctx context.Context, prompt string) (*Result, error)
}

// Result carries the outcome of a single prompt. Filters holds the schema
// valid subset in candidate order; Errors holds every validation failure
// indexed by candidate position. A non empty Errors means the batch is
// rejected by the external contract, even though the partial result is
// computed.
type Result struct {
	Filters  []filter.Filter          `json:"filters"`
	Errors   []filter.ValidationError `json:"errors,omitempty"`
	Language string                   `json:"language"`
}

type Agent struct {
	extractor  extractor.Extractor
	normalizer normalizer.Processor
	logger     loglib.Logger
	tracer     trace.Tracer
}

type Option func(*Agent)

func New(ext extractor.Extractor, proc normalizer.Processor, opts ...Option) *Agent {
	a := &Agent{
		extractor:  ext,
		normalizer: proc,
		logger:     loglib.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

func WithLogger(l loglib.Logger) Option {
	return func(a *Agent) {
		a.logger = loglib.NewLogger(l).WithFields(loglib.Fields{
			loglib.ModuleField: "agent",
		})
	}
}

func WithInstrumentation(instrumentation *otel.Instrumentation) Option {
	return func(a *Agent) {
		if instrumentation.IsEnabled() {
			a.tracer = instrumentation.Tracer
		}
	}
}

// Parse runs the pipeline for a single prompt. The returned error reports
// extraction failures only (transport, malformed model output); validation
// failures are data, reported through Result.Errors.
func (a *Agent) Parse(ctx context.Context, prompt string) (res *Result, err error) {
	ctx, span := otel.StartSpan(ctx, a.tracer, "agent.Parse")
	defer func() { otel.CloseSpan(span, err) }()

	prompt = strings.TrimSpace(prompt)
	language := DetectLanguage(prompt)

	a.logger.Info("parsing prompt", loglib.Fields{
		"language":      language,
		"prompt_length": len(prompt),
	})

	candidates, err := a.extractor.Extract(ctx, prompt, language)
	if err != nil {
		return nil, fmt.Errorf("extracting candidate filters: %w", err)
	}

	filters, validationErrs := a.normalizer.Normalize(ctx, candidates)

	a.logger.Info("prompt parsed", loglib.Fields{
		"candidate_count": len(candidates),
		"filter_count":    len(filters),
		"error_count":     len(validationErrs),
	})

	return &Result{
		Filters:  filters,
		Errors:   validationErrs,
		Language: language,
	}, nil
}
