// SPDX-License-Identifier: Apache-2.0

// Package normalizer validates candidate filters produced by the extraction
// stage against the schema registry and canonicalises them. It is a pure,
// stateless computation: no I/O, no retained state across calls, safe to use
// concurrently against the same registry.
package normalizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/targetkit/promptfilter/pkg/filter"
	loglib "github.com/targetkit/promptfilter/pkg/log"
	"github.com/targetkit/promptfilter/pkg/schema"
)

// Processor turns candidate filters into schema valid filters plus a list of
// per candidate validation errors. Implementations must preserve candidate
// order in the output and index errors by input position.
type Processor interface {
	Normalize(ctx context.Context, candidates []filter.Candidate) ([]filter.Filter, []filter.ValidationError)
}

type Normalizer struct {
	registry *schema.Registry
	clock    clockwork.Clock
	logger   loglib.Logger
}

type Option func(*Normalizer)

func New(registry *schema.Registry, opts ...Option) *Normalizer {
	n := &Normalizer{
		registry: registry,
		clock:    clockwork.NewRealClock(),
		logger:   loglib.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

func WithLogger(l loglib.Logger) Option {
	return func(n *Normalizer) {
		n.logger = loglib.NewLogger(l).WithFields(loglib.Fields{
			loglib.ModuleField: "filter_normalizer",
		})
	}
}

// WithClock injects the clock used to resolve relative date phrases. Tests
// use a fake clock to make "last N days" deterministic.
func WithClock(c clockwork.Clock) Option {
	return func(n *Normalizer) {
		n.clock = c
	}
}

// Normalize validates each candidate independently, in order. A candidate's
// first failure short-circuits the remaining checks for that candidate only;
// later candidates are still processed. Valid candidates are returned in
// their original relative order, and every error carries the index of the
// candidate in the input sequence.
func (n *Normalizer) Normalize(ctx context.Context, candidates []filter.Candidate) ([]filter.Filter, []filter.ValidationError) {
	filters := make([]filter.Filter, 0, len(candidates))
	var errs []filter.ValidationError

	for i, candidate := range candidates {
		normalized, validationErr := n.normalizeCandidate(candidate)
		if validationErr != nil {
			validationErr.Index = i
			errs = append(errs, *validationErr)
			n.logger.Debug("candidate rejected", loglib.Fields{
				"candidate_index": i,
				"error_kind":      string(validationErr.Kind),
			})
			continue
		}
		filters = append(filters, *normalized)
	}

	n.logger.Trace("normalization completed", loglib.Fields{
		"candidate_count": len(candidates),
		"filter_count":    len(filters),
		"error_count":     len(errs),
	})

	return filters, errs
}

func (n *Normalizer) normalizeCandidate(candidate filter.Candidate) (*filter.Filter, *filter.ValidationError) {
	field, found := n.registry.ResolveField(candidate.Field)
	if !found {
		return nil, &filter.ValidationError{
			Kind:    filter.UnsupportedField,
			Message: fmt.Sprintf("the field %q is not supported", candidate.Field),
		}
	}

	op, found := n.registry.ResolveOperator(candidate.Operator)
	if !found {
		return nil, &filter.ValidationError{
			Kind:    filter.UnsupportedOperator,
			Message: fmt.Sprintf("the operator %q is not supported", candidate.Operator),
		}
	}

	if !field.AllowsOperator(op) {
		return nil, &filter.ValidationError{
			Kind:    filter.OperatorIncompatible,
			Message: fmt.Sprintf("operator %q is not valid for field %q of type %q", op, field.Name, field.Type),
		}
	}

	if isMissing(candidate.Value) {
		return nil, &filter.ValidationError{
			Kind:    filter.MissingValue,
			Message: fmt.Sprintf("a value is required for field %q", field.Name),
		}
	}

	var (
		value         any
		validationErr *filter.ValidationError
	)
	if op == schema.OpBetween {
		value, validationErr = n.normalizeRange(field, candidate.Value)
	} else {
		value, validationErr = n.normalizeScalar(field, candidate.Value)
	}
	if validationErr != nil {
		return nil, validationErr
	}

	return &filter.Filter{
		Field:    field.Name,
		Operator: string(op),
		Value:    value,
	}, nil
}

func isMissing(value any) bool {
	if value == nil {
		return true
	}
	if str, ok := value.(string); ok {
		return strings.TrimSpace(str) == ""
	}
	return false
}
