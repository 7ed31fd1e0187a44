// SPDX-License-Identifier: Apache-2.0

package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/targetkit/promptfilter/pkg/filter"
	"github.com/targetkit/promptfilter/pkg/normalizer"
	"github.com/targetkit/promptfilter/pkg/otel"
)

type Normalizer struct {
	inner   normalizer.Processor
	tracer  trace.Tracer
	meter   metric.Meter
	metrics *metrics
}

type metrics struct {
	normalizeLatency metric.Int64Histogram
	rejectedFilters  metric.Int64Counter
}

const errorKindAttributeKey = "error_kind"

func NewNormalizer(p normalizer.Processor, instrumentation *otel.Instrumentation) (normalizer.Processor, error) {
	if instrumentation == nil {
		return p, nil
	}

	n := &Normalizer{
		inner:   p,
		tracer:  instrumentation.Tracer,
		meter:   instrumentation.Meter,
		metrics: &metrics{},
	}

	if err := n.initMetrics(); err != nil {
		return nil, fmt.Errorf("initialising normalizer metrics: %w", err)
	}

	return n, nil
}

func (i *Normalizer) Normalize(ctx context.Context, candidates []filter.Candidate) ([]filter.Filter, []filter.ValidationError) {
	ctx, span := otel.StartSpan(ctx, i.tracer, "normalizer.Normalize")

	if i.meter != nil {
		startTime := time.Now()
		defer func() {
			i.metrics.normalizeLatency.Record(ctx, time.Since(startTime).Milliseconds())
		}()
	}

	filters, errs := i.inner.Normalize(ctx, candidates)

	if i.meter != nil {
		for _, validationErr := range errs {
			i.metrics.rejectedFilters.Add(ctx, 1, metric.WithAttributes(
				attribute.String(errorKindAttributeKey, string(validationErr.Kind))))
		}
	}

	otel.CloseSpan(span, nil)
	return filters, errs
}

func (i *Normalizer) initMetrics() error {
	if i.meter == nil {
		return nil
	}

	var err error
	i.metrics.normalizeLatency, err = i.meter.Int64Histogram("promptfilter.normalizer.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Distribution of the time taken to normalize a candidate batch"))
	if err != nil {
		return err
	}

	i.metrics.rejectedFilters, err = i.meter.Int64Counter("promptfilter.normalizer.rejected",
		metric.WithDescription("Number of candidate filters rejected by validation, by error kind"))
	if err != nil {
		return err
	}

	return nil
}
