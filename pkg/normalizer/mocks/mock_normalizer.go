// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/targetkit/promptfilter/pkg/filter"
)

type Normalizer struct {
	NormalizeFn func(ctx context.Context, candidates []filter.Candidate) ([]filter.Filter, []filter.ValidationError)
}

func (m *Normalizer) Normalize(ctx context.Context, candidates []filter.Candidate) ([]filter.Filter, []filter.ValidationError) {
	return m.NormalizeFn(ctx, candidates)
}
