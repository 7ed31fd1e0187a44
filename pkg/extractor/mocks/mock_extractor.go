// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/targetkit/promptfilter/pkg/filter"
)

type Extractor struct {
	ExtractFn func(ctx context.Context, prompt, language string) ([]filter.Candidate, error)
}

func (m *Extractor) Extract(ctx context.Context, prompt, language string) ([]filter.Candidate, error) {
	return m.ExtractFn(ctx, prompt, language)
}
