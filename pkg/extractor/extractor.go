// SPDX-License-Identifier: Apache-2.0

// Package extractor turns a natural language prompt into candidate filters
// by calling an OpenAI compatible chat model. The model output is treated as
// untrusted: it is parsed tolerantly and handed to the normalizer for
// validation, never trusted directly.
package extractor

import (
	"context"
	"errors"

	"github.com/targetkit/promptfilter/pkg/filter"
)

// Extractor produces unvalidated candidate filters for a prompt. The
// language hint is "en" or "ar" and is forwarded to the model so values get
// translated consistently.
type Extractor interface {
	Extract(ctx context.Context, prompt, language string) ([]filter.Candidate, error)
}

var (
	ErrMalformedResponse = errors.New("model response is not a filters object")
	ErrEmptyResponse     = errors.New("model returned no content")
)
