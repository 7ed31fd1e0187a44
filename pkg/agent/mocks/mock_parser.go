// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/targetkit/promptfilter/pkg/agent"
)

type Parser struct {
	ParseFn func(ctx context.Context, prompt string) (*agent.Result, error)
}

func (m *Parser) Parse(ctx context.Context, prompt string) (*agent.Result, error) {
	return m.ParseFn(ctx, prompt)
}
