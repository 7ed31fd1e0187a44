// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/targetkit/promptfilter/pkg/filter"
)

const (
	minPromptLength = 3
	maxPromptLength = 1000
)

var (
	errPromptTooShort = fmt.Errorf("prompt must be at least %d characters", minPromptLength)
	errPromptTooLong  = fmt.Errorf("prompt must be at most %d characters", maxPromptLength)
	errPromptEmpty    = errors.New("prompt cannot be empty")
)

// ParseRequest is the transport payload for the parse endpoint. The prompt
// may be in English or Arabic.
type ParseRequest struct {
	Prompt string `json:"prompt"`
}

func (r *ParseRequest) validate() error {
	prompt := strings.TrimSpace(r.Prompt)
	length := utf8.RuneCountInString(prompt)
	switch {
	case length == 0:
		return errPromptEmpty
	case length < minPromptLength:
		return errPromptTooShort
	case length > maxPromptLength:
		return errPromptTooLong
	default:
		return nil
	}
}

// FilterResponse is the success payload: the full normalized filter list.
type FilterResponse struct {
	Filters []filter.Filter `json:"filters"`
}

// ErrorResponse is the failure payload. Details carries per candidate error
// messages under the "errors" key when validation failed.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

type ServiceInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Status  string `json:"status"`
}
