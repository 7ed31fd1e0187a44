// SPDX-License-Identifier: Apache-2.0

package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRequest_validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prompt string

		wantErr error
	}{
		{
			name:   "ok",
			prompt: "female customers in Riyadh",
		},
		{
			name:   "ok - arabic prompt counts runes not bytes",
			prompt: "استهداف العملاء",
		},
		{
			name:   "ok - exactly max length",
			prompt: strings.Repeat("a", maxPromptLength),
		},
		{
			name:    "error - empty",
			prompt:  "",
			wantErr: errPromptEmpty,
		},
		{
			name:    "error - whitespace only",
			prompt:  "   \t ",
			wantErr: errPromptEmpty,
		},
		{
			name:    "error - too short",
			prompt:  "hi",
			wantErr: errPromptTooShort,
		},
		{
			name:    "error - too long",
			prompt:  strings.Repeat("a", maxPromptLength+1),
			wantErr: errPromptTooLong,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := &ParseRequest{Prompt: tc.prompt}
			err := req.validate()
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
