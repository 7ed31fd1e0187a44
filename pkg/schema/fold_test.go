// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string

		wantFolded string
	}{
		{
			name:       "lower cases and trims",
			raw:        "  Total_Orders ",
			wantFolded: "total orders",
		},
		{
			name:       "collapses whitespace runs",
			raw:        "joining   date",
			wantFolded: "joining date",
		},
		{
			name:       "strips latin accents",
			raw:        "café",
			wantFolded: "cafe",
		},
		{
			name:       "strips arabic tashkeel",
			raw:        "ذَكَر",
			wantFolded: "ذكر",
		},
		{
			name:       "reduces hamza carrier to bare alef",
			raw:        "أكثر من",
			wantFolded: "اكثر من",
		},
		{
			name:       "empty string",
			raw:        "",
			wantFolded: "",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.wantFolded, Fold(tc.raw))
		})
	}
}

func TestFold_idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"Total_Orders", "أكثر من", "ذَكَر", "  joining   date "}
	for _, input := range inputs {
		once := Fold(input)
		require.Equal(t, once, Fold(once))
	}
}
