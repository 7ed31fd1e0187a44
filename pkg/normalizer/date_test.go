// SPDX-License-Identifier: Apache-2.0

package normalizer

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/targetkit/promptfilter/pkg/filter"
	"github.com/targetkit/promptfilter/pkg/schema"
)

func TestNormalizer_normalizeDate(t *testing.T) {
	t.Parallel()

	// fixed reference time so relative phrases are deterministic
	now := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
	normalizer := New(schema.Default(), WithClock(clockwork.NewFakeClockAt(now)))

	tests := []struct {
		name string
		raw  string

		wantDate string
		wantKind filter.ErrorKind
	}{
		{
			name:     "iso date",
			raw:      "2023-06-15",
			wantDate: "2023-06-15",
		},
		{
			name:     "slashed date",
			raw:      "2023/06/15",
			wantDate: "2023-06-15",
		},
		{
			name:     "day first date",
			raw:      "15-06-2023",
			wantDate: "2023-06-15",
		},
		{
			name:     "month name with day and year",
			raw:      "Jan 15, 2023",
			wantDate: "2023-01-15",
		},
		{
			name:     "day before month name",
			raw:      "15 January 2023",
			wantDate: "2023-01-15",
		},
		{
			name:     "month and year resolve to first day",
			raw:      "Jan 2023",
			wantDate: "2023-01-01",
		},
		{
			name:     "numeric month and year resolve to first day",
			raw:      "2023-01",
			wantDate: "2023-01-01",
		},
		{
			name:     "arabic month and year",
			raw:      "يناير 2023",
			wantDate: "2023-01-01",
		},
		{
			name:     "arabic-indic digits in date",
			raw:      "٢٠٢٣-٠٦-١٥",
			wantDate: "2023-06-15",
		},
		{
			name:     "today",
			raw:      "today",
			wantDate: "2024-03-15",
		},
		{
			name:     "today in arabic",
			raw:      "اليوم",
			wantDate: "2024-03-15",
		},
		{
			name:     "yesterday",
			raw:      "yesterday",
			wantDate: "2024-03-14",
		},
		{
			name:     "last n days",
			raw:      "last 30 days",
			wantDate: "2024-02-14",
		},
		{
			name:     "in the past n days",
			raw:      "in the past 7 days",
			wantDate: "2024-03-08",
		},
		{
			name:     "last n days in arabic",
			raw:      "آخر 30 يوم",
			wantDate: "2024-02-14",
		},
		{
			name:     "error - bare year",
			raw:      "2023",
			wantKind: filter.AmbiguousDate,
		},
		{
			name:     "error - bare month",
			raw:      "January",
			wantKind: filter.AmbiguousDate,
		},
		{
			name:     "error - day overflow",
			raw:      "31 Feb 2023",
			wantKind: filter.AmbiguousDate,
		},
		{
			name:     "error - free text",
			raw:      "sometime soon",
			wantKind: filter.AmbiguousDate,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			filters, errs := normalizer.Normalize(context.Background(), []filter.Candidate{
				{Field: "joining_date", Operator: ">", Value: tc.raw},
			})

			if tc.wantKind != "" {
				require.Empty(t, filters)
				require.Len(t, errs, 1)
				require.Equal(t, tc.wantKind, errs[0].Kind)
				return
			}

			require.Empty(t, errs)
			require.Len(t, filters, 1)
			require.Equal(t, tc.wantDate, filters[0].Value)
		})
	}
}

func TestNormalizer_dateRange(t *testing.T) {
	t.Parallel()

	normalizer := New(schema.Default())

	tests := []struct {
		name  string
		value any

		wantValue any
		wantKind  filter.ErrorKind
	}{
		{
			name:      "normalized bounds in order",
			value:     []any{"Jan 2023", "2023-06-15"},
			wantValue: []any{"2023-01-01", "2023-06-15"},
		},
		{
			name:     "error - reversed date bounds",
			value:    []any{"2023-06-15", "Jan 2023"},
			wantKind: filter.MalformedRange,
		},
		{
			name:     "error - ambiguous bound",
			value:    []any{"2023", "2023-06-15"},
			wantKind: filter.AmbiguousDate,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			filters, errs := normalizer.Normalize(context.Background(), []filter.Candidate{
				{Field: "joining_date", Operator: "between", Value: tc.value},
			})

			if tc.wantKind != "" {
				require.Empty(t, filters)
				require.Len(t, errs, 1)
				require.Equal(t, tc.wantKind, errs[0].Kind)
				return
			}

			require.Empty(t, errs)
			require.Len(t, filters, 1)
			require.Equal(t, tc.wantValue, filters[0].Value)
		})
	}
}
