// SPDX-License-Identifier: Apache-2.0

package evaluation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/targetkit/promptfilter/pkg/agent"
	agentmocks "github.com/targetkit/promptfilter/pkg/agent/mocks"
	"github.com/targetkit/promptfilter/pkg/filter"
)

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	dataset := &Dataset{
		TestCases: []Case{
			{
				Name:   "exact match",
				Prompt: "female customers",
				Expected: []filter.Filter{
					{Field: "gender", Operator: "=", Value: "Female"},
				},
			},
			{
				Name:   "order insensitive match",
				Prompt: "female customers in Riyadh",
				Expected: []filter.Filter{
					{Field: "gender", Operator: "=", Value: "Female"},
					{Field: "city", Operator: "=", Value: "Riyadh"},
				},
			},
			{
				Name:   "missing and extra filters",
				Prompt: "customers with many orders",
				Expected: []filter.Filter{
					{Field: "total_orders", Operator: ">", Value: float64(20)},
				},
			},
		},
	}

	parser := &agentmocks.Parser{
		ParseFn: func(ctx context.Context, prompt string) (*agent.Result, error) {
			switch prompt {
			case "female customers":
				return &agent.Result{Filters: []filter.Filter{
					{Field: "gender", Operator: "=", Value: "female"},
				}}, nil
			case "female customers in Riyadh":
				// reversed order, different casing
				return &agent.Result{Filters: []filter.Filter{
					{Field: "city", Operator: "=", Value: "riyadh"},
					{Field: "gender", Operator: "=", Value: "Female"},
				}}, nil
			default:
				return &agent.Result{Filters: []filter.Filter{
					{Field: "total_sales", Operator: ">", Value: float64(100)},
				}}, nil
			}
		},
	}

	var progressed int
	runner := NewRunner(parser)
	report, err := runner.Run(context.Background(), dataset, func(CaseResult) {
		progressed++
	})
	require.NoError(t, err)

	require.Equal(t, 3, report.Cases)
	require.Equal(t, 3, progressed)
	require.Equal(t, 2, report.Passed)
	require.Equal(t, 4, report.Expected)
	require.Equal(t, 3, report.Correct)
	require.InDelta(t, 0.75, report.Accuracy(), 0.001)

	failed := report.Results[2]
	require.False(t, failed.Passed())
	require.Len(t, failed.Missing, 1)
	require.Equal(t, "total_orders", failed.Missing[0].Field)
	require.Len(t, failed.Extra, 1)
	require.Equal(t, "total_sales", failed.Extra[0].Field)
}

func TestRunner_Run_parserError(t *testing.T) {
	t.Parallel()

	errTest := errors.New("oh noes")

	dataset := &Dataset{
		TestCases: []Case{
			{
				Name:   "model down",
				Prompt: "some prompt",
				Expected: []filter.Filter{
					{Field: "gender", Operator: "=", Value: "Female"},
				},
			},
		},
	}

	parser := &agentmocks.Parser{
		ParseFn: func(ctx context.Context, prompt string) (*agent.Result, error) {
			return nil, errTest
		},
	}

	report, err := NewRunner(parser).Run(context.Background(), dataset, nil)
	require.NoError(t, err)

	require.Equal(t, 0, report.Passed)
	require.Equal(t, 0, report.Correct)
	require.Equal(t, errTest.Error(), report.Results[0].Err)
	require.Len(t, report.Results[0].Missing, 1)
}

func TestRunner_Run_contextCancelled(t *testing.T) {
	t.Parallel()

	dataset := &Dataset{TestCases: []Case{{Name: "never runs", Prompt: "some prompt"}}}
	parser := &agentmocks.Parser{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(parser).Run(ctx, dataset, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMatchFilters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expected []filter.Filter
		actual   []filter.Filter

		wantCorrect int
		wantMissing int
		wantExtra   int
	}{
		{
			name: "numeric widths compare equal",
			expected: []filter.Filter{
				{Field: "total_orders", Operator: ">", Value: int64(20)},
			},
			actual: []filter.Filter{
				{Field: "total_orders", Operator: ">", Value: float64(20)},
			},
			wantCorrect: 1,
		},
		{
			name: "range values compare elementwise",
			expected: []filter.Filter{
				{Field: "store_rating", Operator: "between", Value: []any{float64(3), float64(5)}},
			},
			actual: []filter.Filter{
				{Field: "store_rating", Operator: "between", Value: []any{3, 5}},
			},
			wantCorrect: 1,
		},
		{
			name: "operator must match exactly",
			expected: []filter.Filter{
				{Field: "total_orders", Operator: ">", Value: float64(20)},
			},
			actual: []filter.Filter{
				{Field: "total_orders", Operator: ">=", Value: float64(20)},
			},
			wantMissing: 1,
			wantExtra:   1,
		},
		{
			name: "duplicate actuals only satisfy one expectation",
			expected: []filter.Filter{
				{Field: "gender", Operator: "=", Value: "Female"},
			},
			actual: []filter.Filter{
				{Field: "gender", Operator: "=", Value: "Female"},
				{Field: "gender", Operator: "=", Value: "Female"},
			},
			wantCorrect: 1,
			wantExtra:   1,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			correct, missing, extra := matchFilters(tc.expected, tc.actual)
			require.Equal(t, tc.wantCorrect, correct)
			require.Len(t, missing, tc.wantMissing)
			require.Len(t, extra, tc.wantExtra)
		})
	}
}

func TestLoadDataset(t *testing.T) {
	t.Parallel()

	datasetJSON := `{
	"test_cases": [
		{
			"name": "simple",
			"prompt": "female customers",
			"language": "en",
			"expected_filters": [
				{"field": "gender", "operator": "=", "value": "Female"}
			]
		}
	]
}`

	path := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, os.WriteFile(path, []byte(datasetJSON), 0o600))

	dataset, err := LoadDataset(path)
	require.NoError(t, err)
	require.Len(t, dataset.TestCases, 1)
	require.Equal(t, "female customers", dataset.TestCases[0].Prompt)
	require.Equal(t, "gender", dataset.TestCases[0].Expected[0].Field)
}

func TestLoadDataset_errors(t *testing.T) {
	t.Parallel()

	_, err := LoadDataset(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
	_, err = LoadDataset(path)
	require.Error(t, err)
}
