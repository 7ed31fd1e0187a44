// SPDX-License-Identifier: Apache-2.0

package normalizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/targetkit/promptfilter/pkg/filter"
	"github.com/targetkit/promptfilter/pkg/schema"
)

func TestNormalizer_Normalize(t *testing.T) {
	t.Parallel()

	normalizer := New(schema.Default())

	tests := []struct {
		name       string
		candidates []filter.Candidate

		wantFilters []filter.Filter
		wantErrs    []filter.ValidationError
	}{
		{
			name: "field alias and operator phrase resolve to canonical forms",
			candidates: []filter.Candidate{
				{Field: "sex", Operator: "is", Value: "female"},
			},
			wantFilters: []filter.Filter{
				{Field: "gender", Operator: "=", Value: "Female"},
			},
		},
		{
			name: "arabic candidate",
			candidates: []filter.Candidate{
				{Field: "المدينة", Operator: "يساوي", Value: "الرياض"},
			},
			wantFilters: []filter.Filter{
				{Field: "city", Operator: "=", Value: "Riyadh"},
			},
		},
		{
			name: "numeric comparison with arabic operator",
			candidates: []filter.Candidate{
				{Field: "عدد الطلبات", Operator: "أكثر من", Value: float64(20)},
			},
			wantFilters: []filter.Filter{
				{Field: "total_orders", Operator: ">", Value: int64(20)},
			},
		},
		{
			name: "numeric string with unit text",
			candidates: []filter.Candidate{
				{Field: "total_sales", Operator: "at least", Value: "1,000 SAR"},
			},
			wantFilters: []filter.Filter{
				{Field: "total_sales", Operator: ">=", Value: float64(1000)},
			},
		},
		{
			name: "arabic-indic digits",
			candidates: []filter.Candidate{
				{Field: "total_orders", Operator: ">", Value: "٢٠"},
			},
			wantFilters: []filter.Filter{
				{Field: "total_orders", Operator: ">", Value: int64(20)},
			},
		},
		{
			name: "boolean phrase",
			candidates: []filter.Candidate{
				{Field: "no email", Operator: "=", Value: "yes"},
			},
			wantFilters: []filter.Filter{
				{Field: "doesnt_have_email", Operator: "=", Value: true},
			},
		},
		{
			name: "valid between range",
			candidates: []filter.Candidate{
				{Field: "store_rating", Operator: "between", Value: []any{float64(3), float64(5)}},
			},
			wantFilters: []filter.Filter{
				{Field: "store_rating", Operator: "between", Value: []any{float64(3), float64(5)}},
			},
		},
		{
			name: "equal range bounds are valid",
			candidates: []filter.Candidate{
				{Field: "store_rating", Operator: "between", Value: []any{float64(4), float64(4)}},
			},
			wantFilters: []filter.Filter{
				{Field: "store_rating", Operator: "between", Value: []any{float64(4), float64(4)}},
			},
		},
		{
			name: "month year date resolves to first day",
			candidates: []filter.Candidate{
				{Field: "joining_date", Operator: ">", Value: "Jan 2023"},
			},
			wantFilters: []filter.Filter{
				{Field: "joining_date", Operator: ">", Value: "2023-01-01"},
			},
		},
		{
			name: "error - unsupported field",
			candidates: []filter.Candidate{
				{Field: "email_open_rate", Operator: ">", Value: float64(0.5)},
			},
			wantFilters: []filter.Filter{},
			wantErrs: []filter.ValidationError{
				{Index: 0, Kind: filter.UnsupportedField},
			},
		},
		{
			name: "error - unsupported operator",
			candidates: []filter.Candidate{
				{Field: "total_orders", Operator: "approximately", Value: float64(10)},
			},
			wantFilters: []filter.Filter{},
			wantErrs: []filter.ValidationError{
				{Index: 0, Kind: filter.UnsupportedOperator},
			},
		},
		{
			name: "error - ordering operator on boolean field",
			candidates: []filter.Candidate{
				{Field: "doesnt_have_email", Operator: ">", Value: true},
			},
			wantFilters: []filter.Filter{},
			wantErrs: []filter.ValidationError{
				{Index: 0, Kind: filter.OperatorIncompatible},
			},
		},
		{
			name: "error - missing value",
			candidates: []filter.Candidate{
				{Field: "city", Operator: "=", Value: nil},
			},
			wantFilters: []filter.Filter{},
			wantErrs: []filter.ValidationError{
				{Index: 0, Kind: filter.MissingValue},
			},
		},
		{
			name: "error - blank string value counts as missing",
			candidates: []filter.Candidate{
				{Field: "city", Operator: "=", Value: "   "},
			},
			wantFilters: []filter.Filter{},
			wantErrs: []filter.ValidationError{
				{Index: 0, Kind: filter.MissingValue},
			},
		},
		{
			name: "error - enum value outside vocabulary",
			candidates: []filter.Candidate{
				{Field: "city", Operator: "=", Value: "Atlantis"},
			},
			wantFilters: []filter.Filter{},
			wantErrs: []filter.ValidationError{
				{Index: 0, Kind: filter.InvalidValueType},
			},
		},
		{
			name: "error - fractional value for integer field",
			candidates: []filter.Candidate{
				{Field: "total_orders", Operator: ">", Value: 2.5},
			},
			wantFilters: []filter.Filter{},
			wantErrs: []filter.ValidationError{
				{Index: 0, Kind: filter.InvalidValueType},
			},
		},
		{
			name: "error - reversed range bounds",
			candidates: []filter.Candidate{
				{Field: "store_rating", Operator: "between", Value: []any{float64(5), float64(3)}},
			},
			wantFilters: []filter.Filter{},
			wantErrs: []filter.ValidationError{
				{Index: 0, Kind: filter.MalformedRange},
			},
		},
		{
			name: "error - range with wrong arity",
			candidates: []filter.Candidate{
				{Field: "store_rating", Operator: "between", Value: []any{float64(3)}},
			},
			wantFilters: []filter.Filter{},
			wantErrs: []filter.ValidationError{
				{Index: 0, Kind: filter.MalformedRange},
			},
		},
		{
			name: "error - range with non list value",
			candidates: []filter.Candidate{
				{Field: "store_rating", Operator: "between", Value: float64(3)},
			},
			wantFilters: []filter.Filter{},
			wantErrs: []filter.ValidationError{
				{Index: 0, Kind: filter.MalformedRange},
			},
		},
		{
			name: "error - range element of wrong type keeps its own kind",
			candidates: []filter.Candidate{
				{Field: "store_rating", Operator: "between", Value: []any{"low", float64(5)}},
			},
			wantFilters: []filter.Filter{},
			wantErrs: []filter.ValidationError{
				{Index: 0, Kind: filter.InvalidValueType},
			},
		},
		{
			name: "error index refers to original candidate position",
			candidates: []filter.Candidate{
				{Field: "gender", Operator: "=", Value: "male"},
				{Field: "email_open_rate", Operator: ">", Value: float64(0.5)},
				{Field: "city", Operator: "=", Value: "jeddah"},
				{Field: "total_orders", Operator: "approximately", Value: float64(10)},
			},
			wantFilters: []filter.Filter{
				{Field: "gender", Operator: "=", Value: "Male"},
				{Field: "city", Operator: "=", Value: "Jeddah"},
			},
			wantErrs: []filter.ValidationError{
				{Index: 1, Kind: filter.UnsupportedField},
				{Index: 3, Kind: filter.UnsupportedOperator},
			},
		},
		{
			name:        "empty candidate list",
			candidates:  []filter.Candidate{},
			wantFilters: []filter.Filter{},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			filters, errs := normalizer.Normalize(context.Background(), tc.candidates)
			require.Equal(t, tc.wantFilters, filters)

			require.Len(t, errs, len(tc.wantErrs))
			for i, wantErr := range tc.wantErrs {
				require.Equal(t, wantErr.Index, errs[i].Index)
				require.Equal(t, wantErr.Kind, errs[i].Kind)
				require.NotEmpty(t, errs[i].Message)
			}
		})
	}
}

func TestNormalizer_Normalize_idempotent(t *testing.T) {
	t.Parallel()

	normalizer := New(schema.Default())

	candidates := []filter.Candidate{
		{Field: "sex", Operator: "is", Value: "female"},
		{Field: "عدد الطلبات", Operator: "أكثر من", Value: float64(20)},
		{Field: "joining_date", Operator: ">", Value: "15 Jan 2023"},
		{Field: "store_rating", Operator: "between", Value: []any{float64(3), float64(5)}},
	}

	once, errs := normalizer.Normalize(context.Background(), candidates)
	require.Empty(t, errs)

	reinput := make([]filter.Candidate, 0, len(once))
	for _, f := range once {
		reinput = append(reinput, filter.Candidate{Field: f.Field, Operator: f.Operator, Value: f.Value})
	}

	twice, errs := normalizer.Normalize(context.Background(), reinput)
	require.Empty(t, errs)
	require.Equal(t, once, twice)
}
