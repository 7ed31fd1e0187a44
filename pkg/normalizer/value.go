// SPDX-License-Identifier: Apache-2.0

package normalizer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/targetkit/promptfilter/pkg/filter"
	"github.com/targetkit/promptfilter/pkg/schema"
)

// normalizeScalar dispatches on the field's declared type. The candidate
// value is untrusted JSON-like data, so every branch matches the possible
// runtime shapes explicitly instead of assuming one.
func (n *Normalizer) normalizeScalar(field *schema.FieldDefinition, raw any) (any, *filter.ValidationError) {
	switch field.Type {
	case schema.TypeBoolean:
		return n.normalizeBoolean(field, raw)
	case schema.TypeEnum:
		return n.normalizeEnum(field, raw)
	case schema.TypeString:
		str, ok := raw.(string)
		if !ok {
			return nil, invalidValueType(field, raw)
		}
		return strings.TrimSpace(str), nil
	case schema.TypeInteger:
		num, err := n.normalizeNumber(field, raw)
		if err != nil {
			return nil, err
		}
		if math.Trunc(num) != num {
			return nil, &filter.ValidationError{
				Kind:    filter.InvalidValueType,
				Message: fmt.Sprintf("field %q requires a whole number, got %v", field.Name, raw),
			}
		}
		return int64(num), nil
	case schema.TypeNumber:
		num, err := n.normalizeNumber(field, raw)
		if err != nil {
			return nil, err
		}
		return num, nil
	case schema.TypeDate:
		str, ok := raw.(string)
		if !ok {
			return nil, invalidValueType(field, raw)
		}
		return n.normalizeDate(field, str)
	default:
		return nil, invalidValueType(field, raw)
	}
}

func (n *Normalizer) normalizeBoolean(field *schema.FieldDefinition, raw any) (any, *filter.ValidationError) {
	switch val := raw.(type) {
	case bool:
		return val, nil
	case string:
		boolean, found := n.registry.ResolveBoolean(val)
		if !found {
			return nil, invalidValueType(field, raw)
		}
		return boolean, nil
	default:
		return nil, invalidValueType(field, raw)
	}
}

// normalizeEnum resolves the raw value against the field vocabulary case and
// diacritic insensitively, cross language included. A value outside the
// vocabulary is rejected rather than passed through.
func (n *Normalizer) normalizeEnum(field *schema.FieldDefinition, raw any) (any, *filter.ValidationError) {
	str, ok := raw.(string)
	if !ok {
		return nil, invalidValueType(field, raw)
	}
	canonical, found := field.CanonicalValue(str)
	if !found {
		return nil, invalidValueType(field, raw)
	}
	return canonical, nil
}

// numberPattern extracts the first numeric token from strings that carry
// units or surrounding text, e.g. "1,000 SAR" or "5 orders".
var numberPattern = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)

// arabicIndicDigits maps the Arabic-Indic digit block to ASCII digits.
var arabicIndicDigits = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

func (n *Normalizer) normalizeNumber(field *schema.FieldDefinition, raw any) (float64, *filter.ValidationError) {
	switch val := raw.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case string:
		normalized := arabicIndicDigits.Replace(val)
		normalized = strings.ReplaceAll(normalized, ",", "")
		normalized = strings.ReplaceAll(normalized, "٬", "")
		numeric := numberPattern.FindString(normalized)
		if numeric == "" {
			return 0, invalidValueType(field, raw)
		}
		num, err := strconv.ParseFloat(numeric, 64)
		if err != nil {
			return 0, invalidValueType(field, raw)
		}
		return num, nil
	default:
		// booleans and composite shapes never coerce to numbers
		return 0, invalidValueType(field, raw)
	}
}

// normalizeRange validates a `between` value: exactly two elements, each
// normalized per the field's scalar type, lower bound first. Equal bounds are
// a valid degenerate range.
func (n *Normalizer) normalizeRange(field *schema.FieldDefinition, raw any) (any, *filter.ValidationError) {
	elems, ok := rangeElements(raw)
	if !ok || len(elems) != 2 {
		return nil, &filter.ValidationError{
			Kind:    filter.MalformedRange,
			Message: fmt.Sprintf("operator %q requires exactly two values for field %q", schema.OpBetween, field.Name),
		}
	}

	low, err := n.normalizeScalar(field, elems[0])
	if err != nil {
		return nil, err
	}
	high, err := n.normalizeScalar(field, elems[1])
	if err != nil {
		return nil, err
	}

	inOrder, ok := boundsInOrder(low, high)
	if !ok {
		return nil, &filter.ValidationError{
			Kind:    filter.MalformedRange,
			Message: fmt.Sprintf("range bounds for field %q are not comparable", field.Name),
		}
	}
	if !inOrder {
		return nil, &filter.ValidationError{
			Kind:    filter.MalformedRange,
			Message: fmt.Sprintf("range for field %q must have its lower bound first", field.Name),
		}
	}

	return []any{low, high}, nil
}

func rangeElements(raw any) ([]any, bool) {
	switch val := raw.(type) {
	case []any:
		return val, true
	case []string:
		elems := make([]any, len(val))
		for i, s := range val {
			elems[i] = s
		}
		return elems, true
	case []float64:
		elems := make([]any, len(val))
		for i, f := range val {
			elems[i] = f
		}
		return elems, true
	case []int:
		elems := make([]any, len(val))
		for i, v := range val {
			elems[i] = v
		}
		return elems, true
	default:
		return nil, false
	}
}

// boundsInOrder compares two normalized scalar values of the same type.
// Dates compare lexically since they are canonicalised to YYYY-MM-DD.
func boundsInOrder(low, high any) (inOrder, comparable bool) {
	switch lo := low.(type) {
	case int64:
		hi, ok := high.(int64)
		if !ok {
			return false, false
		}
		return lo <= hi, true
	case float64:
		hi, ok := high.(float64)
		if !ok {
			return false, false
		}
		return lo <= hi, true
	case string:
		hi, ok := high.(string)
		if !ok {
			return false, false
		}
		return lo <= hi, true
	default:
		return false, false
	}
}

func invalidValueType(field *schema.FieldDefinition, raw any) *filter.ValidationError {
	return &filter.ValidationError{
		Kind:    filter.InvalidValueType,
		Message: fmt.Sprintf("invalid value for field %q of type %q: %v", field.Name, field.Type, raw),
	}
}
