// SPDX-License-Identifier: Apache-2.0

package normalizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/targetkit/promptfilter/pkg/filter"
	"github.com/targetkit/promptfilter/pkg/schema"
)

// canonicalDateFormat is the single date representation produced by the
// normalizer.
const canonicalDateFormat = "2006-01-02"

// absoluteDateLayouts are tried in order against the raw value once digits
// are normalized. Layouts with named months only apply after month tokens
// have been translated, so they cover English input directly.
var absoluteDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2 2006",
	"January 2, 2006",
	"2 January 2006",
	"2006-01",
	"2006/01",
}

var (
	relativeDaysEN = regexp.MustCompile(`(?i)^(?:in\s+the\s+)?(?:last|past)\s+(\d+)\s+days?$`)
	relativeDaysAR = regexp.MustCompile(`^آخر\s+(\d+)\s+(?:يوم|أيام|يوما)$`)
	yearPattern    = regexp.MustCompile(`^\d{4}$`)
	dayPattern     = regexp.MustCompile(`^\d{1,2}$`)
)

// normalizeDate parses absolute dates in common formats and explicit relative
// phrases into the canonical YYYY-MM-DD form. Text that names a month and a
// year resolves to the first day of that month. Anything that cannot be
// pinned to a single calendar day is an ambiguous-date error; the normalizer
// never guesses.
func (n *Normalizer) normalizeDate(field *schema.FieldDefinition, raw string) (string, *filter.ValidationError) {
	value := strings.TrimSpace(arabicIndicDigits.Replace(raw))

	if date, ok := n.resolveRelativeDate(value); ok {
		return date, nil
	}

	for _, layout := range absoluteDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format(canonicalDateFormat), nil
		}
	}

	if date, ok := n.resolveNamedMonthDate(value); ok {
		return date, nil
	}

	return "", &filter.ValidationError{
		Kind:    filter.AmbiguousDate,
		Message: fmt.Sprintf("the date %q for field %q cannot be resolved to a specific day", raw, field.Name),
	}
}

func (n *Normalizer) resolveRelativeDate(value string) (string, bool) {
	lowered := strings.ToLower(value)
	switch lowered {
	case "today", "اليوم":
		return n.clock.Now().UTC().Format(canonicalDateFormat), true
	case "yesterday", "أمس", "امس":
		return n.clock.Now().UTC().AddDate(0, 0, -1).Format(canonicalDateFormat), true
	}

	match := relativeDaysEN.FindStringSubmatch(lowered)
	if match == nil {
		match = relativeDaysAR.FindStringSubmatch(value)
	}
	if match == nil {
		return "", false
	}

	days, err := strconv.Atoi(match[1])
	if err != nil {
		return "", false
	}
	return n.clock.Now().UTC().AddDate(0, 0, -days).Format(canonicalDateFormat), true
}

// resolveNamedMonthDate handles dates spelt with a month name in either
// language: "Jan 2023", "يناير 2023", "15 Jan 2023". A bare month or a bare
// year is left unresolved since it does not name a single day.
func (n *Normalizer) resolveNamedMonthDate(value string) (string, bool) {
	tokens := strings.FieldsFunc(value, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})

	var (
		month    time.Month
		hasMonth bool
		year     int
		hasYear  bool
		day      int
		hasDay   bool
	)
	for _, token := range tokens {
		switch {
		case !hasMonth && isMonthToken(n.registry, token):
			month, _ = n.registry.ResolveMonth(token)
			hasMonth = true
		case !hasYear && yearPattern.MatchString(token):
			year, _ = strconv.Atoi(token)
			hasYear = true
		case !hasDay && dayPattern.MatchString(token):
			day, _ = strconv.Atoi(token)
			hasDay = true
		default:
			// unknown token, the value is not a date we understand
			return "", false
		}
	}

	if !hasMonth || !hasYear {
		return "", false
	}
	if !hasDay {
		day = 1
	}

	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// reject day overflow, e.g. "31 Feb 2023" rolling over into March
	if date.Month() != month || date.Day() != day {
		return "", false
	}
	return date.Format(canonicalDateFormat), true
}

func isMonthToken(registry *schema.Registry, token string) bool {
	_, found := registry.ResolveMonth(token)
	return found
}
