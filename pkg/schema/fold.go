// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips combining marks after canonical decomposition. For
// Arabic this removes tashkeel and reduces hamza carriers (أ/إ/آ) to the bare
// alef; for Latin it removes accents.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold maps a raw surface string to the form used as lookup key in all
// registry tables: trimmed, lower cased, diacritic free, with underscores and
// runs of whitespace collapsed to single spaces. Folding the same vocabulary
// entry in either language always yields the same key.
func Fold(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.Join(strings.Fields(s), " ")
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return folded
}
