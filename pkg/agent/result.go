// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"fmt"
	"strings"
)

func (r *Result) PrettyPrint() string {
	if r == nil {
		return ""
	}

	var prettyPrint strings.Builder
	prettyPrint.WriteString(fmt.Sprintf("Detected language: %s\n", r.Language))
	if len(r.Filters) == 0 {
		prettyPrint.WriteString("No filters extracted\n")
	} else {
		prettyPrint.WriteString("Filters:\n")
		for _, f := range r.Filters {
			prettyPrint.WriteString(fmt.Sprintf(" - %s %s %v\n", f.Field, f.Operator, f.Value))
		}
	}

	if len(r.Errors) > 0 {
		prettyPrint.WriteString("Errors:\n")
		for _, validationErr := range r.Errors {
			prettyPrint.WriteString(fmt.Sprintf(" - %s\n", validationErr.Error()))
		}
	}

	return strings.TrimSuffix(prettyPrint.String(), "\n")
}
