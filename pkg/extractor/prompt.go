// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/targetkit/promptfilter/pkg/schema"
)

// extractionPrompt instructs the model to return nothing but a filters JSON
// object over the closed field and operator vocabulary. Value canonicalisation
// hints reduce the amount of repair the normalizer has to do, but the
// normalizer remains the authority.
const extractionPrompt = `You are an expert at parsing natural language prompts into structured audience filters.

Your task is to extract filters from the user's prompt and convert them into a structured JSON format.

Supported fields:
{{ join ", " .Fields }}

Supported operators:
{{ join ", " .Operators }}
(use "between" for ranges, with the value as a list of two elements)

Guidelines:
1. Extract ALL filters mentioned in the prompt.
2. Use exact field names from the supported fields list.
3. Convert dates to YYYY-MM-DD format when possible.
4. Preserve numeric values as numbers, not strings.
5. If the prompt is in Arabic, translate field values to English where appropriate.

User prompt ({{ .Language }}):
{{ .Prompt }}

You MUST respond with valid JSON in this exact format:
{"filters": [{"field": "field_name", "operator": "operator", "value": "value or [min, max] for between"}]}

If no filters can be extracted, return: {"filters": []}

Do not include any explanation, only return the JSON object.`

type promptData struct {
	Prompt    string
	Language  string
	Fields    []string
	Operators []string
}

func newPromptTemplate() (*template.Template, error) {
	return template.New("extraction").Funcs(sprig.TxtFuncMap()).Parse(extractionPrompt)
}

func renderPrompt(tmpl *template.Template, registry *schema.Registry, prompt, language string) (string, error) {
	operators := registry.Operators()
	operatorNames := make([]string, 0, len(operators))
	for _, op := range operators {
		operatorNames = append(operatorNames, string(op))
	}

	var buf strings.Builder
	err := tmpl.Execute(&buf, &promptData{
		Prompt:    prompt,
		Language:  language,
		Fields:    registry.FieldNames(),
		Operators: operatorNames,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
