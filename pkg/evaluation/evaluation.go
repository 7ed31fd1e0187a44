// SPDX-License-Identifier: Apache-2.0

// Package evaluation runs a labelled prompt dataset through the parsing
// pipeline and measures how closely the produced filters match the expected
// ones. Matching is order insensitive and tolerant of case differences, so
// the metric reflects semantics rather than formatting.
package evaluation

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-cmp/cmp"

	jsonlib "github.com/targetkit/promptfilter/internal/json"
	"github.com/targetkit/promptfilter/pkg/agent"
	"github.com/targetkit/promptfilter/pkg/filter"
	loglib "github.com/targetkit/promptfilter/pkg/log"
	"github.com/targetkit/promptfilter/pkg/schema"
)

type Case struct {
	Name     string          `json:"name"`
	Prompt   string          `json:"prompt"`
	Language string          `json:"language"`
	Expected []filter.Filter `json:"expected_filters"`
}

type Dataset struct {
	TestCases []Case `json:"test_cases"`
}

func LoadDataset(path string) (*Dataset, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset file: %w", err)
	}

	dataset := &Dataset{}
	if err := jsonlib.Unmarshal(contents, dataset); err != nil {
		return nil, fmt.Errorf("parsing dataset file: %w", err)
	}
	return dataset, nil
}

// CaseResult describes the outcome for a single dataset case.
type CaseResult struct {
	Name    string          `json:"name"`
	Prompt  string          `json:"prompt"`
	Correct int             `json:"correct"`
	Missing []filter.Filter `json:"missing,omitempty"`
	Extra   []filter.Filter `json:"extra,omitempty"`
	Err     string          `json:"error,omitempty"`
}

func (cr *CaseResult) Passed() bool {
	return cr.Err == "" && len(cr.Missing) == 0 && len(cr.Extra) == 0
}

type Report struct {
	Results  []CaseResult `json:"results"`
	Cases    int          `json:"cases"`
	Passed   int          `json:"passed"`
	Expected int          `json:"expected_filters"`
	Correct  int          `json:"correct_filters"`
}

// Accuracy is the share of expected filters that were produced, across the
// whole dataset.
func (r *Report) Accuracy() float64 {
	if r.Expected == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Expected)
}

func (r *Report) PrettyPrint() string {
	if r == nil {
		return ""
	}

	var prettyPrint strings.Builder
	prettyPrint.WriteString(fmt.Sprintf("Cases: %d passed / %d total\n", r.Passed, r.Cases))
	prettyPrint.WriteString(fmt.Sprintf("Filter accuracy: %d/%d (%.1f%%)\n", r.Correct, r.Expected, r.Accuracy()*100))

	for _, caseResult := range r.Results {
		if caseResult.Passed() {
			continue
		}
		prettyPrint.WriteString(fmt.Sprintf("Failed case %q (%s):\n", caseResult.Name, caseResult.Prompt))
		if caseResult.Err != "" {
			prettyPrint.WriteString(fmt.Sprintf(" - error: %s\n", caseResult.Err))
		}
		for _, missing := range caseResult.Missing {
			prettyPrint.WriteString(fmt.Sprintf(" - missing: %s %s %v\n", missing.Field, missing.Operator, missing.Value))
		}
		for _, extra := range caseResult.Extra {
			prettyPrint.WriteString(fmt.Sprintf(" - extra: %s %s %v\n", extra.Field, extra.Operator, extra.Value))
		}
	}

	return strings.TrimSuffix(prettyPrint.String(), "\n")
}

type Runner struct {
	parser agent.Parser
	logger loglib.Logger
}

type Option func(*Runner)

func NewRunner(parser agent.Parser, opts ...Option) *Runner {
	r := &Runner{
		parser: parser,
		logger: loglib.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func WithLogger(l loglib.Logger) Option {
	return func(r *Runner) {
		r.logger = loglib.NewLogger(l).WithFields(loglib.Fields{
			loglib.ModuleField: "evaluation_runner",
		})
	}
}

// Run evaluates every case in the dataset sequentially. The onCase callback,
// if not nil, is invoked after each case so callers can report progress. The
// returned error only reflects context cancellation; model or validation
// failures are recorded per case.
func (r *Runner) Run(ctx context.Context, dataset *Dataset, onCase func(CaseResult)) (*Report, error) {
	report := &Report{
		Results: make([]CaseResult, 0, len(dataset.TestCases)),
		Cases:   len(dataset.TestCases),
	}

	for _, testCase := range dataset.TestCases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		caseResult := r.runCase(ctx, &testCase)
		report.Results = append(report.Results, caseResult)
		report.Expected += len(testCase.Expected)
		report.Correct += caseResult.Correct
		if caseResult.Passed() {
			report.Passed++
		}

		if onCase != nil {
			onCase(caseResult)
		}
	}

	r.logger.Info("evaluation completed", loglib.Fields{
		"cases":    report.Cases,
		"passed":   report.Passed,
		"accuracy": report.Accuracy(),
	})

	return report, nil
}

func (r *Runner) runCase(ctx context.Context, testCase *Case) CaseResult {
	caseResult := CaseResult{
		Name:    testCase.Name,
		Prompt:  testCase.Prompt,
		Missing: nil,
		Extra:   nil,
	}

	result, err := r.parser.Parse(ctx, testCase.Prompt)
	if err != nil {
		caseResult.Err = err.Error()
		caseResult.Missing = testCase.Expected
		return caseResult
	}
	if len(result.Errors) > 0 {
		caseResult.Err = fmt.Sprintf("prompt rejected: %v", filter.Messages(result.Errors))
	}

	caseResult.Correct, caseResult.Missing, caseResult.Extra = matchFilters(testCase.Expected, result.Filters)
	return caseResult
}

// matchFilters pairs expected and actual filters greedily. Each actual
// filter can satisfy at most one expected filter.
func matchFilters(expected, actual []filter.Filter) (correct int, missing, extra []filter.Filter) {
	matched := make([]bool, len(actual))

	for _, want := range expected {
		found := false
		for i, got := range actual {
			if matched[i] {
				continue
			}
			if filtersEquivalent(want, got) {
				matched[i] = true
				found = true
				break
			}
		}
		if found {
			correct++
		} else {
			missing = append(missing, want)
		}
	}

	for i, got := range actual {
		if !matched[i] {
			extra = append(extra, got)
		}
	}

	return correct, missing, extra
}

func filtersEquivalent(a, b filter.Filter) bool {
	if schema.Fold(a.Field) != schema.Fold(b.Field) || a.Operator != b.Operator {
		return false
	}
	return cmp.Equal(comparableValue(a.Value), comparableValue(b.Value))
}

// comparableValue folds strings and widens numbers so that values compare by
// meaning: "Female" matches "female", and an expected 5 matches the 5.0 that
// JSON decoding produces.
func comparableValue(value any) any {
	switch val := value.(type) {
	case string:
		return schema.Fold(val)
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case float32:
		return float64(val)
	case []any:
		normalized := make([]any, len(val))
		for i, elem := range val {
			normalized[i] = comparableValue(elem)
		}
		return normalized
	default:
		return val
	}
}
