// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/targetkit/promptfilter/internal/json"
	"github.com/targetkit/promptfilter/internal/log/zerolog"
	"github.com/targetkit/promptfilter/internal/progress"
	"github.com/targetkit/promptfilter/pkg/evaluation"
)

var evaluateCmd = &cobra.Command{
	Use:     "evaluate",
	Short:   "Evaluate runs a labelled prompt dataset through the parser and reports extraction accuracy",
	PreRunE: evaluateFlagBinding,
	RunE:    withProfiling(withSignalWatcher(evaluate)),
	Example: `
	promptfilter evaluate --dataset testdata/prompts.json
	promptfilter evaluate -d prompts.json --json
	promptfilter evaluate -d prompts.json --schema-file schema.yaml`,
}

var errMissingDataset = errors.New("missing dataset file, use --dataset")

var evaluateJSONOutput bool

func evaluateFlagBinding(cmd *cobra.Command, _ []string) error {
	evaluateJSONOutput = cmd.Flags().Lookup("json").Value.String() == trueStr
	return viper.BindPFlag("PROMPTFILTER_EVALUATION_DATASET", cmd.Flags().Lookup("dataset"))
}

func evaluate(ctx context.Context) error {
	logger := zerolog.NewLogger(&zerolog.Config{
		LogLevel: viper.GetString("PROMPTFILTER_LOG_LEVEL"),
	})
	zerolog.SetGlobalLogger(logger)
	stdLogger := zerolog.NewStdLogger(logger)

	datasetFile := viper.GetString("PROMPTFILTER_EVALUATION_DATASET")
	if datasetFile == "" {
		return errMissingDataset
	}

	dataset, err := evaluation.LoadDataset(datasetFile)
	if err != nil {
		return err
	}

	provider, err := newInstrumentationProvider()
	if err != nil {
		return err
	}
	defer provider.Close()

	parser, err := newParser(stdLogger, provider)
	if err != nil {
		return err
	}

	var bar progress.Bar = progress.NewCaseBar(len(dataset.TestCases), "evaluating prompts...")
	defer bar.Close()

	runner := evaluation.NewRunner(parser, evaluation.WithLogger(stdLogger))
	report, err := runner.Run(ctx, dataset, func(evaluation.CaseResult) {
		bar.Add(1)
	})
	if err != nil {
		return fmt.Errorf("running evaluation: %w", err)
	}

	return printReport(report)
}

func printReport(report *evaluation.Report) error {
	str := report.PrettyPrint()
	if evaluateJSONOutput {
		jsonData, err := json.MarshalIndent(report, "", "\t")
		if err != nil {
			return err
		}
		str = string(jsonData)
	}

	fmt.Println(str) //nolint:forbidigo
	return nil
}
