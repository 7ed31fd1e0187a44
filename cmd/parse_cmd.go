// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/targetkit/promptfilter/internal/json"
	"github.com/targetkit/promptfilter/internal/log/zerolog"
)

var parseCmd = &cobra.Command{
	Use:   "parse <prompt>",
	Short: "Parse converts a natural language prompt into structured audience filters",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sp, _ := pterm.DefaultSpinner.WithText("parsing prompt...").Start()

		logger := zerolog.NewLogger(&zerolog.Config{
			LogLevel: viper.GetString("PROMPTFILTER_LOG_LEVEL"),
		})
		zerolog.SetGlobalLogger(logger)

		provider, err := newInstrumentationProvider()
		if err != nil {
			sp.Fail(err.Error())
			return err
		}
		defer provider.Close()

		parser, err := newParser(zerolog.NewStdLogger(logger), provider)
		if err != nil {
			sp.Fail(err.Error())
			return err
		}

		result, err := parser.Parse(context.Background(), strings.Join(args, " "))
		if err != nil {
			sp.Fail(err.Error())
			return err
		}

		if len(result.Errors) > 0 {
			sp.Warning("prompt parsed with ", len(result.Errors), " invalid filter(s)")
		} else {
			sp.Success("prompt parsed")
		}

		return print(cmd, result)
	},
	Example: `
	promptfilter parse "targeting female customers in Riyadh with more than 20 orders"
	promptfilter parse "استهداف العملاء الذكور في جدة" --json
	promptfilter parse --schema-file schema.yaml "customers who joined after Jan 2023"`,
}

const trueStr = "true"

type printer interface {
	PrettyPrint() string
}

func print(cmd *cobra.Command, p printer) error {
	str := p.PrettyPrint()
	if cmd.Flags().Lookup("json").Value.String() == trueStr {
		jsonData, err := json.MarshalIndent(p, "", "\t")
		if err != nil {
			return err
		}
		str = string(jsonData)
	}

	fmt.Println(str) //nolint:forbidigo
	return nil
}
