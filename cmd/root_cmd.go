// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/targetkit/promptfilter/cmd/config"
	"github.com/targetkit/promptfilter/internal/profiling"
	"github.com/targetkit/promptfilter/pkg/agent"
	"github.com/targetkit/promptfilter/pkg/extractor"
	"github.com/targetkit/promptfilter/pkg/normalizer"
	normalizerinstrumentation "github.com/targetkit/promptfilter/pkg/normalizer/instrumentation"
	"github.com/targetkit/promptfilter/pkg/otel"

	loglib "github.com/targetkit/promptfilter/pkg/log"
)

// Version is the promptfilter version
var (
	Version = "development"
	Env     string
)

func Prepare() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "promptfilter",
		SilenceUsage: true,
		Version:      version(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			return nil
		},
	}

	viper.SetEnvPrefix("PROMPTFILTER")
	viper.AutomaticEnv()

	// Flag definition

	// root cmd
	rootCmd.PersistentFlags().StringP("config", "c", "", ".env or .yaml config file to use with promptfilter if any")
	rootCmd.PersistentFlags().String("log-level", "debug", "log level for the application. One of trace, debug, info, warn, error, fatal, panic")
	rootCmd.PersistentFlags().String("schema-file", "", "YAML file describing the audience filter schema. Defaults to the built in bilingual schema")

	// serve cmd
	serveCmd.Flags().String("address", "", "Address for the HTTP API to listen on (defaults to :8080)")
	serveCmd.Flags().Bool("profile", false, "Whether to expose a /debug/pprof endpoint on localhost:6060")

	// parse cmd
	parseCmd.Flags().Bool("json", false, "Output the parsed filters in JSON format")

	// evaluate cmd
	evaluateCmd.Flags().StringP("dataset", "d", "", "Path to a JSON dataset of prompts with expected filters")
	evaluateCmd.Flags().Bool("json", false, "Output the evaluation report in JSON format")
	evaluateCmd.Flags().Bool("profile", false, "Whether to produce CPU and memory profile files, as well as exposing a /debug/pprof endpoint on localhost:6060")

	// Flag binding for root cmd
	rootFlagBinding(rootCmd)

	// register subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(evaluateCmd)
	return rootCmd
}

// Execute executes the root command.
func Execute() error {
	cmd := Prepare()
	return cmd.Execute()
}

func withSignalWatcher(fn func(ctx context.Context) error) func(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	go func() {
		<-sigc
		cancel()
	}()

	return func(cmd *cobra.Command, args []string) error {
		defer cancel()
		return fn(ctx)
	}
}

func withProfiling(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) (err error) {
	return func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Lookup("profile").Value.String() == "false" {
			return fn(cmd, args)
		}

		profiling.StartProfilingServer("localhost:6060")
		// serve is a long running process, do not produce cpu/mem files but
		// rather expose the http endpoint only.
		if cmd.Name() == "serve" {
			return fn(cmd, args)
		}

		stopCPUProfile, err := profiling.StartCPUProfile("cpu.prof")
		if err != nil {
			return err
		}
		defer func() {
			stopCPUProfile()
			profiling.CreateMemoryProfile("mem.prof")
		}()

		return fn(cmd, args)
	}
}

func rootFlagBinding(cmd *cobra.Command) {
	viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("PROMPTFILTER_LOG_LEVEL", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("PROMPTFILTER_SCHEMA_FILE", cmd.PersistentFlags().Lookup("schema-file"))
}

func version() string {
	if Env != "" {
		return Env + " (" + Version + ")"
	}
	return Version
}

func newInstrumentationProvider() (otel.InstrumentationProvider, error) {
	cfg := config.ParseInstrumentationConfig()

	p, err := otel.NewInstrumentationProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialising instrumentation provider: %w", err)
	}
	return p, nil
}

// newParser assembles the full parsing pipeline: schema registry, LLM
// extractor and normalizer, wrapped by the agent.
func newParser(logger loglib.Logger, provider otel.InstrumentationProvider) (agent.Parser, error) {
	registry, err := config.ParseSchemaRegistry()
	if err != nil {
		return nil, fmt.Errorf("parsing schema registry: %w", err)
	}

	extractorCfg, err := config.ParseExtractorConfig()
	if err != nil {
		return nil, fmt.Errorf("parsing extractor config: %w", err)
	}

	llmExtractor, err := extractor.New(extractorCfg, registry, extractor.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("creating LLM extractor: %w", err)
	}

	var proc normalizer.Processor = normalizer.New(registry, normalizer.WithLogger(logger))
	proc, err = normalizerinstrumentation.NewNormalizer(proc, provider.NewInstrumentation("normalizer"))
	if err != nil {
		return nil, fmt.Errorf("instrumenting normalizer: %w", err)
	}

	return agent.New(llmExtractor, proc,
		agent.WithLogger(logger),
		agent.WithInstrumentation(provider.NewInstrumentation("agent")),
	), nil
}
