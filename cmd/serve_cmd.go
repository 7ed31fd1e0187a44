// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/targetkit/promptfilter/cmd/config"
	"github.com/targetkit/promptfilter/internal/log/zerolog"
	"github.com/targetkit/promptfilter/pkg/api"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Serve starts the HTTP API that parses natural language prompts into audience filters",
	PreRunE: serveFlagBinding,
	RunE:    withProfiling(withSignalWatcher(serve)),
	Example: `
	promptfilter serve
	promptfilter serve --address :9090
	promptfilter serve --config config.env --log-level info
	promptfilter serve --schema-file schema.yaml`,
}

func serveFlagBinding(cmd *cobra.Command, _ []string) error {
	return viper.BindPFlag("PROMPTFILTER_API_ADDRESS", cmd.Flags().Lookup("address"))
}

func serve(ctx context.Context) error {
	logger := zerolog.NewLogger(&zerolog.Config{
		LogLevel: viper.GetString("PROMPTFILTER_LOG_LEVEL"),
	})
	zerolog.SetGlobalLogger(logger)
	stdLogger := zerolog.NewStdLogger(logger)

	provider, err := newInstrumentationProvider()
	if err != nil {
		return err
	}
	defer provider.Close()

	parser, err := newParser(stdLogger, provider)
	if err != nil {
		return err
	}

	server := api.New(config.ParseServerConfig(), parser,
		api.WithLogger(stdLogger),
		api.WithVersion(version()),
	)

	serverErrs := make(chan error, 1)
	go func() {
		serverErrs <- server.Start()
	}()

	select {
	case err := <-serverErrs:
		if err != nil {
			return fmt.Errorf("running API server: %w", err)
		}
		return nil
	case <-ctx.Done():
		return server.Shutdown(context.Background())
	}
}
