// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/targetkit/promptfilter/internal/backoff"
	"github.com/targetkit/promptfilter/pkg/api"
	"github.com/targetkit/promptfilter/pkg/extractor"
	"github.com/targetkit/promptfilter/pkg/otel"
	"github.com/targetkit/promptfilter/pkg/schema"
)

var errMissingAPIKey = errors.New("missing OpenAI API key, set PROMPTFILTER_OPENAI_API_KEY")

func Load() error {
	return LoadFile(viper.GetString("config"))
}

func LoadFile(file string) error {
	if file != "" {
		viper.SetConfigFile(file)
		viper.SetConfigType(filepath.Ext(file)[1:])
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

func ParseServerConfig() *api.Config {
	return &api.Config{
		Address:      viper.GetString("PROMPTFILTER_API_ADDRESS"),
		ReadTimeout:  viper.GetDuration("PROMPTFILTER_API_READ_TIMEOUT"),
		WriteTimeout: viper.GetDuration("PROMPTFILTER_API_WRITE_TIMEOUT"),
	}
}

func ParseExtractorConfig() (*extractor.Config, error) {
	apiKey := viper.GetString("PROMPTFILTER_OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errMissingAPIKey
	}

	return &extractor.Config{
		Model:       viper.GetString("PROMPTFILTER_OPENAI_MODEL"),
		APIKey:      apiKey,
		BaseURL:     viper.GetString("PROMPTFILTER_OPENAI_BASE_URL"),
		Temperature: viper.GetFloat64("PROMPTFILTER_OPENAI_TEMPERATURE"),
		MaxTokens:   viper.GetInt("PROMPTFILTER_OPENAI_MAX_TOKENS"),
		Backoff:     parseBackoffConfig("PROMPTFILTER_OPENAI"),
	}, nil
}

// ParseSchemaRegistry loads the filter schema from the configured YAML file,
// falling back to the built in bilingual schema when none is set.
func ParseSchemaRegistry() (*schema.Registry, error) {
	schemaFile := viper.GetString("PROMPTFILTER_SCHEMA_FILE")
	if schemaFile == "" {
		return schema.Default(), nil
	}

	registry, err := schema.LoadFile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("loading schema file %q: %w", schemaFile, err)
	}
	return registry, nil
}

func ParseInstrumentationConfig() *otel.Config {
	cfg := &otel.Config{}

	if metricsEndpoint := viper.GetString("PROMPTFILTER_METRICS_ENDPOINT"); metricsEndpoint != "" {
		cfg.Metrics = &otel.MetricsConfig{
			Endpoint:           metricsEndpoint,
			CollectionInterval: viper.GetDuration("PROMPTFILTER_METRICS_COLLECTION_INTERVAL"),
		}
	}

	if tracesEndpoint := viper.GetString("PROMPTFILTER_TRACES_ENDPOINT"); tracesEndpoint != "" {
		cfg.Traces = &otel.TracesConfig{
			Endpoint:    tracesEndpoint,
			SampleRatio: viper.GetFloat64("PROMPTFILTER_TRACES_SAMPLE_RATIO"),
		}
	}

	return cfg
}

func parseBackoffConfig(prefix string) backoff.Config {
	cfg := backoff.Config{}
	if interval := viper.GetDuration(fmt.Sprintf("%s_BACKOFF_INTERVAL", prefix)); interval != 0 {
		cfg.Constant = &backoff.ConstantConfig{
			Interval:   interval,
			MaxRetries: viper.GetUint(fmt.Sprintf("%s_BACKOFF_MAX_RETRIES", prefix)),
		}
		return cfg
	}

	if initialInterval := viper.GetDuration(fmt.Sprintf("%s_BACKOFF_INITIAL_INTERVAL", prefix)); initialInterval != 0 {
		cfg.Exponential = &backoff.ExponentialConfig{
			InitialInterval: initialInterval,
			MaxInterval:     maxInterval(prefix),
			MaxRetries:      viper.GetUint(fmt.Sprintf("%s_BACKOFF_MAX_RETRIES", prefix)),
		}
	}

	return cfg
}

func maxInterval(prefix string) time.Duration {
	if interval := viper.GetDuration(fmt.Sprintf("%s_BACKOFF_MAX_INTERVAL", prefix)); interval != 0 {
		return interval
	}
	return time.Minute
}
