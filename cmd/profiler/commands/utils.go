/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the Akaylee Profiler commands. Loads configuration from
files and the environment, builds the logger, and translates viper settings into analysis,
source and logging configurations.
*/

package commands

import (
	"fmt"
	"strings"

	"github.com/kleascm/akaylee-profiler/pkg/logging"
	"github.com/kleascm/akaylee-profiler/pkg/patterns"
	"github.com/kleascm/akaylee-profiler/pkg/sources"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	viper.SetEnvPrefix("AKAYLEE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// SetupLogging builds the logger from the log_* settings, writing console output to stderr
func SetupLogging(cmd *cobra.Command) (*logging.Logger, error) {
	logger, err := logging.NewLoggerWithOutput(loggerConfig(), cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return logger, nil
}

func loggerConfig() *logging.LoggerConfig {
	config := logging.DefaultLoggerConfig()
	if level := viper.GetString("log_level"); level != "" {
		config.Level = logging.LogLevel(level)
	}
	if format := viper.GetString("log_format"); format != "" {
		config.Format = logging.LogFormat(format)
	}
	if viper.GetBool("json_logs") {
		config.Format = logging.LogFormatJSON
	}
	config.OutputDir = viper.GetString("log_dir")
	if maxFiles := viper.GetInt("log_max_files"); maxFiles > 0 {
		config.MaxFiles = maxFiles
	}
	config.Caller = viper.GetBool("log_caller")
	if viper.IsSet("log_colors") {
		config.Colors = viper.GetBool("log_colors")
	}
	return config
}

// analysisConfig reads the analysis.* settings over the defaults and validates them
func analysisConfig() (*patterns.Config, error) {
	config := patterns.DefaultConfig()
	if viper.IsSet("analysis.min_coverage") {
		config.MinCoverage = viper.GetFloat64("analysis.min_coverage")
	}
	if viper.IsSet("analysis.iterations") {
		config.SamplingIterations = viper.GetInt("analysis.iterations")
	}
	if viper.IsSet("analysis.sample_size") {
		config.SamplingSize = viper.GetInt("analysis.sample_size")
	}
	if viper.IsSet("analysis.max_tokens") {
		config.MaxTokens = viper.GetInt("analysis.max_tokens")
	}
	if viper.IsSet("analysis.min_examples") {
		config.MinExamples = viper.GetInt("analysis.min_examples")
	}
	if viper.IsSet("analysis.seed") {
		config.RandomState = viper.GetInt64("analysis.seed")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// sourceConfig reads the source.* settings. A positional argument overrides source.location.
func sourceConfig(args []string) (*sources.Config, error) {
	config := &sources.Config{
		Kind:      viper.GetString("source.kind"),
		Location:  viper.GetString("source.location"),
		Format:    viper.GetString("source.format"),
		Column:    viper.GetString("source.column"),
		Field:     viper.GetString("source.field"),
		Selector:  viper.GetString("source.selector"),
		Attribute: viper.GetString("source.attribute"),
		WaitFor:   viper.GetString("source.wait_for"),
		Timeout:   viper.GetDuration("source.timeout"),
		Unique:    viper.GetBool("source.unique"),
	}
	if len(args) > 0 {
		config.Location = args[0]
	}
	if config.Location == "" {
		return nil, fmt.Errorf("no source given: pass a path or URL, or set source.location")
	}

	headers, err := parseHeaders(viper.GetStringSlice("source.headers"))
	if err != nil {
		return nil, err
	}
	config.Headers = headers
	return config, nil
}

// parseHeaders turns "Name: value" pairs into a map
func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q, want \"Name: value\"", h)
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return headers, nil
}
