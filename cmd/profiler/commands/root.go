/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: root.go
Description: Command tree for the Akaylee Profiler. Declares the root command, its
persistent logging flags and the analyze, tokenize, list-tokens and infer-grammar
subcommands, binding every flag to its viper key.
*/

package commands

import (
	"time"

	"github.com/kleascm/akaylee-profiler/pkg/patterns"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version of the profiler CLI
const Version = "1.0.0"

// NewRootCommand builds the full command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "akaylee-profiler",
		Short: "Akaylee Profiler - Format template discovery for string data",
		Long: `Akaylee Profiler samples a column of string values and discovers the format
templates they follow, such as {upper}-{digits} for invoice numbers. Each template comes
with its coverage, specificity, observed token lengths and a ready-to-use regular expression.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags
	rootCmd.PersistentFlags().String("config", "", "Configuration file path (yaml, json, toml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Use JSON log format")
	rootCmd.PersistentFlags().String("log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().String("log-dir", "", "Log file directory (empty logs to console only)")
	rootCmd.PersistentFlags().Int("log-max-files", 10, "Maximum number of log files to keep")
	rootCmd.PersistentFlags().Bool("log-caller", false, "Include caller location in logs")
	rootCmd.PersistentFlags().Bool("log-colors", true, "Colorize console logs")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("log_max_files", rootCmd.PersistentFlags().Lookup("log-max-files"))
	viper.BindPFlag("log_caller", rootCmd.PersistentFlags().Lookup("log-caller"))
	viper.BindPFlag("log_colors", rootCmd.PersistentFlags().Lookup("log-colors"))

	// Add analyze command
	analyzeCmd := &cobra.Command{
		Use:   "analyze [path-or-url]",
		Short: "Discover the format templates of a set of values",
		Long: `Load values from a text, CSV, JSON or JSON Lines file, an HTML page or a
browser-rendered page, run sampled pattern discovery and print the ranked templates.
Reports can be written as JSON, YAML or HTML.`,
		Args: cobra.MaximumNArgs(1),
		RunE: RunAnalyze,
	}
	addAnalysisFlags(analyzeCmd)

	analyzeCmd.Flags().String("source", "", "Path or URL to load values from")
	analyzeCmd.Flags().String("kind", "file", "Source kind (file, html, browser)")
	analyzeCmd.Flags().String("format", "", "File format (txt, csv, json, jsonl); inferred from the extension when empty")
	analyzeCmd.Flags().String("column", "", "CSV column name or zero-based index")
	analyzeCmd.Flags().String("field", "", "Dotted field path inside JSON records")
	analyzeCmd.Flags().String("selector", "", "CSS selector for html and browser sources (default td)")
	analyzeCmd.Flags().String("attribute", "", "Extract this attribute instead of element text")
	analyzeCmd.Flags().String("wait-for", "", "CSS selector to wait for before extracting (browser)")
	analyzeCmd.Flags().StringSlice("header", []string{}, "Request header for remote sources (Name: value)")
	analyzeCmd.Flags().Duration("timeout", 30*time.Second, "Timeout for remote sources")
	analyzeCmd.Flags().Bool("unique", false, "Drop duplicate values before analysis")

	analyzeCmd.Flags().String("report-dir", "./reports", "Directory for report files")
	analyzeCmd.Flags().StringSlice("report", []string{}, "Report formats to write (json, yaml, html)")
	analyzeCmd.Flags().Bool("histograms", false, "Include per-position length histograms")
	analyzeCmd.Flags().Int("top", 5, "Number of ranked patterns to log")

	viper.BindPFlag("source.location", analyzeCmd.Flags().Lookup("source"))
	viper.BindPFlag("source.kind", analyzeCmd.Flags().Lookup("kind"))
	viper.BindPFlag("source.format", analyzeCmd.Flags().Lookup("format"))
	viper.BindPFlag("source.column", analyzeCmd.Flags().Lookup("column"))
	viper.BindPFlag("source.field", analyzeCmd.Flags().Lookup("field"))
	viper.BindPFlag("source.selector", analyzeCmd.Flags().Lookup("selector"))
	viper.BindPFlag("source.attribute", analyzeCmd.Flags().Lookup("attribute"))
	viper.BindPFlag("source.wait_for", analyzeCmd.Flags().Lookup("wait-for"))
	viper.BindPFlag("source.headers", analyzeCmd.Flags().Lookup("header"))
	viper.BindPFlag("source.timeout", analyzeCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("source.unique", analyzeCmd.Flags().Lookup("unique"))
	viper.BindPFlag("report.dir", analyzeCmd.Flags().Lookup("report-dir"))
	viper.BindPFlag("report.formats", analyzeCmd.Flags().Lookup("report"))
	viper.BindPFlag("report.histograms", analyzeCmd.Flags().Lookup("histograms"))
	viper.BindPFlag("report.top", analyzeCmd.Flags().Lookup("top"))

	rootCmd.AddCommand(analyzeCmd)

	// Add tokenize command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "tokenize <value>...",
		Short: "Show how values split into tokens",
		Long: `Tokenize each value and print its fragments, the token each fragment maps to,
the canonical template and the open regular expression for that template.`,
		Args: cobra.MinimumNArgs(1),
		RunE: RunTokenize,
	})

	// Add list-tokens command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "list-tokens",
		Short: "List the token alphabet",
		Long: `List every delimiter and character-class token in precedence order with its
specificity and regular expression.`,
		Args: cobra.NoArgs,
		RunE: ListTokens,
	})

	// Add infer-grammar command for structure inference
	inferGrammarCmd := &cobra.Command{
		Use:   "infer-grammar",
		Short: "Infer structure from a sample corpus",
		Long: `Analyze a directory of sample files. Text corpora yield the templates of their
lines; JSON corpora yield per-field types, presence, ranges, enums and templates.`,
		Args: cobra.NoArgs,
		RunE: PerformGrammarInference,
	}
	addAnalysisFlags(inferGrammarCmd)
	inferGrammarCmd.Flags().String("corpus-dir", "./corpus", "Directory containing sample files")
	inferGrammarCmd.Flags().String("format", "auto", "Corpus format (text, json, auto)")
	inferGrammarCmd.Flags().String("output-dir", "./grammars", "Directory for the inferred grammar")

	viper.BindPFlag("inference.corpus_dir", inferGrammarCmd.Flags().Lookup("corpus-dir"))
	viper.BindPFlag("inference.format", inferGrammarCmd.Flags().Lookup("format"))
	viper.BindPFlag("inference.output_dir", inferGrammarCmd.Flags().Lookup("output-dir"))

	rootCmd.AddCommand(inferGrammarCmd)
	return rootCmd
}

// addAnalysisFlags declares the sampling flags shared by analyze and infer-grammar
func addAnalysisFlags(cmd *cobra.Command) {
	defaults := patterns.DefaultConfig()
	cmd.Flags().Float64("min-coverage", defaults.MinCoverage, "Minimum coverage for a pattern to be reported")
	cmd.Flags().Int("iterations", defaults.SamplingIterations, "Number of sampling iterations")
	cmd.Flags().Int("sample-size", defaults.SamplingSize, "Strings drawn per iteration")
	cmd.Flags().Int("max-tokens", defaults.MaxTokens, "Skip strings with more tokens than this")
	cmd.Flags().Int("min-examples", defaults.MinExamples, "Skip iterations with fewer usable strings")
	cmd.Flags().Int64("seed", defaults.RandomState, "Random seed for sampling")

	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		viper.BindPFlag("analysis.min_coverage", cmd.Flags().Lookup("min-coverage"))
		viper.BindPFlag("analysis.iterations", cmd.Flags().Lookup("iterations"))
		viper.BindPFlag("analysis.sample_size", cmd.Flags().Lookup("sample-size"))
		viper.BindPFlag("analysis.max_tokens", cmd.Flags().Lookup("max-tokens"))
		viper.BindPFlag("analysis.min_examples", cmd.Flags().Lookup("min-examples"))
		viper.BindPFlag("analysis.seed", cmd.Flags().Lookup("seed"))
	}
}
