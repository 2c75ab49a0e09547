/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: analyze.go
Description: Analyze command implementation for the Akaylee Profiler. Loads values from the
configured source, runs sampled pattern discovery, prints the ranked templates and writes
the requested reports.
*/

package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kleascm/akaylee-profiler/pkg/patterns"
	"github.com/kleascm/akaylee-profiler/pkg/reporting"
	"github.com/kleascm/akaylee-profiler/pkg/sources"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunAnalyze loads a source and discovers the templates of its values
func RunAnalyze(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := SetupLogging(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	srcConfig, err := sourceConfig(args)
	if err != nil {
		return err
	}
	config, err := analysisConfig()
	if err != nil {
		return err
	}
	config.Logger = logger.GetLogger()

	src, err := sources.NewSource(srcConfig)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	values, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", src.Name(), err)
	}
	logger.LogSourceLoaded(src.Name(), len(values), time.Since(start))

	start = time.Now()
	set, err := patterns.AnalyzeTextPatterns(values, config)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	iterations, sampled := set.ExperimentStatistics()
	logger.LogAnalysis(iterations, sampled, set.Len(), time.Since(start))

	top := viper.GetInt("report.top")
	rank := 0
	for e := range set.Ranked() {
		if rank >= top {
			break
		}
		rank++
		logger.LogPattern(rank, e.CanonicalForm(), e.Coverage(), e.Specificity())
	}
	if rank == 0 {
		logger.LogNoPattern(config.MinCoverage)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Source: %s (%d values)\n", src.Name(), len(values))
	histograms := viper.GetBool("report.histograms")
	if err := set.WriteSummary(out, histograms); err != nil {
		return fmt.Errorf("failed to print summary: %w", err)
	}

	formats := viper.GetStringSlice("report.formats")
	if len(formats) == 0 {
		return nil
	}
	report := reporting.NewReport(src.Name(), len(values), config, set, histograms)
	dir := viper.GetString("report.dir")
	for _, format := range formats {
		format = strings.TrimSpace(format)
		path, err := report.Save(dir, format)
		if err != nil {
			return fmt.Errorf("failed to write %s report: %w", format, err)
		}
		logger.LogReport(path, format)
		fmt.Fprintf(out, "Report written: %s\n", path)
	}
	return nil
}
