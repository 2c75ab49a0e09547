/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: sampler_test.go
Description: End-to-end tests for the sampling driver. Covers configuration validation,
full-population runs, outlier accounting, token filtering, skipped iterations and
seeded reproducibility over large populations.
*/

package patterns_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/kleascm/akaylee-profiler/pkg/patterns"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoiceConfig() *patterns.Config {
	config := patterns.DefaultConfig()
	config.MinCoverage = 0.5
	config.SamplingIterations = 1
	config.SamplingSize = 4
	config.MinExamples = 1
	return config
}

// TestConfigValidation tests rejection of invalid configurations
func TestConfigValidation(t *testing.T) {
	require.NoError(t, patterns.DefaultConfig().Validate())

	mutations := []func(c *patterns.Config){
		func(c *patterns.Config) { c.MinCoverage = -0.1 },
		func(c *patterns.Config) { c.MinCoverage = 1.5 },
		func(c *patterns.Config) { c.SamplingIterations = 0 },
		func(c *patterns.Config) { c.SamplingSize = -1 },
		func(c *patterns.Config) { c.MaxTokens = 0 },
		func(c *patterns.Config) { c.MinExamples = -2 },
	}
	for i, mutate := range mutations {
		config := patterns.DefaultConfig()
		mutate(config)
		err := config.Validate()
		require.Error(t, err, "mutation %d", i)
		assert.True(t, errors.Is(err, patterns.ErrInvalidConfig))

		_, err = patterns.AnalyzeTextPatterns([]string{"a"}, config)
		assert.ErrorIs(t, err, patterns.ErrInvalidConfig)
	}
}

// TestAnalyzeInvoiceNumbers tests discovery over a population smaller than the sample size
func TestAnalyzeInvoiceNumbers(t *testing.T) {
	strs := []string{"INV-0001", "INV-0002", "INV-0003", "PO-0099"}

	set, err := patterns.AnalyzeTextPatterns(strs, invoiceConfig())
	require.NoError(t, err)

	best, ok := set.BestExpression()
	require.True(t, ok)
	assert.Equal(t, "{upper}-{digits}", best.CanonicalForm())
	assert.Equal(t, 1.0, best.Coverage())
	assert.Empty(t, best.Outliers())
	assert.Equal(t, "{upper}2-3-{digits}4", best.AnnotatedForm())

	iterations, sampled := set.ExperimentStatistics()
	assert.Equal(t, 1, iterations)
	assert.Equal(t, 4, sampled)
}

// TestAnalyzeOutlier tests that a non-matching string keeps the best coverage above the
// threshold and is counted as exactly one outlier
func TestAnalyzeOutlier(t *testing.T) {
	base := []string{"INV-0001", "INV-0002", "INV-0003", "PO-0099"}
	before, err := patterns.AnalyzeTextPatterns(base, invoiceConfig())
	require.NoError(t, err)
	clean, ok := before.BestExpression()
	require.True(t, ok)
	require.Equal(t, 0, clean.OutlierCount())

	set, err := patterns.AnalyzeTextPatterns(append(base, "XX"), invoiceConfig())
	require.NoError(t, err)

	best, ok := set.BestExpression()
	require.True(t, ok)
	assert.Equal(t, "{upper}-{digits}", best.CanonicalForm())
	assert.GreaterOrEqual(t, best.Coverage(), 0.5)
	assert.InDelta(t, 0.75, best.Coverage(), 1e-12)
	assert.Equal(t, clean.OutlierCount()+1, best.OutlierCount())
	assert.Equal(t, map[string]int{"XX": 1}, best.Outliers())
	assert.Equal(t, 3, best.MatchCount())

	_, found := set.Lookup("{upper}")
	assert.True(t, found)
}

// TestAnalyzeOutlierFullPopulation tests the outlier count when the whole list is sampled
func TestAnalyzeOutlierFullPopulation(t *testing.T) {
	strs := []string{"INV-0001", "INV-0002", "INV-0003", "PO-0099", "XX"}
	config := invoiceConfig()
	config.SamplingSize = len(strs)

	set, err := patterns.AnalyzeTextPatterns(strs, config)
	require.NoError(t, err)

	best, ok := set.BestExpression()
	require.True(t, ok)
	assert.InDelta(t, 0.8, best.Coverage(), 1e-12)
	assert.Equal(t, 1, best.OutlierCount())
	assert.Equal(t, 1, best.Outliers()["XX"])
	assert.Equal(t, 4, best.MatchCount())
	assert.Equal(t, 1, best.CoverageSamples())

	ranked := set.RankedExpressions()
	require.Len(t, ranked, 1)
}

// TestAnalyzeNilConfigUsesDefaults tests the default configuration path
func TestAnalyzeNilConfigUsesDefaults(t *testing.T) {
	set, err := patterns.AnalyzeTextPatterns([]string{"2024-01-05", "2023-12-31", "1999-07-04"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.8, set.MinCoverage())

	best, ok := set.BestExpression()
	require.True(t, ok)
	assert.Equal(t, "{digits}-{digits}-{digits}", best.CanonicalForm())
	assert.Equal(t, "[0-9]{4}-[0-9]{2}-[0-9]{2}", best.Regex(true))
}

// TestAnalyzeMaxTokens tests that long strings are dropped before analysis
func TestAnalyzeMaxTokens(t *testing.T) {
	config := invoiceConfig()
	config.MaxTokens = 1

	set, err := patterns.AnalyzeTextPatterns([]string{"a-b-c-d", "x", "y"}, config)
	require.NoError(t, err)

	assert.Equal(t, 1, set.Len())
	_, ok := set.Lookup("{lower}")
	assert.True(t, ok)

	_, sampled := set.ExperimentStatistics()
	assert.Equal(t, 2, sampled)
}

// TestAnalyzeSkipsSmallSamples tests that iterations below min_examples leave the set untouched
func TestAnalyzeSkipsSmallSamples(t *testing.T) {
	config := patterns.DefaultConfig()
	config.MinExamples = 2

	set, err := patterns.AnalyzeTextPatterns([]string{"lonely"}, config)
	require.NoError(t, err)

	assert.Equal(t, 0, set.Len())
	iterations, sampled := set.ExperimentStatistics()
	assert.Equal(t, 0, iterations)
	assert.Equal(t, 0, sampled)
	_, ok := set.BestExpression()
	assert.False(t, ok)

	set, err = patterns.AnalyzeTextPatterns(nil, config)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

// TestAnalyzeLargePopulation tests bounded sampling and seeded reproducibility
func TestAnalyzeLargePopulation(t *testing.T) {
	strs := make([]string, 0, 1000)
	for i := 0; i < 1000; i++ {
		strs = append(strs, fmt.Sprintf("ID-%04d", i))
	}
	config := patterns.DefaultConfig()
	config.SamplingIterations = 5
	config.RandomState = 42

	var logs bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&logs)
	logger.SetLevel(logrus.DebugLevel)
	config.Logger = logger

	first, err := patterns.AnalyzeTextPatterns(strs, config)
	require.NoError(t, err)

	iterations, sampled := first.ExperimentStatistics()
	assert.Equal(t, 5, iterations)
	assert.Equal(t, 150, sampled)
	assert.Contains(t, logs.String(), "Sampling iteration completed")

	best, ok := first.BestExpression()
	require.True(t, ok)
	assert.Equal(t, "{upper}-{digits}", best.CanonicalForm())
	assert.Equal(t, 1.0, best.Coverage())
	assert.Equal(t, 150, best.MatchCount())
	assert.Equal(t, 5, best.CoverageSamples())

	config.Logger = nil
	second, err := patterns.AnalyzeTextPatterns(strs, config)
	require.NoError(t, err)
	assert.Equal(t, first.Summaries(true), second.Summaries(true))
}

// TestAnalyzePopulationInterface tests sampling from a custom Population
func TestAnalyzePopulationInterface(t *testing.T) {
	config := patterns.DefaultConfig()
	config.SamplingIterations = 3
	config.SamplingSize = 10

	set, err := patterns.Analyze(generatedPopulation(1_000_000), config)
	require.NoError(t, err)

	best, ok := set.BestExpression()
	require.True(t, ok)
	assert.Equal(t, "{title} {digits}", best.CanonicalForm())
}

// generatedPopulation produces values on demand without materialising them
type generatedPopulation int

func (g generatedPopulation) Len() int { return int(g) }

func (g generatedPopulation) At(i int) string { return fmt.Sprintf("Row %d", i) }
