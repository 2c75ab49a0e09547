/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: sampler.go
Description: Sampling driver for format template discovery. Repeatedly draws seeded random
samples from a possibly huge population of strings, builds one candidate expression per
sampled string, scores it against the same sample and folds the candidates into a running
ExpressionSet. Work is bounded by iterations x sample size, never by population size.
*/

package patterns

import (
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// ErrInvalidConfig is wrapped by every configuration validation failure
var ErrInvalidConfig = errors.New("invalid analysis config")

// Config controls a pattern analysis run
type Config struct {
	MinCoverage        float64 `json:"min_coverage" yaml:"min_coverage" mapstructure:"min_coverage"`
	SamplingIterations int     `json:"sampling_iterations" yaml:"sampling_iterations" mapstructure:"iterations"`
	SamplingSize       int     `json:"sampling_size" yaml:"sampling_size" mapstructure:"sample_size"`
	MaxTokens          int     `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
	MinExamples        int     `json:"min_examples" yaml:"min_examples" mapstructure:"min_examples"`
	RandomState        int64   `json:"random_state" yaml:"random_state" mapstructure:"seed"`

	// Logger receives debug-level progress. Nil means silent.
	Logger logrus.FieldLogger `json:"-" yaml:"-" mapstructure:"-"`
}

// DefaultConfig returns the default analysis settings
func DefaultConfig() *Config {
	return &Config{
		MinCoverage:        0.8,
		SamplingIterations: 10,
		SamplingSize:       30,
		MaxTokens:          100,
		MinExamples:        2,
		RandomState:        0,
	}
}

// Validate checks the Config for invalid values
func (c *Config) Validate() error {
	if c.MinCoverage < 0 || c.MinCoverage > 1 {
		return fmt.Errorf("%w: min_coverage must be within [0, 1], got %v", ErrInvalidConfig, c.MinCoverage)
	}
	if c.SamplingIterations <= 0 {
		return fmt.Errorf("%w: sampling_iterations must be positive", ErrInvalidConfig)
	}
	if c.SamplingSize <= 0 {
		return fmt.Errorf("%w: sampling_size must be positive", ErrInvalidConfig)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("%w: max_tokens must be positive", ErrInvalidConfig)
	}
	if c.MinExamples < 0 {
		return fmt.Errorf("%w: min_examples must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Population is a random-access collection of strings to sample from
type Population interface {
	Len() int
	At(i int) string
}

// StringSlice adapts a []string to Population
type StringSlice []string

func (s StringSlice) Len() int { return len(s) }

func (s StringSlice) At(i int) string { return s[i] }

// AnalyzeTextPatterns discovers format templates describing strs.
// A nil config uses DefaultConfig.
func AnalyzeTextPatterns(strs []string, config *Config) (*ExpressionSet, error) {
	return Analyze(StringSlice(strs), config)
}

// Analyze runs the sampling driver over pop and returns the discovered expressions
func Analyze(pop Population, config *Config) (*ExpressionSet, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	log := config.Logger
	if log == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		log = silent
	}

	rng := rand.New(rand.NewSource(config.RandomState))
	set := NewExpressionSet(config.MinCoverage)

	size := pop.Len()
	iterations := config.SamplingIterations
	full := size <= config.SamplingSize
	if full {
		iterations = 1
	}

	for iteration := 0; iteration < iterations; iteration++ {
		var drawn []string
		if full {
			drawn = make([]string, size)
			for i := range drawn {
				drawn[i] = pop.At(i)
			}
		} else {
			drawn = drawSample(rng, pop, config.SamplingSize)
		}

		sample, tokens := filterByTokens(drawn, config.MaxTokens)
		if len(sample) < config.MinExamples {
			log.WithFields(logrus.Fields{
				"iteration":    iteration,
				"drawn":        len(drawn),
				"kept":         len(sample),
				"min_examples": config.MinExamples,
			}).Debug("Sampling iteration skipped")
			continue
		}

		candidates := buildCandidates(sample, tokens)
		set.Combine(candidates...)
		set.RecordExperiment(len(sample))

		log.WithFields(logrus.Fields{
			"iteration":   iteration,
			"sampled":     len(sample),
			"candidates":  len(candidates),
			"expressions": set.Len(),
		}).Debug("Sampling iteration completed")
	}

	return set, nil
}

// buildCandidates creates one expression per distinct template in the sample, in first-seen
// order, and scores it against the whole sample. Each sampled string reaches a template's
// counters once per iteration.
func buildCandidates(sample []string, tokens [][]Token) []*Expression {
	seen := make(map[string]struct{}, len(sample))
	candidates := make([]*Expression, 0, len(sample))
	for i := range sample {
		e := NewExpression(tokens[i])
		if _, dup := seen[e.canonical]; dup {
			continue
		}
		seen[e.canonical] = struct{}{}
		e.ScoreCoverage(sample, true, false)
		candidates = append(candidates, e)
	}
	return candidates
}

// drawSample picks k distinct elements without replacement using a sparse
// Fisher-Yates shuffle, so the cost depends on k and not on the population size.
func drawSample(rng *rand.Rand, pop Population, k int) []string {
	n := pop.Len()
	if k > n {
		k = n
	}
	swapped := make(map[int]int, k)
	sample := make([]string, k)
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		picked, ok := swapped[j]
		if !ok {
			picked = j
		}
		current, ok := swapped[i]
		if !ok {
			current = i
		}
		swapped[j] = current
		sample[i] = pop.At(picked)
	}
	return sample
}

// filterByTokens drops strings with more than maxTokens tokens and keeps the parse of the rest
func filterByTokens(strs []string, maxTokens int) ([]string, [][]Token) {
	kept := make([]string, 0, len(strs))
	parsed := make([][]Token, 0, len(strs))
	for _, s := range strs {
		tokens := Parse(s)
		if len(tokens) > maxTokens {
			continue
		}
		kept = append(kept, s)
		parsed = append(parsed, tokens)
	}
	return kept, parsed
}
