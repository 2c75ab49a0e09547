/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: text_inference.go
Description: Text structure inference engine. Treats every sample as newline-separated
values and runs pattern discovery over the combined values, producing a grammar whose root
rule lists the ranked format templates.
*/

package inference

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/kleascm/akaylee-profiler/pkg/patterns"
)

// TextInferenceEngine infers format templates from plain-text samples
type TextInferenceEngine struct {
	config *patterns.Config
}

// NewTextInferenceEngine creates a new text inference engine
func NewTextInferenceEngine(config *patterns.Config) *TextInferenceEngine {
	if config == nil {
		config = patterns.DefaultConfig()
	}
	return &TextInferenceEngine{config: config}
}

// InferStructure splits the samples into values and discovers their templates
func (e *TextInferenceEngine) InferStructure(samples [][]byte) (*Grammar, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	var values []string
	for i, sample := range samples {
		lines, err := splitLines(sample)
		if err != nil {
			return nil, fmt.Errorf("failed to read text sample %d: %w", i, err)
		}
		values = append(values, lines...)
	}

	set, err := patterns.AnalyzeTextPatterns(values, e.config)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze text samples: %w", err)
	}

	grammar := newGrammar(e.Format())
	root := map[string]interface{}{
		"patterns": set.Summaries(false),
	}
	if best, ok := set.BestExpression(); ok {
		root["best"] = best.CanonicalForm()
		root["regex"] = best.Regex(true)
	}
	grammar.Rules[grammar.RootRule] = root

	iterations, sampled := set.ExperimentStatistics()
	grammar.Metadata["samples"] = len(samples)
	grammar.Metadata["values"] = len(values)
	grammar.Metadata["iterations"] = iterations
	grammar.Metadata["sampled"] = sampled
	grammar.Metadata["min_coverage"] = set.MinCoverage()
	return grammar, nil
}

// Format returns the format handled by this engine
func (e *TextInferenceEngine) Format() string {
	return "text"
}

// maxLineSize bounds a single value read from a text sample
const maxLineSize = 16 * 1024 * 1024

// splitLines returns the non-blank lines of a sample with trailing CR stripped
func splitLines(sample []byte) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(sample))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
