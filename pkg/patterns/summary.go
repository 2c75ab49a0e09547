/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: summary.go
Description: Human-readable and structured summaries of an ExpressionSet for reporting
collaborators: pattern text, annotated lengths, tightened regex, coverage, specificity and
an optional per-position histogram dump.
*/

package patterns

import (
	"fmt"
	"io"
	"strings"
)

// HistogramDump describes the observed lengths at one token position
type HistogramDump struct {
	Position int         `json:"position" yaml:"position"`
	Symbol   string      `json:"symbol" yaml:"symbol"`
	Range    string      `json:"range,omitempty" yaml:"range,omitempty"`
	Counts   map[int]int `json:"counts" yaml:"counts"`
}

// ExpressionSummary is the reporting view of one ranked expression
type ExpressionSummary struct {
	Rank        int             `json:"rank" yaml:"rank"`
	Pattern     string          `json:"pattern" yaml:"pattern"`
	Annotated   string          `json:"annotated" yaml:"annotated"`
	Regex       string          `json:"regex" yaml:"regex"`
	Coverage    float64         `json:"coverage" yaml:"coverage"`
	Specificity float64         `json:"specificity" yaml:"specificity"`
	Matches     int             `json:"matches" yaml:"matches"`
	Outliers    int             `json:"outliers" yaml:"outliers"`
	Histograms  []HistogramDump `json:"histograms,omitempty" yaml:"histograms,omitempty"`
}

// Summarize builds the reporting view of an expression
func Summarize(e *Expression, rank int, includeHistograms bool) ExpressionSummary {
	summary := ExpressionSummary{
		Rank:        rank,
		Pattern:     e.CanonicalForm(),
		Annotated:   e.AnnotatedForm(),
		Regex:       e.Regex(true),
		Coverage:    e.Coverage(),
		Specificity: e.Specificity(),
		Matches:     e.MatchCount(),
		Outliers:    e.OutlierCount(),
	}
	if !includeHistograms {
		return summary
	}
	for i, tok := range e.tokens {
		dump := HistogramDump{
			Position: i,
			Symbol:   tok.Symbol(),
			Counts:   e.histograms[i].Counts(),
		}
		if r, ok := e.histograms[i].Range(); ok {
			dump.Range = r.String()
		}
		summary.Histograms = append(summary.Histograms, dump)
	}
	return summary
}

// Summaries returns the reporting view of every ranked expression, best first
func (s *ExpressionSet) Summaries(includeHistograms bool) []ExpressionSummary {
	ranked := s.RankedExpressions()
	out := make([]ExpressionSummary, len(ranked))
	for i, e := range ranked {
		out[i] = Summarize(e, i+1, includeHistograms)
	}
	return out
}

// WriteSummary prints the ranked expressions as plain text
func (s *ExpressionSet) WriteSummary(w io.Writer, includeHistograms bool) error {
	iterations, sampled := s.ExperimentStatistics()
	if _, err := fmt.Fprintf(w, "Iterations: %d, strings sampled: %d, distinct patterns: %d\n",
		iterations, sampled, s.Len()); err != nil {
		return err
	}

	summaries := s.Summaries(includeHistograms)
	if len(summaries) == 0 {
		_, err := fmt.Fprintf(w, "No pattern reached coverage %.2f\n", s.minCoverage)
		return err
	}

	for _, sum := range summaries {
		if _, err := fmt.Fprintf(w, "%2d. %s\n    coverage=%.3f specificity=%.2f matches=%d outliers=%d\n    regex: %s\n",
			sum.Rank, quoteControl(sum.Annotated), sum.Coverage, sum.Specificity, sum.Matches, sum.Outliers,
			quoteControl(sum.Regex)); err != nil {
			return err
		}
		for _, h := range sum.Histograms {
			if _, err := fmt.Fprintf(w, "    [%d] %-9s %-7s %s\n", h.Position, quoteControl(h.Symbol), h.Range,
				formatCounts(h.Counts)); err != nil {
				return err
			}
		}
	}
	return nil
}

// quoteControl makes newline and tab delimiters visible in terminal output
func quoteControl(s string) string {
	return strings.NewReplacer("\n", `\n`, "\t", `\t`).Replace(s)
}

func formatCounts(counts map[int]int) string {
	h := &LengthHistogram{counts: counts}
	return h.String()
}
