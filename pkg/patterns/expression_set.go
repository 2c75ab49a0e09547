/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: expression_set.go
Description: ExpressionSet owns every distinct candidate pattern discovered during sampling.
Candidates sharing a canonical form are merged instead of duplicated, and ranking queries
surface the informative ones in descending coverage/specificity order.
*/

package patterns

import (
	"iter"
	"sort"
)

// ExpressionSet is a deduplicated, merging collection of expressions keyed by canonical form.
// The zero value is an empty set with a minimum coverage of 0.
type ExpressionSet struct {
	minCoverage  float64
	expressions  map[string]*Expression
	iterations   int
	totalSampled int
}

// NewExpressionSet creates an empty set that surfaces expressions with coverage >= minCoverage
func NewExpressionSet(minCoverage float64) *ExpressionSet {
	return &ExpressionSet{
		minCoverage: minCoverage,
		expressions: make(map[string]*Expression),
	}
}

// MinCoverage returns the configured coverage threshold
func (s *ExpressionSet) MinCoverage() float64 { return s.minCoverage }

// Len returns the number of distinct expressions held, filtered or not
func (s *ExpressionSet) Len() int { return len(s.expressions) }

// Lookup returns the expression stored under a canonical form
func (s *ExpressionSet) Lookup(canonical string) (*Expression, bool) {
	e, ok := s.expressions[canonical]
	return e, ok
}

// Combine folds expressions into the set. A new canonical form is stored as is;
// a known one has its histograms, counters and coverage merged into the stored expression.
func (s *ExpressionSet) Combine(exprs ...*Expression) {
	for _, e := range exprs {
		if e == nil {
			continue
		}
		if s.expressions == nil {
			s.expressions = make(map[string]*Expression)
		}
		existing, ok := s.expressions[e.canonical]
		if !ok {
			s.expressions[e.canonical] = e
			continue
		}
		existing.merge(e)
	}
}

// RecordExperiment counts one sampling iteration over n strings
func (s *ExpressionSet) RecordExperiment(n int) {
	s.iterations++
	s.totalSampled += n
}

// ExperimentStatistics returns the number of iterations and strings sampled so far
func (s *ExpressionSet) ExperimentStatistics() (iterations, totalSampled int) {
	return s.iterations, s.totalSampled
}

// RankedExpressions returns the surfaced expressions, best first.
// Expressions below the coverage threshold and the bare wildcard are left out.
func (s *ExpressionSet) RankedExpressions() []*Expression {
	wildcard := Catalog().Wildcard().Symbol()
	ranked := make([]*Expression, 0, len(s.expressions))
	for canonical, e := range s.expressions {
		if canonical == wildcard || e.Coverage() < s.minCoverage {
			continue
		}
		ranked = append(ranked, e)
	}
	sortByRank(ranked)
	return ranked
}

// Ranked yields the surfaced expressions, best first
func (s *ExpressionSet) Ranked() iter.Seq[*Expression] {
	return func(yield func(*Expression) bool) {
		for _, e := range s.RankedExpressions() {
			if !yield(e) {
				return
			}
		}
	}
}

// BestExpression returns the top-ranked expression, or false when nothing qualifies
func (s *ExpressionSet) BestExpression() (*Expression, bool) {
	for e := range s.Ranked() {
		if e.Coverage() < s.minCoverage {
			return nil, false
		}
		return e, true
	}
	return nil, false
}

// sortByRank orders best first; exact ties fall back to canonical form for stable output
func sortByRank(exprs []*Expression) {
	sort.SliceStable(exprs, func(i, j int) bool {
		a, b := exprs[i], exprs[j]
		if a.RanksAbove(b) {
			return true
		}
		if b.RanksAbove(a) {
			return false
		}
		return a.canonical < b.canonical
	})
}
