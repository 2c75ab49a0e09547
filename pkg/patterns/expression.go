/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: expression.go
Description: Expression is one candidate format template: an ordered token sequence with
per-position length histograms, a running coverage score and a specificity score. It can
render itself as a regular expression, test and score strings, and rank itself against
other candidates.
*/

package patterns

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// epsilon is the machine epsilon for float64
var epsilon = math.Nextafter(1, 2) - 1

// Expression is a candidate pattern and its accumulated statistics.
// It is not safe for concurrent use.
type Expression struct {
	tokens      []Token
	histograms  []*LengthHistogram
	coverage    CoverageAccumulator
	specificity float64
	canonical   string

	matches  *stringCounter
	outliers *stringCounter

	openMatcher  *regexp.Regexp
	rangeMatcher *regexp.Regexp // rebuilt lazily after histograms change
}

// NewExpression builds an expression from a token sequence
func NewExpression(tokens []Token) *Expression {
	e := &Expression{
		tokens:     make([]Token, len(tokens)),
		histograms: make([]*LengthHistogram, len(tokens)),
		matches:    newStringCounter(),
		outliers:   newStringCounter(),
	}
	copy(e.tokens, tokens)

	var symbols strings.Builder
	total := 0
	for i, tok := range e.tokens {
		e.histograms[i] = NewLengthHistogram()
		symbols.WriteString(tok.Symbol())
		total += tok.Specificity()
	}
	e.canonical = symbols.String()

	if len(e.tokens) == 0 {
		e.specificity = SpecificityLiteral
	} else {
		e.specificity = float64(total) / float64(len(e.tokens))
	}
	return e
}

// NewExpressionFromString tokenizes s and builds an expression from the result
func NewExpressionFromString(s string) *Expression {
	return NewExpression(Parse(s))
}

// Tokens returns a copy of the token sequence
func (e *Expression) Tokens() []Token {
	out := make([]Token, len(e.tokens))
	copy(out, e.tokens)
	return out
}

// Len returns the number of tokens
func (e *Expression) Len() int { return len(e.tokens) }

// Specificity returns the mean token specificity
func (e *Expression) Specificity() float64 { return e.specificity }

// Coverage returns the running mean of recorded coverage ratios
func (e *Expression) Coverage() float64 { return e.coverage.Mean() }

// CoverageSamples returns how many coverage ratios have been recorded
func (e *Expression) CoverageSamples() int { return e.coverage.Samples() }

// CanonicalForm is the token symbols concatenated; it identifies the pattern
func (e *Expression) CanonicalForm() string { return e.canonical }

// String implements fmt.Stringer
func (e *Expression) String() string { return e.canonical }

// AnnotatedForm suffixes every class token with its observed length range.
// Display only.
func (e *Expression) AnnotatedForm() string {
	var b strings.Builder
	for i, tok := range e.tokens {
		b.WriteString(tok.Symbol())
		if tok.IsDelimiter() {
			continue
		}
		if r, ok := e.histograms[i].Range(); ok {
			b.WriteString(r.String())
		}
	}
	return b.String()
}

// Histogram returns the length histogram at token position i
func (e *Expression) Histogram(i int) *LengthHistogram {
	return e.histograms[i].Clone()
}

// Histograms returns copies of every position's histogram
func (e *Expression) Histograms() []*LengthHistogram {
	out := make([]*LengthHistogram, len(e.histograms))
	for i, h := range e.histograms {
		out[i] = h.Clone()
	}
	return out
}

// Matches returns the tracked covered strings and their counts
func (e *Expression) Matches() map[string]int { return e.matches.snapshot() }

// Outliers returns the tracked uncovered strings and their counts
func (e *Expression) Outliers() map[string]int { return e.outliers.snapshot() }

// MatchCount returns the total number of covered strings recorded
func (e *Expression) MatchCount() int { return e.matches.total }

// OutlierCount returns the total number of uncovered strings recorded
func (e *Expression) OutlierCount() int { return e.outliers.total }

// Regex renders the expression as an unanchored regular expression
func (e *Expression) Regex(useLengthRanges bool) string {
	var b strings.Builder
	for i, tok := range e.tokens {
		var r *LengthRange
		if useLengthRanges {
			if observed, ok := e.histograms[i].Range(); ok {
				r = &observed
			}
		}
		b.WriteString(tok.Render(r))
	}
	return b.String()
}

func (e *Expression) matcher(useLengthRanges bool) *regexp.Regexp {
	if useLengthRanges {
		if e.rangeMatcher == nil {
			e.rangeMatcher = regexp.MustCompile("^(?:" + e.Regex(true) + ")$")
		}
		return e.rangeMatcher
	}
	if e.openMatcher == nil {
		e.openMatcher = regexp.MustCompile("^(?:" + e.Regex(false) + ")$")
	}
	return e.openMatcher
}

// Covers reports whether the expression matches the whole of s
func (e *Expression) Covers(s string, useLengthRanges bool) bool {
	return e.matcher(useLengthRanges).MatchString(s)
}

// ScoreCoverage returns the fraction of strings covered, 1.0 for an empty list.
// With record set, the ratio is folded into the running coverage, covered strings
// update the length histograms and match counter, and the rest update the outlier counter.
func (e *Expression) ScoreCoverage(strs []string, record, useLengthRanges bool) float64 {
	if len(strs) == 0 {
		return 1.0
	}

	re := e.matcher(useLengthRanges)
	covered := 0
	for _, s := range strs {
		if !re.MatchString(s) {
			if record {
				e.outliers.add(s, 1)
			}
			continue
		}
		covered++
		if record {
			e.align(s)
			e.matches.add(s, 1)
		}
	}

	ratio := float64(covered) / float64(len(strs))
	if record {
		e.coverage.AccumulateSample(ratio)
		e.rangeMatcher = nil
	}
	return ratio
}

// align walks the tokens left to right with a cursor into the string's fragments.
// A fragment the current token accepts is consumed; otherwise the token records a zero-length run.
// Class tokens never consume delimiter fragments.
func (e *Expression) align(s string) {
	catalog := Catalog()
	fragments := Split(s)
	j := 0
	for i, tok := range e.tokens {
		length := 0
		if j < len(fragments) && tok.Accepts(fragments[j]) &&
			(tok.IsDelimiter() || !catalog.IsDelimiter(fragments[j])) {
			length = utf8.RuneCountInString(fragments[j])
			j++
		}
		e.histograms[i].Observe(length)
	}
}

// F1Score scores the expression against positive and negative examples
func (e *Expression) F1Score(pos, neg []string, useLengthRanges bool) (f1, precision, recall float64) {
	recall = e.ScoreCoverage(pos, false, useLengthRanges)
	truePos := recall * float64(len(pos))
	falsePos := e.ScoreCoverage(neg, false, useLengthRanges) * float64(len(neg))

	precision = 1.0
	if truePos+falsePos > epsilon {
		precision = truePos / (truePos + falsePos)
	}

	f1 = 0.0
	if precision+recall > epsilon {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return f1, precision, recall
}

// SplitPosNeg partitions strings into covered and uncovered without recording anything
func (e *Expression) SplitPosNeg(strs []string, useLengthRanges bool) (covered, notCovered []string) {
	re := e.matcher(useLengthRanges)
	for _, s := range strs {
		if re.MatchString(s) {
			covered = append(covered, s)
		} else {
			notCovered = append(notCovered, s)
		}
	}
	return covered, notCovered
}

// RanksAbove reports whether e ranks strictly above other:
// higher coverage, or equal coverage and higher specificity.
func (e *Expression) RanksAbove(other *Expression) bool {
	ec, oc := e.Coverage(), other.Coverage()
	return ec > oc || (ec == oc && e.specificity > other.specificity)
}

// RanksAtLeast is the non-strict form of RanksAbove
func (e *Expression) RanksAtLeast(other *Expression) bool {
	ec, oc := e.Coverage(), other.Coverage()
	return ec > oc || (ec == oc && e.specificity >= other.specificity)
}

// merge folds the statistics of an expression with the same canonical form into e
func (e *Expression) merge(other *Expression) {
	if other == e {
		other = e.clone()
	}
	for i, h := range other.histograms {
		e.histograms[i].Merge(h)
	}
	e.matches.merge(other.matches)
	e.outliers.merge(other.outliers)
	e.coverage.AccumulateOther(other.coverage)
	e.rangeMatcher = nil
}

func (e *Expression) clone() *Expression {
	c := &Expression{
		tokens:      e.tokens,
		histograms:  make([]*LengthHistogram, len(e.histograms)),
		coverage:    e.coverage,
		specificity: e.specificity,
		canonical:   e.canonical,
		matches:     e.matches.clone(),
		outliers:    e.outliers.clone(),
		openMatcher: e.openMatcher,
	}
	for i, h := range e.histograms {
		c.histograms[i] = h.Clone()
	}
	return c
}
