/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: stats.go
Description: Statistics kept per candidate pattern: per-position length histograms, the
running coverage accumulator, and bounded diagnostic counters for matched and outlying
strings. All of them merge cleanly when the same pattern is discovered twice.
*/

package patterns

import (
	"fmt"
	"sort"
	"strings"
)

// LengthRange is an inclusive range of observed run lengths
type LengthRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// String renders "n" when the range is a single value, "min-max" otherwise
func (r LengthRange) String() string {
	if r.Min == r.Max {
		return fmt.Sprintf("%d", r.Min)
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// LengthHistogram maps an observed length to its occurrence count.
// The zero value is an empty histogram ready to use.
type LengthHistogram struct {
	counts map[int]int
}

// NewLengthHistogram creates an empty histogram
func NewLengthHistogram() *LengthHistogram {
	return &LengthHistogram{counts: make(map[int]int)}
}

// Observe records one occurrence of length
func (h *LengthHistogram) Observe(length int) {
	if h.counts == nil {
		h.counts = make(map[int]int)
	}
	h.counts[length]++
}

// Merge adds the counts of other key-wise
func (h *LengthHistogram) Merge(other *LengthHistogram) {
	// snapshot first so merging a histogram into itself doubles it
	counts := snapshot(other)
	if h.counts == nil {
		h.counts = make(map[int]int, len(counts))
	}
	for length, n := range counts {
		h.counts[length] += n
	}
}

func snapshot(h *LengthHistogram) map[int]int {
	if h == nil {
		return nil
	}
	out := make(map[int]int, len(h.counts))
	for k, v := range h.counts {
		out[k] = v
	}
	return out
}

// Range returns the smallest and largest observed lengths.
// ok is false when nothing has been observed.
func (h *LengthHistogram) Range() (r LengthRange, ok bool) {
	for length := range h.counts {
		if !ok {
			r = LengthRange{Min: length, Max: length}
			ok = true
			continue
		}
		if length < r.Min {
			r.Min = length
		}
		if length > r.Max {
			r.Max = length
		}
	}
	return r, ok
}

// Count returns how many times length was observed
func (h *LengthHistogram) Count(length int) int {
	return h.counts[length]
}

// Total returns the number of observations
func (h *LengthHistogram) Total() int {
	total := 0
	for _, n := range h.counts {
		total += n
	}
	return total
}

// Lengths returns the observed lengths in ascending order
func (h *LengthHistogram) Lengths() []int {
	lengths := make([]int, 0, len(h.counts))
	for length := range h.counts {
		lengths = append(lengths, length)
	}
	sort.Ints(lengths)
	return lengths
}

// Counts returns a copy of the raw length counts
func (h *LengthHistogram) Counts() map[int]int {
	return snapshot(h)
}

// Clone returns an independent copy
func (h *LengthHistogram) Clone() *LengthHistogram {
	return &LengthHistogram{counts: snapshot(h)}
}

// String renders "length:count" pairs in ascending length order
func (h *LengthHistogram) String() string {
	parts := make([]string, 0, len(h.counts))
	for _, length := range h.Lengths() {
		parts = append(parts, fmt.Sprintf("%d:%d", length, h.counts[length]))
	}
	return strings.Join(parts, " ")
}

// CoverageAccumulator tracks the running mean of coverage ratios
type CoverageAccumulator struct {
	sum   float64
	count int
}

// AccumulateSample folds one observed coverage ratio into the mean
func (a *CoverageAccumulator) AccumulateSample(ratio float64) {
	a.sum += ratio
	a.count++
}

// AccumulateOther folds another accumulator in (sum of sums, sum of counts)
func (a *CoverageAccumulator) AccumulateOther(other CoverageAccumulator) {
	a.sum += other.sum
	a.count += other.count
}

// Mean returns the running mean, or 0 before any sample
func (a CoverageAccumulator) Mean() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}

// Samples returns how many ratios have been folded in
func (a CoverageAccumulator) Samples() int {
	return a.count
}

// maxTrackedStrings caps the distinct strings a diagnostic counter remembers
const maxTrackedStrings = 256

// stringCounter counts occurrences per string for diagnostics.
// Past the cap only the total keeps growing.
type stringCounter struct {
	counts map[string]int
	total  int
}

func newStringCounter() *stringCounter {
	return &stringCounter{counts: make(map[string]int)}
}

func (c *stringCounter) add(s string, n int) {
	c.total += n
	if _, seen := c.counts[s]; seen || len(c.counts) < maxTrackedStrings {
		c.counts[s] += n
	}
}

// merge adds other's counts. Keys are visited in sorted order so the strings kept
// once the cap is reached do not depend on map iteration order.
func (c *stringCounter) merge(other *stringCounter) {
	counts := other.snapshot()
	total := other.total
	keys := make([]string, 0, len(counts))
	for s := range counts {
		keys = append(keys, s)
	}
	sort.Strings(keys)
	for _, s := range keys {
		if _, seen := c.counts[s]; seen || len(c.counts) < maxTrackedStrings {
			c.counts[s] += counts[s]
		}
	}
	c.total += total
}

func (c *stringCounter) snapshot() map[string]int {
	out := make(map[string]int, len(c.counts))
	for s, n := range c.counts {
		out[s] = n
	}
	return out
}

func (c *stringCounter) clone() *stringCounter {
	return &stringCounter{counts: c.snapshot(), total: c.total}
}
