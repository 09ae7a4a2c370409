// Package scoring maps raw benchmark scores onto a comparable [0,1] scale.
package scoring

import (
	"math"
	"strings"

	"github.com/aclements/go-moremath/stats"
)

// Default scoring configuration constants.
const (
	DefaultDivisor = 100
	maxNormalized  = 1
	// DefaultKey is the divisor table key used for benchmarks without an entry.
	DefaultKey = "default"
)

// DefaultDivisors returns the stock divisor table.
func DefaultDivisors() map[string]float64 {
	return map[string]float64{
		DefaultKey: DefaultDivisor,
		"eci":      200,
	}
}

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithDivisors replaces the divisor table. Non-positive divisors are ignored;
// the "default" key overrides the fallback divisor.
func WithDivisors(divisors map[string]float64) Option {
	return func(n *Normalizer) {
		// Copy the table to avoid external modifications
		n.divisors = make(map[string]float64, len(divisors))
		for id, d := range divisors {
			if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
				continue
			}
			if strings.EqualFold(id, DefaultKey) {
				n.fallback = d
				continue
			}
			n.divisors[id] = d
		}
	}
}

// Normalizer divides a raw score by its benchmark's divisor and caps the
// result at 1. It is read-only after construction and safe for concurrent use.
type Normalizer struct {
	divisors map[string]float64
	fallback float64
}

// New creates a normalizer with the stock divisor table.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{fallback: DefaultDivisor}
	WithDivisors(DefaultDivisors())(n)

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Divisor returns the divisor applied to benchmarkID.
func (n *Normalizer) Divisor(benchmarkID string) float64 {
	if d, ok := n.divisors[benchmarkID]; ok {
		return d
	}
	return n.fallback
}

// Normalize maps raw onto [0,1] for benchmarkID. There is no floor and no
// rounding; NaN stays NaN.
func (n *Normalizer) Normalize(benchmarkID string, raw float64) float64 {
	return math.Min(raw/n.Divisor(benchmarkID), maxNormalized)
}

// Summary aggregates one model's scores across its benchmarks.
type Summary struct {
	Benchmarks     int     `json:"benchmarks" yaml:"benchmarks"`
	MeanRaw        float64 `json:"mean_raw" yaml:"mean_raw"`
	MeanNormalized float64 `json:"mean_normalized" yaml:"mean_normalized"`
}

// Summarize computes mean raw and mean normalized scores over scores, keyed
// by benchmark ID. NaN entries are skipped. An empty input yields a zero Summary.
func (n *Normalizer) Summarize(scores map[string]float64) Summary {
	raw := make([]float64, 0, len(scores))
	norm := make([]float64, 0, len(scores))
	for id, s := range scores {
		if math.IsNaN(s) {
			continue
		}
		raw = append(raw, s)
		norm = append(norm, n.Normalize(id, s))
	}
	if len(raw) == 0 {
		return Summary{}
	}
	return Summary{
		Benchmarks:     len(raw),
		MeanRaw:        stats.Mean(raw),
		MeanNormalized: stats.Mean(norm),
	}
}

// Stats describes the score distribution of one benchmark.
type Stats struct {
	Count int     `json:"count" yaml:"count"`
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
	Mean  float64 `json:"mean" yaml:"mean"`
}

// Describe computes count, bounds and mean of xs, skipping NaN values.
func Describe(xs []float64) Stats {
	clean := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			clean = append(clean, x)
		}
	}
	if len(clean) == 0 {
		return Stats{}
	}
	lo, hi := stats.Bounds(clean)
	return Stats{
		Count: len(clean),
		Min:   lo,
		Max:   hi,
		Mean:  stats.Mean(clean),
	}
}
