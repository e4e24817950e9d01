package pricing

import (
	"math/rand"

	"github.com/shopspring/decimal"
)

var (
	fallbackLow    = decimal.RequireFromString("2.5")
	fallbackSpread = decimal.RequireFromString("0.5")
	fallbackHigh   = fallbackLow.Add(fallbackSpread)
)

// RandSource yields floats uniformly distributed in [0, 1).
type RandSource interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// Fallback synthesizes placeholder prices in [2.5, 3.0) with two decimals.
type Fallback struct {
	rnd RandSource
}

// NewFallback uses the package-level math/rand source when rnd is nil.
func NewFallback(rnd RandSource) *Fallback {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &Fallback{rnd: rnd}
}

func (f *Fallback) Price() float64 {
	v := fallbackLow.Add(fallbackSpread.Mul(decimal.NewFromFloat(f.rnd.Float64())))
	rounded := v.Round(2)
	if rounded.GreaterThanOrEqual(fallbackHigh) {
		// keep the upper bound exclusive
		rounded = v.Truncate(2)
	}
	return rounded.InexactFloat64()
}
