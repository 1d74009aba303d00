package axis

import "math"

// Rounding selects how a mantissa is rounded up into a tick interval.
type Rounding int

const (
	// Whole rounds the mantissa up to the next integer.
	Whole Rounding = iota
	// Half rounds up to the next integer, then halves.
	Half
	// TenthHalf rounds up to the next tenth, then halves.
	TenthHalf
)

func (r Rounding) String() string {
	switch r {
	case Whole:
		return "whole"
	case Half:
		return "half"
	case TenthHalf:
		return "tenth-half"
	}
	return "unknown"
}

// mantissaDigits bounds the noise left over from m = v / 10^e.
const mantissaDigits = 1e9

// Scale is a fixed axis window with its tick spacing.
type Scale struct {
	Min  float64 `json:"rangeMin"`
	Max  float64 `json:"rangeMax"`
	Tick float64 `json:"tickInterval"`
}

// Axes pairs the energy and force scales of one chart.
type Axes struct {
	Energy Scale `json:"energy"`
	Force  Scale `json:"force"`
}

// Decompose splits |v| into m·10^e with 1 <= m < 10.
func Decompose(v float64) (mantissa float64, exponent int) {
	v = math.Abs(v)
	if v == 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, 0
	}
	exponent = int(math.Floor(math.Log10(v)))
	mantissa = v / math.Pow(10, float64(exponent))
	mantissa = math.Round(mantissa*mantissaDigits) / mantissaDigits
	// log10 can land one decade off right at powers of ten
	if mantissa >= 10 {
		mantissa /= 10
		exponent++
	} else if mantissa < 1 {
		mantissa *= 10
		exponent--
	}
	return mantissa, exponent
}

// Tick returns a "nice" tick interval covering the extreme value.
// Zero or non-finite extremes have no decade and yield 1.
func Tick(extreme float64, r Rounding) float64 {
	m, e := Decompose(extreme)
	if m == 0 {
		return 1
	}
	scale := math.Pow(10, float64(e))
	switch r {
	case Half:
		return math.Ceil(m) * scale / 2
	case TenthHalf:
		// match three printed decimals before rounding to the next tenth
		m = math.Round(m*1000) / 1000
		return math.Ceil(m*10) * scale / 10 / 2
	default:
		return math.Ceil(m) * scale
	}
}

// NewScale spans below ticks under zero and above ticks over it.
func NewScale(tick, below, above float64) Scale {
	return Scale{
		Min:  -below * tick,
		Max:  above * tick,
		Tick: tick,
	}
}

// Contains reports whether v lies inside the window.
func (s Scale) Contains(v float64) bool {
	return v >= s.Min && v <= s.Max
}

// Ticks lists the tick positions from Min to Max inclusive.
func (s Scale) Ticks() []float64 {
	if s.Tick <= 0 || s.Max < s.Min {
		return nil
	}
	n := int(math.Round((s.Max - s.Min) / s.Tick))
	ticks := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		ticks = append(ticks, s.Min+float64(i)*s.Tick)
	}
	return ticks
}
