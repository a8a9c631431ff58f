package mesh

import (
	"math"

	"meshwire.dev/core/wire"
)

// DurationWireSize is the fixed wire size of a Duration: a signed i64
// nanosecond count.
const DurationWireSize = 8

// Duration is a signed nanosecond count. The sentinel values ±MaxNanos
// stand in for ±∞ and bound every saturating operation: arithmetic never
// produces a value outside [MinNanos, MaxNanos], and never overflows an
// int64 in doing so.
type Duration int64

const (
	// MaxNanos is the +∞ sentinel: math.MaxInt64.
	MaxNanos int64 = math.MaxInt64
	// MinNanos is the -∞ sentinel. It is -MaxNanos, not math.MinInt64, so
	// that negating MaxNanos and MinNanos round-trips exactly.
	MinNanos int64 = -math.MaxInt64
)

// DurationMax and DurationMin are Duration's ±∞ sentinels.
const (
	DurationMax = Duration(MaxNanos)
	DurationMin = Duration(MinNanos)
)

// FromNanoseconds clamps n into [MinNanos, MaxNanos].
func FromNanoseconds(n int64) Duration {
	return Duration(clampNanos(n))
}

// Nanoseconds returns the raw signed nanosecond count.
func (d Duration) Nanoseconds() int64 { return int64(d) }

// Add returns d+other, saturating at ±MaxNanos instead of overflowing.
func (d Duration) Add(other Duration) Duration {
	return Duration(saturatingAddNanos(int64(d), int64(other)))
}

// Sub returns d-other, saturating at ±MaxNanos instead of overflowing.
func (d Duration) Sub(other Duration) Duration {
	return Duration(saturatingAddNanos(int64(d), negateNanos(int64(other))))
}

// Neg returns -d, saturating (negating MinNanos yields MaxNanos and vice
// versa; both are representable since the sentinel range is symmetric).
func (d Duration) Neg() Duration { return Duration(negateNanos(int64(d))) }

// Less reports whether d is strictly less than other.
func (d Duration) Less(other Duration) bool { return d < other }

// WireWrite writes the duration's i64 nanosecond count.
func (d Duration) WireWrite(w *wire.Writer) { wire.PutI64(w, int64(d)) }

// WireSize is always DurationWireSize.
func (Duration) WireSize() int { return DurationWireSize }

// ReadDuration reads a fixed i64 Duration.
func ReadDuration(r *wire.Reader) (Duration, error) {
	v, err := wire.ReadI64(r)
	if err != nil {
		return 0, err
	}
	return Duration(v), nil
}

// SkipDuration advances past an encoded Duration without decoding it.
func SkipDuration(r *wire.Reader) error { return wire.SkipFixed(r, DurationWireSize) }

func clampNanos(n int64) int64 {
	if n > MaxNanos {
		return MaxNanos
	}
	if n < MinNanos {
		return MinNanos
	}
	return n
}

func negateNanos(n int64) int64 {
	// n is always within [MinNanos, MaxNanos] = [-MaxNanos, MaxNanos], so
	// -n is always representable as an int64 without overflow.
	return clampNanos(-n)
}

// saturatingAddNanos adds a and b, both already within [MinNanos,
// MaxNanos], detecting int64 overflow (which a plain a+b can still hit,
// since MaxNanos+MaxNanos exceeds int64's range) and clamping the result
// into the sentinel range on overflow just as on ordinary out-of-range
// results.
func saturatingAddNanos(a, b int64) int64 {
	sum := a + b
	if b > 0 && sum < a {
		return MaxNanos
	}
	if b < 0 && sum > a {
		return MinNanos
	}
	return clampNanos(sum)
}
