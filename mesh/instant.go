package mesh

import "meshwire.dev/core/wire"

// InstantWireSize is the fixed wire size of an Instant: a signed i64
// nanosecond count since an unspecified epoch.
const InstantWireSize = 8

// Instant is a point in time, represented identically to Duration (a
// signed nanosecond count since an unspecified epoch) and sharing its
// saturating-arithmetic rules and ±∞ sentinels.
type Instant int64

const (
	InstantMax = Instant(MaxNanos)
	InstantMin = Instant(MinNanos)
)

// InstantFromNanoseconds clamps n into [MinNanos, MaxNanos].
func InstantFromNanoseconds(n int64) Instant {
	return Instant(clampNanos(n))
}

// Nanoseconds returns the raw signed nanosecond count.
func (i Instant) Nanoseconds() int64 { return int64(i) }

// Add returns i advanced by d, saturating at ±MaxNanos.
func (i Instant) Add(d Duration) Instant {
	return Instant(saturatingAddNanos(int64(i), int64(d)))
}

// Sub returns the Duration between other and i (i - other), saturating at
// ±MaxNanos.
func (i Instant) Sub(other Instant) Duration {
	return Duration(saturatingAddNanos(int64(i), negateNanos(int64(other))))
}

// Less reports whether i is strictly before other.
func (i Instant) Less(other Instant) bool { return i < other }

// WireWrite writes the instant's i64 nanosecond count.
func (i Instant) WireWrite(w *wire.Writer) { wire.PutI64(w, int64(i)) }

// WireSize is always InstantWireSize.
func (Instant) WireSize() int { return InstantWireSize }

// ReadInstant reads a fixed i64 Instant.
func ReadInstant(r *wire.Reader) (Instant, error) {
	v, err := wire.ReadI64(r)
	if err != nil {
		return 0, err
	}
	return Instant(v), nil
}

// SkipInstant advances past an encoded Instant without decoding it.
func SkipInstant(r *wire.Reader) error { return wire.SkipFixed(r, InstantWireSize) }
