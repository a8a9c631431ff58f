package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Serializable is implemented by every wire type that does not have a
// fixed, compile-time-known size. FixedSize types additionally expose a
// package-level WireSize constant instead of (or in addition to) this
// method; see the per-type WireSize functions in this package and in mesh.
type Serializable interface {
	WireWrite(w *Writer)
	WireSize() int
}

// --- integers: big-endian, fixed-width ---

func PutU8(w *Writer, v uint8)   { w.PutByte(v) }
func PutI8(w *Writer, v int8)    { w.PutByte(uint8(v)) }
func PutU16(w *Writer, v uint16) { var b [2]byte; binary.BigEndian.PutUint16(b[:], v); w.PutSlice(b[:]) }
func PutI16(w *Writer, v int16)  { PutU16(w, uint16(v)) }
func PutU32(w *Writer, v uint32) { var b [4]byte; binary.BigEndian.PutUint32(b[:], v); w.PutSlice(b[:]) }
func PutI32(w *Writer, v int32)  { PutU32(w, uint32(v)) }
func PutU64(w *Writer, v uint64) { var b [8]byte; binary.BigEndian.PutUint64(b[:], v); w.PutSlice(b[:]) }
func PutI64(w *Writer, v int64)  { PutU64(w, uint64(v)) }

func PutU128(w *Writer, hi, lo uint64) { PutU64(w, hi); PutU64(w, lo) }
func PutI128(w *Writer, hi int64, lo uint64) { PutI64(w, hi); PutU64(w, lo) }

func PutF32(w *Writer, v float32) { PutU32(w, math.Float32bits(v)) }
func PutF64(w *Writer, v float64) { PutU64(w, math.Float64bits(v)) }

func PutBool(w *Writer, v bool) {
	if v {
		w.PutByte(1)
	} else {
		w.PutByte(0)
	}
}

func ReadU8(r *Reader) (uint8, error) {
	b, err := r.ReadExact(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func ReadI8(r *Reader) (int8, error) {
	v, err := ReadU8(r)
	return int8(v), err
}

func ReadU16(r *Reader) (uint16, error) {
	b, err := r.ReadExact(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func ReadI16(r *Reader) (int16, error) {
	v, err := ReadU16(r)
	return int16(v), err
}

func ReadU32(r *Reader) (uint32, error) {
	b, err := r.ReadExact(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func ReadI32(r *Reader) (int32, error) {
	v, err := ReadU32(r)
	return int32(v), err
}

func ReadU64(r *Reader) (uint64, error) {
	b, err := r.ReadExact(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func ReadI64(r *Reader) (int64, error) {
	v, err := ReadU64(r)
	return int64(v), err
}

func ReadU128(r *Reader) (hi, lo uint64, err error) {
	if hi, err = ReadU64(r); err != nil {
		return 0, 0, err
	}
	if lo, err = ReadU64(r); err != nil {
		return 0, 0, err
	}
	return hi, lo, nil
}

func ReadI128(r *Reader) (hi int64, lo uint64, err error) {
	var uhi uint64
	if uhi, err = ReadU64(r); err != nil {
		return 0, 0, err
	}
	if lo, err = ReadU64(r); err != nil {
		return 0, 0, err
	}
	return int64(uhi), lo, nil
}

func ReadF32(r *Reader) (float32, error) {
	v, err := ReadU32(r)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func ReadF64(r *Reader) (float64, error) {
	v, err := ReadU64(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func ReadBool(r *Reader) (bool, error) {
	v, err := ReadU8(r)
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: invalid bool byte 0x%02x", Error, v)
	}
}

// SkipFixed advances the reader by n bytes, the shared implementation for
// every fixed-size type's SkipFoo function.
func SkipFixed(r *Reader, n int) error {
	return r.Advance(n)
}

// SkipMany advances the reader by fixedSize*count bytes in one step, per
// spec.md §4.1. Overflow of the multiplication falls back to returning a
// wire error rather than looping (Go's type system gives WireSkip no
// generic per-item dispatch the way a per-type wire_skip method would in a
// language with a shared base trait object; since every caller here knows
// fixedSize statically, one checked multiplication is the correct and only
// path — see DESIGN.md for the Open Question this resolves).
func SkipMany(r *Reader, fixedSize, count int) error {
	if fixedSize < 0 || count < 0 {
		return fmt.Errorf("%w: negative skip-many size", Error)
	}
	if fixedSize != 0 && count > math.MaxInt/fixedSize {
		return fmt.Errorf("%w: skip-many size overflow", Error)
	}
	return r.Advance(fixedSize * count)
}

// USize is the wire representation of a length or count: u32 big-endian on
// the wire, decoded into a Go int and rejected if it would not fit in u32.
const USizeWireSize = 4

func PutUSize(w *Writer, v int) error {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return fmt.Errorf("%w: usize %d out of u32 range", Error, v)
	}
	PutU32(w, uint32(v))
	return nil
}

func ReadUSize(r *Reader) (int, error) {
	v, err := ReadU32(r)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// ConstantTimeEqual compares two fixed-size byte slices in constant time.
// Callers are responsible for ensuring both slices have the same
// application-level length; mismatched lengths compare unequal.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := range a {
		v |= a[i] ^ b[i]
	}
	return v == 0
}
