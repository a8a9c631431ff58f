package wire

import (
	"fmt"
	"math"
)

// varLenWireSize returns the wire size of a usize-length-prefixed byte run
// of the given length.
func varLenWireSize(length int) int {
	return USizeWireSize + length
}

// mustFitU32 panics if n cannot be represented as the wire's u32 length
// prefix. This can only happen for an absurdly large in-memory value (more
// than 4 GiB), a programmer error rather than a recoverable condition — the
// same posture as the original's strict_add, which panics on overflow
// rather than returning a Result.
func mustFitU32(n int) {
	if n < 0 || uint64(n) > math.MaxUint32 {
		panic(fmt.Sprintf("wire: length %d does not fit in a u32 length prefix", n))
	}
}

// PutVarLen writes a usize length prefix followed by v verbatim: the
// encoding for Bytes and other variable-length byte sequences.
func PutVarLen(w *Writer, v []byte) {
	mustFitU32(len(v))
	PutU32(w, uint32(len(v)))
	w.PutSlice(v)
}

// PutVarLenFill writes a usize length prefix followed by count copies of
// fill: used by Message.Padding, whose body is n zero bytes.
func PutVarLenFill(w *Writer, fill byte, count int) {
	mustFitU32(count)
	PutU32(w, uint32(count))
	w.PutBytes(fill, count)
}

// ReadVarLen reads a usize length prefix and returns exactly that many
// bytes, or a wire error if the buffer is short. The returned slice aliases
// the Reader's backing array.
func ReadVarLen(r *Reader) ([]byte, error) {
	n, err := ReadUSize(r)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length prefix", Error)
	}
	return r.ReadExact(n)
}

// SkipVarLen reads a usize length prefix and advances past that many bytes,
// returning the skipped length. Used by ReadMessage (Padding), by
// SkipMessage, and by nested-type skipping in general.
func SkipVarLen(r *Reader) (int, error) {
	n, err := ReadUSize(r)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative length prefix", Error)
	}
	if err := r.Advance(n); err != nil {
		return 0, err
	}
	return n, nil
}

// NestedWireSize is the wire size of a value serialized into its own
// length-prefixed frame: the envelope a tagged-union variant body, or any
// "encrypt/sign the wire form of this sub-message" use, is wrapped in.
func NestedWireSize(inner Serializable) int {
	return varLenWireSize(inner.WireSize())
}

// NestedWrite serializes inner into a fresh buffer and emits it as a
// length-prefixed byte run.
func NestedWrite(w *Writer, inner Serializable) {
	nw := NewWriter(inner.WireSize())
	inner.WireWrite(nw)
	PutVarLen(w, nw.Bytes())
}

// NestedRead extracts a length-prefixed byte run and requires decode to
// read exactly the bytes within it, rejecting trailing bytes inside the
// nested frame.
func NestedRead[T any](r *Reader, read func(*Reader) (T, error)) (T, error) {
	var zero T
	payload, err := ReadVarLen(r)
	if err != nil {
		return zero, err
	}
	inner := NewReader(payload)
	v, err := read(inner)
	if err != nil {
		return zero, err
	}
	if !inner.AtEnd() {
		return zero, fmt.Errorf("%w: trailing bytes in nested frame", Error)
	}
	return v, nil
}

// Serialize writes v's wire encoding into a freshly sized buffer.
func Serialize(v Serializable) []byte {
	w := NewWriter(v.WireSize())
	v.WireWrite(w)
	return w.Bytes()
}

// Deserialize reads a T from buf and requires the whole buffer to be
// consumed, the wire-level round-trip contract every top-level decode must
// honor.
func Deserialize[T any](buf []byte, read func(*Reader) (T, error)) (T, error) {
	var zero T
	r := NewReader(buf)
	v, err := read(r)
	if err != nil {
		return zero, err
	}
	if !r.AtEnd() {
		return zero, fmt.Errorf("%w: trailing bytes after decode", Error)
	}
	return v, nil
}
