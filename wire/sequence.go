package wire

import "fmt"

// WriteSequence writes a usize count followed by each item's own encoding,
// the shared shape for every "Vec<T>"-style field (Messages, Claims, ...).
func WriteSequence[T Serializable](w *Writer, items []T) {
	mustFitU32(len(items))
	PutU32(w, uint32(len(items)))
	for _, item := range items {
		item.WireWrite(w)
	}
}

// SequenceWireSize computes the wire size of a sequence without encoding
// it: a usize count plus the sum of each item's own wire size.
func SequenceWireSize[T Serializable](items []T) int {
	size := USizeWireSize
	for _, item := range items {
		size += item.WireSize()
	}
	return size
}

// ReadSequence reads a usize count and decodes exactly that many items with
// read, returning a wire error if any item fails to decode.
func ReadSequence[T any](r *Reader, read func(*Reader) (T, error)) ([]T, error) {
	n, err := ReadUSize(r)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative sequence count", Error)
	}
	items := make([]T, 0, n)
	for i := 0; i < n; i++ {
		v, err := read(r)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}
