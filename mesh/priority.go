package mesh

import (
	"fmt"

	"meshwire.dev/core/wire"
)

// Priority ranks a WantBlock request. Codes are totally ordered:
// Least < Low < Medium < High.
type Priority uint8

const (
	PriorityLeast  Priority = 0
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

// PriorityWireSize is the fixed wire size of a Priority: a single u8 code.
const PriorityWireSize = 1

func (p Priority) String() string {
	switch p {
	case PriorityLeast:
		return "Least"
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return fmt.Sprintf("Priority(%d)", uint8(p))
	}
}

// Less reports whether p ranks strictly below other.
func (p Priority) Less(other Priority) bool { return p < other }

// WireWrite writes the priority's u8 code.
func (p Priority) WireWrite(w *wire.Writer) { wire.PutU8(w, uint8(p)) }

// WireSize is always PriorityWireSize.
func (Priority) WireSize() int { return PriorityWireSize }

// ReadPriority reads a u8 code and rejects any value outside
// {Least, Low, Medium, High}.
func ReadPriority(r *wire.Reader) (Priority, error) {
	code, err := wire.ReadU8(r)
	if err != nil {
		return 0, err
	}
	p := Priority(code)
	switch p {
	case PriorityLeast, PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return 0, fmt.Errorf("%w: unknown priority code 0x%02x", wire.Error, code)
	}
}

// SkipPriority advances past an encoded Priority without validating it.
func SkipPriority(r *wire.Reader) error { return wire.SkipFixed(r, PriorityWireSize) }
