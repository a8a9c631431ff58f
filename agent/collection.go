package agent

import "fmt"

// Collection enumerates a set of named agent implementations, either
// statically linked into this process or loaded from a shared library
// (agent/abi1.External implements this interface too).
type Collection interface {
	Len() int
	Name(index int) string
	Description(index int) string
	Instantiate(index int, args []string) (*Instance, error)
}

// Empty is a Collection with no agents.
type Empty struct{}

func (Empty) Len() int                  { return 0 }
func (Empty) Name(int) string           { panic("agent: Empty collection has no items") }
func (Empty) Description(int) string    { panic("agent: Empty collection has no items") }
func (Empty) Instantiate(int, []string) (*Instance, error) {
	panic("agent: Empty collection has no items")
}

// InProcess is a Collection backed by the package-level registry
// (agent.Register). Open a fresh InProcess to snapshot the registry as it
// stands at that moment; agents registered afterward are not visible to
// collections already open.
type InProcess struct {
	factories []Factory
}

// NewInProcess snapshots the current in-process registry into a Collection.
func NewInProcess() *InProcess {
	return &InProcess{factories: registrySnapshot()}
}

func (c *InProcess) Len() int { return len(c.factories) }

func (c *InProcess) Name(index int) string { return c.factories[index].Name }

func (c *InProcess) Description(index int) string { return c.factories[index].Description }

func (c *InProcess) Instantiate(index int, args []string) (*Instance, error) {
	if index < 0 || index >= len(c.factories) {
		return nil, fmt.Errorf("agent: instantiate: index %d out of range [0,%d)", index, len(c.factories))
	}
	a := c.factories[index].New()
	if err := a.Init(args); err != nil {
		return nil, fmt.Errorf("agent: init: %w", err)
	}
	return NewInstance(a), nil
}
