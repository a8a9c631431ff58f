package agent

import "sync"

// Factory describes one in-process agent implementation: its name,
// description, and constructor. This is the Go equivalent of the
// original's link-time "distributed slice" registration (spec.md §9
// Design Notes) — since Go has no link-time slice collection, each
// reference agent package instead calls Register from its own init().
type Factory struct {
	Name        string
	Description string
	New         func() Agent
}

var (
	registryMu sync.Mutex
	registry   []Factory
)

// Register adds a factory to the process-global in-process registry. It is
// meant to be called from the init() function of a package implementing a
// reference agent (see agent/maildrop, agent/boltdrop), before any
// InProcess collection is constructed.
func Register(name, description string, newAgent func() Agent) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = append(registry, Factory{Name: name, Description: description, New: newAgent})
}

// registrySnapshot returns a stable, independently-owned copy of the
// registry as it stands at the moment InProcess collections are opened.
func registrySnapshot() []Factory {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make([]Factory, len(registry))
	copy(out, registry)
	return out
}
