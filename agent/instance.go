package agent

import (
	"fmt"
	"sync"
)

// Instance wraps a single Agent behind a mutex and condition variable,
// exactly per spec.md §4.5/§5: send and the receive operations are
// serialized, and at most one receive transaction is in progress at a
// time. Grounded on the original's dandelion-agent-host/src/instance.rs
// Instance/Recv/NotifyGuard triple, reimplemented with sync.Mutex +
// sync.Cond in place of Rust's Mutex<State> + Condvar + Drop guards.
type Instance struct {
	mu    sync.Mutex
	cond  *sync.Cond
	agent Agent
	busy  bool
}

// NewInstance wraps an Agent in an Instance. Reference agent packages use
// this directly when implementing a Collection outside this package (see
// agent/abi1.External, which wraps a dynamically loaded agent the same
// way InProcess wraps an in-process one).
func NewInstance(a Agent) *Instance {
	inst := &Instance{agent: a}
	inst.cond = sync.NewCond(&inst.mu)
	return inst
}

// Send acquires the instance mutex, forwards to the agent's Send, and
// releases. No suspension beyond what the underlying agent does.
func (inst *Instance) Send(data []byte) error {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.agent.Send(data)
}

// Poll acquires the instance mutex and forwards to the agent's optional
// Poll method (a no-op if the agent does not implement Poller).
func (inst *Instance) Poll() error {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return poll(inst.agent)
}

// RecvBegin acquires the mutex, waits on the condition variable while a
// receive transaction is already in progress, then opens one. The
// returned Recv is held exclusively by the caller until Commit or Close;
// no other caller may open a transaction on this Instance meanwhile.
func (inst *Instance) RecvBegin() (*Recv, error) {
	inst.mu.Lock()
	for inst.busy {
		inst.cond.Wait()
	}
	count, err := inst.agent.RecvBegin()
	if err != nil {
		inst.mu.Unlock()
		return nil, err
	}
	inst.busy = true
	inst.mu.Unlock()
	return &Recv{instance: inst, count: count}, nil
}

// Recv is the scoped handle for a single receive transaction. The first
// Commit or Close ends the transaction; every later Commit or Close on the
// same Recv is a no-op. A Recv abandoned without either is a caller bug
// (the transaction stays open forever) — callers should
// `defer recv.Close()` immediately after a successful RecvBegin, matching
// the original's Drop-based guarantee that Go has no language-level
// equivalent for.
type Recv struct {
	instance *Instance
	count    int
	done     bool
}

// Len returns the number of messages visible inside this transaction.
func (r *Recv) Len() int { return r.count }

// Read returns the bytes of the index-th message in this transaction. The
// returned slice is only valid until the next Read/Commit/Close call on
// this Recv.
func (r *Recv) Read(index int) ([]byte, error) {
	if index < 0 || index >= r.count {
		return nil, fmt.Errorf("agent: recv_read: index %d out of range [0,%d)", index, r.count)
	}
	r.instance.mu.Lock()
	defer r.instance.mu.Unlock()
	return r.instance.agent.RecvRead(index)
}

// Commit durably marks the first num messages (by index) as consumed and
// closes the transaction. num must be in [0, Len()].
func (r *Recv) Commit(num int) error {
	if r.done {
		return nil
	}
	if num < 0 || num > r.count {
		return fmt.Errorf("agent: recv_commit: num %d out of range [0,%d]", num, r.count)
	}
	r.instance.mu.Lock()
	defer func() {
		r.instance.busy = false
		r.instance.cond.Signal()
		r.instance.mu.Unlock()
	}()
	r.done = true
	return r.instance.agent.RecvCommit(num)
}

// CommitAll commits every message visible in this transaction.
func (r *Recv) CommitAll() error { return r.Commit(r.count) }

// Close aborts the transaction if it has not already been committed,
// best-effort, and swallows any secondary error from the abort per
// spec.md §7. Callers should defer Close immediately after RecvBegin
// succeeds.
func (r *Recv) Close() {
	if r.done {
		return
	}
	r.instance.mu.Lock()
	defer func() {
		r.instance.busy = false
		r.instance.cond.Signal()
		r.instance.mu.Unlock()
	}()
	r.done = true
	_ = recvAbort(r.instance.agent)
}
