// Package agent implements the transport-agent host: the Agent contract,
// in-process and external collections of named agent implementations, and
// the mutex-and-condvar-guarded Instance/Recv transaction discipline that
// every collection's instances share (spec.md §4.5, §5).
package agent

// Agent is a pluggable transport endpoint. Init is called once, immediately
// after construction, before any other method. send/recv methods are never
// called concurrently with each other on the same Agent — Instance
// serializes every call behind its mutex.
type Agent interface {
	Init(args []string) error
	Send(data []byte) error
	RecvBegin() (int, error)
	RecvRead(index int) ([]byte, error)
	RecvCommit(num int) error
}

// Aborter is implemented by agents that need custom recv_abort behavior.
// An Agent not implementing Aborter gets the spec's default: RecvCommit(0).
type Aborter interface {
	RecvAbort() error
}

// Poller is implemented by agents with background work to drive or
// asynchronous errors to surface. An Agent not implementing Poller gets
// the spec's default: a no-op.
type Poller interface {
	Poll() error
}

func recvAbort(a Agent) error {
	if ab, ok := a.(Aborter); ok {
		return ab.RecvAbort()
	}
	return a.RecvCommit(0)
}

func poll(a Agent) error {
	if p, ok := a.(Poller); ok {
		return p.Poll()
	}
	return nil
}
