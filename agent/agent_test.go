package agent

import (
	"sync"
	"testing"
	"time"
)

// memAgent is a minimal in-memory Agent used to exercise Instance/Recv
// without depending on a real reference agent.
type memAgent struct {
	mu        sync.Mutex
	outbound  [][]byte
	inbound   [][]byte
	aborts    int
	abortFunc func() error
}

func (a *memAgent) Init([]string) error { return nil }

func (a *memAgent) Send(data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	cp := append([]byte(nil), data...)
	a.outbound = append(a.outbound, cp)
	return nil
}

func (a *memAgent) RecvBegin() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.inbound), nil
}

func (a *memAgent) RecvRead(index int) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inbound[index], nil
}

func (a *memAgent) RecvCommit(num int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inbound = a.inbound[num:]
	return nil
}

func (a *memAgent) RecvAbort() error {
	a.mu.Lock()
	a.aborts++
	a.mu.Unlock()
	if a.abortFunc != nil {
		return a.abortFunc()
	}
	return nil
}

func TestInstanceSendAndTransaction(t *testing.T) {
	a := &memAgent{inbound: [][]byte{[]byte("m1"), []byte("m2")}}
	inst := NewInstance(a)

	if err := inst.Send([]byte("hello")); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(a.outbound) != 1 || string(a.outbound[0]) != "hello" {
		t.Fatalf("unexpected outbound: %v", a.outbound)
	}

	recv, err := inst.RecvBegin()
	if err != nil {
		t.Fatalf("recv_begin: %v", err)
	}
	if recv.Len() != 2 {
		t.Fatalf("expected 2 messages, got %d", recv.Len())
	}
	m0, err := recv.Read(0)
	if err != nil || string(m0) != "m1" {
		t.Fatalf("read(0): %q, %v", m0, err)
	}
	m1, err := recv.Read(1)
	if err != nil || string(m1) != "m2" {
		t.Fatalf("read(1): %q, %v", m1, err)
	}
	if err := recv.Commit(1); err != nil {
		t.Fatalf("commit: %v", err)
	}

	recv2, err := inst.RecvBegin()
	if err != nil {
		t.Fatalf("recv_begin 2: %v", err)
	}
	defer recv2.Close()
	if recv2.Len() != 1 {
		t.Fatalf("expected 1 remaining message, got %d", recv2.Len())
	}
	m, err := recv2.Read(0)
	if err != nil || string(m) != "m2" {
		t.Fatalf("expected m2 remaining, got %q, %v", m, err)
	}
	recv2.CommitAll()
}

func TestRecvAbortOnCloseWithoutCommit(t *testing.T) {
	a := &memAgent{inbound: [][]byte{[]byte("m1"), []byte("m2")}}
	inst := NewInstance(a)

	recv, err := inst.RecvBegin()
	if err != nil {
		t.Fatalf("recv_begin: %v", err)
	}
	recv.Close()
	if a.aborts != 1 {
		t.Fatalf("expected exactly one abort, got %d", a.aborts)
	}

	recv2, err := inst.RecvBegin()
	if err != nil {
		t.Fatalf("recv_begin after abort: %v", err)
	}
	defer recv2.Close()
	if recv2.Len() != 2 {
		t.Fatalf("expected the same 2 messages to still be visible, got %d", recv2.Len())
	}
}

func TestConcurrentRecvBeginSerializes(t *testing.T) {
	a := &memAgent{inbound: [][]byte{[]byte("m1")}}
	inst := NewInstance(a)

	first, err := inst.RecvBegin()
	if err != nil {
		t.Fatalf("first recv_begin: %v", err)
	}

	second := make(chan *Recv, 1)
	go func() {
		r, err := inst.RecvBegin()
		if err != nil {
			t.Errorf("second recv_begin: %v", err)
			return
		}
		second <- r
	}()

	// The second goroutine must still be waiting; give it a moment to
	// prove it hasn't proceeded, then release the first transaction.
	select {
	case <-second:
		t.Fatalf("second recv_begin proceeded before the first committed")
	case <-time.After(50 * time.Millisecond):
	}

	if err := first.Commit(1); err != nil {
		t.Fatalf("commit: %v", err)
	}

	select {
	case r := <-second:
		r.Close()
	case <-time.After(time.Second):
		t.Fatalf("second recv_begin never proceeded after the first committed")
	}
}
