// Command meshwire-agentlib is built with `go build -buildmode=c-shared`
// to produce a shared library exporting the meshwire_agent_abi1_ C ABI
// (agent/abi1) over every agent registered in the in-process registry
// (agent.Register), the server/export side of the ABI implemented by
// agent/abi1.External on the client side.
//
// Grounded on original_source/crates/dandelion-agent-lib/src/lib.rs's
// `export` module: the same 12 functions, the same transaction-protocol
// "BUG: ..." error strings, and the same argument/pointer lifetime
// contracts, reimplemented with runtime/cgo.Handle standing in for the
// original's Box::into_raw/from_raw pointer games.
package main

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"

	"runtime/cgo"

	"meshwire.dev/core/agent"

	_ "meshwire.dev/core/agent/boltdrop"
	_ "meshwire.dev/core/agent/maildrop"
)

func main() {} // required by -buildmode=c-shared, never invoked

var collection = agent.NewInProcess()

// instanceState tracks the one piece of host-side bookkeeping the
// original's export module keeps alongside the agent itself: whether a
// receive transaction is open, and the last message buffer handed out by
// recv_read (so its backing array stays alive until the next call).
type instanceState struct {
	mu        sync.Mutex
	instance  *agent.Instance
	recv      *agent.Recv
	lastRead  []byte
	recvCount int
}

func setError(errptr **C.char, operation string, err error) {
	if errptr == nil {
		return
	}
	msg := fmt.Sprintf("%s: %s", operation, err)
	*errptr = C.CString(msg)
}

func bugError(msg string) error { return fmt.Errorf("BUG: %s", msg) }

//export meshwire_agent_abi1_count
func meshwire_agent_abi1_count() C.size_t {
	return C.size_t(collection.Len())
}

//export meshwire_agent_abi1_name
func meshwire_agent_abi1_name(index C.size_t) *C.char {
	return C.CString(collection.Name(int(index)))
}

//export meshwire_agent_abi1_description
func meshwire_agent_abi1_description(index C.size_t) *C.char {
	return C.CString(collection.Description(int(index)))
}

//export meshwire_agent_abi1_error_free
func meshwire_agent_abi1_error_free(err *C.char) {
	C.free(unsafe.Pointer(err))
}

//export meshwire_agent_abi1_instance_alloc
func meshwire_agent_abi1_instance_alloc(index C.size_t, args *C.char, errptr **C.char) unsafe.Pointer {
	const op = "instance_alloc"
	parsed, err := parseArgs(args)
	if err != nil {
		setError(errptr, op, err)
		return nil
	}
	inst, err := collection.Instantiate(int(index), parsed)
	if err != nil {
		setError(errptr, op, err)
		return nil
	}
	state := &instanceState{instance: inst}
	handle := cgo.NewHandle(state)
	return unsafe.Pointer(uintptr(handle))
}

//export meshwire_agent_abi1_instance_free
func meshwire_agent_abi1_instance_free(ptr unsafe.Pointer) {
	cgo.Handle(uintptr(ptr)).Delete()
}

//export meshwire_agent_abi1_instance_send
func meshwire_agent_abi1_instance_send(ptr unsafe.Pointer, data *C.uint8_t, length C.size_t, errptr **C.char) C.int {
	const op = "instance_send"
	state := stateFromHandle(ptr)
	state.mu.Lock()
	defer state.mu.Unlock()

	buf := C.GoBytes(unsafe.Pointer(data), C.int(length))
	if err := state.instance.Send(buf); err != nil {
		setError(errptr, op, err)
		return 0
	}
	return 1
}

//export meshwire_agent_abi1_instance_recv_begin
func meshwire_agent_abi1_instance_recv_begin(ptr unsafe.Pointer, countptr *C.size_t, errptr **C.char) C.int {
	const op = "instance_recv_begin"
	state := stateFromHandle(ptr)
	state.mu.Lock()
	defer state.mu.Unlock()

	if state.recv != nil {
		setError(errptr, op, bugError("recv transaction already in progress"))
		return 0
	}
	recv, err := state.instance.RecvBegin()
	if err != nil {
		setError(errptr, op, err)
		return 0
	}
	state.recv = recv
	state.recvCount = recv.Len()
	*countptr = C.size_t(state.recvCount)
	return 1
}

//export meshwire_agent_abi1_instance_recv_read
func meshwire_agent_abi1_instance_recv_read(ptr unsafe.Pointer, index C.size_t, lenptr *C.size_t, errptr **C.char) *C.uint8_t {
	const op = "instance_recv_read"
	state := stateFromHandle(ptr)
	state.mu.Lock()
	defer state.mu.Unlock()

	if state.recv == nil {
		setError(errptr, op, bugError("not in a recv transaction"))
		return nil
	}
	idx := int(index)
	if idx >= state.recvCount {
		setError(errptr, op, bugError(fmt.Sprintf("message index %d out of range, there are only %d in this recv transaction", idx, state.recvCount)))
		return nil
	}
	data, err := state.recv.Read(idx)
	if err != nil {
		setError(errptr, op, err)
		return nil
	}
	// Held by instanceState until the next recv_* call on this instance,
	// matching the pointer-lifetime contract of instance_recv_read.
	state.lastRead = append([]byte(nil), data...)
	*lenptr = C.size_t(len(state.lastRead))
	if len(state.lastRead) == 0 {
		var zero C.uint8_t
		return &zero
	}
	return (*C.uint8_t)(unsafe.Pointer(&state.lastRead[0]))
}

//export meshwire_agent_abi1_instance_recv_commit
func meshwire_agent_abi1_instance_recv_commit(ptr unsafe.Pointer, num C.size_t, errptr **C.char) C.int {
	const op = "instance_recv_commit"
	state := stateFromHandle(ptr)
	state.mu.Lock()
	defer state.mu.Unlock()

	if state.recv == nil {
		setError(errptr, op, bugError("not in a recv transaction"))
		return 0
	}
	n := int(num)
	if n > state.recvCount {
		setError(errptr, op, bugError(fmt.Sprintf("message limit %d out of range, there are only %d in this recv transaction", n, state.recvCount)))
		return 0
	}
	recv := state.recv
	state.recv = nil
	state.recvCount = 0
	state.lastRead = nil
	if err := recv.Commit(n); err != nil {
		setError(errptr, op, err)
		return 0
	}
	return 1
}

//export meshwire_agent_abi1_instance_recv_abort
func meshwire_agent_abi1_instance_recv_abort(ptr unsafe.Pointer, errptr **C.char) C.int {
	state := stateFromHandle(ptr)
	state.mu.Lock()
	defer state.mu.Unlock()

	recv := state.recv
	state.recv = nil
	state.recvCount = 0
	state.lastRead = nil
	if recv == nil {
		return 1 // no-op outside a transaction, unlike recv_commit
	}
	recv.Close()
	return 1
}

//export meshwire_agent_abi1_instance_poll
func meshwire_agent_abi1_instance_poll(ptr unsafe.Pointer, errptr **C.char) C.int {
	const op = "instance_poll"
	state := stateFromHandle(ptr)
	state.mu.Lock()
	defer state.mu.Unlock()

	if err := state.instance.Poll(); err != nil {
		setError(errptr, op, err)
		return 0
	}
	return 1
}

func stateFromHandle(ptr unsafe.Pointer) *instanceState {
	return cgo.Handle(uintptr(ptr)).Value().(*instanceState)
}

// parseArgs splits the ABI's NUL-terminated-strings-then-empty-string
// blob into a Go string slice.
func parseArgs(args *C.char) ([]string, error) {
	if args == nil {
		return nil, nil
	}
	var out []string
	base := unsafe.Pointer(args)
	offset := uintptr(0)
	for {
		p := (*C.char)(unsafe.Add(base, offset))
		s := C.GoString(p)
		if s == "" {
			return out, nil
		}
		out = append(out, s)
		offset += uintptr(len(s)) + 1
	}
}
