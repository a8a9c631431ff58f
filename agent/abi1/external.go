// Package abi1 implements the consuming side of the stable v1 C ABI for
// dynamically loaded transport-agent collections (spec.md §6): a
// dlopen-based loader (External, below). The matching C-callable exported
// symbols that produce the ABI are defined in package main of
// cmd/meshwire-agentlib, not here. The symbol prefix is meshwire_agent_abi1_ in this module
// (renamed from the spec's dandelion_agent_abi1_; the wire shape is
// identical).
//
// Grounded on the teacher's crypto.WolfcryptDylibProvider cgo pattern
// (crypto/wolfcrypt_dylib_provider.go): a C struct of function pointers
// populated by dlsym, loaded once, closed by a runtime.SetFinalizer, and
// called through small static C wrapper functions rather than invoked
// directly from Go.
package abi1

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdint.h>
#include <stdlib.h>

typedef size_t (*meshwire_count_fn)(void);
typedef const char* (*meshwire_string_fn)(size_t);
typedef void (*meshwire_error_free_fn)(const char*);
typedef void* (*meshwire_instance_alloc_fn)(size_t, const char*, const char**);
typedef void (*meshwire_instance_free_fn)(void*);
typedef int (*meshwire_instance_send_fn)(void*, const uint8_t*, size_t, const char**);
typedef int (*meshwire_instance_recv_begin_fn)(void*, size_t*, const char**);
typedef const uint8_t* (*meshwire_instance_recv_read_fn)(void*, size_t, size_t*, const char**);
typedef int (*meshwire_instance_recv_commit_fn)(void*, size_t, const char**);
typedef int (*meshwire_instance_recv_abort_fn)(void*, const char**);
typedef int (*meshwire_instance_poll_fn)(void*, const char**);

typedef struct {
	void* handle;
	meshwire_count_fn count;
	meshwire_string_fn name;
	meshwire_string_fn description;
	meshwire_error_free_fn error_free;
	meshwire_instance_alloc_fn instance_alloc;
	meshwire_instance_free_fn instance_free;
	meshwire_instance_send_fn instance_send;
	meshwire_instance_recv_begin_fn instance_recv_begin;
	meshwire_instance_recv_read_fn instance_recv_read;
	meshwire_instance_recv_commit_fn instance_recv_commit;
	meshwire_instance_recv_abort_fn instance_recv_abort;
	meshwire_instance_poll_fn instance_poll;
} meshwire_symbols_t;

static int meshwire_load(meshwire_symbols_t* s, const char* path) {
	s->handle = dlopen(path, RTLD_LAZY);
	if (!s->handle) return -1;

#define LOAD(field, name) \
	s->field = (void*)dlsym(s->handle, name); \
	if (!s->field) { dlclose(s->handle); s->handle = NULL; return -2; }

	LOAD(count, "meshwire_agent_abi1_count")
	LOAD(name, "meshwire_agent_abi1_name")
	LOAD(description, "meshwire_agent_abi1_description")
	LOAD(error_free, "meshwire_agent_abi1_error_free")
	LOAD(instance_alloc, "meshwire_agent_abi1_instance_alloc")
	LOAD(instance_free, "meshwire_agent_abi1_instance_free")
	LOAD(instance_send, "meshwire_agent_abi1_instance_send")
	LOAD(instance_recv_begin, "meshwire_agent_abi1_instance_recv_begin")
	LOAD(instance_recv_read, "meshwire_agent_abi1_instance_recv_read")
	LOAD(instance_recv_commit, "meshwire_agent_abi1_instance_recv_commit")
	LOAD(instance_recv_abort, "meshwire_agent_abi1_instance_recv_abort")
	LOAD(instance_poll, "meshwire_agent_abi1_instance_poll")

#undef LOAD
	return 0;
}

static void meshwire_close(meshwire_symbols_t* s) {
	if (s->handle) {
		dlclose(s->handle);
		s->handle = NULL;
	}
}

static size_t meshwire_count_call(meshwire_symbols_t* s) {
	return s->count();
}

static const char* meshwire_name_call(meshwire_symbols_t* s, size_t index) {
	return s->name(index);
}

static const char* meshwire_description_call(meshwire_symbols_t* s, size_t index) {
	return s->description(index);
}

static void meshwire_error_free_call(meshwire_symbols_t* s, const char* err) {
	s->error_free(err);
}

static void* meshwire_instance_alloc_call(meshwire_symbols_t* s, size_t index, const char* args, const char** errptr) {
	return s->instance_alloc(index, args, errptr);
}

static void meshwire_instance_free_call(meshwire_symbols_t* s, void* ptr) {
	s->instance_free(ptr);
}

static int meshwire_instance_send_call(meshwire_symbols_t* s, void* ptr, const uint8_t* data, size_t len, const char** errptr) {
	return s->instance_send(ptr, data, len, errptr);
}

static int meshwire_instance_recv_begin_call(meshwire_symbols_t* s, void* ptr, size_t* countptr, const char** errptr) {
	return s->instance_recv_begin(ptr, countptr, errptr);
}

static const uint8_t* meshwire_instance_recv_read_call(meshwire_symbols_t* s, void* ptr, size_t index, size_t* lenptr, const char** errptr) {
	return s->instance_recv_read(ptr, index, lenptr, errptr);
}

static int meshwire_instance_recv_commit_call(meshwire_symbols_t* s, void* ptr, size_t num, const char** errptr) {
	return s->instance_recv_commit(ptr, num, errptr);
}

static int meshwire_instance_recv_abort_call(meshwire_symbols_t* s, void* ptr, const char** errptr) {
	return s->instance_recv_abort(ptr, errptr);
}

static int meshwire_instance_poll_call(meshwire_symbols_t* s, void* ptr, const char** errptr) {
	return s->instance_poll(ptr, errptr);
}
*/
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"

	"meshwire.dev/core/agent"
)

// External is an agent.Collection loaded from a shared library exposing
// the meshwire_agent_abi1_ symbol set.
type External struct {
	sym C.meshwire_symbols_t
}

// Open dlopen()s path and resolves the full ABI symbol set, failing if
// any symbol is missing.
func Open(path string) (*External, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	var sym C.meshwire_symbols_t
	if rc := C.meshwire_load(&sym, cpath); rc != 0 {
		return nil, fmt.Errorf("agent/abi1: open %q: dlopen/dlsym failed (rc=%d)", path, int(rc))
	}
	ext := &External{sym: sym}
	runtime.SetFinalizer(ext, func(e *External) { C.meshwire_close(&e.sym) })
	return ext, nil
}

// Len implements agent.Collection.
func (e *External) Len() int {
	return int(C.meshwire_count_call(&e.sym))
}

// Name implements agent.Collection.
func (e *External) Name(index int) string {
	return C.GoString(C.meshwire_name_call(&e.sym, C.size_t(index)))
}

// Description implements agent.Collection.
func (e *External) Description(index int) string {
	return C.GoString(C.meshwire_description_call(&e.sym, C.size_t(index)))
}

// errorFromErrptr converts a borrowed C error string into a Go error,
// freeing it with error_free, per spec.md §7's ABI error convention.
func (e *External) errorFromErrptr(errptr *C.char, operation string) error {
	if errptr == nil {
		return fmt.Errorf("agent/abi1: %s: failed with no error message", operation)
	}
	msg := C.GoString(errptr)
	C.meshwire_error_free_call(&e.sym, errptr)
	return fmt.Errorf("agent/abi1: %s: %s", operation, msg)
}

// Instantiate implements agent.Collection.
func (e *External) Instantiate(index int, args []string) (*agent.Instance, error) {
	encoded, err := encodeArgs(args)
	if err != nil {
		return nil, err
	}
	var cargs *C.char
	if len(encoded) > 0 {
		cargs = (*C.char)(unsafe.Pointer(&encoded[0]))
	} else {
		var empty [1]byte
		cargs = (*C.char)(unsafe.Pointer(&empty[0]))
	}

	var errptr *C.char
	ptr := C.meshwire_instance_alloc_call(&e.sym, C.size_t(index), cargs, &errptr)
	if ptr == nil {
		return nil, e.errorFromErrptr(errptr, "instance_alloc")
	}
	da := &dynamicAgent{ext: e, ptr: ptr}
	runtime.SetFinalizer(da, (*dynamicAgent).free)
	return agent.NewInstance(da), nil
}

// encodeArgs packs args into the ABI's NUL-terminated-strings-then-empty-
// string shape (the same in-memory format used for environment blocks),
// per spec.md §6.
func encodeArgs(args []string) ([]byte, error) {
	var buf []byte
	for _, a := range args {
		if a == "" {
			return nil, fmt.Errorf("agent/abi1: cannot pass an empty string as an argument")
		}
		for i := 0; i < len(a); i++ {
			if a[i] == 0 {
				return nil, fmt.Errorf("agent/abi1: cannot pass a string containing NUL as an argument")
			}
		}
		buf = append(buf, a...)
		buf = append(buf, 0)
	}
	buf = append(buf, 0)
	return buf, nil
}

// dynamicAgent adapts an externally loaded instance pointer to
// agent.Agent. Its Init is never called: agent.NewInstance wraps an
// already-initialized agent (instance_alloc performs initialization on
// the producer side), unlike agent.InProcess's factories.
type dynamicAgent struct {
	ext *External
	ptr unsafe.Pointer
}

func (d *dynamicAgent) Init([]string) error {
	return fmt.Errorf("agent/abi1: Init must not be called on an externally loaded instance")
}

func (d *dynamicAgent) Send(data []byte) error {
	var cdata *C.uint8_t
	if len(data) > 0 {
		cdata = (*C.uint8_t)(unsafe.Pointer(&data[0]))
	}
	var errptr *C.char
	ok := C.meshwire_instance_send_call(&d.ext.sym, d.ptr, cdata, C.size_t(len(data)), &errptr)
	if ok == 0 {
		return d.ext.errorFromErrptr(errptr, "instance_send")
	}
	return nil
}

func (d *dynamicAgent) RecvBegin() (int, error) {
	var count C.size_t
	var errptr *C.char
	ok := C.meshwire_instance_recv_begin_call(&d.ext.sym, d.ptr, &count, &errptr)
	if ok == 0 {
		return 0, d.ext.errorFromErrptr(errptr, "instance_recv_begin")
	}
	return int(count), nil
}

func (d *dynamicAgent) RecvRead(index int) ([]byte, error) {
	var length C.size_t
	var errptr *C.char
	ptr := C.meshwire_instance_recv_read_call(&d.ext.sym, d.ptr, C.size_t(index), &length, &errptr)
	if ptr == nil {
		return nil, d.ext.errorFromErrptr(errptr, "instance_recv_read")
	}
	// The returned pointer is borrowed and only valid until the next
	// instance_recv_* or instance_free call on this pointer (spec.md §5);
	// agent.Instance holds its mutex across this call, and we copy out
	// immediately, so no caller can observe it after it is invalidated.
	return C.GoBytes(unsafe.Pointer(ptr), C.int(length)), nil
}

func (d *dynamicAgent) RecvCommit(num int) error {
	var errptr *C.char
	ok := C.meshwire_instance_recv_commit_call(&d.ext.sym, d.ptr, C.size_t(num), &errptr)
	if ok == 0 {
		return d.ext.errorFromErrptr(errptr, "instance_recv_commit")
	}
	return nil
}

func (d *dynamicAgent) RecvAbort() error {
	var errptr *C.char
	ok := C.meshwire_instance_recv_abort_call(&d.ext.sym, d.ptr, &errptr)
	if ok == 0 {
		return d.ext.errorFromErrptr(errptr, "instance_recv_abort")
	}
	return nil
}

func (d *dynamicAgent) Poll() error {
	var errptr *C.char
	ok := C.meshwire_instance_poll_call(&d.ext.sym, d.ptr, &errptr)
	if ok == 0 {
		return d.ext.errorFromErrptr(errptr, "instance_poll")
	}
	return nil
}

func (d *dynamicAgent) free() {
	C.meshwire_instance_free_call(&d.ext.sym, d.ptr)
}
