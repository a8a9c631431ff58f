// Package maildrop implements a filesystem-backed transport agent:
// outgoing messages are written as files into an outbox directory,
// incoming messages are files discovered in an inbox directory.
// Grounded on original_source/agents/dandelion-agent-maildrop/src/lib.rs,
// reimplemented against agent.Agent (init args, byte-slice send/recv)
// instead of the original's trait object.
package maildrop

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"meshwire.dev/core/agent"
)

const suffix = ".dmxf"

func init() {
	agent.Register("maildrop", "filesystem maildrop transport agent", func() agent.Agent {
		return &Agent{}
	})
}

// Agent implements agent.Agent over a pair of directories: inbox=PATH and
// outbox=PATH init arguments are required.
type Agent struct {
	inbox, outbox string
	counter       uint32
	recv          []string
}

func (a *Agent) Init(args []string) error {
	var inbox, outbox string
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "inbox="):
			inbox = strings.TrimPrefix(arg, "inbox=")
		case strings.HasPrefix(arg, "outbox="):
			outbox = strings.TrimPrefix(arg, "outbox=")
		default:
			return fmt.Errorf("maildrop: failed to parse argument: %s", arg)
		}
	}
	if inbox == "" {
		return fmt.Errorf("maildrop: missing required argument 'inbox'")
	}
	if outbox == "" {
		return fmt.Errorf("maildrop: missing required argument 'outbox'")
	}
	if err := os.MkdirAll(inbox, 0o755); err != nil {
		return fmt.Errorf("maildrop: create inbox: %w", err)
	}
	if err := os.MkdirAll(outbox, 0o755); err != nil {
		return fmt.Errorf("maildrop: create outbox: %w", err)
	}
	a.inbox, a.outbox = inbox, outbox
	return nil
}

func (a *Agent) nextCounter() uint32 {
	result := a.counter
	a.counter++
	return result
}

// Send writes message to a temp file named by timestamp and a wrap-around
// counter (retrying on name collision), fsyncs it, then renames it into
// place. If anything fails after the file is created, the temp file is
// unlinked.
func (a *Agent) Send(message []byte) error {
	var tmpPath string
	var file *os.File
	for {
		now := time.Now()
		secs := now.Unix()
		nanos := now.Nanosecond()
		counter := a.nextCounter()
		tmpPath = filepath.Join(a.outbox, fmt.Sprintf("%012d-%09d-%08x%s.tmp", secs, nanos, counter, suffix))

		f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			file = f
			break
		}
		if !os.IsExist(err) {
			return fmt.Errorf("maildrop: create temp file: %w", err)
		}
	}

	unlink := true
	defer func() {
		if unlink {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := file.Write(message); err != nil {
		file.Close()
		return fmt.Errorf("maildrop: write temp file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("maildrop: sync temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("maildrop: close temp file: %w", err)
	}

	finalPath := strings.TrimSuffix(tmpPath, ".tmp")
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("maildrop: rename into place: %w", err)
	}
	unlink = false
	return nil
}

// RecvBegin lists the inbox, keeping only files that match the maildrop
// naming convention, sorted for deterministic ordering across reads.
func (a *Agent) RecvBegin() (int, error) {
	entries, err := os.ReadDir(a.inbox)
	if err != nil {
		return 0, fmt.Errorf("maildrop: read inbox: %w", err)
	}
	a.recv = a.recv[:0]
	for _, entry := range entries {
		if entry.Type().IsRegular() && isMatchingName(entry.Name()) {
			a.recv = append(a.recv, filepath.Join(a.inbox, entry.Name()))
		}
	}
	sort.Strings(a.recv)
	return len(a.recv), nil
}

func (a *Agent) RecvRead(index int) ([]byte, error) {
	data, err := os.ReadFile(a.recv[index])
	if err != nil {
		return nil, fmt.Errorf("maildrop: read message: %w", err)
	}
	return data, nil
}

func (a *Agent) RecvCommit(num int) error {
	for i := 0; i < num; i++ {
		if err := os.Remove(a.recv[i]); err != nil {
			return fmt.Errorf("maildrop: remove consumed message: %w", err)
		}
	}
	a.recv = a.recv[:0]
	return nil
}

func isMatchingName(name string) bool {
	return strings.HasSuffix(name, suffix) && !strings.HasPrefix(name, ".")
}
