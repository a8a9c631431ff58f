package maildrop

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestAgent(t *testing.T) *Agent {
	t.Helper()
	dir := t.TempDir()
	a := &Agent{}
	if err := a.Init([]string{"inbox=" + filepath.Join(dir, "in"), "outbox=" + filepath.Join(dir, "out")}); err != nil {
		t.Fatalf("init: %v", err)
	}
	return a
}

func TestInitRequiresBothArgs(t *testing.T) {
	dir := t.TempDir()
	a := &Agent{}
	if err := a.Init([]string{"inbox=" + dir}); err == nil {
		t.Fatalf("expected missing outbox to fail")
	}
	a2 := &Agent{}
	if err := a2.Init([]string{"bogus=1"}); err == nil {
		t.Fatalf("expected unrecognized argument to fail")
	}
}

func TestSendWritesFileIntoOutbox(t *testing.T) {
	a := newTestAgent(t)
	if err := a.Send([]byte("hello")); err != nil {
		t.Fatalf("send: %v", err)
	}
	entries, err := os.ReadDir(a.outbox)
	if err != nil {
		t.Fatalf("read outbox: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file in outbox, got %d", len(entries))
	}
	if !isMatchingName(entries[0].Name()) {
		t.Fatalf("unexpected file name: %q", entries[0].Name())
	}
	data, err := os.ReadFile(filepath.Join(a.outbox, entries[0].Name()))
	if err != nil || string(data) != "hello" {
		t.Fatalf("unexpected file contents: %q, %v", data, err)
	}
}

func TestRecvRoundTrip(t *testing.T) {
	a := newTestAgent(t)
	sender := &Agent{}
	if err := sender.Init([]string{"inbox=" + a.outbox, "outbox=" + a.inbox}); err != nil {
		t.Fatalf("init sender: %v", err)
	}
	if err := sender.Send([]byte("m1")); err != nil {
		t.Fatalf("send m1: %v", err)
	}
	if err := sender.Send([]byte("m2")); err != nil {
		t.Fatalf("send m2: %v", err)
	}

	count, err := a.RecvBegin()
	if err != nil {
		t.Fatalf("recv_begin: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 messages, got %d", count)
	}
	seen := map[string]bool{}
	for i := 0; i < count; i++ {
		data, err := a.RecvRead(i)
		if err != nil {
			t.Fatalf("recv_read(%d): %v", i, err)
		}
		seen[string(data)] = true
	}
	if !seen["m1"] || !seen["m2"] {
		t.Fatalf("expected to see both m1 and m2, got %v", seen)
	}

	if err := a.RecvCommit(count); err != nil {
		t.Fatalf("recv_commit: %v", err)
	}
	remaining, err := a.RecvBegin()
	if err != nil {
		t.Fatalf("recv_begin after commit: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected no messages remaining after commit, got %d", remaining)
	}
}

func TestRecvIgnoresDotfilesAndUnmatchedSuffix(t *testing.T) {
	a := newTestAgent(t)
	if err := os.WriteFile(filepath.Join(a.inbox, ".hidden.dmxf"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write dotfile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(a.inbox, "not-a-message.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write unmatched file: %v", err)
	}
	count, err := a.RecvBegin()
	if err != nil {
		t.Fatalf("recv_begin: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected both files to be ignored, got %d visible", count)
	}
}

func TestRecvCommitPartial(t *testing.T) {
	a := newTestAgent(t)
	sender := &Agent{}
	if err := sender.Init([]string{"inbox=" + a.outbox, "outbox=" + a.inbox}); err != nil {
		t.Fatalf("init sender: %v", err)
	}
	for _, m := range []string{"a", "b", "c"} {
		if err := sender.Send([]byte(m)); err != nil {
			t.Fatalf("send %q: %v", m, err)
		}
	}
	count, err := a.RecvBegin()
	if err != nil {
		t.Fatalf("recv_begin: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 messages, got %d", count)
	}
	if err := a.RecvCommit(1); err != nil {
		t.Fatalf("commit partial: %v", err)
	}
	remaining, err := a.RecvBegin()
	if err != nil {
		t.Fatalf("recv_begin after partial commit: %v", err)
	}
	if remaining != 2 {
		t.Fatalf("expected 2 messages remaining, got %d", remaining)
	}
}
