// Package boltdrop is a durable variant of agent/maildrop: instead of one
// file per message, outgoing and incoming messages live as key/value
// entries in a go.etcd.io/bbolt database, giving send/recv/commit real
// ACID transactions instead of maildrop's rename-based approximation.
// Grounded on the teacher's node/store.DB (bolt.Open with a Timeout,
// CreateBucketIfNotExists on open, Update/View closures per operation).
package boltdrop

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"meshwire.dev/core/agent"
)

var bucketMessages = []byte("messages")

func init() {
	agent.Register("boltdrop", "bbolt-backed durable transport agent", func() agent.Agent {
		return &Agent{}
	})
}

// Agent implements agent.Agent over a pair of bbolt database files:
// inbox=PATH and outbox=PATH init arguments are required. Each is opened
// independently so a pair of boltdrop agents pointed at each other's
// inbox/outbox exchange messages the same way maildrop agents do.
type Agent struct {
	inbox, outbox *bolt.DB
	recvKeys      [][]byte
	recvValues    [][]byte
}

func (a *Agent) Init(args []string) error {
	var inboxPath, outboxPath string
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "inbox="):
			inboxPath = strings.TrimPrefix(arg, "inbox=")
		case strings.HasPrefix(arg, "outbox="):
			outboxPath = strings.TrimPrefix(arg, "outbox=")
		default:
			return fmt.Errorf("boltdrop: failed to parse argument: %s", arg)
		}
	}
	if inboxPath == "" {
		return fmt.Errorf("boltdrop: missing required argument 'inbox'")
	}
	if outboxPath == "" {
		return fmt.Errorf("boltdrop: missing required argument 'outbox'")
	}

	inbox, err := openQueue(inboxPath)
	if err != nil {
		return fmt.Errorf("boltdrop: open inbox: %w", err)
	}
	outbox, err := openQueue(outboxPath)
	if err != nil {
		_ = inbox.Close()
		return fmt.Errorf("boltdrop: open outbox: %w", err)
	}
	a.inbox, a.outbox = inbox, outbox
	return nil
}

func openQueue(path string) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketMessages)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Close releases both underlying bbolt database handles. Not part of
// agent.Agent; callers that own an *Agent directly (tests, and future
// lifecycle hooks) should call it when done.
func (a *Agent) Close() error {
	err1 := a.inbox.Close()
	err2 := a.outbox.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// Send appends message to the outbox queue under the bucket's next
// sequence number, inside a single durable transaction.
func (a *Agent) Send(message []byte) error {
	return a.outbox.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMessages)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(seqKey(seq), message)
	})
}

// RecvBegin snapshots every message currently in the inbox queue, in
// ascending sequence order, inside a single read transaction.
func (a *Agent) RecvBegin() (int, error) {
	a.recvKeys = a.recvKeys[:0]
	a.recvValues = a.recvValues[:0]
	err := a.inbox.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMessages)
		return b.ForEach(func(k, v []byte) error {
			a.recvKeys = append(a.recvKeys, append([]byte(nil), k...))
			a.recvValues = append(a.recvValues, append([]byte(nil), v...))
			return nil
		})
	})
	if err != nil {
		return 0, fmt.Errorf("boltdrop: recv_begin: %w", err)
	}
	return len(a.recvKeys), nil
}

func (a *Agent) RecvRead(index int) ([]byte, error) {
	return a.recvValues[index], nil
}

// RecvCommit deletes the first num messages (by sequence order) from the
// inbox queue inside a single durable transaction.
func (a *Agent) RecvCommit(num int) error {
	err := a.inbox.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMessages)
		for i := 0; i < num; i++ {
			if err := b.Delete(a.recvKeys[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("boltdrop: recv_commit: %w", err)
	}
	a.recvKeys = a.recvKeys[:0]
	a.recvValues = a.recvValues[:0]
	return nil
}

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}
