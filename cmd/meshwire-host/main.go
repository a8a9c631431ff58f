// Command meshwire-host loads an agent collection (in-process by
// default, or a shared library via -collection), instantiates one agent
// from it, and drives a minimal poll/receive loop until interrupted. It
// logs and commits every received message; it sends nothing.
//
// Grounded on cmd/rubin-node/main.go's run(args, stdout, stderr) int
// shape (keeps main() a one-line os.Exit(run(...)) for testability) and
// kshinn-umbra-gateway/gateway/main.go's log/slog JSON setup.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"meshwire.dev/core/agent"
	"meshwire.dev/core/agent/abi1"
	"meshwire.dev/core/config"

	_ "meshwire.dev/core/agent/boltdrop"
	_ "meshwire.dev/core/agent/maildrop"
)

type multiStringFlag []string

func (m *multiStringFlag) String() string {
	if m == nil {
		return ""
	}
	return strings.Join(*m, ",")
}

func (m *multiStringFlag) Set(value string) error {
	*m = append(*m, value)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	defaults := config.DefaultConfig()
	var agentArgs multiStringFlag

	cfg := defaults
	fs := flag.NewFlagSet("meshwire-host", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cfg.CollectionPath, "collection", defaults.CollectionPath, "path to a meshwire_agent_abi1_ shared library (empty = in-process registry)")
	fs.StringVar(&cfg.AgentName, "agent", defaults.AgentName, "name of the agent implementation to instantiate")
	fs.Var(&agentArgs, "agent-arg", "agent init argument key=value (repeatable)")
	fs.StringVar(&cfg.BindAddr, "bind", defaults.BindAddr, "bind address host:port (informational)")
	fs.StringVar(&cfg.LogLevel, "log-level", defaults.LogLevel, "log level: debug|info|warn|error")
	sessionIDFlag := fs.String("session-id", "", "human-facing session identifier (defaults to a generated UUID)")
	dryRun := fs.Bool("dry-run", false, "print effective config and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.AgentArgs = config.NormalizeArgs(agentArgs...)
	if err := config.ValidateConfig(cfg); err != nil {
		_, _ = fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 2
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})))

	sessionID := *sessionIDFlag
	if sessionID == "" {
		sessionID = uuid.NewString()
	} else if _, err := uuid.Parse(sessionID); err != nil {
		_, _ = fmt.Fprintf(stderr, "invalid -session-id: %v\n", err)
		return 2
	}

	var collection agent.Collection
	if cfg.CollectionPath == "" {
		collection = agent.NewInProcess()
	} else {
		ext, err := abi1.Open(cfg.CollectionPath)
		if err != nil {
			slog.Error("failed to open agent collection", "path", cfg.CollectionPath, "err", err)
			return 2
		}
		collection = ext
	}

	index := -1
	for i := 0; i < collection.Len(); i++ {
		if collection.Name(i) == cfg.AgentName {
			index = i
			break
		}
	}
	if index < 0 {
		slog.Error("agent implementation not found", "name", cfg.AgentName)
		return 2
	}

	slog.Info("meshwire-host starting",
		"session_id", sessionID,
		"agent", cfg.AgentName,
		"collection_path", cfg.CollectionPath,
		"bind", cfg.BindAddr,
	)

	if *dryRun {
		_, _ = fmt.Fprintf(stdout, "agent=%s description=%q args=%v\n", cfg.AgentName, collection.Description(index), cfg.AgentArgs)
		return 0
	}

	instance, err := collection.Instantiate(index, cfg.AgentArgs)
	if err != nil {
		slog.Error("failed to instantiate agent", "agent", cfg.AgentName, "err", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runLoop(ctx, instance)
	slog.Info("meshwire-host stopped", "session_id", sessionID)
	return 0
}

// runLoop polls the agent and drains any pending receive transaction
// once per tick until ctx is cancelled.
func runLoop(ctx context.Context, instance *agent.Instance) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := instance.Poll(); err != nil {
				slog.Warn("poll failed", "err", err)
				continue
			}
			drainOnce(instance)
		}
	}
}

func drainOnce(instance *agent.Instance) {
	recv, err := instance.RecvBegin()
	if err != nil {
		slog.Warn("recv_begin failed", "err", err)
		return
	}
	defer recv.Close()

	for i := 0; i < recv.Len(); i++ {
		data, err := recv.Read(i)
		if err != nil {
			slog.Warn("recv_read failed", "index", i, "err", err)
			return
		}
		slog.Info("received message", "index", i, "bytes", len(data))
	}
	if err := recv.CommitAll(); err != nil {
		slog.Warn("recv_commit failed", "err", err)
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
