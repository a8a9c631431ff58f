// Package config holds the host process's flat configuration struct,
// grounded on node/config.go's DefaultDataDir/DefaultConfig/
// NormalizePeers pattern, retargeted from chain-sync settings to
// agent-collection settings: which collection to load, which agent
// implementation to instantiate, its init arguments, and logging.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	// CollectionPath is empty for the in-process registry, or a shared
	// library path to load via agent/abi1.Open.
	CollectionPath string `json:"collection_path"`
	AgentName      string `json:"agent_name"`
	AgentArgs      []string `json:"agent_args"`
	BindAddr       string   `json:"bind_addr"`
	LogLevel       string   `json:"log_level"`
}

var allowedLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".meshwire"
	}
	return filepath.Join(home, ".meshwire")
}

func DefaultConfig() Config {
	return Config{
		CollectionPath: "",
		AgentName:      "maildrop",
		AgentArgs:      nil,
		BindAddr:       "127.0.0.1:19411",
		LogLevel:       "info",
	}
}

// NormalizeArgs de-duplicates and flattens comma-separated tokens, the
// same shape node.NormalizePeers uses for bootstrap peer lists.
func NormalizeArgs(raw ...string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, token := range raw {
		for _, a := range strings.Split(token, ",") {
			a = strings.TrimSpace(a)
			if a == "" {
				continue
			}
			if _, ok := seen[a]; ok {
				continue
			}
			seen[a] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}

func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.AgentName) == "" {
		return errors.New("agent_name is required")
	}
	if cfg.BindAddr != "" {
		if err := validateAddr(cfg.BindAddr); err != nil {
			return fmt.Errorf("invalid bind_addr: %w", err)
		}
	}
	logLevel := strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if _, ok := allowedLogLevels[logLevel]; !ok {
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	return nil
}

func validateAddr(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return errors.New("empty address")
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	if strings.TrimSpace(port) == "" {
		return errors.New("missing port")
	}
	if strings.Contains(host, " ") {
		return errors.New("invalid host")
	}
	return nil
}
