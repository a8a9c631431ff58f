package config

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	if err := ValidateConfig(DefaultConfig()); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejectsEmptyAgentName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AgentName = "  "
	if err := ValidateConfig(cfg); err == nil {
		t.Fatalf("expected empty agent name to be rejected")
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "verbose"
	if err := ValidateConfig(cfg); err == nil {
		t.Fatalf("expected invalid log level to be rejected")
	}
}

func TestValidateRejectsBadBindAddr(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BindAddr = "not-an-addr"
	if err := ValidateConfig(cfg); err == nil {
		t.Fatalf("expected invalid bind_addr to be rejected")
	}
}

func TestNormalizeArgsDedupsAndSplits(t *testing.T) {
	got := NormalizeArgs("inbox=/a,outbox=/b", "inbox=/a")
	if len(got) != 2 || got[0] != "inbox=/a" || got[1] != "outbox=/b" {
		t.Fatalf("unexpected normalized args: %v", got)
	}
}
