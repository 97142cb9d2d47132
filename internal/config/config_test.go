package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "app:\n  environment: test\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Network != "testnet" {
		t.Errorf("App.Network = %q, want testnet default", cfg.App.Network)
	}
	if cfg.Orders.ConfirmationAttempts != 3 {
		t.Errorf("Orders.ConfirmationAttempts = %d, want 3", cfg.Orders.ConfirmationAttempts)
	}
	if !cfg.Orders.AutoExecutionGuard {
		t.Errorf("Orders.AutoExecutionGuard should default to true")
	}
	if cfg.Timing.SleepBetweenOrders != 6*time.Second {
		t.Errorf("Timing.SleepBetweenOrders = %v, want 6s", cfg.Timing.SleepBetweenOrders)
	}
	if cfg.Timing.SleepBetweenCycles != 10*time.Second {
		t.Errorf("Timing.SleepBetweenCycles = %v, want 10s", cfg.Timing.SleepBetweenCycles)
	}
	if cfg.Supra.Retry.MinDelay != 500*time.Millisecond {
		t.Errorf("Supra.Retry.MinDelay = %v, want 500ms", cfg.Supra.Retry.MinDelay)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
app:
  network: devnet
orders:
  slippage_tolerance: 0.5
`)

	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "app.network") || !strings.Contains(err.Error(), "slippage_tolerance") {
		t.Errorf("expected aggregated field errors, got %v", err)
	}
}

func TestRPCURL(t *testing.T) {
	cfg := SupraConfig{TestnetURL: "https://t", MainnetURL: "https://m"}

	if url, err := cfg.RPCURL("testnet"); err != nil || url != "https://t" {
		t.Errorf("RPCURL(testnet) = %q, %v", url, err)
	}
	if url, err := cfg.RPCURL("mainnet"); err != nil || url != "https://m" {
		t.Errorf("RPCURL(mainnet) = %q, %v", url, err)
	}
	if _, err := cfg.RPCURL("devnet"); err == nil {
		t.Errorf("expected error for unknown network")
	}
}
