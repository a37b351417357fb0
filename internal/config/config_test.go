package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaultsUnmarshal(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal defaults failed: %v", err)
	}
	if cfg.Storage.Driver != "database" {
		t.Fatalf("storage driver want database got %s", cfg.Storage.Driver)
	}
	if cfg.Security.PasswordMinLength != 6 {
		t.Fatalf("password min length want 6 got %d", cfg.Security.PasswordMinLength)
	}
	if cfg.Checkout.DefaultPhonePrefix != "+57" {
		t.Fatalf("phone prefix want +57 got %s", cfg.Checkout.DefaultPhonePrefix)
	}
	if cfg.Queue.Queues["critical"] != 5 {
		t.Fatalf("critical queue weight want 5 got %d", cfg.Queue.Queues["critical"])
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Fatalf("addr want 0.0.0.0:8080 got %s", cfg.Server.Addr())
	}
}

func TestSessionDurations(t *testing.T) {
	var empty SessionConfig
	if empty.IdleTTL() != 2*time.Hour {
		t.Fatalf("idle ttl fallback want 2h got %s", empty.IdleTTL())
	}
	if empty.SweepInterval() != time.Minute {
		t.Fatalf("sweep fallback want 1m got %s", empty.SweepInterval())
	}
	cfg := SessionConfig{IdleTTLMinutes: 5, SweepIntervalSeconds: 10}
	if cfg.IdleTTL() != 5*time.Minute || cfg.SweepInterval() != 10*time.Second {
		t.Fatalf("unexpected durations: %s %s", cfg.IdleTTL(), cfg.SweepInterval())
	}
}
