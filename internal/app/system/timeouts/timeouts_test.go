package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaults(t *testing.T) {
	Reset()
	if Read() != 10*time.Second {
		t.Errorf("Read() = %v, want 10s", Read())
	}
	if Auth() != 30*time.Second {
		t.Errorf("Auth() = %v, want 30s", Auth())
	}
	if Short() != DefaultShort {
		t.Errorf("Short() = %v, want %v", Short(), DefaultShort)
	}
}

func TestConfigure_IgnoresZero(t *testing.T) {
	Reset()
	defer Reset()

	Configure(Config{Read: 3 * time.Second})
	got := Current()
	if got.Read != 3*time.Second {
		t.Errorf("Read = %v, want 3s", got.Read)
	}
	if got.Auth != DefaultAuth {
		t.Errorf("Auth = %v, want default %v", got.Auth, DefaultAuth)
	}
	if got.Short != DefaultShort {
		t.Errorf("Short = %v, want default %v", got.Short, DefaultShort)
	}
}

func TestWithTimeout_LogsDeadline(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)

	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, log, "fetch attendances")
	<-ctx.Done()
	cancel()

	entries := logs.FilterMessage("operation timed out").All()
	if len(entries) != 1 {
		t.Fatalf("got %d timeout log entries, want 1", len(entries))
	}
	if op := entries[0].ContextMap()["operation"]; op != "fetch attendances" {
		t.Errorf("operation field = %v, want %q", op, "fetch attendances")
	}
}

func TestWithTimeout_NoLogWhenCanceledEarly(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)

	_, cancel := WithTimeout(context.Background(), time.Hour, log, "fetch users")
	cancel()

	if logs.Len() != 0 {
		t.Errorf("got %d log entries, want 0", logs.Len())
	}
}
