package app

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/moodsync-server/internal/config"
)

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Driver = "postgres"
	logger := zerolog.Nop()

	if _, err := New(&cfg, &logger); err == nil {
		t.Fatalf("expected invalid storage driver to be rejected")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Addr = "127.0.0.1:0"
	cfg.Storage.Driver = config.StorageMemory
	cfg.ShutdownTimeout = time.Second
	logger := zerolog.Nop()

	application, err := New(&cfg, &logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
	if stats := application.hub.Stats(); stats.Connections != 0 {
		t.Fatalf("hub still has connections: %+v", stats)
	}
}
