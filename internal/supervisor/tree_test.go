// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

// testService runs until canceled, failing its first fails starts.
type testService struct {
	name   string
	fails  int32
	starts atomic.Int32
}

func (s *testService) Serve(ctx context.Context) error {
	if n := s.starts.Add(1); n <= s.fails {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *testService) String() string { return s.name }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	tree := NewSupervisorTree(testLogger(), TreeConfig{})
	want := DefaultTreeConfig()
	if tree.config != want {
		t.Errorf("config = %+v, want %+v", tree.config, want)
	}
	if tree.Root() == nil {
		t.Error("Root() = nil")
	}

	tree = NewSupervisorTree(testLogger(), TreeConfig{FailureBackoff: time.Second})
	if tree.config.FailureBackoff != time.Second || tree.config.FailureThreshold != want.FailureThreshold {
		t.Errorf("config = %+v, want explicit backoff kept and others defaulted", tree.config)
	}
}

func TestSupervisorTree_StartsBothLayers(t *testing.T) {
	tree := NewSupervisorTree(testLogger(), TreeConfig{ShutdownTimeout: time.Second})
	probe := &testService{name: "probe"}
	api := &testService{name: "api"}
	tree.AddUpstreamService(probe)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.After(time.Second)
	for probe.starts.Load() == 0 || api.starts.Load() == 0 {
		select {
		case <-deadline:
			t.Fatalf("starts probe=%d api=%d, want both started", probe.starts.Load(), api.starts.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not shut down in time")
	}
}

func TestSupervisorTree_RestartsFailingService(t *testing.T) {
	tree := NewSupervisorTree(testLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	flaky := &testService{name: "flaky", fails: 2}
	stable := &testService{name: "stable"}
	tree.AddUpstreamService(flaky)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	deadline := time.After(time.Second)
	for flaky.starts.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("flaky starts = %d, want 3", flaky.starts.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	if got := stable.starts.Load(); got != 1 {
		t.Errorf("stable starts = %d, want 1", got)
	}

	cancel()
	<-errCh
}
