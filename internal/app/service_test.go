package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mesa-next/internal/config"
	"github.com/mesa-next/internal/provider"
)

type fakeService struct {
	name     string
	startErr error
	block    bool
	stopped  atomic.Bool
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if s.block {
		<-ctx.Done()
		return nil
	}
	return s.startErr
}

func (s *fakeService) Stop(ctx context.Context) error {
	s.stopped.Store(true)
	return nil
}

func TestRunnerStopsAllServicesWhenOneFails(t *testing.T) {
	failing := &fakeService{name: "failing", startErr: errors.New("boom")}
	blocking := &fakeService{name: "blocking", block: true}

	err := NewRunner(failing, blocking).Run(context.Background(), time.Second, nil)
	if err == nil || err.Error() != "boom" {
		t.Fatalf("run error want boom got %v", err)
	}
	if !failing.stopped.Load() || !blocking.stopped.Load() {
		t.Fatalf("all services should be stopped")
	}
}

func TestRunnerReturnsNilOnCancel(t *testing.T) {
	blocking := &fakeService{name: "blocking", block: true}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewRunner(blocking).Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("canceled run should return nil, got %v", err)
	}
	if !blocking.stopped.Load() {
		t.Fatalf("service should be stopped")
	}
}

func TestRunnerWithoutServices(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("empty runner should fail")
	}
}

func TestWorkerModeRequiresQueue(t *testing.T) {
	cfg := &config.Config{}
	if _, err := buildServices(cfg, ModeWorker, &provider.Container{Config: cfg}); err == nil {
		t.Fatalf("worker mode without queue should fail")
	}
}

func TestBuildRunnerRejectsUnknownMode(t *testing.T) {
	if _, _, err := BuildRunner(&config.Config{}, "batch"); err == nil {
		t.Fatalf("unknown mode should fail")
	}
}

type orderedService struct {
	name  string
	order *[]string
}

func (s *orderedService) Name() string { return s.name }

func (s *orderedService) Start(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (s *orderedService) Stop(ctx context.Context) error {
	*s.order = append(*s.order, s.name)
	return nil
}

func TestRunnerStopsInReverseOrder(t *testing.T) {
	var order []string
	runner := NewRunner(&orderedService{name: "http", order: &order}, &orderedService{name: "session_sweeper", order: &order})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := runner.Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(order) != 2 || order[0] != "session_sweeper" || order[1] != "http" {
		t.Fatalf("stop order want [session_sweeper http] got %v", order)
	}
}

func TestNormalizeOptions(t *testing.T) {
	opts := normalizeOptions(Options{Mode: " API "})
	if opts.Mode != ModeAPI {
		t.Fatalf("mode want api got %q", opts.Mode)
	}
	if opts.ShutdownTimeout != defaultShutdownTimeout || opts.Logger == nil {
		t.Fatalf("defaults not applied: %+v", opts)
	}
	if normalizeOptions(Options{}).Mode != ModeAll {
		t.Fatalf("empty mode should default to all")
	}
	if !runsAPI(ModeAll) || !runsWorker(ModeAll) || runsWorker(ModeAPI) || runsAPI(ModeWorker) {
		t.Fatalf("mode helpers mismatch")
	}
}

func TestHTTPServiceStopCancelsRequestContext(t *testing.T) {
	started := make(chan struct{})
	released := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Errorf("response writer should support hijack")
			return
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			t.Errorf("hijack failed: %v", err)
			return
		}
		defer conn.Close()
		close(started)
		<-r.Context().Done()
		close(released)
	})

	svc := NewHTTPService("127.0.0.1:0", handler)
	go func() { _ = svc.Start(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for svc.Addr() == "" {
		if time.Now().After(deadline) {
			t.Fatalf("http service did not start")
		}
		time.Sleep(10 * time.Millisecond)
	}

	conn, err := net.Dial("tcp", svc.Addr())
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte("GET /live HTTP/1.1\r\nHost: test\r\n\r\n")); err != nil {
		t.Fatalf("write request failed: %v", err)
	}
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatalf("handler did not start")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := svc.Stop(stopCtx); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	select {
	case <-released:
	case <-time.After(2 * time.Second):
		t.Fatalf("hijacked request context should be canceled on stop")
	}
}
