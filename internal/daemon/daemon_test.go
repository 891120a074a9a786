package daemon_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"leadradar/internal/daemon"
	"leadradar/internal/leads"
	"leadradar/internal/logging"
	"leadradar/internal/testsupport"
)

func newDaemon(t *testing.T, opts ...testsupport.ConfigOption) (*daemon.Daemon, *leads.Service) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	st := testsupport.MustOpenStore(t, cfg)
	svc, err := leads.NewFromConfig(cfg, st, logging.NewNop())
	if err != nil {
		t.Fatalf("leads.NewFromConfig: %v", err)
	}
	d, err := daemon.New(cfg, st, svc, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(d.Stop)
	return d, svc
}

func TestDaemonStartStop(t *testing.T) {
	d, _ := newDaemon(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	status := d.Status()
	if !status.Running || status.APIAddress == "" {
		t.Fatalf("expected running daemon with an address, got %+v", status)
	}

	resp, err := http.Get("http://" + status.APIAddress + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	var payload map[string]bool
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	resp.Body.Close()
	if !payload["ok"] {
		t.Fatalf("unexpected health payload %v", payload)
	}

	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	if d.Status().Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestSecondInstanceIsLockedOut(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	open := func() *daemon.Daemon {
		st := testsupport.MustOpenStore(t, cfg)
		svc, err := leads.NewFromConfig(cfg, st, nil)
		if err != nil {
			t.Fatalf("leads.NewFromConfig: %v", err)
		}
		d, err := daemon.New(cfg, st, svc, nil)
		if err != nil {
			t.Fatalf("daemon.New: %v", err)
		}
		t.Cleanup(d.Stop)
		return d
	}
	first, second := open(), open()

	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := second.Start(context.Background()); err == nil {
		t.Fatal("expected lock contention error")
	}
	first.Stop()
	if err := second.Start(context.Background()); err != nil {
		t.Fatalf("expected start after release, got %v", err)
	}
}

func TestStartProvisionsAdmin(t *testing.T) {
	d, svc := newDaemon(t, testsupport.WithAdmin("admin@example.com", "pw"))
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	result, err := svc.Login(context.Background(), "admin@example.com", "pw")
	if err != nil || !result.Success {
		t.Fatalf("expected admin login to work, got %+v %v", result, err)
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := daemon.New(nil, nil, nil, nil); err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}
