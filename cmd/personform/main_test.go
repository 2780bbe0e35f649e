package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "personform.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRun_ServesUntilCanceled(t *testing.T) {
	path := writeConfig(t, "env: test\naddr: 127.0.0.1:0\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrCh := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, []string{"-config", path}, func(addr net.Addr) { addrCh <- addr })
	}()

	var addr net.Addr
	select {
	case addr = <-addrCh:
	case err := <-done:
		t.Fatalf("run returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not start")
	}

	base := "http://" + addr.String()
	for path, fragment := range map[string]string{
		"/healthz":                 `"ok"`,
		"/":                        `src="/assets/personform.js"`,
		"/assets/personform.js":    "focusout",
		"/api/countries?q=schweiz": `"CH"`,
	} {
		resp, err := http.Get(base + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), fragment) {
			t.Fatalf("get %s: status %d, body missing %q", path, resp.StatusCode, fragment)
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not shut down")
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "env: staging\n")
	if err := Run(context.Background(), []string{"-config", path}, nil); err == nil {
		t.Fatalf("expected config error")
	}
}

func TestRun_BadFlag(t *testing.T) {
	if err := Run(context.Background(), []string{"-nope"}, nil); err == nil {
		t.Fatalf("expected flag error")
	}
}
