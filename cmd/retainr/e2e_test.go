package main

import (
	"strings"
	"testing"
)

// TestEndToEnd drives the full memory lifecycle through the CLI: save,
// search, mark outdated, verify the hit disappears, then rebuild the index.
func TestEndToEnd(t *testing.T) {
	a := newTestApp(t)

	out, err := runCmd(t, a, "save", "-p", "webapp", "-c", "debugging", "-t", "auth", "# JWT expiry\n\nTokens expire after 24h, refresh at 20h.")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	fields := strings.Fields(out)
	if len(fields) < 2 {
		t.Fatalf("unexpected save output: %q", out)
	}
	id := fields[1]

	out, err = runCmd(t, a, "search", "token expiry", "-p", "webapp")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, id) {
		t.Fatalf("search missed the saved memory: %q", out)
	}

	out, err = runCmd(t, a, "get", id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(out, "refresh at 20h") {
		t.Errorf("get output = %q", out)
	}

	if _, err := runCmd(t, a, "update", id); err != nil {
		t.Fatalf("update: %v", err)
	}

	out, err = runCmd(t, a, "search", "token expiry", "-p", "webapp")
	if err != nil {
		t.Fatalf("search after update: %v", err)
	}
	if strings.Contains(out, id) {
		t.Errorf("outdated memory still returned: %q", out)
	}

	out, err = runCmd(t, a, "list", "-p", "webapp")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "[outdated]") {
		t.Errorf("list should still show the outdated memory: %q", out)
	}

	out, err = runCmd(t, a, "reindex")
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if !strings.Contains(out, "Reindexed 1 memories") {
		t.Errorf("reindex output = %q", out)
	}

	out, err = runCmd(t, a, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "Indexed memories: 1") {
		t.Errorf("stats output = %q", out)
	}
}
