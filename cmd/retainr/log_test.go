package main

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/4thel00z/retainr/internal"
	"github.com/go-git/go-billy/v5/osfs"
)

// newJournaledApp builds an app over a real temp directory with the journal
// enabled, since the journal needs git storage on disk.
func newJournaledApp(t *testing.T) (*app, string) {
	t.Helper()

	dir := t.TempDir()
	logger := log.New(io.Discard, "", 0)
	store := internal.NewFileStore(osfs.New(dir), logger)

	journal, err := internal.OpenJournal(dir)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}

	return &app{
		cfg:     internal.DefaultConfig(),
		store:   store,
		journal: journal,
		svc:     internal.NewService(store, nil, journal, logger),
		logger:  logger,
	}, dir
}

func TestLogCmd(t *testing.T) {
	a, _ := newJournaledApp(t)

	if _, err := runCmd(t, a, "save", "-p", "p", "# journaled note\n\nbody"); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := runCmd(t, a, "log")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "save:") {
		t.Errorf("output = %q", out)
	}
}

func TestLogCmdJournalDisabled(t *testing.T) {
	a := newTestApp(t)

	_, err := runCmd(t, a, "log")
	if err == nil {
		t.Fatal("expected error with journal disabled")
	}
	if !strings.Contains(err.Error(), "journal is disabled") {
		t.Errorf("error = %v", err)
	}
}

func TestDiffCmd(t *testing.T) {
	a, _ := newJournaledApp(t)

	out, err := runCmd(t, a, "save", "-p", "p", "# diffable\n\nfirst version")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// The save output is "Saved <id> -> <path>".
	fields := strings.Fields(out)
	if len(fields) < 2 {
		t.Fatalf("unexpected save output: %q", out)
	}
	id := fields[1]

	if err := a.svc.UpdateStatus(context.Background(), id, true); err != nil {
		t.Fatalf("update: %v", err)
	}

	out, err = runCmd(t, a, "diff", id)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	// The rendered diff interleaves color codes, so match loosely.
	if !strings.Contains(out, "outdated") || !strings.Contains(out, "true") {
		t.Errorf("diff output = %q", out)
	}
}

func TestDiffCmdJournalDisabled(t *testing.T) {
	a := newTestApp(t)

	if _, err := runCmd(t, a, "diff", "ffffffffffff"); err == nil {
		t.Error("expected error with journal disabled")
	}
}
