package main

import (
	"bytes"
	"io"
	"log"
	"testing"

	"github.com/4thel00z/retainr/internal"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/spf13/cobra"
)

// newTestApp wires a fully in-memory app: memfs file store and an in-memory
// vector collection with deterministic hash embeddings.
func newTestApp(t *testing.T) *app {
	t.Helper()

	logger := log.New(io.Discard, "", 0)
	store := internal.NewFileStore(memfs.New(), logger)

	idx, err := internal.NewChromemIndex(internal.IndexConfig{
		Collection: "test_memories",
		Model:      "hash",
	}, internal.NewHashEmbedder(64))
	if err != nil {
		t.Fatalf("new index: %v", err)
	}

	return &app{
		cfg:    internal.DefaultConfig(),
		store:  store,
		index:  idx,
		svc:    internal.NewService(store, idx, nil, logger),
		logger: logger,
	}
}

func testFactory(a *app) appFactory {
	return func(*cobra.Command) (*app, error) { return a, nil }
}

// runCmd executes a command through the root so persistent flags resolve the
// same way they do in production.
func runCmd(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd("test", testFactory(a))
	root.SetArgs(args)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	err := root.Execute()
	return out.String(), err
}
