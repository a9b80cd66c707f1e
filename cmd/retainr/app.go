package main

import (
	"fmt"
	"log"
	"os"

	"github.com/4thel00z/retainr/internal"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
)

// app bundles the long-lived service instances shared by every command. They
// live for the process lifetime and are threaded explicitly into each
// transport; nothing is a hidden singleton.
type app struct {
	cfg     *internal.Config
	store   *internal.FileStore
	index   internal.VectorIndex
	journal *internal.Journal
	svc     *internal.Service
	logger  *log.Logger
}

// appFactory builds the app for a command invocation, reading the --config
// persistent flag. Tests substitute their own factory.
type appFactory func(cmd *cobra.Command) (*app, error)

func loadApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return buildApp(cfg)
}

func buildApp(cfg *internal.Config) (*app, error) {
	if err := os.MkdirAll(cfg.MemoryDir, 0o755); err != nil {
		return nil, fmt.Errorf("create memory directory: %w", err)
	}

	logger := log.New(os.Stderr, "retainr: ", log.LstdFlags)
	store := internal.NewFileStore(osfs.New(cfg.MemoryDir), logger)

	// The index is a soft dependency: if it cannot be opened the store still
	// works, and semantic search reports the index as unavailable.
	var index internal.VectorIndex
	embedder, err := internal.NewEmbedder(cfg.Embeddings)
	if err != nil {
		logger.Printf("embedder unavailable: %v", err)
	} else {
		idx, err := internal.NewChromemIndex(cfg.Index, embedder)
		if err != nil {
			logger.Printf("vector index unavailable: %v", err)
		} else {
			index = idx
		}
	}

	var journal *internal.Journal
	if cfg.Journal.Enabled {
		journal, err = internal.OpenJournal(cfg.MemoryDir)
		if err != nil {
			return nil, err
		}
	}

	return &app{
		cfg:     cfg,
		store:   store,
		index:   index,
		journal: journal,
		svc:     internal.NewService(store, index, journal, logger),
		logger:  logger,
	}, nil
}
