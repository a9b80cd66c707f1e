package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func NewWatchCmd(factory appFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the memory directory and reindex on changes",
		Long:  `Watches the memory directory for file changes (including hand-edited memory files) and rebuilds the vector index after a quiet period.`,
		RunE:  makeWatchRunner(factory),
	}

	cmd.Flags().Duration("debounce", 2*time.Second, "Quiet period before reindexing")
	return cmd
}

func makeWatchRunner(factory appFactory) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		debounce, _ := cmd.Flags().GetDuration("debounce")

		a, err := factory(cmd)
		if err != nil {
			return err
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()

		if err := addWatchDirs(watcher, a.cfg.MemoryDir); err != nil {
			return fmt.Errorf("add watch dirs: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes...\n", a.cfg.MemoryDir)

		timer := time.NewTimer(0)
		if !timer.Stop() {
			<-timer.C
		}
		pending := false

		for {
			select {
			case <-cmd.Context().Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if shouldIgnoreEvent(event) {
					continue
				}
				// New project directories need their own watch.
				if event.Op.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = watcher.Add(event.Name)
					}
				}
				if !pending {
					timer.Reset(debounce)
					pending = true
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
			case <-timer.C:
				pending = false
				res, err := a.svc.Reindex(cmd.Context())
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "reindex: %v\n", err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reindexed %d memories (%d failed)\n", res.Indexed, res.Failed)
			}
		}
	}
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	if err := watcher.Add(root); err != nil {
		return err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() || e.Name() == ".journal" {
			continue
		}
		if err := watcher.Add(filepath.Join(root, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func shouldIgnoreEvent(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".retainr-") {
		return true // store's own temp files
	}
	return strings.Contains(event.Name, string(filepath.Separator)+".journal")
}
