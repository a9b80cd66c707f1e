package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewStatsCmd(factory appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show vector collection statistics",
		RunE:  makeStatsRunner(factory),
	}
}

func makeStatsRunner(factory appFactory) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		a, err := factory(cmd)
		if err != nil {
			return err
		}

		stats, err := a.svc.Stats(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput(cmd) {
			return printJSON(cmd, stats)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Collection: %s\n", stats.CollectionName)
		fmt.Fprintf(out, "Indexed memories: %d\n", stats.TotalMemories)
		fmt.Fprintf(out, "Embedding model: %s\n", stats.EmbeddingModel)
		return nil
	}
}
