package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewReindexCmd(factory appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the vector index from the file store",
		Long:  `Drops the vector collection and indexes every memory file again. Removes orphaned vectors and picks up memories whose original indexing failed or that were edited by hand.`,
		RunE:  makeReindexRunner(factory),
	}
}

func makeReindexRunner(factory appFactory) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		a, err := factory(cmd)
		if err != nil {
			return err
		}

		res, err := a.svc.Reindex(cmd.Context())
		if err != nil {
			return fmt.Errorf("reindex: %w", err)
		}

		if jsonOutput(cmd) {
			return printJSON(cmd, res)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Reindexed %d memories", res.Indexed)
		if res.Failed > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), " (%d failed)", res.Failed)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	}
}
