package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func NewLogCmd(factory appFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the journal history of the memory directory",
		RunE:  makeLogRunner(factory),
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of commits to show")
	return cmd
}

func makeLogRunner(factory appFactory) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := factory(cmd)
		if err != nil {
			return err
		}
		if a.journal == nil {
			return fmt.Errorf("journal is disabled; enable it in the config (journal.enabled: true)")
		}

		commits, err := a.journal.Log(limit)
		if err != nil {
			return fmt.Errorf("read journal: %w", err)
		}

		if jsonOutput(cmd) {
			return printJSON(cmd, commits)
		}

		for _, c := range commits {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n",
				c.Hash[:7], c.Timestamp.Format("2006-01-02 15:04"), strings.TrimSpace(c.Message))
		}
		return nil
	}
}
