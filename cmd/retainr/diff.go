package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewDiffCmd(factory appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <id>",
		Short: "Show the last recorded change of a memory",
		Args:  cobra.ExactArgs(1),
		RunE:  makeDiffRunner(factory),
	}
}

func makeDiffRunner(factory appFactory) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := factory(cmd)
		if err != nil {
			return err
		}
		if a.journal == nil {
			return fmt.Errorf("journal is disabled; enable it in the config (journal.enabled: true)")
		}

		filePath, err := a.svc.Find(args[0])
		if err != nil {
			return err
		}

		diff, err := a.journal.Diff(filePath)
		if err != nil {
			return fmt.Errorf("diff memory: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), diff)
		return nil
	}
}
