package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewUpdateCmd(factory appFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Mark a memory as outdated or current",
		Args:  cobra.ExactArgs(1),
		RunE:  makeUpdateRunner(factory),
	}

	cmd.Flags().Bool("outdated", true, "Mark as outdated (use --outdated=false to restore)")
	return cmd
}

func makeUpdateRunner(factory appFactory) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		outdated, _ := cmd.Flags().GetBool("outdated")

		a, err := factory(cmd)
		if err != nil {
			return err
		}

		if err := a.svc.UpdateStatus(cmd.Context(), args[0], outdated); err != nil {
			return fmt.Errorf("update memory: %w", err)
		}

		state := "outdated"
		if !outdated {
			state = "current"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Memory %s marked as %s\n", args[0], state)
		return nil
	}
}
