package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func NewGetCmd(factory appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a memory by ID",
		Args:  cobra.ExactArgs(1),
		RunE:  makeGetRunner(factory),
	}
}

func makeGetRunner(factory appFactory) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := factory(cmd)
		if err != nil {
			return err
		}

		entry, filePath, err := a.svc.Get(args[0])
		if err != nil {
			return err
		}

		if jsonOutput(cmd) {
			return printJSON(cmd, map[string]any{
				"id":        args[0],
				"file_path": filePath,
				"entry":     entry,
			})
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s  %s/%s\n", args[0], entry.Project, entry.Category)
		if len(entry.Tags) > 0 {
			fmt.Fprintf(out, "Tags: %s\n", strings.Join(entry.Tags, ", "))
		}
		if len(entry.References) > 0 {
			fmt.Fprintf(out, "References: %s\n", strings.Join(entry.References, ", "))
		}
		if entry.Outdated {
			fmt.Fprintln(out, "Status: outdated")
		}
		fmt.Fprintf(out, "File: %s\n\n%s\n", filePath, entry.Content)
		return nil
	}
}
