package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func NewListCmd(factory appFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent memories",
		RunE:  makeListRunner(factory),
	}

	cmd.Flags().StringP("project", "p", "", "Filter by project")
	cmd.Flags().IntP("limit", "n", 10, "Maximum number of memories to list")
	return cmd
}

func makeListRunner(factory appFactory) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		project, _ := cmd.Flags().GetString("project")
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := factory(cmd)
		if err != nil {
			return err
		}

		memories, err := a.svc.List(project, limit)
		if err != nil {
			return fmt.Errorf("list memories: %w", err)
		}

		if jsonOutput(cmd) {
			return printJSON(cmd, memories)
		}

		out := cmd.OutOrStdout()
		if len(memories) == 0 {
			fmt.Fprintln(out, "No memories found")
			return nil
		}

		for _, m := range memories {
			status := ""
			if m.Outdated {
				status = " [outdated]"
			}
			tags := ""
			if len(m.Tags) > 0 {
				tags = "  (" + strings.Join(m.Tags, ", ") + ")"
			}
			fmt.Fprintf(out, "%s  %s  %s/%s%s%s\n",
				m.ID, m.Timestamp.Format("2006-01-02 15:04"), m.Project, m.Category, tags, status)
		}
		return nil
	}
}
