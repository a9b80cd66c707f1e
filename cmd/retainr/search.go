package main

import (
	"fmt"
	"strings"

	"github.com/4thel00z/retainr/internal"
	"github.com/spf13/cobra"
)

func NewSearchCmd(factory appFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search memories by semantic similarity",
		Args:  cobra.ExactArgs(1),
		RunE:  makeSearchRunner(factory),
	}

	cmd.Flags().StringP("project", "p", "", "Filter by project")
	cmd.Flags().StringSliceP("tag", "t", nil, "Require tags (repeatable; all must match)")
	cmd.Flags().Int("top", 3, "Number of results to return (max 10)")
	return cmd
}

func makeSearchRunner(factory appFactory) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		project, _ := cmd.Flags().GetString("project")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		top, _ := cmd.Flags().GetInt("top")

		a, err := factory(cmd)
		if err != nil {
			return err
		}

		results, err := a.svc.Search(cmd.Context(), args[0], internal.SearchOptions{
			Project: project,
			Tags:    tags,
			TopK:    top,
		})
		if err != nil {
			return fmt.Errorf("search memories: %w", err)
		}

		if jsonOutput(cmd) {
			if results == nil {
				results = []internal.SearchResult{}
			}
			return printJSON(cmd, results)
		}

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintf(out, "No memories found for %q\n", args[0])
			return nil
		}

		for i, r := range results {
			fmt.Fprintf(out, "%d. %s  %s/%s  score=%.3f\n", i+1, r.ID, r.Entry.Project, r.Entry.Category, r.Score)
			if len(r.Entry.Tags) > 0 {
				fmt.Fprintf(out, "   Tags: %s\n", strings.Join(r.Entry.Tags, ", "))
			}
			fmt.Fprintf(out, "   %s\n", firstLine(r.Entry.Content))
			fmt.Fprintf(out, "   File: %s\n", r.FilePath)
		}
		return nil
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
