package main

import (
	"fmt"
	"io"
	"os"

	"github.com/4thel00z/retainr/internal"
	"github.com/spf13/cobra"
)

func NewSaveCmd(factory appFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save [content]",
		Short: "Save a new memory",
		Long:  `Save a new memory entry. Content is taken from the argument, from --file, or from stdin.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  makeSaveRunner(factory),
	}

	cmd.Flags().StringP("project", "p", "", "Project name (required)")
	cmd.Flags().StringP("category", "c", "other", "Category (architecture, implementation, debugging, documentation, other)")
	cmd.Flags().StringSliceP("tag", "t", nil, "Tags for searchability (repeatable)")
	cmd.Flags().StringSliceP("ref", "r", nil, "Related file paths (repeatable)")
	cmd.Flags().StringP("file", "f", "", "Read content from a markdown file")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func makeSaveRunner(factory appFactory) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		content, err := resolveSaveContent(cmd, args)
		if err != nil {
			return err
		}

		project, _ := cmd.Flags().GetString("project")
		category, _ := cmd.Flags().GetString("category")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		refs, _ := cmd.Flags().GetStringSlice("ref")

		a, err := factory(cmd)
		if err != nil {
			return err
		}

		entry := &internal.MemoryEntry{
			Project:    project,
			Category:   category,
			Tags:       tags,
			References: refs,
			Content:    content,
		}

		res, err := a.svc.Create(cmd.Context(), entry)
		if err != nil {
			return fmt.Errorf("save memory: %w", err)
		}

		if jsonOutput(cmd) {
			return printJSON(cmd, res)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s -> %s\n", res.ID, res.FilePath)
		if !res.Indexed {
			fmt.Fprintln(cmd.OutOrStdout(), "Warning: not indexed; run `retainr reindex` once the embedding service is reachable")
		}
		return nil
	}
}

func resolveSaveContent(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	if file, _ := cmd.Flags().GetString("file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read content file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
