package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func NewRootCmd(version string, factory appFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "retainr",
		Short:         "Persistent memory for AI coding sessions",
		Long:          `Stores short markdown memory notes per project as browsable files and retrieves them by listing or semantic similarity search.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Config file path (default ~/.retainr/config.yaml)")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")

	rootCmd.AddCommand(
		NewSaveCmd(factory),
		NewGetCmd(factory),
		NewListCmd(factory),
		NewSearchCmd(factory),
		NewUpdateCmd(factory),
		NewStatsCmd(factory),
		NewReindexCmd(factory),
		NewServeCmd(factory),
		NewMCPCmd(factory, version),
		NewWatchCmd(factory),
		NewLogCmd(factory),
		NewDiffCmd(factory),
		NewSummarizeCmd(factory),
	)

	return rootCmd
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func jsonOutput(cmd *cobra.Command) bool {
	asJSON, _ := cmd.Flags().GetBool("json")
	return asJSON
}
