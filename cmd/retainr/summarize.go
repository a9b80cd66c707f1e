package main

import (
	"fmt"

	"github.com/4thel00z/retainr/internal"
	"github.com/spf13/cobra"
)

func NewSummarizeCmd(factory appFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize recent memories with an LLM",
		RunE:  makeSummarizeRunner(factory),
	}

	cmd.Flags().StringP("project", "p", "", "Limit to one project")
	cmd.Flags().IntP("limit", "n", 20, "Maximum number of memories to include")
	cmd.Flags().String("provider", "", "Provider name from the config (default: default_provider)")
	return cmd
}

func makeSummarizeRunner(factory appFactory) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		project, _ := cmd.Flags().GetString("project")
		limit, _ := cmd.Flags().GetInt("limit")
		providerName, _ := cmd.Flags().GetString("provider")

		a, err := factory(cmd)
		if err != nil {
			return err
		}

		if providerName == "" {
			providerName = a.cfg.DefaultProvider
		}
		providerCfg, ok := a.cfg.Providers[providerName]
		if !ok {
			return fmt.Errorf("provider %q not configured", providerName)
		}

		provider, err := internal.NewFantasyProvider(cmd.Context(), internal.FantasyConfig{
			Provider: providerName,
			APIKey:   providerCfg.APIKey,
			BaseURL:  providerCfg.BaseURL,
			Model:    providerCfg.Model,
		})
		if err != nil {
			return fmt.Errorf("create provider: %w", err)
		}

		summary, err := internal.NewSummarizer(a.store, provider).Summarize(cmd.Context(), project, limit)
		if err != nil {
			return fmt.Errorf("summarize: %w", err)
		}

		if jsonOutput(cmd) {
			return printJSON(cmd, summary)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n\n%s\n", summary.Title, summary.Overview)
		if len(summary.KeyPoints) > 0 {
			fmt.Fprintln(out)
			for _, p := range summary.KeyPoints {
				fmt.Fprintf(out, "- %s\n", p)
			}
		}
		return nil
	}
}
