package main

import (
	"github.com/4thel00z/retainr/internal"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func NewMCPCmd(factory appFactory, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Long:  `Serves the memory operations over the Model Context Protocol on stdin/stdout, for use as an MCP server in AI tooling.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := factory(cmd)
			if err != nil {
				return err
			}
			return server.ServeStdio(internal.NewMCPServer(a.svc, version))
		},
	}
}
