package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const memoryURIScheme = "memory://"

// NewMCPServer builds the stdio RPC transport: an MCP server exposing the
// four memory operations as tools plus a memory resource. Like the HTTP
// transport it is a thin layer over the Service.
func NewMCPServer(svc *Service, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"retainr",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithRecovery(),
		server.WithInstructions("retainr stores short markdown memory notes per project and retrieves them by semantic similarity. Save insights worth keeping across sessions; search before re-deriving them."),
	)

	s.AddTool(saveMemoryTool(), saveMemoryHandler(svc))
	s.AddTool(searchMemoriesTool(), searchMemoriesHandler(svc))
	s.AddTool(listMemoriesTool(), listMemoriesHandler(svc))
	s.AddTool(updateMemoryTool(), updateMemoryHandler(svc))

	s.AddResourceTemplate(memoryResourceTemplate(), memoryResourceHandler(svc))

	return s
}

func saveMemoryTool() mcp.Tool {
	return mcp.NewTool("save_memory",
		mcp.WithDescription("Save a new memory entry to persistent storage."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project or repository name")),
		mcp.WithString("category", mcp.Required(), mcp.Description("Memory category (architecture, implementation, debugging, documentation, other)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Memory content in markdown format")),
		mcp.WithArray("tags", mcp.Description("Tags for better searchability"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithArray("references", mcp.Description("Related file paths"), mcp.Items(map[string]any{"type": "string"})),
	)
}

func saveMemoryHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := request.RequireString("project")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		category, err := request.RequireString("category")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		content, err := request.RequireString("content")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		entry := &MemoryEntry{
			Project:    project,
			Category:   category,
			Content:    content,
			Tags:       request.GetStringSlice("tags", []string{}),
			References: request.GetStringSlice("references", []string{}),
		}

		res, err := svc.Create(ctx, entry)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to save memory: %v", err)), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Memory saved successfully!\n\n")
		fmt.Fprintf(&b, "ID: %s\nFile: %s\nProject: %s\nCategory: %s\n", res.ID, res.FilePath, entry.Project, entry.Category)
		if !res.Indexed {
			b.WriteString("\nNote: vector indexing failed; the memory is saved but not semantically searchable until the next reindex.\n")
		}
		return mcp.NewToolResultText(b.String()), nil
	}
}

func searchMemoriesTool() mcp.Tool {
	return mcp.NewTool("search_memories",
		mcp.WithDescription("Search for relevant memories using semantic similarity."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
		mcp.WithString("project", mcp.Description("Optional project filter")),
		mcp.WithArray("tags", mcp.Description("Optional tag filters; a hit must carry every tag"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithNumber("top", mcp.Description("Number of results to return (max 10)")),
	)
}

func searchMemoriesHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		opts := SearchOptions{
			Project: request.GetString("project", ""),
			Tags:    request.GetStringSlice("tags", nil),
			TopK:    request.GetInt("top", 3),
		}

		results, err := svc.Search(ctx, query, opts)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to search memories: %v", err)), nil
		}
		if len(results) == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("No memories found for query: %q", query)), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Found %d relevant memories for %q:\n\n", len(results), query)
		for i, r := range results {
			fmt.Fprintf(&b, "%d. **%s** - %s (score: %.3f)\n", i+1, r.Entry.Project, r.Entry.Category, r.Score)
			fmt.Fprintf(&b, "   Tags: %s\n", orNone(strings.Join(r.Entry.Tags, ", ")))
			fmt.Fprintf(&b, "   Content: %s\n", truncate(r.Entry.Content, 200))
			fmt.Fprintf(&b, "   File: %s\n\n", r.FilePath)
		}
		return mcp.NewToolResultText(b.String()), nil
	}
}

func listMemoriesTool() mcp.Tool {
	return mcp.NewTool("list_memories",
		mcp.WithDescription("List recent memories, optionally filtered by project."),
		mcp.WithString("project", mcp.Description("Optional project filter")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of memories to list")),
	)
}

func listMemoriesHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project := request.GetString("project", "")
		limit := request.GetInt("limit", 10)

		memories, err := svc.List(project, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list memories: %v", err)), nil
		}
		if len(memories) == 0 {
			return mcp.NewToolResultText("No memories stored yet."), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Recent memories (%d):\n\n", len(memories))
		for _, m := range memories {
			status := ""
			if m.Outdated {
				status = " [outdated]"
			}
			fmt.Fprintf(&b, "- %s  %s/%s%s\n", m.ID, m.Project, m.Category, status)
			fmt.Fprintf(&b, "  Tags: %s\n", orNone(strings.Join(m.Tags, ", ")))
			fmt.Fprintf(&b, "  File: %s\n", m.FilePath)
		}
		return mcp.NewToolResultText(b.String()), nil
	}
}

func updateMemoryTool() mcp.Tool {
	return mcp.NewTool("update_memory",
		mcp.WithDescription("Mark a memory as outdated or current."),
		mcp.WithString("memory_id", mcp.Required(), mcp.Description("Memory identifier")),
		mcp.WithBoolean("outdated", mcp.Required(), mcp.Description("true marks the memory outdated, false restores it")),
	)
}

func updateMemoryHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("memory_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		outdated, err := request.RequireBool("outdated")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := svc.UpdateStatus(ctx, id, outdated); err != nil {
			if err == ErrNotFound {
				return mcp.NewToolResultError(fmt.Sprintf("memory %s not found", id)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("failed to update memory: %v", err)), nil
		}

		state := "outdated"
		if !outdated {
			state = "current"
		}
		return mcp.NewToolResultText(fmt.Sprintf("Memory %s marked as %s.", id, state)), nil
	}
}

func memoryResourceTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		memoryURIScheme+"{memory_id}",
		"memory",
		mcp.WithTemplateDescription("Full markdown content of a stored memory"),
		mcp.WithTemplateMIMEType("text/markdown"),
	)
}

func memoryResourceHandler(svc *Service) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := strings.TrimPrefix(request.Params.URI, memoryURIScheme)

		entry, _, err := svc.Get(id)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "text/markdown",
				Text:     entry.Content,
			},
		}, nil
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
