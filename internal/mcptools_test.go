package internal

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func toolRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return text.Text
}

func TestNewMCPServer(t *testing.T) {
	svc, _ := newTestService(newFakeIndex())
	if s := NewMCPServer(svc, "1.0.0"); s == nil {
		t.Fatal("NewMCPServer returned nil")
	}
}

func TestSaveMemoryTool(t *testing.T) {
	svc, store := newTestService(newFakeIndex())
	handler := saveMemoryHandler(svc)

	result, err := handler(context.Background(), toolRequest(map[string]any{
		"project":  "myproject",
		"category": "debugging",
		"content":  "# Token expiry\n\nTokens expire after 24h.",
		"tags":     []any{"auth"},
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", textContent(t, result))
	}

	text := textContent(t, result)
	if !strings.Contains(text, "Memory saved successfully") {
		t.Errorf("unexpected output: %q", text)
	}

	paths, err := store.ListFiles("myproject")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(paths) != 1 {
		t.Errorf("expected 1 stored file, got %d", len(paths))
	}
}

func TestSaveMemoryToolMissingArgs(t *testing.T) {
	svc, _ := newTestService(newFakeIndex())
	handler := saveMemoryHandler(svc)

	result, err := handler(context.Background(), toolRequest(map[string]any{
		"project": "p",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for missing arguments")
	}
}

func TestSearchMemoriesTool(t *testing.T) {
	idx := newFakeIndex()
	svc, _ := newTestService(idx)
	ctx := context.Background()

	entry := &MemoryEntry{Project: "p", Category: "other", Content: "# searchable\n\nbody"}
	if _, err := svc.Create(ctx, entry); err != nil {
		t.Fatalf("create: %v", err)
	}

	handler := searchMemoriesHandler(svc)
	result, err := handler(ctx, toolRequest(map[string]any{"query": "searchable"}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", textContent(t, result))
	}

	text := textContent(t, result)
	if !strings.Contains(text, "Found 1 relevant") {
		t.Errorf("unexpected output: %q", text)
	}
}

func TestSearchMemoriesToolNoIndex(t *testing.T) {
	svc, _ := newTestService(nil)
	handler := searchMemoriesHandler(svc)

	result, err := handler(context.Background(), toolRequest(map[string]any{"query": "x"}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error without an index")
	}
}

func TestListMemoriesTool(t *testing.T) {
	svc, _ := newTestService(newFakeIndex())
	ctx := context.Background()

	handler := listMemoriesHandler(svc)

	result, err := handler(ctx, toolRequest(nil))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if text := textContent(t, result); !strings.Contains(text, "No memories stored yet") {
		t.Errorf("unexpected output for empty store: %q", text)
	}

	entry := &MemoryEntry{Project: "p", Category: "other", Content: "# note\n\nbody"}
	if _, err := svc.Create(ctx, entry); err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err = handler(ctx, toolRequest(map[string]any{"project": "p"}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if text := textContent(t, result); !strings.Contains(text, "Recent memories (1)") {
		t.Errorf("unexpected output: %q", text)
	}
}

func TestUpdateMemoryTool(t *testing.T) {
	svc, store := newTestService(newFakeIndex())
	ctx := context.Background()

	entry := &MemoryEntry{Project: "p", Category: "other", Content: "# note\n\nbody"}
	res, err := svc.Create(ctx, entry)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	handler := updateMemoryHandler(svc)
	result, err := handler(ctx, toolRequest(map[string]any{
		"memory_id": res.ID,
		"outdated":  true,
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", textContent(t, result))
	}

	got, ok := store.Load(res.FilePath)
	if !ok {
		t.Fatal("load after update failed")
	}
	if !got.Outdated {
		t.Error("outdated flag not set")
	}
}

func TestUpdateMemoryToolNotFound(t *testing.T) {
	svc, _ := newTestService(newFakeIndex())
	handler := updateMemoryHandler(svc)

	result, err := handler(context.Background(), toolRequest(map[string]any{
		"memory_id": "ffffffffffff",
		"outdated":  true,
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for unknown id")
	}
	if text := textContent(t, result); !strings.Contains(text, "not found") {
		t.Errorf("unexpected error text: %q", text)
	}
}

func TestMemoryResource(t *testing.T) {
	svc, _ := newTestService(newFakeIndex())
	ctx := context.Background()

	entry := &MemoryEntry{Project: "p", Category: "other", Content: "# note\n\nbody"}
	res, err := svc.Create(ctx, entry)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	handler := memoryResourceHandler(svc)
	req := mcp.ReadResourceRequest{}
	req.Params.URI = memoryURIScheme + res.ID

	contents, err := handler(ctx, req)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(contents))
	}
	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("unexpected contents type %T", contents[0])
	}
	if text.Text != entry.Content {
		t.Errorf("content = %q", text.Text)
	}
	if text.MIMEType != "text/markdown" {
		t.Errorf("mime = %q", text.MIMEType)
	}
}

func TestMemoryResourceNotFound(t *testing.T) {
	svc, _ := newTestService(newFakeIndex())

	handler := memoryResourceHandler(svc)
	req := mcp.ReadResourceRequest{}
	req.Params.URI = memoryURIScheme + "ffffffffffff"

	if _, err := handler(context.Background(), req); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("0123456789abc", 10); got != "0123456789..." {
		t.Errorf("truncate = %q", got)
	}
}
