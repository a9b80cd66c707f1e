package internal

import (
	"context"
	"fmt"
	"strings"
)

// Summary is the structured output of the summarize feature.
type Summary struct {
	Title     string   `json:"title"`
	Overview  string   `json:"overview"`
	KeyPoints []string `json:"key_points"`
	Tags      []string `json:"tags"`
}

// Summarizer condenses a project's recent memories into a short overview via
// an LLM provider.
type Summarizer struct {
	store    *FileStore
	provider Provider
}

func NewSummarizer(store *FileStore, provider Provider) *Summarizer {
	return &Summarizer{store: store, provider: provider}
}

// Summarize loads up to limit recent memories of a project (all projects when
// empty) and asks the provider for a structured summary.
func (s *Summarizer) Summarize(ctx context.Context, project string, limit int) (*Summary, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("provider not available")
	}

	paths, err := s.store.ListFiles(project)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	if limit > 0 && len(paths) > limit {
		paths = paths[:limit]
	}

	var sb strings.Builder
	sb.WriteString("Summarize the following memory notes:\n\n")
	count := 0
	for _, p := range paths {
		entry, ok := s.store.Load(p)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "## %s / %s\n%s\n\n", entry.Project, entry.Category, entry.Content)
		count++
	}

	if count == 0 {
		return &Summary{Title: "Empty", Overview: "No memories found"}, nil
	}

	var summary Summary
	if err := s.provider.GenerateObject(ctx, sb.String(), &summary); err != nil {
		return nil, fmt.Errorf("generate summary: %w", err)
	}
	return &summary, nil
}
