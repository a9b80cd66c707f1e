package internal

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("memory not found")
	ErrInvalidEntry = errors.New("invalid memory entry")
	ErrNoIndex      = errors.New("no vector index available")
)

// Categories form a soft taxonomy. They are suggestions for tooling, not an
// enforced enum: any non-empty category is accepted.
var Categories = []string{
	"architecture",
	"implementation",
	"debugging",
	"documentation",
	"other",
}

// MemoryEntry is the canonical record: one short markdown note namespaced by
// project. It carries no identity of its own; the identifier is derived from
// the file path the store writes it to.
type MemoryEntry struct {
	Project    string    `yaml:"project" json:"project"`
	Category   string    `yaml:"category" json:"category"`
	Tags       []string  `yaml:"tags" json:"tags"`
	References []string  `yaml:"references" json:"references"`
	Content    string    `yaml:"-" json:"content"`
	Outdated   bool      `yaml:"outdated" json:"outdated"`
	Timestamp  time.Time `yaml:"timestamp,omitempty" json:"timestamp,omitempty"`
}

// Validate rejects entries before anything is written. Project and category
// must be single path segments: they become directory and filename parts.
func (e *MemoryEntry) Validate() error {
	if strings.TrimSpace(e.Project) == "" {
		return errInvalid("project must not be empty")
	}
	if !validSegment(e.Project) {
		return errInvalid("project must not contain path separators")
	}
	if strings.TrimSpace(e.Category) == "" {
		return errInvalid("category must not be empty")
	}
	if !validSegment(e.Category) {
		return errInvalid("category must not contain path separators")
	}
	if strings.TrimSpace(e.Content) == "" {
		return errInvalid("content must not be empty")
	}
	return nil
}

// Normalize fills the defaults the rest of the system relies on: tags and
// references are never nil.
func (e *MemoryEntry) Normalize() {
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if e.References == nil {
		e.References = []string{}
	}
}

func errInvalid(msg string) error {
	return &invalidEntryError{msg: msg}
}

type invalidEntryError struct {
	msg string
}

func (e *invalidEntryError) Error() string {
	return "invalid memory entry: " + e.msg
}

func (e *invalidEntryError) Is(target error) bool {
	return target == ErrInvalidEntry
}

func validSegment(s string) bool {
	if s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, "/\\")
}

// MemorySummary is the list projection: everything but the content.
type MemorySummary struct {
	ID        string    `json:"id"`
	FilePath  string    `json:"file_path"`
	Project   string    `json:"project"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	Timestamp time.Time `json:"timestamp,omitempty"`
	Outdated  bool      `json:"outdated"`
}

// SearchResult is a scored hit reconstructed from the vector index's view of
// the memory, which may lag behind the file store.
type SearchResult struct {
	ID       string      `json:"id"`
	Score    float32     `json:"score"`
	Entry    MemoryEntry `json:"entry"`
	FilePath string      `json:"file_path"`
}

// IndexStats reports vector collection introspection data.
type IndexStats struct {
	TotalMemories  int    `json:"total_memories"`
	CollectionName string `json:"collection_name"`
	EmbeddingModel string `json:"embedding_model"`
}
