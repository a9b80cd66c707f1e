package v1

import "time"

// Memory is one stored memory note.
type Memory struct {
	Project    string    `json:"project"`
	Category   string    `json:"category"`
	Tags       []string  `json:"tags"`
	References []string  `json:"references"`
	Content    string    `json:"content"`
	Outdated   bool      `json:"outdated"`
	Timestamp  time.Time `json:"timestamp,omitempty"`
}

// SaveResult reports where a memory landed and whether it was indexed for
// semantic search.
type SaveResult struct {
	ID       string `json:"id"`
	FilePath string `json:"file_path"`
	Indexed  bool   `json:"indexed"`
	Message  string `json:"message"`
}

// SearchResult is a scored semantic search hit.
type SearchResult struct {
	ID       string  `json:"id"`
	Score    float32 `json:"score"`
	Entry    Memory  `json:"entry"`
	FilePath string  `json:"file_path"`
}

// SearchOptions narrows a search. Tags must all be present on a hit.
type SearchOptions struct {
	Project string
	Tags    []string
	Top     int
}

// Summary is the list projection of a memory, without content.
type Summary struct {
	ID        string    `json:"id"`
	FilePath  string    `json:"file_path"`
	Project   string    `json:"project"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	Timestamp time.Time `json:"timestamp,omitempty"`
	Outdated  bool      `json:"outdated"`
}

// Stats reports vector collection statistics.
type Stats struct {
	TotalMemories  int    `json:"total_memories"`
	CollectionName string `json:"collection_name"`
	EmbeddingModel string `json:"embedding_model"`
}
