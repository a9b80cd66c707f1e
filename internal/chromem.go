package internal

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"
)

var _ VectorIndex = (*ChromemIndex)(nil)

// ChromemIndex stores embeddings in a chromem-go collection: an embedded,
// ChromaDB-shaped vector database with metadata equality filters. With a
// persist path the collection survives restarts; without one it lives in
// memory only.
type ChromemIndex struct {
	mu         sync.RWMutex
	db         *chromem.DB
	col        *chromem.Collection
	embedder   Embedder
	collection string
	model      string
}

func NewChromemIndex(cfg IndexConfig, embedder Embedder) (*ChromemIndex, error) {
	var db *chromem.DB
	var err error

	if cfg.Path != "" {
		db, err = chromem.NewPersistentDB(cfg.Path, false)
		if err != nil {
			return nil, fmt.Errorf("open vector database: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	col, err := db.GetOrCreateCollection(cfg.Collection, collectionMetadata(), nil)
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", cfg.Collection, err)
	}

	return &ChromemIndex{
		db:         db,
		col:        col,
		embedder:   embedder,
		collection: cfg.Collection,
		model:      cfg.Model,
	}, nil
}

func collectionMetadata() map[string]string {
	return map[string]string{"description": "retainr memory embeddings"}
}

// EmbeddingText builds the text a memory is embedded and stored under:
// content, then tags, then category, empty parts skipped.
func EmbeddingText(entry *MemoryEntry) string {
	parts := make([]string, 0, 3)
	if entry.Content != "" {
		parts = append(parts, entry.Content)
	}
	if len(entry.Tags) > 0 {
		parts = append(parts, strings.Join(entry.Tags, " "))
	}
	if entry.Category != "" {
		parts = append(parts, entry.Category)
	}
	return strings.Join(parts, " ")
}

func (x *ChromemIndex) Index(ctx context.Context, id string, entry *MemoryEntry, filePath string) error {
	text := EmbeddingText(entry)

	vec, err := x.embedder.Embed(ctx, text)
	if err != nil {
		return err
	}

	timestamp := ""
	if !entry.Timestamp.IsZero() {
		timestamp = entry.Timestamp.Format(time.RFC3339)
	}

	doc := chromem.Document{
		ID:        id,
		Content:   text,
		Embedding: vec,
		Metadata: map[string]string{
			"project":    entry.Project,
			"category":   entry.Category,
			"tags":       strings.Join(entry.Tags, ","),
			"references": strings.Join(entry.References, ","),
			"file_path":  filePath,
			"timestamp":  timestamp,
			"outdated":   strconv.FormatBool(entry.Outdated),
		},
	}

	x.mu.RLock()
	col := x.col
	x.mu.RUnlock()

	if err := col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("index memory %s: %w", id, err)
	}
	return nil
}

func (x *ChromemIndex) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	vec, err := x.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	where := map[string]string{"outdated": "false"}
	if opts.Project != "" {
		where["project"] = opts.Project
	}

	x.mu.RLock()
	col := x.col
	x.mu.RUnlock()

	n := opts.TopK
	if n <= 0 || n > MaxSearchResults {
		n = MaxSearchResults
	}
	// chromem rejects nResults above the collection size.
	if count := col.Count(); n > count {
		n = count
	}
	if n == 0 {
		return nil, nil
	}

	hits, err := col.QueryEmbedding(ctx, vec, n, where, nil)
	if err != nil {
		return nil, fmt.Errorf("query vector index: %w", err)
	}

	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		entry := entryFromMetadata(hit.Metadata, hit.Content)
		if !hasAllTags(entry.Tags, opts.Tags) {
			continue
		}
		results = append(results, SearchResult{
			ID:       hit.ID,
			Score:    clampScore(hit.Similarity),
			Entry:    *entry,
			FilePath: hit.Metadata["file_path"],
		})
	}
	return results, nil
}

func (x *ChromemIndex) Update(ctx context.Context, id string, entry *MemoryEntry, filePath string) error {
	// Delete-then-reindex: chromem has no partial update, and reindexing is
	// idempotent anyway.
	if err := x.Delete(ctx, id); err != nil {
		return err
	}
	return x.Index(ctx, id, entry, filePath)
}

func (x *ChromemIndex) Delete(ctx context.Context, id string) error {
	x.mu.RLock()
	col := x.col
	x.mu.RUnlock()

	if err := col.Delete(ctx, nil, nil, id); err != nil {
		return fmt.Errorf("delete memory %s from index: %w", id, err)
	}
	return nil
}

func (x *ChromemIndex) Stats(_ context.Context) (IndexStats, error) {
	x.mu.RLock()
	col := x.col
	x.mu.RUnlock()

	return IndexStats{
		TotalMemories:  col.Count(),
		CollectionName: x.collection,
		EmbeddingModel: x.model,
	}, nil
}

// Reset drops and recreates the collection. Callers rebuild it from the file
// store afterwards; orphaned vectors disappear with the old collection.
func (x *ChromemIndex) Reset(_ context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if err := x.db.DeleteCollection(x.collection); err != nil {
		return fmt.Errorf("drop collection %s: %w", x.collection, err)
	}
	col, err := x.db.GetOrCreateCollection(x.collection, collectionMetadata(), nil)
	if err != nil {
		return fmt.Errorf("recreate collection %s: %w", x.collection, err)
	}
	x.col = col
	return nil
}

// entryFromMetadata reconstructs an entry purely from the index's metadata
// and stored document. This is the index's view of the memory, which may be
// stale relative to the file on disk.
func entryFromMetadata(meta map[string]string, document string) *MemoryEntry {
	entry := &MemoryEntry{
		Project:    meta["project"],
		Category:   meta["category"],
		Tags:       splitCommaList(meta["tags"]),
		References: splitCommaList(meta["references"]),
		Content:    document,
		Outdated:   meta["outdated"] == "true",
	}
	if ts, err := time.Parse(time.RFC3339, meta["timestamp"]); err == nil {
		entry.Timestamp = ts
	}
	return entry
}

func splitCommaList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

func hasAllTags(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func clampScore(similarity float32) float32 {
	if similarity < 0 {
		return 0
	}
	if similarity > 1 {
		return 1
	}
	return similarity
}
