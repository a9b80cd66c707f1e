package internal

import "context"

// MaxSearchResults is the hard server-side cap on nearest-neighbor hits,
// regardless of what the caller asks for.
const MaxSearchResults = 10

// SearchOptions narrows a similarity query. Tags is a hard AND-filter: a hit
// must carry every requested tag.
type SearchOptions struct {
	Project string
	Tags    []string
	TopK    int
}

// VectorIndex mirrors the file store in an external similarity index. It is
// best-effort and eventually consistent: index failures never make a durably
// saved memory less of a memory.
type VectorIndex interface {
	// Index upserts the memory's embedding and metadata under id.
	Index(ctx context.Context, id string, entry *MemoryEntry, filePath string) error

	// Search returns scored hits reconstructed from the index's own metadata,
	// never by re-reading files. Outdated memories are excluded.
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)

	// Update replaces the indexed entry (delete then reindex; not atomic).
	Update(ctx context.Context, id string, entry *MemoryEntry, filePath string) error

	// Delete removes the entry, best-effort.
	Delete(ctx context.Context, id string) error

	// Stats reports collection introspection data.
	Stats(ctx context.Context) (IndexStats, error)

	// Reset drops every indexed entry so the collection can be rebuilt from
	// the file store.
	Reset(ctx context.Context) error
}
