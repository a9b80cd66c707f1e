package internal

import (
	"context"
	"fmt"
	"log"
)

// Service is the only component transports call. It sequences the file store
// and the vector index, and owns the consistency policy between them: the
// file store is the source of truth, the index is a derived, best-effort
// accelerator. A memory that failed to index is still a first-class memory.
type Service struct {
	store   *FileStore
	index   VectorIndex
	journal *Journal
	logger  *log.Logger
}

// NewService wires the service. index and journal may be nil: without an
// index, saves still persist and Search reports ErrNoIndex; without a
// journal, no history is kept.
func NewService(store *FileStore, index VectorIndex, journal *Journal, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		store:   store,
		index:   index,
		journal: journal,
		logger:  logger,
	}
}

type CreateResult struct {
	ID       string `json:"id"`
	FilePath string `json:"file_path"`
	Indexed  bool   `json:"indexed"`
}

// Create saves the entry to the file store, then indexes it. A failed save is
// fatal and nothing is indexed; a failed indexing attempt is recorded on the
// result but the save stands, with no rollback or retry.
func (s *Service) Create(ctx context.Context, entry *MemoryEntry) (CreateResult, error) {
	id, filePath, err := s.store.Save(entry)
	if err != nil {
		return CreateResult{}, err
	}

	res := CreateResult{ID: id, FilePath: filePath}

	if s.index != nil {
		if err := s.index.Index(ctx, id, entry, filePath); err != nil {
			s.logger.Printf("memory %s saved but not indexed: %v", id, err)
		} else {
			res.Indexed = true
		}
	}

	s.commit(fmt.Sprintf("save: %s (%s)", id, filePath))
	return res, nil
}

// Find resolves an identifier to its file path.
func (s *Service) Find(id string) (string, error) {
	filePath, ok := s.store.FindByID(id)
	if !ok {
		return "", ErrNotFound
	}
	return filePath, nil
}

// Get loads the memory behind an identifier. A missing id is ErrNotFound; a
// file that exists but cannot be read back is a distinct server-side error.
func (s *Service) Get(id string) (*MemoryEntry, string, error) {
	filePath, err := s.Find(id)
	if err != nil {
		return nil, "", err
	}

	entry, ok := s.store.Load(filePath)
	if !ok {
		return nil, "", fmt.Errorf("memory %s exists but could not be loaded", id)
	}
	return entry, filePath, nil
}

// UpdateStatus flips the outdated flag on a memory, then re-indexes it.
// Re-indexing is best-effort: a failure leaves the index stale until the next
// update or reindex sweep, and is only logged.
func (s *Service) UpdateStatus(ctx context.Context, id string, outdated bool) error {
	filePath, err := s.Find(id)
	if err != nil {
		return err
	}

	if !s.store.Update(filePath, outdated) {
		return fmt.Errorf("update memory file %s", filePath)
	}

	if s.index != nil {
		if entry, ok := s.store.Load(filePath); ok {
			if err := s.index.Update(ctx, id, entry, filePath); err != nil {
				s.logger.Printf("memory %s updated but not re-indexed: %v", id, err)
			}
		}
	}

	s.commit(fmt.Sprintf("update: %s outdated=%t", id, outdated))
	return nil
}

// List returns summaries of the most recent memories, newest first. Entries
// that cannot be loaded are skipped. Content is omitted from summaries; use
// Get or Search for the body.
func (s *Service) List(project string, limit int) ([]MemorySummary, error) {
	paths, err := s.store.ListFiles(project)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(paths) > limit {
		paths = paths[:limit]
	}

	summaries := make([]MemorySummary, 0, len(paths))
	for _, p := range paths {
		entry, ok := s.store.Load(p)
		if !ok {
			continue
		}
		summaries = append(summaries, MemorySummary{
			ID:        s.store.MemoryID(p),
			FilePath:  p,
			Project:   entry.Project,
			Category:  entry.Category,
			Tags:      entry.Tags,
			Timestamp: entry.Timestamp,
			Outdated:  entry.Outdated,
		})
	}
	return summaries, nil
}

// Search delegates to the vector index, capping the result count at
// MaxSearchResults regardless of the caller's request. Results reflect the
// index's view and may be stale relative to the file store.
func (s *Service) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	if s.index == nil {
		return nil, ErrNoIndex
	}
	if opts.TopK <= 0 || opts.TopK > MaxSearchResults {
		opts.TopK = MaxSearchResults
	}
	return s.index.Search(ctx, query, opts)
}

// Stats reports vector collection statistics.
func (s *Service) Stats(ctx context.Context) (IndexStats, error) {
	if s.index == nil {
		return IndexStats{}, ErrNoIndex
	}
	return s.index.Stats(ctx)
}

type ReindexResult struct {
	Indexed int `json:"indexed"`
	Failed  int `json:"failed"`
}

// Reindex rebuilds the vector collection from the file store: the collection
// is dropped, then every readable memory is indexed again. Orphaned vectors
// disappear with the old collection, and memories whose initial indexing
// failed get another chance.
func (s *Service) Reindex(ctx context.Context) (ReindexResult, error) {
	if s.index == nil {
		return ReindexResult{}, ErrNoIndex
	}

	if err := s.index.Reset(ctx); err != nil {
		return ReindexResult{}, err
	}

	paths, err := s.store.ListFiles("")
	if err != nil {
		return ReindexResult{}, err
	}

	var res ReindexResult
	for _, p := range paths {
		entry, ok := s.store.Load(p)
		if !ok {
			res.Failed++
			continue
		}
		if err := s.index.Index(ctx, s.store.MemoryID(p), entry, p); err != nil {
			s.logger.Printf("reindex %s: %v", p, err)
			res.Failed++
			continue
		}
		res.Indexed++
	}
	return res, nil
}

func (s *Service) commit(message string) {
	if s.journal == nil {
		return
	}
	if _, err := s.journal.Commit(message); err != nil {
		s.logger.Printf("journal commit: %v", err)
	}
}
