package internal

import (
	"fmt"
	"log"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

const (
	filenameTimeLayout = "2006-01-02T15-04-05"
	memoryFileExt      = ".md"
)

// FileStore persists memory entries as markdown files with YAML front matter,
// one file per memory under a per-project directory. It is the source of
// truth; the vector index only mirrors it.
//
// The store takes a billy filesystem rooted at the memory directory so tests
// can run against memfs while production uses osfs.
type FileStore struct {
	fs     billy.Filesystem
	logger *log.Logger
}

func NewFileStore(fs billy.Filesystem, logger *log.Logger) *FileStore {
	if logger == nil {
		logger = log.Default()
	}
	return &FileStore{fs: fs, logger: logger}
}

// Save writes the entry to disk and returns its derived identifier and path
// (relative to the memory root). A missing timestamp is assigned here, before
// the filename is built from it.
//
// Filenames are best-effort unique: two saves in the same second with the
// same project, category and title land on the same path and the second one
// wins.
func (s *FileStore) Save(entry *MemoryEntry) (string, string, error) {
	if err := entry.Validate(); err != nil {
		return "", "", err
	}
	entry.Normalize()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	if err := s.fs.MkdirAll(entry.Project, 0o755); err != nil {
		return "", "", fmt.Errorf("create project directory: %w", err)
	}

	filePath := path.Join(entry.Project, s.filename(entry))

	data, err := EncodeMemory(entry)
	if err != nil {
		return "", "", err
	}

	if err := s.writeFile(filePath, data); err != nil {
		return "", "", err
	}

	return DeriveID(filePath), filePath, nil
}

// Load reads and parses the memory at path. Missing files, unreadable files
// and malformed front matter all come back as absent: one corrupted file must
// never block listing or search of the rest.
func (s *FileStore) Load(filePath string) (*MemoryEntry, bool) {
	data, err := util.ReadFile(s.fs, filePath)
	if os.IsNotExist(err) {
		return nil, false
	}
	if err != nil {
		s.logger.Printf("read memory %s: %v", filePath, err)
		return nil, false
	}

	entry, err := DecodeMemory(data)
	if err != nil {
		s.logger.Printf("parse memory %s: %v", filePath, err)
		return nil, false
	}
	return entry, true
}

// Update flips the outdated flag via load-modify-save, rewriting the file in
// place. The embedded timestamp is preserved from the original entry, so the
// path (and therefore the identifier) never changes. Returns false when the
// file is missing or corrupt.
func (s *FileStore) Update(filePath string, outdated bool) bool {
	entry, ok := s.Load(filePath)
	if !ok {
		return false
	}

	entry.Outdated = outdated

	data, err := EncodeMemory(entry)
	if err != nil {
		s.logger.Printf("encode memory %s: %v", filePath, err)
		return false
	}
	if err := s.writeFile(filePath, data); err != nil {
		s.logger.Printf("rewrite memory %s: %v", filePath, err)
		return false
	}
	return true
}

// ListFiles returns memory file paths, most recently modified first. With a
// project it lists only that project's directory; a project with no directory
// yet is simply empty, not an error.
func (s *FileStore) ListFiles(project string) ([]string, error) {
	var dirs []string
	if project != "" {
		dirs = []string{project}
	} else {
		entries, err := s.fs.ReadDir(".")
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("read memory root: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() {
				dirs = append(dirs, e.Name())
			}
		}
	}

	type fileInfo struct {
		path    string
		modTime time.Time
	}
	var files []fileInfo

	for _, dir := range dirs {
		entries, err := s.fs.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read project directory %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), memoryFileExt) {
				continue
			}
			files = append(files, fileInfo{
				path:    path.Join(dir, e.Name()),
				modTime: e.ModTime(),
			})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].modTime.Equal(files[j].modTime) {
			return files[i].modTime.After(files[j].modTime)
		}
		return files[i].path > files[j].path
	})

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}

// FindByID resolves an identifier back to a path by scanning every memory
// file. Linear in the total memory count, which is fine at the scale this
// store targets.
func (s *FileStore) FindByID(id string) (string, bool) {
	paths, err := s.ListFiles("")
	if err != nil {
		s.logger.Printf("list memories: %v", err)
		return "", false
	}
	for _, p := range paths {
		if DeriveID(p) == id {
			return p, true
		}
	}
	return "", false
}

// MemoryID returns the identifier for a path.
func (s *FileStore) MemoryID(filePath string) string {
	return DeriveID(filePath)
}

func (s *FileStore) filename(entry *MemoryEntry) string {
	slug := Slugify(TitleOf(entry.Content))
	return entry.Timestamp.Format(filenameTimeLayout) + "-" + entry.Category + "-" + slug + memoryFileExt
}

// writeFile writes via a temp file and rename so a failed write never leaves
// a half-written file behind where Load would pick it up.
func (s *FileStore) writeFile(filePath string, data []byte) error {
	dir := path.Dir(filePath)

	tmp, err := util.TempFile(s.fs, dir, ".retainr-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("write memory file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("close memory file: %w", err)
	}

	if err := s.fs.Rename(tmpName, filePath); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("rename memory file: %w", err)
	}
	return nil
}
