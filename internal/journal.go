package internal

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	journalDirName = ".journal"
	journalAuthor  = "retainr"
	journalEmail   = "retainr@local"
)

// Commit is one journal entry: a snapshot of the memory directory.
type Commit struct {
	Hash      string    `json:"hash"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Journal keeps a git history of the memory directory, one commit per write.
// It is an audit trail, not part of the store/index consistency contract:
// journal failures are logged by the service and never fail a save.
//
// go-git worktrees are not safe for concurrent staging, so the journal
// serializes its own operations.
type Journal struct {
	mu       sync.Mutex
	repo     *git.Repository
	worktree *git.Worktree
}

// OpenJournal opens the journal for a memory directory, initializing the
// repository on first use. Git storage lives in <memoryDir>/.journal with the
// memory directory itself as the worktree, keeping memory files browsable in
// place.
func OpenJournal(memoryDir string) (*Journal, error) {
	fs := osfs.New(memoryDir + "/" + journalDirName)
	storage := filesystem.NewStorage(fs, cache.NewObjectLRUDefault())
	wt := osfs.New(memoryDir)

	repo, err := git.Open(storage, wt)
	if err == git.ErrRepositoryNotExists {
		repo, err = git.Init(storage, wt)
	}
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("get worktree: %w", err)
	}

	return &Journal{repo: repo, worktree: worktree}, nil
}

// Commit stages every change under the memory directory (except the journal's
// own storage) and records a commit. Returns nil when there is nothing to
// commit.
func (j *Journal) Commit(message string) (*Commit, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	status, err := j.worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}

	staged := 0
	for path := range status {
		if strings.HasPrefix(path, journalDirName+"/") || path == journalDirName {
			continue
		}
		if _, err := j.worktree.Add(path); err != nil {
			return nil, fmt.Errorf("stage %s: %w", path, err)
		}
		staged++
	}
	if staged == 0 {
		return nil, nil
	}

	hash, err := j.worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  journalAuthor,
			Email: journalEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	commit, err := j.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get commit: %w", err)
	}
	return toCommit(commit), nil
}

// Log returns the most recent commits, newest first.
func (j *Journal) Log(limit int) ([]*Commit, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	iter, err := j.repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, fmt.Errorf("get log: %w", err)
	}
	defer iter.Close()

	var commits []*Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if limit > 0 && len(commits) >= limit {
			return io.EOF
		}
		commits = append(commits, toCommit(c))
		return nil
	})
	if err != nil && err != io.EOF {
		return nil, err
	}
	return commits, nil
}

// Diff renders the last recorded change of a single memory file: the file at
// HEAD against its previous committed revision. A file with only one revision
// diffs against empty.
func (j *Journal) Diff(relPath string) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	head, err := j.repo.Head()
	if err != nil {
		return "", fmt.Errorf("get HEAD: %w", err)
	}
	headCommit, err := j.repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("get HEAD commit: %w", err)
	}

	current, err := fileContents(headCommit, relPath)
	if err != nil {
		return "", fmt.Errorf("read %s at HEAD: %w", relPath, err)
	}

	previous := ""
	if parent, err := headCommit.Parent(0); err == nil {
		if prev, err := fileContents(parent, relPath); err == nil {
			previous = prev
		}
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(previous, current, false)
	return dmp.DiffPrettyText(diffs), nil
}

func fileContents(commit *object.Commit, relPath string) (string, error) {
	file, err := commit.File(relPath)
	if err != nil {
		return "", err
	}
	return file.Contents()
}

func toCommit(c *object.Commit) *Commit {
	return &Commit{
		Hash:      c.Hash.String(),
		Message:   c.Message,
		Timestamp: c.Author.When,
	}
}
