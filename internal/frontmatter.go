package internal

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const frontMatterDelim = "---"

// frontMatter is the metadata block serialized at the top of every memory
// file. Content is stored after the closing delimiter, not in the block.
type frontMatter struct {
	Project    string    `yaml:"project"`
	Category   string    `yaml:"category"`
	Tags       []string  `yaml:"tags"`
	References []string  `yaml:"references"`
	Timestamp  time.Time `yaml:"timestamp,omitempty"`
	Outdated   bool      `yaml:"outdated"`
}

// EncodeMemory serializes an entry as a markdown file: a YAML front-matter
// block followed by the raw content.
func EncodeMemory(entry *MemoryEntry) ([]byte, error) {
	meta := frontMatter{
		Project:    entry.Project,
		Category:   entry.Category,
		Tags:       entry.Tags,
		References: entry.References,
		Timestamp:  entry.Timestamp,
		Outdated:   entry.Outdated,
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	if meta.References == nil {
		meta.References = []string{}
	}

	block, err := yaml.Marshal(&meta)
	if err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(frontMatterDelim + "\n")
	buf.Write(block)
	buf.WriteString(frontMatterDelim + "\n\n")
	buf.WriteString(entry.Content)
	if !strings.HasSuffix(entry.Content, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// DecodeMemory parses a memory file back into an entry. A file without a
// well-formed front-matter block is a decode error; the store maps that to
// "absent" rather than letting it surface.
func DecodeMemory(data []byte) (*MemoryEntry, error) {
	text := string(data)

	rest, ok := strings.CutPrefix(text, frontMatterDelim+"\n")
	if !ok {
		return nil, fmt.Errorf("missing front matter delimiter")
	}

	block, content, ok := strings.Cut(rest, "\n"+frontMatterDelim+"\n")
	if !ok {
		return nil, fmt.Errorf("unterminated front matter block")
	}

	var meta frontMatter
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}

	entry := &MemoryEntry{
		Project:    meta.Project,
		Category:   meta.Category,
		Tags:       meta.Tags,
		References: meta.References,
		Content:    strings.TrimSuffix(strings.TrimPrefix(content, "\n"), "\n"),
		Outdated:   meta.Outdated,
		Timestamp:  meta.Timestamp,
	}
	entry.Normalize()
	return entry, nil
}
