package internal

import (
	"strings"
	"testing"
	"time"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	entry := &MemoryEntry{
		Project:    "myproject",
		Category:   "debugging",
		Tags:       []string{"auth", "jwt"},
		References: []string{"src/auth.go"},
		Content:    "# Auth tokens\n\nTokens expire after 24h.",
		Outdated:   false,
		Timestamp:  ts,
	}

	data, err := EncodeMemory(entry)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := DecodeMemory(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.Project != entry.Project {
		t.Errorf("project = %q, want %q", got.Project, entry.Project)
	}
	if got.Category != entry.Category {
		t.Errorf("category = %q, want %q", got.Category, entry.Category)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "auth" || got.Tags[1] != "jwt" {
		t.Errorf("tags = %v", got.Tags)
	}
	if len(got.References) != 1 || got.References[0] != "src/auth.go" {
		t.Errorf("references = %v", got.References)
	}
	if got.Content != entry.Content {
		t.Errorf("content = %q, want %q", got.Content, entry.Content)
	}
	if !got.Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, ts)
	}
}

func TestEncodeLayout(t *testing.T) {
	entry := &MemoryEntry{
		Project:  "p",
		Category: "other",
		Content:  "body",
	}

	data, err := EncodeMemory(entry)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	text := string(data)
	if !strings.HasPrefix(text, "---\n") {
		t.Errorf("missing opening delimiter: %q", text)
	}
	if !strings.Contains(text, "\n---\n\nbody\n") {
		t.Errorf("content not separated from front matter: %q", text)
	}
}

func TestDecodeOutdatedFlag(t *testing.T) {
	entry := &MemoryEntry{Project: "p", Category: "other", Content: "x", Outdated: true}

	data, err := EncodeMemory(entry)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeMemory(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Outdated {
		t.Error("outdated flag lost in round trip")
	}
}

func TestDecodeNormalizesNilSlices(t *testing.T) {
	raw := "---\nproject: p\ncategory: other\noutdated: false\n---\n\nbody\n"

	got, err := DecodeMemory([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Tags == nil || got.References == nil {
		t.Error("decoded entry has nil slices")
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := []string{
		"no front matter at all",
		"---\nproject: p\nunterminated block",
		"---\n\t- tabs are not yaml\n---\n\nbody\n",
	}
	for _, raw := range cases {
		if _, err := DecodeMemory([]byte(raw)); err == nil {
			t.Errorf("expected decode error for %q", raw)
		}
	}
}
