package internal

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"

	chromem "github.com/philippgille/chromem-go"
)

// Embedder turns text into a fixed-length vector. The vector itself is
// opaque to the rest of the system; only the index compares them.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// NewEmbedder builds the embedder named by the config. "ollama" and "openai"
// call out to external services; "hash" is fully offline and deterministic,
// useful without any embedding service (keyword-blind, but stable).
func NewEmbedder(cfg EmbeddingsConfig) (Embedder, error) {
	switch cfg.Backend {
	case "ollama":
		return &funcEmbedder{fn: chromem.NewEmbeddingFuncOllama(cfg.Model, cfg.BaseURL)}, nil
	case "openai":
		model := chromem.EmbeddingModelOpenAI(cfg.Model)
		if cfg.Model == "" {
			model = chromem.EmbeddingModelOpenAI3Small
		}
		return &funcEmbedder{fn: chromem.NewEmbeddingFuncOpenAI(cfg.APIKey, model)}, nil
	case "hash", "":
		dim := cfg.Dimension
		if dim <= 0 {
			dim = 384
		}
		return NewHashEmbedder(dim), nil
	default:
		return nil, fmt.Errorf("unsupported embedding backend: %s", cfg.Backend)
	}
}

// funcEmbedder adapts a chromem embedding func to the Embedder interface.
type funcEmbedder struct {
	fn chromem.EmbeddingFunc
}

func (e *funcEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := e.fn(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("compute embedding: %w", err)
	}
	return vec, nil
}

// HashEmbedder generates deterministic unit vectors from an FNV hash of the
// text. Identical texts map to identical vectors across restarts.
type HashEmbedder struct {
	dimension int
}

func NewHashEmbedder(dimension int) *HashEmbedder {
	return &HashEmbedder{dimension: dimension}
}

func (e *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, e.dimension)
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}
	return normalize(vec), nil
}

func (e *HashEmbedder) Dimension() int {
	return e.dimension
}

func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = float32(math.Sqrt(float64(norm)))
	for i, v := range vec {
		vec[i] = v / norm
	}
	return vec
}
