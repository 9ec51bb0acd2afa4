// Package index provides the in-memory similarity index over guide
// chunks. The index is built exactly once at startup and is read-only
// afterwards, so concurrent searches need no locking.
package index

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/kailas-cloud/guidechat/internal/domain"
)

// Hit is one retrieval result: a chunk and its cosine distance from the query.
type Hit struct {
	Chunk    domain.Chunk
	Distance float64
}

// Index maps unit-normalized chunk vectors to chunk text and supports
// nearest-neighbor retrieval by cosine distance.
type Index struct {
	embedder domain.Embedder
	chunks   []domain.Chunk
	vectors  [][]float32
	dim      int
}

// Build embeds every chunk and assembles the index. Construction is
// expensive and happens once per process; callers hold the result by
// reference for the process lifetime.
func Build(ctx context.Context, chunks []domain.Chunk, embedder domain.Embedder, logger *zap.Logger) (*Index, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("build index: %w", domain.ErrNoGuides)
	}

	idx := &Index{
		embedder: embedder,
		chunks:   chunks,
		vectors:  make([][]float32, 0, len(chunks)),
	}

	for i, chunk := range chunks {
		res, err := embedder.Embed(ctx, chunk.Text)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %s: %w", chunk.ID, err)
		}
		vec := res.Embedding
		if idx.dim == 0 {
			idx.dim = len(vec)
		}
		if len(vec) != idx.dim {
			return nil, fmt.Errorf("embed chunk %s: dimension %d, want %d", chunk.ID, len(vec), idx.dim)
		}
		idx.vectors = append(idx.vectors, normalize(vec))

		if (i+1)%50 == 0 {
			logger.Info("Index build progress",
				zap.Int("embedded", i+1),
				zap.Int("total", len(chunks)),
			)
		}
	}

	logger.Info("Index built",
		zap.Int("chunks", len(chunks)),
		zap.Int("dimensions", idx.dim),
	)
	return idx, nil
}

// Search embeds the query and returns up to k chunks ordered by
// ascending cosine distance.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]Hit, error) {
	if k <= 0 {
		return nil, nil
	}

	res, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(res.Embedding) != idx.dim {
		return nil, fmt.Errorf("query embedding dimension %d, want %d", len(res.Embedding), idx.dim)
	}
	qv := normalize(res.Embedding)

	hits := make([]Hit, len(idx.chunks))
	for i, vec := range idx.vectors {
		hits[i] = Hit{
			Chunk:    idx.chunks[i],
			Distance: 1 - dot(vec, qv),
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.chunks)
}

// Dimensions returns the vector dimensionality.
func (idx *Index) Dimensions() int {
	return idx.dim
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func normalize(v []float32) []float32 {
	var norm float64
	for _, f := range v {
		norm += float64(f) * float64(f)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(float64(f) / norm)
	}
	return out
}
