package vector

import (
	"context"
	"fmt"
	"sort"

	"github.com/careerpath/advisor/internal/models"
)

// IndexTypeMemory identifies the brute-force in-memory index.
const IndexTypeMemory = "memory"

// MemoryIndex is an immutable brute-force cosine-similarity index. It is built
// once from all chunks and never mutated, so it needs no locking.
type MemoryIndex struct {
	dimensions int
	chunks     []models.Chunk
	vectors    [][]float32
}

// Build creates an index holding one vector per chunk, in one batch.
// chunks[i] is stored with vectors[i]; vectors are copied.
func Build(dimensions int, chunks []*models.Chunk, vectors [][]float32) (*MemoryIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunks and vectors length mismatch: %d != %d", len(chunks), len(vectors))
	}
	m := &MemoryIndex{
		dimensions: dimensions,
		chunks:     make([]models.Chunk, len(chunks)),
		vectors:    make([][]float32, len(vectors)),
	}
	for i, ch := range chunks {
		if len(vectors[i]) != dimensions {
			return nil, fmt.Errorf("%w: chunk %s has %d, expected %d", ErrDimensionMismatch, ch.ID, len(vectors[i]), dimensions)
		}
		vec := make([]float32, dimensions)
		copy(vec, vectors[i])
		m.chunks[i] = *ch
		m.vectors[i] = vec
	}
	return m, nil
}

// Search returns the top-k chunks by cosine similarity, highest first. Ties keep
// insertion order. An empty index or k <= 0 yields no results.
func (m *MemoryIndex) Search(ctx context.Context, query []float32, k int) ([]*Result, error) {
	if len(query) != m.dimensions {
		return nil, fmt.Errorf("%w: query has %d, expected %d", ErrDimensionMismatch, len(query), m.dimensions)
	}
	if k <= 0 || len(m.chunks) == 0 {
		return []*Result{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(m.vectors))
	for i, vec := range m.vectors {
		scores[i] = scored{idx: i, score: CosineSimilarity(query, vec)}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if k > len(scores) {
		k = len(scores)
	}
	results := make([]*Result, k)
	for i := 0; i < k; i++ {
		results[i] = &Result{
			Chunk: m.chunks[scores[i].idx],
			Score: scores[i].score,
			Rank:  i + 1,
		}
	}
	return results, nil
}

// Size returns the number of vectors in the index.
func (m *MemoryIndex) Size() int {
	return len(m.vectors)
}

// Dimensions returns the vector dimension.
func (m *MemoryIndex) Dimensions() int {
	return m.dimensions
}

// Type returns the index type identifier.
func (m *MemoryIndex) Type() string {
	return IndexTypeMemory
}
