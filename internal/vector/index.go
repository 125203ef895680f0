// Package vector provides the in-memory vector index used for chunk retrieval.
package vector

import (
	"context"
	"errors"

	"github.com/careerpath/advisor/internal/models"
)

// ErrDimensionMismatch is returned when a vector does not match the index dimension.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Index answers nearest-neighbour queries over chunk embeddings. Implementations
// are read-only once built and safe for concurrent Search calls.
type Index interface {
	Search(ctx context.Context, query []float32, k int) ([]*Result, error)
	Size() int
	Dimensions() int
	Type() string
}

// Result is a single hit: the chunk, its cosine similarity, and its 1-based rank.
type Result struct {
	Chunk models.Chunk
	Score float64
	Rank  int
}
