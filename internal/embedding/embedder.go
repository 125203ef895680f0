// Package embedding maps text to fixed-dimension vectors with a sentence-embedding model.
package embedding

import "context"

// Embedder produces vector embeddings for text. The same Embedder must be used
// for the corpus and for queries, otherwise similarity scores are meaningless.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	// Name identifies the model for status reporting.
	Name() string
	Close() error
}
