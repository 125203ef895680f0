package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/careerpath/advisor/internal/embedding"
	"github.com/careerpath/advisor/internal/loader"
	"github.com/careerpath/advisor/internal/models"
	"github.com/careerpath/advisor/internal/vector"
	"go.uber.org/zap"
)

// Indexer runs the startup pipeline: load the corpus, chunk it, embed every
// chunk and build the vector index.
type Indexer struct {
	loader   *loader.Loader
	chunker  *Chunker
	embedder embedding.Embedder
	logger   *zap.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for pipeline progress.
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// Result is the outcome of a build.
type Result struct {
	Index     *vector.MemoryIndex
	Documents int
	Chunks    int
	Duration  time.Duration
}

// NewIndexer creates an indexer with the given dependencies.
func NewIndexer(ld *loader.Loader, chunker *Chunker, embedder embedding.Embedder, opts ...IndexerOption) *Indexer {
	idx := &Indexer{
		loader:   ld,
		chunker:  chunker,
		embedder: embedder,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Build loads, chunks and embeds the corpus and returns the finished index.
// A corpus that cannot be read is treated as empty: the index is still built
// and holds zero vectors. Embedding or index construction errors are returned.
func (idx *Indexer) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	docs, err := idx.loader.Load(ctx)
	if err != nil {
		idx.logger.Warn("corpus could not be loaded, continuing with an empty corpus",
			zap.String("dir", idx.loader.Dir()), zap.Error(err))
		docs = nil
	}
	idx.logger.Info("loaded corpus", zap.String("dir", idx.loader.Dir()), zap.Int("documents", len(docs)))

	chunks := idx.ChunkDocuments(docs)
	idx.logger.Info("split corpus into chunks", zap.Int("chunks", len(chunks)))

	vectors, err := idx.embedChunks(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	index, err := vector.Build(idx.embedder.Dimensions(), chunks, vectors)
	if err != nil {
		return nil, fmt.Errorf("failed to build vector index: %w", err)
	}
	res := &Result{
		Index:     index,
		Documents: len(docs),
		Chunks:    len(chunks),
		Duration:  time.Since(start),
	}
	idx.logger.Info("vector index built",
		zap.Int("vectors", index.Size()),
		zap.String("embedder", idx.embedder.Name()),
		zap.Duration("duration", res.Duration))
	return res, nil
}

// ChunkDocuments splits every document and concatenates the chunks in corpus order.
func (idx *Indexer) ChunkDocuments(docs []*models.Document) []*models.Chunk {
	var chunks []*models.Chunk
	for _, doc := range docs {
		docChunks := idx.chunker.Chunk(doc)
		if idx.logger.Core().Enabled(zap.DebugLevel) {
			idx.logger.Debug("chunked document", zap.String("source", doc.Source), zap.Int("chunks", len(docChunks)))
		}
		chunks = append(chunks, docChunks...)
	}
	return chunks
}

func (idx *Indexer) embedChunks(ctx context.Context, chunks []*models.Chunk) ([][]float32, error) {
	if len(chunks) == 0 {
		return [][]float32{}, nil
	}
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Content
	}
	vectors, err := idx.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}
	return vectors, nil
}
