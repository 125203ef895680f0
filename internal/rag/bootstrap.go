package rag

import (
	"context"
	"fmt"

	"github.com/careerpath/advisor/internal/config"
	"github.com/careerpath/advisor/internal/embedding"
	"github.com/careerpath/advisor/internal/indexer"
	"github.com/careerpath/advisor/internal/llm"
	"github.com/careerpath/advisor/internal/loader"
	"github.com/careerpath/advisor/internal/metrics"
	"github.com/careerpath/advisor/internal/vector"
	"go.uber.org/zap"
)

// ProviderGemini is the only supported LLM provider.
const ProviderGemini = "gemini"

// Runtime holds everything built at startup. It is read-only once Bootstrap returns.
type Runtime struct {
	Service   *Service
	Embedder  embedding.Embedder
	Index     *vector.MemoryIndex
	Generator llm.Generator
	Metrics   *metrics.Recorder
	Documents int
	Chunks    int

	cfg *config.Config
}

// Status is a snapshot of the runtime for diagnostics.
type Status struct {
	State              string `json:"state"`
	IndexAvailable     bool   `json:"index_available"`
	GeneratorAvailable bool   `json:"generator_available"`
	Documents          int    `json:"documents"`
	Chunks             int    `json:"chunks"`
	VectorIndexSize    int    `json:"vector_index_size"`
	Embedder           string `json:"embedder,omitempty"`
	LLMModel           string `json:"llm_model,omitempty"`
	ChunkSize          int    `json:"chunk_size"`
	ChunkOverlap       int    `json:"chunk_overlap"`
	TopK               int    `json:"top_k"`
}

// Option overrides a dependency Bootstrap would otherwise construct.
type Option func(*bootstrapOptions)

type bootstrapOptions struct {
	embedder     embedding.Embedder
	generator    llm.Generator
	generatorSet bool
	metrics      *metrics.Recorder
}

// WithEmbedder uses e instead of building one from config.
func WithEmbedder(e embedding.Embedder) Option {
	return func(o *bootstrapOptions) { o.embedder = e }
}

// WithGenerator uses g instead of building one from config. A nil g leaves the
// runtime without a generator regardless of the environment.
func WithGenerator(g llm.Generator) Option {
	return func(o *bootstrapOptions) {
		o.generator = g
		o.generatorSet = true
	}
}

// WithMetrics records bootstrap and query metrics into m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(o *bootstrapOptions) { o.metrics = m }
}

// Bootstrap builds the index and the generator. It never fails: a dependency
// that cannot be constructed is logged and left nil, and the service reports
// Unavailable.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) *Runtime {
	if logger == nil {
		logger = zap.NewNop()
	}
	var o bootstrapOptions
	for _, opt := range opts {
		opt(&o)
	}
	rt := &Runtime{cfg: cfg, Metrics: o.metrics}

	rt.Embedder = o.embedder
	if rt.Embedder == nil {
		emb, err := embedding.New(&cfg.Embedding, logger)
		if err != nil {
			logger.Error("failed to create embedder, vector index will not be available",
				zap.String("backend", cfg.Embedding.Backend), zap.Error(err))
		} else {
			rt.Embedder = emb
		}
	}

	if rt.Embedder != nil {
		idx := indexer.NewIndexer(
			loader.New(cfg.Corpus.Directory, cfg.Corpus.Extensions, loader.WithLogger(logger)),
			indexer.NewChunker(cfg.Chunking.ChunkSize, cfg.Chunking.OverlapOrDefault()),
			rt.Embedder,
			indexer.WithLogger(logger),
		)
		res, err := idx.Build(ctx)
		if err != nil {
			logger.Error("failed to build vector index", zap.Error(err))
		} else {
			rt.Index = res.Index
			rt.Documents = res.Documents
			rt.Chunks = res.Chunks
		}
	}

	if o.generatorSet {
		rt.Generator = o.generator
	} else {
		rt.Generator = newGenerator(ctx, &cfg.LLM, logger)
	}

	svcOpts := []ServiceOption{WithServiceLogger(logger)}
	if o.metrics != nil {
		svcOpts = append(svcOpts, WithServiceMetrics(o.metrics))
	}
	// A nil *MemoryIndex must stay a nil interface for the availability check.
	var index vector.Index
	if rt.Index != nil {
		index = rt.Index
	}
	rt.Service = NewService(index, rt.Embedder, rt.Generator, cfg.Retrieval.TopK, svcOpts...)

	if o.metrics != nil {
		o.metrics.SetIndex(rt.Documents, rt.Chunks)
		o.metrics.SetReady(rt.Availability() == Ready)
	}
	fields := []zap.Field{
		zap.String("state", rt.Availability().String()),
		zap.Int("documents", rt.Documents),
		zap.Int("chunks", rt.Chunks),
		zap.Bool("index_available", rt.Index != nil),
		zap.Bool("generator_available", rt.Generator != nil),
	}
	if rt.Availability() == Ready {
		logger.Info("QA chain initialized", fields...)
	} else {
		logger.Warn("QA chain is not initialized, queries will return a diagnostic", fields...)
	}
	return rt
}

func newGenerator(ctx context.Context, cfg *config.LLMConfig, logger *zap.Logger) llm.Generator {
	if cfg.Provider != ProviderGemini {
		logger.Warn("unsupported LLM provider, QA chain will not be available", zap.String("provider", cfg.Provider))
		return nil
	}
	key := cfg.APIKey()
	if key == "" {
		logger.Warn(fmt.Sprintf("%s not found in environment variables. QA chain will not be available.", cfg.APIKeyEnv))
		return nil
	}
	g, err := llm.NewGemini(ctx, llm.GeminiConfig{
		APIKey:      key,
		Model:       cfg.Model,
		Timeout:     cfg.Timeout,
		Temperature: cfg.Temperature,
	}, llm.WithLogger(logger))
	if err != nil {
		logger.Warn("failed to create LLM client, QA chain will not be available", zap.Error(err))
		return nil
	}
	return g
}

// Availability reports the service state.
func (rt *Runtime) Availability() Availability {
	return rt.Service.Availability()
}

// Status returns a diagnostic snapshot.
func (rt *Runtime) Status() Status {
	st := Status{
		State:              rt.Availability().String(),
		IndexAvailable:     rt.Index != nil,
		GeneratorAvailable: rt.Generator != nil,
		Documents:          rt.Documents,
		Chunks:             rt.Chunks,
		ChunkSize:          rt.cfg.Chunking.ChunkSize,
		ChunkOverlap:       rt.cfg.Chunking.OverlapOrDefault(),
		TopK:               rt.Service.TopK(),
	}
	if rt.Index != nil {
		st.VectorIndexSize = rt.Index.Size()
	}
	if rt.Embedder != nil {
		st.Embedder = rt.Embedder.Name()
	}
	if rt.Generator != nil {
		st.LLMModel = rt.Generator.Model()
	}
	return st
}

// Close releases the embedder.
func (rt *Runtime) Close() error {
	if rt.Embedder == nil {
		return nil
	}
	return rt.Embedder.Close()
}
