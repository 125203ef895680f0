package embedding

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/careerpath/advisor/pkg/utils"
	"github.com/knights-analytics/hugot"
	"go.uber.org/zap"
)

// hugotBatchSize bounds how many texts go through the pipeline per call.
const hugotBatchSize = 32

// HugotConfig configures a HugotEmbedder.
type HugotConfig struct {
	// ModelName is the Hugging Face repository, e.g. sentence-transformers/all-MiniLM-L6-v2.
	ModelName string
	// ModelDir is where the model is downloaded to and loaded from.
	ModelDir string
	// OnnxFilePath selects the ONNX file inside the repository.
	OnnxFilePath string
	Dimensions   int
	CacheSize    int
}

// HugotEmbedder runs a sentence-transformers feature-extraction pipeline through
// hugot's pure Go backend. Outputs are L2-normalized and cached by text.
type HugotEmbedder struct {
	session    *hugot.Session
	run        func(texts []string) ([][]float32, error)
	name       string
	dimensions int
	cache      *EmbeddingCache
	mu         sync.Mutex
}

// NewHugotEmbedder prepares the model (downloading it on first use) and starts a
// hugot session with a feature-extraction pipeline.
func NewHugotEmbedder(cfg HugotConfig, logger *zap.Logger) (*HugotEmbedder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	modelPath, err := prepareModel(cfg, logger)
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	pipeline, err := hugot.NewPipeline(session, hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "advisor-embedder",
	})
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create embedding pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create embedding pipeline: %w", err)
	}

	return &HugotEmbedder{
		session: session,
		run: func(texts []string) ([][]float32, error) {
			result, err := pipeline.RunPipeline(texts)
			if err != nil {
				return nil, err
			}
			return result.Embeddings, nil
		},
		name:       cfg.ModelName,
		dimensions: cfg.Dimensions,
		cache:      NewEmbeddingCache(cfg.CacheSize),
	}, nil
}

// prepareModel returns the local model directory, downloading the model if needed.
func prepareModel(cfg HugotConfig, logger *zap.Logger) (string, error) {
	modelPath := filepath.Join(cfg.ModelDir, strings.ReplaceAll(cfg.ModelName, "/", "_"))
	if _, err := os.Stat(modelPath); err == nil {
		return modelPath, nil
	}
	if err := os.MkdirAll(cfg.ModelDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create model directory: %w", err)
	}
	logger.Info("downloading embedding model",
		zap.String("model", cfg.ModelName),
		zap.String("dir", cfg.ModelDir),
	)
	opts := hugot.NewDownloadOptions()
	opts.OnnxFilePath = cfg.OnnxFilePath
	downloaded, err := hugot.DownloadModel(cfg.ModelName, cfg.ModelDir, opts)
	if err != nil {
		return "", fmt.Errorf("failed to download model %s: %w", cfg.ModelName, err)
	}
	return downloaded, nil
}

// Embed returns the embedding for text, using the cache when available.
func (e *HugotEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch embeds texts in pipeline batches, skipping cached texts.
func (e *HugotEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	pending := make([]int, 0, len(texts))
	for i, text := range texts {
		if cached, ok := e.cache.Get(text); ok {
			embeddings[i] = cached
			continue
		}
		pending = append(pending, i)
	}

	for start := 0; start < len(pending); start += hugotBatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+hugotBatchSize, len(pending))
		batch := make([]string, 0, end-start)
		for _, idx := range pending[start:end] {
			batch = append(batch, texts[idx])
		}

		e.mu.Lock()
		out, err := e.run(batch)
		e.mu.Unlock()
		if err != nil {
			return nil, fmt.Errorf("inference failed: %w", err)
		}
		if len(out) != len(batch) {
			return nil, fmt.Errorf("inference returned %d embeddings for %d texts", len(out), len(batch))
		}

		for j, idx := range pending[start:end] {
			if len(out[j]) != e.dimensions {
				return nil, fmt.Errorf("embedding dimension mismatch: got %d, expected %d", len(out[j]), e.dimensions)
			}
			vec := make([]float32, e.dimensions)
			copy(vec, out[j])
			utils.NormalizeL2(vec)
			e.cache.Set(texts[idx], vec)
			embeddings[idx] = vec
		}
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *HugotEmbedder) Dimensions() int {
	return e.dimensions
}

// Name returns the model name.
func (e *HugotEmbedder) Name() string {
	return e.name
}

// Close destroys the hugot session.
func (e *HugotEmbedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil
	}
	err := e.session.Destroy()
	e.session = nil
	return err
}
