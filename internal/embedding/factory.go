package embedding

import (
	"fmt"

	"github.com/careerpath/advisor/internal/config"
	"go.uber.org/zap"
)

// New creates the embedder selected by cfg.Backend.
func New(cfg *config.EmbeddingConfig, logger *zap.Logger) (Embedder, error) {
	switch cfg.Backend {
	case config.BackendHugot, "":
		return NewHugotEmbedder(HugotConfig{
			ModelName:    cfg.ModelName,
			ModelDir:     cfg.ModelDir,
			OnnxFilePath: cfg.OnnxFilePath,
			Dimensions:   cfg.Dimensions,
			CacheSize:    cfg.CacheSize,
		}, logger)
	case config.BackendHash:
		return NewHashEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding backend: %s (supported: hugot, hash)", cfg.Backend)
	}
}
