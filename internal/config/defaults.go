package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.App.Title == "" {
		cfg.App.Title = "Career Advisor API"
	}
	if cfg.App.Message == "" {
		cfg.App.Message = "Career Advisor API is running."
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 120 * time.Second
	}
	if cfg.Server.AllowedOrigins == nil {
		cfg.Server.AllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	if cfg.Corpus.Directory == "" {
		cfg.Corpus.Directory = "data"
	}
	if cfg.Corpus.Extensions == nil {
		cfg.Corpus.Extensions = []string{".md"}
	}
	if cfg.Chunking.ChunkSize == 0 {
		cfg.Chunking.ChunkSize = 1000
	}
	if cfg.Chunking.ChunkOverlap == nil {
		overlap := DefaultChunkOverlap
		cfg.Chunking.ChunkOverlap = &overlap
	}
	if cfg.Embedding.Backend == "" {
		cfg.Embedding.Backend = BackendHugot
	}
	if cfg.Embedding.ModelName == "" {
		cfg.Embedding.ModelName = "sentence-transformers/all-MiniLM-L6-v2"
	}
	if cfg.Embedding.ModelDir == "" {
		cfg.Embedding.ModelDir = "models"
	}
	if cfg.Embedding.OnnxFilePath == "" {
		cfg.Embedding.OnnxFilePath = "onnx/model.onnx"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 1000
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 2
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "gemini"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gemini-1.5-flash"
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = "GOOGLE_API_KEY"
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 60 * time.Second
	}
}
