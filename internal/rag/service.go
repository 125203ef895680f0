package rag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/careerpath/advisor/internal/embedding"
	"github.com/careerpath/advisor/internal/llm"
	"github.com/careerpath/advisor/internal/metrics"
	"github.com/careerpath/advisor/internal/models"
	"github.com/careerpath/advisor/internal/vector"
	"go.uber.org/zap"
)

// Texts returned in place of an answer. They travel in-band with a success status.
const (
	UnavailableMessage    = "Error: QA chain is not initialized. Please check the server logs."
	retrievalErrorMessage = "An error occurred while retrieving context: %v"
	llmErrorMessage       = "An error occurred with the LLM provider: %v"
	noAnswerMessage       = "No answer found."
)

// Service answers questions against a read-only index. All fields are set at
// construction and never mutated, so Query is safe for concurrent use.
type Service struct {
	index     vector.Index
	embedder  embedding.Embedder
	generator llm.Generator
	topK      int
	logger    *zap.Logger
	metrics   *metrics.Recorder
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets a logger for per-query debug output and failures.
func WithServiceLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithServiceMetrics records query outcomes and latency.
func WithServiceMetrics(m *metrics.Recorder) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a service. Any of index, embedder or generator may be nil,
// in which case the service is Unavailable.
func NewService(index vector.Index, embedder embedding.Embedder, generator llm.Generator, topK int, opts ...ServiceOption) *Service {
	s := &Service{
		index:     index,
		embedder:  embedder,
		generator: generator,
		topK:      topK,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Availability reports whether Query can produce generated answers.
func (s *Service) Availability() Availability {
	if s.index == nil || s.embedder == nil || s.generator == nil {
		return Unavailable
	}
	return Ready
}

// TopK returns the number of chunks retrieved per question.
func (s *Service) TopK() int {
	return s.topK
}

// Retrieve embeds question and returns the topK most similar chunks.
func (s *Service) Retrieve(ctx context.Context, question string) (*models.RetrievalResult, error) {
	if s.index == nil || s.embedder == nil {
		return nil, errors.New("vector index is not available")
	}
	query, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}
	results, err := s.index.Search(ctx, query, s.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}
	out := &models.RetrievalResult{Chunks: make([]models.ScoredChunk, len(results))}
	for i, r := range results {
		out.Chunks[i] = models.ScoredChunk{Chunk: r.Chunk, Score: r.Score, Rank: r.Rank}
	}
	return out, nil
}

// Query answers question. It never fails: every failure is reported as the
// answer text with no source documents.
func (s *Service) Query(ctx context.Context, question string) *models.Answer {
	start := time.Now()
	answer, outcome := s.answer(ctx, question)
	if s.metrics != nil {
		s.metrics.ObserveQuery(outcome, time.Since(start))
	}
	s.logger.Debug("query handled",
		zap.String("outcome", outcome),
		zap.Int("sources", answer.Retrieval.Len()),
		zap.Duration("duration", time.Since(start)))
	return answer
}

func (s *Service) answer(ctx context.Context, question string) (*models.Answer, string) {
	if s.Availability() != Ready {
		return &models.Answer{Text: UnavailableMessage}, metrics.OutcomeUnavailable
	}
	retrieval, err := s.Retrieve(ctx, question)
	if err != nil {
		s.logger.Error("retrieval failed", zap.Error(err))
		return &models.Answer{Text: fmt.Sprintf(retrievalErrorMessage, err)}, metrics.OutcomeRetrievalError
	}
	text, err := s.generator.Generate(ctx, question, retrieval.Contents())
	switch {
	case errors.Is(err, llm.ErrEmptyResponse):
		return &models.Answer{Text: noAnswerMessage, Retrieval: *retrieval}, metrics.OutcomeEmptyAnswer
	case err != nil:
		s.logger.Error("llm provider failed", zap.String("model", s.generator.Model()), zap.Error(err))
		return &models.Answer{Text: fmt.Sprintf(llmErrorMessage, err)}, metrics.OutcomeLLMError
	case text == "":
		return &models.Answer{Text: noAnswerMessage, Retrieval: *retrieval}, metrics.OutcomeEmptyAnswer
	}
	return &models.Answer{Text: text, Retrieval: *retrieval}, metrics.OutcomeAnswered
}
