// Package llm generates answers from retrieved context with a hosted language model.
package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/careerpath/advisor/internal/models"
)

var (
	// ErrNoAPIKey is returned when the provider credential is not configured.
	ErrNoAPIKey = errors.New("llm: API key is not set")
	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("llm: empty response")
)

// Generator produces an answer to question grounded in the given chunks.
type Generator interface {
	Generate(ctx context.Context, question string, chunks []models.Chunk) (string, error)
	Model() string
}

const promptTemplate = `Use the following pieces of context to answer the question at the end. If you don't know the answer, just say that you don't know, don't try to make up an answer.

{context}

Question: {question}
Helpful Answer:`

// BuildPrompt stuffs every chunk into a single prompt, separated by blank lines.
func BuildPrompt(question string, chunks []models.Chunk) string {
	parts := make([]string, len(chunks))
	for i, ch := range chunks {
		parts[i] = ch.Content
	}
	r := strings.NewReplacer("{context}", strings.Join(parts, "\n\n"), "{question}", question)
	return r.Replace(promptTemplate)
}
