// Package indexer splits the corpus into chunks and builds the vector index at startup.
package indexer

import (
	"fmt"
	"strings"

	"github.com/careerpath/advisor/internal/models"
	"github.com/google/uuid"
)

// Chunker splits text into overlapping fixed-size rune windows.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker with the given size and overlap (in runes).
// Callers validate that 0 <= overlap < size; the step never drops below one rune.
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Chunk splits doc into chunks of at most chunkSize runes. Consecutive chunks
// share exactly chunkOverlap runes and only the last one may be shorter.
// Documents that are empty or whitespace-only yield no chunks.
func (c *Chunker) Chunk(doc *models.Document) []*models.Chunk {
	if strings.TrimSpace(doc.Content) == "" {
		return nil
	}
	runes := []rune(doc.Content)
	size := max(c.chunkSize, 1)
	step := size - c.chunkOverlap
	if step <= 0 {
		step = 1
	}
	chunks := make([]*models.Chunk, 0, len(runes)/step+1)
	chunkIndex := 0
	for i := 0; i < len(runes); i += step {
		end := min(i+size, len(runes))
		chunks = append(chunks, &models.Chunk{
			ID:         fmt.Sprintf("%s_%s", doc.ID, uuid.New().String()[:8]),
			DocumentID: doc.ID,
			Source:     doc.Source,
			Content:    string(runes[i:end]),
			ChunkIndex: chunkIndex,
			Offset:     i,
		})
		chunkIndex++
		if end >= len(runes) {
			break
		}
	}
	return chunks
}
