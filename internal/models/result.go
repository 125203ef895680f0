package models

// ScoredChunk is a retrieved chunk with its similarity and 1-based rank.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
	Rank  int
}

// RetrievalResult holds the top-k chunks for a query, most relevant first.
type RetrievalResult struct {
	Chunks []ScoredChunk
}

// Len returns the number of retrieved chunks.
func (r *RetrievalResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Chunks)
}

// Contents returns the plain chunks in relevance order.
func (r *RetrievalResult) Contents() []Chunk {
	if r == nil {
		return nil
	}
	out := make([]Chunk, len(r.Chunks))
	for i, sc := range r.Chunks {
		out[i] = sc.Chunk
	}
	return out
}

// Answer is generated text plus the retrieval that supported it.
type Answer struct {
	Text      string
	Retrieval RetrievalResult
}

// SourceDocuments converts the retrieval into wire records. Never nil.
func (a *Answer) SourceDocuments() []SourceDocument {
	docs := make([]SourceDocument, 0, len(a.Retrieval.Chunks))
	for _, sc := range a.Retrieval.Chunks {
		docs = append(docs, SourceDocument{
			PageContent: sc.Chunk.Content,
			Metadata: SourceMetadata{
				Source:     sc.Chunk.Source,
				DocumentID: sc.Chunk.DocumentID,
				ChunkIndex: sc.Chunk.ChunkIndex,
				Offset:     sc.Chunk.Offset,
				Score:      sc.Score,
				Rank:       sc.Rank,
			},
		})
	}
	return docs
}

// Response builds the HTTP response body for the answer.
func (a *Answer) Response() *QueryResponse {
	return &QueryResponse{Answer: a.Text, SourceDocuments: a.SourceDocuments()}
}
