// Package models defines core data structures for documents, chunks, queries, and answers.
package models

// Document is one corpus file as loaded at startup.
type Document struct {
	ID      string `json:"id"`
	Source  string `json:"source"`
	Content string `json:"-"`
}

// Chunk is a contiguous substring of a Document and the unit stored in the vector index.
type Chunk struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Source     string `json:"source"`
	Content    string `json:"content"`
	ChunkIndex int    `json:"chunk_index"`
	// Offset is the rune offset of Content within the source document.
	Offset int `json:"offset"`
}
