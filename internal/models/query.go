package models

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Question *string `json:"question"`
}

// QueryResponse is the body returned by POST /query.
type QueryResponse struct {
	Answer          string           `json:"answer"`
	SourceDocuments []SourceDocument `json:"source_documents"`
}

// SourceDocument is the record serialized for each supporting chunk.
type SourceDocument struct {
	PageContent string         `json:"page_content"`
	Metadata    SourceMetadata `json:"metadata"`
}

// SourceMetadata describes where a SourceDocument came from and how it ranked.
type SourceMetadata struct {
	Source     string  `json:"source"`
	DocumentID string  `json:"document_id"`
	ChunkIndex int     `json:"chunk_index"`
	Offset     int     `json:"offset"`
	Score      float64 `json:"score"`
	Rank       int     `json:"rank"`
}
