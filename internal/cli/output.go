// Package cli provides output formatting and an HTTP client for the advisor CLI.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/careerpath/advisor/internal/models"
	"github.com/careerpath/advisor/internal/rag"
	"github.com/careerpath/advisor/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat maps a flag value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case OutputText, "":
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// WriteAnswer writes a query response to w in the given format.
func WriteAnswer(w io.Writer, response *models.QueryResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	fmt.Fprintf(w, "\n%s\n\n", response.Answer)
	if len(response.SourceDocuments) == 0 {
		return nil
	}
	fmt.Fprintf(w, "Sources (%d):\n", len(response.SourceDocuments))
	for _, doc := range response.SourceDocuments {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Score: %.4f | %s (chunk %d)\n",
			doc.Metadata.Rank, doc.Metadata.Score, doc.Metadata.Source, doc.Metadata.ChunkIndex)
		fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(strings.TrimSpace(doc.PageContent), 200))
	}
	return nil
}

// WriteStatus writes a server status snapshot to w in the given format.
func WriteStatus(w io.Writer, st *rag.Status, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, st)
	}
	fmt.Fprintf(w, "State:               %s\n", st.State)
	fmt.Fprintf(w, "Vector index:        %s\n", availableText(st.IndexAvailable))
	fmt.Fprintf(w, "Answer generator:    %s\n", availableText(st.GeneratorAvailable))
	fmt.Fprintf(w, "Documents:           %d\n", st.Documents)
	fmt.Fprintf(w, "Chunks:              %d\n", st.Chunks)
	fmt.Fprintf(w, "Vector index size:   %d\n", st.VectorIndexSize)
	if st.Embedder != "" {
		fmt.Fprintf(w, "Embedder:            %s\n", st.Embedder)
	}
	if st.LLMModel != "" {
		fmt.Fprintf(w, "LLM model:           %s\n", st.LLMModel)
	}
	fmt.Fprintf(w, "Chunking:            size %d, overlap %d\n", st.ChunkSize, st.ChunkOverlap)
	fmt.Fprintf(w, "Top k:               %d\n", st.TopK)
	return nil
}

func availableText(ok bool) string {
	if ok {
		return "available"
	}
	return "unavailable"
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
