package indexer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/careerpath/advisor/internal/embedding"
	"github.com/careerpath/advisor/internal/loader"
)

type failingEmbedder struct {
	*embedding.HashEmbedder
}

func (failingEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("model unavailable")
}

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestBuild(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"software-engineer.md": "# Software Engineer\n\n" + strings.Repeat("Software engineers design, build and test programs. ", 40),
		"nurse.md":             "# Nurse\n\nNurses care for patients in hospitals.",
		"notes.txt":            "ignored by extension",
	})
	idx := NewIndexer(loader.New(dir, []string{".md"}), NewChunker(1000, 100), embedding.NewHashEmbedder(64))
	res, err := idx.Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Documents != 2 {
		t.Errorf("documents: got %d, want 2", res.Documents)
	}
	if res.Chunks < 3 {
		t.Errorf("expected the long document to produce several chunks, got %d total", res.Chunks)
	}
	if res.Index.Size() != res.Chunks {
		t.Errorf("index size %d != chunk count %d", res.Index.Size(), res.Chunks)
	}
	if res.Index.Dimensions() != 64 {
		t.Errorf("dimensions: got %d", res.Index.Dimensions())
	}
}

func TestBuild_searchFindsRelevantDocument(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"software-engineer.md": "Software engineers write code and design software systems.",
		"nurse.md":             "Nurses care for patients and give medication.",
	})
	emb := embedding.NewHashEmbedder(256)
	res, err := NewIndexer(loader.New(dir, []string{".md"}), NewChunker(1000, 100), emb).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	q, err := emb.Embed(context.Background(), "What do software engineers do?")
	if err != nil {
		t.Fatal(err)
	}
	results, err := res.Index.Search(context.Background(), q, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !strings.HasSuffix(results[0].Chunk.Source, "software-engineer.md") {
		t.Errorf("top result should be the software engineer document, got %s", results[0].Chunk.Source)
	}
}

func TestBuild_emptyCorpus(t *testing.T) {
	idx := NewIndexer(loader.New(t.TempDir(), []string{".md"}), NewChunker(1000, 100), embedding.NewHashEmbedder(8))
	res, err := idx.Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Documents != 0 || res.Chunks != 0 || res.Index.Size() != 0 {
		t.Errorf("expected empty index, got %+v size=%d", res, res.Index.Size())
	}
}

func TestBuild_missingDirectoryDegradesToEmpty(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	idx := NewIndexer(loader.New(missing, []string{".md"}), NewChunker(1000, 100), embedding.NewHashEmbedder(8))
	res, err := idx.Build(context.Background())
	if err != nil {
		t.Fatalf("missing corpus should not fail the build: %v", err)
	}
	if res.Index.Size() != 0 {
		t.Errorf("expected zero vectors, got %d", res.Index.Size())
	}
}

func TestBuild_embeddingFailure(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"a.md": "Data scientists analyse data."})
	idx := NewIndexer(loader.New(dir, nil), NewChunker(1000, 100), failingEmbedder{embedding.NewHashEmbedder(8)})
	if _, err := idx.Build(context.Background()); err == nil {
		t.Error("expected embedding error")
	}
}

func TestChunkDocuments_order(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"a.md": "alpha",
		"b.md": "   ",
		"c.md": "gamma",
	})
	ld := loader.New(dir, []string{".md"})
	docs, err := ld.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	chunks := NewIndexer(ld, NewChunker(10, 2), embedding.NewHashEmbedder(8)).ChunkDocuments(docs)
	if len(chunks) != 2 {
		t.Fatalf("whitespace-only document should produce no chunks, got %d", len(chunks))
	}
	if chunks[0].Content != "alpha" || chunks[1].Content != "gamma" {
		t.Errorf("unexpected order: %q, %q", chunks[0].Content, chunks[1].Content)
	}
}
