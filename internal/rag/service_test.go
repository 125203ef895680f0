package rag

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/careerpath/advisor/internal/embedding"
	"github.com/careerpath/advisor/internal/llm"
	"github.com/careerpath/advisor/internal/metrics"
	"github.com/careerpath/advisor/internal/models"
	"github.com/careerpath/advisor/internal/vector"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoGenerator answers with the first retrieved chunk and remembers its inputs.
type echoGenerator struct {
	mu        sync.Mutex
	calls     int
	lastQ     string
	lastCount int
}

func (g *echoGenerator) Generate(_ context.Context, question string, chunks []models.Chunk) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.lastQ = question
	g.lastCount = len(chunks)
	if len(chunks) == 0 {
		return "I don't know.", nil
	}
	return "Based on the context: " + chunks[0].Content, nil
}

func (g *echoGenerator) Model() string { return "echo" }

type stubGenerator struct {
	text string
	err  error
}

func (g stubGenerator) Generate(context.Context, string, []models.Chunk) (string, error) {
	return g.text, g.err
}

func (g stubGenerator) Model() string { return "stub" }

func buildIndex(t *testing.T, emb embedding.Embedder, contents ...string) *vector.MemoryIndex {
	t.Helper()
	chunks := make([]*models.Chunk, len(contents))
	for i, c := range contents {
		chunks[i] = &models.Chunk{ID: c[:3], DocumentID: "doc", Source: "data/doc.md", Content: c, ChunkIndex: i}
	}
	vecs, err := emb.EmbedBatch(context.Background(), contents)
	require.NoError(t, err)
	idx, err := vector.Build(emb.Dimensions(), chunks, vecs)
	require.NoError(t, err)
	return idx
}

func TestService_QueryUnavailable(t *testing.T) {
	emb := embedding.NewHashEmbedder(32)
	idx := buildIndex(t, emb, "Software engineers write code.")
	rec := metrics.NewRecorder()

	services := map[string]*Service{
		"no generator": NewService(idx, emb, nil, 2, WithServiceMetrics(rec)),
		"no index":     NewService(nil, emb, &echoGenerator{}, 2, WithServiceMetrics(rec)),
		"no embedder":  NewService(idx, nil, &echoGenerator{}, 2, WithServiceMetrics(rec)),
	}
	for name, svc := range services {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, Unavailable, svc.Availability())
			for _, q := range []string{"What do software engineers do?", ""} {
				ans := svc.Query(context.Background(), q)
				assert.Equal(t, UnavailableMessage, ans.Text)
				assert.Empty(t, ans.SourceDocuments())
				assert.NotNil(t, ans.SourceDocuments())
			}
		})
	}
	expected := `
# HELP advisor_queries_total Number of questions handled, by outcome
# TYPE advisor_queries_total counter
advisor_queries_total{outcome="unavailable"} 6
`
	assert.NoError(t, testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected), "advisor_queries_total"))
}

func TestService_QueryAnswered(t *testing.T) {
	emb := embedding.NewHashEmbedder(256)
	idx := buildIndex(t, emb,
		"Software engineers write code and design software systems.",
		"Nurses care for patients in hospitals.",
		"Accountants prepare financial statements.",
	)
	gen := &echoGenerator{}
	svc := NewService(idx, emb, gen, 2)
	require.Equal(t, Ready, svc.Availability())

	ans := svc.Query(context.Background(), "What do software engineers do?")
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "What do software engineers do?", gen.lastQ)
	assert.Equal(t, 2, gen.lastCount)
	assert.True(t, strings.HasPrefix(ans.Text, "Based on the context: Software engineers"), ans.Text)

	docs := ans.SourceDocuments()
	require.Len(t, docs, 2)
	assert.Equal(t, "Software engineers write code and design software systems.", docs[0].PageContent)
	assert.Equal(t, 1, docs[0].Metadata.Rank)
	assert.Equal(t, 2, docs[1].Metadata.Rank)
	assert.GreaterOrEqual(t, docs[0].Metadata.Score, docs[1].Metadata.Score)
}

func TestService_QueryEmptyIndexStillCallsGenerator(t *testing.T) {
	emb := embedding.NewHashEmbedder(16)
	idx, err := vector.Build(16, nil, nil)
	require.NoError(t, err)
	gen := &echoGenerator{}
	svc := NewService(idx, emb, gen, 2)
	require.Equal(t, Ready, svc.Availability())

	ans := svc.Query(context.Background(), "Anything?")
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, 0, gen.lastCount)
	assert.Equal(t, "I don't know.", ans.Text)
	assert.NotNil(t, ans.SourceDocuments())
	assert.Empty(t, ans.SourceDocuments())
}

func TestService_QueryLLMError(t *testing.T) {
	emb := embedding.NewHashEmbedder(16)
	idx := buildIndex(t, emb, "Teachers plan lessons.")
	rec := metrics.NewRecorder()
	svc := NewService(idx, emb, stubGenerator{err: errors.New("quota exceeded")}, 2, WithServiceMetrics(rec))

	ans := svc.Query(context.Background(), "What do teachers do?")
	assert.Equal(t, "An error occurred with the LLM provider: quota exceeded", ans.Text)
	assert.Empty(t, ans.SourceDocuments())
	n, err := testutil.GatherAndCount(rec.Registry(), "advisor_queries_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestService_QueryEmptyAnswer(t *testing.T) {
	emb := embedding.NewHashEmbedder(16)
	idx := buildIndex(t, emb, "Pilots fly aircraft.")
	for name, gen := range map[string]llm.Generator{
		"sentinel":   stubGenerator{err: llm.ErrEmptyResponse},
		"blank text": stubGenerator{text: ""},
	} {
		t.Run(name, func(t *testing.T) {
			ans := NewService(idx, emb, gen, 2).Query(context.Background(), "What do pilots do?")
			assert.Equal(t, "No answer found.", ans.Text)
			assert.Len(t, ans.SourceDocuments(), 1)
		})
	}
}

func TestService_QueryRetrievalError(t *testing.T) {
	idx := buildIndex(t, embedding.NewHashEmbedder(16), "Chefs cook food.")
	// Query vectors from a different dimension cannot be searched.
	svc := NewService(idx, embedding.NewHashEmbedder(8), &echoGenerator{}, 2)

	ans := svc.Query(context.Background(), "What do chefs do?")
	assert.True(t, strings.HasPrefix(ans.Text, "An error occurred while retrieving context: "), ans.Text)
	assert.Contains(t, ans.Text, "dimension mismatch")
	assert.Empty(t, ans.SourceDocuments())
}

func TestService_QueryConcurrent(t *testing.T) {
	emb := embedding.NewHashEmbedder(64)
	idx := buildIndex(t, emb, "Software engineers write code.", "Designers sketch interfaces.")
	svc := NewService(idx, emb, &echoGenerator{}, 2)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ans := svc.Query(context.Background(), "What do designers do?")
			assert.Len(t, ans.SourceDocuments(), 2)
		}()
	}
	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("concurrent queries did not finish")
	}
}
