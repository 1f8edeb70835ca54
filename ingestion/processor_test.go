package ingestion

import (
	"context"
	"strings"
	"testing"

	"github.com/goldarch/ragkit/ai/mock"
	"github.com/goldarch/ragkit/chunker"
	"github.com/goldarch/ragkit/core"
	"github.com/goldarch/ragkit/embedding"
	"github.com/goldarch/ragkit/index"
	"github.com/goldarch/ragkit/index/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleText = `Steel beam pricing for the north tower project. The supplier quoted
$1,200 per beam with a four week lead time.

Concrete requirements follow in the next section. Winter pours need
curing blankets and a heated enclosure below minus five degrees.`

func newTestProcessor(t *testing.T, opts ...Option) (*Processor, *memory.Index) {
	t.Helper()

	svc, err := embedding.NewService(mock.NewMockEmbedder())
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	idx := memory.New()
	p, err := NewProcessor(svc, idx, opts...)
	require.NoError(t, err)
	return p, idx
}

func TestProcessDocument(t *testing.T) {
	p, idx := newTestProcessor(t)

	result, err := p.ProcessDocument(context.Background(), ProcessRequest{
		Data:      []byte(sampleText),
		Filename:  "steel-quote.txt",
		ProjectID: "p1",
		Tags:      []string{"steel", "quote"},
	})
	require.NoError(t, err)

	assert.Equal(t, core.StatusCompleted, result.Document.Status)
	assert.Equal(t, core.FormatTXT, result.Document.Format)
	assert.True(t, strings.HasPrefix(result.Document.ID, "doc-"))
	assert.Greater(t, result.ChunksCreated, 0)
	assert.Equal(t, result.ChunksCreated, result.VectorsIndexed)
	assert.Equal(t, len(sampleText), int(result.Document.Size))

	stats, err := idx.DescribeStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, result.ChunksCreated, stats.TotalVectors)
}

func TestProcessDocumentVectorMetadata(t *testing.T) {
	p, idx := newTestProcessor(t)
	ctx := context.Background()

	result, err := p.ProcessDocument(ctx, ProcessRequest{
		Data:       []byte(sampleText),
		Filename:   "steel-quote.txt",
		Namespace:  "proj",
		ProjectID:  "p1",
		SupplierID: "s1",
	})
	require.NoError(t, err)

	// Any same-dimension query returns the stored vectors; the index does
	// not threshold. Inspect the first chunk's metadata.
	query, err := mock.NewMockEmbedder().EmbedText(ctx, "anything")
	require.NoError(t, err)

	matches, err := idx.Search(ctx, index.Query{Vector: query, TopK: 50, Namespace: "proj"})
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	firstID := core.ChunkID(result.Document.ID, 0)
	var found bool
	for _, m := range matches {
		if m.ID != firstID {
			continue
		}
		found = true
		assert.Equal(t, result.Document.ID, m.Metadata["documentId"])
		assert.Equal(t, "steel-quote.txt", m.Metadata["filename"])
		assert.Equal(t, "p1", m.Metadata["projectId"])
		assert.Equal(t, "s1", m.Metadata["supplierId"])
		assert.Equal(t, 0, m.Metadata["position"])
		assert.NotEmpty(t, m.Metadata["content"])
	}
	assert.True(t, found, "first chunk vector present in namespace")
}

func TestProcessDocumentStatusLifecycle(t *testing.T) {
	var statuses []core.DocumentStatus
	p, _ := newTestProcessor(t, WithStatusHook(func(id string, status core.DocumentStatus) {
		statuses = append(statuses, status)
	}))

	_, err := p.ProcessDocument(context.Background(), ProcessRequest{
		Data:     []byte(sampleText),
		Filename: "notes.md",
	})
	require.NoError(t, err)

	assert.Equal(t, []core.DocumentStatus{
		core.StatusProcessing,
		core.StatusChunking,
		core.StatusEmbedding,
		core.StatusIndexing,
		core.StatusCompleted,
	}, statuses)
}

func TestProcessDocumentFailedStatusOnEmbeddingError(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, core.NewProviderError("openai", "embed", assert.AnError)
	}
	svc, err := embedding.NewService(embedder, embedding.WithRetry(embedding.RetryConfig{MaxRetries: 0}))
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	var last core.DocumentStatus
	p, err := NewProcessor(svc, memory.New(), WithStatusHook(func(id string, status core.DocumentStatus) {
		last = status
	}))
	require.NoError(t, err)

	_, err = p.ProcessDocument(context.Background(), ProcessRequest{
		Data:     []byte(sampleText),
		Filename: "notes.txt",
	})
	require.Error(t, err)
	assert.Equal(t, core.StatusFailed, last)
}

func TestProcessDocumentValidation(t *testing.T) {
	p, _ := newTestProcessor(t, WithMaxFileSize(64))
	ctx := context.Background()

	_, err := p.ProcessDocument(ctx, ProcessRequest{Data: nil, Filename: "x.txt"})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = p.ProcessDocument(ctx, ProcessRequest{
		Data:     []byte(strings.Repeat("a", 65)),
		Filename: "x.txt",
	})
	assert.ErrorIs(t, err, core.ErrValidation)

	// PDF is a supported format, but no extractor is registered for it.
	_, err = p.ProcessDocument(ctx, ProcessRequest{
		Data:     []byte("%PDF-1.7 ..."),
		Filename: "quote.pdf",
	})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestProcessDocumentCustomChunking(t *testing.T) {
	cfg := chunker.DefaultConfig()
	cfg.ChunkSize = 80
	cfg.ChunkOverlap = 10
	cfg.MinChunkSize = 10
	cfg.MaxChunkSize = 0
	p, _ := newTestProcessor(t, WithChunking(cfg))

	result, err := p.ProcessDocument(context.Background(), ProcessRequest{
		Data:     []byte(sampleText),
		Filename: "steel-quote.txt",
	})
	require.NoError(t, err)
	assert.Greater(t, result.ChunksCreated, 2)
}

func TestRemoveDocument(t *testing.T) {
	p, idx := newTestProcessor(t)
	ctx := context.Background()

	result, err := p.ProcessDocument(ctx, ProcessRequest{
		Data:     []byte(sampleText),
		Filename: "steel-quote.txt",
	})
	require.NoError(t, err)

	err = p.RemoveDocument(ctx, "", result.Document.ID, result.ChunksCreated)
	require.NoError(t, err)

	stats, err := idx.DescribeStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalVectors)

	assert.ErrorIs(t, p.RemoveDocument(ctx, "", "", 1), core.ErrValidation)
	assert.ErrorIs(t, p.RemoveDocument(ctx, "", "doc-x", 0), core.ErrValidation)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		data     []byte
		want     core.DocumentFormat
	}{
		{"quote.pdf", nil, core.FormatPDF},
		{"spec.DOCX", nil, core.FormatDOCX},
		{"notes.txt", nil, core.FormatTXT},
		{"readme.markdown", nil, core.FormatMD},
		{"page.htm", nil, core.FormatHTML},
		{"", []byte("%PDF-1.7"), core.FormatPDF},
		{"", []byte{0x50, 0x4b, 0x03, 0x04, 0x00}, core.FormatDOCX},
		{"", []byte("plain old text"), core.FormatTXT},
		{"noext", []byte("plain old text"), core.FormatTXT},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectFormat(tt.filename, tt.data), "filename %q", tt.filename)
	}
}

func TestCleanText(t *testing.T) {
	in := "line one\r\nline two\t\twith   tabs\n\n\n\nnext paragraph  "
	assert.Equal(t, "line one\nline two with tabs\n\nnext paragraph", CleanText(in))
}

func TestPlainTextExtractor(t *testing.T) {
	ext := PlainTextExtractor{}

	got, err := ext.Extract([]byte("two words"), core.FormatTXT)
	require.NoError(t, err)
	assert.Equal(t, 2, got.WordCount)

	_, err = ext.Extract([]byte("   \n\n  "), core.FormatTXT)
	assert.ErrorIs(t, err, core.ErrValidation)
}
