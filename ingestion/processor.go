// Copyright 2026 Gold.Arch Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goldarch/ragkit/chunker"
	"github.com/goldarch/ragkit/core"
	"github.com/goldarch/ragkit/embedding"
	"github.com/goldarch/ragkit/index"
	"github.com/google/uuid"
)

const (
	// DefaultMaxFileSize bounds accepted documents (50 MB).
	DefaultMaxFileSize = 50 * 1024 * 1024

	// DefaultUpsertBatchSize is the number of vectors sent to the index
	// per upsert call.
	DefaultUpsertBatchSize = 100
)

// ProcessRequest describes one document to ingest. Format is detected from
// Filename and content when left empty.
type ProcessRequest struct {
	Data     []byte
	Filename string
	Format   core.DocumentFormat

	Namespace  string
	ProjectID  string
	SupplierID string
	Tags       []string
	Metadata   map[string]any
}

// ProcessResult reports a completed ingestion.
type ProcessResult struct {
	Document       *core.Document
	ChunksCreated  int
	VectorsIndexed int
	CacheHits      int
	ProcessingTime time.Duration
}

// StatusHook observes document status transitions.
type StatusHook func(documentID string, status core.DocumentStatus)

// Processor runs the synchronous ingestion pipeline.
type Processor struct {
	splitter   *chunker.Splitter
	embedder   *embedding.Service
	idx        index.Index
	extractors map[core.DocumentFormat]TextExtractor

	maxFileSize     int64
	upsertBatchSize int
	statusHook      StatusHook
	logger          *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor) error

// WithChunking replaces the default chunking configuration.
func WithChunking(cfg chunker.Config) Option {
	return func(p *Processor) error {
		splitter, err := chunker.NewSplitter(cfg)
		if err != nil {
			return err
		}
		p.splitter = splitter
		return nil
	}
}

// WithMaxFileSize bounds accepted document size in bytes.
func WithMaxFileSize(n int64) Option {
	return func(p *Processor) error {
		if n <= 0 {
			return core.ValidationError("ingestion: max file size must be positive, got %d", n)
		}
		p.maxFileSize = n
		return nil
	}
}

// WithExtractor registers a text extractor for a format, replacing any
// previous registration.
func WithExtractor(format core.DocumentFormat, extractor TextExtractor) Option {
	return func(p *Processor) error {
		if extractor == nil {
			return core.ValidationError("ingestion: extractor must not be nil")
		}
		p.extractors[format] = extractor
		return nil
	}
}

// WithUpsertBatchSize sets the vectors-per-upsert batch size.
func WithUpsertBatchSize(n int) Option {
	return func(p *Processor) error {
		if n <= 0 {
			return core.ValidationError("ingestion: upsert batch size must be positive, got %d", n)
		}
		p.upsertBatchSize = n
		return nil
	}
}

// WithStatusHook observes every status transition, useful for progress
// reporting and persistence.
func WithStatusHook(hook StatusHook) Option {
	return func(p *Processor) error {
		p.statusHook = hook
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewProcessor creates a processor over an embedding service and a vector
// index. Plain-text formats (txt, md, html) are handled out of the box;
// binary formats need a registered extractor.
func NewProcessor(embedder *embedding.Service, idx index.Index, opts ...Option) (*Processor, error) {
	if embedder == nil {
		return nil, core.ValidationError("ingestion: embedding service must not be nil")
	}
	if idx == nil {
		return nil, core.ValidationError("ingestion: index must not be nil")
	}

	splitter, err := chunker.NewSplitter(chunker.DefaultConfig())
	if err != nil {
		return nil, err
	}

	plain := PlainTextExtractor{}
	p := &Processor{
		splitter: splitter,
		embedder: embedder,
		idx:      idx,
		extractors: map[core.DocumentFormat]TextExtractor{
			core.FormatTXT:  plain,
			core.FormatMD:   plain,
			core.FormatHTML: plain,
		},
		maxFileSize:     DefaultMaxFileSize,
		upsertBatchSize: DefaultUpsertBatchSize,
		logger:          slog.Default().With("component", "ingestion"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ProcessDocument runs the full pipeline for one document: validate,
// extract, chunk, embed, and index. The document moves through
// pending→processing→chunking→embedding→indexing→completed, or to failed
// on the first error. Validation happens before any network call.
func (p *Processor) ProcessDocument(ctx context.Context, req ProcessRequest) (*ProcessResult, error) {
	start := time.Now()

	if len(req.Data) == 0 {
		return nil, core.ValidationError("document is empty")
	}
	if int64(len(req.Data)) > p.maxFileSize {
		return nil, core.ValidationError("document size %d exceeds maximum %d bytes", len(req.Data), p.maxFileSize)
	}

	format := req.Format
	if format == "" {
		format = DetectFormat(req.Filename, req.Data)
	}
	if !core.SupportedFormat(format) {
		return nil, core.ValidationError("unsupported document format %q", format)
	}
	extractor, ok := p.extractors[format]
	if !ok {
		return nil, core.ValidationError("no extractor registered for format %q", format)
	}

	doc := &core.Document{
		ID:         "doc-" + uuid.NewString(),
		Filename:   req.Filename,
		Format:     format,
		Source:     "upload",
		Size:       int64(len(req.Data)),
		Status:     core.StatusPending,
		ProjectID:  req.ProjectID,
		SupplierID: req.SupplierID,
		Tags:       req.Tags,
		UploadedAt: time.Now().UTC(),
		Metadata:   req.Metadata,
	}
	p.setStatus(doc, core.StatusProcessing)

	extraction, err := extractor.Extract(req.Data, format)
	if err != nil {
		return nil, p.fail(doc, fmt.Errorf("extracting %s: %w", doc.Filename, err))
	}
	if extraction.PageCount > 0 || extraction.WordCount > 0 {
		if doc.Metadata == nil {
			doc.Metadata = make(map[string]any, 2)
		}
		doc.Metadata["pageCount"] = extraction.PageCount
		doc.Metadata["wordCount"] = extraction.WordCount
	}

	p.setStatus(doc, core.StatusChunking)
	chunks := p.splitter.Split(extraction.Content, doc.ID, p.chunkMetadata(doc))
	if len(chunks) == 0 {
		return nil, p.fail(doc, core.ValidationError("document %s produced no chunks", doc.ID))
	}

	p.setStatus(doc, core.StatusEmbedding)
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	embedded, err := p.embedder.EmbedMany(ctx, texts)
	if err != nil {
		return nil, p.fail(doc, err)
	}
	if len(embedded.Errors) > 0 {
		first := embedded.Errors[0]
		return nil, p.fail(doc, fmt.Errorf("embedding %d of %d chunks failed: %w", len(embedded.Errors), len(chunks), first.Err))
	}

	p.setStatus(doc, core.StatusIndexing)
	vectors := make([]index.Vector, len(chunks))
	for i, chunk := range chunks {
		vectors[i] = index.Vector{
			ID:       chunk.ID,
			Values:   embedded.Vectors[i],
			Metadata: p.vectorMetadata(doc, chunk),
		}
	}
	indexed := 0
	for batchStart := 0; batchStart < len(vectors); batchStart += p.upsertBatchSize {
		end := min(batchStart+p.upsertBatchSize, len(vectors))
		if err := p.idx.Upsert(ctx, req.Namespace, vectors[batchStart:end]); err != nil {
			return nil, p.fail(doc, err)
		}
		indexed = end
	}

	p.setStatus(doc, core.StatusCompleted)
	doc.UpdatedAt = time.Now().UTC()

	result := &ProcessResult{
		Document:       doc,
		ChunksCreated:  len(chunks),
		VectorsIndexed: indexed,
		CacheHits:      embedded.CacheHits,
		ProcessingTime: time.Since(start),
	}
	p.logger.Info("document ingested",
		"documentId", doc.ID,
		"filename", doc.Filename,
		"chunks", result.ChunksCreated,
		"vectors", result.VectorsIndexed,
		"processingTime", result.ProcessingTime)
	return result, nil
}

// RemoveDocument deletes a document's chunk vectors from the index. Chunk
// IDs are deterministic, so only the chunk count is needed.
func (p *Processor) RemoveDocument(ctx context.Context, namespace, documentID string, chunkCount int) error {
	if documentID == "" {
		return core.ValidationError("document id must not be empty")
	}
	if chunkCount <= 0 {
		return core.ValidationError("chunk count must be positive, got %d", chunkCount)
	}

	ids := make([]string, chunkCount)
	for i := range ids {
		ids[i] = core.ChunkID(documentID, i)
	}
	return p.idx.Delete(ctx, namespace, ids)
}

func (p *Processor) setStatus(doc *core.Document, status core.DocumentStatus) {
	doc.Status = status
	if p.statusHook != nil {
		p.statusHook(doc.ID, status)
	}
}

func (p *Processor) fail(doc *core.Document, err error) error {
	p.setStatus(doc, core.StatusFailed)
	p.logger.Error("document ingestion failed", "documentId", doc.ID, "err", err)
	return err
}

// chunkMetadata is the base metadata every chunk inherits.
func (p *Processor) chunkMetadata(doc *core.Document) map[string]any {
	md := map[string]any{
		"documentId": doc.ID,
		"filename":   doc.Filename,
		"format":     string(doc.Format),
	}
	if doc.ProjectID != "" {
		md["projectId"] = doc.ProjectID
	}
	if doc.SupplierID != "" {
		md["supplierId"] = doc.SupplierID
	}
	if len(doc.Tags) > 0 {
		md["tags"] = doc.Tags
	}
	return md
}

// vectorMetadata is what travels with each vector: the chunk metadata plus
// the chunk content, so retrieval can reconstruct results without a
// separate document store.
func (p *Processor) vectorMetadata(doc *core.Document, chunk core.DocumentChunk) map[string]any {
	md := make(map[string]any, len(chunk.Metadata)+2)
	for k, v := range chunk.Metadata {
		md[k] = v
	}
	md["content"] = chunk.Content
	md["position"] = chunk.Position
	return md
}
