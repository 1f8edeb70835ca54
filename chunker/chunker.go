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


package chunker

import (
	"strings"

	"github.com/goldarch/ragkit/core"
)

// Strategy selects how a document is segmented into chunks.
type Strategy string

const (
	StrategyFixedSize Strategy = "fixed-size"
	StrategySentence  Strategy = "sentence-boundary"
	StrategyParagraph Strategy = "paragraph"
	StrategyRecursive Strategy = "recursive"
	// StrategySemantic falls back to sentence-boundary chunking. This is an
	// explicit policy: no semantic model is mandated at this layer.
	StrategySemantic Strategy = "semantic"
)

// Config controls chunk sizing and strategy.
type Config struct {
	// ChunkSize is the target maximum chunk length in bytes.
	ChunkSize int

	// ChunkOverlap is the number of trailing characters of one chunk that
	// are repeated at the start of the next. Must be smaller than ChunkSize.
	ChunkOverlap int

	// Strategy selects the segmentation algorithm.
	Strategy Strategy

	// MinChunkSize drops chunks whose trimmed content is shorter than this.
	MinChunkSize int

	// MaxChunkSize is an upper sanity bound; zero disables the check.
	MaxChunkSize int
}

// DefaultConfig returns the chunking defaults used for document ingestion.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		Strategy:     StrategyRecursive,
		MinChunkSize: 50,
		MaxChunkSize: 2000,
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return core.ValidationError("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return core.ValidationError("chunk overlap must not be negative, got %d", c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return core.ValidationError("chunk overlap %d must be smaller than chunk size %d", c.ChunkOverlap, c.ChunkSize)
	}
	if c.MinChunkSize < 0 {
		return core.ValidationError("min chunk size must not be negative, got %d", c.MinChunkSize)
	}
	if c.MaxChunkSize != 0 && c.MaxChunkSize < c.ChunkSize {
		return core.ValidationError("max chunk size %d must not be smaller than chunk size %d", c.MaxChunkSize, c.ChunkSize)
	}
	switch c.Strategy {
	case StrategyFixedSize, StrategySentence, StrategyParagraph, StrategyRecursive, StrategySemantic:
	default:
		return core.ValidationError("unknown chunking strategy %q", c.Strategy)
	}
	return nil
}

// Splitter segments document text into chunks according to its Config.
// A Splitter is immutable and safe for concurrent use.
type Splitter struct {
	cfg Config
}

// NewSplitter creates a splitter after validating the configuration.
func NewSplitter(cfg Config) (*Splitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Splitter{cfg: cfg}, nil
}

// Split segments text into chunks for the given document. Each chunk records
// its start and end positions in the original text; TotalChunks is set on
// every chunk once the full sequence is known. Empty or whitespace-only text
// yields an empty slice.
func (s *Splitter) Split(text, documentID string, baseMetadata map[string]any) []core.DocumentChunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []core.DocumentChunk
	switch s.cfg.Strategy {
	case StrategyFixedSize:
		chunks = s.fixedSize(text, documentID, baseMetadata)
	case StrategySentence, StrategySemantic:
		chunks = s.accumulate(splitSentences(text), "", documentID, baseMetadata)
	case StrategyParagraph:
		chunks = s.accumulate(splitParagraphs(text), "\n\n", documentID, baseMetadata)
	case StrategyRecursive:
		chunks = s.accumulate(s.ladder(text), "", documentID, baseMetadata)
	default:
		chunks = s.fixedSize(text, documentID, baseMetadata)
	}

	return finalize(chunks)
}

// fixedSize slides a ChunkSize window over the text with a step of
// ChunkSize-ChunkOverlap. The loop stops once a window reaches the end of
// the text, so the tail is never emitted twice.
func (s *Splitter) fixedSize(text, documentID string, baseMetadata map[string]any) []core.DocumentChunk {
	step := s.cfg.ChunkSize - s.cfg.ChunkOverlap
	var chunks []core.DocumentChunk

	for pos := 0; pos < len(text); pos += step {
		end := pos + s.cfg.ChunkSize
		if end > len(text) {
			end = len(text)
		}

		content := strings.TrimSpace(text[pos:end])
		if len(content) >= s.cfg.MinChunkSize {
			chunks = append(chunks, s.newChunk(content, documentID, len(chunks), pos, end, baseMetadata))
		}

		if end == len(text) {
			break
		}
	}

	return chunks
}

// accumulate greedily packs consecutive segments into chunks. When adding
// the next segment would exceed ChunkSize, the current chunk is emitted and
// the next one starts with the trailing ChunkOverlap characters of the
// previous chunk plus the segment that triggered the split. The overlap is
// character-based regardless of segment boundaries.
func (s *Splitter) accumulate(segments []segment, joiner string, documentID string, baseMetadata map[string]any) []core.DocumentChunk {
	var chunks []core.DocumentChunk
	var current strings.Builder
	chunkStart := 0

	flush := func(gateMin bool) {
		content := strings.TrimSpace(current.String())
		if content == "" {
			return
		}
		if gateMin && len(content) < s.cfg.MinChunkSize {
			return
		}
		end := chunkStart + current.Len()
		chunks = append(chunks, s.newChunk(content, documentID, len(chunks), chunkStart, end, baseMetadata))
	}

	for _, seg := range segments {
		joinLen := 0
		if current.Len() > 0 {
			joinLen = len(joiner)
		}

		if current.Len() > 0 && current.Len()+joinLen+len(seg.text) > s.cfg.ChunkSize {
			flush(false)

			overlap := overlapTail(current.String(), s.cfg.ChunkOverlap)
			chunkStart = chunkStart + current.Len() - len(overlap)
			current.Reset()
			current.WriteString(overlap)
			current.WriteString(seg.text)
			continue
		}

		if current.Len() == 0 {
			chunkStart = seg.start
		} else {
			current.WriteString(joiner)
		}
		current.WriteString(seg.text)
	}

	flush(true)
	return chunks
}

func (s *Splitter) newChunk(content, documentID string, index, start, end int, baseMetadata map[string]any) core.DocumentChunk {
	metadata := make(map[string]any, len(baseMetadata)+3)
	for k, v := range baseMetadata {
		metadata[k] = v
	}
	metadata["chunkIndex"] = index
	metadata["startPosition"] = start
	metadata["endPosition"] = end

	return core.DocumentChunk{
		ID:         core.ChunkID(documentID, index),
		DocumentID: documentID,
		Content:    content,
		Position:   index,
		Metadata:   metadata,
	}
}

// finalize stamps TotalChunks onto every chunk. The count is only known
// after the full pass over the document, hence the second pass.
func finalize(chunks []core.DocumentChunk) []core.DocumentChunk {
	for i := range chunks {
		chunks[i].TotalChunks = len(chunks)
	}
	return chunks
}

// overlapTail returns the trailing overlapSize characters of text, or ""
// when the text is not longer than the requested overlap.
func overlapTail(text string, overlapSize int) string {
	if overlapSize == 0 || len(text) <= overlapSize {
		return ""
	}
	return text[len(text)-overlapSize:]
}
