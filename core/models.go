package core

import (
	"fmt"
	"time"
)

// DocumentStatus tracks a document through the ingestion lifecycle.
type DocumentStatus string

const (
	StatusPending    DocumentStatus = "pending"
	StatusProcessing DocumentStatus = "processing"
	StatusChunking   DocumentStatus = "chunking"
	StatusEmbedding  DocumentStatus = "embedding"
	StatusIndexing   DocumentStatus = "indexing"
	StatusCompleted  DocumentStatus = "completed"
	StatusFailed     DocumentStatus = "failed"
)

// DocumentFormat identifies the source format of an ingested document.
type DocumentFormat string

const (
	FormatPDF  DocumentFormat = "pdf"
	FormatDOCX DocumentFormat = "docx"
	FormatTXT  DocumentFormat = "txt"
	FormatMD   DocumentFormat = "md"
	FormatHTML DocumentFormat = "html"
)

// Document describes an ingested document. It is owned by the ingestion
// caller and is immutable once its status reaches StatusCompleted.
type Document struct {
	ID         string
	Filename   string
	Format     DocumentFormat
	Source     string
	Size       int64
	Status     DocumentStatus
	ProjectID  string
	SupplierID string
	Tags       []string
	UploadedAt time.Time
	UpdatedAt  time.Time
	Metadata   map[string]any
}

// DocumentChunk is a contiguous, bounded-length slice of a document's text,
// the unit of embedding and retrieval.
//
// For a fixed document, chunk positions are contiguous 0..TotalChunks-1.
// StartPosition and EndPosition locate the chunk in the original text;
// StartPosition < EndPosition always holds.
type DocumentChunk struct {
	ID          string
	DocumentID  string
	Content     string
	Position    int
	TotalChunks int
	Metadata    map[string]any
}

// ChunkID builds the deterministic chunk identifier for a document position.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s-chunk-%d", documentID, index)
}

// EmbeddingVector pairs a text with its embedding. Dimensions are fixed per
// model (e.g. 1536 for text-embedding-3-small).
type EmbeddingVector struct {
	Vector   []float32
	Text     string
	Model    string
	Metadata map[string]any
}

// RetrievalResult is a single scored hit returned from the vector index,
// possibly re-scored by the reranker. Score is in [0,1] after clamping.
type RetrievalResult struct {
	ID         string
	DocumentID string
	Content    string
	Score      float64
	Metadata   map[string]any
}

// Citation is a user-facing source reference derived from a RetrievalResult.
// It is never persisted independently of the result it was derived from.
type Citation struct {
	Source   string
	Excerpt  string
	Score    float64
	Metadata map[string]any
}

// MessageRole identifies the author of a conversation message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// ConversationMessage is one turn in a conversation.
type ConversationMessage struct {
	Role      MessageRole
	Content   string
	Timestamp time.Time
	Citations []Citation
}

// Conversation is an ordered multi-turn exchange. It is created on the first
// turn or explicitly, mutated only by appending messages, and evicted from
// memory least-recently-updated first once the configured ceiling is reached.
type Conversation struct {
	ID        string
	UserID    string
	Messages  []ConversationMessage
	Metadata  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RAGResponse is the full answer payload produced for one question.
// Grounded is true when the answer was synthesized from retrieved context
// and false when the fixed fallback answer was returned instead.
type RAGResponse struct {
	Answer           string
	RetrievedContext []RetrievalResult
	Citations        []Citation
	Confidence       float64
	Grounded         bool
	ConversationID   string
	Metadata         ResponseMetadata
}

// ResponseMetadata carries per-request accounting for a RAGResponse.
type ResponseMetadata struct {
	TokensUsed     int
	Model          string
	RetrievalTime  time.Duration
	GenerationTime time.Duration
	ProcessingTime time.Duration
}
