package index

import "context"

// Vector is one indexed embedding with its metadata payload. The JSON shape
// matches the Pinecone data-plane wire format.
type Vector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Match is a single query hit. Score is the backend's similarity in [0,1]
// for cosine metrics.
type Match struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Stats summarizes index contents.
type Stats struct {
	// TotalVectors counts vectors across all namespaces.
	TotalVectors int

	// Dimension is the vector dimension, zero when the index is empty and
	// the backend cannot report it.
	Dimension int

	// Namespaces maps namespace name to vector count.
	Namespaces map[string]int
}

// Filter is an opaque metadata filter in the Pinecone dialect. Build one
// with QueryBuilder; backends interpret as much of it as they support.
type Filter map[string]any

// Query describes one similarity search.
type Query struct {
	// Vector is the query embedding.
	Vector []float32

	// TopK caps the number of matches returned.
	TopK int

	// Namespace scopes the search; empty means the default namespace.
	Namespace string

	// Filter restricts matches by metadata, nil matches everything.
	Filter Filter
}

// Index is the vector store boundary. Implementations must be safe for
// concurrent use.
type Index interface {
	// Upsert inserts or replaces vectors in a namespace.
	Upsert(ctx context.Context, namespace string, vectors []Vector) error

	// Search returns up to q.TopK matches ordered by descending score.
	Search(ctx context.Context, q Query) ([]Match, error)

	// Delete removes vectors by ID from a namespace. Unknown IDs are
	// ignored.
	Delete(ctx context.Context, namespace string, ids []string) error

	// DescribeStats reports index contents.
	DescribeStats(ctx context.Context) (*Stats, error)
}
