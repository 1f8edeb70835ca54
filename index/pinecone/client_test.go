package pinecone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goldarch/ragkit/core"
	"github.com/goldarch/ragkit/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	_, err := New("", "docs")
	assert.ErrorIs(t, err, core.ErrNotConfigured)

	_, err = New("key", "")
	assert.ErrorIs(t, err, core.ErrNotConfigured)
}

func TestSearchSendsQueryAndDecodesMatches(t *testing.T) {
	var gotBody map[string]any
	var gotAPIKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/query", r.URL.Path)
		gotAPIKey = r.Header.Get("Api-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"matches": []map[string]any{
				{"id": "doc-1-chunk-0", "score": 0.92, "metadata": map[string]any{"documentId": "doc-1"}},
				{"id": "doc-2-chunk-3", "score": 0.71, "metadata": map[string]any{"documentId": "doc-2"}},
			},
		})
	}))
	defer server.Close()

	client, err := New("test-key", "docs", WithHost(server.URL))
	require.NoError(t, err)

	matches, err := client.Search(context.Background(), index.Query{
		Vector:    []float32{0.1, 0.2},
		TopK:      5,
		Namespace: "proj",
		Filter:    index.NewQueryBuilder().ForProject("p1").Build(),
	})
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, float64(5), gotBody["topK"])
	assert.Equal(t, "proj", gotBody["namespace"])
	assert.Equal(t, true, gotBody["includeMetadata"])
	assert.NotNil(t, gotBody["filter"])

	require.Len(t, matches, 2)
	assert.Equal(t, "doc-1-chunk-0", matches[0].ID)
	assert.InDelta(t, 0.92, matches[0].Score, 1e-9)
	assert.Equal(t, "doc-1", matches[0].Metadata["documentId"])
}

func TestUpsertAndDeleteTolerateEmptyResponses(t *testing.T) {
	var paths []string
	var upsertBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/vectors/upsert" {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&upsertBody))
		}
		w.WriteHeader(http.StatusOK) // empty body
	}))
	defer server.Close()

	client, err := New("test-key", "docs", WithHost(server.URL))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, client.Upsert(ctx, "proj", []index.Vector{
		{ID: "v1", Values: []float32{1, 2}, Metadata: map[string]any{"documentId": "doc-1"}},
	}))
	require.NoError(t, client.Delete(ctx, "", []string{"v1"}))
	require.NoError(t, client.DeleteAll(ctx, "proj"))

	assert.Equal(t, []string{"/vectors/upsert", "/vectors/delete", "/vectors/delete"}, paths)

	// Pinecone requires lowercase field names on the wire.
	assert.Equal(t, "proj", upsertBody["namespace"])
	vectors, ok := upsertBody["vectors"].([]any)
	require.True(t, ok)
	require.Len(t, vectors, 1)
	vec, ok := vectors[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "v1", vec["id"])
	assert.Equal(t, []any{float64(1), float64(2)}, vec["values"])
	assert.Equal(t, map[string]any{"documentId": "doc-1"}, vec["metadata"])
	assert.NotContains(t, vec, "ID")
	assert.NotContains(t, vec, "Values")
}

func TestUpsertSkipsEmptyBatch(t *testing.T) {
	client, err := New("test-key", "docs", WithHost("https://example.invalid"))
	require.NoError(t, err)
	// No server behind the host; an empty batch must not hit the network.
	assert.NoError(t, client.Upsert(context.Background(), "", nil))
}

func TestDescribeStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/describe_index_stats", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"dimension":        1536,
			"totalVectorCount": 42,
			"namespaces": map[string]any{
				"":     map[string]any{"vectorCount": 30},
				"proj": map[string]any{"vectorCount": 12},
			},
		})
	}))
	defer server.Close()

	client, err := New("test-key", "docs", WithHost(server.URL))
	require.NoError(t, err)

	stats, err := client.DescribeStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1536, stats.Dimension)
	assert.Equal(t, 42, stats.TotalVectors)
	assert.Equal(t, 30, stats.Namespaces[""])
	assert.Equal(t, 12, stats.Namespaces["proj"])
}

func TestAPIErrorsSurfaceAsProviderErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"message": "invalid api key"})
	}))
	defer server.Close()

	client, err := New("bad-key", "docs", WithHost(server.URL))
	require.NoError(t, err)

	_, err = client.Search(context.Background(), index.Query{Vector: []float32{1}, TopK: 1})
	require.Error(t, err)

	provErr, ok := core.IsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, "pinecone", provErr.Provider)
	assert.Contains(t, provErr.Error(), "invalid api key")
}

func TestHostResolutionViaControlPlane(t *testing.T) {
	var dataPlaneHits int
	dataPlane := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dataPlaneHits++
		json.NewEncoder(w).Encode(map[string]any{"matches": []any{}})
	}))
	defer dataPlane.Close()

	var controlPlaneHits int
	controlPlane := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		controlPlaneHits++
		require.Equal(t, "/indexes/docs", r.URL.Path)
		// The client prepends https://, so strip the scheme for the test:
		// it cannot talk TLS to httptest. Instead return the host via the
		// direct-host config path below.
		json.NewEncoder(w).Encode(map[string]any{"host": "resolved.example.com"})
	}))
	defer controlPlane.Close()

	client, err := New("test-key", "docs", WithControlPlaneURL(controlPlane.URL))
	require.NoError(t, err)

	host, err := client.resolveHost(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://resolved.example.com", host)

	// Second resolution is served from cache.
	_, err = client.resolveHost(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, controlPlaneHits)
	assert.Zero(t, dataPlaneHits)
}
