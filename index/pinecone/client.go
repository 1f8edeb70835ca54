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


// Package pinecone implements index.Index against the Pinecone data-plane
// REST API (/vectors/upsert, /query, /vectors/delete,
// /describe_index_stats). The index host is taken from the configuration or
// resolved once through the control plane at api.pinecone.io.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goldarch/ragkit/core"
	"github.com/goldarch/ragkit/index"
)

const defaultControlPlaneURL = "https://api.pinecone.io"

// Client is a Pinecone-backed index.Index.
type Client struct {
	apiKey       string
	indexName    string
	controlPlane string
	httpClient   *http.Client
	logger       *slog.Logger

	mu   sync.Mutex
	host string
}

var _ index.Index = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHost sets the index data-plane host directly, skipping control-plane
// resolution. A bare host gets the https scheme prepended.
func WithHost(host string) Option {
	return func(c *Client) {
		if host != "" && !strings.Contains(host, "://") {
			host = "https://" + host
		}
		c.host = host
	}
}

// WithControlPlaneURL overrides the control-plane endpoint used for host
// resolution. Mainly for tests.
func WithControlPlaneURL(url string) Option {
	return func(c *Client) {
		c.controlPlane = strings.TrimSuffix(url, "/")
	}
}

// WithHTTPClient replaces the default HTTP client (30s timeout).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Pinecone client for one index.
func New(apiKey, indexName string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, core.ConfigurationError("pinecone: API key is required")
	}
	if indexName == "" {
		return nil, core.ConfigurationError("pinecone: index name is required")
	}

	c := &Client{
		apiKey:       apiKey,
		indexName:    indexName,
		controlPlane: defaultControlPlaneURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       slog.Default().With("component", "pinecone"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// resolveHost returns the cached data-plane host, asking the control plane
// for it on first use.
func (c *Client) resolveHost(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.host != "" {
		return c.host, nil
	}

	url := fmt.Sprintf("%s/indexes/%s", c.controlPlane, c.indexName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", core.NewProviderError("pinecone", "resolve-host", err)
	}
	c.setHeaders(req)

	var info struct {
		Host string `json:"host"`
	}
	if err := c.do(req, &info); err != nil {
		return "", err
	}
	if info.Host == "" {
		return "", core.NewProviderError("pinecone", "resolve-host",
			fmt.Errorf("control plane returned no host for index %q", c.indexName))
	}

	c.host = "https://" + info.Host
	c.logger.Debug("resolved index host", "index", c.indexName, "host", c.host)
	return c.host, nil
}

type upsertRequest struct {
	Vectors   []index.Vector `json:"vectors"`
	Namespace string         `json:"namespace,omitempty"`
}

// Upsert inserts or replaces vectors in a namespace.
func (c *Client) Upsert(ctx context.Context, namespace string, vectors []index.Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	return c.post(ctx, "/vectors/upsert", upsertRequest{
		Vectors:   vectors,
		Namespace: namespace,
	}, nil)
}

type queryRequest struct {
	Vector          []float32    `json:"vector"`
	TopK            int          `json:"topK"`
	Namespace       string       `json:"namespace,omitempty"`
	Filter          index.Filter `json:"filter,omitempty"`
	IncludeValues   bool         `json:"includeValues"`
	IncludeMetadata bool         `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []index.Match `json:"matches"`
}

// Search returns up to q.TopK matches ordered by descending score.
func (c *Client) Search(ctx context.Context, q index.Query) ([]index.Match, error) {
	var resp queryResponse
	err := c.post(ctx, "/query", queryRequest{
		Vector:          q.Vector,
		TopK:            q.TopK,
		Namespace:       q.Namespace,
		Filter:          q.Filter,
		IncludeMetadata: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Matches, nil
}

type deleteRequest struct {
	IDs       []string `json:"ids,omitempty"`
	DeleteAll bool     `json:"deleteAll,omitempty"`
	Namespace string   `json:"namespace,omitempty"`
}

// Delete removes vectors by ID from a namespace.
func (c *Client) Delete(ctx context.Context, namespace string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return c.post(ctx, "/vectors/delete", deleteRequest{
		IDs:       ids,
		Namespace: namespace,
	}, nil)
}

// DeleteAll removes every vector in a namespace.
func (c *Client) DeleteAll(ctx context.Context, namespace string) error {
	return c.post(ctx, "/vectors/delete", deleteRequest{
		DeleteAll: true,
		Namespace: namespace,
	}, nil)
}

type statsResponse struct {
	Dimension        int `json:"dimension"`
	TotalVectorCount int `json:"totalVectorCount"`
	Namespaces       map[string]struct {
		VectorCount int `json:"vectorCount"`
	} `json:"namespaces"`
}

// DescribeStats reports index contents.
func (c *Client) DescribeStats(ctx context.Context) (*index.Stats, error) {
	var resp statsResponse
	if err := c.post(ctx, "/describe_index_stats", struct{}{}, &resp); err != nil {
		return nil, err
	}

	stats := &index.Stats{
		TotalVectors: resp.TotalVectorCount,
		Dimension:    resp.Dimension,
		Namespaces:   make(map[string]int, len(resp.Namespaces)),
	}
	for name, ns := range resp.Namespaces {
		stats.Namespaces[name] = ns.VectorCount
	}
	return stats, nil
}

// post sends an authenticated JSON request to a data-plane path.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	host, err := c.resolveHost(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return core.NewProviderError("pinecone", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, host+path, bytes.NewReader(payload))
	if err != nil {
		return core.NewProviderError("pinecone", path, err)
	}
	c.setHeaders(req)

	return c.do(req, out)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

// do executes a request and decodes the response into out when non-nil.
// Empty response bodies are tolerated: some endpoints return nothing.
func (c *Client) do(req *http.Request, out any) error {
	op := req.URL.Path

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return core.NewProviderError("pinecone", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.NewProviderError("pinecone", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &apiErr)
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		c.logger.Error("pinecone API error", "op", op, "status", resp.StatusCode, "message", apiErr.Message)
		return core.NewProviderError("pinecone", op, fmt.Errorf("%s", apiErr.Message))
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return core.NewProviderError("pinecone", op, err)
	}
	return nil
}
