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
	"log/slog"
	"runtime"
	"sync"

	"github.com/goldarch/ragkit/core"
	"github.com/panjf2000/ants/v2"
)

// Pipeline ingests documents asynchronously over a worker pool. Failures
// are delivered to the enqueue callback and logged; one document's failure
// never affects another's.
type Pipeline struct {
	processor *Processor
	pool      *ants.Pool
	logger    *slog.Logger
	wg        sync.WaitGroup
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent ingestion.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) PipelineOption {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithPipelineLogger sets a custom logger.
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an async ingestion pipeline over a processor.
func NewPipeline(processor *Processor, opts ...PipelineOption) (*Pipeline, error) {
	if processor == nil {
		return nil, core.ValidationError("ingestion: processor must not be nil")
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		processor: processor,
		pool:      pool,
		logger:    slog.Default().With("component", "ingestion"),
	}
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Enqueue submits one document for background ingestion. The done callback,
// when non-nil, receives the result or the error; it runs on a pool worker.
func (p *Pipeline) Enqueue(req ProcessRequest, done func(*ProcessResult, error)) error {
	p.wg.Add(1)
	err := p.pool.Submit(func() {
		defer p.wg.Done()

		result, procErr := p.processor.ProcessDocument(context.Background(), req)
		if procErr != nil {
			p.logger.Error("async ingestion failed", "filename", req.Filename, "err", procErr)
		}
		if done != nil {
			done(result, procErr)
		}
	})
	if err != nil {
		p.wg.Done()
		return err
	}
	return nil
}

// Wait blocks until every enqueued document has been processed.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// Release frees the worker pool. Callers should Wait first; the pipeline
// must not be used after Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
