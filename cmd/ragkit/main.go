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


package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goldarch/ragkit"
	"github.com/goldarch/ragkit/ai"
	"github.com/goldarch/ragkit/chat"
	"github.com/goldarch/ragkit/chunker"
	"github.com/goldarch/ragkit/index"
	"github.com/goldarch/ragkit/index/pinecone"
	"github.com/goldarch/ragkit/ingestion"
	"github.com/goldarch/ragkit/rag"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ragkit",
		Usage: "Retrieval-augmented question answering over your documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest document files into the vector index",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
				Flags: append(providerFlags(),
					&cli.StringFlag{
						Name:  "project-id",
						Usage: "Project ID attached to every document",
					},
					&cli.StringFlag{
						Name:  "supplier-id",
						Usage: "Supplier ID attached to every document",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Tag attached to every document (repeatable)",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Target chunk size in characters",
						Value: 1000,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Characters repeated between adjacent chunks",
						Value: 200,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Concurrent ingestion workers",
						Value: 2,
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Ask a one-shot question against the index",
				ArgsUsage: "QUESTION",
				Action:    askCommand,
				Flags: append(providerFlags(),
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of context chunks to retrieve",
						Value: 5,
					},
					&cli.Float64Flag{
						Name:  "min-score",
						Usage: "Similarity threshold for retrieved chunks",
						Value: 0.6,
					},
				),
			},
			{
				Name:      "summarize",
				Usage:     "Summarize an ingested document",
				ArgsUsage: "DOCUMENT_ID",
				Action:    summarizeCommand,
				Flags: append(providerFlags(),
					&cli.StringFlag{
						Name:  "summary-type",
						Usage: "Summary shape (brief, detailed, bullet-points)",
						Value: "brief",
					},
					&cli.IntFlag{
						Name:  "max-words",
						Usage: "Approximate summary length in words",
					},
				),
			},
			{
				Name:   "chat",
				Usage:  "Interactive chat with conversation memory (reads stdin)",
				Action: chatCommand,
				Flags: append(providerFlags(),
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of context chunks to retrieve",
						Value: 5,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// providerFlags are shared by every command that builds a knowledge base.
func providerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "provider",
			Usage: "AI provider (openai, anthropic, googleai)",
			Value: "openai",
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "AI provider API key",
			EnvVars: []string{"RAGKIT_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "AI provider base URL (for OpenAI-compatible hosts)",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
		&cli.StringFlag{
			Name:  "chat-model",
			Usage: "Chat model name",
		},
		&cli.StringFlag{
			Name:  "cache-path",
			Usage: "Directory for the persistent embedding cache",
		},
		&cli.StringFlag{
			Name:    "pinecone-api-key",
			Usage:   "Pinecone API key (uses the in-memory index when unset)",
			EnvVars: []string{"PINECONE_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "pinecone-index",
			Usage: "Pinecone index name",
		},
		&cli.StringFlag{
			Name:  "pinecone-host",
			Usage: "Pinecone index host (skips control-plane resolution)",
		},
		&cli.StringFlag{
			Name:  "namespace",
			Usage: "Index namespace",
		},
	}
}

// buildKnowledgeBase assembles the stack from command flags.
func buildKnowledgeBase(ctx context.Context, c *cli.Context, extra ...ragkit.Option) (*ragkit.KnowledgeBase, error) {
	aiOpts := []ai.Option{
		ai.WithProvider(ai.ProviderKind(c.String("provider"))),
		ai.WithAPIKey(c.String("api-key")),
	}
	if v := c.String("base-url"); v != "" {
		aiOpts = append(aiOpts, ai.WithBaseURL(v))
	}
	if v := c.String("embedding-model"); v != "" {
		aiOpts = append(aiOpts, ai.WithEmbeddingModel(v))
	}
	if v := c.String("chat-model"); v != "" {
		aiOpts = append(aiOpts, ai.WithChatModel(v))
	}

	opts := []ragkit.Option{ragkit.WithAIConfig(ai.NewConfig(aiOpts...))}

	if key := c.String("pinecone-api-key"); key != "" {
		idx, err := newPineconeIndex(c, key)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ragkit.WithIndex(idx))
	}
	if path := c.String("cache-path"); path != "" {
		opts = append(opts, ragkit.WithCachePath(path))
	}
	opts = append(opts, extra...)

	return ragkit.New(ctx, opts...)
}

func newPineconeIndex(c *cli.Context, apiKey string) (index.Index, error) {
	name := c.String("pinecone-index")
	if name == "" {
		return nil, fmt.Errorf("pinecone-index is required with pinecone-api-key")
	}
	var opts []pinecone.Option
	if host := c.String("pinecone-host"); host != "" {
		opts = append(opts, pinecone.WithHost(host))
	}
	return pinecone.New(apiKey, name, opts...)
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}
	ctx := context.Background()

	chunking := chunker.DefaultConfig()
	chunking.ChunkSize = c.Int("chunk-size")
	chunking.ChunkOverlap = c.Int("chunk-overlap")
	chunking.MaxChunkSize = 0

	kb, err := buildKnowledgeBase(ctx, c,
		ragkit.WithIngestionOptions(ingestion.WithChunking(chunking)))
	if err != nil {
		return err
	}
	defer kb.Close()

	pipeline, err := kb.NewIngestionPipeline(ingestion.WithPoolSize(c.Int("pool-size")))
	if err != nil {
		return err
	}
	defer pipeline.Release()

	var mu sync.Mutex
	failures := 0
	for _, path := range c.Args().Slice() {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("reading %s: %w", path, readErr)
		}

		filename := filepath.Base(path)
		enqueueErr := pipeline.Enqueue(ingestion.ProcessRequest{
			Data:       data,
			Filename:   filename,
			Namespace:  c.String("namespace"),
			ProjectID:  c.String("project-id"),
			SupplierID: c.String("supplier-id"),
			Tags:       c.StringSlice("tag"),
		}, func(result *ingestion.ProcessResult, procErr error) {
			mu.Lock()
			defer mu.Unlock()
			if procErr != nil {
				failures++
				fmt.Fprintf(os.Stderr, "FAILED  %s: %v\n", filename, procErr)
				return
			}
			fmt.Fprintf(os.Stderr, "OK      %s: %d chunks, %d vectors (%s)\n",
				filename, result.ChunksCreated, result.VectorsIndexed, result.ProcessingTime.Round(0))
		})
		if enqueueErr != nil {
			return enqueueErr
		}
	}
	pipeline.Wait()

	if failures > 0 {
		return fmt.Errorf("%d of %d documents failed", failures, c.NArg())
	}
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}
	ctx := context.Background()

	kb, err := buildKnowledgeBase(ctx, c)
	if err != nil {
		return err
	}
	defer kb.Close()

	resp, err := kb.Answer(ctx, rag.AnswerRequest{
		Question:  question,
		Namespace: c.String("namespace"),
		TopK:      c.Int("top-k"),
		MinScore:  c.Float64("min-score"),
	})
	if err != nil {
		return err
	}

	fmt.Println(resp.Answer)
	if len(resp.Citations) > 0 {
		fmt.Println("\nSources:")
		fmt.Println(rag.FormatCitations(resp.Citations))
	}
	fmt.Fprintf(os.Stderr, "\nconfidence=%.2f grounded=%t tokens=%d time=%s\n",
		resp.Confidence, resp.Grounded, resp.Metadata.TokensUsed,
		resp.Metadata.ProcessingTime.Round(0))
	return nil
}

func summarizeCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one document ID is required")
	}
	ctx := context.Background()

	kb, err := buildKnowledgeBase(ctx, c)
	if err != nil {
		return err
	}
	defer kb.Close()

	summary, err := kb.SummarizeDocument(ctx, rag.SummarizeRequest{
		DocumentID: c.Args().First(),
		Namespace:  c.String("namespace"),
		Type:       rag.SummaryType(c.String("summary-type")),
		MaxWords:   c.Int("max-words"),
	})
	if err != nil {
		return err
	}

	fmt.Println(summary.Text)
	fmt.Fprintf(os.Stderr, "\nchunks=%d tokens=%d time=%s\n",
		summary.ChunkCount, summary.TokensUsed, summary.ProcessingTime.Round(0))
	return nil
}

func chatCommand(c *cli.Context) error {
	ctx := context.Background()

	kb, err := buildKnowledgeBase(ctx, c)
	if err != nil {
		return err
	}
	defer kb.Close()

	fmt.Fprintln(os.Stderr, "Type a message and press enter. \"exit\" quits.")

	var conversationID string
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stderr, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		resp, sendErr := kb.SendMessage(ctx, chat.SendMessageRequest{
			Message:        line,
			ConversationID: conversationID,
			Namespace:      c.String("namespace"),
			TopK:           c.Int("top-k"),
		})
		if sendErr != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", sendErr)
			continue
		}
		conversationID = resp.ConversationID

		fmt.Println(resp.Message.Content)
		if citations := resp.Message.Citations; len(citations) > 0 {
			fmt.Println(rag.FormatCitations(citations))
		}
		fmt.Println()
	}
	return scanner.Err()
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
