// Copyright 2026 Groundline Authors
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
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"

	"github.com/groundline/groundline/ai"
	"github.com/groundline/groundline/ai/googleai"
	"github.com/groundline/groundline/chat"
	"github.com/groundline/groundline/deletion"
	"github.com/groundline/groundline/ingest"
	"github.com/groundline/groundline/notify/telegram"
	"github.com/groundline/groundline/source"
	"github.com/groundline/groundline/source/drive"
	"github.com/groundline/groundline/source/filesystem"
	transcriptbadger "github.com/groundline/groundline/transcript/badger"
	"github.com/groundline/groundline/vectorstore"
	"github.com/groundline/groundline/vectorstore/qdrant"
)

func main() {
	app := &cli.App{
		Name:   "groundline",
		Usage:  "Document ingestion and grounded retrieval over a vector index",
		Before: setupLogger,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest a folder of documents into the vector index",
				Action: ingestCommand,
				Flags: append(storeFlags(), append(aiFlags(),
					&cli.StringFlag{
						Name:  "drive-folder",
						Usage: "Google Drive folder ID to ingest",
					},
					&cli.StringFlag{
						Name:  "drive-token",
						Usage: "Path to a file holding a Drive OAuth access token",
					},
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Local directory to ingest instead of Drive",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Chunk size in characters",
						Value: 3000,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Chunk overlap in characters",
						Value: 200,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents processed concurrently",
						Value: 5,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size (0 uses half the CPUs)",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-ingest documents even when their revision is unchanged",
					},
				)...),
			},
			{
				Name:   "delete",
				Usage:  "Delete documents from the index after Telegram confirmation",
				Action: deleteCommand,
				Flags: append(storeFlags(),
					&cli.StringSliceFlag{
						Name:     "file-ids",
						Usage:    "Source document IDs to delete",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "telegram-token",
						Usage:    "Telegram bot token",
						Required: true,
						EnvVars:  []string{"TELEGRAM_BOT_TOKEN"},
					},
					&cli.Int64Flag{
						Name:     "telegram-chat-id",
						Usage:    "Telegram chat ID for confirmations",
						Required: true,
					},
					&cli.DurationFlag{
						Name:  "confirmation-timeout",
						Usage: "How long to wait for a decision",
						Value: 15 * time.Minute,
					},
				),
			},
			{
				Name:   "chat",
				Usage:  "Interactive question answering over the indexed documents",
				Action: chatCommand,
				Flags: append(storeFlags(), append(aiFlags(),
					&cli.IntFlag{
						Name:  "memory-window",
						Usage: "Conversation turns kept in memory",
						Value: chat.DefaultWindow,
					},
					&cli.IntFlag{
						Name:  "retrieval-k",
						Usage: "Chunks retrieved per question",
						Value: chat.DefaultRetrievalK,
					},
					&cli.StringFlag{
						Name:  "transcript-db",
						Usage: "Path to a BadgerDB directory for persisting transcripts",
					},
				)...),
			},
			{
				Name:   "history",
				Usage:  "Print recent conversation turns from a transcript database",
				Action: historyCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "transcript-db",
						Usage:    "Path to the BadgerDB transcript directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum turns to print",
						Value: 40,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "qdrant-url",
			Usage: "Qdrant base URL",
			Value: "http://localhost:6333",
		},
		&cli.StringFlag{
			Name:    "qdrant-api-key",
			Usage:   "Qdrant API key",
			EnvVars: []string{"QDRANT_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "collection",
			Usage: "Qdrant collection name",
			Value: "groundline",
		},
		&cli.IntFlag{
			Name:  "dim",
			Usage: "Embedding vector dimension",
			Value: 3072,
		},
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "https://api.openai.com/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "text-embedding-3-large",
		},
		&cli.StringFlag{
			Name:    "embedding-api-key",
			Usage:   "Embedding service API key",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "generation-model",
			Usage: "Model used for metadata extraction and answers",
			Value: "gemini-2.0-flash",
		},
		&cli.StringFlag{
			Name:    "google-api-key",
			Usage:   "Google AI API key",
			EnvVars: []string{"GOOGLE_API_KEY"},
		},
		&cli.IntFlag{
			Name:  "extraction-retries",
			Usage: "Attempts to obtain parseable metadata per chunk",
			Value: 3,
		},
	}
}

func newStore(c *cli.Context) (vectorstore.Store, error) {
	var opts []qdrant.Option
	if key := c.String("qdrant-api-key"); key != "" {
		opts = append(opts, qdrant.WithAPIKey(key))
	}
	return qdrant.NewStore(c.String("qdrant-url"), c.String("collection"), c.Int("dim"), opts...)
}

func newProvider(ctx context.Context, c *cli.Context) (ai.Provider, error) {
	cfg := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithEmbeddingAPIKey(c.String("embedding-api-key")),
		ai.WithGenerationModel(c.String("generation-model")),
		ai.WithGenerationAPIKey(c.String("google-api-key")),
		ai.WithExtractionRetries(c.Int("extraction-retries")),
	)
	return googleai.NewProvider(ctx, cfg)
}

func newConnector(ctx context.Context, c *cli.Context) (source.Connector, string, error) {
	dir := c.String("dir")
	folder := c.String("drive-folder")

	switch {
	case dir != "" && folder != "":
		return nil, "", fmt.Errorf("use either --dir or --drive-folder, not both")
	case dir != "":
		return filesystem.NewConnector(), dir, nil
	case folder != "":
		tokenPath := c.String("drive-token")
		if tokenPath == "" {
			return nil, "", fmt.Errorf("--drive-token is required with --drive-folder")
		}
		raw, err := os.ReadFile(tokenPath)
		if err != nil {
			return nil, "", fmt.Errorf("read drive token: %w", err)
		}
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: strings.TrimSpace(string(raw))})
		connector, err := drive.NewConnector(ctx, ts)
		if err != nil {
			return nil, "", err
		}
		return connector, folder, nil
	default:
		return nil, "", fmt.Errorf("either --dir or --drive-folder is required")
	}
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	connector, container, err := newConnector(ctx, c)
	if err != nil {
		return err
	}

	store, err := newStore(c)
	if err != nil {
		return fmt.Errorf("create vector store: %w", err)
	}
	defer store.Close()

	provider, err := newProvider(ctx, c)
	if err != nil {
		return fmt.Errorf("create AI provider: %w", err)
	}
	defer provider.Close()

	opts := []ingest.Option{
		ingest.WithChunking(c.Int("chunk-size"), c.Int("chunk-overlap")),
		ingest.WithBatchSize(c.Int("batch-size")),
		ingest.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
		ingest.WithForce(c.Bool("force")),
		ingest.WithProgressWriter(os.Stderr),
	}
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, ingest.WithPoolSize(size))
	}

	pipeline, err := ingest.NewPipeline(connector, store, provider.Embedder(), provider.MetadataExtractor(), opts...)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	defer pipeline.Release()

	report, err := pipeline.Process(ctx, container)
	if err != nil {
		return err
	}

	fmt.Printf("Ingested %d/%d documents (%d skipped, %d chunks written)\n",
		report.Succeeded, report.Total, report.Skipped, report.ChunksWritten)
	for _, failure := range report.Failed {
		fmt.Printf("  failed: %s (%s): %s\n", failure.Name, failure.DocumentID, failure.Reason)
	}
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d document(s) failed", len(report.Failed))
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := newStore(c)
	if err != nil {
		return fmt.Errorf("create vector store: %w", err)
	}
	defer store.Close()

	notifier, err := telegram.NewNotifier(c.String("telegram-token"), c.Int64("telegram-chat-id"))
	if err != nil {
		return err
	}

	pipeline, err := deletion.NewPipeline(store, notifier,
		deletion.WithTimeout(c.Duration("confirmation-timeout")))
	if err != nil {
		return err
	}

	targets := c.StringSlice("file-ids")
	fmt.Printf("Requesting confirmation for %d document(s)...\n", len(targets))

	req, err := pipeline.RequestDelete(ctx, targets)
	if err != nil {
		return err
	}

	fmt.Printf("Deletion request %s\n", req.Status())
	return nil
}

func chatCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := newStore(c)
	if err != nil {
		return fmt.Errorf("create vector store: %w", err)
	}
	defer store.Close()

	provider, err := newProvider(ctx, c)
	if err != nil {
		return fmt.Errorf("create AI provider: %w", err)
	}
	defer provider.Close()

	opts := []chat.Option{
		chat.WithWindow(c.Int("memory-window")),
		chat.WithRetrievalK(c.Int("retrieval-k")),
	}
	if path := c.String("transcript-db"); path != "" {
		transcripts, err := transcriptbadger.Open(path)
		if err != nil {
			return fmt.Errorf("open transcript store: %w", err)
		}
		defer transcripts.Close()
		opts = append(opts, chat.WithTranscript(transcripts))
	}

	session, err := chat.NewSession(store, provider.Embedder(), provider.Generator(), opts...)
	if err != nil {
		return err
	}

	fmt.Println("Ask questions about the indexed documents. Type 'clear' to reset, 'exit' to leave.")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "clear":
			session.Clear()
			fmt.Println("(history cleared)")
			continue
		}

		answer, err := session.Ask(ctx, input)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Println(answer)
	}
	return scanner.Err()
}

func historyCommand(c *cli.Context) error {
	store, err := transcriptbadger.Open(c.String("transcript-db"))
	if err != nil {
		return fmt.Errorf("open transcript store: %w", err)
	}
	defer store.Close()

	turns, err := store.Recent(context.Background(), c.Int("limit"))
	if err != nil {
		return err
	}

	for _, turn := range turns {
		fmt.Printf("[%s] %s: %s\n",
			turn.Timestamp.Local().Format("2006-01-02 15:04:05"),
			turn.Speaker, turn.Text)
	}
	return nil
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
