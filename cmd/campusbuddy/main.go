// Copyright 2025 Poiesic Systems
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
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	campusbuddy "github.com/poiesic/campusbuddy"
	"github.com/poiesic/campusbuddy/ai"
	"github.com/poiesic/campusbuddy/chat"
	"github.com/poiesic/campusbuddy/rag"
)

func main() {
	app := &cli.App{
		Name:  "campusbuddy",
		Usage: "Retrieval-grounded assistant for student questions",
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
				Name:      "ask",
				Usage:     "Ask a question as a given user",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "owner",
						Usage: "Owner identity for the conversation session",
						Value: "cli",
					},
					&cli.StringFlag{
						Name:  "llm-host",
						Usage: "Chat completion API base URL",
						Value: "https://openrouter.ai/api/v1",
					},
					&cli.StringFlag{
						Name:    "llm-key",
						Usage:   "Chat completion API key",
						EnvVars: []string{"OPENROUTER_API_KEY"},
					},
					&cli.StringFlag{
						Name:  "llm-model",
						Usage: "Generation model identifier",
						Value: "openai/gpt-4o-mini",
					},
					&cli.Float64Flag{
						Name:  "temperature",
						Usage: "Sampling temperature",
						Value: 0.2,
					},
					&cli.IntFlag{
						Name:  "max-history",
						Usage: "Recent messages included in the prompt",
						Value: 8,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Retrieval hits requested per question",
						Value: 5,
					},
					&cli.Float64Flag{
						Name:  "score-threshold",
						Usage: "Minimum relevance score for prompt context",
						Value: 0.25,
					},
				),
			},
			{
				Name:   "reset",
				Usage:  "Start a fresh conversation for a user",
				Action: resetCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "owner",
						Usage: "Owner identity for the conversation session",
						Value: "cli",
					},
				),
			},
			{
				Name:   "ingest",
				Usage:  "Ingest a text file or a URL into the knowledge base",
				Action: ingestCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "file",
						Usage: "Path to a text file to ingest",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Document title (defaults to the file name)",
					},
					&cli.StringFlag{
						Name:  "url",
						Usage: "URL to ingest instead of a file",
					},
				),
			},
			{
				Name:   "harvest",
				Usage:  "Run one harvest-and-ingest cycle from a message dump",
				Action: harvestCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     "source",
						Usage:    "Monitored source identifier",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "input",
						Usage:    "Path to a JSON dump of channel messages",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "dedup-by-content",
						Usage: "Deduplicate by normalized content instead of message identity",
					},
				),
			},
			{
				Name:      "reprocess",
				Usage:     "Re-index an already ingested document",
				ArgsUsage: "<document-id>",
				Action:    reprocessCommand,
				Flags:     commonFlags(),
			},
			{
				Name:   "attempts",
				Usage:  "Show recent ingestion attempts for a source",
				Action: attemptsCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     "source",
						Usage:    "Monitored source identifier",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum attempts to show",
						Value: 20,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "rag-host",
			Usage: "Retrieval service base URL",
			Value: "http://localhost:8100",
		},
		&cli.StringFlag{
			Name:    "rag-key",
			Usage:   "Retrieval service API key",
			EnvVars: []string{"RAG_API_KEY"},
		},
	}
}

// buildAssistant wires an Assistant from the command's flags.
func buildAssistant(c *cli.Context, extra ...campusbuddy.AssistantOption) (*campusbuddy.Assistant, error) {
	opts := []campusbuddy.AssistantOption{
		campusbuddy.WithRAGConfig(rag.NewConfig(
			rag.WithBaseURL(c.String("rag-host")),
			rag.WithAPIKey(c.String("rag-key")),
		)),
	}
	opts = append(opts, extra...)
	return campusbuddy.NewAssistant(c.String("db"), opts...)
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("question is required")
	}

	assistant, err := buildAssistant(c,
		campusbuddy.WithAIConfig(ai.NewConfig(
			ai.WithHost(c.String("llm-host")),
			ai.WithAPIKey(c.String("llm-key")),
			ai.WithModel(c.String("llm-model")),
			ai.WithTemperature(c.Float64("temperature")),
		)),
		campusbuddy.WithChatConfig(chat.NewConfig(
			chat.WithMaxHistory(c.Int("max-history")),
			chat.WithTopK(c.Int("top-k")),
			chat.WithScoreThreshold(float32(c.Float64("score-threshold"))),
		)),
	)
	if err != nil {
		return fmt.Errorf("failed to build assistant: %w", err)
	}
	defer assistant.Close()

	result, err := assistant.Ask(context.Background(), c.String("owner"), question)
	if err != nil {
		return err
	}

	fmt.Println(result.Text)
	if result.Fallback {
		fmt.Fprintln(os.Stderr, "(generation unavailable, fallback answer)")
	} else if !result.Grounded {
		fmt.Fprintln(os.Stderr, "(answered without retrieved context)")
	}
	return nil
}

func resetCommand(c *cli.Context) error {
	assistant, err := buildAssistant(c)
	if err != nil {
		return fmt.Errorf("failed to build assistant: %w", err)
	}
	defer assistant.Close()

	if err := assistant.ResetConversation(context.Background(), c.String("owner")); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Conversation reset for %s\n", c.String("owner"))
	return nil
}

func ingestCommand(c *cli.Context) error {
	file := c.String("file")
	url := c.String("url")
	if (file == "") == (url == "") {
		return fmt.Errorf("exactly one of --file or --url is required")
	}

	assistant, err := buildAssistant(c)
	if err != nil {
		return fmt.Errorf("failed to build assistant: %w", err)
	}
	defer assistant.Close()

	ctx := context.Background()
	pipeline := assistant.IngestionPipeline()

	if url != "" {
		docId, created, err := pipeline.IngestURL(ctx, url)
		if err != nil {
			return err
		}
		reportIngest(docId, created)
		return nil
	}

	contents, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	title := c.String("title")
	if title == "" {
		title = file
	}

	docId, created, err := pipeline.IngestDocument(ctx, title, string(contents))
	if err != nil {
		return err
	}
	reportIngest(docId, created)
	return nil
}

func reportIngest(docId string, created bool) {
	if created {
		fmt.Printf("Ingested as document %s\n", docId)
	} else {
		fmt.Printf("Already known as document %s\n", docId)
	}
}

func reprocessCommand(c *cli.Context) error {
	documentId := c.Args().First()
	if documentId == "" {
		return fmt.Errorf("document id is required")
	}

	assistant, err := buildAssistant(c)
	if err != nil {
		return fmt.Errorf("failed to build assistant: %w", err)
	}
	defer assistant.Close()

	if err := assistant.IngestionPipeline().Reprocess(context.Background(), documentId); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Reprocess requested for %s\n", documentId)
	return nil
}

func attemptsCommand(c *cli.Context) error {
	assistant, err := buildAssistant(c)
	if err != nil {
		return fmt.Errorf("failed to build assistant: %w", err)
	}
	defer assistant.Close()

	attempts, err := assistant.AttemptRepository().GetAttemptsBySource(
		context.Background(), c.String("source"), c.Int("limit"))
	if err != nil {
		return err
	}

	for _, attempt := range attempts {
		line := fmt.Sprintf("%s  %s #%d  %s", attempt.At.Format("2006-01-02 15:04:05"),
			attempt.SourceId, attempt.NativeId, attempt.Outcome)
		if attempt.DocumentId != "" {
			line += "  doc=" + attempt.DocumentId
		}
		if attempt.Error != "" {
			line += "  err=" + attempt.Error
		}
		fmt.Println(line)
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
