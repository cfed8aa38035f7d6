// Package audit runs an investigation from the command line without the web
// front-end, which is handy for scripting and smoke-testing a credential.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/myrjola/dockwatch/internal/ai"
	"github.com/myrjola/dockwatch/internal/evidence"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "audit",
	Title: "Audit operations",
}

func init() {
	Investigate.Flags().String("video", "", "path to CCTV footage file")
	Investigate.Flags().String("audio", "", "path to driver voice log file")
	Investigate.Flags().String("document", "", "path to manifest image or PDF")
	Investigate.Flags().String("notes", "", "contextual notes about the shipment")
	Investigate.Flags().String("model", "gpt-4o", "collaborator model")
}

var Investigate = &cobra.Command{ //nolint:exhaustruct // rest of the fields use sane defaults
	Use:     "investigate",
	GroupID: "audit",
	Short:   "Run an investigation",
	Long:    `Submits the given evidence files to the analysis collaborator and prints the report as JSON.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{ //nolint:exhaustruct // defaults
			Level: slog.LevelWarn,
		}))
		ingestor := evidence.NewIngestor(logger)
		ctx := context.Background()

		var items []evidence.Item
		for _, category := range evidence.Categories {
			path, err := cmd.Flags().GetString(string(category))
			if err != nil {
				return fmt.Errorf("read %s flag: %w", category, err)
			}
			if path == "" {
				continue
			}
			item, err := ingestFile(ctx, ingestor, category, path)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		if len(items) == 0 {
			return fmt.Errorf("at least one of --video, --audio or --document is required")
		}

		notes, err := cmd.Flags().GetString("notes")
		if err != nil {
			return fmt.Errorf("read notes flag: %w", err)
		}
		model, err := cmd.Flags().GetString("model")
		if err != nil {
			return fmt.Errorf("read model flag: %w", err)
		}

		client := ai.NewClient(
			os.Getenv("OPENAI_API_KEY"), os.Getenv("DOCKWATCH_OPENAI_BASE_URL"), model, logger)
		report, err := client.Analyze(ctx, items, notes)
		if err != nil {
			return fmt.Errorf("analyze evidence: %w", err)
		}

		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func ingestFile(
	ctx context.Context,
	ingestor *evidence.Ingestor,
	category evidence.Category,
	path string,
) (evidence.Item, error) {
	var item evidence.Item
	file, err := os.Open(path)
	if err != nil {
		return item, fmt.Errorf("open %s evidence: %w", category, err)
	}
	defer func() {
		_ = file.Close()
	}()
	info, err := file.Stat()
	if err != nil {
		return item, fmt.Errorf("stat %s evidence: %w", category, err)
	}

	// The media type is sniffed from the content since files on disk carry
	// no declared type.
	if item, err = ingestor.Ingest(ctx, category, info.Name(), "", info.Size(), io.Reader(file)); err != nil {
		return item, fmt.Errorf("ingest %s evidence: %w", category, err)
	}
	return item, nil
}
