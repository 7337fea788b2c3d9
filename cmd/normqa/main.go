package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/api"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/config"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/indexclient"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/normdoc"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/outline"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/parser"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/pipeline"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/watch"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "normqa",
		Short: "Structure-aware chunking for Russian normative documents",
		Long: `normqa splits housing codes, government decrees, ministry orders and
official letters into retrieval chunks for a question answering index.

Chunking follows the document's own structure: articles and points for
codes, numbered point groups for decrees and orders, sliding windows for
letters. Every chunk carries its section/chapter/article ancestry.`,
		Version: version,
	}

	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(structureCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "Chunk a single document",
		Long: `Chunk a single document and print the resulting report.

Example:
  normqa process жилищный_кодекс.docx --document "Жилищный кодекс РФ"
  normqa process пп491.txt --deliver --chunks`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docName, _ := cmd.Flags().GetString("document")
			structPath, _ := cmd.Flags().GetString("structure")
			deliver, _ := cmd.Flags().GetBool("deliver")
			printChunks, _ := cmd.Flags().GetBool("chunks")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			structure := ""
			if structPath != "" {
				raw, err := os.ReadFile(structPath)
				if err != nil {
					return fmt.Errorf("read structure %s: %w", structPath, err)
				}
				structure = string(raw)
			}

			log := slog.New(slog.NewTextHandler(os.Stderr, nil))
			var index *indexclient.Client
			if deliver {
				index = indexclient.NewClient(cfg.IndexURL, cfg.IndexAPIKey)
				defer index.Close()
			}
			proc := pipeline.NewProcessor(cfg, index, log)

			outcome, err := proc.Process(cmd.Context(), docName, filepath.Base(args[0]), data, structure)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if printChunks {
				return enc.Encode(outcome.Chunks)
			}
			return enc.Encode(outcome.Report)
		},
	}
	cmd.Flags().String("document", "", "display name used for genre detection and metadata (default: filename stem)")
	cmd.Flags().String("structure", "", "path to a pre-built structure outline")
	cmd.Flags().Bool("deliver", false, "push chunks to the index service")
	cmd.Flags().Bool("chunks", false, "print the chunks instead of the report")
	return cmd
}

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Chunk every supported document in a directory",
		Long: `Walk a directory and chunk every supported document in turn. A failed
document is reported and skipped; the rest of the batch continues.

Example:
  normqa batch data/documents --deliver`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deliver, _ := cmd.Flags().GetBool("deliver")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log := slog.New(slog.NewTextHandler(os.Stderr, nil))
			var index *indexclient.Client
			if deliver {
				index = indexclient.NewClient(cfg.IndexURL, cfg.IndexAPIKey)
				defer index.Close()
			}
			proc := pipeline.NewProcessor(cfg, index, log)

			entries, err := os.ReadDir(args[0])
			if err != nil {
				return fmt.Errorf("read directory %s: %w", args[0], err)
			}

			processed, failed, skipped := 0, 0, 0
			for _, entry := range entries {
				if entry.IsDir() || !parser.IsSupportedExtension(entry.Name()) {
					skipped++
					continue
				}
				path := filepath.Join(args[0], entry.Name())
				data, err := os.ReadFile(path)
				if err != nil {
					fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", entry.Name(), err)
					failed++
					continue
				}
				outcome, err := proc.Process(cmd.Context(), "", entry.Name(), data, "")
				if err != nil {
					fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", entry.Name(), err)
					failed++
					continue
				}
				fmt.Printf("OK   %s: %s, %d chunks (avg %.0f)\n",
					entry.Name(), outcome.Report.Genre, outcome.Report.Stats.Count, outcome.Report.Stats.AvgLen)
				processed++
			}

			fmt.Printf("\nprocessed %d, failed %d, skipped %d\n", processed, failed, skipped)
			if failed > 0 {
				return fmt.Errorf("%d document(s) failed", failed)
			}
			return nil
		},
	}
	cmd.Flags().Bool("deliver", false, "push chunks to the index service")
	return cmd
}

func structureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "structure <file>",
		Short: "Generate a structure outline for a document",
		Long: `Parse a document and print its generated structure outline. The outline
can be reviewed, corrected by hand and passed back with --structure when
processing.

Example:
  normqa structure жилищный_кодекс.docx --document "Жилищный кодекс РФ" > жк.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docName, _ := cmd.Flags().GetString("document")

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			fileParser, err := parser.ForFile(args[0])
			if err != nil {
				return err
			}
			paragraphs, err := fileParser.Parse(bytes.NewReader(data), filepath.Base(args[0]))
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			if docName == "" {
				base := filepath.Base(args[0])
				docName = base[:len(base)-len(filepath.Ext(base))]
			}
			genre := normdoc.DetectGenre(docName)

			fmt.Print(outline.Generate(docName, genre, paragraphs))
			return nil
		},
	}
	cmd.Flags().String("document", "", "display name used for genre detection (default: filename stem)")
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP processing service",
		Long: `Run the HTTP API. With --watch the documents directory is also observed
and changed files are queued automatically.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			watchDocs, _ := cmd.Flags().GetBool("watch")

			log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

			cfg, err := config.Load()
			if err != nil {
				log.Error("invalid configuration", "error", err)
				return err
			}
			if err := cfg.Validate(); err != nil {
				log.Error("invalid configuration", "error", err)
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			var index *indexclient.Client
			if cfg.IndexURL != "" {
				index = indexclient.NewClient(cfg.IndexURL, cfg.IndexAPIKey)
			}

			proc := pipeline.NewProcessor(cfg, index, log)
			orch := pipeline.NewOrchestrator(cfg, proc, log)
			orch.Start(ctx)

			srv := api.NewServer(orch, index, log, cfg)
			httpServer := &http.Server{
				Addr:         ":" + cfg.Port,
				Handler:      srv,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 120 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			if watchDocs {
				debounce := time.Duration(cfg.WatchDebounceMs) * time.Millisecond
				w, err := watch.New(cfg.DocsRoot, debounce, func(path string) error {
					data, err := os.ReadFile(path)
					if err != nil {
						return err
					}
					return orch.Submit(pipeline.NewJob("", filepath.Base(path), data, ""))
				}, log)
				if err != nil {
					log.Error("watcher init failed", "error", err)
					return err
				}
				go w.Run(ctx)
			}

			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				<-sigCh
				log.Info("shutting down...")

				// Drain HTTP first so in-flight handlers finish
				// submitting before the pipeline stops.
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				httpServer.Shutdown(shutdownCtx)

				cancel()
				orch.Stop()

				if index != nil {
					index.Close()
				}
			}()

			log.Info("starting normqa", "port", cfg.Port, "watch", watchDocs)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("server error", "error", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().Bool("watch", false, "watch the documents directory for changes")
	return cmd
}
