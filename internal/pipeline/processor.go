package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vladimir-chernikin/normative-docs-qa/internal/chunker"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/config"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/indexclient"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/normdoc"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/outline"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/parser"
)

// Processor runs one document through parse, structure, chunk, normalize,
// validate and deliver. index may be nil, in which case delivery is skipped
// (offline runs that only produce a report).
type Processor struct {
	cfg   config.Config
	index *indexclient.Client
	log   *slog.Logger
	opts  chunker.Options
}

func NewProcessor(cfg config.Config, index *indexclient.Client, log *slog.Logger) *Processor {
	return &Processor{
		cfg:   cfg,
		index: index,
		log:   log,
		opts: chunker.Options{
			MinChunkSize:    cfg.MinChunkSize,
			MaxChunkSize:    cfg.MaxChunkSize,
			MinChunks:       cfg.MinChunks,
			MinAvgChunkSize: cfg.MinAvgChunkSize,
		},
	}
}

// Outcome is the result of a successful document run.
type Outcome struct {
	Chunks []normdoc.Chunk
	Report Report
}

// Run executes the pipeline for a queued job, updating its status as phases
// complete. Any failure marks the job failed; a validation failure discards
// the document's chunks entirely.
func (p *Processor) Run(ctx context.Context, job *Job) {
	log := p.log.With("job_id", job.ID, "document", job.DocName, "filename", job.Filename)

	lastPhase := "queued"
	outcome, err := p.process(ctx, job.DocName, job.Filename, job.FileData(), job.Structure(), func(st JobStatus) {
		lastPhase = string(st)
		job.SetStatus(st, lastPhase)
	})
	if err != nil {
		log.Error("processing failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, lastPhase)
		return
	}

	job.SetReport(outcome.Report.Genre, &outcome.Report)
	job.SetStatus(StatusCompleted, "done")
	log.Info("document processed",
		"genre", outcome.Report.Genre,
		"chunks", outcome.Report.Stats.Count,
		"oversize", outcome.Report.Stats.Oversize,
		"delivered", outcome.Report.Delivered)
}

// Process runs the pipeline outside the job queue (CLI, watcher). docName
// may be empty; the filename stem is used then.
func (p *Processor) Process(ctx context.Context, docName, filename string, data []byte, structure string) (*Outcome, error) {
	return p.process(ctx, docName, filename, data, structure, func(JobStatus) {})
}

func (p *Processor) process(ctx context.Context, docName, filename string, data []byte, structure string, phase func(JobStatus)) (*Outcome, error) {
	if docName == "" {
		docName = docNameFromFilename(filename)
	}

	phase(StatusParsing)
	fileParser, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}
	if pdfParser, ok := fileParser.(*parser.PDFParser); ok {
		pdfParser.FallbackPdftotext = p.cfg.PDFFallbackPdftotext
	}
	paragraphs, err := fileParser.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	if len(paragraphs) == 0 {
		return nil, fmt.Errorf("parse %s: no extractable content", filename)
	}

	genre := normdoc.DetectGenre(docName)

	phase(StatusStructuring)
	tree, source, err := p.resolveOutline(docName, genre, paragraphs, structure)
	if err != nil {
		return nil, err
	}

	phase(StatusChunking)
	chunks := chunker.Extract(docName, genre, paragraphs, tree, p.opts)

	phase(StatusNormalizing)
	chunks = chunker.Normalize(chunks, genre, p.opts)

	phase(StatusValidating)
	if err := chunker.Validate(chunks, p.opts); err != nil {
		return nil, fmt.Errorf("validate %s: %w", docName, err)
	}

	report := Report{
		Document:        docName,
		Genre:           genre,
		TypeName:        genre.TypeName(),
		StructureSource: source,
		ContentHash:     ContentHashHex(data),
		Stats:           chunker.Collect(chunks),
		CreatedAt:       time.Now(),
	}

	if p.index != nil {
		phase(StatusDelivering)
		if err := p.deliver(ctx, docName, chunks); err != nil {
			return nil, fmt.Errorf("deliver %s: %w", docName, err)
		}
		report.Delivered = true
	}

	if p.cfg.ReportsDir != "" {
		if err := p.writeReport(report); err != nil {
			// A missing report never fails an otherwise delivered document.
			p.log.Warn("report write failed", "document", docName, "error", err)
		}
	}

	return &Outcome{Chunks: chunks, Report: report}, nil
}

// resolveOutline picks the structure outline for a document: caller-supplied
// text first, then a file under StructuresDir, then one generated from the
// paragraph stream. Generation also persists the outline so the next run
// takes the file path.
func (p *Processor) resolveOutline(docName string, genre normdoc.Genre, paragraphs []string, provided string) (*outline.Tree, string, error) {
	if provided != "" {
		tree, err := outline.Parse(provided)
		if err != nil && !errors.Is(err, outline.ErrStructureMissing) {
			return nil, "", fmt.Errorf("structure for %s: %w", docName, err)
		}
		if err == nil {
			return tree, "provided", nil
		}
	}

	if p.cfg.StructuresDir != "" {
		path := structurePath(p.cfg.StructuresDir, docName)
		if text, err := os.ReadFile(path); err == nil {
			tree, err := outline.Parse(string(text))
			if err == nil {
				return tree, "file", nil
			}
			p.log.Warn("structure file unusable, regenerating", "path", path, "error", err)
		}
	}

	text := outline.Generate(docName, genre, paragraphs)
	tree, err := outline.Parse(text)
	if err != nil && !errors.Is(err, outline.ErrStructureMissing) {
		return nil, "", fmt.Errorf("generated structure for %s: %w", docName, err)
	}

	if p.cfg.StructuresDir != "" {
		path := structurePath(p.cfg.StructuresDir, docName)
		if mkErr := os.MkdirAll(p.cfg.StructuresDir, 0o755); mkErr == nil {
			if wErr := os.WriteFile(path, []byte(text), 0o644); wErr != nil {
				p.log.Warn("structure write failed", "path", path, "error", wErr)
			}
		}
	}
	return tree, "generated", nil
}

func (p *Processor) deliver(ctx context.Context, docName string, chunks []normdoc.Chunk) error {
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		lastErr = p.index.PushChunks(ctx, docName, chunks)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		p.log.Warn("retryable delivery error", "document", docName, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

func (p *Processor) writeReport(report Report) error {
	if err := os.MkdirAll(p.cfg.ReportsDir, 0o755); err != nil {
		return err
	}
	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(p.cfg.ReportsDir, slugify(report.Document)+".json")
	return os.WriteFile(path, body, 0o644)
}

func structurePath(dir, docName string) string {
	return filepath.Join(dir, slugify(docName)+".txt")
}

func docNameFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// slugify keeps Cyrillic letters but removes anything the filesystem could
// object to.
func slugify(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == ' ' || r == '/' || r == '\\':
			b.WriteRune('_')
		case r == '.' || r == ':' || r == '"' || r == '\'':
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "document"
	}
	return b.String()
}
