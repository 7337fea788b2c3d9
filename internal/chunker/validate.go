package chunker

import (
	"fmt"

	"github.com/vladimir-chernikin/normative-docs-qa/internal/normdoc"
)

// Validation failure reasons. Reported back so an outline/text mismatch can
// be diagnosed from the rejection alone.
const (
	ReasonChunkCount   = "chunk_count"
	ReasonAvgChunkSize = "avg_chunk_size"
)

// ValidationError rejects a whole document whose chunk population is too
// small or too fragmented. Fatal per document: no partial chunk set is
// delivered downstream.
type ValidationError struct {
	Reason  string
	Count   int
	AvgSize float64
	Min     int
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonChunkCount:
		return fmt.Sprintf("chunk validation failed: %d chunks, minimum %d", e.Count, e.Min)
	case ReasonAvgChunkSize:
		return fmt.Sprintf("chunk validation failed: average chunk size %.0f, minimum %d", e.AvgSize, e.Min)
	}
	return "chunk validation failed"
}

// Validate checks the chunk population against the configured minimums.
// Returns a *ValidationError carrying the specific reason, or nil.
func Validate(chunks []normdoc.Chunk, opts Options) error {
	opts = opts.withDefaults()

	if len(chunks) < opts.MinChunks {
		return &ValidationError{
			Reason: ReasonChunkCount,
			Count:  len(chunks),
			Min:    opts.MinChunks,
		}
	}

	total := 0
	for _, c := range chunks {
		total += chunkLen(c.Text)
	}
	avg := float64(total) / float64(len(chunks))
	if avg < float64(opts.MinAvgChunkSize) {
		return &ValidationError{
			Reason:  ReasonAvgChunkSize,
			Count:   len(chunks),
			AvgSize: avg,
			Min:     opts.MinAvgChunkSize,
		}
	}

	return nil
}
