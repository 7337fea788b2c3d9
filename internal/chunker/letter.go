package chunker

import (
	"strings"

	"github.com/vladimir-chernikin/normative-docs-qa/internal/normdoc"
)

// extractLetter is the fallback strategy for letters and documents without a
// recognizable legal structure: a single sliding window packing paragraphs
// greedily up to the maximum chunk size. Linear in the input, so even a
// pathological no-structure document degrades gracefully.
func extractLetter(doc string, genre normdoc.Genre, paragraphs []string, opts Options) []normdoc.Chunk {
	meta := normdoc.Metadata{
		Document: doc,
		Type:     genre.TypeName(),
	}

	var chunks []normdoc.Chunk
	var cur []string
	size := 0

	emit := func() {
		if len(cur) == 0 {
			return
		}
		chunks = append(chunks, normdoc.Chunk{
			Text:     strings.Join(cur, "\n"),
			Level:    normdoc.LevelPrecision,
			Metadata: meta,
		})
		cur = nil
		size = 0
	}

	for _, line := range paragraphs {
		n := chunkLen(line)
		if size+n > opts.MaxChunkSize && len(cur) > 0 {
			emit()
		}
		cur = append(cur, line)
		size += n + 1
	}
	emit()

	return chunks
}
