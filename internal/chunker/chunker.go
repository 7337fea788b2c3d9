// Package chunker turns a document's paragraph stream into bounded-size
// retrieval chunks using a genre-specific extraction strategy followed by
// size normalization and population validation.
package chunker

import (
	"github.com/vladimir-chernikin/normative-docs-qa/internal/normdoc"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/outline"
)

// Options controls chunk sizing and validation. Callers pass it explicitly
// into every call; nothing here is read from process-wide state.
type Options struct {
	MinChunkSize    int // chunks shorter than this are merge candidates
	MaxChunkSize    int // hard target; larger chunks are split
	MinChunks       int // minimum chunk count per document
	MinAvgChunkSize int // minimum mean chunk length per document
}

// DefaultOptions returns sensible defaults for Russian normative texts.
func DefaultOptions() Options {
	return Options{
		MinChunkSize:    100,
		MaxChunkSize:    1500,
		MinChunks:       2,
		MinAvgChunkSize: 100,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinChunkSize <= 0 {
		o.MinChunkSize = d.MinChunkSize
	}
	if o.MaxChunkSize <= 0 {
		o.MaxChunkSize = d.MaxChunkSize
	}
	if o.MinChunks <= 0 {
		o.MinChunks = d.MinChunks
	}
	if o.MinAvgChunkSize <= 0 {
		o.MinAvgChunkSize = d.MinAvgChunkSize
	}
	return o
}

// Extract runs the genre strategy over the paragraph stream and returns raw
// chunks in emission order. Each strategy is a pure single pass; callers feed
// the result through Normalize and Validate.
func Extract(doc string, genre normdoc.Genre, paragraphs []string, tree *outline.Tree, opts Options) []normdoc.Chunk {
	opts = opts.withDefaults()

	switch genre {
	case normdoc.GenreCode:
		return extractCode(doc, paragraphs, tree)
	case normdoc.GenreDecree, normdoc.GenreOrder:
		return extractDecree(doc, genre, paragraphs)
	default:
		return extractLetter(doc, genre, paragraphs, opts)
	}
}
