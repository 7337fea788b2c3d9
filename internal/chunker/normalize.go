package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vladimir-chernikin/normative-docs-qa/internal/marker"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/normdoc"
)

// chunkLen measures chunk size in characters, not bytes; thresholds are
// calibrated for Cyrillic text.
func chunkLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Normalize brings chunk sizes into [MinChunkSize, MaxChunkSize]: undersized
// neighbors are merged, oversized chunks are split along logical-unit
// boundaries and then sentence boundaries. Code chunks are exempt from both
// passes: every point chunk's text is a contiguous substring of its parent
// article's text, and re-cutting either side would break that relation, so
// oversized code chunks are only flagged. Input chunks are never mutated; the
// result is a fresh slice. A chunk that stays oversized after both split
// attempts is flagged, not truncated.
func Normalize(chunks []normdoc.Chunk, genre normdoc.Genre, opts Options) []normdoc.Chunk {
	opts = opts.withDefaults()

	if genre == normdoc.GenreCode {
		return flagOversized(chunks, opts)
	}

	chunks = mergeUndersized(chunks, opts)
	return splitOversized(chunks, opts)
}

func flagOversized(chunks []normdoc.Chunk, opts Options) []normdoc.Chunk {
	out := make([]normdoc.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if chunkLen(c.Text) > opts.MaxChunkSize {
			c.Oversize = true
		}
		out = append(out, c)
	}
	return out
}

// mergeUndersized does a single forward scan. An undersized chunk absorbs its
// successor when the result stays within the maximum; the merged chunk keeps
// the first chunk's metadata and is not reconsidered in the same pass.
func mergeUndersized(chunks []normdoc.Chunk, opts Options) []normdoc.Chunk {
	out := make([]normdoc.Chunk, 0, len(chunks))
	for i := 0; i < len(chunks); {
		c := chunks[i]
		if i+1 < len(chunks) &&
			chunkLen(c.Text) < opts.MinChunkSize &&
			chunkLen(c.Text)+1+chunkLen(chunks[i+1].Text) <= opts.MaxChunkSize {
			merged := c
			merged.Text = c.Text + "\n" + chunks[i+1].Text
			out = append(out, merged)
			i += 2
			continue
		}
		out = append(out, c)
		i++
	}
	return out
}

func splitOversized(chunks []normdoc.Chunk, opts Options) []normdoc.Chunk {
	out := make([]normdoc.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if chunkLen(c.Text) <= opts.MaxChunkSize {
			out = append(out, c)
			continue
		}
		for _, part := range splitByUnits(c.Text, opts.MaxChunkSize) {
			if chunkLen(part) <= opts.MaxChunkSize {
				sub := c
				sub.Text = part
				out = append(out, sub)
				continue
			}
			for _, text := range packSentences(splitSentences(part), opts.MaxChunkSize) {
				sub := c
				sub.Text = text
				sub.Oversize = chunkLen(text) > opts.MaxChunkSize
				out = append(out, sub)
			}
		}
	}
	return out
}

// splitByUnits packs the chunk's own lines into pieces of at most max
// characters, breaking only where the line classifier sees a new logical
// unit. A run with no internal markers comes back as one piece.
func splitByUnits(text string, max int) []string {
	lines := strings.Split(text, "\n")

	var pieces []string
	var cur []string
	size := 0

	for _, line := range lines {
		n := chunkLen(line)
		if marker.IsUnitStart(line) && len(cur) > 0 && size+n > max {
			pieces = append(pieces, strings.Join(cur, "\n"))
			cur = nil
			size = 0
		}
		cur = append(cur, line)
		size += n + 1
	}
	if len(cur) > 0 {
		pieces = append(pieces, strings.Join(cur, "\n"))
	}
	return pieces
}

// splitSentences cuts text at terminal punctuation followed by whitespace.
// A lowercase letter after the break is treated as a continuation (common in
// legal references like "п. 2 ст. 154"), not a true sentence end.
func splitSentences(text string) []string {
	runes := []rune(text)

	var sentences []string
	var cur strings.Builder

	flush := func() {
		s := strings.TrimSpace(cur.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		cur.Reset()
	}

	for i, r := range runes {
		if r == '\n' {
			cur.WriteRune(' ')
		} else {
			cur.WriteRune(r)
		}
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 && j < len(runes) {
			// Punctuation glued to the next character: an abbreviation
			// or enumeration, not a sentence end.
			continue
		}
		if j < len(runes) && unicode.IsLower(runes[j]) {
			continue
		}
		flush()
	}
	flush()

	return sentences
}

// packSentences greedily fills pieces up to max characters. A lone sentence
// longer than max is emitted as-is; the caller flags it.
func packSentences(sentences []string, max int) []string {
	var pieces []string
	var cur []string
	size := 0

	for _, s := range sentences {
		n := chunkLen(s)
		if len(cur) > 0 && size+n > max {
			pieces = append(pieces, strings.Join(cur, " "))
			cur = nil
			size = 0
		}
		cur = append(cur, s)
		size += n + 1
	}
	if len(cur) > 0 {
		pieces = append(pieces, strings.Join(cur, " "))
	}
	return pieces
}
