package chunker

import (
	"strings"
	"testing"

	"github.com/vladimir-chernikin/normative-docs-qa/internal/normdoc"
)

func TestNormalize_LetterWindowsWithinBounds(t *testing.T) {
	// 100 paragraphs of 100 characters each: an unstructured 10000-char letter.
	line := strings.Repeat("ж", 100)
	paragraphs := make([]string, 100)
	for i := range paragraphs {
		paragraphs[i] = line
	}

	opts := DefaultOptions()
	raw := Extract("Письмо Минстроя", normdoc.GenreLetter, paragraphs, nil, opts)
	chunks := Normalize(raw, normdoc.GenreLetter, opts)

	if len(chunks) < 2 {
		t.Fatalf("expected several window chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		n := chunkLen(c.Text)
		if n < opts.MinChunkSize || n > opts.MaxChunkSize {
			t.Errorf("chunk %d length %d outside [%d, %d]", i, n, opts.MinChunkSize, opts.MaxChunkSize)
		}
		if c.Oversize {
			t.Errorf("chunk %d unexpectedly flagged oversize", i)
		}
	}
}

func TestNormalize_MergeKeepsFirstMetadata(t *testing.T) {
	chunks := []normdoc.Chunk{
		{Text: strings.Repeat("а", 40), Level: 2, Metadata: normdoc.Metadata{Document: "д", Point: "1"}},
		{Text: strings.Repeat("б", 200), Level: 2, Metadata: normdoc.Metadata{Document: "д", Point: "2"}},
		{Text: strings.Repeat("в", 300), Level: 2, Metadata: normdoc.Metadata{Document: "д", Point: "3"}},
	}

	out := Normalize(chunks, normdoc.GenreDecree, DefaultOptions())
	if len(out) != 2 {
		t.Fatalf("expected 2 chunks after merge, got %d", len(out))
	}
	if out[0].Metadata.Point != "1" {
		t.Errorf("merged chunk should keep first chunk's metadata, got point %q", out[0].Metadata.Point)
	}
	if !strings.Contains(out[0].Text, strings.Repeat("б", 200)) {
		t.Error("merged chunk missing successor text")
	}
	if out[1].Metadata.Point != "3" {
		t.Errorf("third chunk should be untouched, got point %q", out[1].Metadata.Point)
	}
}

func TestNormalize_MergedChunkNotReconsidered(t *testing.T) {
	// Three undersized chunks: the first two merge; the result is not
	// merged again with the third in the same pass.
	chunks := []normdoc.Chunk{
		{Text: strings.Repeat("а", 30), Level: 2},
		{Text: strings.Repeat("б", 30), Level: 2},
		{Text: strings.Repeat("в", 30), Level: 2},
	}

	out := Normalize(chunks, normdoc.GenreOrder, DefaultOptions())
	if len(out) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(out))
	}
}

func TestNormalize_MergeSkippedWhenResultTooLarge(t *testing.T) {
	opts := Options{MinChunkSize: 100, MaxChunkSize: 300}
	chunks := []normdoc.Chunk{
		{Text: strings.Repeat("а", 50), Level: 2},
		{Text: strings.Repeat("б", 280), Level: 2},
	}
	out := Normalize(chunks, normdoc.GenreDecree, opts)
	if len(out) != 2 {
		t.Fatalf("undersized chunk merged past MaxChunkSize: got %d chunks", len(out))
	}
}

func TestNormalize_CodeChunksNeverMerged(t *testing.T) {
	chunks := []normdoc.Chunk{
		{Text: strings.Repeat("а", 40), Level: 1, Metadata: normdoc.Metadata{Article: "Статья 1"}},
		{Text: strings.Repeat("б", 200), Level: 1, Metadata: normdoc.Metadata{Article: "Статья 2"}},
	}
	out := Normalize(chunks, normdoc.GenreCode, DefaultOptions())
	if len(out) != 2 {
		t.Fatalf("merge must not apply to CODE, got %d chunks", len(out))
	}
}

func TestNormalize_CodePointStaysInsideArticle(t *testing.T) {
	opts := Options{MinChunkSize: 20, MaxChunkSize: 300}

	// An article whose single point runs past MaxChunkSize through plain
	// continuation paragraphs. Splitting the article and the point
	// independently would desynchronize their boundaries.
	continuation := strings.Repeat("Собственники помещений вносят плату на основании платежных документов. ", 8)
	paragraphs := []string{
		"Статья 155. Внесение платы",
		"Настоящая статья определяет порядок внесения платы за жилое помещение.",
		"1. Плата вносится ежемесячно до десятого числа.",
		continuation,
	}

	raw := Extract("Жилищный кодекс", normdoc.GenreCode, paragraphs, nil, opts)
	out := Normalize(raw, normdoc.GenreCode, opts)

	if len(out) != len(raw) {
		t.Fatalf("code chunks must not be re-split: %d in, %d out", len(raw), len(out))
	}

	articles := make(map[string]string)
	for _, c := range out {
		if c.Level == normdoc.LevelContext {
			articles[c.Metadata.Article] = c.Text
		}
	}
	for i, c := range out {
		if chunkLen(c.Text) > opts.MaxChunkSize && !c.Oversize {
			t.Errorf("chunk %d oversized but not flagged", i)
		}
		if c.Level != normdoc.LevelPrecision {
			continue
		}
		parent, ok := articles[c.ParentArticle]
		if !ok {
			t.Fatalf("level-2 chunk %d references unknown article %q", i, c.ParentArticle)
		}
		if !strings.Contains(parent, c.Text) {
			t.Errorf("level-2 chunk %d (head %q) not contained in article %q",
				i, c.Text[:40], c.ParentArticle)
		}
	}
}

func TestNormalize_SplitAlongUnitBoundaries(t *testing.T) {
	opts := Options{MinChunkSize: 50, MaxChunkSize: 400}

	var lines []string
	for _, p := range []string{"10.", "11.", "12.", "13."} {
		lines = append(lines, p+" "+strings.Repeat("т", 150))
	}
	chunk := normdoc.Chunk{
		Text:     strings.Join(lines, "\n"),
		Level:    2,
		Metadata: normdoc.Metadata{Document: "ПП", Section: "I. Раздел"},
	}

	out := Normalize([]normdoc.Chunk{chunk}, normdoc.GenreDecree, opts)
	if len(out) < 2 {
		t.Fatalf("expected a split, got %d chunks", len(out))
	}
	for i, c := range out {
		if chunkLen(c.Text) > opts.MaxChunkSize {
			t.Errorf("chunk %d still oversized: %d", i, chunkLen(c.Text))
		}
		// Sub-chunks inherit the parent's metadata unchanged.
		if c.Metadata.Section != "I. Раздел" || c.Metadata.Document != "ПП" {
			t.Errorf("chunk %d lost metadata: %+v", i, c.Metadata)
		}
		// Splits land on point boundaries only.
		if !strings.HasPrefix(c.Text, "1") {
			t.Errorf("chunk %d does not start at a point boundary: %q", i, c.Text[:20])
		}
	}
}

func TestNormalize_SentenceFallback(t *testing.T) {
	opts := Options{MinChunkSize: 20, MaxChunkSize: 120}

	// One long paragraph, no structural markers, several sentences.
	sentence := "Собственники помещений обязаны нести расходы на содержание общего имущества."
	text := strings.Join([]string{sentence, sentence, sentence, sentence}, " ")
	chunk := normdoc.Chunk{Text: text, Level: 2}

	out := Normalize([]normdoc.Chunk{chunk}, normdoc.GenreLetter, opts)
	if len(out) < 2 {
		t.Fatalf("expected sentence split, got %d chunks", len(out))
	}
	for i, c := range out {
		if c.Oversize {
			t.Errorf("chunk %d flagged oversize despite fitting sentences", i)
		}
		if !strings.HasSuffix(strings.TrimSpace(c.Text), ".") {
			t.Errorf("chunk %d does not end at a sentence boundary", i)
		}
	}
}

func TestNormalize_OversizeResidualFlaggedNotTruncated(t *testing.T) {
	opts := Options{MinChunkSize: 20, MaxChunkSize: 100}

	// A single sentence with no internal markers and no sentence breaks.
	text := strings.Repeat("о", 500)
	chunk := normdoc.Chunk{Text: text, Level: 2, Metadata: normdoc.Metadata{Point: "5"}}

	out := Normalize([]normdoc.Chunk{chunk}, normdoc.GenreDecree, opts)
	if len(out) != 1 {
		t.Fatalf("expected passthrough, got %d chunks", len(out))
	}
	if !out[0].Oversize {
		t.Error("residual oversized chunk must be flagged")
	}
	if out[0].Text != text {
		t.Error("residual oversized chunk must never be truncated or altered")
	}
	if out[0].Metadata.Point != "5" {
		t.Error("metadata lost on passthrough")
	}
}

func TestSplitSentences_LowercaseContinuation(t *testing.T) {
	text := "Плата вносится согласно п. 2 ст. 154 настоящего Кодекса. Размер платы устанавливается договором."
	got := splitSentences(text)
	if len(got) != 2 {
		t.Fatalf("expected 2 sentences, got %d: %q", len(got), got)
	}
	if !strings.Contains(got[0], "ст. 154") {
		t.Errorf("abbreviated reference split apart: %q", got[0])
	}
}

func TestNormalize_InputNotMutated(t *testing.T) {
	text := strings.Repeat("и", 2000)
	in := []normdoc.Chunk{{Text: text, Level: 2}}
	Normalize(in, normdoc.GenreLetter, DefaultOptions())
	if in[0].Text != text || in[0].Oversize {
		t.Error("Normalize mutated its input")
	}
}
