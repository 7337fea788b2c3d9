package chunker

import (
	"strings"

	"github.com/vladimir-chernikin/normative-docs-qa/internal/marker"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/normdoc"
)

// labelLimit bounds the appendix/section labels stored in metadata; decree
// headings can run to a full paragraph.
const labelLimit = 100

// decreeState tracks the current appendix, roman-numeral section, and the
// main number of the open logical unit while scanning a decree or order.
type decreeState struct {
	doc   string
	genre normdoc.Genre

	appendix string
	section  string
	mainNum  string
	lines    []string

	chunks []normdoc.Chunk
}

// extractDecree chunks government decrees and ministry orders. A point line
// "N." or "N(K)." starts a new logical unit only when the main number N
// changes; a sub-index-only change ("80." followed by "80(1).") extends the
// current unit so a base requirement stays together with its numbered
// exceptions. Appendix and section headings flush the open unit and start a
// new one carrying the updated label. Oversized raw chunks are left for the
// size normalizer.
func extractDecree(doc string, genre normdoc.Genre, paragraphs []string) []normdoc.Chunk {
	st := &decreeState{doc: doc, genre: genre}

	for _, line := range paragraphs {
		switch m := marker.Classify(line); m.Kind {
		case marker.Appendix:
			st.flush()
			st.appendix = truncateLabel(line)
			st.section = ""
			st.mainNum = ""
			st.lines = []string{line}
		case marker.Section:
			st.flush()
			st.section = truncateLabel(line)
			st.mainNum = ""
			st.lines = []string{line}
		case marker.Point:
			if m.Capture != st.mainNum {
				st.flush()
				st.mainNum = m.Capture
				st.lines = []string{line}
			} else {
				st.lines = append(st.lines, line)
			}
		default:
			st.lines = append(st.lines, line)
		}
	}

	st.flush()
	return st.chunks
}

func (st *decreeState) flush() {
	if len(st.lines) == 0 {
		return
	}
	st.chunks = append(st.chunks, normdoc.Chunk{
		Text:  strings.Join(st.lines, "\n"),
		Level: normdoc.LevelPrecision,
		Metadata: normdoc.Metadata{
			Document: st.doc,
			Type:     st.genre.TypeName(),
			Section:  st.section,
			Appendix: st.appendix,
			Point:    st.mainNum,
		},
	})
	st.lines = nil
}

func truncateLabel(s string) string {
	r := []rune(s)
	if len(r) <= labelLimit {
		return s
	}
	return string(r[:labelLimit])
}
