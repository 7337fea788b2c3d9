package chunker

import (
	"strings"

	"github.com/vladimir-chernikin/normative-docs-qa/internal/marker"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/normdoc"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/outline"
)

// codeState is the accumulator threaded through the CODE fold. Two texts are
// open at once: the whole current article (level 1) and the current point
// (level 2). Both receive identical lines while a point is open, which is
// what guarantees level-2 containment in the level-1 text.
type codeState struct {
	doc  string
	meta normdoc.Metadata

	articleTitle string
	articleLines []string
	pointLines   []string
	pointNumber  string

	articleOrder []string
	articles     map[string]normdoc.Chunk
	points       []normdoc.Chunk
}

// extractCode produces dual-granularity chunks for codes and federal laws:
// one level-1 chunk per article plus one level-2 chunk per numbered point.
// Article headings are recognized by exact title match against the outline;
// when the outline is missing the line classifier fills in, with
// section/chapter attribution absent.
func extractCode(doc string, paragraphs []string, tree *outline.Tree) []normdoc.Chunk {
	st := &codeState{
		doc:      doc,
		articles: make(map[string]normdoc.Chunk),
	}

	for _, line := range paragraphs {
		if node := articleNode(line, tree); node != nil {
			st.flushPoint()
			st.flushArticle()
			st.startArticle(line, node)
			continue
		}

		switch m := marker.Classify(line); m.Kind {
		case marker.Point:
			if st.articleTitle == "" {
				continue
			}
			st.flushPoint()
			st.pointNumber = m.Capture
			st.pointLines = []string{line}
			st.articleLines = append(st.articleLines, line)
		case marker.Subpoint:
			// Subpoints extend the open point, never start one.
			if len(st.pointLines) > 0 {
				st.pointLines = append(st.pointLines, line)
			}
			if st.articleTitle != "" {
				st.articleLines = append(st.articleLines, line)
			}
		default:
			if st.articleTitle != "" {
				st.articleLines = append(st.articleLines, line)
				if len(st.pointLines) > 0 {
					st.pointLines = append(st.pointLines, line)
				}
			}
		}
	}

	st.flushPoint()
	st.flushArticle()

	// Level-1 chunks first, in article encounter order, then level-2 in
	// document order.
	out := make([]normdoc.Chunk, 0, len(st.articleOrder)+len(st.points))
	for _, title := range st.articleOrder {
		out = append(out, st.articles[title])
	}
	out = append(out, st.points...)
	return out
}

// articleNode resolves whether a line opens a new article. The outline lookup
// is authoritative; the classifier is only consulted when no outline exists,
// so stray in-text references to other articles cannot split the stream.
func articleNode(line string, tree *outline.Tree) *outline.Node {
	if tree != nil && !tree.Empty() {
		if node, ok := tree.Lookup(line); ok && node.Kind == marker.Article {
			return node
		}
		return nil
	}
	if marker.Classify(line).Kind == marker.Article {
		return &outline.Node{Kind: marker.Article, Title: line}
	}
	return nil
}

func (st *codeState) startArticle(line string, node *outline.Node) {
	st.articleTitle = line
	st.articleLines = []string{line}
	st.pointLines = nil
	st.pointNumber = ""
	st.meta = normdoc.Metadata{
		Document: st.doc,
		Type:     normdoc.GenreCode.TypeName(),
		Section:  node.SectionTitle(),
		Chapter:  node.ChapterTitle(),
		Article:  line,
	}
}

func (st *codeState) flushPoint() {
	if len(st.pointLines) == 0 {
		return
	}
	meta := st.meta
	meta.Point = st.pointNumber
	st.points = append(st.points, normdoc.Chunk{
		Text:          strings.Join(st.pointLines, "\n"),
		Level:         normdoc.LevelPrecision,
		Metadata:      meta,
		ParentArticle: st.articleTitle,
	})
	st.pointLines = nil
	st.pointNumber = ""
}

func (st *codeState) flushArticle() {
	if st.articleTitle == "" || len(st.articleLines) == 0 {
		return
	}
	if _, seen := st.articles[st.articleTitle]; !seen {
		st.articleOrder = append(st.articleOrder, st.articleTitle)
	}
	meta := st.meta
	meta.Point = ""
	st.articles[st.articleTitle] = normdoc.Chunk{
		Text:     strings.Join(st.articleLines, "\n"),
		Level:    normdoc.LevelContext,
		Metadata: meta,
	}
	st.articleTitle = ""
	st.articleLines = nil
}
