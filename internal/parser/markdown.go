package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Headings and body
// blocks come out as separate paragraphs in document order, so a converted
// code keeps its "Статья ..." heading lines intact for the classifier.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) ([]string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	var paragraphs []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			paragraphs = appendParagraph(paragraphs, string(node.Text(src)))
		case *ast.List:
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				paragraphs = appendParagraph(paragraphs, extractText(item, src))
			}
		default:
			for _, line := range strings.Split(extractText(n, src), "\n") {
				paragraphs = appendParagraph(paragraphs, line)
			}
		}
	}
	return paragraphs, nil
}

// extractText gets the text content of a goldmark AST node. Block nodes with
// raw lines yield those; containers (list items) recurse into children.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines.Len() > 0 {
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(src))
			}
			return strings.TrimSpace(buf.String())
		}
	}
	// Inline children.
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			// Recurse for nested inlines.
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
