// Package outline parses the structural skeleton text that accompanies a
// normative document into a read-only heading tree with ancestry lookup.
package outline

import (
	"errors"
	"strings"

	"github.com/vladimir-chernikin/normative-docs-qa/internal/marker"
)

// ErrStructureMissing signals that the outline text was absent or contained no
// recognizable headings. Non-fatal: extraction proceeds with section/chapter
// attribution simply absent.
var ErrStructureMissing = errors.New("outline: document structure missing")

// Node is a single heading in the outline. Built once, read-only afterwards.
type Node struct {
	Kind   marker.Kind
	Title  string
	Index  int   // order of appearance in the outline
	Parent *Node // enclosing chapter or section, nil at top level
}

// SectionTitle resolves the enclosing section heading, or "".
func (n *Node) SectionTitle() string {
	for p := n; p != nil; p = p.Parent {
		if p.Kind == marker.Section {
			return p.Title
		}
	}
	return ""
}

// ChapterTitle resolves the enclosing chapter heading, or "".
func (n *Node) ChapterTitle() string {
	for p := n; p != nil; p = p.Parent {
		if p.Kind == marker.Chapter {
			return p.Title
		}
	}
	return ""
}

// Tree is the parsed outline plus a heading-text lookup.
type Tree struct {
	Nodes   []*Node
	byTitle map[string]*Node
}

// Lookup finds the outline node whose heading exactly matches title.
func (t *Tree) Lookup(title string) (*Node, bool) {
	n, ok := t.byTitle[title]
	return n, ok
}

// Empty reports whether no headings were recognized.
func (t *Tree) Empty() bool {
	return len(t.Nodes) == 0
}

// Articles returns the article nodes in outline order.
func (t *Tree) Articles() []*Node {
	var out []*Node
	for _, n := range t.Nodes {
		if n.Kind == marker.Article {
			out = append(out, n)
		}
	}
	return out
}

// Parse reads indented outline text in document order and builds the heading
// tree. Separator lines ("---") and free text are skipped; indentation is
// informational only, nesting follows the section/chapter/article keyword
// hierarchy. An empty or unrecognizable outline yields an empty tree and
// ErrStructureMissing.
func Parse(text string) (*Tree, error) {
	tree := &Tree{byTitle: make(map[string]*Node)}
	if strings.TrimSpace(text) == "" {
		return tree, ErrStructureMissing
	}

	var currentSection, currentChapter *Node

	add := func(n *Node) {
		n.Index = len(tree.Nodes)
		tree.Nodes = append(tree.Nodes, n)
		if _, dup := tree.byTitle[n.Title]; !dup {
			tree.byTitle[n.Title] = n
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "---") {
			continue
		}

		switch m := marker.Classify(line); m.Kind {
		case marker.Section:
			currentSection = &Node{Kind: marker.Section, Title: line}
			currentChapter = nil
			add(currentSection)
		case marker.Chapter:
			currentChapter = &Node{Kind: marker.Chapter, Title: line, Parent: currentSection}
			add(currentChapter)
		case marker.Article:
			parent := currentChapter
			if parent == nil {
				parent = currentSection
			}
			add(&Node{Kind: marker.Article, Title: line, Parent: parent})
		case marker.Appendix:
			currentSection = nil
			currentChapter = nil
			add(&Node{Kind: marker.Appendix, Title: line})
		}
	}

	if tree.Empty() {
		return tree, ErrStructureMissing
	}
	return tree, nil
}
