package outline

import (
	"fmt"
	"strings"

	"github.com/vladimir-chernikin/normative-docs-qa/internal/marker"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/normdoc"
)

// Generate builds outline text from a paragraph stream for documents that
// arrive without a prepared structure file. The output round-trips through
// Parse. For codes the skeleton is Раздел > Глава > Статья; decrees and
// orders list roman-numeral sections plus appendices; letters carry no
// recognizable structure and yield a header-only outline.
func Generate(docName string, genre normdoc.Genre, paragraphs []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Структура для документа: %s ---\n\n", docName)

	switch genre {
	case normdoc.GenreCode:
		generateCode(&b, paragraphs)
	case normdoc.GenreDecree, normdoc.GenreOrder:
		generateDecree(&b, paragraphs)
	}

	return b.String()
}

func generateCode(b *strings.Builder, paragraphs []string) {
	haveChapter := false
	for _, line := range paragraphs {
		switch marker.Classify(line).Kind {
		case marker.Section:
			b.WriteString(line + "\n")
			haveChapter = false
		case marker.Chapter:
			b.WriteString("  " + line + "\n")
			haveChapter = true
		case marker.Article:
			if haveChapter {
				b.WriteString("    " + line + "\n")
			} else {
				b.WriteString("  " + line + "\n")
			}
		}
	}
}

func generateDecree(b *strings.Builder, paragraphs []string) {
	for _, line := range paragraphs {
		switch marker.Classify(line).Kind {
		case marker.Section:
			b.WriteString(line + "\n")
		case marker.Appendix:
			b.WriteString(line + "\n")
		}
	}
}
