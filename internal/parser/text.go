package parser

import (
	"bufio"
	"io"
)

// TextParser handles plain text files. Normative texts are exported with one
// paragraph per line, so every non-blank line becomes one stream entry.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	for scanner.Scan() {
		paragraphs = appendParagraph(paragraphs, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return paragraphs, nil
}
