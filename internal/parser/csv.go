package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVParser handles CSV exports of decree appendix tables. Each data row
// becomes one labeled paragraph so row content survives in the chunk text.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) ([]string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// First row is headers.
	headers := records[0]

	var paragraphs []string
	for _, row := range records[1:] {
		var cells []string
		for j, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if j < len(headers) && strings.TrimSpace(headers[j]) != "" {
				cells = append(cells, strings.TrimSpace(headers[j])+": "+cell)
			} else {
				cells = append(cells, cell)
			}
		}
		paragraphs = appendParagraph(paragraphs, strings.Join(cells, ", "))
	}
	return paragraphs, nil
}
