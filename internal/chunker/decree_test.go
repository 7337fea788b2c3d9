package chunker

import (
	"strings"
	"testing"

	"github.com/vladimir-chernikin/normative-docs-qa/internal/normdoc"
)

func TestExtractDecree_SubIndexStaysInOneChunk(t *testing.T) {
	paragraphs := []string{
		"80. Основное требование к качеству коммунальной услуги.",
		"80(1). Первое исключение из основного требования.",
		"80(2). Второе исключение из основного требования.",
		"81. Следующее требование.",
	}

	chunks := Extract("ПП РФ № 354", normdoc.GenreDecree, paragraphs, nil, DefaultOptions())
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	first := chunks[0]
	for _, want := range []string{"80.", "80(1).", "80(2)."} {
		if !strings.Contains(first.Text, want) {
			t.Errorf("first chunk missing %q", want)
		}
	}
	if strings.Contains(first.Text, "81.") {
		t.Error("point 81 leaked into the 80-group chunk")
	}
	if first.Metadata.Point != "80" {
		t.Errorf("point metadata = %q, want 80", first.Metadata.Point)
	}
	if first.Metadata.Type != "Постановление" {
		t.Errorf("type = %q", first.Metadata.Type)
	}
}

func TestExtractDecree_SectionAndAppendixLabels(t *testing.T) {
	paragraphs := []string{
		"Преамбула постановления.",
		"I. Общие положения",
		"1. Первый пункт общих положений.",
		"II. Требования к содержанию",
		"2. Пункт второго раздела.",
		"Приложение № 1",
		"3. Пункт приложения.",
	}

	chunks := Extract("Постановление № 290", normdoc.GenreDecree, paragraphs, nil, DefaultOptions())

	byText := func(fragment string) *normdoc.Chunk {
		for i := range chunks {
			if strings.Contains(chunks[i].Text, fragment) {
				return &chunks[i]
			}
		}
		t.Fatalf("no chunk containing %q", fragment)
		return nil
	}

	// The flushed unit keeps its own label; the new unit carries the updated one.
	if c := byText("Первый пункт"); c.Metadata.Section != "I. Общие положения" {
		t.Errorf("section = %q", c.Metadata.Section)
	}
	if c := byText("Пункт второго раздела"); c.Metadata.Section != "II. Требования к содержанию" {
		t.Errorf("section = %q", c.Metadata.Section)
	}
	app := byText("Пункт приложения")
	if app.Metadata.Appendix != "Приложение № 1" {
		t.Errorf("appendix = %q", app.Metadata.Appendix)
	}
	if app.Metadata.Section != "" {
		t.Errorf("appendix chunk should not keep the main-part section, got %q", app.Metadata.Section)
	}

	// Preamble before any marker is flushed with no structural labels.
	pre := byText("Преамбула")
	if pre.Metadata.Section != "" || pre.Metadata.Appendix != "" || pre.Metadata.Point != "" {
		t.Errorf("preamble metadata should be bare, got %+v", pre.Metadata)
	}
}

func TestExtractDecree_NonOverlap(t *testing.T) {
	paragraphs := []string{
		"1. Первый пункт.",
		"Продолжение первого пункта.",
		"2. Второй пункт.",
		"3. Третий пункт.",
	}

	chunks := Extract("Приказ № 44", normdoc.GenreOrder, paragraphs, nil, DefaultOptions())
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	// Every source line must land in exactly one chunk.
	for _, line := range paragraphs {
		seen := 0
		for _, c := range chunks {
			if strings.Contains(c.Text, line) {
				seen++
			}
		}
		if seen != 1 {
			t.Errorf("line %q appears in %d chunks", line, seen)
		}
	}

	if chunks[0].Metadata.Type != "Приказ" {
		t.Errorf("type = %q", chunks[0].Metadata.Type)
	}
}
