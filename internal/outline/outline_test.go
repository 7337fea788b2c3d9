package outline

import (
	"errors"
	"testing"

	"github.com/vladimir-chernikin/normative-docs-qa/internal/marker"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/normdoc"
)

const codeOutline = `--- Структура для документа: Жилищный кодекс ---

Раздел I. Общие положения
  Глава 1. Основные положения
    Статья 1. Основные начала жилищного законодательства
    Статья 2. Обеспечение условий для осуществления права на жилище
  Глава 2. Объекты жилищных прав
    Статья 15. Объекты жилищных прав
Раздел II. Право собственности
  Глава 5. Права и обязанности собственника
    Статья 30. Права и обязанности собственника жилого помещения
`

func TestParse_CodeOutline(t *testing.T) {
	tree, err := Parse(codeOutline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(tree.Articles()); got != 4 {
		t.Fatalf("expected 4 articles, got %d", got)
	}

	n, ok := tree.Lookup("Статья 15. Объекты жилищных прав")
	if !ok {
		t.Fatal("article not found in lookup")
	}
	if n.Kind != marker.Article {
		t.Errorf("expected article kind, got %s", n.Kind)
	}
	if got := n.ChapterTitle(); got != "Глава 2. Объекты жилищных прав" {
		t.Errorf("chapter = %q", got)
	}
	if got := n.SectionTitle(); got != "Раздел I. Общие положения" {
		t.Errorf("section = %q", got)
	}

	n, ok = tree.Lookup("Статья 30. Права и обязанности собственника жилого помещения")
	if !ok {
		t.Fatal("article not found in lookup")
	}
	if got := n.SectionTitle(); got != "Раздел II. Право собственности" {
		t.Errorf("section = %q", got)
	}
}

func TestParse_AppendixResetsAncestry(t *testing.T) {
	tree, err := Parse("Раздел I. Правила\nПриложение № 1\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	app, ok := tree.Lookup("Приложение № 1")
	if !ok {
		t.Fatal("appendix not found")
	}
	if app.SectionTitle() != "" {
		t.Errorf("appendix should not inherit a section, got %q", app.SectionTitle())
	}
}

func TestParse_EmptyOrUnrecognizable(t *testing.T) {
	for _, text := range []string{"", "   \n\n", "просто текст без заголовков\nещё текст"} {
		tree, err := Parse(text)
		if !errors.Is(err, ErrStructureMissing) {
			t.Errorf("Parse(%q): expected ErrStructureMissing, got %v", text, err)
		}
		if !tree.Empty() {
			t.Errorf("Parse(%q): expected empty tree", text)
		}
	}
}

func TestGenerate_RoundTrip(t *testing.T) {
	paragraphs := []string{
		"Раздел I. Общие положения",
		"Глава 1. Основные положения",
		"Статья 1. Предмет регулирования",
		"Текст статьи, не заголовок.",
		"Статья 2. Сфера применения",
	}

	text := Generate("Жилищный кодекс", normdoc.GenreCode, paragraphs)
	tree, err := Parse(text)
	if err != nil {
		t.Fatalf("generated outline failed to parse: %v", err)
	}
	if got := len(tree.Articles()); got != 2 {
		t.Fatalf("expected 2 articles, got %d", got)
	}
	n, _ := tree.Lookup("Статья 1. Предмет регулирования")
	if n == nil || n.ChapterTitle() != "Глава 1. Основные положения" {
		t.Error("ancestry lost through generate/parse round trip")
	}
}

func TestGenerate_LetterHasNoHeadings(t *testing.T) {
	text := Generate("Письмо Минстроя", normdoc.GenreLetter, []string{"Уважаемые коллеги!", "Сообщаем следующее."})
	_, err := Parse(text)
	if !errors.Is(err, ErrStructureMissing) {
		t.Errorf("expected ErrStructureMissing for letter outline, got %v", err)
	}
}
