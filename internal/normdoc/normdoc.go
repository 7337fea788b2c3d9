package normdoc

import "strings"

// Genre selects the chunking strategy for a document.
type Genre string

const (
	GenreCode    Genre = "CODE"
	GenreDecree  Genre = "GOVERNMENT_DECREE"
	GenreOrder   Genre = "MINISTRY_ORDER"
	GenreLetter  Genre = "LETTER"
	GenreUnknown Genre = "UNKNOWN"
)

// TypeName returns the Russian display name stored in chunk metadata.
func (g Genre) TypeName() string {
	switch g {
	case GenreCode:
		return "Кодекс"
	case GenreDecree:
		return "Постановление"
	case GenreOrder:
		return "Приказ"
	case GenreLetter:
		return "Письмо"
	}
	return "Документ"
}

// DetectGenre maps a document display name to its genre. Matching is ordered
// keyword containment on the lowercased name; codes and federal laws share the
// chapter/article layout so both map to CODE. Unrecognized names fall back to
// CODE rather than failing.
func DetectGenre(name string) Genre {
	n := strings.ToLower(name)

	if strings.Contains(n, "кодекс") {
		return GenreCode
	}
	if strings.Contains(n, "фз") || strings.Contains(n, "федеральный закон") {
		return GenreCode
	}
	if strings.Contains(n, "пп рф") || strings.Contains(n, "постановление") {
		return GenreDecree
	}
	if strings.Contains(n, "приказ") {
		return GenreOrder
	}
	if strings.Contains(n, "письмо") {
		return GenreLetter
	}
	return GenreCode
}

// Metadata carries the structural position of a chunk. Unresolved fields stay
// empty and are omitted from Map output, never placeholder-filled.
type Metadata struct {
	Document string `json:"document"`
	Type     string `json:"type"`
	Section  string `json:"section,omitempty"`
	Chapter  string `json:"chapter,omitempty"`
	Article  string `json:"article,omitempty"`
	Appendix string `json:"appendix,omitempty"`
	Point    string `json:"point,omitempty"`
}

// Map returns the flat key/value view handed to the embedding collaborator.
func (m Metadata) Map() map[string]string {
	out := map[string]string{
		"document": m.Document,
		"type":     m.Type,
	}
	if m.Section != "" {
		out["section"] = m.Section
	}
	if m.Chapter != "" {
		out["chapter"] = m.Chapter
	}
	if m.Article != "" {
		out["article"] = m.Article
	}
	if m.Appendix != "" {
		out["appendix"] = m.Appendix
	}
	if m.Point != "" {
		out["point"] = m.Point
	}
	return out
}

// Chunk levels. Level 1 is a whole logical unit (full article) kept for
// context; level 2 is an individual point for precision retrieval. Genres
// without a dual hierarchy emit level-2 chunks by convention.
const (
	LevelContext   = 1
	LevelPrecision = 2
)

// Chunk is a sized text segment with structural metadata, the sole durable
// output of document processing. Value object: the normalizer produces new
// Chunk values, never mutates delivered ones.
type Chunk struct {
	Text     string   `json:"text"`
	Level    int      `json:"level"`
	Metadata Metadata `json:"metadata"`

	// ParentArticle links a level-2 chunk to the title of the level-1
	// article chunk containing it. Empty for level-1 and flat genres.
	ParentArticle string `json:"parent_article,omitempty"`

	// Oversize marks a chunk that still exceeds the maximum size after
	// every split strategy. Downstream decides truncate/embed/skip.
	Oversize bool `json:"oversize,omitempty"`
}
