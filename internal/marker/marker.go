// Package marker classifies single lines of normative-document text into
// structural categories (раздел, глава, статья, приложение, пункт, подпункт).
package marker

import (
	"regexp"
	"strings"
)

// Kind is the structural category of one line.
type Kind int

const (
	Plain Kind = iota
	Section
	Chapter
	Article
	Appendix
	Point
	Subpoint
)

func (k Kind) String() string {
	switch k {
	case Section:
		return "section"
	case Chapter:
		return "chapter"
	case Article:
		return "article"
	case Appendix:
		return "appendix"
	case Point:
		return "point"
	case Subpoint:
		return "subpoint"
	}
	return "plain-text"
}

// Match is the classification result for one line.
type Match struct {
	Kind Kind

	// Capture holds the identifying fragment: the heading line itself for
	// section/chapter/article/appendix, the main number for a point, the
	// letter for a subpoint. Empty for plain text.
	Capture string

	// SubIndex is the parenthesized sub-index of a point, "1" for "80(1).".
	SubIndex string
}

var (
	sectionWordRe  = regexp.MustCompile(`(?i)^раздел\s+[ivxlcdm]+`)
	sectionRomanRe = regexp.MustCompile(`^[IVXLCDM]+\.\s+`)
	chapterRe      = regexp.MustCompile(`(?i)^глава\s+\d+`)
	articleRe      = regexp.MustCompile(`(?i)^статья\s+[\d.]+`)
	appendixRe     = regexp.MustCompile(`(?i)^приложение(\s+№?\s*\d+)?`)
	pointRe        = regexp.MustCompile(`^(\d+)(?:\((\d+)\))?\.\s+`)
	subpointRe     = regexp.MustCompile(`(?i)^([а-яa-z])\)\s*`)
)

// Classify tags one line. Patterns can superficially overlap (a roman-numeral
// section heading also looks like the start of a sentence), so the first match
// in the order section > chapter > article > appendix > point > subpoint wins.
// Anything else is plain text, which always has a safe append path.
func Classify(line string) Match {
	line = strings.TrimSpace(line)
	if line == "" {
		return Match{Kind: Plain}
	}

	if sectionWordRe.MatchString(line) || sectionRomanRe.MatchString(line) {
		return Match{Kind: Section, Capture: line}
	}
	if chapterRe.MatchString(line) {
		return Match{Kind: Chapter, Capture: line}
	}
	if articleRe.MatchString(line) {
		return Match{Kind: Article, Capture: line}
	}
	if appendixRe.MatchString(line) {
		return Match{Kind: Appendix, Capture: line}
	}
	if m := pointRe.FindStringSubmatch(line); m != nil {
		return Match{Kind: Point, Capture: m[1], SubIndex: m[2]}
	}
	if m := subpointRe.FindStringSubmatch(line); m != nil {
		return Match{Kind: Subpoint, Capture: m[1]}
	}
	return Match{Kind: Plain}
}

// IsUnitStart reports whether the line opens a new logical unit. The size
// normalizer uses this to find safe split boundaries inside an oversized chunk.
func IsUnitStart(line string) bool {
	return Classify(line).Kind != Plain
}
