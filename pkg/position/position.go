// Package position tracks where tokens live in template source.
package position

import (
	"fmt"
	"strings"
)

// Place is a zero-based line and a one-based character column.
type Place struct {
	Line      int
	Character int
}

type Range struct {
	Start Place
	End   Place
}

// RawPosition is a span of source text anchored at a byte offset.
type RawPosition struct {
	// Offset is the byte offset in the template source
	Offset int
	// Text is the source text covered by the span
	Text string
}

func NewBasicPosition(text string, offset int) RawPosition {
	return RawPosition{Text: text, Offset: offset}
}

// ID returns a unique identifier for this position based on offset and text
func (p RawPosition) ID() string {
	return fmt.Sprintf("%s@%d", p.Text, p.Offset)
}

func (p RawPosition) Length() int {
	return len(p.Text)
}

// End is the byte offset just past the span.
func (p RawPosition) End() int {
	return p.Offset + len(p.Text)
}

// Sub returns the span of needle inside p, searching from byte index from.
// The zero RawPosition and false are returned when needle is absent.
func (p RawPosition) Sub(needle string, from int) (RawPosition, bool) {
	if from < 0 || from > len(p.Text) {
		return RawPosition{}, false
	}
	idx := strings.Index(p.Text[from:], needle)
	if idx < 0 {
		return RawPosition{}, false
	}
	return RawPosition{Text: needle, Offset: p.Offset + from + idx}, true
}

// Contains reports whether the byte offset falls inside the span. The end of
// the span counts as inside so a cursor right after a token still hits it.
func (p RawPosition) Contains(offset int) bool {
	return offset >= p.Offset && offset <= p.End()
}

func (p RawPosition) HasRangeOverlapWith(other RawPosition) bool {
	if p.Length() == 0 {
		return p.Offset >= other.Offset && p.Offset <= other.End()
	}
	if other.Length() == 0 {
		return other.Offset >= p.Offset && other.Offset <= p.End()
	}
	return other.Offset < p.End() && other.End() > p.Offset
}

// GetLineAndColumn returns the zero-based line and column of the span start.
func (p RawPosition) GetLineAndColumn(text string) (line, col int) {
	return LineAndColumn(text, p.Offset)
}

// LineAndColumn converts a byte offset into zero-based line and column numbers.
// Offsets past the end of text are clamped.
func LineAndColumn(text string, offset int) (line, col int) {
	if offset > len(text) {
		offset = len(text)
	}
	lastNewline := -1
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			lastNewline = i
		}
	}
	return line, offset - lastNewline - 1
}

// GetRange converts the span into a line/character range.
func (p RawPosition) GetRange(fileText string) Range {
	startLine, startCol := p.GetLineAndColumn(fileText)
	endLine, endCol := LineAndColumn(fileText, p.End())
	return Range{
		Start: Place{Line: startLine, Character: startCol + 1},
		End:   Place{Line: endLine, Character: endCol},
	}
}

func (p RawPosition) String() string {
	return p.ID()
}

type RawPositionArray []RawPosition

func (me RawPositionArray) ToStrings() []string {
	var texts []string
	for _, pos := range me {
		texts = append(texts, pos.String())
	}
	return texts
}
