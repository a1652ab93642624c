// Package source holds the small value types used to borrow spans of a
// document's text cheaply: View, and the Identifier/Annotation shapes built
// on top of it.
package source

import "github.com/shellls/shellls/internal/protocol"

// Range and Position are re-exported for convenience so callers working with
// source spans don't need a second import for the common case.
type Range = protocol.Range
type Position = protocol.Position

// View is a half-open byte range [Start, End) into a document's text. It is
// stored instead of a borrowed string slice so that symbol/token/diagnostic
// data in a DocumentInfo survives in-place text edits; the view is resolved
// against the current text only when needed (hover, diagnostics, renders).
type View struct {
	Start uint32
	End   uint32
}

// String resolves the view against the given text.
func (v View) String(text string) string {
	return text[v.Start:v.End]
}

// Len reports the view's byte length.
func (v View) Len() uint32 {
	return v.End - v.Start
}

// RangeOf converts a byte-offset View into a line/character Range against
// text, walking runes once. Used where a query needs to report a location
// for something that was only ever recorded as a byte span (annotation
// argument views), not a Range, during parsing.
func RangeOf(text string, v View) Range {
	var pos Position
	var start Position
	byteOff := uint32(0)
	started := false
	for _, r := range text {
		if byteOff == v.Start {
			start = pos
			started = true
		}
		if byteOff == v.End {
			return Range{Start: start, End: pos}
		}
		pos.Advance(r)
		byteOff += uint32(len(string(r)))
	}
	if !started {
		start = pos
	}
	return Range{Start: start, End: pos}
}

// Identifier is a name paired with the range of its occurrence. Equality
// between identifiers considered as map/set keys is by name only, matching
// shell's flat, case-sensitive namespace.
type Identifier struct {
	Name  string
	Range Range
}
