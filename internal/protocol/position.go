// Package protocol defines the wire-level JSON types exchanged with an LSP
// client: positions, ranges, diagnostics, and the request/response payloads
// for each method the server understands. Types here are plain data; the
// framing and dispatch logic lives in internal/rpc and internal/server.
package protocol

import "fmt"

// Position is a zero-based (line, character) pair. Character counts UTF-16
// code units under standard LSP, but this server treats it as a code point
// count; scripts are overwhelmingly ASCII and the distinction never
// surfaces in practice.
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// Less reports whether p sorts strictly before q in document order.
func (p Position) Less(q Position) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Character < q.Character)
}

// LessEqual reports whether p sorts at or before q in document order.
func (p Position) LessEqual(q Position) bool {
	return p == q || p.Less(q)
}

// Advance moves the position past one consumed code point, resetting the
// column and bumping the line on '\n'.
func (p *Position) Advance(r rune) {
	if r == '\n' {
		p.Line++
		p.Character = 0
	} else {
		p.Character++
	}
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Range is a half-open [Start, End) span of Positions; Start <= End always
// holds for ranges produced by this server.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// MaxRange spans the entire possible document. Nothing in this module uses
// it; formatting replaces the whole document with a range computed from the
// text.
var MaxRange = Range{Start: Position{}, End: Position{Line: ^uint32(0), Character: ^uint32(0)}}

// NewRange builds a Range from two positions.
func NewRange(start, end Position) Range {
	return Range{Start: start, End: end}
}

// RangeForPosition synthesizes a one-character range starting at pos, used
// when a token-shaped range is needed but the lexer has no token to offer
// (e.g. end of input).
func RangeForPosition(pos Position) Range {
	return Range{Start: pos, End: Position{Line: pos.Line, Character: pos.Character + 1}}
}

// Contains reports whether pos falls within r. The end is exclusive, so a
// position exactly at r.End is not contained.
func (r Range) Contains(pos Position) bool {
	return r.Start.LessEqual(pos) && pos.Less(r.End)
}

// Overlaps reports whether r and other share any position.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Less(other.End) && other.Start.Less(r.End)
}
