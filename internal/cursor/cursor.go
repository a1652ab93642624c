// Package cursor implements a position-tracking character cursor: a
// one-rune-of-lookahead iterator over UTF-8 text that tracks both a byte
// offset and a (line, character) Position as it advances.
package cursor

import (
	"unicode/utf8"

	"github.com/shellls/shellls/internal/protocol"
)

// Cursor walks a string one rune at a time, tracking its current byte
// offset and source Position. It never copies the input.
type Cursor struct {
	text     string
	offset   uint32
	position protocol.Position
	lookahead rune
	hasNext   bool
}

// New creates a Cursor positioned at the start of text.
func New(text string) *Cursor {
	return &Cursor{text: text}
}

// Offset returns the current byte offset.
func (c *Cursor) Offset() uint32 {
	return c.offset
}

// Position returns the current (line, character) position.
func (c *Cursor) Position() protocol.Position {
	return c.position
}

func (c *Cursor) decodeAt(offset uint32) (rune, int) {
	if int(offset) >= len(c.text) {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(c.text[offset:])
	return r, size
}

// Peek returns the next rune without consuming it, or (0, false) at EOF.
func (c *Cursor) Peek() (rune, bool) {
	if !c.hasNext {
		r, size := c.decodeAt(c.offset)
		if size == 0 {
			return 0, false
		}
		c.lookahead = r
		c.hasNext = true
	}
	return c.lookahead, true
}

// Next consumes and returns the next rune, or (0, false) at EOF.
func (c *Cursor) Next() (rune, bool) {
	r, ok := c.Peek()
	if !ok {
		return 0, false
	}
	c.hasNext = false
	c.offset += uint32(utf8.RuneLen(r))
	c.position.Advance(r)
	return r, true
}

// NextIf consumes and returns the next rune if predicate holds for it.
func (c *Cursor) NextIf(predicate func(rune) bool) (rune, bool) {
	if r, ok := c.Peek(); ok && predicate(r) {
		return c.Next()
	}
	return 0, false
}

// NextIfEq consumes the next rune if it equals r.
func (c *Cursor) NextIfEq(r rune) (rune, bool) {
	return c.NextIf(func(x rune) bool { return x == r })
}

// Consume consumes the next rune if it equals r, returning whether it did.
func (c *Cursor) Consume(r rune) bool {
	_, ok := c.NextIfEq(r)
	return ok
}
