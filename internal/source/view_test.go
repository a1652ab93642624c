package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewStringSlicesTheHalfOpenRange(t *testing.T) {
	text := "hello world"
	v := View{Start: 6, End: 11}
	assert.Equal(t, "world", v.String(text))
}

func TestViewLenIsEndMinusStart(t *testing.T) {
	v := View{Start: 3, End: 10}
	assert.Equal(t, uint32(7), v.Len())
}

func TestRangeOfWalksRunesNotBytes(t *testing.T) {
	text := "é=1"
	// 'é' is 2 bytes; the view for "1" starts at byte offset 3.
	v := View{Start: 3, End: 4}
	r := RangeOf(text, v)
	assert.Equal(t, uint32(0), r.Start.Line)
	assert.Equal(t, uint32(2), r.Start.Character)
	assert.Equal(t, uint32(3), r.End.Character)
}

func TestRangeOfAtDocumentEnd(t *testing.T) {
	text := "abc"
	v := View{Start: 3, End: 3}
	r := RangeOf(text, v)
	assert.Equal(t, uint32(3), r.Start.Character)
	assert.Equal(t, uint32(3), r.End.Character)
}
