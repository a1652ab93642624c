// Package lexer turns shell source text into a lazy, one-token-lookahead
// stream of classified tokens.
package lexer

import (
	"github.com/shellls/shellls/internal/protocol"
	"github.com/shellls/shellls/internal/source"
)

// Kind is a token's classification. The set is closed; the parser switches
// exhaustively over it.
type Kind int

const (
	Word Kind = iota
	RawString
	Comment
	DoubleQuote
	BackQuote
	ParenOpen
	ParenClose
	BraceOpen
	BraceClose
	Less
	LessLess
	LessLessDash
	LessAnd
	LessGreat
	Great
	GreatGreat
	GreatAnd
	GreatPipe
	Equal
	Dollar
	DollarHash
	Pipe
	PipePipe
	And
	AndAnd
	Semi
	SemiSemi
	NewLine
	Space
	ErrorUnterminatingRawString
)

// Show renders a human-readable description used in "expected X, found Y"
// diagnostics.
func (k Kind) Show() string {
	switch k {
	case Word:
		return "a word"
	case RawString:
		return "a raw string"
	case Comment:
		return "a comment"
	case DoubleQuote:
		return "a double quote"
	case BackQuote:
		return "a backquote"
	case ParenOpen:
		return "an opening parenthesis"
	case ParenClose:
		return "a closing parenthesis"
	case BraceOpen:
		return "an opening brace"
	case BraceClose:
		return "a closing brace"
	case Less:
		return "'<'"
	case LessLess:
		return "'<<'"
	case LessLessDash:
		return "'<<-'"
	case LessAnd:
		return "'<&'"
	case LessGreat:
		return "'<>'"
	case Great:
		return "'>'"
	case GreatGreat:
		return "'>>'"
	case GreatAnd:
		return "'>&'"
	case GreatPipe:
		return "'>|'"
	case Equal:
		return "an equals sign"
	case Dollar:
		return "a dollar sign"
	case DollarHash:
		return "'$#'"
	case Pipe:
		return "a pipe"
	case PipePipe:
		return "'||'"
	case And:
		return "'&'"
	case AndAnd:
		return "'&&'"
	case Semi:
		return "a semicolon"
	case SemiSemi:
		return "a double semicolon"
	case NewLine:
		return "a new line"
	case Space:
		return "whitespace"
	case ErrorUnterminatingRawString:
		return "an unterminating raw string"
	default:
		return "an unknown token"
	}
}

// Token is a classified span of source text.
type Token struct {
	Kind  Kind
	View  source.View
	Range protocol.Range
}

// String resolves the token's underlying text.
func (t Token) String(text string) string {
	return t.View.String(text)
}
