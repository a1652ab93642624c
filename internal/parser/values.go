package parser

import (
	"strconv"

	"github.com/shellls/shellls/internal/analysis"
	"github.com/shellls/shellls/internal/lexer"
	"github.com/shellls/shellls/internal/protocol"
)

const maxPositionalParam = 65535

// parseValue consumes one value: a run of simple-value pieces with no
// separating whitespace (word text, quoted strings, expansions). Reports
// whether anything was consumed.
func (c *ctx) parseValue() bool {
	consumed := false
	for c.parseSimpleValue() {
		consumed = true
	}
	return consumed
}

func (c *ctx) parseSimpleValue() bool {
	t, ok := c.lex.Peek()
	if !ok {
		return false
	}
	switch t.Kind {
	case lexer.Word, lexer.RawString, lexer.DollarHash:
		c.lex.Next()
		return true
	case lexer.DoubleQuote:
		c.lex.Next()
		c.parseDoubleQuoted()
		return true
	case lexer.BackQuote:
		c.lex.Next()
		c.parseBackQuoted()
		return true
	case lexer.Dollar:
		c.lex.Next()
		c.parseExpansion()
		return true
	default:
		return false
	}
}

// parseDoubleQuoted consumes tokens up to and including the closing
// DoubleQuote, honoring $-expansions inside. The lexer has no quoting mode
// of its own (lexing stays context-free), so any other token kind
// encountered here - including a stray raw-string or comment start - is
// simply swallowed as literal text.
func (c *ctx) parseDoubleQuoted() {
	openRange := c.lex.CurrentRange()
	for {
		t, ok := c.lex.Next()
		if !ok {
			c.errorf(openRange, "unterminated double-quoted string")
			return
		}
		switch t.Kind {
		case lexer.DoubleQuote:
			return
		case lexer.Dollar:
			c.parseExpansion()
		case lexer.NewLine:
			c.errorf(openRange, "unterminated double-quoted string")
			return
		default:
			// literal text, nothing to record
		}
	}
}

// parseBackQuoted consumes a legacy `...` command substitution as an opaque
// span; its contents are not analyzed and treated as a literal value,
// unlike $(...) which recurses into the statement grammar.
func (c *ctx) parseBackQuoted() {
	openRange := c.lex.CurrentRange()
	for {
		t, ok := c.lex.Next()
		if !ok {
			c.errorf(openRange, "unterminated command substitution")
			return
		}
		if t.Kind == lexer.BackQuote {
			return
		}
	}
}

// parseExpansion is called just after consuming a Dollar token.
func (c *ctx) parseExpansion() {
	dollarRange := c.lex.CurrentRange()

	if _, ok := c.lex.NextIfKind(lexer.Dollar); ok {
		return // "$$": the second dollar is consumed here, not expanded
	}

	if _, ok := c.lex.NextIfKind(lexer.ParenOpen); ok {
		c.parseCommandSubstitution()
		return
	}

	if _, ok := c.lex.NextIfKind(lexer.BraceOpen); ok {
		word, ok := c.lex.NextIfKind(lexer.Word)
		if !ok {
			c.errorf(c.lex.CurrentRange(), "expected a name after '${'")
			return
		}
		c.resolveDollarName(word.String(c.text), word.Range)
		if _, ok := c.lex.NextIfKind(lexer.BraceClose); !ok {
			c.errorf(c.lex.CurrentRange(), "expected a closing brace")
		}
		return
	}

	if word, ok := c.lex.NextIfKind(lexer.Word); ok {
		c.resolveDollarName(word.String(c.text), word.Range)
		return
	}

	// "$$" and any other dollar followed by something unrecognized falls
	// back to a literal dollar sign: no expansion, no reference.
	_ = dollarRange
}

// parseCommandSubstitution parses $(...) by recursing into the ordinary
// statement grammar up to the matching close paren.
func (c *ctx) parseCommandSubstitution() {
	c.extractStatementList(c.stopAtKind(lexer.ParenClose))
	if _, ok := c.lex.NextIfKind(lexer.ParenClose); !ok {
		c.errorf(c.lex.CurrentRange(), "unterminated command substitution")
	}
}

func (c *ctx) resolveDollarName(name string, r protocol.Range) {
	if name == "" {
		return
	}
	if isAllDigits(name) {
		c.resolvePositionalParam(name, r)
		return
	}
	id := c.getOrCreateVariable(name)
	c.info.AddReference(id, r, analysis.Read)
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (c *ctx) resolvePositionalParam(digits string, r protocol.Range) {
	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil || n > maxPositionalParam {
		c.warnf(r, "positional parameter index out of range: "+digits)
		c.info.AddReference(c.errorSymbolID(), r, analysis.Read)
		return
	}

	var id analysis.SymbolId
	switch {
	case n == 0:
		if c.special0 == nil {
			sid := c.info.AddSymbol(analysis.Symbol{Name: "$0", Kind: analysis.KindSpecial, Special: analysis.SpecialArgv0})
			c.special0 = &sid
		}
		id = *c.special0
	default:
		idx := int(n)
		if f := c.inFunction(); f != nil {
			if existing, ok := f.params[idx]; ok {
				id = existing
			} else {
				owner := f.id
				sym := analysis.Symbol{
					Name: "$" + strconv.Itoa(idx), Kind: analysis.KindParameter,
					ParamOwner: &owner, ParamIndex: idx,
				}
				if params := c.info.Function(f.id).Params; idx-1 < len(params) {
					sym.ParamAnn, sym.HasParamAnn = params[idx-1], true
				}
				id = c.info.AddSymbol(sym)
				f.params[idx] = id
			}
		} else if existing, ok := c.scriptParam[idx]; ok {
			id = existing
		} else {
			sym := analysis.Symbol{Name: "$" + strconv.Itoa(idx), Kind: analysis.KindParameter, ParamIndex: idx}
			if idx-1 < len(c.info.ScriptParameters) {
				sym.ParamAnn, sym.HasParamAnn = c.info.ScriptParameters[idx-1], true
			}
			id = c.info.AddSymbol(sym)
			c.scriptParam[idx] = id
		}
	}
	c.info.AddReference(id, r, analysis.Read)
	c.info.Tokens = append(c.info.Tokens, analysis.SemanticToken{Range: r, Type: protocol.TokenTypeParameter})
}
