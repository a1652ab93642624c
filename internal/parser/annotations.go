package parser

import (
	"unicode/utf8"

	"github.com/shellls/shellls/internal/analysis"
	"github.com/shellls/shellls/internal/lexer"
	"github.com/shellls/shellls/internal/protocol"
	"github.com/shellls/shellls/internal/source"
)

// documentationToken marks an annotation argument's range with the
// Documentation semantic-token modifier.
func documentationToken(r protocol.Range) analysis.SemanticToken {
	return analysis.SemanticToken{Range: r, Type: protocol.TokenTypeString, Modifiers: protocol.ModifierDocumentation}
}

// scanComment mines a `##@ DIR ARG…` structured comment into the
// pending-annotation buffer, consumed by the next symbol definition. Any
// comment that isn't shaped like `##@ ...` is left alone.
func (c *ctx) scanComment(t lexer.Token) {
	raw := t.String(c.text)

	i := 0
	for i < len(raw) && raw[i] == '#' {
		i++
	}
	if i < 2 || i >= len(raw) || raw[i] != '@' {
		return
	}
	i++
	for i < len(raw) && raw[i] == ' ' {
		i++
	}

	dirStart := i
	for i < len(raw) && raw[i] != ' ' && raw[i] != '\t' {
		i++
	}
	directive := raw[dirStart:i]
	if directive == "" {
		c.warnf(t.Range, "empty annotation directive")
		return
	}

	for i < len(raw) && (raw[i] == ' ' || raw[i] == '\t') {
		i++
	}
	argEnd := len(raw)
	for argEnd > i && (raw[argEnd-1] == ' ' || raw[argEnd-1] == '\t' || raw[argEnd-1] == '\r') {
		argEnd--
	}
	argStart := i

	text := raw[argStart:argEnd]
	view := source.View{Start: t.View.Start + uint32(argStart), End: t.View.Start + uint32(argEnd)}
	// A comment never spans lines, so the argument's range is the comment's
	// line with its columns narrowed to [argStart, argEnd).
	argRange := t.Range
	argRange.Start.Character += uint32(utf8.RuneCountInString(raw[:argStart]))
	argRange.End = argRange.Start
	argRange.End.Character += uint32(utf8.RuneCountInString(text))

	switch directive {
	case "desc":
		if c.pending.hasDesc {
			c.pending.description += "\n" + text
		} else {
			c.pending.description, c.pending.hasDesc = text, true
		}
		c.info.Tokens = append(c.info.Tokens, documentationToken(argRange))
	case "param":
		c.pending.params = append(c.pending.params, source.ViewAnnotation(view))
		c.info.Tokens = append(c.info.Tokens, documentationToken(argRange))
	case "script":
		c.info.ScriptParameters = c.pending.params
		c.info.HasScriptParameters = true
		c.pending.params = nil
	case "exit":
		c.pending.exit, c.pending.hasExit = text, true
		c.info.Tokens = append(c.info.Tokens, documentationToken(argRange))
	case "stdin":
		c.pending.stdin, c.pending.hasStdin = text, true
		c.info.Tokens = append(c.info.Tokens, documentationToken(argRange))
	case "stdout":
		c.pending.stdout, c.pending.hasStdout = text, true
		c.info.Tokens = append(c.info.Tokens, documentationToken(argRange))
	case "stderr":
		c.pending.stderr, c.pending.hasStderr = text, true
		c.info.Tokens = append(c.info.Tokens, documentationToken(argRange))
	default:
		c.warnf(t.Range, "unknown annotation directive: "+directive)
	}
}
