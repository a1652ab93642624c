package parser

import (
	"github.com/shellls/shellls/internal/analysis"
	"github.com/shellls/shellls/internal/lexer"
	"github.com/shellls/shellls/internal/protocol"
	"github.com/shellls/shellls/internal/source"
)

// stopFn reports whether the lexer has reached the boundary a statement
// list is parsing up to (a keyword like "fi"/"done", a closing paren, or
// end of input). It peeks only, never consumes.
type stopFn func() bool

func (c *ctx) stopAtEOF() stopFn {
	return func() bool {
		_, ok := c.lex.Peek()
		return !ok
	}
}

func (c *ctx) stopAtKind(k lexer.Kind) stopFn {
	return func() bool {
		t, ok := c.lex.Peek()
		return !ok || t.Kind == k
	}
}

func (c *ctx) stopAtWords(words ...string) stopFn {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return func() bool {
		t, ok := c.lex.Peek()
		if !ok {
			return true
		}
		return t.Kind == lexer.Word && set[t.String(c.text)]
	}
}

// extractStatementList parses statements until stop reports true.
func (c *ctx) extractStatementList(stop stopFn) {
	for !stop() {
		if !c.extractStatement(stop) {
			break
		}
	}
}

// extractStatement skips leading separators/comments, then parses exactly
// one statement. Returns false if stop was reached without finding one.
func (c *ctx) extractStatement(stop stopFn) bool {
	for {
		if stop() {
			return false
		}
		t, ok := c.lex.Peek()
		if !ok {
			return false
		}
		switch t.Kind {
		case lexer.Space:
			c.lex.Next()
			continue
		case lexer.NewLine, lexer.Semi, lexer.SemiSemi:
			// A blank separator between a `##@` comment and the statement it
			// documents must not discard the pending annotation - only a
			// fully-parsed statement (below) does that.
			c.lex.Next()
			continue
		case lexer.Comment:
			c.lex.Next()
			c.scanComment(t)
			continue
		}
		break
	}
	if stop() {
		return false
	}
	c.extractCommand(stop)
	c.pending.clear()
	return true
}

func (c *ctx) skipSpace() {
	for {
		if _, ok := c.lex.NextIfKind(lexer.Space); !ok {
			return
		}
	}
}

func (c *ctx) skipSpaceAndNewlines() {
	for {
		t, ok := c.lex.Peek()
		if !ok {
			return
		}
		switch t.Kind {
		case lexer.Space, lexer.NewLine:
			c.lex.Next()
		case lexer.Comment:
			c.lex.Next()
			c.scanComment(t)
		default:
			return
		}
	}
}

func (c *ctx) skipToStatementEnd(stop stopFn) {
	for {
		if stop() {
			return
		}
		t, ok := c.lex.Peek()
		if !ok {
			return
		}
		if t.Kind == lexer.NewLine || t.Kind == lexer.Semi || t.Kind == lexer.SemiSemi {
			return
		}
		c.lex.Next()
	}
}

// consumeWordIf consumes a Word token matching word, skipping leading
// whitespace/newlines/comments first.
func (c *ctx) consumeWordIf(word string) bool {
	c.skipSpaceAndNewlines()
	t, ok := c.lex.Peek()
	if ok && t.Kind == lexer.Word && t.String(c.text) == word {
		c.lex.Next()
		return true
	}
	return false
}

func (c *ctx) peekWordIs(word string) bool {
	c.skipSpaceAndNewlines()
	t, ok := c.lex.Peek()
	return ok && t.Kind == lexer.Word && t.String(c.text) == word
}

func (c *ctx) expectWord(word string) {
	if c.consumeWordIf(word) {
		return
	}
	c.errorf(c.lex.CurrentRange(), "expected '"+word+"'")
}

// extractCommand dispatches on the leading word of a statement: a control
// keyword (if/for/while/case), a function definition ("name()"), or an
// ordinary simple command / assignment chain.
func (c *ctx) extractCommand(stop stopFn) {
	t, ok := c.lex.Peek()
	if !ok {
		return
	}
	if t.Kind != lexer.Word {
		c.errorf(t.Range, "expected "+lexer.Word.Show()+", found "+t.Kind.Show())
		c.skipToStatementEnd(stop)
		return
	}
	name := t.String(c.text)
	switch name {
	case "if":
		c.lex.Next()
		c.extractIf()
		return
	case "for":
		c.lex.Next()
		c.extractFor()
		return
	case "while":
		c.lex.Next()
		c.extractWhile()
		return
	case "case":
		c.lex.Next()
		c.extractCase()
		return
	}

	c.lex.Next()
	id := source.Identifier{Name: name, Range: t.Range}
	c.skipSpace()
	if _, ok := c.lex.NextIfKind(lexer.ParenOpen); ok {
		c.skipSpace()
		if _, ok := c.lex.NextIfKind(lexer.ParenClose); ok {
			c.extractFunction(id)
			return
		}
		c.errorf(c.lex.CurrentRange(), "expected a closing parenthesis")
		c.skipToStatementEnd(stop)
		return
	}
	c.extractLineCommand(id)
}

func (c *ctx) extractIf() {
	c.extractStatementList(c.stopAtWords("then"))
	c.expectWord("then")
	c.extractStatementList(c.stopAtWords("elif", "else", "fi"))
	for c.consumeWordIf("elif") {
		c.extractStatementList(c.stopAtWords("then"))
		c.expectWord("then")
		c.extractStatementList(c.stopAtWords("elif", "else", "fi"))
	}
	if c.consumeWordIf("else") {
		c.extractStatementList(c.stopAtWords("fi"))
	}
	c.expectWord("fi")
}

func (c *ctx) extractFor() {
	c.skipSpaceAndNewlines()
	nameTok, ok := c.lex.NextIfKind(lexer.Word)
	if !ok {
		c.errorf(c.lex.CurrentRange(), "expected a name after 'for'")
		return
	}
	name := nameTok.String(c.text)
	vid := c.getOrCreateVariable(name)
	c.info.AddReference(vid, nameTok.Range, analysis.Write)
	c.applyPendingVariableDescription(vid)
	c.recordFirstAssignment(vid, nameTok.Range)

	c.skipSpace()
	if c.consumeWordIf("in") {
		c.skipSpace()
		for c.parseValue() {
			c.skipSpace()
		}
	}
	c.skipSpaceAndNewlines()
	if _, ok := c.lex.NextIfKind(lexer.Semi); ok {
		c.skipSpaceAndNewlines()
	}
	c.expectWord("do")
	c.extractStatementList(c.stopAtWords("done"))
	c.expectWord("done")
}

func (c *ctx) extractWhile() {
	c.extractStatementList(c.stopAtWords("do"))
	c.expectWord("do")
	c.extractStatementList(c.stopAtWords("done"))
	c.expectWord("done")
}

func (c *ctx) extractCase() {
	c.skipSpace()
	c.parseValue()
	c.skipSpaceAndNewlines()
	c.expectWord("in")
	c.skipSpaceAndNewlines()

	caseBody := func() bool {
		t, ok := c.lex.Peek()
		if !ok {
			return true
		}
		if t.Kind == lexer.SemiSemi {
			return true
		}
		return t.Kind == lexer.Word && t.String(c.text) == "esac"
	}

	for !c.peekWordIs("esac") {
		if _, ok := c.lex.Peek(); !ok {
			break
		}
		c.lex.NextIfKind(lexer.ParenOpen) // optional "(pattern)" form
		c.skipSpace()
		for {
			if _, ok := c.lex.NextIfKind(lexer.Word); !ok {
				break
			}
			c.skipSpace()
			if _, ok := c.lex.NextIfKind(lexer.Pipe); ok {
				c.skipSpace()
				continue
			}
			break
		}
		c.skipSpace()
		if _, ok := c.lex.NextIfKind(lexer.ParenClose); !ok {
			c.errorf(c.lex.CurrentRange(), "expected a closing parenthesis")
			c.skipToStatementEnd(c.stopAtWords("esac"))
		}
		c.extractStatementList(caseBody)
		c.lex.NextIfKind(lexer.SemiSemi)
		c.skipSpaceAndNewlines()
	}
	c.expectWord("esac")
}

func (c *ctx) extractFunction(id source.Identifier) {
	c.skipSpaceAndNewlines()
	if _, ok := c.lex.NextIfKind(lexer.BraceOpen); !ok {
		c.errorf(c.lex.CurrentRange(), "expected an opening brace")
		return
	}

	finfo := analysis.FunctionInfo{DefRange: id.Range, Params: c.pending.params}
	if desc, ok := c.pending.takeDescription(); ok {
		finfo.Description = desc
	}
	if c.pending.hasExit {
		finfo.Exit, finfo.HasExit = source.StaticAnnotation(c.pending.exit), true
	}
	if c.pending.hasStdin {
		finfo.Stdin, finfo.HasStdin = source.StaticAnnotation(c.pending.stdin), true
	}
	if c.pending.hasStdout {
		finfo.Stdout, finfo.HasStdout = source.StaticAnnotation(c.pending.stdout), true
	}
	if c.pending.hasStderr {
		finfo.Stderr, finfo.HasStderr = source.StaticAnnotation(c.pending.stderr), true
	}
	c.pending.params = nil

	if prev, ok := c.namespace[id.Name]; ok && c.info.Symbol(prev).Kind == analysis.KindFunction {
		c.warnf(id.Range, "Function redefinition is not yet supported")
	}

	fid := c.info.AddFunction(finfo)
	sid := c.info.AddSymbol(analysis.Symbol{Name: id.Name, Kind: analysis.KindFunction, FunctionID: fid})
	c.namespace[id.Name] = sid
	c.info.AddReference(sid, id.Range, analysis.Write)

	c.pushFunction(fid)
	c.extractStatementList(c.stopAtKind(lexer.BraceClose))
	c.popFunction()

	if _, ok := c.lex.NextIfKind(lexer.BraceClose); !ok {
		c.errorf(c.lex.CurrentRange(), "expected a closing brace")
	}
}

func (c *ctx) applyPendingVariableDescription(vid analysis.SymbolId) {
	desc, ok := c.pending.takeDescription()
	if !ok {
		return
	}
	sym := c.info.Symbol(vid)
	if sym.Kind == analysis.KindVariable {
		c.info.Variable(sym.VariableID).Description = desc
	}
}

func (c *ctx) recordFirstAssignment(vid analysis.SymbolId, r protocol.Range) {
	sym := c.info.Symbol(vid)
	if sym.Kind != analysis.KindVariable {
		return
	}
	vinfo := c.info.Variable(sym.VariableID)
	if !vinfo.HasFirstAssignment {
		vinfo.FirstAssignment = r
		vinfo.HasFirstAssignment = true
	}
}

// extractLineCommand implements the assignments-vs-command disambiguation:
// a leading "name=" is an assignment, chained recursively while further
// "name=" prefixes follow; the first word that isn't one is the command
// itself.
func (c *ctx) extractLineCommand(id source.Identifier) {
	if _, ok := c.lex.NextIfKind(lexer.Equal); ok {
		c.parseValue()
		vid := c.getOrCreateVariable(id.Name)
		c.info.AddReference(vid, id.Range, analysis.Write)
		c.applyPendingVariableDescription(vid)
		c.recordFirstAssignment(vid, id.Range)
		c.skipSpace()
		if t, ok := c.lex.Peek(); ok && t.Kind == lexer.Word {
			c.lex.Next()
			c.skipSpace()
			c.extractLineCommand(source.Identifier{Name: t.String(c.text), Range: t.Range})
			return
		}
		c.extractArgumentsUntilEnd()
		return
	}

	switch id.Name {
	case "export", "readonly":
		c.extractExportReadonly(id)
		return
	case "unset":
		c.extractUnset(id)
		return
	case "local":
		c.extractLocal(id)
		return
	}

	if existing, ok := c.namespace[id.Name]; ok && c.info.Symbol(existing).Kind == analysis.KindBuiltin {
		c.info.AddReference(existing, id.Range, analysis.Read)
		c.info.Tokens = append(c.info.Tokens, analysis.SemanticToken{Range: id.Range, Type: protocol.TokenTypeKeyword})
	} else {
		cid := c.getOrCreateCommand(id.Name)
		c.info.AddReference(cid, id.Range, analysis.Read)
	}
	c.extractArgumentsUntilEnd()
}

func (c *ctx) extractExportReadonly(id source.Identifier) {
	c.info.Tokens = append(c.info.Tokens, analysis.SemanticToken{Range: id.Range, Type: protocol.TokenTypeKeyword})
	first := true
	for {
		c.skipSpace()
		t, ok := c.lex.Peek()
		if !ok || t.Kind != lexer.Word {
			break
		}
		c.lex.Next()
		name := t.String(c.text)
		vid := c.getOrCreateVariable(name)
		hadValue := false
		if _, ok := c.lex.NextIfKind(lexer.Equal); ok {
			c.parseValue()
			hadValue = true
		}
		c.info.AddReference(vid, t.Range, analysis.Write)
		if first {
			c.applyPendingVariableDescription(vid)
			first = false
		}
		if hadValue {
			c.recordFirstAssignment(vid, t.Range)
		}
	}
	c.extractArgumentsUntilEnd()
}

func (c *ctx) extractUnset(id source.Identifier) {
	c.info.Tokens = append(c.info.Tokens, analysis.SemanticToken{Range: id.Range, Type: protocol.TokenTypeKeyword})
	c.skipSpace()
	mode := ""
	if t, ok := c.lex.Peek(); ok && t.Kind == lexer.Word {
		switch t.String(c.text) {
		case "-f":
			mode = "f"
			c.lex.Next()
			c.skipSpace()
		case "-v":
			mode = "v"
			c.lex.Next()
			c.skipSpace()
		}
	}
	for {
		t, ok := c.lex.Peek()
		if !ok || t.Kind != lexer.Word {
			break
		}
		c.lex.Next()
		name := t.String(c.text)
		if mode == "f" {
			if existing, ok := c.namespace[name]; ok {
				c.info.AddReference(existing, t.Range, analysis.Read)
			}
		} else {
			vid := c.getOrCreateVariable(name)
			c.info.AddReference(vid, t.Range, analysis.Read)
		}
		c.skipSpace()
	}
}

func (c *ctx) extractLocal(id source.Identifier) {
	c.info.Tokens = append(c.info.Tokens, analysis.SemanticToken{Range: id.Range, Type: protocol.TokenTypeKeyword})
	if c.inFunction() == nil {
		c.warnf(id.Range, "'local' used outside of a function")
	}
	first := true
	for {
		c.skipSpace()
		t, ok := c.lex.Peek()
		if !ok || t.Kind != lexer.Word {
			break
		}
		c.lex.Next()
		name := t.String(c.text)
		vid := c.defineLocal(name)
		if first {
			c.applyPendingVariableDescription(vid)
			first = false
		}
		hadValue := false
		if _, ok := c.lex.NextIfKind(lexer.Equal); ok {
			c.parseValue()
			hadValue = true
		}
		c.info.AddReference(vid, t.Range, analysis.Write)
		if hadValue {
			c.recordFirstAssignment(vid, t.Range)
		}
	}
}

func (c *ctx) extractArgumentsUntilEnd() {
	for {
		c.skipSpace()
		if c.parseRedirection() {
			continue
		}
		if c.parseValue() {
			continue
		}
		break
	}
}

func (c *ctx) parseRedirection() bool {
	t, ok := c.lex.Peek()
	if !ok {
		return false
	}
	switch t.Kind {
	case lexer.Less, lexer.LessLess, lexer.LessLessDash, lexer.LessAnd, lexer.LessGreat,
		lexer.Great, lexer.GreatGreat, lexer.GreatAnd, lexer.GreatPipe:
		c.lex.Next()
		c.skipSpace()
		c.parseValue()
		return true
	default:
		return false
	}
}
