// Package query answers the LSP requests a Document supports, reading a
// DocumentInfo built by internal/parser. It never mutates the document;
// edits flow through internal/document instead.
package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shellls/shellls/internal/analysis"
	"github.com/shellls/shellls/internal/document"
	"github.com/shellls/shellls/internal/env"
	"github.com/shellls/shellls/internal/protocol"
	"github.com/shellls/shellls/internal/source"
)

// ManLookup and HelpLookup are the hover-text hooks backed by
// internal/external; left nil, hover simply omits that section.
type ManLookup func(name string) (string, bool)
type HelpLookup func(name string) (string, bool)

// Engine answers queries against one open document.
type Engine struct {
	Doc      *document.Document
	URI      protocol.DocumentURI
	PathDirs []string
	Man      ManLookup
	Help     HelpLookup
}

func New(doc *document.Document, uri protocol.DocumentURI) *Engine {
	return &Engine{Doc: doc, URI: uri, PathDirs: env.PathDirectories()}
}

func (e *Engine) info() *analysis.DocumentInfo { return e.Doc.Info }

// referenceAt finds the reference containing pos, scanning backward from the
// first reference starting after pos: when ranges nest, the latest-starting
// (innermost) match wins.
func (e *Engine) referenceAt(pos protocol.Position) (analysis.SymbolReference, bool) {
	refs := e.info().References
	idx := sort.Search(len(refs), func(i int) bool { return pos.Less(refs[i].Range.Start) })
	for i := idx - 1; i >= 0; i-- {
		if refs[i].Range.Contains(pos) {
			return refs[i], true
		}
	}
	return analysis.SymbolReference{}, false
}

// SymbolAt resolves the symbol referenced at pos, if any.
func (e *Engine) SymbolAt(pos protocol.Position) (analysis.SymbolId, bool) {
	ref, ok := e.referenceAt(pos)
	if !ok {
		return 0, false
	}
	return ref.SymbolID, true
}

// FindReferences lists every reference to the symbol at pos, including its
// definition unless includeDeclaration is false and the reference is a
// Write at the definition site.
func (e *Engine) FindReferences(pos protocol.Position, includeDeclaration bool) ([]protocol.Location, bool) {
	id, ok := e.SymbolAt(pos)
	if !ok {
		return nil, false
	}
	sym := e.info().Symbol(id)
	var locs []protocol.Location
	for _, idx := range sym.RefIndices {
		ref := e.info().References[idx]
		if !includeDeclaration && ref.Kind == analysis.Write && idx == firstIndex(sym.RefIndices) {
			continue
		}
		locs = append(locs, protocol.Location{URI: e.URI, Range: ref.Range})
	}
	return locs, true
}

func firstIndex(indices []uint32) uint32 {
	if len(indices) == 0 {
		return 0
	}
	return indices[0]
}

// DocumentHighlights reports every occurrence of the symbol at pos within
// this document, tagged Read/Write for the client's highlight rendering.
func (e *Engine) DocumentHighlights(pos protocol.Position) ([]protocol.DocumentHighlight, bool) {
	id, ok := e.SymbolAt(pos)
	if !ok {
		return nil, false
	}
	sym := e.info().Symbol(id)
	out := make([]protocol.DocumentHighlight, 0, len(sym.RefIndices))
	for _, idx := range sym.RefIndices {
		ref := e.info().References[idx]
		kind := protocol.HighlightRead
		if ref.Kind == analysis.Write {
			kind = protocol.HighlightWrite
		}
		out = append(out, protocol.DocumentHighlight{Range: ref.Range, Kind: kind})
	}
	return out, true
}

// Definition resolves go-to-definition for the symbol at pos.
func (e *Engine) Definition(pos protocol.Position) (protocol.Location, bool) {
	id, ok := e.SymbolAt(pos)
	if !ok {
		return protocol.Location{}, false
	}
	sym := e.info().Symbol(id)
	switch sym.Kind {
	case analysis.KindVariable, analysis.KindFunction:
		for _, idx := range sym.RefIndices {
			ref := e.info().References[idx]
			if ref.Kind == analysis.Write {
				return protocol.Location{URI: e.URI, Range: ref.Range}, true
			}
		}
		return protocol.Location{}, false
	case analysis.KindCommand:
		for _, dir := range e.PathDirs {
			path, found := env.FindExecutable(sym.Name, dir)
			if !found {
				continue
			}
			if !env.IsScript(path) {
				// The first match in PATH order is what the shell runs; a
				// non-script there has no source to jump to.
				return protocol.Location{}, false
			}
			uri, err := protocol.ParseDocumentURI("file://" + path)
			if err != nil {
				continue
			}
			return protocol.Location{URI: uri, Range: protocol.Range{}}, true
		}
		return protocol.Location{}, false
	case analysis.KindParameter:
		if !sym.HasParamAnn {
			return protocol.Location{}, false
		}
		return protocol.Location{URI: e.URI, Range: source.RangeOf(e.Doc.Text, sym.ParamAnn.View())}, true
	default:
		return protocol.Location{}, false
	}
}

// Rename builds a WorkspaceEdit renaming every reference of the symbol at
// pos to newName. Existence of any reference is all that's required for a
// symbol to be renameable.
func (e *Engine) Rename(pos protocol.Position, newName string) (protocol.WorkspaceEdit, bool) {
	id, ok := e.SymbolAt(pos)
	if !ok {
		return protocol.WorkspaceEdit{}, false
	}
	sym := e.info().Symbol(id)
	if len(sym.RefIndices) == 0 {
		return protocol.WorkspaceEdit{}, false
	}
	edits := make([]protocol.TextEdit, 0, len(sym.RefIndices))
	for _, idx := range sym.RefIndices {
		ref := e.info().References[idx]
		edits = append(edits, protocol.TextEdit{Range: ref.Range, NewText: newName})
	}
	return protocol.WorkspaceEdit{Changes: map[string][]protocol.TextEdit{e.URI.String(): edits}}, true
}

// completionMode distinguishes the two prefix contexts a cursor can sit in.
type completionMode int

const (
	modeFunction completionMode = iota
	modeVariable
)

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// completionContext scans the text of line backward from column (a byte
// offset into line) to find the prefix being typed and the mode it implies:
// a preceding $ or { means variable mode, any other non-word byte means
// function mode.
func completionContext(line string, column int) (prefix string, start int, mode completionMode) {
	i := column
	for i > 0 && isWordByte(line[i-1]) {
		i--
	}
	prefix = line[i:column]
	start = i
	mode = modeFunction
	if i > 0 && (line[i-1] == '$' || line[i-1] == '{') {
		mode = modeVariable
	}
	return prefix, start, mode
}

// Completion implements textDocument/completion.
func (e *Engine) Completion(pos protocol.Position) protocol.CompletionList {
	line := lineAt(e.Doc.Text, pos.Line)
	column := int(pos.Character)
	if column > len(line) {
		column = len(line)
	}
	prefix, start, mode := completionContext(line, column)

	editStart := protocol.Position{Line: pos.Line, Character: uint32(start)}
	editRange := protocol.Range{Start: editStart, End: pos}

	var items []protocol.CompletionItem
	for _, sym := range e.info().Symbols {
		if !strings.HasPrefix(sym.Name, prefix) {
			continue
		}
		kind, ok := completionKindFor(sym.Kind, mode)
		if !ok {
			continue
		}
		items = append(items, protocol.CompletionItem{
			Label:    sym.Name,
			Kind:     kind,
			TextEdit: &protocol.TextEdit{Range: editRange, NewText: sym.Name},
		})
	}
	return protocol.CompletionList{IsIncomplete: false, Items: items}
}

func completionKindFor(k analysis.Kind, mode completionMode) (protocol.CompletionItemKind, bool) {
	switch mode {
	case modeVariable:
		if k == analysis.KindVariable || k == analysis.KindSpecial || k == analysis.KindParameter {
			return protocol.CompletionKindVariable, true
		}
	case modeFunction:
		switch k {
		case analysis.KindFunction:
			return protocol.CompletionKindFunction, true
		case analysis.KindCommand, analysis.KindBuiltin:
			return protocol.CompletionKindClass, true
		}
	}
	return 0, false
}

func lineAt(text string, line uint32) string {
	start := 0
	cur := uint32(0)
	for i := 0; i < len(text); i++ {
		if cur == line {
			start = i
			break
		}
		if text[i] == '\n' {
			cur++
		}
	}
	if cur != line {
		return ""
	}
	end := strings.IndexByte(text[start:], '\n')
	if end < 0 {
		return text[start:]
	}
	return text[start : start+end]
}

// DocumentSymbols lists Function and Variable symbols with a definition
// range, sorted by start line.
func (e *Engine) DocumentSymbols() []protocol.DocumentSymbol {
	var out []protocol.DocumentSymbol
	for _, sym := range e.info().Symbols {
		switch sym.Kind {
		case analysis.KindFunction:
			finfo := e.info().Function(sym.FunctionID)
			out = append(out, protocol.DocumentSymbol{
				Name: sym.Name, Kind: protocol.LSPSymbolFunction,
				Range: finfo.DefRange, SelectionRange: finfo.DefRange,
			})
		case analysis.KindVariable:
			vinfo := e.info().Variable(sym.VariableID)
			if !vinfo.HasFirstAssignment {
				continue
			}
			out = append(out, protocol.DocumentSymbol{
				Name: sym.Name, Kind: protocol.LSPSymbolVariable,
				Range: vinfo.FirstAssignment, SelectionRange: vinfo.FirstAssignment,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Range.Start.Less(out[j].Range.Start)
	})
	return out
}

// Hover renders hover markdown for the symbol at pos.
func (e *Engine) Hover(pos protocol.Position) (protocol.Hover, bool) {
	id, ok := e.SymbolAt(pos)
	if !ok {
		return protocol.Hover{}, false
	}
	sym := e.info().Symbol(id)
	var b strings.Builder
	switch sym.Kind {
	case analysis.KindVariable:
		e.hoverVariable(&b, sym)
	case analysis.KindFunction:
		e.hoverFunction(&b, sym)
	case analysis.KindCommand:
		e.hoverCommand(&b, sym)
	case analysis.KindBuiltin:
		e.hoverBuiltin(&b, sym)
	case analysis.KindParameter:
		e.hoverParameter(&b, sym)
	case analysis.KindSpecial:
		fmt.Fprintf(&b, "**%s** — special shell parameter\n", sym.Name)
	case analysis.KindError:
		b.WriteString("unresolved positional parameter")
	}
	return protocol.Hover{Contents: protocol.MarkupContent{Kind: protocol.MarkupMarkdown, Value: b.String()}}, true
}

func (e *Engine) hoverVariable(b *strings.Builder, sym *analysis.Symbol) {
	vinfo := e.info().Variable(sym.VariableID)
	fmt.Fprintf(b, "**%s** — %s variable\n", sym.Name, scopeName(vinfo.Scope))
	if vinfo.Description != "" {
		fmt.Fprintf(b, "\n%s\n", vinfo.Description)
	}
	if vinfo.HasFirstAssignment {
		fmt.Fprintf(b, "\nFirst assignment: `%s`\n", snippet(e.Doc.Text, vinfo.FirstAssignment))
	}
}

func (e *Engine) hoverFunction(b *strings.Builder, sym *analysis.Symbol) {
	finfo := e.info().Function(sym.FunctionID)
	fmt.Fprintf(b, "**%s()** — function\n", sym.Name)
	if finfo.Description != "" {
		fmt.Fprintf(b, "\n%s\n", finfo.Description)
	}
	if len(finfo.Params) > 0 {
		b.WriteString("\n**Parameters:**\n")
		for i, p := range finfo.Params {
			fmt.Fprintf(b, "- `$%d`: %s\n", i+1, p.Resolve(e.Doc.Text))
		}
	}
	annotationSection(b, "Exit status", finfo.Exit, finfo.HasExit, e.Doc.Text)
	annotationSection(b, "Stdin", finfo.Stdin, finfo.HasStdin, e.Doc.Text)
	annotationSection(b, "Stdout", finfo.Stdout, finfo.HasStdout, e.Doc.Text)
	annotationSection(b, "Stderr", finfo.Stderr, finfo.HasStderr, e.Doc.Text)
}

func annotationSection(b *strings.Builder, title string, a source.Annotation, has bool, text string) {
	if !has {
		return
	}
	fmt.Fprintf(b, "\n**%s:** %s\n", title, a.Resolve(text))
}

func (e *Engine) hoverCommand(b *strings.Builder, sym *analysis.Symbol) {
	fmt.Fprintf(b, "**%s** — external command\n", sym.Name)
	if e.Man != nil {
		if text, ok := e.Man(sym.Name); ok {
			fmt.Fprintf(b, "\n```\n%s\n```\n", text)
		}
	}
}

func (e *Engine) hoverBuiltin(b *strings.Builder, sym *analysis.Symbol) {
	fmt.Fprintf(b, "**%s** — shell builtin\n", sym.Name)
	if e.Help != nil {
		if text, ok := e.Help(sym.Name); ok {
			fmt.Fprintf(b, "\n```\n%s\n```\n", text)
		}
	}
}

func (e *Engine) hoverParameter(b *strings.Builder, sym *analysis.Symbol) {
	scope := "script"
	if sym.ParamOwner != nil {
		scope = "function"
	}
	fmt.Fprintf(b, "**$%d** — %s-scoped positional parameter\n", sym.ParamIndex, scope)
	if sym.HasParamAnn {
		fmt.Fprintf(b, "\n%s\n", sym.ParamAnn.Resolve(e.Doc.Text))
	}
}

func scopeName(s analysis.VariableScope) string {
	switch s {
	case analysis.ScopeLocal:
		return "local"
	case analysis.ScopeEnvironment:
		return "environment"
	default:
		return "global"
	}
}

func snippet(text string, r protocol.Range) string {
	line := lineAt(text, r.Start.Line)
	return strings.TrimSpace(line)
}

// SemanticTokens delta-encodes info.Tokens per the LSP wire format: five
// integers per token, Δline/Δchar against the previous token's start.
func (e *Engine) SemanticTokens() protocol.SemanticTokens {
	tokens := append([]analysis.SemanticToken(nil), e.info().Tokens...)
	sort.SliceStable(tokens, func(i, j int) bool {
		return tokens[i].Range.Start.Less(tokens[j].Range.Start)
	})

	data := make([]uint32, 0, len(tokens)*5)
	var prevLine, prevChar uint32
	for _, t := range tokens {
		start := t.Range.Start
		deltaLine := start.Line - prevLine
		deltaChar := start.Character
		if deltaLine == 0 {
			deltaChar = start.Character - prevChar
		}
		width := start.Character
		if end := t.Range.End; end.Line == start.Line {
			width = end.Character - start.Character
		}
		data = append(data, deltaLine, deltaChar, width, uint32(t.Type), uint32(t.Modifiers))
		prevLine, prevChar = start.Line, start.Character
	}
	return protocol.SemanticTokens{Data: data}
}

// InlayHints emits a "${n}:" label at each parameter annotation position
// within rng, for both function-scoped and script-level parameters.
func (e *Engine) InlayHints(rng protocol.Range) []protocol.InlayHint {
	var hints []protocol.InlayHint
	emit := func(idx int, a source.Annotation) {
		r := source.RangeOf(e.Doc.Text, a.View())
		if !rng.Overlaps(r) {
			return
		}
		hints = append(hints, protocol.InlayHint{Position: r.Start, Label: "$" + strconv.Itoa(idx+1) + ":"})
	}
	for _, finfo := range e.info().Functions {
		for i, p := range finfo.Params {
			emit(i, p)
		}
	}
	for i, p := range e.info().ScriptParameters {
		emit(i, p)
	}
	return hints
}

// CodeActions returns every stored Action overlapping rng, plus an
// "Insert full command path" action when rng touches a Command read.
func (e *Engine) CodeActions(rng protocol.Range) []protocol.CodeAction {
	var out []protocol.CodeAction
	for _, a := range e.info().Actions {
		if !rng.Overlaps(a.Range) {
			continue
		}
		out = append(out, protocol.CodeAction{
			Title: a.Title,
			Edit:  protocol.WorkspaceEdit{Changes: map[string][]protocol.TextEdit{e.URI.String(): a.Edits}},
		})
	}
	if ref, ok := e.referenceAt(rng.Start); ok {
		sym := e.info().Symbol(ref.SymbolID)
		if sym.Kind == analysis.KindCommand {
			for _, dir := range e.PathDirs {
				if path, found := env.FindExecutable(sym.Name, dir); found {
					out = append(out, protocol.CodeAction{
						Title: "Insert full command path",
						Edit: protocol.WorkspaceEdit{Changes: map[string][]protocol.TextEdit{
							e.URI.String(): {{Range: ref.Range, NewText: path}},
						}},
					})
					break
				}
			}
		}
	}
	return out
}
