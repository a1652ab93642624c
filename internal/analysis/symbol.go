// Package analysis holds the semantic index a document's source text is
// analyzed into: symbols, references, diagnostics, semantic
// tokens, and code actions. The parser (internal/parser) builds a
// DocumentInfo; the query engine (internal/query) reads one.
package analysis

import (
	"sort"

	"github.com/shellls/shellls/internal/protocol"
	"github.com/shellls/shellls/internal/shellkind"
	"github.com/shellls/shellls/internal/source"
)

// Kind classifies a Symbol. The set is closed and switched exhaustively.
type Kind int

const (
	KindVariable Kind = iota
	KindFunction
	KindCommand
	KindBuiltin
	KindParameter
	KindSpecial
	KindError
)

// VariableScope distinguishes where a variable's value comes from.
type VariableScope int

const (
	ScopeGlobal VariableScope = iota
	ScopeLocal
	ScopeEnvironment
)

// SpecialKind enumerates the recognized positional/special parameters that
// are not regular numbered parameters.
type SpecialKind int

const (
	SpecialArgv0  SpecialKind = iota // $0
	SpecialStatus                    // $?
	SpecialAt                        // $@
	SpecialStar                      // $*
	SpecialDash                      // $-
)

// SymbolId, FunctionId, and VariableId are stable indices into a
// DocumentInfo's append-only Symbols/Functions/Variables slices.
type SymbolId uint32
type FunctionId uint32
type VariableId uint32

// Symbol is a named entity in the document. Kind-specific data that would
// otherwise bloat every Symbol lives in side tables (FunctionInfo,
// VariableInfo) keyed by the typed ids below.
type Symbol struct {
	Name       string
	Kind       Kind
	RefIndices []uint32

	FunctionID FunctionId // valid when Kind == KindFunction
	VariableID VariableId // valid when Kind == KindVariable

	// Parameter payload.
	ParamOwner  *FunctionId // nil => script-level parameter
	ParamIndex  int         // 1-based index, or 0 for $0
	ParamAnn    source.Annotation
	HasParamAnn bool

	Special SpecialKind // valid when Kind == KindSpecial
}

// FunctionInfo is the side table entry for a KindFunction symbol.
type FunctionInfo struct {
	Description string
	DefRange    protocol.Range
	Params      []source.Annotation // ordered ##@ param annotations

	Exit, Stdin, Stdout, Stderr              source.Annotation
	HasExit, HasStdin, HasStdout, HasStderr bool
}

// VariableInfo is the side table entry for a KindVariable symbol.
type VariableInfo struct {
	Scope              VariableScope
	Description        string
	FirstAssignment    protocol.Range
	HasFirstAssignment bool
}

// ReferenceKind tags whether an occurrence reads or writes its symbol.
type ReferenceKind int

const (
	Read ReferenceKind = iota
	Write
)

// SymbolReference is one textual occurrence of a symbol.
type SymbolReference struct {
	Range    protocol.Range
	Kind     ReferenceKind
	SymbolID SymbolId
}

// Action is a positioned code action: a ready WorkspaceEdit plus a title.
type Action struct {
	Title string
	Range protocol.Range
	Edits []protocol.TextEdit
}

// SemanticToken is one entry of a document's token stream, prior to delta
// encoding for the wire (internal/query does that encoding).
type SemanticToken struct {
	Range     protocol.Range
	Type      protocol.SemanticTokenType
	Modifiers protocol.SemanticTokenModifier
}

// DocumentInfo is the full semantic index produced by parsing a document.
type DocumentInfo struct {
	Diagnostics []protocol.Diagnostic
	References  []SymbolReference
	Symbols     []Symbol
	Functions   []FunctionInfo
	Variables   []VariableInfo
	Actions     []Action
	Tokens      []SemanticToken
	Shell       shellkind.Shell

	ScriptParameters    []source.Annotation
	HasScriptParameters bool
}

// AddSymbol appends a symbol and returns its stable id.
func (info *DocumentInfo) AddSymbol(s Symbol) SymbolId {
	info.Symbols = append(info.Symbols, s)
	return SymbolId(len(info.Symbols) - 1)
}

// AddFunction appends a function's side-table entry and returns its id.
func (info *DocumentInfo) AddFunction(f FunctionInfo) FunctionId {
	info.Functions = append(info.Functions, f)
	return FunctionId(len(info.Functions) - 1)
}

// AddVariable appends a variable's side-table entry and returns its id.
func (info *DocumentInfo) AddVariable(v VariableInfo) VariableId {
	info.Variables = append(info.Variables, v)
	return VariableId(len(info.Variables) - 1)
}

// Symbol resolves an id to its Symbol.
func (info *DocumentInfo) Symbol(id SymbolId) *Symbol {
	return &info.Symbols[id]
}

// Function resolves a function id to its side-table entry.
func (info *DocumentInfo) Function(id FunctionId) *FunctionInfo {
	return &info.Functions[id]
}

// Variable resolves a variable id to its side-table entry.
func (info *DocumentInfo) Variable(id VariableId) *VariableInfo {
	return &info.Variables[id]
}

// AddReference appends a reference to id to References. It does not touch
// the symbol's RefIndices, and References are NOT kept sorted during
// construction; both are established once, by FinalizeReferences.
func (info *DocumentInfo) AddReference(id SymbolId, r protocol.Range, kind ReferenceKind) {
	info.References = append(info.References, SymbolReference{Range: r, Kind: kind, SymbolID: id})
}

// FinalizeReferences sorts References by Range.Start and rebuilds every
// Symbol's RefIndices to match.
func (info *DocumentInfo) FinalizeReferences() {
	sortReferences(info.References)
	for i := range info.Symbols {
		info.Symbols[i].RefIndices = info.Symbols[i].RefIndices[:0]
	}
	for i, ref := range info.References {
		sym := &info.Symbols[ref.SymbolID]
		sym.RefIndices = append(sym.RefIndices, uint32(i))
	}
}

func sortReferences(refs []SymbolReference) {
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Range.Start.Less(refs[j].Range.Start)
	})
}
