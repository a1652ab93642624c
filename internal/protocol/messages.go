package protocol

// This file holds the request/notification parameter and result shapes the
// dispatcher (internal/server) unmarshals from and marshals to JSON. Field
// names mirror the standard LSP camelCase wire format exactly.

// TextDocumentIdentifier names an already-open document.
type TextDocumentIdentifier struct {
	URI DocumentURI `json:"uri"`
}

// VersionedTextDocumentIdentifier additionally carries the document version.
type VersionedTextDocumentIdentifier struct {
	URI     DocumentURI `json:"uri"`
	Version int         `json:"version"`
}

// TextDocumentItem is the full payload of a newly opened document.
type TextDocumentItem struct {
	URI        DocumentURI `json:"uri"`
	LanguageID string      `json:"languageId"`
	Version    int         `json:"version"`
	Text       string      `json:"text"`
}

// TextDocumentContentChangeEvent is one edit in a didChange notification.
// Range is absent for whole-document replacement.
type TextDocumentContentChangeEvent struct {
	Range *Range `json:"range,omitempty"`
	Text  string `json:"text"`
}

// TextDocumentPositionParams is the common shape shared by hover,
// definition, references (minus context), and similar position queries.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// DidOpenTextDocumentParams is textDocument/didOpen's payload.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// DidChangeTextDocumentParams is textDocument/didChange's payload.
type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// DidCloseTextDocumentParams is textDocument/didClose's payload.
type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// ReferenceContext controls whether the declaration itself is included.
type ReferenceContext struct {
	IncludeDeclaration bool `json:"includeDeclaration"`
}

// ReferenceParams is textDocument/references' payload.
type ReferenceParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
	Context      ReferenceContext       `json:"context"`
}

// RenameParams is textDocument/rename's payload.
type RenameParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
	NewName      string                 `json:"newName"`
}

// DocumentHighlightKind distinguishes read/write highlight entries.
type DocumentHighlightKind int

const (
	HighlightText  DocumentHighlightKind = 1
	HighlightRead  DocumentHighlightKind = 2
	HighlightWrite DocumentHighlightKind = 3
)

// DocumentHighlight is one entry of a textDocument/documentHighlight result.
type DocumentHighlight struct {
	Range Range                 `json:"range"`
	Kind  DocumentHighlightKind `json:"kind,omitempty"`
}

// MarkupKind selects plaintext vs. markdown rendering for hover contents.
type MarkupKind string

const (
	MarkupPlainText MarkupKind = "plaintext"
	MarkupMarkdown  MarkupKind = "markdown"
)

// MarkupContent is a rendered documentation blob.
type MarkupContent struct {
	Kind  MarkupKind `json:"kind"`
	Value string     `json:"value"`
}

// Hover is textDocument/hover's result.
type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

// TextEdit replaces the text in Range with NewText.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// WorkspaceEdit maps each affected document to its edits, keyed by URI
// string (LSP requires map keys to be the raw URI text).
type WorkspaceEdit struct {
	Changes map[string][]TextEdit `json:"changes"`
}

// CompletionItemKind mirrors the LSP CompletionItemKind enum, restricted to
// the kinds this server emits.
type CompletionItemKind int

const (
	CompletionKindText     CompletionItemKind = 1
	CompletionKindFunction CompletionItemKind = 3
	CompletionKindVariable CompletionItemKind = 6
	CompletionKindClass    CompletionItemKind = 7
	CompletionKindSnippet  CompletionItemKind = 15
)

// CompletionItem is one entry of a textDocument/completion result.
type CompletionItem struct {
	Label         string             `json:"label"`
	Kind          CompletionItemKind `json:"kind"`
	Detail        string             `json:"detail,omitempty"`
	Documentation *MarkupContent     `json:"documentation,omitempty"`
	TextEdit      *TextEdit          `json:"textEdit,omitempty"`
	SortText      string             `json:"sortText,omitempty"`
}

// CompletionList is textDocument/completion's result.
type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

// SymbolKind mirrors the LSP SymbolKind enum, restricted to what this
// server's document-symbol and workspace-symbol results can produce.
type SymbolKind int

const (
	LSPSymbolFunction SymbolKind = 12
	LSPSymbolVariable SymbolKind = 13
)

// DocumentSymbol is one entry of a textDocument/documentSymbol result.
type DocumentSymbol struct {
	Name           string     `json:"name"`
	Detail         string     `json:"detail,omitempty"`
	Kind           SymbolKind `json:"kind"`
	Range          Range      `json:"range"`
	SelectionRange Range      `json:"selectionRange"`
}

// FormattingOptions is the client's requested indentation style.
type FormattingOptions struct {
	TabSize      int  `json:"tabSize"`
	InsertSpaces bool `json:"insertSpaces"`
}

// DocumentFormattingParams is textDocument/formatting's payload.
type DocumentFormattingParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Options      FormattingOptions      `json:"options"`
}

// DocumentRangeFormattingParams is textDocument/rangeFormatting's payload.
type DocumentRangeFormattingParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Range        Range                  `json:"range"`
	Options      FormattingOptions      `json:"options"`
}

// SemanticTokenType indexes into the legend advertised at initialize.
type SemanticTokenType int

const (
	TokenTypeKeyword   SemanticTokenType = 0
	TokenTypeParameter SemanticTokenType = 1
	TokenTypeString    SemanticTokenType = 2
)

// SemanticTokenModifier is a bitmask indexing into the modifier legend.
type SemanticTokenModifier int

const (
	ModifierNone          SemanticTokenModifier = 0
	ModifierDocumentation SemanticTokenModifier = 1 << 0
)

// SemanticTokensParams is textDocument/semanticTokens/full's payload.
type SemanticTokensParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// SemanticTokens is the delta-encoded result.
type SemanticTokens struct {
	Data []uint32 `json:"data"`
}

// InlayHintParams is textDocument/inlayHint's payload.
type InlayHintParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Range        Range                  `json:"range"`
}

// InlayHint is one label anchored at a position.
type InlayHint struct {
	Position Position `json:"position"`
	Label    string   `json:"label"`
}

// CodeActionParams is textDocument/codeAction's payload.
type CodeActionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Range        Range                  `json:"range"`
}

// CodeAction is one entry of a textDocument/codeAction result, always
// carrying a ready-to-apply WorkspaceEdit (this server never defers to
// codeAction/resolve).
type CodeAction struct {
	Title string        `json:"title"`
	Edit  WorkspaceEdit `json:"edit"`
}

// PublishDiagnosticsParams is the payload of the textDocument/publishDiagnostics
// notification sent FROM the server to the client.
type PublishDiagnosticsParams struct {
	URI         DocumentURI  `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}
