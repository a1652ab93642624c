package protocol

import "encoding/json"

// InitializeParams is the initialize request's payload. Only the fields this
// server consults are modeled; everything else is ignored, per LSP
// convention for forward compatibility.
type InitializeParams struct {
	RootURI             *DocumentURI    `json:"rootUri,omitempty"`
	InitializationOptions json.RawMessage `json:"initializationOptions,omitempty"`
}

// ServerInfo names this implementation in the initialize response.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// TextDocumentSyncKind selects how document changes are communicated.
type TextDocumentSyncKind int

const (
	SyncNone TextDocumentSyncKind = 0
	SyncFull TextDocumentSyncKind = 1
)

// CompletionOptions advertises trigger characters for completion.
type CompletionOptions struct {
	TriggerCharacters []string `json:"triggerCharacters,omitempty"`
}

// SemanticTokensLegend advertises the fixed token type/modifier vocabulary:
// keyword, parameter, string / documentation.
type SemanticTokensLegend struct {
	TokenTypes     []string `json:"tokenTypes"`
	TokenModifiers []string `json:"tokenModifiers"`
}

// SemanticTokensOptions advertises full-document semantic tokens support.
type SemanticTokensOptions struct {
	Legend SemanticTokensLegend `json:"legend"`
	Full   bool                 `json:"full"`
}

// ServerCapabilities is the capability set returned from initialize. A
// capability disabled by configuration or by a missing external tool is not
// advertised: a boolean field carries no omitempty and is sent as false, and
// a nil options pointer is omitted.
type ServerCapabilities struct {
	TextDocumentSync                TextDocumentSyncKind   `json:"textDocumentSync"`
	HoverProvider                   bool                   `json:"hoverProvider"`
	DefinitionProvider               bool                  `json:"definitionProvider"`
	ReferencesProvider               bool                  `json:"referencesProvider"`
	DocumentHighlightProvider        bool                  `json:"documentHighlightProvider"`
	RenameProvider                   bool                  `json:"renameProvider"`
	DocumentSymbolProvider           bool                  `json:"documentSymbolProvider"`
	CompletionProvider               *CompletionOptions    `json:"completionProvider,omitempty"`
	SemanticTokensProvider           *SemanticTokensOptions `json:"semanticTokensProvider,omitempty"`
	InlayHintProvider                bool                  `json:"inlayHintProvider"`
	CodeActionProvider               bool                  `json:"codeActionProvider"`
	DocumentFormattingProvider       bool                  `json:"documentFormattingProvider"`
	DocumentRangeFormattingProvider  bool                  `json:"documentRangeFormattingProvider"`
}

// InitializeResult is the initialize response's payload.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   ServerInfo         `json:"serverInfo"`
}
