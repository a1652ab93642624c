package server

import (
	"go.uber.org/zap"

	"github.com/shellls/shellls/internal/config"
	"github.com/shellls/shellls/internal/external"
	"github.com/shellls/shellls/internal/protocol"
	"github.com/shellls/shellls/internal/query"
	"github.com/shellls/shellls/internal/rpc"
	"github.com/shellls/shellls/internal/shellkind"
)

func (s *Server) capabilities() protocol.ServerCapabilities {
	caps := protocol.ServerCapabilities{
		TextDocumentSync:          protocol.SyncFull,
		HoverProvider:             true,
		DefinitionProvider:        true,
		ReferencesProvider:        true,
		DocumentHighlightProvider: true,
		RenameProvider:            true,
		DocumentSymbolProvider:    true,
		CompletionProvider:        &protocol.CompletionOptions{TriggerCharacters: []string{"$", "{"}},
		SemanticTokensProvider: &protocol.SemanticTokensOptions{
			Legend: protocol.SemanticTokensLegend{
				TokenTypes:     []string{"keyword", "parameter", "string"},
				TokenModifiers: []string{"documentation"},
			},
			Full: true,
		},
		InlayHintProvider:  true,
		CodeActionProvider: true,
	}
	if s.shfmtAvailable {
		caps.DocumentFormattingProvider = true
		caps.DocumentRangeFormattingProvider = true
	}
	return caps
}

func (s *Server) handleInitialize(req rpc.Request) {
	var params protocol.InitializeParams
	if !s.unmarshalParams(req, &params) {
		return
	}
	if s.state != Uninitialized {
		s.log.Warn("initialize received outside Uninitialized state")
	} else {
		s.state = Initialized
	}

	if len(params.InitializationOptions) > 0 {
		if parsed, err := config.FromJSON(params.InitializationOptions); err == nil {
			s.settings = parsed
			s.probeIntegrations()
		} else {
			s.log.Warn("invalid initializationOptions", zap.Error(err))
		}
	}

	s.reply(req, protocol.InitializeResult{
		Capabilities: s.capabilities(),
		ServerInfo:   protocol.ServerInfo{Name: "shellls", Version: "0.1.0"},
	}, nil)
}

func (s *Server) handleExit(req rpc.Request) {
	wasShuttingDown := s.state == ShuttingDown
	s.state = Exited
	s.exitedCleanly = wasShuttingDown
}

type didChangeConfigurationParams struct {
	Settings struct {
		Shell config.Settings `json:"shell"`
	} `json:"settings"`
}

func (s *Server) handleDidChangeConfiguration(req rpc.Request) {
	var params didChangeConfigurationParams
	if !s.unmarshalParams(req, &params) {
		return
	}
	s.settings = params.Settings.Shell
	s.probeIntegrations()
}

func (s *Server) handleDidOpen(req rpc.Request) {
	var params protocol.DidOpenTextDocumentParams
	if !s.unmarshalParams(req, &params) {
		return
	}
	s.db.Open(params.TextDocument.URI, params.TextDocument.Text)
	s.publishDiagnostics(params.TextDocument.URI)
}

func (s *Server) handleDidChange(req rpc.Request) {
	var params protocol.DidChangeTextDocumentParams
	if !s.unmarshalParams(req, &params) {
		return
	}
	doc, ok := s.db.Get(params.TextDocument.URI)
	if !ok || len(params.ContentChanges) == 0 {
		return
	}
	// Only the last change is applied: without a range its text replaces the
	// document wholesale (full sync); with a range it is spliced in by Edit.
	last := params.ContentChanges[len(params.ContentChanges)-1]
	if last.Range == nil {
		doc.Text = last.Text
	} else {
		doc.Edit(*last.Range, last.Text)
	}
	doc.Analyze(s.parserSettings())
	s.publishDiagnostics(params.TextDocument.URI)
}

func (s *Server) handleDidClose(req rpc.Request) {
	var params protocol.DidCloseTextDocumentParams
	if !s.unmarshalParams(req, &params) {
		return
	}
	s.db.Close(params.TextDocument.URI)
}

func (s *Server) engineFor(uri protocol.DocumentURI) (*query.Engine, bool) {
	doc, ok := s.db.Get(uri)
	if !ok {
		return nil, false
	}
	e := query.New(doc, uri)
	if len(s.settings.Environment.Path) > 0 {
		e.PathDirs = s.settings.Environment.Path
	}
	if s.manAvailable {
		e.Man = func(name string) (string, bool) {
			return external.Man(doc.Info.Shell, s.manPath, name, s.settings.Integrate.Man.Arguments)
		}
	}
	if s.helpAvailable {
		e.Help = func(name string) (string, bool) {
			return external.Help(doc.Info.Shell, name)
		}
	}
	return e, true
}

func (s *Server) publishDiagnostics(uri protocol.DocumentURI) {
	doc, ok := s.db.Get(uri)
	if !ok {
		return
	}
	diagnostics := append([]protocol.Diagnostic(nil), doc.Info.Diagnostics...)

	shell := doc.Info.Shell
	dialectKnown := shell == shellkind.Posix || shell == shellkind.Bash || shell == shellkind.Ksh
	if s.shellcheckAvailable && (dialectKnown || s.settings.Integrate.Shellcheck.PosixFallback) {
		info, err := external.Shellcheck(doc.Info.Shell, doc.Text, s.settings.Integrate.Shellcheck.Arguments)
		if err != nil {
			s.log.Warn("shellcheck", zap.Error(err))
		} else {
			diagnostics = append(diagnostics, info.Diagnostics...)
			doc.Info.Actions = append(doc.Info.Actions, info.Actions...)
		}
	}

	s.writeNotification("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI: uri, Diagnostics: diagnostics,
	})
}

func (s *Server) handleHover(req rpc.Request) {
	var params protocol.TextDocumentPositionParams
	if !s.unmarshalParams(req, &params) {
		return
	}
	e, ok := s.engineFor(params.TextDocument.URI)
	if !ok {
		s.reply(req, nil, nil)
		return
	}
	hover, found := e.Hover(params.Position)
	if !found {
		s.reply(req, nil, nil)
		return
	}
	s.reply(req, hover, nil)
}

func (s *Server) handleDefinition(req rpc.Request) {
	var params protocol.TextDocumentPositionParams
	if !s.unmarshalParams(req, &params) {
		return
	}
	e, ok := s.engineFor(params.TextDocument.URI)
	if !ok {
		s.reply(req, nil, nil)
		return
	}
	loc, found := e.Definition(params.Position)
	if !found {
		s.reply(req, nil, nil)
		return
	}
	s.reply(req, loc, nil)
}

func (s *Server) handleReferences(req rpc.Request) {
	var params protocol.ReferenceParams
	if !s.unmarshalParams(req, &params) {
		return
	}
	e, ok := s.engineFor(params.TextDocument.URI)
	if !ok {
		s.reply(req, nil, nil)
		return
	}
	locs, found := e.FindReferences(params.Position, params.Context.IncludeDeclaration)
	if !found {
		s.reply(req, []protocol.Location{}, nil)
		return
	}
	s.reply(req, locs, nil)
}

func (s *Server) handleDocumentHighlight(req rpc.Request) {
	var params protocol.TextDocumentPositionParams
	if !s.unmarshalParams(req, &params) {
		return
	}
	e, ok := s.engineFor(params.TextDocument.URI)
	if !ok {
		s.reply(req, nil, nil)
		return
	}
	highlights, found := e.DocumentHighlights(params.Position)
	if !found {
		s.reply(req, []protocol.DocumentHighlight{}, nil)
		return
	}
	s.reply(req, highlights, nil)
}

func (s *Server) handleRename(req rpc.Request) {
	var params protocol.RenameParams
	if !s.unmarshalParams(req, &params) {
		return
	}
	e, ok := s.engineFor(params.TextDocument.URI)
	if !ok {
		s.reply(req, nil, rpc.RequestFailedErr("no such document"))
		return
	}
	edit, found := e.Rename(params.Position, params.NewName)
	if !found {
		s.reply(req, nil, rpc.RequestFailedErr("no renameable symbol at this position"))
		return
	}
	s.reply(req, edit, nil)
}

func (s *Server) handleCompletion(req rpc.Request) {
	var params protocol.TextDocumentPositionParams
	if !s.unmarshalParams(req, &params) {
		return
	}
	e, ok := s.engineFor(params.TextDocument.URI)
	if !ok {
		s.reply(req, protocol.CompletionList{}, nil)
		return
	}
	s.reply(req, e.Completion(params.Position), nil)
}

func (s *Server) handleDocumentSymbol(req rpc.Request) {
	var params struct {
		TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
	}
	if !s.unmarshalParams(req, &params) {
		return
	}
	e, ok := s.engineFor(params.TextDocument.URI)
	if !ok {
		s.reply(req, []protocol.DocumentSymbol{}, nil)
		return
	}
	s.reply(req, e.DocumentSymbols(), nil)
}

func (s *Server) handleSemanticTokens(req rpc.Request) {
	var params protocol.SemanticTokensParams
	if !s.unmarshalParams(req, &params) {
		return
	}
	e, ok := s.engineFor(params.TextDocument.URI)
	if !ok {
		s.reply(req, protocol.SemanticTokens{}, nil)
		return
	}
	s.reply(req, e.SemanticTokens(), nil)
}

func (s *Server) handleInlayHint(req rpc.Request) {
	var params protocol.InlayHintParams
	if !s.unmarshalParams(req, &params) {
		return
	}
	e, ok := s.engineFor(params.TextDocument.URI)
	if !ok {
		s.reply(req, []protocol.InlayHint{}, nil)
		return
	}
	s.reply(req, e.InlayHints(params.Range), nil)
}

func (s *Server) handleCodeAction(req rpc.Request) {
	var params protocol.CodeActionParams
	if !s.unmarshalParams(req, &params) {
		return
	}
	e, ok := s.engineFor(params.TextDocument.URI)
	if !ok {
		s.reply(req, []protocol.CodeAction{}, nil)
		return
	}
	s.reply(req, e.CodeActions(params.Range), nil)
}

func (s *Server) handleFormatting(req rpc.Request) {
	var params protocol.DocumentFormattingParams
	if !s.unmarshalParams(req, &params) {
		return
	}
	s.format(req, params.TextDocument.URI, nil, params.Options)
}

func (s *Server) handleRangeFormatting(req rpc.Request) {
	var params protocol.DocumentRangeFormattingParams
	if !s.unmarshalParams(req, &params) {
		return
	}
	s.format(req, params.TextDocument.URI, &params.Range, params.Options)
}

func (s *Server) format(req rpc.Request, uri protocol.DocumentURI, rng *protocol.Range, opts protocol.FormattingOptions) {
	if !s.shfmtAvailable {
		s.reply(req, nil, nil)
		return
	}
	doc, ok := s.db.Get(uri)
	if !ok {
		s.reply(req, nil, nil)
		return
	}
	formatted, ok, err := external.Shfmt(doc.Text, doc.Info.Shell, s.settings.Integrate.Shfmt, opts)
	if err != nil {
		s.reply(req, nil, rpc.RequestFailedErr(err.Error()))
		return
	}
	if !ok {
		s.reply(req, nil, nil)
		return
	}
	// Shfmt always formats the whole document, so the edit it produces must
	// replace the whole document too - a requested sub-range (rng) is
	// ignored rather than used as the edit's range, which would otherwise
	// splice a full-document rewrite into a narrow selection and corrupt
	// the text.
	whole := protocol.Range{Start: protocol.Position{}, End: endOf(doc.Text)}
	s.reply(req, []protocol.TextEdit{{Range: whole, NewText: formatted}}, nil)
}

func endOf(text string) protocol.Position {
	var pos protocol.Position
	for _, r := range text {
		pos.Advance(r)
	}
	return pos
}
