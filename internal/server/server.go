// Package server is the dispatcher: a single-threaded, cooperative
// request/response loop over internal/rpc's framing, wiring the document
// store, the query engine, and the external-tool adapters together. Built
// around a dispatch-switch over internal/rpc's hand-framed reader/writer
// loop rather than a connection-oriented client library.
package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/shellls/shellls/internal/config"
	"github.com/shellls/shellls/internal/document"
	"github.com/shellls/shellls/internal/external"
	"github.com/shellls/shellls/internal/parser"
	"github.com/shellls/shellls/internal/rpc"
)

// State is the server's lifecycle stage.
type State int

const (
	Uninitialized State = iota
	Initialized
	ShuttingDown
	Exited
)

// ExitCode enumerates the process exit codes this server can produce.
type ExitCode int

const (
	ExitNormal          ExitCode = 0
	ExitWithoutShutdown ExitCode = 1
	ExitIOFailure       ExitCode = 2
	ExitCLIMisuse       ExitCode = 3
)

// Server owns the document store and dispatches every incoming message.
type Server struct {
	state State

	settings config.Settings
	debug    bool
	log      *zap.Logger

	db *document.Database

	out io.Writer

	shellcheckAvailable bool
	shfmtAvailable      bool
	helpAvailable       bool
	manAvailable        bool
	manPath             string

	exitedCleanly bool
}

// New constructs a Server. Optional integrations are probed for presence
// immediately so capabilities reported from initialize never advertise a
// tool that isn't actually on PATH.
func New(settings config.Settings, debug bool, log *zap.Logger, out io.Writer) *Server {
	s := &Server{settings: settings, debug: debug, log: log, out: out}
	s.probeIntegrations()

	s.db = document.NewDatabase(s.parserSettings)
	return s
}

func (s *Server) probeIntegrations() {
	s.shellcheckAvailable = s.settings.Integrate.Shellcheck.Enable && external.Exists("shellcheck")
	s.shfmtAvailable = s.settings.Integrate.Shfmt.Enable && external.Exists("shfmt")
	s.helpAvailable = s.settings.Integrate.Help.Enable
	s.manPath = "man"
	s.manAvailable = s.settings.Integrate.Man.Enable && external.Exists(s.manPath)
}

func (s *Server) parserSettings() parser.Settings {
	environment := document.BuildEnvironment(
		s.settings.Environment.Variables,
		s.settings.Environment.Executables,
		s.settings.Environment.Path,
	)
	return document.DefaultSettings(s.settings.Shell(), environment)
}

// Serve runs the dispatch loop against r/w until exit is reached or a read
// fails. It returns the process exit code the caller should use.
func (s *Server) Serve(r io.Reader) ExitCode {
	reader := bufio.NewReader(r)
	for s.state != Exited {
		raw, err := rpc.ReadMessage(reader)
		if err != nil {
			if err == io.EOF {
				return s.exitCode()
			}
			s.log.Error("reading message", zap.Error(err))
			return ExitIOFailure
		}
		if s.debug {
			fmt.Fprintf(zapSink{s.log}, "--> %s\n", raw)
		}

		var req rpc.Request
		if err := json.Unmarshal(raw, &req); err != nil {
			s.writeResponse(rpc.Failure(nil, rpc.NewError(rpc.ParseError, "malformed JSON-RPC message")))
			continue
		}
		s.dispatch(req)
	}
	return s.exitCode()
}

// exitCode reports the process exit code for how the loop ended: a clean
// exit after shutdown, an exit (or stream EOF) without one first, or - for
// the EOF-without-exit case, which the server treats the same as a
// client-initiated exit missing its shutdown - ExitWithoutShutdown.
func (s *Server) exitCode() ExitCode {
	if s.state == Exited && s.exitedCleanly {
		return ExitNormal
	}
	return ExitWithoutShutdown
}

type zapSink struct{ log *zap.Logger }

func (z zapSink) Write(p []byte) (int, error) {
	z.log.Debug(string(p))
	return len(p), nil
}

func (s *Server) writeResponse(resp rpc.Response) {
	raw, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("marshaling response", zap.Error(err))
		return
	}
	if s.debug {
		fmt.Fprintf(zapSink{s.log}, "<-- %s\n", raw)
	}
	if err := rpc.WriteMessage(s.out, raw); err != nil {
		s.log.Error("writing response", zap.Error(err))
	}
}

func (s *Server) writeNotification(method string, params any) {
	req, err := rpc.Notification(method, params)
	if err != nil {
		s.log.Error("marshaling notification", zap.Error(err))
		return
	}
	raw, err := json.Marshal(req)
	if err != nil {
		s.log.Error("marshaling notification", zap.Error(err))
		return
	}
	if err := rpc.WriteMessage(s.out, raw); err != nil {
		s.log.Error("writing notification", zap.Error(err))
	}
}

// dispatch routes one incoming message to its handler.
func (s *Server) dispatch(req rpc.Request) {
	if len(req.Method) >= 2 && req.Method[:2] == "$/" {
		// Silently accepted, including $/cancelRequest.
		return
	}

	switch req.Method {
	case "initialize":
		s.handleInitialize(req)
	case "initialized":
		// no-op: nothing to acknowledge.
	case "shutdown":
		s.state = ShuttingDown
		s.reply(req, struct{}{}, nil)
	case "exit":
		s.handleExit(req)
	case "textDocument/didOpen":
		s.handleDidOpen(req)
	case "textDocument/didChange":
		s.handleDidChange(req)
	case "textDocument/didClose":
		s.handleDidClose(req)
	case "textDocument/hover":
		s.handleHover(req)
	case "textDocument/definition":
		s.handleDefinition(req)
	case "textDocument/references":
		s.handleReferences(req)
	case "textDocument/documentHighlight":
		s.handleDocumentHighlight(req)
	case "textDocument/rename":
		s.handleRename(req)
	case "textDocument/completion":
		s.handleCompletion(req)
	case "textDocument/documentSymbol":
		s.handleDocumentSymbol(req)
	case "textDocument/semanticTokens/full":
		s.handleSemanticTokens(req)
	case "textDocument/inlayHint":
		s.handleInlayHint(req)
	case "textDocument/codeAction":
		s.handleCodeAction(req)
	case "textDocument/formatting":
		s.handleFormatting(req)
	case "textDocument/rangeFormatting":
		s.handleRangeFormatting(req)
	case "workspace/didChangeConfiguration":
		s.handleDidChangeConfiguration(req)
	default:
		if !req.IsNotification() {
			s.writeResponse(rpc.Failure(req.ID, rpc.MethodNotFoundErr(req.Method)))
		}
	}
}

// reply marshals result and writes a success response, or an internal
// error response if result cannot be marshaled. A notification carries no
// id to reply to, so a successful result is simply dropped - but an error
// (e.g. malformed params) is still surfaced, as an error-only response
// with id: null, rather than silently swallowed.
func (s *Server) reply(req rpc.Request, result any, rpcErr *rpc.Error) {
	if req.IsNotification() {
		if rpcErr != nil {
			s.writeResponse(rpc.Failure(nil, rpcErr))
		}
		return
	}
	if rpcErr != nil {
		s.writeResponse(rpc.Failure(req.ID, rpcErr))
		return
	}
	resp, err := rpc.Success(req.ID, result)
	if err != nil {
		s.writeResponse(rpc.Failure(req.ID, rpc.InternalErr(err.Error())))
		return
	}
	s.writeResponse(resp)
}

func (s *Server) unmarshalParams(req rpc.Request, v any) bool {
	if len(req.Params) == 0 {
		return true
	}
	if err := json.Unmarshal(req.Params, v); err != nil {
		s.reply(req, nil, rpc.InvalidParamsErr(err.Error()))
		return false
	}
	return true
}
