package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shellls/shellls/internal/config"
	"github.com/shellls/shellls/internal/rpc"
)

func newTestServer(out *bytes.Buffer) *Server {
	settings := config.Defaults()
	settings.Integrate.Shellcheck.Enable = false
	settings.Integrate.Shfmt.Enable = false
	settings.Integrate.Help.Enable = false
	settings.Integrate.Man.Enable = false
	return New(settings, false, zap.NewNop(), out)
}

func newTestServerWithShfmt(out *bytes.Buffer) *Server {
	settings := config.Defaults()
	settings.Integrate.Shellcheck.Enable = false
	settings.Integrate.Help.Enable = false
	settings.Integrate.Man.Enable = false
	return New(settings, false, zap.NewNop(), out)
}

func frame(t *testing.T, method string, id *uint32, params string) string {
	t.Helper()
	var body string
	if params == "" {
		body = fmt.Sprintf(`{"jsonrpc":"2.0","method":%q`, method)
	} else {
		body = fmt.Sprintf(`{"jsonrpc":"2.0","method":%q,"params":%s`, method, params)
	}
	if id != nil {
		body += fmt.Sprintf(`,"id":%d}`, *id)
	} else {
		body += "}"
	}
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
}

// readResponses drains every framed message from out, skipping
// server-to-client notifications (publishDiagnostics) and keeping only
// actual request responses.
func readResponses(t *testing.T, out *bytes.Buffer) []rpc.Response {
	t.Helper()
	var responses []rpc.Response
	reader := bufio.NewReader(out)
	for {
		raw, err := rpc.ReadMessage(reader)
		if err != nil {
			break
		}
		var probe struct {
			Method string `json:"method"`
		}
		require.NoError(t, json.Unmarshal(raw, &probe))
		if probe.Method != "" {
			continue
		}
		var resp rpc.Response
		require.NoError(t, json.Unmarshal(raw, &resp))
		responses = append(responses, resp)
	}
	return responses
}

func id(n uint32) *uint32 { return &n }

func TestServeInitializeRespondsWithCapabilities(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(&out)

	input := frame(t, "initialize", id(1), `{}`) +
		frame(t, "shutdown", id(2), "") +
		frame(t, "exit", nil, "")

	code := s.Serve(bytes.NewReader([]byte(input)))
	assert.Equal(t, ExitNormal, code)

	responses := readResponses(t, &out)
	require.Len(t, responses, 2)
	assert.Nil(t, responses[0].Error)
	assert.Contains(t, string(responses[0].Result), "shellls")
	assert.Nil(t, responses[1].Error)
}

func TestServeExitWithoutShutdownReturnsExitWithoutShutdown(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(&out)

	input := frame(t, "exit", nil, "")
	code := s.Serve(bytes.NewReader([]byte(input)))
	assert.Equal(t, ExitWithoutShutdown, code)
}

func TestServeEOFWithoutExitReturnsExitWithoutShutdown(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(&out)

	code := s.Serve(bytes.NewReader(nil))
	assert.Equal(t, ExitWithoutShutdown, code)
}

func TestServeUnknownMethodRepliesMethodNotFound(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(&out)

	input := frame(t, "textDocument/bogus", id(1), "") + frame(t, "exit", nil, "")
	s.Serve(bytes.NewReader([]byte(input)))

	responses := readResponses(t, &out)
	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, rpc.MethodNotFound, responses[0].Error.Code)
}

func TestServeUnknownNotificationIsSilentlyIgnored(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(&out)

	input := frame(t, "textDocument/bogus", nil, "") + frame(t, "exit", nil, "")
	s.Serve(bytes.NewReader([]byte(input)))

	responses := readResponses(t, &out)
	assert.Empty(t, responses)
}

func TestServeDollarSlashMethodsAreSilentlyAccepted(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(&out)

	input := frame(t, "$/cancelRequest", nil, `{"id":1}`) + frame(t, "exit", nil, "")
	s.Serve(bytes.NewReader([]byte(input)))

	responses := readResponses(t, &out)
	assert.Empty(t, responses)
}

func TestServeMalformedJSONRepliesParseError(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(&out)

	body := "{not json"
	raw := fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
	input := raw + frame(t, "exit", nil, "")
	s.Serve(bytes.NewReader([]byte(input)))

	responses := readResponses(t, &out)
	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, rpc.ParseError, responses[0].Error.Code)
}

func TestServeDidOpenThenHoverOverFunctionDefinition(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(&out)

	text := "##@ desc greets the caller\ngreet() {\n  echo hi\n}\n"
	openParams := fmt.Sprintf(`{"textDocument":{"uri":"file:///tmp/a.sh","languageId":"shellscript","version":1,"text":%q}}`, text)
	hoverParams := `{"textDocument":{"uri":"file:///tmp/a.sh"},"position":{"line":1,"character":1}}`

	input := frame(t, "textDocument/didOpen", nil, openParams) +
		frame(t, "textDocument/hover", id(1), hoverParams) +
		frame(t, "exit", nil, "")
	s.Serve(bytes.NewReader([]byte(input)))

	responses := readResponses(t, &out)
	require.Len(t, responses, 1)
	assert.Nil(t, responses[0].Error)
	assert.Contains(t, string(responses[0].Result), "greets the caller")
}

// TestRangeFormattingEditSpansTheWholeDocumentNotTheRequestedRange guards
// against shfmt's whole-document output being spliced into a narrow
// selection: the returned edit's range must cover the whole document even
// though the request only asked to format a couple of lines of it.
func TestRangeFormattingEditSpansTheWholeDocumentNotTheRequestedRange(t *testing.T) {
	if _, err := exec.LookPath("shfmt"); err != nil {
		t.Skip("shfmt not installed")
	}

	var out bytes.Buffer
	s := newTestServerWithShfmt(&out)

	text := "x=1\ny=2\nz=3\n"
	openParams := fmt.Sprintf(`{"textDocument":{"uri":"file:///tmp/a.sh","languageId":"shellscript","version":1,"text":%q}}`, text)
	rangeFormatParams := `{"textDocument":{"uri":"file:///tmp/a.sh"},"range":{"start":{"line":1,"character":0},"end":{"line":1,"character":3}},"options":{"tabSize":2,"insertSpaces":true}}`

	input := frame(t, "textDocument/didOpen", nil, openParams) +
		frame(t, "textDocument/rangeFormatting", id(1), rangeFormatParams) +
		frame(t, "exit", nil, "")
	s.Serve(bytes.NewReader([]byte(input)))

	responses := readResponses(t, &out)
	require.Len(t, responses, 1)
	require.Nil(t, responses[0].Error)

	var edits []struct {
		Range struct {
			Start struct{ Line, Character int }
			End   struct{ Line, Character int }
		}
	}
	require.NoError(t, json.Unmarshal(responses[0].Result, &edits))
	require.Len(t, edits, 1)
	assert.Equal(t, 0, edits[0].Range.Start.Line)
	assert.Equal(t, 3, edits[0].Range.End.Line, "edit must span to the end of the document, not the requested range")
}

// TestMalformedNotificationParamsStillRepliesWithAnIdNullError guards against
// notification-handler errors being dropped silently: didOpen is a
// notification (no id), but malformed params must still produce an
// error-only response with id: null rather than nothing at all.
func TestMalformedNotificationParamsStillRepliesWithAnIdNullError(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(&out)

	input := frame(t, "textDocument/didOpen", nil, `{"textDocument":"not an object"}`) +
		frame(t, "exit", nil, "")
	s.Serve(bytes.NewReader([]byte(input)))

	reader := bufio.NewReader(&out)
	raw, err := rpc.ReadMessage(reader)
	require.NoError(t, err)

	var resp rpc.Response
	require.NoError(t, json.Unmarshal(raw, &resp))
	assert.Nil(t, resp.ID)
	require.NotNil(t, resp.Error)
	assert.Equal(t, rpc.InvalidParams, resp.Error.Code)
}

func TestShuttingDownThenExitCleanlyReportsExitNormal(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(&out)

	input := frame(t, "shutdown", id(1), "") + frame(t, "exit", nil, "")
	code := s.Serve(bytes.NewReader([]byte(input)))
	assert.Equal(t, ExitNormal, code)
}
