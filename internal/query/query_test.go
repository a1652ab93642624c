package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shellls/shellls/internal/document"
	"github.com/shellls/shellls/internal/parser"
	"github.com/shellls/shellls/internal/protocol"
	"github.com/shellls/shellls/internal/shellkind"
)

func newEngine(t *testing.T, text string) *Engine {
	t.Helper()
	doc := document.New(text, parser.Settings{DefaultShell: shellkind.Posix})
	uri, err := protocol.ParseDocumentURI("file:///tmp/script.sh")
	require.NoError(t, err)
	return New(doc, uri)
}

func at(line, char uint32) protocol.Position {
	return protocol.Position{Line: line, Character: char}
}

func TestSymbolAtFindsVariableReference(t *testing.T) {
	e := newEngine(t, "greeting=hi\necho \"$greeting\"\n")

	// "$greeting" starts at column 6 on line 1; point inside the name.
	id, ok := e.SymbolAt(at(1, 9))
	require.True(t, ok)
	sym := e.info().Symbol(id)
	assert.Equal(t, "greeting", sym.Name)
}

func TestFindReferencesIncludesDefinitionByDefault(t *testing.T) {
	e := newEngine(t, "greeting=hi\necho \"$greeting\"\necho \"$greeting again\"\n")

	locs, ok := e.FindReferences(at(1, 9), true)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(locs), 2)
}

func TestDocumentHighlightsTagsReadAndWrite(t *testing.T) {
	e := newEngine(t, "greeting=hi\necho \"$greeting\"\n")

	highlights, ok := e.DocumentHighlights(at(1, 9))
	require.True(t, ok)
	require.Len(t, highlights, 2)

	var sawWrite, sawRead bool
	for _, h := range highlights {
		switch h.Kind {
		case protocol.HighlightWrite:
			sawWrite = true
		case protocol.HighlightRead:
			sawRead = true
		}
	}
	assert.True(t, sawWrite)
	assert.True(t, sawRead)
}

func TestDefinitionResolvesVariableToItsFirstAssignment(t *testing.T) {
	e := newEngine(t, "greeting=hi\necho \"$greeting\"\n")

	loc, ok := e.Definition(at(1, 9))
	require.True(t, ok)
	assert.Equal(t, uint32(0), loc.Range.Start.Line)
}

func TestRenameProducesEditForEveryReference(t *testing.T) {
	e := newEngine(t, "greeting=hi\necho \"$greeting\"\n")

	edit, ok := e.Rename(at(1, 9), "salutation")
	require.True(t, ok)
	edits := edit.Changes[e.URI.String()]
	assert.Len(t, edits, 2)
	for _, te := range edits {
		assert.Equal(t, "salutation", te.NewText)
	}
}

func TestCompletionVariableModeFiltersByDollarPrefix(t *testing.T) {
	e := newEngine(t, "greeting=hi\ngoodbye=bye\necho \"$gr\"\n")

	// Cursor right after "$gr" on line 2.
	list := e.Completion(at(2, 9))
	var labels []string
	for _, item := range list.Items {
		labels = append(labels, item.Label)
	}
	assert.Contains(t, labels, "greeting")
	assert.NotContains(t, labels, "goodbye")
}

func TestDocumentSymbolsListsFunctionsAndVariables(t *testing.T) {
	e := newEngine(t, "greeting=hi\nfoo() {\n  echo hi\n}\n")

	symbols := e.DocumentSymbols()
	var names []string
	for _, s := range symbols {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "greeting")
	assert.Contains(t, names, "foo")
}

func TestHoverFunctionIncludesDescriptionAndParams(t *testing.T) {
	e := newEngine(t, "##@ desc greets the caller\n##@ param the name to greet\nfoo() {\n  echo \"hello $1\"\n}\n")

	// Point at the function name's definition reference.
	id, ok := e.SymbolAt(at(2, 0))
	require.True(t, ok)
	sym := e.info().Symbol(id)
	require.Equal(t, "foo", sym.Name)

	hover, ok := e.Hover(at(2, 0))
	require.True(t, ok)
	assert.Contains(t, hover.Contents.Value, "greets the caller")
	assert.Contains(t, hover.Contents.Value, "the name to greet")
}

func TestSemanticTokensDeltaEncodesFiveIntsPerToken(t *testing.T) {
	e := newEngine(t, "##@ desc hello\nfoo() {\n  :\n}\n")

	tokens := e.SemanticTokens()
	assert.Equal(t, 0, len(tokens.Data)%5)
}

func TestInlayHintsEmitForScriptParameters(t *testing.T) {
	e := newEngine(t, "##@ param input file\n##@ script\necho \"$1\"\n")

	full := protocol.Range{Start: at(0, 0), End: at(10, 0)}
	hints := e.InlayHints(full)
	require.Len(t, hints, 1)
	assert.Equal(t, "$1:", hints[0].Label)
}

func TestCodeActionsOmitsCommandPathWhenNothingResolves(t *testing.T) {
	e := newEngine(t, "ls -la\n")
	e.PathDirs = nil // no PATH entries to search, so no path-insertion action is synthesized.
	actions := e.CodeActions(protocol.Range{Start: at(0, 0), End: at(0, 2)})
	assert.Empty(t, actions)
}
