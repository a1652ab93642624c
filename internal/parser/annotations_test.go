package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shellls/shellls/internal/analysis"
	"github.com/shellls/shellls/internal/shellkind"
)

func parse(t *testing.T, text string) *analysis.DocumentInfo {
	t.Helper()
	return Parse(text, Settings{DefaultShell: shellkind.Posix})
}

func findFunction(info *analysis.DocumentInfo, name string) (*analysis.FunctionInfo, bool) {
	for _, sym := range info.Symbols {
		if sym.Kind == analysis.KindFunction && sym.Name == name {
			return info.Function(sym.FunctionID), true
		}
	}
	return nil, false
}

// TestAnnotationAttachesToImmediatelyFollowingFunction guards the pending-
// annotation lifetime bug: the newline that ends a `##@` comment line, right
// before the function it documents, must not discard the annotation.
func TestAnnotationAttachesToImmediatelyFollowingFunction(t *testing.T) {
	info := parse(t, "##@ desc greets the caller\nfoo() {\n  echo hi\n}\n")

	f, ok := findFunction(info, "foo")
	require.True(t, ok)
	assert.Equal(t, "greets the caller", f.Description)
}

// TestAnnotationSurvivesBlankLines extends the above across several blank
// separator lines, since extractStatement's separator-skipping loop must
// not clear pending state on any of them.
func TestAnnotationSurvivesBlankLines(t *testing.T) {
	info := parse(t, "##@ desc greets the caller\n\n\nfoo() {\n  echo hi\n}\n")

	f, ok := findFunction(info, "foo")
	require.True(t, ok)
	assert.Equal(t, "greets the caller", f.Description)
}

func TestAnnotationDescAccumulatesAcrossLines(t *testing.T) {
	info := parse(t, "##@ desc first line\n##@ desc second line\nfoo() {\n  echo hi\n}\n")

	f, ok := findFunction(info, "foo")
	require.True(t, ok)
	assert.Equal(t, "first line\nsecond line", f.Description)
}

func TestAnnotationOnlyFirstDefinitionConsumesPending(t *testing.T) {
	info := parse(t, "##@ desc greets the caller\nfoo() {\n  echo hi\n}\nbar() {\n  echo bye\n}\n")

	foo, ok := findFunction(info, "foo")
	require.True(t, ok)
	assert.Equal(t, "greets the caller", foo.Description)

	bar, ok := findFunction(info, "bar")
	require.True(t, ok)
	assert.Empty(t, bar.Description)
}

func TestAnnotationParamAndExitStdinStdout(t *testing.T) {
	text := "##@ param the name to greet\n" +
		"##@ exit 0 on success, 1 otherwise\n" +
		"##@ stdin none\n" +
		"##@ stdout the greeting\n" +
		"##@ stderr nothing\n" +
		"greet() {\n  echo \"hello $1\"\n}\n"
	info := parse(t, text)

	f, ok := findFunction(info, "greet")
	require.True(t, ok)
	require.Len(t, f.Params, 1)
	assert.Equal(t, "the name to greet", f.Params[0].Resolve(text))

	assert.True(t, f.HasExit)
	assert.Equal(t, "0 on success, 1 otherwise", f.Exit.Resolve(text))
	assert.True(t, f.HasStdin)
	assert.True(t, f.HasStdout)
	assert.True(t, f.HasStderr)
}

func TestAnnotationEmptyDirectiveWarns(t *testing.T) {
	info := parse(t, "##@ \nfoo() {\n  :\n}\n")
	foundWarning := false
	for _, d := range info.Diagnostics {
		if d.Message == "empty annotation directive" {
			foundWarning = true
		}
	}
	assert.True(t, foundWarning)
}

func TestAnnotationUnknownDirectiveWarns(t *testing.T) {
	info := parse(t, "##@ bogus something\nfoo() {\n  :\n}\n")
	foundWarning := false
	for _, d := range info.Diagnostics {
		if d.Message == "unknown annotation directive: bogus" {
			foundWarning = true
		}
	}
	assert.True(t, foundWarning)
}

// TestScriptParametersFinalizeFromScriptDirective checks that `##@ script`
// moves accumulated `##@ param` annotations into the document's
// script-level parameters rather than a function's.
func TestScriptParametersFinalizeFromScriptDirective(t *testing.T) {
	text := "##@ param input file\n##@ script\necho \"$1\"\n"
	info := parse(t, text)
	require.True(t, info.HasScriptParameters)
	require.Len(t, info.ScriptParameters, 1)
	assert.Equal(t, "input file", info.ScriptParameters[0].Resolve(text))
}
