package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shellls/shellls/internal/protocol"
	"github.com/shellls/shellls/internal/shellkind"
)

func TestRecognizedShebangSelectsThatShellWithoutDiagnostic(t *testing.T) {
	info := Parse("#!/usr/bin/env bash\necho hi\n", Settings{DefaultShell: shellkind.Posix})
	assert.Equal(t, shellkind.Bash, info.Shell)
	assert.Empty(t, info.Diagnostics)
}

func TestMalformedShebangWarnsAndKeepsConfiguredShell(t *testing.T) {
	info := Parse("#!not/an/absolute/path\necho hi\n", Settings{DefaultShell: shellkind.Zsh})
	assert.Equal(t, shellkind.Zsh, info.Shell)

	require.NotEmpty(t, info.Diagnostics)
	d := info.Diagnostics[0]
	assert.Equal(t, protocol.SeverityWarning, d.Severity)
	assert.Equal(t, protocol.Position{Line: 0, Character: 0}, d.Range.Start)
	assert.Equal(t, uint32(0), d.Range.End.Line)
}

func TestNoShebangLeavesConfiguredShellUndiagnosed(t *testing.T) {
	info := Parse("echo hi\n", Settings{DefaultShell: shellkind.Ksh})
	assert.Equal(t, shellkind.Ksh, info.Shell)
	assert.Empty(t, info.Diagnostics)
}
