// Package parser turns a shell document's source text into a semantic
// index (analysis.DocumentInfo) via a recursive-descent analyzer. Parsing
// never fails outright - malformed input becomes diagnostics, and the
// analyzer resynchronizes at the next statement boundary so the rest of
// the document still gets analyzed.
package parser

import (
	"strings"

	"github.com/shellls/shellls/internal/analysis"
	"github.com/shellls/shellls/internal/shellkind"
	"github.com/shellls/shellls/internal/source"
)

// Parse analyzes text under settings and returns its semantic index.
func Parse(text string, settings Settings) *analysis.DocumentInfo {
	shell, badView, err := resolveShebang(text, settings.DefaultShell)
	settings.DefaultShell = shell

	c := newCtx(text, settings)
	if err != nil {
		c.warnf(source.RangeOf(text, badView), "malformed shebang: "+err.Error())
	}
	c.extractStatementList(c.stopAtEOF())
	c.info.FinalizeReferences()
	return c.info
}

// resolveShebang inspects a leading "#!" line and overrides the configured
// default shell when it names one. When the line is present but doesn't
// parse, the fallback shell is still returned but err is non-nil and badView
// spans the comment so the caller can raise a warning diagnostic on it.
func resolveShebang(text string, fallback shellkind.Shell) (shell shellkind.Shell, badView source.View, err error) {
	if !strings.HasPrefix(text, "#!") {
		return fallback, source.View{}, nil
	}
	end := len(text)
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		end = idx
	}
	line := text[2:end]
	sh, perr := shellkind.ParseShebang(line)
	if perr != nil {
		return fallback, source.View{Start: 0, End: uint32(end)}, perr
	}
	return sh, source.View{}, nil
}
