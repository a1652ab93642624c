package external

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"

	"github.com/shellls/shellls/internal/analysis"
	"github.com/shellls/shellls/internal/protocol"
	"github.com/shellls/shellls/internal/shellkind"
)

// scRange mirrors shellcheck's JSON range, 1-based on both axes.
type scRange struct {
	Line      uint32 `json:"line"`
	Column    uint32 `json:"column"`
	EndLine   uint32 `json:"endLine"`
	EndColumn uint32 `json:"endColumn"`
}

type scReplacement struct {
	scRange
	NewText string `json:"replacement"`
}

type scFix struct {
	Replacements []scReplacement `json:"replacements"`
}

type scItem struct {
	scRange
	Level   string  `json:"level"`
	Code    int     `json:"code"`
	Message string  `json:"message"`
	Fix     *scFix  `json:"fix"`
}

func (r scRange) toRange() protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: r.Line - 1, Character: r.Column - 1},
		End:   protocol.Position{Line: r.EndLine - 1, Character: r.EndColumn - 1},
	}
}

func severityOf(level string) protocol.Severity {
	switch level {
	case "error":
		return protocol.SeverityError
	case "warning":
		return protocol.SeverityWarning
	case "info":
		return protocol.SeverityInformation
	case "style":
		return protocol.SeverityHint
	default:
		// shellcheck may introduce levels this build doesn't know about yet.
		return protocol.SeverityError
	}
}

// ShellcheckInfo is the parsed result of one shellcheck run: diagnostics
// plus the ready-made quick-fix actions shellcheck's replacements imply.
type ShellcheckInfo struct {
	Diagnostics []protocol.Diagnostic
	Actions     []analysis.Action
}

func shellcheckFlag(shell shellkind.Shell) string {
	// Unsupported shells still get useful hints under POSIX mode.
	switch shell {
	case shellkind.Bash:
		return "--shell=bash"
	case shellkind.Ksh:
		return "--shell=ksh"
	default:
		return "--shell=sh"
	}
}

// Shellcheck runs `shellcheck --format=json -` over text and parses its
// findings.
func Shellcheck(shell shellkind.Shell, text string, extraArgs []string) (ShellcheckInfo, error) {
	args := append([]string{shellcheckFlag(shell), "--format=json", "-"}, extraArgs...)
	cmd := exec.Command("shellcheck", args...)
	cmd.Stdin = bytes.NewReader([]byte(text))
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	// shellcheck exits non-zero whenever it reports anything at all, so its
	// own exit code is not a reliable error signal here - only a failure to
	// produce parseable JSON is.
	_ = cmd.Run()

	var items []scItem
	if err := json.NewDecoder(&stdout).Decode(&items); err != nil && err != io.EOF {
		return ShellcheckInfo{}, fmt.Errorf("parsing shellcheck output: %w", err)
	}

	info := ShellcheckInfo{Diagnostics: make([]protocol.Diagnostic, 0, len(items))}
	for _, item := range items {
		r := item.scRange.toRange()
		if item.Fix != nil {
			edits := make([]protocol.TextEdit, 0, len(item.Fix.Replacements))
			for _, rep := range item.Fix.Replacements {
				edits = append(edits, protocol.TextEdit{Range: rep.scRange.toRange(), NewText: rep.NewText})
			}
			info.Actions = append(info.Actions, analysis.Action{
				Title: fmt.Sprintf("SC%d: %s", item.Code, item.Message),
				Range: r,
				Edits: edits,
			})
		}
		info.Diagnostics = append(info.Diagnostics, protocol.Diagnostic{
			Range:    r,
			Severity: severityOf(item.Level),
			Source:   "shellcheck",
			Message:  item.Message,
			Code:     item.Code,
		})
	}
	return info, nil
}
