package external

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/shellls/shellls/internal/config"
	"github.com/shellls/shellls/internal/protocol"
	"github.com/shellls/shellls/internal/shellkind"
)

// shfmtDialectFlag reports the -ln dialect flag for shell, or false if
// shfmt has no dialect to format it as.
func shfmtDialectFlag(shell shellkind.Shell, cfg config.Shfmt) (string, bool) {
	switch shell {
	case shellkind.Ksh:
		return "-ln=mksh", true
	case shellkind.Bash:
		return "-ln=bash", true
	case shellkind.Posix:
		return "-p", true
	default:
		if cfg.PosixFallback {
			return "-p", true
		}
		return "", false
	}
}

// Shfmt runs shfmt over text and returns the formatted result, or false if
// shell has no usable dialect mapping and posix_fallback is disabled.
func Shfmt(text string, shell shellkind.Shell, cfg config.Shfmt, opts protocol.FormattingOptions) (string, bool, error) {
	dialectFlag, ok := shfmtDialectFlag(shell, cfg)
	if !ok {
		return "", false, nil
	}

	// shfmt treats an indent of 0 as "use tabs".
	indent := 0
	if opts.InsertSpaces {
		indent = opts.TabSize
	}

	args := append([]string{"--indent", strconv.Itoa(indent), dialectFlag}, cfg.Arguments...)
	cmd := exec.Command("shfmt", args...)
	cmd.Stdin = bytes.NewReader([]byte(text))
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", false, fmt.Errorf("shfmt: %s", strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSuffix(stdout.String(), "\n"), true, nil
}
