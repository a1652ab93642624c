package external

import (
	"bytes"
	"os/exec"

	"github.com/shellls/shellls/internal/shellkind"
)

// Man runs `man -s SECTIONS -- name` and returns its stdout, favoring the
// POSIX utility section (1p) first under a POSIX shell and the regular
// section (1) first otherwise.
func Man(shell shellkind.Shell, manPath, name string, extraArgs []string) (string, bool) {
	if manPath == "" {
		manPath = "man"
	}
	sections := "1,1p"
	if shell == shellkind.Posix {
		sections = "1p,1"
	}

	args := append([]string{"-s", sections}, extraArgs...)
	args = append(args, "--", name)
	cmd := exec.Command(manPath, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stdin = nil

	if err := cmd.Run(); err != nil {
		return "", false
	}
	return stdout.String(), true
}
