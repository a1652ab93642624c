package external

import (
	"bytes"
	"os/exec"

	"github.com/shellls/shellls/internal/shellkind"
)

const zshRunHelpScript = "unalias run-help\nautoload -Uz run-help\nrun-help \"$1\""

// zshHelp drives zsh's run-help autoload function for name, piping the
// bootstrap script on stdin the way interactive zsh would source it from
// its startup files.
func zshHelp(name, shell string) (string, bool) {
	cmd := exec.Command(shell, "-r", "-s", "--", name)
	cmd.Env = append(cmd.Environ(), "PAGER=cat") // run-help falls back to `more` without this.
	cmd.Stdin = bytes.NewReader([]byte(zshRunHelpScript))
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return "", false
	}
	return stdout.String(), true
}

// posixHelp asks shell's builtin `help` command to describe name.
func posixHelp(name, shell string) (string, bool) {
	cmd := exec.Command(shell, "-c", `help "$1"`, "--", name)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return "", false
	}
	return stdout.String(), true
}

// Help documents a builtin, dispatching to the builtin-help mechanism
// native to shell.
func Help(shell shellkind.Shell, name string) (string, bool) {
	switch shell {
	case shellkind.Zsh:
		return zshHelp(name, "zsh")
	case shellkind.Bash:
		return posixHelp(name, "bash")
	default:
		return posixHelp(name, "sh")
	}
}
