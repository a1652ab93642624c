// Package shellkind resolves shebangs and interpreter names to a shell
// variant, and supplies each variant's builtin command list.
package shellkind

import (
	"fmt"
	"sort"
	"strings"
)

// Shell identifies a shell dialect. Posix is the default; csh and tcsh are
// recognized for shebang purposes but analyzed as POSIX.
type Shell int

const (
	Posix Shell = iota
	Bash
	Zsh
	Ksh
	Csh
	Tcsh
)

// Name is the shell's human-readable name, used in diagnostics.
func (s Shell) Name() string {
	switch s {
	case Bash:
		return "Bourne-again shell"
	case Zsh:
		return "Z shell"
	case Ksh:
		return "Korn shell"
	case Csh:
		return "C shell"
	case Tcsh:
		return "TENEX C shell"
	default:
		return "POSIX shell"
	}
}

// ParseName maps an interpreter basename to a Shell variant.
func ParseName(name string) (Shell, error) {
	switch name {
	case "sh", "dash":
		return Posix, nil
	case "ksh", "oksh", "loksh", "mksh", "pdksh":
		return Ksh, nil
	case "bash":
		return Bash, nil
	case "zsh":
		return Zsh, nil
	case "csh":
		return Csh, nil
	case "tcsh":
		return Tcsh, nil
	case "":
		return Posix, fmt.Errorf("no shell specified")
	default:
		return Posix, fmt.Errorf("unrecognized shell: '%s'", name)
	}
}

// ParseShebang parses the remainder of a "#!..." line. It accepts only the
// absolute forms "/bin/NAME", "/usr/bin/NAME", and "/usr/bin/env NAME".
func ParseShebang(shebang string) (Shell, error) {
	trimmed := strings.TrimSpace(shebang)
	rest, ok := strings.CutPrefix(trimmed, "/")
	if !ok {
		return Posix, fmt.Errorf("expected an absolute path")
	}

	var name string
	switch {
	case strings.HasPrefix(rest, "usr/bin/env "):
		name = strings.TrimPrefix(rest, "usr/bin/env ")
	case strings.HasPrefix(rest, "usr/bin/"):
		name = strings.TrimPrefix(rest, "usr/bin/")
	case strings.HasPrefix(rest, "bin/"):
		name = strings.TrimPrefix(rest, "bin/")
	default:
		return Posix, fmt.Errorf("expected /bin/ or /usr/bin/")
	}

	fields := strings.Fields(name)
	first := name
	if len(fields) > 0 {
		first = fields[0]
	}
	return ParseName(first)
}

var posixBuiltins = sortedCopy([]string{
	".", ":", "break", "continue", "eval", "exec", "exit", "export",
	"readonly", "return", "set", "shift", "times", "trap", "unset",
})

var bashBuiltins = sortedCopy([]string{
	".", ":", "[", "alias", "bg", "bind", "break", "builtin", "caller", "cd",
	"command", "compgen", "complete", "compopt", "continue", "declare",
	"dirs", "disown", "echo", "enable", "eval", "exec", "exit", "export",
	"false", "fc", "fg", "getopts", "hash", "help", "history", "jobs",
	"kill", "let", "local", "logout", "mapfile", "popd", "printf", "pushd",
	"pwd", "read", "readarray", "readonly", "return", "set", "shift",
	"shopt", "source", "suspend", "test", "times", "trap", "true", "type",
	"typeset", "ulimit", "umask", "unalias", "unset", "wait",
})

var zshBuiltins = sortedCopy([]string{
	"-", ".", ":", "[", "alias", "autoload", "bg", "bindkey", "break",
	"builtin", "bye", "cd", "chdir", "command", "compadd", "comparguments",
	"compcall", "compctl", "compdescribe", "compfiles", "compgroups",
	"compquote", "compset", "comptags", "comptry", "compvalues", "continue",
	"declare", "dirs", "disable", "disown", "echo", "echotc", "echoti",
	"emulate", "enable", "eval", "exec", "exit", "export", "false", "fc",
	"fg", "float", "functions", "getln", "getopts", "hash", "history",
	"integer", "jobs", "kill", "let", "limit", "local", "log", "logout",
	"noglob", "popd", "print", "printf", "private", "pushd", "pushln",
	"pwd", "r", "read", "readonly", "rehash", "return", "sched", "set",
	"setopt", "shift", "source", "suspend", "test", "times", "trap",
	"true", "ttyctl", "type", "typeset", "ulimit", "umask", "unalias",
	"unfunction", "unhash", "unlimit", "unset", "unsetopt", "vared",
	"wait", "whence", "where", "which", "zcompile", "zformat", "zle",
	"zmodload", "zparseopts", "zregexparse", "zstyle",
})

func sortedCopy(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}

// Builtins returns the sorted, de-duplicated builtin name list for shell.
func Builtins(shell Shell) []string {
	switch shell {
	case Bash:
		return bashBuiltins
	case Zsh:
		return zshBuiltins
	default:
		return posixBuiltins
	}
}
