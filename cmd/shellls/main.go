// Command shellls is a language server for POSIX, bash, zsh, and ksh
// scripts, speaking LSP over stdin/stdout.
package main

import (
	"os"

	"github.com/shellls/shellls/internal/cli/commands"
)

func main() {
	os.Exit(commands.Execute())
}
