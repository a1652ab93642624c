// Package commands wires the shellls binary's cobra command tree: serving
// the language server is the root command's default action, with version
// as the only subcommand.
package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
)

// NewRootCommand builds the shellls command tree. Running the binary with
// no subcommand starts the server.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "shellls",
		Short: "Language server for POSIX, bash, zsh, and ksh scripts",
		Long: color.CyanString(`shellls - a shell script language server

Speaks the Language Server Protocol over stdin/stdout: diagnostics,
hover, go-to-definition, references, rename, completion, document
symbols, semantic tokens, inlay hints, code actions, and formatting,
backed by optional shellcheck/shfmt/man/help integrations.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	bindServeFlags(root)
	root.AddCommand(newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			valueColor := color.New(color.FgWhite)
			titleColor.Print("shellls version: ")
			valueColor.Println(Version)
			titleColor.Print("Git commit: ")
			valueColor.Println(GitCommit)
		},
	}
}

// Execute runs the command tree and returns the process exit code to use.
func Execute() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		if code, ok := exitCodeOf(err); ok {
			return code
		}
		return cliMisuseExitCode
	}
	return lastExitCode
}
