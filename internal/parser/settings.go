package parser

import "github.com/shellls/shellls/internal/shellkind"

// Environment is the pre-computed environment data the parser seeds symbol
// tables from. PATH enumeration and process-environment probing are out of
// scope for the parser itself; internal/env produces this value and
// internal/document passes it in.
type Environment struct {
	// Variables lists process environment variable names to seed as
	// Environment-scoped Variable symbols. Nil when environment.variables
	// is disabled.
	Variables []string
	// Executables lists PATH executable names to seed as Command symbols.
	// Nil when environment.executables is disabled.
	Executables []string
}

// Settings configures a single Parse call.
type Settings struct {
	DefaultShell shellkind.Shell
	Environment  Environment
}
