// Package config models the server's settings: the discrete CLI flags and
// the JSON blob accepted via initialize's initializationOptions /
// workspace/didChangeConfiguration, unified into one Settings value. Flag
// binding layers discrete flags over a settings-json base via viper.
package config

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/shellls/shellls/internal/shellkind"
)

// Shellcheck controls the shellcheck integration.
type Shellcheck struct {
	Enable        bool     `json:"enable" mapstructure:"enable"`
	PosixFallback bool     `json:"posixFallback" mapstructure:"posix-fallback"`
	Arguments     []string `json:"arguments" mapstructure:"arguments"`
}

// Shfmt controls the shfmt integration.
type Shfmt struct {
	Enable        bool     `json:"enable" mapstructure:"enable"`
	PosixFallback bool     `json:"posixFallback" mapstructure:"posix-fallback"`
	Arguments     []string `json:"arguments" mapstructure:"arguments"`
}

// Help controls the shell builtin `help`/`run-help` integration.
type Help struct {
	Enable bool `json:"enable" mapstructure:"enable"`
}

// Man controls the `man` integration.
type Man struct {
	Enable    bool     `json:"enable" mapstructure:"enable"`
	Arguments []string `json:"arguments" mapstructure:"arguments"`
}

// Integrate groups every external-tool integration's settings.
type Integrate struct {
	Shellcheck Shellcheck `json:"shellcheck" mapstructure:"shellcheck"`
	Shfmt      Shfmt      `json:"shfmt" mapstructure:"shfmt"`
	Help       Help       `json:"help" mapstructure:"help"`
	Man        Man        `json:"man" mapstructure:"man"`
}

// Environment controls what internal/env is allowed to seed symbol tables
// from.
type Environment struct {
	Path        []string `json:"path" mapstructure:"path"`
	Variables   bool     `json:"variables" mapstructure:"variables"`
	Executables bool     `json:"executables" mapstructure:"executables"`
}

// Settings is the full, unified configuration surface of the server.
type Settings struct {
	Integrate    Integrate   `json:"integrate" mapstructure:"integrate"`
	Environment  Environment `json:"environment" mapstructure:"environment"`
	DefaultShell string      `json:"defaultShell" mapstructure:"default-shell"`
}

// Shell resolves DefaultShell to a shellkind.Shell, defaulting to Posix
// when it's empty or unrecognized.
func (s Settings) Shell() shellkind.Shell {
	sh, err := shellkind.ParseName(s.DefaultShell)
	if err != nil {
		return shellkind.Posix
	}
	return sh
}

// Defaults returns the settings every field resolves to absent any
// configuration.
func Defaults() Settings {
	return Settings{
		Integrate: Integrate{
			Shellcheck: Shellcheck{Enable: true, PosixFallback: true},
			Shfmt:      Shfmt{Enable: true, PosixFallback: true},
			Help:       Help{Enable: true},
			Man:        Man{Enable: true},
		},
		Environment: Environment{Variables: true, Executables: true},
	}
}

// Cmdline is the fully resolved command-line invocation: the CLI-only
// --debug switch plus the settings surface.
type Cmdline struct {
	Debug    bool
	Settings Settings
}

// BindFlags registers the discrete settings flags on cmd's flag set,
// mirroring the JSON schema one flag per leaf field. Settings may be
// supplied as discrete flags or as one --settings-json blob.
func BindFlags(flags *pflag.FlagSet) {
	d := Defaults()
	flags.Bool("debug", false, "echo raw framed RPC messages to stderr")
	flags.String("default-shell", "", "shell dialect to assume absent a shebang (posix, bash, zsh, ksh, csh, tcsh)")
	flags.Bool("shellcheck.enable", d.Integrate.Shellcheck.Enable, "enable the shellcheck integration")
	flags.Bool("shellcheck.posix-fallback", d.Integrate.Shellcheck.PosixFallback, "fall back to POSIX mode for unrecognized shells")
	flags.StringSlice("shellcheck.arguments", nil, "extra arguments passed to shellcheck")
	flags.Bool("shfmt.enable", d.Integrate.Shfmt.Enable, "enable the shfmt integration")
	flags.Bool("shfmt.posix-fallback", d.Integrate.Shfmt.PosixFallback, "fall back to POSIX mode for unrecognized shells")
	flags.StringSlice("shfmt.arguments", nil, "extra arguments passed to shfmt")
	flags.Bool("help.enable", d.Integrate.Help.Enable, "enable the shell builtin help integration")
	flags.Bool("man.enable", d.Integrate.Man.Enable, "enable the man integration")
	flags.StringSlice("man.arguments", nil, "extra arguments passed to man")
	flags.StringSlice("environment.path", nil, "override PATH directories used for executable discovery")
	flags.Bool("environment.variables", d.Environment.Variables, "seed known environment variable names")
	flags.Bool("environment.executables", d.Environment.Executables, "seed known PATH executable names")
	flags.String("settings-json", "", "a JSON settings blob, overridden field-by-field by any discrete flag also given")
}

// FromViper resolves a Cmdline from flags already bound into v via
// BindFlags. --settings-json, if given, is the base layer; any discrete
// flag the caller also set explicitly (flags.Changed) overrides its
// corresponding field, on the theory that a discrete flag is a more
// specific instruction than a blob that may have been generated once and
// reused across invocations.
func FromViper(v *viper.Viper, flags *pflag.FlagSet) (Cmdline, error) {
	settings := Defaults()
	if raw := v.GetString("settings-json"); raw != "" {
		parsed, err := FromJSON([]byte(raw))
		if err != nil {
			return Cmdline{}, fmt.Errorf("parsing --settings-json: %w", err)
		}
		settings = parsed
	}

	applyChangedFlags(&settings, v, flags)

	return Cmdline{Debug: v.GetBool("debug"), Settings: settings}, nil
}

// applyChangedFlags overrides settings with every discrete flag the user
// explicitly passed on the command line, leaving flags left at their
// default (and therefore not overriding --settings-json) alone.
func applyChangedFlags(settings *Settings, v *viper.Viper, flags *pflag.FlagSet) {
	changed := func(name string) bool { return flags != nil && flags.Changed(name) }

	if changed("default-shell") {
		settings.DefaultShell = v.GetString("default-shell")
	}
	if changed("shellcheck.enable") {
		settings.Integrate.Shellcheck.Enable = v.GetBool("shellcheck.enable")
	}
	if changed("shellcheck.posix-fallback") {
		settings.Integrate.Shellcheck.PosixFallback = v.GetBool("shellcheck.posix-fallback")
	}
	if changed("shellcheck.arguments") {
		settings.Integrate.Shellcheck.Arguments = v.GetStringSlice("shellcheck.arguments")
	}
	if changed("shfmt.enable") {
		settings.Integrate.Shfmt.Enable = v.GetBool("shfmt.enable")
	}
	if changed("shfmt.posix-fallback") {
		settings.Integrate.Shfmt.PosixFallback = v.GetBool("shfmt.posix-fallback")
	}
	if changed("shfmt.arguments") {
		settings.Integrate.Shfmt.Arguments = v.GetStringSlice("shfmt.arguments")
	}
	if changed("help.enable") {
		settings.Integrate.Help.Enable = v.GetBool("help.enable")
	}
	if changed("man.enable") {
		settings.Integrate.Man.Enable = v.GetBool("man.enable")
	}
	if changed("man.arguments") {
		settings.Integrate.Man.Arguments = v.GetStringSlice("man.arguments")
	}
	if changed("environment.path") {
		settings.Environment.Path = v.GetStringSlice("environment.path")
	}
	if changed("environment.variables") {
		settings.Environment.Variables = v.GetBool("environment.variables")
	}
	if changed("environment.executables") {
		settings.Environment.Executables = v.GetBool("environment.executables")
	}
}

// FromJSON parses a settings blob (initializationOptions or
// --settings-json), layering it over Defaults so omitted fields keep their
// default rather than zeroing out.
func FromJSON(raw []byte) (Settings, error) {
	settings := Defaults()
	if len(raw) == 0 {
		return settings, nil
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}
