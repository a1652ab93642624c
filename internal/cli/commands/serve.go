package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/shellls/shellls/internal/config"
	"github.com/shellls/shellls/internal/server"
)

const cliMisuseExitCode = 3

// lastExitCode carries the dispatcher loop's exit code out of RunE, since
// cobra's Execute only reports success/failure, not a numeric code.
var lastExitCode int

// exitError wraps a process exit code so Execute can recover it from the
// error cobra returns.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit code %d", e.code) }

func exitCodeOf(err error) (int, bool) {
	if e, ok := err.(*exitError); ok {
		return e.code, true
	}
	return 0, false
}

func bindServeFlags(cmd *cobra.Command) {
	config.BindFlags(cmd.Flags())
	cmd.Flags().BoolP("version", "v", false, "print version and exit")
}

func runServe(cmd *cobra.Command, args []string) error {
	if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
		newVersionCommand().Run(cmd, nil)
		return nil
	}

	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return &exitError{code: cliMisuseExitCode}
	}

	cmdline, err := config.FromViper(v, cmd.Flags())
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return &exitError{code: cliMisuseExitCode}
	}

	logger, err := newLogger(cmdline.Debug)
	if err != nil {
		return &exitError{code: cliMisuseExitCode}
	}
	defer logger.Sync()

	srv := server.New(cmdline.Settings, cmdline.Debug, logger, os.Stdout)
	lastExitCode = int(srv.Serve(os.Stdin))
	if lastExitCode != 0 {
		return &exitError{code: lastExitCode}
	}
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
