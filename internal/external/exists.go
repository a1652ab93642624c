package external

import "os/exec"

// Exists probes whether name is an invocable executable by asking it to
// report its own version. The adapters do not call it themselves; the
// server runs it when probing which integrations are available.
func Exists(name string) bool {
	cmd := exec.Command(name, "--version")
	cmd.Stdin = nil
	return cmd.Run() == nil
}
