package external

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shellls/shellls/internal/shellkind"
)

func TestHelpDispatchesToBashBuiltin(t *testing.T) {
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available in this environment")
	}
	text, ok := Help(shellkind.Bash, "cd")
	require.True(t, ok)
	assert.NotEmpty(t, text)
}

func TestHelpUnknownBuiltinFails(t *testing.T) {
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available in this environment")
	}
	_, ok := Help(shellkind.Bash, "definitely-not-a-builtin")
	assert.False(t, ok)
}
