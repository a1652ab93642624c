package external

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shellls/shellls/internal/shellkind"
)

// TestManMissingBinaryReturnsFalse exercises the failure path without
// depending on man actually being installed in the test environment.
func TestManMissingBinaryReturnsFalse(t *testing.T) {
	text, ok := Man(shellkind.Posix, "definitely-not-a-real-binary", "ls", nil)
	assert.False(t, ok)
	assert.Empty(t, text)
}
