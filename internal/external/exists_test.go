package external

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExistsFalseForUnknownBinary(t *testing.T) {
	assert.False(t, Exists("definitely-not-a-real-binary"))
}

func TestExistsTrueForCommonBinary(t *testing.T) {
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available in this environment")
	}
	assert.True(t, Exists("bash"))
}
