package external

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shellls/shellls/internal/config"
	"github.com/shellls/shellls/internal/shellkind"
)

func TestShfmtDialectFlagKnownShells(t *testing.T) {
	flag, ok := shfmtDialectFlag(shellkind.Ksh, config.Shfmt{})
	assert.True(t, ok)
	assert.Equal(t, "-ln=mksh", flag)

	flag, ok = shfmtDialectFlag(shellkind.Bash, config.Shfmt{})
	assert.True(t, ok)
	assert.Equal(t, "-ln=bash", flag)

	flag, ok = shfmtDialectFlag(shellkind.Posix, config.Shfmt{})
	assert.True(t, ok)
	assert.Equal(t, "-p", flag)
}

func TestShfmtDialectFlagUnknownShellRespectsPosixFallback(t *testing.T) {
	flag, ok := shfmtDialectFlag(shellkind.Zsh, config.Shfmt{PosixFallback: true})
	assert.True(t, ok)
	assert.Equal(t, "-p", flag)

	_, ok = shfmtDialectFlag(shellkind.Zsh, config.Shfmt{PosixFallback: false})
	assert.False(t, ok)
}
