package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shellls/shellls/internal/analysis"
)

func TestBraceExpansionResolvesTheEnclosedName(t *testing.T) {
	info := parse(t, "x=1\necho \"${x}\"\n")

	_, ok := findVariable(info, "x")
	require.True(t, ok)

	sid, ok := findSymbolID(info, "x")
	require.True(t, ok)

	var reads int
	for _, ref := range info.References {
		if ref.SymbolID == sid && ref.Kind == analysis.Read {
			reads++
		}
	}
	assert.Equal(t, 1, reads)
}

func TestBraceExpansionMissingNameIsDiagnosed(t *testing.T) {
	info := parse(t, "echo \"${}\"\n")
	assert.NotEmpty(t, info.Diagnostics)
}

func TestBraceExpansionMissingClosingBraceIsDiagnosed(t *testing.T) {
	info := parse(t, "echo \"${x\"\n")
	assert.NotEmpty(t, info.Diagnostics)
}

func TestCommandSubstitutionRecursesIntoStatementGrammar(t *testing.T) {
	info := parse(t, "x=$(echo hi)\n")

	_, ok := findVariable(info, "x")
	assert.True(t, ok)

	sym, ok := findSymbol(info, "echo")
	require.True(t, ok)
	assert.Equal(t, analysis.KindCommand, sym.Kind)
}

func TestUnterminatedCommandSubstitutionIsDiagnosed(t *testing.T) {
	info := parse(t, "x=$(echo hi\n")
	assert.NotEmpty(t, info.Diagnostics)
}

func TestBackQuotedSubstitutionContentsAreOpaque(t *testing.T) {
	info := parse(t, "x=`echo hi`\n")
	assert.Empty(t, info.Diagnostics)

	_, ok := findSymbol(info, "echo")
	assert.False(t, ok, "contents of a backquoted substitution are not analyzed")
}

func TestUnterminatedBackQuoteIsDiagnosed(t *testing.T) {
	info := parse(t, "x=`echo hi\n")
	assert.NotEmpty(t, info.Diagnostics)
}

func TestUnterminatedDoubleQuoteIsDiagnosed(t *testing.T) {
	info := parse(t, "echo \"unterminated\n")
	assert.NotEmpty(t, info.Diagnostics)
}

func TestPositionalParameterAtScriptLevelIsAScriptParameter(t *testing.T) {
	info := parse(t, "echo \"$1\"\n")

	var found bool
	for _, sym := range info.Symbols {
		if sym.Kind == analysis.KindParameter && sym.ParamIndex == 1 && sym.ParamOwner == nil {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPositionalParameterInsideFunctionIsOwnedByThatFunction(t *testing.T) {
	info := parse(t, "greet() {\n  echo \"$1\"\n}\n")

	_, ok := findFunction(info, "greet")
	require.True(t, ok)

	var found bool
	for _, sym := range info.Symbols {
		if sym.Kind == analysis.KindParameter && sym.ParamIndex == 1 && sym.ParamOwner != nil {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDollarZeroResolvesToTheSharedArgv0Symbol(t *testing.T) {
	info := parse(t, "echo \"$0\" \"$0\"\n")

	var count int
	for _, sym := range info.Symbols {
		if sym.Kind == analysis.KindSpecial && sym.Special == analysis.SpecialArgv0 {
			count++
		}
	}
	assert.Equal(t, 1, count, "both $0 occurrences should resolve to one shared symbol")
}

func TestOutOfRangePositionalParameterWarns(t *testing.T) {
	info := parse(t, "echo \"$99999999999999999999\"\n")
	assert.NotEmpty(t, info.Diagnostics)
}

func TestDollarDollarFallsBackToALiteralDollarSignWithNoReference(t *testing.T) {
	info := parse(t, "echo \"$$\"\n")
	assert.Empty(t, info.Diagnostics)
}
