package parser

import (
	"github.com/shellls/shellls/internal/analysis"
	"github.com/shellls/shellls/internal/lexer"
	"github.com/shellls/shellls/internal/protocol"
	"github.com/shellls/shellls/internal/shellkind"
	"github.com/shellls/shellls/internal/source"
)

// funcState is the single scope frame pushed while parsing a function body.
// Function nesting is not legal shell, so the stack never holds more than
// one frame in practice; it is still a stack so extractFunction can push
// and pop symmetrically without a special case.
type funcState struct {
	id     analysis.FunctionId
	locals map[string]analysis.SymbolId
	params map[int]analysis.SymbolId
}

// ctx is the mutable state threaded through a single Parse call.
type ctx struct {
	text  string
	lex   *lexer.Lexer
	info  *analysis.DocumentInfo
	shell shellkind.Shell

	globals   map[string]analysis.SymbolId // script-scope variables + seeded specials/env
	namespace map[string]analysis.SymbolId // functions + commands + builtins, one namespace

	funcStack   []*funcState
	scriptParam map[int]analysis.SymbolId
	special0    *analysis.SymbolId
	errSymbol   *analysis.SymbolId

	pending pendingAnnotations
}

// pendingAnnotations holds ##@ documentation mined ahead of the symbol it
// describes. Only the next symbol defined consumes it; a statement that
// defines several names (e.g. "local a b c") only the first gets it.
type pendingAnnotations struct {
	description string
	hasDesc     bool
	params      []source.Annotation
	exit        string
	hasExit     bool
	stdin       string
	hasStdin    bool
	stdout      string
	hasStdout   bool
	stderr      string
	hasStderr   bool
}

func (p *pendingAnnotations) clear() {
	*p = pendingAnnotations{}
}

func (p *pendingAnnotations) takeDescription() (string, bool) {
	if !p.hasDesc {
		return "", false
	}
	d := p.description
	p.description, p.hasDesc = "", false
	return d, true
}

func newCtx(text string, settings Settings) *ctx {
	c := &ctx{
		text:        text,
		lex:         lexer.New(text),
		info:        &analysis.DocumentInfo{Shell: settings.DefaultShell},
		shell:       settings.DefaultShell,
		globals:     make(map[string]analysis.SymbolId),
		namespace:   make(map[string]analysis.SymbolId),
		scriptParam: make(map[int]analysis.SymbolId),
	}
	c.seedEnvironment(settings.Environment)
	return c
}

func (c *ctx) seedEnvironment(env Environment) {
	for _, name := range []string{"@", "*", "?", "-"} {
		c.globals[name] = c.info.AddSymbol(analysis.Symbol{
			Name:    "$" + name,
			Kind:    analysis.KindSpecial,
			Special: specialKindFor(name),
		})
	}
	for _, name := range shellkind.Builtins(c.shell) {
		c.namespace[name] = c.info.AddSymbol(analysis.Symbol{Name: name, Kind: analysis.KindBuiltin})
	}
	for _, name := range env.Variables {
		if _, exists := c.globals[name]; exists {
			continue
		}
		id := c.info.AddSymbol(analysis.Symbol{Name: name, Kind: analysis.KindVariable})
		c.info.Symbols[id].VariableID = c.info.AddVariable(analysis.VariableInfo{Scope: analysis.ScopeEnvironment})
		c.globals[name] = id
	}
	for _, name := range env.Executables {
		if _, exists := c.namespace[name]; exists {
			continue
		}
		c.namespace[name] = c.info.AddSymbol(analysis.Symbol{Name: name, Kind: analysis.KindCommand})
	}
}

func specialKindFor(name string) analysis.SpecialKind {
	switch name {
	case "@":
		return analysis.SpecialAt
	case "*":
		return analysis.SpecialStar
	case "?":
		return analysis.SpecialStatus
	case "-":
		return analysis.SpecialDash
	default:
		return analysis.SpecialArgv0
	}
}

func (c *ctx) diag(r protocol.Range, sev protocol.Severity, msg string) {
	c.info.Diagnostics = append(c.info.Diagnostics, protocol.NewDiagnostic(r, sev, msg))
}

func (c *ctx) errorf(r protocol.Range, msg string) {
	c.diag(r, protocol.SeverityError, msg)
}

func (c *ctx) warnf(r protocol.Range, msg string) {
	c.diag(r, protocol.SeverityWarning, msg)
}

// inFunction reports the active function frame, if any.
func (c *ctx) inFunction() *funcState {
	if len(c.funcStack) == 0 {
		return nil
	}
	return c.funcStack[len(c.funcStack)-1]
}

func (c *ctx) pushFunction(id analysis.FunctionId) *funcState {
	f := &funcState{id: id, locals: make(map[string]analysis.SymbolId), params: make(map[int]analysis.SymbolId)}
	c.funcStack = append(c.funcStack, f)
	return f
}

func (c *ctx) popFunction() {
	c.funcStack = c.funcStack[:len(c.funcStack)-1]
}

// errorSymbolID lazily creates the single shared Error-kind symbol used for
// malformed positional-parameter references.
func (c *ctx) errorSymbolID() analysis.SymbolId {
	if c.errSymbol == nil {
		id := c.info.AddSymbol(analysis.Symbol{Name: "<error>", Kind: analysis.KindError})
		c.errSymbol = &id
	}
	return *c.errSymbol
}

// lookupVariable resolves name against the active function's locals, then
// script-global scope, without creating anything.
func (c *ctx) lookupVariable(name string) (analysis.SymbolId, bool) {
	if f := c.inFunction(); f != nil {
		if id, ok := f.locals[name]; ok {
			return id, true
		}
	}
	id, ok := c.globals[name]
	return id, ok
}

// getOrCreateVariable resolves name for a read, creating a new Global-scope
// Variable symbol on first sight with no Write reference yet.
func (c *ctx) getOrCreateVariable(name string) analysis.SymbolId {
	if id, ok := c.lookupVariable(name); ok {
		return id
	}
	id := c.info.AddSymbol(analysis.Symbol{Name: name, Kind: analysis.KindVariable})
	c.info.Symbols[id].VariableID = c.info.AddVariable(analysis.VariableInfo{Scope: analysis.ScopeGlobal})
	c.globals[name] = id
	return id
}

// defineLocal creates a Local-scope variable in the active function frame
// (or, if called outside one, falls back to a global - extractLocal already
// diagnoses that case before calling this).
func (c *ctx) defineLocal(name string) analysis.SymbolId {
	id := c.info.AddSymbol(analysis.Symbol{Name: name, Kind: analysis.KindVariable})
	c.info.Symbols[id].VariableID = c.info.AddVariable(analysis.VariableInfo{Scope: analysis.ScopeLocal})
	if f := c.inFunction(); f != nil {
		f.locals[name] = id
	} else {
		c.globals[name] = id
	}
	return id
}

// getOrCreateCommand resolves name in the unified function/command/builtin
// namespace, creating a new Command symbol on first sight.
func (c *ctx) getOrCreateCommand(name string) analysis.SymbolId {
	if id, ok := c.namespace[name]; ok {
		return id
	}
	id := c.info.AddSymbol(analysis.Symbol{Name: name, Kind: analysis.KindCommand})
	c.namespace[name] = id
	return id
}
