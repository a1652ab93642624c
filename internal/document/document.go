// Package document holds open documents and the shared settings under
// which they are analyzed. Text is mutated in place by Edit, which maps a
// Range to a byte span by walking Unicode scalar values: Position.Character
// counts runes, not UTF-16 code units.
package document

import (
	"github.com/shellls/shellls/internal/analysis"
	"github.com/shellls/shellls/internal/env"
	"github.com/shellls/shellls/internal/parser"
	"github.com/shellls/shellls/internal/protocol"
	"github.com/shellls/shellls/internal/shellkind"
)

// Document is one open file: its live text and the semantic index of its
// most recent analysis.
type Document struct {
	Text string
	Info *analysis.DocumentInfo
}

// New creates a Document and analyzes it immediately.
func New(text string, settings parser.Settings) *Document {
	d := &Document{Text: text}
	d.Analyze(settings)
	return d
}

// Analyze reparses the document's current text.
func (d *Document) Analyze(settings parser.Settings) {
	d.Info = parser.Parse(d.Text, settings)
}

// Edit replaces the text in rng with newText, then the caller is expected
// to call Analyze to refresh the semantic index (this server uses full
// document sync, so didChange typically replaces Text wholesale instead -
// Edit exists for range-based edits and for test coverage of the mapping).
func (d *Document) Edit(rng protocol.Range, newText string) {
	begin, end := textRange(d.Text, rng)
	d.Text = d.Text[:begin] + newText + d.Text[end:]
}

// textRange maps an LSP Range to a [begin, end) byte span of text by
// walking runes to count code points the way Position.Character does.
func textRange(text string, rng protocol.Range) (int, int) {
	runes := []rune(text)

	line, idx := uint32(0), 0
	for line < rng.Start.Line && idx < len(runes) {
		if runes[idx] == '\n' {
			line++
		}
		idx++
	}

	col := uint32(0)
	for col < rng.Start.Character && idx < len(runes) {
		idx++
		col++
	}

	begin := runeIndexToByte(text, idx)
	pos := rng.Start
	for pos.Less(rng.End) && idx < len(runes) {
		pos.Advance(runes[idx])
		idx++
	}
	end := runeIndexToByte(text, idx)

	return begin, end
}

func runeIndexToByte(text string, runeIdx int) int {
	n := 0
	for i := range text {
		if n == runeIdx {
			return i
		}
		n++
	}
	return len(text)
}

// Database holds every currently-open document, keyed by URI.
type Database struct {
	Documents map[protocol.DocumentURI]*Document
	Settings  func() parser.Settings
	PathDirs  []string
}

// NewDatabase creates an empty document store. settingsFn is called fresh
// for each (re)analysis so configuration changes (workspace/
// didChangeConfiguration) take effect on the next edit without needing to
// re-open documents.
func NewDatabase(settingsFn func() parser.Settings) *Database {
	return &Database{Documents: make(map[protocol.DocumentURI]*Document), Settings: settingsFn}
}

// Open registers a newly opened document and analyzes it.
func (db *Database) Open(uri protocol.DocumentURI, text string) *Document {
	d := New(text, db.Settings())
	db.Documents[uri] = d
	return d
}

// Close removes a document. State tied to the URI is never reused or
// recycled - the entry is simply dropped, and a subsequent didOpen
// analyzes fresh.
func (db *Database) Close(uri protocol.DocumentURI) {
	delete(db.Documents, uri)
}

// Get returns the open document for uri, if any.
func (db *Database) Get(uri protocol.DocumentURI) (*Document, bool) {
	d, ok := db.Documents[uri]
	return d, ok
}

// BuildEnvironment resolves the parser.Environment to seed new analyses
// with, honoring the environment.variables/executables toggles and a
// configured PATH override (internal/config, internal/env).
func BuildEnvironment(variables, executables bool, pathDirs []string) parser.Environment {
	var e parser.Environment
	if variables {
		e.Variables = env.Variables()
	}
	if executables {
		dirs := pathDirs
		if dirs == nil {
			dirs = env.PathDirectories()
		}
		seen := make(map[string]bool)
		for _, dir := range dirs {
			for _, name := range env.ExecutableNames(dir) {
				if !seen[name] {
					seen[name] = true
					e.Executables = append(e.Executables, name)
				}
			}
		}
	}
	return e
}

// DefaultSettings builds the parser.Settings a freshly configured server
// analyzes every document with, given the resolved default shell.
func DefaultSettings(shell shellkind.Shell, environment parser.Environment) parser.Settings {
	return parser.Settings{DefaultShell: shell, Environment: environment}
}
