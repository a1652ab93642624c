package source

// Annotation is documentation mined from a `##@` comment. It is
// either a view into the source text (the common case) or a static string
// synthesized for a builtin that has no comment to point at.
type Annotation struct {
	view   View
	static string
	text   string // set only for a static annotation; a view is resolved on each Resolve call
}

// ViewAnnotation wraps a source view as an annotation.
func ViewAnnotation(v View) Annotation {
	return Annotation{view: v}
}

// StaticAnnotation wraps a literal string as an annotation (builtins have no
// source range to mine documentation from).
func StaticAnnotation(s string) Annotation {
	return Annotation{static: s, text: s}
}

// IsView reports whether the annotation is backed by a source view.
func (a Annotation) IsView() bool {
	return a.static == "" && a.view.End > a.view.Start
}

// View returns the underlying view, if any.
func (a Annotation) View() View {
	return a.view
}

// Resolve returns the annotation's text against the given document text.
func (a Annotation) Resolve(text string) string {
	if a.static != "" {
		return a.static
	}
	return a.view.String(text)
}
