package diag

import (
	"sysyplus/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit replaces Span with NewText. An empty span is an insertion.
type FixEdit struct {
	Span    source.Span
	NewText string
}

type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
