package diag

import (
	"zenc/internal/source"
)

// Note attaches a related span to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one user-facing problem. Diagnostics are accumulated, never
// raised as control flow.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}
