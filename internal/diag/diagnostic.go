package diag

// Diagnostic is a single error or warning anchored to a Span. Diagnostics
// are accumulated in flight during lexing and parsing and emitted in
// batch by a Formatter.
type Diagnostic struct {
	Span    Span
	IsError bool
	Message string
	Label   string
	Hint    string // empty means "no hint"
}

// Error constructs an error-severity diagnostic.
func Error(span Span, message, label, hint string) Diagnostic {
	return Diagnostic{Span: span, IsError: true, Message: message, Label: label, Hint: hint}
}

// Warn constructs a warning-severity diagnostic.
func Warn(span Span, message, label, hint string) Diagnostic {
	return Diagnostic{Span: span, IsError: false, Message: message, Label: label, Hint: hint}
}

// HasErrors reports whether any diagnostic in diags is error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.IsError {
			return true
		}
	}
	return false
}
