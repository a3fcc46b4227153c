package analysis

import "github.com/satyls/satyls/cst"

// DiagnosticSeverity mirrors the LSP severities.
type DiagnosticSeverity int

// Severities.
const (
	SeverityError DiagnosticSeverity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

// Diagnostic codes.
const (
	CodeParseError         = "parse-error"
	CodeInvariantViolation = "invariant-violation"
)

// Source is the diagnostic source reported to clients.
const Source = "satyls"

// Diagnostic is a problem found in a document.
type Diagnostic struct {
	Range    cst.Range
	Severity DiagnosticSeverity
	Message  string
	Code     string
	Source   string
}

func invariantDiagnostic(r cst.Range, msg string) Diagnostic {
	return Diagnostic{
		Range:    r,
		Severity: SeverityError,
		Message:  msg,
		Code:     CodeInvariantViolation,
		Source:   Source,
	}
}
