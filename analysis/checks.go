package analysis

import (
	"fmt"

	"github.com/satyls/satyls"
)

// Check is a semantic check run on successfully parsed documents.
type Check struct {
	// Name is a short identifier used as the diagnostic code.
	Name string

	// Doc is a brief description of what the check reports.
	Doc string

	// Severity is the severity of diagnostics from this check.
	Severity DiagnosticSeverity

	// Run appends diagnostics to the document.
	Run func(d *Document)
}

// DefaultChecks returns all built-in checks.
func DefaultChecks() []*Check {
	return []*Check{
		duplicateRequireCheck,
		redefinedCommandCheck,
	}
}

// Check codes.
const (
	CodeDuplicateRequire = "duplicate-require"
	CodeRedefinedCommand = "redefined-command"
)

// ----------------------------------------------------------------------------
// Check: duplicate-require
// ----------------------------------------------------------------------------

var duplicateRequireCheck = &Check{
	Name:     CodeDuplicateRequire,
	Doc:      "Reports packages that are required or imported more than once.",
	Severity: SeverityWarning,
	Run:      checkDuplicateRequires,
}

func checkDuplicateRequires(d *Document) {
	if d.Tree == nil {
		return
	}

	seen := make(map[string]bool)

	for _, pkg := range d.Tree.Pickup(satyls.RulePkgName) {
		name := d.Substring(pkg)
		if !seen[name] {
			seen[name] = true

			continue
		}

		d.Diagnostics = append(d.Diagnostics, Diagnostic{
			Range:    pkg.Range,
			Severity: SeverityWarning,
			Message:  "package already loaded: " + name,
			Code:     CodeDuplicateRequire,
			Source:   Source,
		})
	}
}

// ----------------------------------------------------------------------------
// Check: redefined-command
// ----------------------------------------------------------------------------

var redefinedCommandCheck = &Check{
	Name:     CodeRedefinedCommand,
	Doc:      "Reports commands defined again later in the same document.",
	Severity: SeverityHint,
	Run:      checkRedefinedCommands,
}

func checkRedefinedCommands(d *Document) {
	env := d.Environment()

	for _, kind := range []SymbolKind{SymbolInlineCommand, SymbolBlockCommand, SymbolMathCommand} {
		symbols := env.All(kind)

		for _, sym := range symbols {
			latest, _ := env.Latest(kind, sym.Name)
			if latest.Range == sym.Range {
				continue
			}

			d.Diagnostics = append(d.Diagnostics, Diagnostic{
				Range:    sym.Range,
				Severity: SeverityHint,
				Message:  fmt.Sprintf("%s is redefined at line %d", sym.Name, latest.Range.Start.Line+1),
				Code:     CodeRedefinedCommand,
				Source:   Source,
			})
		}
	}
}
