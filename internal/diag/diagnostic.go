package diag

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/GriffinCanCode/gradualtype/internal/ast"
)

// Diagnostic is the structured value every analysis phase produces
// instead of a bare error: a stable Code, the Phase that raised
// it, a human Message, an optional source Span, and free-form Data for
// structured context (e.g. the mismatched types, by name).
type Diagnostic struct {
	Code        Code           `json:"code"`
	Phase       Phase          `json:"phase"`
	Message     string         `json:"message"`
	File        string         `json:"file,omitempty"`
	Location    *ast.LineCol   `json:"location,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
}

// Error satisfies the error interface, so a Diagnostic can travel
// ReportError.Error() pattern.
func (d Diagnostic) Error() string {
	if d.File != "" && d.Location != nil {
		return fmt.Sprintf("%s:%d:%d: %s [%s]", d.File, d.Location.Line, d.Location.Col, d.Message, d.Code)
	}
	return fmt.Sprintf("%s [%s]", d.Message, d.Code)
}

// MarshalJSON serializes with sorted map keys (encoding/json already
// sorts map[string]any keys) so two runs over identical input produce
// byte-identical JSON, satisfying the idempotence property.
func (d Diagnostic) MarshalJSON() ([]byte, error) {
	type alias Diagnostic
	return json.Marshal(alias(d))
}

// diagError wraps a Diagnostic so errors.As can recover it from an
// arbitrary error chain.
type diagError struct{ d Diagnostic }

func (e *diagError) Error() string { return e.d.Error() }

// WrapError turns a Diagnostic into a plain error for APIs that expect
// one.
func WrapError(d Diagnostic) error { return &diagError{d: d} }

// AsDiagnostic extracts a Diagnostic from err if it (or something in
// its chain) carries one.
func AsDiagnostic(err error) (Diagnostic, bool) {
	var de *diagError
	if errors.As(err, &de) {
		return de.d, true
	}
	return Diagnostic{}, false
}
