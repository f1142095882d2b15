package synth

import (
	"fmt"

	"standin-generator/internal/diagnostic"
	"standin-generator/internal/model"
)

// GenerationError reports a stand-in whose synthesis failed after composition.
type GenerationError struct {
	// Name is the stand-in name.
	Name string
	// Stage names the failing stage, if any.
	Stage string
	Phase Phase
	Err   error
}

// Error implements error.
func (e *GenerationError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("generate %s: %v", e.Name, e.Err)
	}

	return fmt.Sprintf("generate %s: %s stage %q: %v", e.Name, e.Phase, e.Stage, e.Err)
}

// Unwrap returns the stage error.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Diagnostic converts the error into an ST012 diagnostic for set.
func (e *GenerationError) Diagnostic(set model.TargetTypeSet) diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		Severity:  diagnostic.DiagnosticError,
		Code:      diagnostic.CodeGenerationFailed,
		Message:   e.Error(),
		TargetSet: set.String(),
	}
}
