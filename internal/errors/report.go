package errors

import (
	"encoding/json"
	"errors"

	"github.com/sunholo/deplang/internal/ast"
)

// Report is the canonical structured error type for deplang.
// The error builders return an error holding a *Report wrapped as a
// *ReportError, so the structure survives an errors.As unwrap at the
// rendering layer.
type Report struct {
	Schema  string         `json:"schema"`        // Always "deplang.error/v1"
	Code    string         `json:"code"`          // Error code (TC002, LEX005, ...)
	Phase   string         `json:"phase"`         // Phase: "lexer", "parser", "typecheck", "eval"
	Message string         `json:"message"`       // Human-readable message
	Pos     *ast.Pos       `json:"pos,omitempty"` // Source location (optional)
	Data    map[string]any `json:"data,omitempty"`
}

// Schema version for all reports.
const SchemaVersion = "deplang.error/v1"

// ReportError wraps a Report as an error.
type ReportError struct {
	Rep *Report
}

// Error implements the error interface.
func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	if e.Rep.Pos != nil {
		return e.Rep.Pos.String() + ": " + e.Rep.Code + ": " + e.Rep.Message
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport attempts to extract a Report from an error chain.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// New builds a Report and wraps it as an error in one step.
func New(code, phase, message string, pos *ast.Pos) error {
	return &ReportError{Rep: &Report{
		Schema:  SchemaVersion,
		Code:    code,
		Phase:   phase,
		Message: message,
		Pos:     pos,
	}}
}

// WithData builds a Report carrying structured context for downstream rendering.
func WithData(code, phase, message string, pos *ast.Pos, data map[string]any) error {
	return &ReportError{Rep: &Report{
		Schema:  SchemaVersion,
		Code:    code,
		Phase:   phase,
		Message: message,
		Pos:     pos,
		Data:    data,
	}}
}

// ToJSON converts a Report to JSON (deterministic: fields in declaration
// order, Data keys sorted).
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
