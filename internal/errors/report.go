package errors

import (
	"encoding/json"
	"errors"

	"github.com/duality-lang/duality/internal/ast"
)

// reportSchema versions the JSON shape Report serializes to, so a
// consuming tool can tell which fields to expect without sniffing.
const reportSchema = "duality.error/v1"

// Report is the structured diagnostic every phase of the kernel
// produces instead of a bare error string.
type Report struct {
	Schema  string         `json:"schema"`
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    *ast.Span      `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
}

// Fix is an optional suggested remedy attached to a Report, with a
// confidence in [0, 1].
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// ReportError wraps a Report so it can travel through an error chain
// and still be recovered with AsReport.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "duality: unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport extracts a Report from err's chain, if one is present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps r as an error. Callers that need to return a Report
// through an (error) signature use this rather than fmt.Errorf, so the
// structure survives to whatever eventually calls AsReport.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON renders r with deterministic key order (struct fields in
// declaration order, map keys sorted); compact selects single-line vs.
// indented output.
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

// NewGeneric builds a Report for a failure that didn't originate from
// one of the kernel's own code-tagged diagnostics.
func NewGeneric(phase string, err error) *Report {
	return &Report{
		Schema:  reportSchema,
		Code:    "GENERIC",
		Phase:   phase,
		Message: err.Error(),
		Data:    map[string]any{},
	}
}

func newReport(code, phase, message string, span *ast.Span) *Report {
	return &Report{Schema: reportSchema, Code: code, Phase: phase, Message: message, Span: span}
}
