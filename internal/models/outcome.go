// Package models provides the data structures exchanged between the transformation
// client components.
package models

import (
	"fmt"
	"time"

	"fjacquet/reframe-client/internal/transformerror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MessageType tells whether the service produced one or several documents for a request.
type MessageType string

const (
	MessageTypeSingle   MessageType = "single"
	MessageTypeMultiple MessageType = "multiple"
)

// WireShape identifies which of the service's response formats an outcome was decoded from.
type WireShape string

const (
	ShapeXML       WireShape = "xml"       // bare XML body
	ShapeLegacy    WireShape = "legacy"    // {"result": "<xml/>"}
	ShapeVersioned WireShape = "versioned" // {"status": ..., "results": [...]}
	ShapeJSON      WireShape = "json"      // JSON of an unknown shape, shown as-is
	ShapeRaw       WireShape = "raw"       // neither XML nor JSON, shown verbatim
)

// TransformRequest is a single submission of a raw SWIFT MT message.
type TransformRequest struct {
	ID          string    `json:"id"`
	RawMessage  string    `json:"raw_message"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewTransformRequest creates a request with a fresh identifier.
func NewTransformRequest(rawMessage string) TransformRequest {
	return TransformRequest{
		ID:          uuid.NewString(),
		RawMessage:  rawMessage,
		SubmittedAt: time.Now(),
	}
}

// ProcessingInfo is diagnostic metadata reported by the service. It is passed through
// for display and never interpreted.
type ProcessingInfo struct {
	DetectedFormat    string `json:"detected_format"`
	InputSize         int    `json:"input_size"`
	WorkflowsExecuted int    `json:"workflows_executed"`
}

// DocumentSummary holds display metadata extracted from a returned ISO 20022 document.
type DocumentSummary struct {
	Definition string          `json:"definition,omitempty"`
	MessageID  string          `json:"message_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency,omitempty"`
	HasAmount  bool            `json:"has_amount"`
}

// XMLDocument is one document returned by the service. Formatted is derived from Raw.
type XMLDocument struct {
	Raw       string           `json:"raw"`
	Formatted string           `json:"formatted"`
	Position  int              `json:"position,omitempty"` // 1-based, set for multiple results only
	Total     int              `json:"total,omitempty"`
	Summary   *DocumentSummary `json:"summary,omitempty"`
}

// Label returns the display band for the document, e.g. "Document 2 of 3".
func (d XMLDocument) Label() string {
	if d.Position == 0 {
		return ""
	}
	return fmt.Sprintf("Document %d of %d", d.Position, d.Total)
}

// Success carries the documents of a successful transformation. Documents is never empty.
type Success struct {
	Documents      []XMLDocument   `json:"documents"`
	MessageType    MessageType     `json:"message_type"`
	Count          int             `json:"count"`
	Shape          WireShape       `json:"shape"`
	ProcessingInfo *ProcessingInfo `json:"processing_info,omitempty"`
}

// Failure describes why a submission produced no documents.
type Failure struct {
	Kind           transformerror.Kind `json:"kind"`
	Message        string              `json:"message"`
	StatusCode     int                 `json:"status_code,omitempty"`
	ProcessingInfo *ProcessingInfo     `json:"processing_info,omitempty"`
}

// TransformOutcome is the settled result of a submission. Exactly one of Success and
// Failure is set; use Succeeded and Failed to build one.
type TransformOutcome struct {
	Success *Success `json:"success,omitempty"`
	Failure *Failure `json:"failure,omitempty"`
}

// Succeeded wraps s in an outcome.
func Succeeded(s Success) TransformOutcome {
	if s.Count == 0 {
		s.Count = len(s.Documents)
	}
	return TransformOutcome{Success: &s}
}

// Failed builds a failure outcome.
func Failed(kind transformerror.Kind, message string) TransformOutcome {
	return TransformOutcome{Failure: &Failure{Kind: kind, Message: message}}
}

// IsSuccess reports whether the outcome carries documents.
func (o TransformOutcome) IsSuccess() bool {
	return o.Success != nil
}

// Documents returns the documents of a successful outcome, nil otherwise.
func (o TransformOutcome) Documents() []XMLDocument {
	if o.Success == nil {
		return nil
	}
	return o.Success.Documents
}

// ProcessingInfo returns the service metadata attached to either variant.
func (o TransformOutcome) ProcessingInfo() *ProcessingInfo {
	switch {
	case o.Success != nil:
		return o.Success.ProcessingInfo
	case o.Failure != nil:
		return o.Failure.ProcessingInfo
	}
	return nil
}

// Err returns the failure as a *transformerror.Error, or nil for a success.
func (o TransformOutcome) Err() error {
	if o.Failure == nil {
		return nil
	}
	return &transformerror.Error{
		Kind:       o.Failure.Kind,
		Message:    o.Failure.Message,
		StatusCode: o.Failure.StatusCode,
	}
}

// WithDocuments returns a copy of a successful outcome holding docs. The receiver is
// left untouched; failures are returned unchanged.
func (o TransformOutcome) WithDocuments(docs []XMLDocument) TransformOutcome {
	if o.Success == nil {
		return o
	}
	s := *o.Success
	s.Documents = docs
	return TransformOutcome{Success: &s}
}
