// Package interpreter turns raw responses from the transformation service into
// normalized outcomes. It understands every wire format the service has used: a bare
// XML body, the legacy {"result": ...} envelope and the versioned
// {"status", "results", ...} envelope.
package interpreter

import (
	"fmt"
	"net/http"
	"strings"

	"fjacquet/reframe-client/internal/logging"
	"fjacquet/reframe-client/internal/models"
	"fjacquet/reframe-client/internal/transformerror"
)

// DefaultBusinessErrorMessage is shown when a failed envelope carries no error message.
const DefaultBusinessErrorMessage = "Unknown error occurred during processing"

// Interpreter classifies service responses. It is stateless apart from its logger and
// safe for concurrent use.
type Interpreter struct {
	logger logging.Logger
}

// New creates an Interpreter. A nil logger discards diagnostics.
func New(logger logging.Logger) *Interpreter {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Interpreter{logger: logger}
}

// Interpret maps an HTTP status and body to an outcome. Documents in the outcome carry
// only their Raw text; formatting is left to the caller.
func (i *Interpreter) Interpret(status int, body string) models.TransformOutcome {
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		out := models.Failed(transformerror.TransportError, fmt.Sprintf("HTTP %d: %s", status, body))
		out.Failure.StatusCode = status
		i.logger.Warn("Transformation service returned an error status",
			logging.F(logging.FieldStatusCode, status))
		return out
	}

	wire := classify(body)
	i.logger.Debug("Classified service response", logging.F(logging.FieldShape, wire.shape()))

	switch w := wire.(type) {
	case rawXMLBody:
		return single(w.xml, models.ShapeXML)
	case legacyEnvelope:
		return single(w.Result, models.ShapeLegacy)
	case versionedEnvelope:
		return i.decodeVersioned(w)
	case unknownJSON:
		return single(indentJSON(w.raw), models.ShapeJSON)
	case unparsedBody:
		i.logger.WithError(w.parseErr).Warn("Response is neither XML nor JSON, showing it verbatim",
			logging.F(logging.FieldKind, transformerror.MalformedResponseError))
		return single(w.text, models.ShapeRaw)
	}

	// classify only returns the variants above
	return single(body, models.ShapeRaw)
}

// ConnectionFailure is the outcome for a request that never produced a response.
func (i *Interpreter) ConnectionFailure(err error) models.TransformOutcome {
	i.logger.WithError(err).Error("Unable to reach the transformation service")
	return models.Failed(transformerror.TransportError, fmt.Sprintf("Unable to connect to the API: %v", err))
}

func (i *Interpreter) decodeVersioned(env versionedEnvelope) models.TransformOutcome {
	if len(env.dropped) > 0 {
		i.logger.Debug("Ignored envelope members of unexpected type",
			logging.F("members", strings.Join(env.dropped, ",")))
	}

	if env.Status != statusSuccess {
		message, details := errorDetail(env.Error)
		if message == "" {
			message = DefaultBusinessErrorMessage
		}
		if len(details) > 0 {
			i.logger.Debug("Service error details", logging.F("details", string(details)))
		}
		out := models.Failed(transformerror.BusinessError, message)
		out.Failure.ProcessingInfo = env.ProcessingInfo
		return out
	}

	texts := make([]string, 0, len(env.Results))
	for _, r := range env.Results {
		texts = append(texts, resultText(r))
	}
	if len(texts) == 0 {
		i.logger.Warn("Service reported success without results")
		texts = append(texts, placeholderDocument)
	}

	messageType := env.MessageType
	if messageType == "" {
		messageType = models.MessageTypeSingle
		if len(texts) > 1 {
			messageType = models.MessageTypeMultiple
		}
	}

	total := env.Count
	if total <= 0 {
		total = len(texts)
	}

	docs := make([]models.XMLDocument, len(texts))
	for n, text := range texts {
		docs[n] = models.XMLDocument{Raw: text}
		if messageType == models.MessageTypeMultiple {
			docs[n].Position = n + 1
			docs[n].Total = total
		}
	}

	return models.Succeeded(models.Success{
		Documents:      docs,
		MessageType:    messageType,
		Count:          total,
		Shape:          models.ShapeVersioned,
		ProcessingInfo: env.ProcessingInfo,
	})
}

func single(raw string, shape models.WireShape) models.TransformOutcome {
	return models.Succeeded(models.Success{
		Documents:   []models.XMLDocument{{Raw: raw}},
		MessageType: models.MessageTypeSingle,
		Shape:       shape,
	})
}
