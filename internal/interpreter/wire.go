package interpreter

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strings"

	"fjacquet/reframe-client/internal/models"
)

// statusSuccess is the versioned envelope's success marker.
const statusSuccess = "success"

// placeholderDocument stands in for an empty results list under status "success".
const placeholderDocument = "<!-- The transformation service reported success but returned no documents. -->"

// wireBody is the closed set of response shapes the service has used over time.
// classify picks exactly one; each variant decodes itself.
type wireBody interface {
	shape() models.WireShape
}

// rawXMLBody is the original protocol: the whole body is one XML document.
type rawXMLBody struct {
	xml string
}

// unparsedBody is neither XML nor JSON. It is shown verbatim.
type unparsedBody struct {
	text     string
	parseErr error
}

// legacyEnvelope is {"result": "<xml/>"}.
type legacyEnvelope struct {
	Result string `json:"result"`
}

// versionedEnvelope is the current {"status": ..., "results": [...]} format. It is
// decoded member by member; a member of an unexpected type is dropped and listed in
// dropped, the rest of the envelope still counts.
type versionedEnvelope struct {
	Status         string
	Results        []json.RawMessage
	Count          int
	MessageType    models.MessageType
	ProcessingInfo *models.ProcessingInfo
	Error          json.RawMessage
	dropped        []string
}

// envelopeError is the object form of the versioned envelope's "error" member.
type envelopeError struct {
	Message *string         `json:"message"`
	Details json.RawMessage `json:"details"`
}

// unknownJSON is valid JSON of a shape we do not recognise, shown re-indented.
type unknownJSON struct {
	raw []byte
}

func (rawXMLBody) shape() models.WireShape        { return models.ShapeXML }
func (unparsedBody) shape() models.WireShape      { return models.ShapeRaw }
func (legacyEnvelope) shape() models.WireShape    { return models.ShapeLegacy }
func (versionedEnvelope) shape() models.WireShape { return models.ShapeVersioned }
func (unknownJSON) shape() models.WireShape       { return models.ShapeJSON }

// classify inspects the body structurally: a leading '<', then the presence of "status",
// then a string "result" that looks like XML. No version negotiation is involved.
func classify(body string) wireBody {
	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "<") {
		return rawXMLBody{xml: body}
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &members); err != nil || members == nil {
		var value interface{}
		if perr := json.Unmarshal([]byte(body), &value); perr != nil {
			return unparsedBody{text: body, parseErr: perr}
		}
		return unknownJSON{raw: []byte(body)}
	}

	if _, ok := members["status"]; ok {
		return decodeEnvelope(members)
	}

	var result string
	if raw, ok := members["result"]; ok && json.Unmarshal(raw, &result) == nil && strings.HasPrefix(result, "<") {
		return legacyEnvelope{Result: result}
	}

	return unknownJSON{raw: []byte(body)}
}

func decodeEnvelope(members map[string]json.RawMessage) versionedEnvelope {
	env := versionedEnvelope{Error: members["error"]}
	drop := func(name string) { env.dropped = append(env.dropped, name) }

	if raw := members["status"]; !isNull(raw) && json.Unmarshal(raw, &env.Status) != nil {
		drop("status")
	}

	if raw, ok := members["results"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &env.Results); err != nil {
			// a lone result not wrapped in an array
			env.Results = []json.RawMessage{raw}
		}
	}

	if raw, ok := members["count"]; ok && !isNull(raw) {
		if n, ok := wholeNumber(raw); ok {
			env.Count = n
		} else {
			drop("count")
		}
	}

	if raw, ok := members["message_type"]; ok && !isNull(raw) {
		var mt string
		if json.Unmarshal(raw, &mt) == nil {
			env.MessageType = models.MessageType(mt)
		} else {
			drop("message_type")
		}
	}

	if raw, ok := members["processing_info"]; ok && !isNull(raw) {
		info, lost := decodeProcessingInfo(raw)
		env.ProcessingInfo = info
		if info == nil {
			drop("processing_info")
		}
		for _, name := range lost {
			drop("processing_info." + name)
		}
	}

	return env
}

// decodeProcessingInfo keeps every field that has the expected type.
func decodeProcessingInfo(raw json.RawMessage) (*models.ProcessingInfo, []string) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil || members == nil {
		return nil, nil
	}

	var (
		info models.ProcessingInfo
		lost []string
	)
	if v, ok := members["detected_format"]; ok && !isNull(v) && json.Unmarshal(v, &info.DetectedFormat) != nil {
		lost = append(lost, "detected_format")
	}
	for name, dst := range map[string]*int{
		"input_size":         &info.InputSize,
		"workflows_executed": &info.WorkflowsExecuted,
	} {
		v, ok := members[name]
		if !ok || isNull(v) {
			continue
		}
		if n, ok := wholeNumber(v); ok {
			*dst = n
		} else {
			lost = append(lost, name)
		}
	}
	sort.Strings(lost)
	return &info, lost
}

// wholeNumber accepts 3 as well as 3.0.
func wholeNumber(raw json.RawMessage) (int, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

// indentJSON re-indents raw JSON with two spaces, keeping member order.
func indentJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// resultText turns one entry of "results" into document text. Strings are used as-is;
// anything else is shown as indented JSON.
func resultText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return indentJSON(raw)
}

// errorDetail extracts the user-facing message and the diagnostic details from the
// envelope's "error" member, which is normally an object but may be a bare string.
func errorDetail(raw json.RawMessage) (message string, details json.RawMessage) {
	if len(raw) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var obj envelopeError
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", nil
	}
	if obj.Message != nil {
		message = *obj.Message
	}
	return message, obj.Details
}
