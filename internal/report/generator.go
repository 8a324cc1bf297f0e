// Package report renders transformation outcomes for the terminal or a file and
// writes batch summaries.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fjacquet/reframe-client/internal/logging"
	"fjacquet/reframe-client/internal/models"
	"fjacquet/reframe-client/internal/xmlutils"
)

// Format selects how an outcome is rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatXML:
		return f, nil
	}
	return "", fmt.Errorf("unsupported output format: %s", s)
}

// Generator renders outcomes.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a new Generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Generator{logger: logger.WithField("component", "report")}
}

// Render writes outcome to w.
//
// The text format shows each formatted document, banded with "--- Document i of n ---"
// for multiple results, followed by the service's processing information. The xml
// format writes only the formatted documents and returns the outcome's error for a
// failure. The json format writes the whole outcome.
func (g *Generator) Render(w io.Writer, outcome models.TransformOutcome, format Format) error {
	switch format {
	case FormatText:
		return g.renderText(w, outcome)
	case FormatJSON:
		return g.renderJSON(w, outcome)
	case FormatXML:
		return g.renderXML(w, outcome)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func (g *Generator) renderText(w io.Writer, outcome models.TransformOutcome) error {
	var b strings.Builder
	if outcome.IsSuccess() {
		for i, doc := range outcome.Success.Documents {
			if i > 0 {
				b.WriteString("\n")
			}
			if label := doc.Label(); label != "" {
				fmt.Fprintf(&b, "--- %s ---\n", label)
			}
			if summary := xmlutils.FormatSummary(doc.Summary); summary != "" {
				fmt.Fprintf(&b, "# %s\n", summary)
			}
			b.WriteString(doc.Formatted)
			b.WriteString("\n")
		}
	} else if outcome.Failure != nil {
		fmt.Fprintf(&b, "Error (%s): %s\n", outcome.Failure.Kind, outcome.Failure.Message)
	}

	if info := outcome.ProcessingInfo(); info != nil {
		fmt.Fprintf(&b, "\nDetected format: %s | Input size: %d bytes | Workflows executed: %d\n",
			info.DetectedFormat, info.InputSize, info.WorkflowsExecuted)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write text output: %w", err)
	}
	return nil
}

func (g *Generator) renderJSON(w io.Writer, outcome models.TransformOutcome) error {
	data, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON output")
		return fmt.Errorf("failed to marshal JSON output: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	return nil
}

func (g *Generator) renderXML(w io.Writer, outcome models.TransformOutcome) error {
	if !outcome.IsSuccess() {
		return outcome.Err()
	}
	docs := make([]string, len(outcome.Success.Documents))
	for i, doc := range outcome.Success.Documents {
		docs[i] = doc.Formatted
	}
	if _, err := io.WriteString(w, strings.Join(docs, "\n")+"\n"); err != nil {
		return fmt.Errorf("failed to write XML output: %w", err)
	}
	return nil
}
