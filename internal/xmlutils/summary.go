// Package xmlutils provides the XML helpers used to present documents returned by the
// transformation service: a pretty-printer and an XPath based summary extractor.
package xmlutils

import (
	"fmt"
	"strings"

	"fjacquet/reframe-client/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/xmlpath.v2"
)

// parseXML parses an XML string and returns its root node.
func parseXML(raw string) (*xmlpath.Node, error) {
	root, err := xmlpath.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML document: %w", err)
	}
	return root, nil
}

// extractFromXML extracts values from an XML node using an XPath expression
func extractFromXML(root *xmlpath.Node, xpath string) ([]string, error) {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile XPath: %w", err)
	}

	var values []string
	iter := path.Iter(root)
	for iter.Next() {
		values = append(values, strings.TrimSpace(iter.Node().String()))
	}

	return values, nil
}

// getOrEmpty returns the value at the specified index in a slice, or an empty string if the index is out of bounds
func getOrEmpty(slice []string, index int) string {
	if index >= 0 && index < len(slice) {
		return slice[index]
	}
	return ""
}

// Summarize extracts display metadata from an ISO 20022 document: its message
// definition, business message identifier and settlement amount.
//
// It returns nil without error when the document parses but none of the known
// elements are present, and an error when raw is not well-formed XML.
func Summarize(raw string) (*models.DocumentSummary, error) {
	root, err := parseXML(raw)
	if err != nil {
		return nil, err
	}

	summary := &models.DocumentSummary{}

	for _, def := range messageDefinitions {
		if xmlpath.MustCompile(def.Path).Exists(root) {
			summary.Definition = def.Definition
			break
		}
	}
	if values, err := extractFromXML(root, pathMsgDefIdr); err == nil && getOrEmpty(values, 0) != "" {
		summary.Definition = values[0]
	}

	for _, p := range []string{pathGrpHdrID, pathBizMsgID} {
		values, err := extractFromXML(root, p)
		if err != nil {
			return nil, err
		}
		if id := getOrEmpty(values, 0); id != "" {
			summary.MessageID = id
			break
		}
	}

	for _, p := range amountPaths {
		values, err := extractFromXML(root, p)
		if err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(getOrEmpty(values, 0))
		if err != nil {
			continue
		}
		currencies, _ := extractFromXML(root, p+"/@Ccy")
		summary.Amount = amount
		summary.Currency = getOrEmpty(currencies, 0)
		summary.HasAmount = true
		break
	}

	if summary.Definition == "" && summary.MessageID == "" && !summary.HasAmount {
		return nil, nil
	}
	return summary, nil
}

// FormatSummary renders a summary on a single line, e.g.
// "pacs.008.001.08 | MsgId FT21001234567890 | 1000.00 USD".
func FormatSummary(s *models.DocumentSummary) string {
	if s == nil {
		return ""
	}
	var parts []string
	if s.Definition != "" {
		parts = append(parts, s.Definition)
	}
	if s.MessageID != "" {
		parts = append(parts, "MsgId "+s.MessageID)
	}
	if s.HasAmount {
		amount := s.Amount.StringFixed(2)
		if s.Currency != "" {
			amount += " " + s.Currency
		}
		parts = append(parts, amount)
	}
	return strings.Join(parts, " | ")
}
