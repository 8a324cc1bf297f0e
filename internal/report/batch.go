package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/reframe-client/internal/logging"
	"fjacquet/reframe-client/internal/models"

	"github.com/gocarina/gocsv"
)

// Batch row statuses.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusStale   = "stale"
)

// BatchRow is one line of a batch report.
type BatchRow struct {
	File        string `csv:"file"`
	RequestID   string `csv:"request_id"`
	Status      string `csv:"status"`
	ErrorKind   string `csv:"error_kind"`
	Message     string `csv:"message"`
	Documents   int    `csv:"documents"`
	MessageType string `csv:"message_type"`
	Definitions string `csv:"definitions"`
	MessageIDs  string `csv:"message_ids"`
	Amount      string `csv:"amount"`
	Currency    string `csv:"currency"`
	Output      string `csv:"output_file"`
	DurationMs  int64  `csv:"duration_ms"`
}

// NewBatchRow summarises the outcome for file.
func NewBatchRow(file, requestID string, outcome models.TransformOutcome, elapsed time.Duration) BatchRow {
	row := BatchRow{
		File:       file,
		RequestID:  requestID,
		DurationMs: elapsed.Milliseconds(),
	}
	if !outcome.IsSuccess() {
		row.Status = StatusFailure
		if outcome.Failure != nil {
			row.ErrorKind = outcome.Failure.Kind.String()
			row.Message = outcome.Failure.Message
		}
		return row
	}

	row.Status = StatusSuccess
	row.Documents = len(outcome.Success.Documents)
	row.MessageType = string(outcome.Success.MessageType)

	var definitions, ids []string
	for _, doc := range outcome.Success.Documents {
		if doc.Summary == nil {
			continue
		}
		if doc.Summary.Definition != "" {
			definitions = append(definitions, doc.Summary.Definition)
		}
		if doc.Summary.MessageID != "" {
			ids = append(ids, doc.Summary.MessageID)
		}
		if doc.Summary.HasAmount && row.Amount == "" {
			row.Amount = doc.Summary.Amount.StringFixed(2)
			row.Currency = doc.Summary.Currency
		}
	}
	row.Definitions = strings.Join(definitions, ";")
	row.MessageIDs = strings.Join(ids, ";")
	return row
}

// WriteBatchReport writes rows as CSV to path, creating parent directories.
func WriteBatchReport(path string, rows []BatchRow, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if rows == nil {
		rows = []BatchRow{}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating report file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csv.NewWriter(file))); err != nil {
		logger.WithError(err).Error("Failed to marshal batch report")
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	logger.Info("Wrote batch report",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldCount, len(rows)))
	return nil
}
