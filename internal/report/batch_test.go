package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/reframe-client/internal/logging"
	"fjacquet/reframe-client/internal/models"
	"fjacquet/reframe-client/internal/transformerror"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBatchRow_Success(t *testing.T) {
	row := NewBatchRow("mt103.txt", "req-1", multipleOutcome(), 1500*time.Millisecond)

	assert.Equal(t, "mt103.txt", row.File)
	assert.Equal(t, "req-1", row.RequestID)
	assert.Equal(t, StatusSuccess, row.Status)
	assert.Equal(t, 2, row.Documents)
	assert.Equal(t, "multiple", row.MessageType)
	assert.Equal(t, "pacs.008", row.Definitions)
	assert.Equal(t, "FT1", row.MessageIDs)
	assert.Equal(t, "10.00", row.Amount)
	assert.Equal(t, "EUR", row.Currency)
	assert.Equal(t, int64(1500), row.DurationMs)
	assert.Empty(t, row.ErrorKind)
}

func TestNewBatchRow_Failure(t *testing.T) {
	row := NewBatchRow("bad.txt", "req-2", models.Failed(transformerror.BusinessError, "Unsupported message type"), 0)

	assert.Equal(t, StatusFailure, row.Status)
	assert.Equal(t, "BusinessError", row.ErrorKind)
	assert.Equal(t, "Unsupported message type", row.Message)
	assert.Zero(t, row.Documents)
}

func TestWriteBatchReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.csv")
	rows := []BatchRow{
		NewBatchRow("a.txt", "1", multipleOutcome(), time.Millisecond),
		NewBatchRow("b.txt", "2", models.Failed(transformerror.TransportError, "HTTP 502: bad, gateway"), 0),
	}

	logger := logging.NewMockLogger()
	require.NoError(t, WriteBatchReport(path, rows, logger))
	assert.True(t, logger.HasEntry("INFO", "Wrote batch report"))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var read []BatchRow
	require.NoError(t, gocsv.UnmarshalFile(file, &read))
	require.Len(t, read, 2)
	assert.Equal(t, rows[0], read[0])
	assert.Equal(t, "HTTP 502: bad, gateway", read[1].Message)
}

func TestWriteBatchReport_EmptyWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, WriteBatchReport(path, nil, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "file,request_id,status,error_kind,message")
}
