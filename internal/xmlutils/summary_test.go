package xmlutils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pacs008 = `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pacs.008.001.08">
<FIToFICstmrCdtTrf>
  <GrpHdr><MsgId>FT21001234567890</MsgId><NbOfTxs>1</NbOfTxs></GrpHdr>
  <CdtTrfTxInf><IntrBkSttlmAmt Ccy="USD">1000.00</IntrBkSttlmAmt></CdtTrfTxInf>
</FIToFICstmrCdtTrf>
</Document>`

const appHdr = `<AppHdr xmlns="urn:iso:std:iso:20022:tech:xsd:head.001.001.02">
  <BizMsgIdr>FT21001234567890</BizMsgIdr>
  <MsgDefIdr>pacs.008.001.08</MsgDefIdr>
</AppHdr>`

func TestSummarize_Pacs008(t *testing.T) {
	summary, err := Summarize(pacs008)
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, "pacs.008", summary.Definition)
	assert.Equal(t, "FT21001234567890", summary.MessageID)
	assert.True(t, summary.HasAmount)
	assert.True(t, decimal.RequireFromString("1000").Equal(summary.Amount))
	assert.Equal(t, "USD", summary.Currency)
}

func TestSummarize_AppHdrUsesDefinitionIdentifier(t *testing.T) {
	summary, err := Summarize(appHdr)
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, "pacs.008.001.08", summary.Definition)
	assert.Equal(t, "FT21001234567890", summary.MessageID)
	assert.False(t, summary.HasAmount)
}

func TestSummarize_UnknownDocument(t *testing.T) {
	summary, err := Summarize("<Doc><A>1</A></Doc>")
	assert.NoError(t, err)
	assert.Nil(t, summary)
}

func TestSummarize_MalformedXML(t *testing.T) {
	summary, err := Summarize("<Doc><A>1</Doc")
	assert.Error(t, err)
	assert.Nil(t, summary)
}

func TestSummarize_IgnoresNonNumericAmount(t *testing.T) {
	summary, err := Summarize(`<Document><FICdtTrf><IntrBkSttlmAmt Ccy="EUR">n/a</IntrBkSttlmAmt></FICdtTrf></Document>`)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, "pacs.009", summary.Definition)
	assert.False(t, summary.HasAmount)
}

func TestFormatSummary(t *testing.T) {
	summary, err := Summarize(pacs008)
	require.NoError(t, err)

	assert.Equal(t, "pacs.008 | MsgId FT21001234567890 | 1000.00 USD", FormatSummary(summary))
	assert.Equal(t, "", FormatSummary(nil))
}

func TestGetOrEmpty(t *testing.T) {
	tests := []struct {
		name     string
		slice    []string
		index    int
		expected string
	}{
		{name: "valid index returns value", slice: []string{"a", "b"}, index: 1, expected: "b"},
		{name: "index out of bounds returns empty", slice: []string{"a"}, index: 5, expected: ""},
		{name: "negative index returns empty", slice: []string{"a"}, index: -1, expected: ""},
		{name: "nil slice returns empty", slice: nil, index: 0, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, getOrEmpty(tt.slice, tt.index))
		})
	}
}
