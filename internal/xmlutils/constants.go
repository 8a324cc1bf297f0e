package xmlutils

// messageDefinitions maps the root of well-known ISO 20022 documents to their message
// definition family. Entries are tried in order; the first match wins.
var messageDefinitions = []struct {
	Path       string
	Definition string
}{
	{"/Document/FIToFICstmrCdtTrf", "pacs.008"},
	{"/Document/FICdtTrf", "pacs.009"},
	{"/Document/PmtRtr", "pacs.004"},
	{"/Document/FIToFIPmtStsRpt", "pacs.002"},
	{"/Document/FIToFIPmtCxlReq", "camt.056"},
	{"/Document/RsltnOfInvstgtn", "camt.029"},
	{"/Document/BkToCstmrStmt", "camt.053"},
	{"/Document/BkToCstmrDbtCdtNtfctn", "camt.054"},
	{"/AppHdr", "head.001"},
}

// XPath expressions used to summarise a returned document.
const (
	pathMsgDefIdr = "//AppHdr/MsgDefIdr"
	pathGrpHdrID  = "//GrpHdr/MsgId"
	pathBizMsgID  = "//AppHdr/BizMsgIdr"
)

// amountPaths lists settlement amount elements, most specific first.
var amountPaths = []string{
	"//TtlIntrBkSttlmAmt",
	"//IntrBkSttlmAmt",
	"//RtrdIntrBkSttlmAmt",
	"//InstdAmt",
}
