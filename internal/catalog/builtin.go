package catalog

const sampleMT103 = `{1:F01BNPAFRPPXXX0000000000}{2:O1031234240101DEUTDEFFXXXX12345678952401011234N}{3:{103:EBA}}{4:
:20:FT21001234567890
:23B:CRED
:32A:240101USD1000,00
:50K:/1234567890
ACME CORPORATION
123 MAIN STREET
NEW YORK NY 10001
:52A:BNPAFRPPXXX
:57A:DEUTDEFFXXX
:59:/DE89370400440532013000
MUELLER GMBH
HAUPTSTRASSE 1
10115 BERLIN
:70:PAYMENT FOR INVOICE 12345
:71A:OUR
-}`

const sampleMT202 = `{1:F01BNPAFRPPXXX0000000000}{2:O2021234240101DEUTDEFFXXXX12345678952401011234N}{4:
:20:FI21009876543210
:21:RELREF0001
:32A:240101EUR250000,00
:52A:BNPAFRPPXXX
:57A:DEUTDEFFXXX
:58A:COBADEFFXXX
:72:/BNF/TREASURY SETTLEMENT
-}`

const sampleMT192 = `{1:F01BNPAFRPPXXX0000000000}{2:O1921234240102DEUTDEFFXXXX12345678952401021234N}{4:
:20:CXL2401020001
:21:FT21001234567890
:11S:103
240101
:79:/DUPL/
PLEASE CANCEL OUR PAYMENT ORDER SENT IN DUPLICATE
-}`

func builtin() map[string]Entry {
	return map[string]Entry{
		"MT103": {
			Label:       "MT103 Single Customer Credit Transfer",
			Description: "Customer payment between two financial institutions",
			Target:      "pacs.008",
			Sample:      sampleMT103,
		},
		"MT202": {
			Label:       "MT202 General Financial Institution Transfer",
			Description: "Bank-to-bank transfer of funds",
			Target:      "pacs.009",
			Sample:      sampleMT202,
		},
		"MT192": {
			Label:       "MT192 Request for Cancellation",
			Description: "Request to cancel a previously sent customer transfer",
			Target:      "camt.056",
			Sample:      sampleMT192,
		},
	}
}
