package importer

import (
	"encoding/xml"
	"strings"
)

// XML shape of a camt.053 document. Only the elements the parser reads are
// declared. Tags carry no namespace so every camt.053.001.xx version matches.

type camtDocument struct {
	XMLName xml.Name    `xml:"Document"`
	Report  *camtReport `xml:"BkToCstmrStmt"`
}

type camtReport struct {
	Statements []camtStatement `xml:"Stmt"`
}

type camtStatement struct {
	ID        string        `xml:"Id"`
	CreatedAt string        `xml:"CreDtTm"`
	Account   camtAccount   `xml:"Acct"`
	Balances  []camtBalance `xml:"Bal"`
	Entries   []camtEntry   `xml:"Ntry"`
}

type camtAccount struct {
	IBAN      string `xml:"Id>IBAN"`
	Currency  string `xml:"Ccy"`
	OwnerName string `xml:"Ownr>Nm"`
	BIC       string `xml:"Svcr>FinInstnId>BIC"`
	BICFI     string `xml:"Svcr>FinInstnId>BICFI"`
	BankName  string `xml:"Svcr>FinInstnId>Nm"`
}

type camtBalance struct {
	Code      string       `xml:"Tp>CdOrPrtry>Cd"`
	Amount    *amountField `xml:"Amt"`
	CdtDbtInd string       `xml:"CdtDbtInd"`
}

type camtEntry struct {
	Amount       *amountField    `xml:"Amt"`
	CdtDbtInd    string          `xml:"CdtDbtInd"`
	BookingDate  camtDate        `xml:"BookgDt"`
	ValueDate    camtDate        `xml:"ValDt"`
	AcctSvcrRef  string          `xml:"AcctSvcrRef"`
	AddtlNtryInf string          `xml:"AddtlNtryInf"`
	Details      []camtTxDetails `xml:"NtryDtls>TxDtls"`
}

type camtDate struct {
	Date     string `xml:"Dt"`
	DateTime string `xml:"DtTm"`
}

type camtTxDetails struct {
	EndToEndID      string      `xml:"Refs>EndToEndId"`
	AcctSvcrRef     string      `xml:"Refs>AcctSvcrRef"`
	Debtor          camtParty   `xml:"RltdPties>Dbtr"`
	DebtorAccount   camtAccount `xml:"RltdPties>DbtrAcct"`
	Creditor        camtParty   `xml:"RltdPties>Cdtr"`
	CreditorAccount camtAccount `xml:"RltdPties>CdtrAcct"`
	Unstructured    []string    `xml:"RmtInf>Ustrd"`
	CreditorRef     string      `xml:"RmtInf>Strd>CdtrRefInf>Ref"`
	AddtlTxInf      string      `xml:"AddtlTxInf"`
}

// camtParty covers both the flat (001.02) and the nested Pty (001.08+) layout.
type camtParty struct {
	Name       string `xml:"Nm"`
	NestedName string `xml:"Pty>Nm"`
}

func (p camtParty) name() string {
	if n := strings.TrimSpace(p.Name); n != "" {
		return n
	}
	return strings.TrimSpace(p.NestedName)
}

// Amount is the decoded form of an <Amt> element: either a PlainAmount or an
// AnnotatedAmount. Bank export tools disagree on whether the currency
// attribute is present, so both shapes are decoded once, here.
type Amount interface {
	text() string
}

// PlainAmount is an amount given as bare decimal text.
type PlainAmount struct {
	Text string
}

// AnnotatedAmount is decimal text with a Ccy attribute.
type AnnotatedAmount struct {
	Text     string
	Currency string
}

func (a PlainAmount) text() string     { return a.Text }
func (a AnnotatedAmount) text() string { return a.Text }

// amountField decodes an <Amt> element into an Amount.
type amountField struct {
	Value Amount
}

func (a *amountField) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var raw struct {
		Text     string `xml:",chardata"`
		Currency string `xml:"Ccy,attr"`
	}
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}

	text := strings.TrimSpace(raw.Text)
	if ccy := strings.TrimSpace(raw.Currency); ccy != "" {
		a.Value = AnnotatedAmount{Text: text, Currency: strings.ToUpper(ccy)}
		return nil
	}
	a.Value = PlainAmount{Text: text}
	return nil
}
