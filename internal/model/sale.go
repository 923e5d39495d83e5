package model

import (
	"time"

	"github.com/shopspring/decimal"

	money "github.com/rezonia/einvoice-submit/internal/decimal"
)

// DefaultIGVRate is the general sales tax rate in percent
var DefaultIGVRate = decimal.NewFromInt(18)

// Sale holds the fields shared by invoices and notes
type Sale struct {
	DocType     string    `json:"doc_type"`
	Series      string    `json:"series"`
	Correlative string    `json:"correlative"`
	IssueDate   time.Time `json:"issue_date"`
	Currency    string    `json:"currency"`
	Company     Company   `json:"company"`
	Client      Client    `json:"client"`

	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	ExemptAmount  decimal.Decimal `json:"exempt_amount"`
	IGVAmount     decimal.Decimal `json:"igv_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`

	Details []SaleDetail `json:"details"`
	Legends []Legend     `json:"legends,omitempty"`
}

// SaleDetail is one line of an invoice or note
type SaleDetail struct {
	Code           string          `json:"code,omitempty"`
	Description    string          `json:"description"`
	Unit           string          `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitValue      decimal.Decimal `json:"unit_value"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	LineValue      decimal.Decimal `json:"line_value"`
	IGV            decimal.Decimal `json:"igv"`
	IGVRate        decimal.Decimal `json:"igv_rate"`
	TaxAffectation string          `json:"tax_affectation"`
}

// Legend is a free text note with a catalog 52 code
type Legend struct {
	Code  string `json:"code"`
	Value string `json:"value"`
}

// Number returns the document number as printed: {series}-{correlative}
func (s *Sale) Number() string {
	return s.Series + "-" + s.Correlative
}

// Calculate fills line value and IGV from quantity, unit value and rate
func (d *SaleDetail) Calculate() {
	d.LineValue = money.Mul(d.Quantity, d.UnitValue)
	d.IGV = money.CalculateTax(d.LineValue, d.IGVRate)
	d.UnitPrice = money.Div(d.LineValue.Add(d.IGV), d.Quantity)
}

// CalculateTotals recalculates all lines and the document totals
func (s *Sale) CalculateTotals() {
	s.TaxableAmount = decimal.Zero
	s.IGVAmount = decimal.Zero
	for i := range s.Details {
		s.Details[i].Calculate()
		s.TaxableAmount = s.TaxableAmount.Add(s.Details[i].LineValue)
		s.IGVAmount = s.IGVAmount.Add(s.Details[i].IGV)
	}
	s.TotalAmount = s.TaxableAmount.Add(s.ExemptAmount).Add(s.IGVAmount)
}

// Invoice is a factura (01) or boleta (03)
type Invoice struct {
	Sale
	OperationType string          `json:"operation_type,omitempty"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	Discounts     decimal.Decimal `json:"discounts"`
}

// Kind implements Document
func (i *Invoice) Kind() Kind { return KindInvoice }

// Name implements Document
func (i *Invoice) Name() string {
	return JoinName(i.Company.RUC, i.DocType, i.Series, i.Correlative)
}

// Note is a credit (07) or debit (08) note
type Note struct {
	Sale
	AffectedDocType string `json:"affected_doc_type"`
	AffectedNumber  string `json:"affected_number"`
	ReasonCode      string `json:"reason_code"`
	Reason          string `json:"reason"`
}

// Kind implements Document
func (n *Note) Kind() Kind { return KindNote }

// Name implements Document
func (n *Note) Name() string {
	return JoinName(n.Company.RUC, n.TypeCode(), n.Series, n.Correlative)
}

// IsCredit reports whether the note is a credit note
func (n *Note) IsCredit() bool {
	return n.DocType != DocTypeDebitNote
}

// TypeCode returns the catalog code the note is rendered under: 07 or 08
func (n *Note) TypeCode() string {
	if n.IsCredit() {
		return DocTypeCreditNote
	}
	return DocTypeDebitNote
}
