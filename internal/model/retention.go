package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Retention is a retention certificate (comprobante de retención, type 20)
type Retention struct {
	Series      string            `json:"series"`
	Correlative string            `json:"correlative"`
	IssueDate   time.Time         `json:"issue_date"`
	Company     Company           `json:"company"`
	Supplier    Client            `json:"supplier"`
	Regime      string            `json:"regime"`
	Rate        decimal.Decimal   `json:"rate"`
	Observation string            `json:"observation,omitempty"`
	Retained    decimal.Decimal   `json:"retained"`
	Paid        decimal.Decimal   `json:"paid"`
	Details     []RetentionDetail `json:"details"`
}

// RetentionDetail references one retained document
type RetentionDetail struct {
	DocType       string          `json:"doc_type"`
	Number        string          `json:"number"`
	IssueDate     time.Time       `json:"issue_date"`
	RetentionDate time.Time       `json:"retention_date"`
	Currency      string          `json:"currency"`
	Total         decimal.Decimal `json:"total"`
	Payable       decimal.Decimal `json:"payable"`
	Retained      decimal.Decimal `json:"retained"`
	Payments      []Payment       `json:"payments,omitempty"`
	Exchange      *Exchange       `json:"exchange,omitempty"`
}

// Payment is one payment applied to a referenced document
type Payment struct {
	Currency string          `json:"currency"`
	Date     time.Time       `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
}

// Exchange is the exchange rate used for a referenced document
type Exchange struct {
	Date           time.Time       `json:"date"`
	Factor         decimal.Decimal `json:"factor"`
	SourceCurrency string          `json:"source_currency"`
	TargetCurrency string          `json:"target_currency"`
}

// Kind implements Document
func (r *Retention) Kind() Kind { return KindRetention }

// Name implements Document
func (r *Retention) Name() string {
	return JoinName(r.Company.RUC, DocTypeRetention, r.Series, r.Correlative)
}
