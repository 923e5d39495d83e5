package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary status condition codes (catalog 19)
const (
	SummaryStatusAdd    = "1"
	SummaryStatusModify = "2"
	SummaryStatusVoid   = "3"
)

// Summary is the daily summary of receipts (resumen diario)
type Summary struct {
	Correlative    string          `json:"correlative"`
	GenerationDate time.Time       `json:"generation_date"`
	SummaryDate    time.Time       `json:"summary_date"`
	Company        Company         `json:"company"`
	Details        []SummaryDetail `json:"details"`
}

// SummaryDetail is one receipt or note reported in a summary
type SummaryDetail struct {
	DocType         string          `json:"doc_type"`
	Number          string          `json:"number"`
	Status          string          `json:"status"`
	ClientDocType   string          `json:"client_doc_type"`
	ClientDocNumber string          `json:"client_doc_number"`
	Currency        string          `json:"currency"`
	Total           decimal.Decimal `json:"total"`
	Taxable         decimal.Decimal `json:"taxable"`
	IGV             decimal.Decimal `json:"igv"`
}

// Kind implements Document
func (s *Summary) Kind() Kind { return KindSummary }

// Name implements Document
func (s *Summary) Name() string {
	return JoinName(s.Company.RUC, BatchSummary, BatchDate(s.SummaryDate), s.Correlative)
}

// ID returns the batch identifier written into the XML
func (s *Summary) ID() string {
	return BatchID(BatchSummary, s.SummaryDate, s.Correlative)
}

// Voided is a communication of voided documents (comunicación de baja)
type Voided struct {
	Correlative   string         `json:"correlative"`
	ReferenceDate time.Time      `json:"reference_date"`
	IssueDate     time.Time      `json:"issue_date"`
	Company       Company        `json:"company"`
	Details       []VoidedDetail `json:"details"`
}

// VoidedDetail identifies one voided document
type VoidedDetail struct {
	DocType     string `json:"doc_type"`
	Series      string `json:"series"`
	Correlative string `json:"correlative"`
	Reason      string `json:"reason"`
}

// Kind implements Document
func (v *Voided) Kind() Kind { return KindVoided }

// Name implements Document
func (v *Voided) Name() string {
	return JoinName(v.Company.RUC, BatchVoided, BatchDate(v.IssueDate), v.Correlative)
}

// ID returns the batch identifier written into the XML
func (v *Voided) ID() string {
	return BatchID(BatchVoided, v.IssueDate, v.Correlative)
}

// Reversion voids retention and perception certificates (reversión).
// It shares the voided layout and differs only in its batch code.
type Reversion struct {
	Voided
}

// Kind implements Document
func (r *Reversion) Kind() Kind { return KindReversion }

// Name implements Document
func (r *Reversion) Name() string {
	return JoinName(r.Company.RUC, BatchReversion, BatchDate(r.IssueDate), r.Correlative)
}

// ID returns the batch identifier written into the XML
func (r *Reversion) ID() string {
	return BatchID(BatchReversion, r.IssueDate, r.Correlative)
}
