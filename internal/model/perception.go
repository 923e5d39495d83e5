package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Perception is a perception certificate (comprobante de percepción, type 40)
type Perception struct {
	Series      string             `json:"series"`
	Correlative string             `json:"correlative"`
	IssueDate   time.Time          `json:"issue_date"`
	Company     Company            `json:"company"`
	Customer    Client             `json:"customer"`
	Regime      string             `json:"regime"`
	Rate        decimal.Decimal    `json:"rate"`
	Observation string             `json:"observation,omitempty"`
	Perceived   decimal.Decimal    `json:"perceived"`
	Collected   decimal.Decimal    `json:"collected"`
	Details     []PerceptionDetail `json:"details"`
}

// PerceptionDetail references one document subject to perception
type PerceptionDetail struct {
	DocType        string          `json:"doc_type"`
	Number         string          `json:"number"`
	IssueDate      time.Time       `json:"issue_date"`
	PerceptionDate time.Time       `json:"perception_date"`
	Currency       string          `json:"currency"`
	Total          decimal.Decimal `json:"total"`
	Collectable    decimal.Decimal `json:"collectable"`
	Perceived      decimal.Decimal `json:"perceived"`
	Collections    []Payment       `json:"collections,omitempty"`
	Exchange       *Exchange       `json:"exchange,omitempty"`
}

// Kind implements Document
func (p *Perception) Kind() Kind { return KindPerception }

// Name implements Document
func (p *Perception) Name() string {
	return JoinName(p.Company.RUC, DocTypePerception, p.Series, p.Correlative)
}
