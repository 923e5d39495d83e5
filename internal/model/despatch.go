package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Despatch is a despatch advice (guía de remisión, type 09)
type Despatch struct {
	Series      string           `json:"series"`
	Correlative string           `json:"correlative"`
	IssueDate   time.Time        `json:"issue_date"`
	Note        string           `json:"note,omitempty"`
	Company     Company          `json:"company"`
	Recipient   Client           `json:"recipient"`
	Shipment    Shipment         `json:"shipment"`
	Details     []DespatchDetail `json:"details"`
}

// Shipment describes the transfer of goods
type Shipment struct {
	ReasonCode    string          `json:"reason_code"`
	Reason        string          `json:"reason,omitempty"`
	TransportMode string          `json:"transport_mode"`
	GrossWeight   decimal.Decimal `json:"gross_weight"`
	WeightUnit    string          `json:"weight_unit"`
	Packages      int             `json:"packages,omitempty"`
	StartDate     time.Time       `json:"start_date"`
	Origin        Address         `json:"origin"`
	Destination   Address         `json:"destination"`
	Carrier       *Client         `json:"carrier,omitempty"`
}

// DespatchDetail is one shipped item
type DespatchDetail struct {
	Code        string          `json:"code,omitempty"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// Kind implements Document
func (d *Despatch) Kind() Kind { return KindDespatch }

// Name implements Document
func (d *Despatch) Name() string {
	return JoinName(d.Company.RUC, DocTypeDespatch, d.Series, d.Correlative)
}
