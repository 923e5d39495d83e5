package model

import (
	"strings"
	"time"
)

// Document type codes (catalog 01) and batch identifiers used in filenames
const (
	DocTypeInvoice    = "01"
	DocTypeReceipt    = "03"
	DocTypeCreditNote = "07"
	DocTypeDebitNote  = "08"
	DocTypeDespatch   = "09"
	DocTypeRetention  = "20"
	DocTypePerception = "40"

	BatchSummary   = "RC"
	BatchVoided    = "RA"
	BatchReversion = "RR"
)

// Identity document types (catalog 06)
const (
	IdentityNone = "0"
	IdentityDNI  = "1"
	IdentityRUC  = "6"
)

// Document is any business document that can be submitted to the authority.
// Implementations are immutable once handed to the client.
type Document interface {
	// Kind returns the document family used to pick a builder and sender
	Kind() Kind

	// Name returns the canonical filename (without extension):
	// {issuer}-{kindCode}-{series}-{correlative}
	Name() string
}

// Address is a fiscal or delivery address
type Address struct {
	Ubigeo       string `json:"ubigeo,omitempty"`
	Department   string `json:"department,omitempty"`
	Province     string `json:"province,omitempty"`
	District     string `json:"district,omitempty"`
	Urbanization string `json:"urbanization,omitempty"`
	Line         string `json:"line,omitempty"`
	CountryCode  string `json:"country_code,omitempty"`
}

// Company is the issuer of a document
type Company struct {
	RUC       string  `json:"ruc"`
	LegalName string  `json:"legal_name"`
	TradeName string  `json:"trade_name,omitempty"`
	Address   Address `json:"address"`
}

// Client is the counterparty of a document (customer, supplier or recipient)
type Client struct {
	DocType   string   `json:"doc_type"`
	DocNumber string   `json:"doc_number"`
	Name      string   `json:"name"`
	Address   *Address `json:"address,omitempty"`
}

// JoinName builds a canonical filename from its four parts
func JoinName(issuer, kindCode, series, correlative string) string {
	return strings.Join([]string{issuer, kindCode, series, correlative}, "-")
}

// BatchID builds the identifier of a summary or voided batch: {code}-{YYYYMMDD}-{correlative}
func BatchID(code string, date time.Time, correlative string) string {
	return strings.Join([]string{code, BatchDate(date), correlative}, "-")
}

// BatchDate formats the date component of a batch identifier
func BatchDate(date time.Time) string {
	return date.Format("20060102")
}
