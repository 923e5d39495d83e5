// Package resolver recovers the kind and canonical filename of raw XML.
package resolver

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/rezonia/einvoice-submit/internal/model"
	"github.com/rezonia/einvoice-submit/internal/xml/ubl"
)

// rootSignature identifies a document by the namespace and local name of its root
type rootSignature struct {
	namespace string
	local     string
}

var signatures = map[rootSignature]model.Kind{
	{ubl.NSInvoice, "Invoice"}:                   model.KindInvoice,
	{ubl.NSCreditNote, "CreditNote"}:             model.KindNote,
	{ubl.NSDebitNote, "DebitNote"}:               model.KindNote,
	{ubl.NSDespatchAdvice, "DespatchAdvice"}:     model.KindDespatch,
	{ubl.NSSummaryDocuments, "SummaryDocuments"}: model.KindSummary,
	{ubl.NSVoidedDocuments, "VoidedDocuments"}:   model.KindVoided,
	{ubl.NSRetention, "Retention"}:               model.KindRetention,
	{ubl.NSPerception, "Perception"}:             model.KindPerception,
}

// Element paths read by ExtractFilename
const (
	pathID               = "ID"
	pathInvoiceType      = "InvoiceTypeCode"
	pathSupplierID       = "AccountingSupplierParty/Party/PartyIdentification/ID"
	pathSupplierAccount  = "AccountingSupplierParty/CustomerAssignedAccountID"
	pathDespatchSupplier = "DespatchSupplierParty/Party/PartyIdentification/ID"
	pathDespatchAccount  = "DespatchSupplierParty/CustomerAssignedAccountID"
	pathAgentID          = "AgentParty/PartyIdentification/ID"
	reversionPrefix      = model.BatchReversion + "-"
	rootNameDebitNote    = "DebitNote"
)

// Classify returns the kind of a parsed document from its root element
func Classify(doc *etree.Document) (model.Kind, error) {
	root := doc.Root()
	if root == nil {
		return model.KindUnknown, model.ErrUnrecognizedType("")
	}

	kind, ok := signatures[rootSignature{root.NamespaceURI(), root.Tag}]
	if !ok {
		return model.KindUnknown, model.ErrUnrecognizedType(rootName(root))
	}

	// Reversions share the voided schema and are told apart by their identifier
	if kind == model.KindVoided && strings.HasPrefix(ubl.Text(root, pathID), reversionPrefix) {
		return model.KindReversion, nil
	}
	return kind, nil
}

// ExtractFilename reads the canonical filename of a parsed document of the given kind
func ExtractFilename(doc *etree.Document, kind model.Kind) (string, error) {
	root := doc.Root()
	if root == nil {
		return "", model.ErrMalformedXML(nil)
	}

	var issuerPaths []string
	var typeCode string

	switch kind {
	case model.KindInvoice:
		issuerPaths = []string{pathSupplierID, pathSupplierAccount}
		code, err := ubl.RequireText(root, pathInvoiceType)
		if err != nil {
			return "", err
		}
		typeCode = code
	case model.KindNote:
		issuerPaths = []string{pathSupplierID, pathSupplierAccount}
		typeCode = model.DocTypeCreditNote
		if root.Tag == rootNameDebitNote {
			typeCode = model.DocTypeDebitNote
		}
	case model.KindDespatch:
		issuerPaths = []string{pathDespatchSupplier, pathDespatchAccount}
		typeCode = model.DocTypeDespatch
	case model.KindRetention:
		issuerPaths = []string{pathAgentID}
		typeCode = model.DocTypeRetention
	case model.KindPerception:
		issuerPaths = []string{pathAgentID}
		typeCode = model.DocTypePerception
	case model.KindSummary, model.KindVoided, model.KindReversion:
		// the identifier already carries {code}-{date}-{correlative}
		issuerPaths = []string{pathSupplierAccount, pathSupplierID}
	default:
		return "", model.ErrUnsupportedKind(kind)
	}

	issuer, err := ubl.RequireText(root, issuerPaths...)
	if err != nil {
		return "", err
	}
	id, err := ubl.RequireText(root, pathID)
	if err != nil {
		return "", err
	}

	parts := []string{issuer}
	if typeCode != "" {
		parts = append(parts, typeCode)
	}
	parts = append(parts, id)
	return strings.Join(parts, "-"), nil
}

// Resolve parses raw XML and returns its kind and canonical filename
func Resolve(data []byte) (model.Kind, string, error) {
	doc, err := ubl.Parse(data)
	if err != nil {
		return model.KindUnknown, "", err
	}

	kind, err := Classify(doc)
	if err != nil {
		return model.KindUnknown, "", err
	}

	name, err := ExtractFilename(doc, kind)
	if err != nil {
		return kind, "", err
	}
	return kind, name, nil
}

func rootName(root *etree.Element) string {
	if ns := root.NamespaceURI(); ns != "" {
		return "{" + ns + "}" + root.Tag
	}
	return root.Tag
}
