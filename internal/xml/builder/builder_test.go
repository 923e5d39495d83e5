package builder_test

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-submit/internal/model"
	"github.com/rezonia/einvoice-submit/internal/testdocs"
	"github.com/rezonia/einvoice-submit/internal/xml/builder"
	"github.com/rezonia/einvoice-submit/internal/xml/ubl"
)

var factories = map[model.Kind]builder.Factory{
	model.KindInvoice:    builder.NewInvoiceBuilder,
	model.KindNote:       builder.NewNoteBuilder,
	model.KindSummary:    builder.NewSummaryBuilder,
	model.KindVoided:     builder.NewVoidedBuilder,
	model.KindReversion:  builder.NewVoidedBuilder,
	model.KindDespatch:   builder.NewDespatchBuilder,
	model.KindRetention:  builder.NewRetentionBuilder,
	model.KindPerception: builder.NewPerceptionBuilder,
}

func build(t *testing.T, doc model.Document, opts builder.Options) *etree.Element {
	t.Helper()
	out, err := factories[doc.Kind()](opts).Build(doc)
	require.NoError(t, err)

	parsed := etree.NewDocument()
	require.NoError(t, parsed.ReadFromBytes(out))
	require.NotNil(t, parsed.Root())
	return parsed.Root()
}

func TestBuild_Roots(t *testing.T) {
	tests := []struct {
		name string
		doc  model.Document
		root string
		ns   string
		id   string
	}{
		{"invoice", testdocs.Invoice(), "Invoice", ubl.NSInvoice, "F001-1"},
		{"credit note", testdocs.CreditNote(), "CreditNote", ubl.NSCreditNote, "FC01-1"},
		{"debit note", testdocs.DebitNote(), "DebitNote", ubl.NSDebitNote, "FD01-1"},
		{"summary", testdocs.Summary(), "SummaryDocuments", ubl.NSSummaryDocuments, "RC-20170809-001"},
		{"voided", testdocs.Voided(), "VoidedDocuments", ubl.NSVoidedDocuments, "RA-20170810-001"},
		{"reversion", testdocs.Reversion(), "VoidedDocuments", ubl.NSVoidedDocuments, "RR-20170810-001"},
		{"despatch", testdocs.Despatch(), "DespatchAdvice", ubl.NSDespatchAdvice, "T001-123"},
		{"retention", testdocs.Retention(), "Retention", ubl.NSRetention, "R001-123"},
		{"perception", testdocs.Perception(), "Perception", ubl.NSPerception, "P001-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := build(t, tt.doc, builder.DefaultOptions())

			assert.Equal(t, tt.root, root.Tag)
			assert.Equal(t, tt.ns, root.NamespaceURI())
			assert.Equal(t, tt.id, ubl.Text(root, "ID"))
			assert.NotNil(t, ubl.Find(root, ubl.ExtensionContentPath), "signature slot")
			assert.Equal(t, "#"+ubl.SignatureID, ubl.Text(root, "Signature/DigitalSignatureAttachment/ExternalReference/URI"))
		})
	}
}

func TestInvoiceBuilder_Content(t *testing.T) {
	root := build(t, testdocs.Invoice(), builder.DefaultOptions())

	assert.Equal(t, "01", ubl.Text(root, "InvoiceTypeCode"))
	assert.Equal(t, "PEN", ubl.Text(root, "DocumentCurrencyCode"))
	assert.Equal(t, "20000000001", ubl.Text(root, "AccountingSupplierParty/Party/PartyIdentification/ID"))
	assert.Equal(t, "20000000002", ubl.Text(root, "AccountingCustomerParty/Party/PartyIdentification/ID"))
	assert.Equal(t, "118.00", ubl.Text(root, "LegalMonetaryTotal/PayableAmount"))
	assert.Equal(t, "18.00", ubl.Text(root, "TaxTotal/TaxAmount"))

	lines := root.SelectElements("InvoiceLine")
	require.Len(t, lines, 1)
	qty := ubl.Find(lines[0], "InvoicedQuantity")
	require.NotNil(t, qty)
	assert.Equal(t, "2", qty.Text())
	assert.Equal(t, "NIU", qty.SelectAttrValue("unitCode", ""))
	assert.Equal(t, "59.00", ubl.Text(lines[0], "PricingReference/AlternativeConditionPrice/PriceAmount"))
}

func TestNoteBuilder_DebitNote(t *testing.T) {
	root := build(t, testdocs.DebitNote(), builder.DefaultOptions())

	assert.Equal(t, "F001-1", ubl.Text(root, "BillingReference/InvoiceDocumentReference/ID"))
	assert.Equal(t, "02", ubl.Text(root, "DiscrepancyResponse/ResponseCode"))
	assert.NotNil(t, ubl.Find(root, "RequestedMonetaryTotal"))
	assert.Len(t, root.SelectElements("DebitNoteLine"), 1)
}

func TestRetentionBuilder_EscapesText(t *testing.T) {
	ret := testdocs.Retention()
	out, err := builder.NewRetentionBuilder(builder.DefaultOptions()).Build(ret)
	require.NoError(t, err)

	assert.NotContains(t, string(out), "<!-- HI -->")

	parsed := etree.NewDocument()
	require.NoError(t, parsed.ReadFromBytes(out))
	assert.Equal(t, ret.Observation, ubl.Text(parsed.Root(), "Note"))
	assert.Equal(t, "20000000001", ubl.Text(parsed.Root(), "AgentParty/PartyIdentification/ID"))
}

func TestBuild_Indent(t *testing.T) {
	compact, err := builder.NewInvoiceBuilder(builder.DefaultOptions()).Build(testdocs.Invoice())
	require.NoError(t, err)
	indented, err := builder.NewInvoiceBuilder(builder.Options{Indent: 2}).Build(testdocs.Invoice())
	require.NoError(t, err)

	assert.Less(t, strings.Count(string(compact), "\n"), 3)
	assert.Contains(t, string(indented), "\n  <cbc:ID>F001-1</cbc:ID>")
}

func TestBuild_DocumentMismatch(t *testing.T) {
	_, err := builder.NewSummaryBuilder(builder.DefaultOptions()).Build(testdocs.Invoice())
	require.Error(t, err)
	assert.True(t, model.HasCode(err, model.ErrCodeDocumentMismatch))

	_, err = builder.NewVoidedBuilder(builder.DefaultOptions()).Build(testdocs.Reversion())
	require.NoError(t, err)
}

func TestBuild_InvalidDocType(t *testing.T) {
	for _, docType := range []string{"", "7", model.DocTypeInvoice} {
		note := testdocs.CreditNote()
		note.DocType = docType
		_, err := builder.NewNoteBuilder(builder.DefaultOptions()).Build(note)
		assert.True(t, model.HasCode(err, model.ErrCodeInvalidDocType), "note doc type %q", docType)
	}

	for _, docType := range []string{"", model.DocTypeCreditNote} {
		inv := testdocs.Invoice()
		inv.DocType = docType
		_, err := builder.NewInvoiceBuilder(builder.DefaultOptions()).Build(inv)
		assert.True(t, model.HasCode(err, model.ErrCodeInvalidDocType), "invoice doc type %q", docType)
	}
}

func TestOptions_Merge(t *testing.T) {
	assert.Equal(t, builder.Options{Indent: 4}, builder.Options{}.Merge(builder.Options{Indent: 4}))
	assert.Equal(t, builder.Options{Indent: 2}, builder.Options{Indent: 2}.Merge(builder.Options{Indent: 4}))
}
