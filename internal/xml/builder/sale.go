package builder

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/rezonia/einvoice-submit/internal/model"
	"github.com/rezonia/einvoice-submit/internal/xml/ubl"
)

// InvoiceBuilder renders facturas and boletas (UBL 2.1 Invoice)
type InvoiceBuilder struct {
	opts Options
}

// NewInvoiceBuilder is the Factory for invoices
func NewInvoiceBuilder(opts Options) Builder {
	return &InvoiceBuilder{opts: opts}
}

// Build implements Builder
func (b *InvoiceBuilder) Build(doc model.Document) ([]byte, error) {
	inv, ok := doc.(*model.Invoice)
	if !ok {
		return nil, model.ErrDocumentMismatch(model.KindInvoice, doc)
	}
	if inv.DocType != model.DocTypeInvoice && inv.DocType != model.DocTypeReceipt {
		return nil, model.ErrInvalidDocType(model.KindInvoice, inv.DocType)
	}

	xdoc, root := newDocument("Invoice", ubl.NSInvoice, false)
	saleHeader(root, &inv.Sale)
	if inv.DueDate != nil {
		date(root, "cbc:DueDate", *inv.DueDate)
	}

	typeCode := text(root, "cbc:InvoiceTypeCode", inv.DocType)
	if inv.OperationType != "" {
		typeCode.CreateAttr("listID", inv.OperationType)
	}
	typeCode.CreateAttr("listAgencyName", schemeAgency)

	saleParties(root, &inv.Sale)
	if inv.Discounts.IsPositive() {
		charge := root.CreateElement("cac:AllowanceCharge")
		text(charge, "cbc:ChargeIndicator", "false")
		amount(charge, "cbc:Amount", inv.Currency, inv.Discounts)
	}
	saleTotals(root, &inv.Sale, "cac:LegalMonetaryTotal")
	saleLines(root, &inv.Sale, "cac:InvoiceLine", "cbc:InvoicedQuantity")

	return render(xdoc, b.opts)
}

// NoteBuilder renders credit notes (07) and debit notes (08)
type NoteBuilder struct {
	opts Options
}

// NewNoteBuilder is the Factory for notes
func NewNoteBuilder(opts Options) Builder {
	return &NoteBuilder{opts: opts}
}

// Build implements Builder
func (b *NoteBuilder) Build(doc model.Document) ([]byte, error) {
	note, ok := doc.(*model.Note)
	if !ok {
		return nil, model.ErrDocumentMismatch(model.KindNote, doc)
	}
	if note.DocType != model.DocTypeCreditNote && note.DocType != model.DocTypeDebitNote {
		return nil, model.ErrInvalidDocType(model.KindNote, note.DocType)
	}

	rootTag, ns := "CreditNote", ubl.NSCreditNote
	totalTag, lineTag, qtyTag := "cac:LegalMonetaryTotal", "cac:CreditNoteLine", "cbc:CreditedQuantity"
	if !note.IsCredit() {
		rootTag, ns = "DebitNote", ubl.NSDebitNote
		totalTag, lineTag, qtyTag = "cac:RequestedMonetaryTotal", "cac:DebitNoteLine", "cbc:DebitedQuantity"
	}

	xdoc, root := newDocument(rootTag, ns, false)
	saleHeader(root, &note.Sale)

	discrepancy := root.CreateElement("cac:DiscrepancyResponse")
	text(discrepancy, "cbc:ReferenceID", note.AffectedNumber)
	text(discrepancy, "cbc:ResponseCode", note.ReasonCode)
	text(discrepancy, "cbc:Description", note.Reason)

	ref := root.CreateElement("cac:BillingReference").CreateElement("cac:InvoiceDocumentReference")
	text(ref, "cbc:ID", note.AffectedNumber)
	text(ref, "cbc:DocumentTypeCode", note.AffectedDocType)

	saleParties(root, &note.Sale)
	saleTotals(root, &note.Sale, totalTag)
	saleLines(root, &note.Sale, lineTag, qtyTag)

	return render(xdoc, b.opts)
}

func saleHeader(root *etree.Element, sale *model.Sale) {
	text(root, "cbc:UBLVersionID", ubl.UBLVersion21)
	text(root, "cbc:CustomizationID", ubl.Customization20)
	text(root, "cbc:ID", sale.Number())
	date(root, "cbc:IssueDate", sale.IssueDate)
	for _, legend := range sale.Legends {
		note := text(root, "cbc:Note", legend.Value)
		note.CreateAttr("languageLocaleID", legend.Code)
	}
	text(root, "cbc:DocumentCurrencyCode", sale.Currency)
}

func saleParties(root *etree.Element, sale *model.Sale) {
	signatureBlock(root, sale.Company)
	companyParty(root, "cac:AccountingSupplierParty", sale.Company)
	clientParty(root, "cac:AccountingCustomerParty", sale.Client)
}

func saleTotals(root *etree.Element, sale *model.Sale, totalTag string) {
	taxTotal(root, sale.Currency, sale.TaxableAmount, sale.IGVAmount, model.DefaultIGVRate, "")

	total := root.CreateElement(totalTag)
	amount(total, "cbc:LineExtensionAmount", sale.Currency, sale.TaxableAmount.Add(sale.ExemptAmount))
	amount(total, "cbc:TaxInclusiveAmount", sale.Currency, sale.TotalAmount)
	amount(total, "cbc:PayableAmount", sale.Currency, sale.TotalAmount)
}

func saleLines(root *etree.Element, sale *model.Sale, lineTag, qtyTag string) {
	for i, d := range sale.Details {
		line := root.CreateElement(lineTag)
		text(line, "cbc:ID", strconv.Itoa(i+1))
		quantity(line, qtyTag, d.Unit, d.Quantity)
		amount(line, "cbc:LineExtensionAmount", sale.Currency, d.LineValue)

		alt := line.CreateElement("cac:PricingReference").CreateElement("cac:AlternativeConditionPrice")
		amount(alt, "cbc:PriceAmount", sale.Currency, d.UnitPrice)
		text(alt, "cbc:PriceTypeCode", priceTypeUnit)

		taxTotal(line, sale.Currency, d.LineValue, d.IGV, d.IGVRate, d.TaxAffectation)

		item := line.CreateElement("cac:Item")
		text(item, "cbc:Description", d.Description)
		if d.Code != "" {
			text(item.CreateElement("cac:SellersItemIdentification"), "cbc:ID", d.Code)
		}
		amount(line.CreateElement("cac:Price"), "cbc:PriceAmount", sale.Currency, d.UnitValue)
	}
}
