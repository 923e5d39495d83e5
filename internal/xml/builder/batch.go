package builder

import (
	"strconv"

	"github.com/rezonia/einvoice-submit/internal/model"
	"github.com/rezonia/einvoice-submit/internal/xml/ubl"
)

// SummaryBuilder renders daily summaries (SummaryDocuments-1)
type SummaryBuilder struct {
	opts Options
}

// NewSummaryBuilder is the Factory for summaries
func NewSummaryBuilder(opts Options) Builder {
	return &SummaryBuilder{opts: opts}
}

// Build implements Builder
func (b *SummaryBuilder) Build(doc model.Document) ([]byte, error) {
	sum, ok := doc.(*model.Summary)
	if !ok {
		return nil, model.ErrDocumentMismatch(model.KindSummary, doc)
	}

	xdoc, root := newDocument("SummaryDocuments", ubl.NSSummaryDocuments, true)
	text(root, "cbc:UBLVersionID", ubl.UBLVersion20)
	text(root, "cbc:CustomizationID", ubl.Customization11)
	text(root, "cbc:ID", sum.ID())
	date(root, "cbc:ReferenceDate", sum.SummaryDate)
	date(root, "cbc:IssueDate", sum.GenerationDate)
	signatureBlock(root, sum.Company)
	batchSupplier(root, sum.Company)

	for i, d := range sum.Details {
		line := root.CreateElement("sac:SummaryDocumentsLine")
		text(line, "cbc:LineID", strconv.Itoa(i+1))
		text(line, "cbc:DocumentTypeCode", d.DocType)
		text(line, "cbc:ID", d.Number)

		customer := line.CreateElement("cac:AccountingCustomerParty")
		text(customer, "cbc:CustomerAssignedAccountID", d.ClientDocNumber)
		text(customer, "cbc:AdditionalAccountID", d.ClientDocType)

		text(line.CreateElement("cac:Status"), "cbc:ConditionCode", d.Status)
		amount(line, "sac:TotalAmount", d.Currency, d.Total)

		paid := line.CreateElement("sac:BillingPayment")
		amount(paid, "cbc:PaidAmount", d.Currency, d.Taxable)
		text(paid, "cbc:InstructionID", "01")

		taxTotal(line, d.Currency, d.Taxable, d.IGV, model.DefaultIGVRate, "")
	}

	return render(xdoc, b.opts)
}

// VoidedBuilder renders voided communications and reversions (VoidedDocuments-1).
// The two differ only in the batch code of their identifier.
type VoidedBuilder struct {
	opts Options
}

// NewVoidedBuilder is the Factory for voided communications and reversions
func NewVoidedBuilder(opts Options) Builder {
	return &VoidedBuilder{opts: opts}
}

// Build implements Builder
func (b *VoidedBuilder) Build(doc model.Document) ([]byte, error) {
	var (
		voided *model.Voided
		id     string
	)
	switch d := doc.(type) {
	case *model.Voided:
		voided, id = d, d.ID()
	case *model.Reversion:
		voided, id = &d.Voided, d.ID()
	default:
		return nil, model.ErrDocumentMismatch(model.KindVoided, doc)
	}

	xdoc, root := newDocument("VoidedDocuments", ubl.NSVoidedDocuments, true)
	text(root, "cbc:UBLVersionID", ubl.UBLVersion20)
	text(root, "cbc:CustomizationID", ubl.Customization10)
	text(root, "cbc:ID", id)
	date(root, "cbc:ReferenceDate", voided.ReferenceDate)
	date(root, "cbc:IssueDate", voided.IssueDate)
	signatureBlock(root, voided.Company)
	batchSupplier(root, voided.Company)

	for i, d := range voided.Details {
		line := root.CreateElement("sac:VoidedDocumentsLine")
		text(line, "cbc:LineID", strconv.Itoa(i+1))
		text(line, "cbc:DocumentTypeCode", d.DocType)
		text(line, "sac:DocumentSerialID", d.Series)
		text(line, "sac:DocumentNumberID", d.Correlative)
		text(line, "sac:VoidReasonDescription", d.Reason)
	}

	return render(xdoc, b.opts)
}
