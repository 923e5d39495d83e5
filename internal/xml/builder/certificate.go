package builder

import (
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	money "github.com/rezonia/einvoice-submit/internal/decimal"
	"github.com/rezonia/einvoice-submit/internal/model"
	"github.com/rezonia/einvoice-submit/internal/xml/ubl"
)

const currencyPEN = "PEN"

// RetentionBuilder renders retention certificates (Retention-1)
type RetentionBuilder struct {
	opts Options
}

// NewRetentionBuilder is the Factory for retention certificates
func NewRetentionBuilder(opts Options) Builder {
	return &RetentionBuilder{opts: opts}
}

// Build implements Builder
func (b *RetentionBuilder) Build(doc model.Document) ([]byte, error) {
	ret, ok := doc.(*model.Retention)
	if !ok {
		return nil, model.ErrDocumentMismatch(model.KindRetention, doc)
	}

	xdoc, root := newDocument("Retention", ubl.NSRetention, true)
	certificateHeader(root, ret.Series+"-"+ret.Correlative, ret.IssueDate, ret.Company)
	agentParty(root, ret.Company)
	clientParty(root, "cac:ReceiverParty", ret.Supplier)

	text(root, "sac:SUNATRetentionSystemCode", ret.Regime)
	text(root, "sac:SUNATRetentionPercent", money.Rate(ret.Rate))
	optText(root, "cbc:Note", ret.Observation)
	amount(root, "cbc:TotalInvoiceAmount", currencyPEN, ret.Retained)
	amount(root, "sac:SUNATTotalPaid", currencyPEN, ret.Paid)

	for _, d := range ret.Details {
		ref := root.CreateElement("sac:SUNATRetentionDocumentReference")
		referencedDocument(ref, d.DocType, d.Number, d.IssueDate.Format(dateLayout), d.Currency, d.Total)
		payments(ref, d.Payments)

		info := ref.CreateElement("sac:SUNATRetentionInformation")
		amount(info, "sac:SUNATRetentionAmount", currencyPEN, d.Retained)
		date(info, "sac:SUNATRetentionDate", d.RetentionDate)
		amount(info, "sac:SUNATNetTotalPaid", currencyPEN, d.Payable)
		exchange(info, d.Exchange)
	}

	return render(xdoc, b.opts)
}

// PerceptionBuilder renders perception certificates (Perception-1)
type PerceptionBuilder struct {
	opts Options
}

// NewPerceptionBuilder is the Factory for perception certificates
func NewPerceptionBuilder(opts Options) Builder {
	return &PerceptionBuilder{opts: opts}
}

// Build implements Builder
func (b *PerceptionBuilder) Build(doc model.Document) ([]byte, error) {
	per, ok := doc.(*model.Perception)
	if !ok {
		return nil, model.ErrDocumentMismatch(model.KindPerception, doc)
	}

	xdoc, root := newDocument("Perception", ubl.NSPerception, true)
	certificateHeader(root, per.Series+"-"+per.Correlative, per.IssueDate, per.Company)
	agentParty(root, per.Company)
	clientParty(root, "cac:ReceiverParty", per.Customer)

	text(root, "sac:SUNATPerceptionSystemCode", per.Regime)
	text(root, "sac:SUNATPerceptionPercent", money.Rate(per.Rate))
	optText(root, "cbc:Note", per.Observation)
	amount(root, "cbc:TotalInvoiceAmount", currencyPEN, per.Perceived)
	amount(root, "sac:SUNATTotalCashed", currencyPEN, per.Collected)

	for _, d := range per.Details {
		ref := root.CreateElement("sac:SUNATPerceptionDocumentReference")
		referencedDocument(ref, d.DocType, d.Number, d.IssueDate.Format(dateLayout), d.Currency, d.Total)
		payments(ref, d.Collections)

		info := ref.CreateElement("sac:SUNATPerceptionInformation")
		amount(info, "sac:SUNATPerceptionAmount", currencyPEN, d.Perceived)
		date(info, "sac:SUNATPerceptionDate", d.PerceptionDate)
		amount(info, "sac:SUNATNetTotalCashed", currencyPEN, d.Collectable)
		exchange(info, d.Exchange)
	}

	return render(xdoc, b.opts)
}

func certificateHeader(root *etree.Element, id string, issued time.Time, company model.Company) {
	text(root, "cbc:UBLVersionID", ubl.UBLVersion20)
	text(root, "cbc:CustomizationID", ubl.Customization10)
	signatureBlock(root, company)
	text(root, "cbc:ID", id)
	date(root, "cbc:IssueDate", issued)
}

// agentParty writes the retention or perception agent (the issuer)
func agentParty(root *etree.Element, company model.Company) {
	p := root.CreateElement("cac:AgentParty")
	schemeID(p.CreateElement("cac:PartyIdentification"), "cbc:ID", model.IdentityRUC, company.RUC)
	if company.TradeName != "" {
		text(p.CreateElement("cac:PartyName"), "cbc:Name", company.TradeName)
	}
	address(p, "cac:PostalAddress", company.Address)
	text(p.CreateElement("cac:PartyLegalEntity"), "cbc:RegistrationName", company.LegalName)
}

func referencedDocument(ref *etree.Element, docType, number, issued, currency string, total decimal.Decimal) {
	schemeID(ref, "cbc:ID", docType, number)
	text(ref, "cbc:IssueDate", issued)
	amount(ref, "cbc:TotalInvoiceAmount", currency, total)
}

func payments(ref *etree.Element, pays []model.Payment) {
	for i, p := range pays {
		payment := ref.CreateElement("cac:Payment")
		text(payment, "cbc:ID", strconv.Itoa(i+1))
		amount(payment, "cbc:PaidAmount", p.Currency, p.Amount)
		date(payment, "cbc:PaidDate", p.Date)
	}
}

func exchange(info *etree.Element, ex *model.Exchange) {
	if ex == nil {
		return
	}
	rate := info.CreateElement("cac:ExchangeRate")
	text(rate, "cbc:SourceCurrencyCode", ex.SourceCurrency)
	text(rate, "cbc:TargetCurrencyCode", ex.TargetCurrency)
	text(rate, "cbc:CalculationRate", money.Rate(ex.Factor))
	date(rate, "cbc:Date", ex.Date)
}
