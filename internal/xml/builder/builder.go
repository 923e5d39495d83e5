// Package builder renders documents into UBL XML ready to be signed.
package builder

import (
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	money "github.com/rezonia/einvoice-submit/internal/decimal"
	"github.com/rezonia/einvoice-submit/internal/model"
	"github.com/rezonia/einvoice-submit/internal/xml/ubl"
)

// Builder renders one document kind into XML
type Builder interface {
	// Build renders doc. It fails with a DOCUMENT_MISMATCH error when doc
	// is not of the kind the builder handles.
	Build(doc model.Document) ([]byte, error)
}

// Factory creates a builder for the given rendering options
type Factory func(opts Options) Builder

// Options control how XML is rendered
type Options struct {
	// Indent is the number of spaces per nesting level; 0 renders compact XML
	Indent int `yaml:"indent" json:"indent"`
}

// DefaultOptions returns compact rendering
func DefaultOptions() Options {
	return Options{}
}

// Merge returns o with every unset field taken from defaults
func (o Options) Merge(defaults Options) Options {
	if o.Indent == 0 {
		o.Indent = defaults.Indent
	}
	return o
}

const (
	dateLayout = "2006-01-02"

	taxSchemeIGV   = "1000"
	taxSchemeName  = "IGV"
	taxSchemeType  = "VAT"
	priceTypeUnit  = "01"
	schemeAgency   = "PE:SUNAT"
	defaultCountry = "PE"
)

// newDocument starts a document with the given root and an empty extension
// slot for the signature
func newDocument(tag, namespace string, sunat bool) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	root := doc.CreateElement(tag)
	root.CreateAttr("xmlns", namespace)
	root.CreateAttr("xmlns:cac", ubl.NSCac)
	root.CreateAttr("xmlns:cbc", ubl.NSCbc)
	root.CreateAttr("xmlns:ext", ubl.NSExt)
	if sunat {
		root.CreateAttr("xmlns:sac", ubl.NSSac)
	}

	root.CreateElement("ext:UBLExtensions").
		CreateElement("ext:UBLExtension").
		CreateElement("ext:ExtensionContent")

	return doc, root
}

func render(doc *etree.Document, opts Options) ([]byte, error) {
	if opts.Indent > 0 {
		doc.Indent(opts.Indent)
	}
	return doc.WriteToBytes()
}

func text(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(value)
	return el
}

// optText writes the element only when value is non-empty
func optText(parent *etree.Element, tag, value string) {
	if value != "" {
		text(parent, tag, value)
	}
}

func amount(parent *etree.Element, tag, currency string, d decimal.Decimal) *etree.Element {
	el := text(parent, tag, money.Amount(d))
	el.CreateAttr("currencyID", currency)
	return el
}

func quantity(parent *etree.Element, tag, unit string, d decimal.Decimal) *etree.Element {
	el := text(parent, tag, money.Quantity(d))
	el.CreateAttr("unitCode", unit)
	return el
}

func date(parent *etree.Element, tag string, t time.Time) {
	text(parent, tag, t.Format(dateLayout))
}

func schemeID(parent *etree.Element, tag, scheme, value string) *etree.Element {
	el := text(parent, tag, value)
	el.CreateAttr("schemeID", scheme)
	return el
}

// signatureBlock writes the cac:Signature reference to the enveloped signature
func signatureBlock(root *etree.Element, company model.Company) {
	sig := root.CreateElement("cac:Signature")
	text(sig, "cbc:ID", ubl.SignatureID)

	party := sig.CreateElement("cac:SignatoryParty")
	text(party.CreateElement("cac:PartyIdentification"), "cbc:ID", company.RUC)
	text(party.CreateElement("cac:PartyName"), "cbc:Name", company.LegalName)

	attachment := sig.CreateElement("cac:DigitalSignatureAttachment")
	text(attachment.CreateElement("cac:ExternalReference"), "cbc:URI", "#"+ubl.SignatureID)
}

func address(parent *etree.Element, tag string, addr model.Address) {
	el := parent.CreateElement(tag)
	optText(el, "cbc:ID", addr.Ubigeo)
	optText(el, "cbc:CitySubdivisionName", addr.Urbanization)
	optText(el, "cbc:CityName", addr.Province)
	optText(el, "cbc:CountrySubentity", addr.Department)
	optText(el, "cbc:District", addr.District)
	if addr.Line != "" {
		text(el.CreateElement("cac:AddressLine"), "cbc:Line", addr.Line)
	}
	country := addr.CountryCode
	if country == "" {
		country = defaultCountry
	}
	text(el.CreateElement("cac:Country"), "cbc:IdentificationCode", country)
}

// party writes a UBL 2.1 party: identification, names and legal address
func party(parent *etree.Element, tag, docType, docNumber, legalName, tradeName string, addr *model.Address) {
	p := parent.CreateElement(tag).CreateElement("cac:Party")
	schemeID(p.CreateElement("cac:PartyIdentification"), "cbc:ID", docType, docNumber)
	if tradeName != "" {
		text(p.CreateElement("cac:PartyName"), "cbc:Name", tradeName)
	}
	legal := p.CreateElement("cac:PartyLegalEntity")
	text(legal, "cbc:RegistrationName", legalName)
	if addr != nil {
		address(legal, "cac:RegistrationAddress", *addr)
	}
}

func companyParty(parent *etree.Element, tag string, company model.Company) {
	addr := company.Address
	party(parent, tag, model.IdentityRUC, company.RUC, company.LegalName, company.TradeName, &addr)
}

func clientParty(parent *etree.Element, tag string, client model.Client) {
	party(parent, tag, client.DocType, client.DocNumber, client.Name, "", client.Address)
}

// batchSupplier writes the UBL 2.0 supplier block used by summaries and voided communications
func batchSupplier(root *etree.Element, company model.Company) {
	supplier := root.CreateElement("cac:AccountingSupplierParty")
	text(supplier, "cbc:CustomerAssignedAccountID", company.RUC)
	text(supplier, "cbc:AdditionalAccountID", model.IdentityRUC)
	legal := supplier.CreateElement("cac:Party").CreateElement("cac:PartyLegalEntity")
	text(legal, "cbc:RegistrationName", company.LegalName)
}

// taxTotal writes an IGV tax total with a single subtotal
func taxTotal(parent *etree.Element, currency string, taxable, tax, rate decimal.Decimal, affectation string) {
	total := parent.CreateElement("cac:TaxTotal")
	amount(total, "cbc:TaxAmount", currency, tax)

	sub := total.CreateElement("cac:TaxSubtotal")
	amount(sub, "cbc:TaxableAmount", currency, taxable)
	amount(sub, "cbc:TaxAmount", currency, tax)

	category := sub.CreateElement("cac:TaxCategory")
	if !rate.IsZero() {
		text(category, "cbc:Percent", money.Rate(rate))
	}
	optText(category, "cbc:TaxExemptionReasonCode", affectation)

	scheme := category.CreateElement("cac:TaxScheme")
	text(scheme, "cbc:ID", taxSchemeIGV)
	text(scheme, "cbc:Name", taxSchemeName)
	text(scheme, "cbc:TaxTypeCode", taxSchemeType)
}
