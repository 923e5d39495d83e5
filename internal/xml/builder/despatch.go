package builder

import (
	"strconv"

	"github.com/rezonia/einvoice-submit/internal/model"
	"github.com/rezonia/einvoice-submit/internal/xml/ubl"
)

// DespatchBuilder renders despatch advices (UBL 2.1 DespatchAdvice)
type DespatchBuilder struct {
	opts Options
}

// NewDespatchBuilder is the Factory for despatch advices
func NewDespatchBuilder(opts Options) Builder {
	return &DespatchBuilder{opts: opts}
}

// Build implements Builder
func (b *DespatchBuilder) Build(doc model.Document) ([]byte, error) {
	des, ok := doc.(*model.Despatch)
	if !ok {
		return nil, model.ErrDocumentMismatch(model.KindDespatch, doc)
	}

	xdoc, root := newDocument("DespatchAdvice", ubl.NSDespatchAdvice, false)
	text(root, "cbc:UBLVersionID", ubl.UBLVersion21)
	text(root, "cbc:CustomizationID", ubl.Customization20)
	text(root, "cbc:ID", des.Series+"-"+des.Correlative)
	date(root, "cbc:IssueDate", des.IssueDate)
	text(root, "cbc:DespatchAdviceTypeCode", model.DocTypeDespatch)
	optText(root, "cbc:Note", des.Note)
	signatureBlock(root, des.Company)

	companyParty(root, "cac:DespatchSupplierParty", des.Company)
	clientParty(root, "cac:DeliveryCustomerParty", des.Recipient)

	s := des.Shipment
	shipment := root.CreateElement("cac:Shipment")
	text(shipment, "cbc:ID", "SUNAT_Envio")
	text(shipment, "cbc:HandlingCode", s.ReasonCode)
	optText(shipment, "cbc:HandlingInstructions", s.Reason)
	quantity(shipment, "cbc:GrossWeightMeasure", s.WeightUnit, s.GrossWeight)
	if s.Packages > 0 {
		text(shipment, "cbc:TotalTransportHandlingUnitQuantity", strconv.Itoa(s.Packages))
	}

	stage := shipment.CreateElement("cac:ShipmentStage")
	text(stage, "cbc:TransportModeCode", s.TransportMode)
	date(stage.CreateElement("cac:TransitPeriod"), "cbc:StartDate", s.StartDate)
	if s.Carrier != nil {
		carrier := stage.CreateElement("cac:CarrierParty")
		schemeID(carrier.CreateElement("cac:PartyIdentification"), "cbc:ID", s.Carrier.DocType, s.Carrier.DocNumber)
		text(carrier.CreateElement("cac:PartyLegalEntity"), "cbc:RegistrationName", s.Carrier.Name)
	}

	delivery := shipment.CreateElement("cac:Delivery")
	address(delivery, "cac:DeliveryAddress", s.Destination)
	address(delivery.CreateElement("cac:Despatch"), "cac:DespatchAddress", s.Origin)

	for i, d := range des.Details {
		line := root.CreateElement("cac:DespatchLine")
		text(line, "cbc:ID", strconv.Itoa(i+1))
		quantity(line, "cbc:DeliveredQuantity", d.Unit, d.Quantity)
		text(line.CreateElement("cac:OrderLineReference"), "cbc:LineID", strconv.Itoa(i+1))

		item := line.CreateElement("cac:Item")
		text(item, "cbc:Description", d.Description)
		if d.Code != "" {
			text(item.CreateElement("cac:SellersItemIdentification"), "cbc:ID", d.Code)
		}
	}

	return render(xdoc, b.opts)
}
