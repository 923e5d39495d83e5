// Package testdocs provides sample documents of every kind for tests.
package testdocs

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rezonia/einvoice-submit/internal/model"
)

// IssueDate is the date stamped on every sample document
var IssueDate = time.Date(2017, 8, 9, 0, 0, 0, 0, time.UTC)

// Company returns the sample issuer
func Company() model.Company {
	return model.Company{
		RUC:       "20000000001",
		LegalName: "EMPRESA SAC",
		TradeName: "EMPRESA",
		Address: model.Address{
			Ubigeo:     "150101",
			Department: "LIMA",
			Province:   "LIMA",
			District:   "LIMA",
			Line:       "AV GS",
		},
	}
}

// Client returns the sample counterparty
func Client() model.Client {
	return model.Client{
		DocType:   model.IdentityRUC,
		DocNumber: "20000000002",
		Name:      "EMPRESA 1",
	}
}

func sale(docType, series string) model.Sale {
	s := model.Sale{
		DocType:     docType,
		Series:      series,
		Correlative: "1",
		IssueDate:   IssueDate,
		Currency:    "PEN",
		Company:     Company(),
		Client:      Client(),
		Legends:     []model.Legend{{Code: "1000", Value: "CIENTO DIECIOCHO CON 00/100 SOLES"}},
		Details: []model.SaleDetail{{
			Code:           "P001",
			Description:    "PRODUCTO 1",
			Unit:           "NIU",
			Quantity:       decimal.NewFromInt(2),
			UnitValue:      decimal.NewFromInt(50),
			IGVRate:        model.DefaultIGVRate,
			TaxAffectation: "10",
		}},
	}
	s.CalculateTotals()
	return s
}

// Invoice returns a factura
func Invoice() *model.Invoice {
	return &model.Invoice{Sale: sale(model.DocTypeInvoice, "F001"), OperationType: "0101"}
}

// CreditNote returns a credit note against Invoice
func CreditNote() *model.Note {
	return &model.Note{
		Sale:            sale(model.DocTypeCreditNote, "FC01"),
		AffectedDocType: model.DocTypeInvoice,
		AffectedNumber:  "F001-1",
		ReasonCode:      "01",
		Reason:          "ANULACION DE LA OPERACION",
	}
}

// DebitNote returns a debit note against Invoice
func DebitNote() *model.Note {
	n := CreditNote()
	n.DocType = model.DocTypeDebitNote
	n.Series = "FD01"
	n.ReasonCode = "02"
	n.Reason = "AUMENTO EN EL VALOR"
	return n
}

// Summary returns a daily summary with one receipt
func Summary() *model.Summary {
	return &model.Summary{
		Correlative:    "001",
		GenerationDate: IssueDate.AddDate(0, 0, 1),
		SummaryDate:    IssueDate,
		Company:        Company(),
		Details: []model.SummaryDetail{{
			DocType:         model.DocTypeReceipt,
			Number:          "B001-1",
			Status:          model.SummaryStatusAdd,
			ClientDocType:   model.IdentityDNI,
			ClientDocNumber: "44556677",
			Currency:        "PEN",
			Total:           decimal.NewFromInt(118),
			Taxable:         decimal.NewFromInt(100),
			IGV:             decimal.NewFromInt(18),
		}},
	}
}

func voided() model.Voided {
	return model.Voided{
		Correlative:   "001",
		ReferenceDate: IssueDate,
		IssueDate:     IssueDate.AddDate(0, 0, 1),
		Company:       Company(),
		Details: []model.VoidedDetail{{
			DocType:     model.DocTypeInvoice,
			Series:      "F001",
			Correlative: "1",
			Reason:      "ERROR EN SISTEMA",
		}},
	}
}

// Voided returns a voided communication
func Voided() *model.Voided {
	v := voided()
	return &v
}

// Reversion returns a reversion of a retention certificate
func Reversion() *model.Reversion {
	r := &model.Reversion{Voided: voided()}
	r.Details[0].DocType = model.DocTypeRetention
	r.Details[0].Series = "R001"
	return r
}

// Despatch returns a despatch advice
func Despatch() *model.Despatch {
	return &model.Despatch{
		Series:      "T001",
		Correlative: "123",
		IssueDate:   IssueDate,
		Company:     Company(),
		Recipient:   Client(),
		Shipment: model.Shipment{
			ReasonCode:    "01",
			Reason:        "VENTA",
			TransportMode: "01",
			GrossWeight:   decimal.RequireFromString("12.5"),
			WeightUnit:    "KGM",
			Packages:      2,
			StartDate:     IssueDate,
			Origin:        model.Address{Ubigeo: "150101", Line: "AV ORIGEN 123"},
			Destination:   model.Address{Ubigeo: "150203", Line: "AV DESTINO 456"},
		},
		Details: []model.DespatchDetail{{
			Code:        "P001",
			Description: "PRODUCTO 1",
			Unit:        "NIU",
			Quantity:    decimal.NewFromInt(2),
		}},
	}
}

// Retention returns a retention certificate
func Retention() *model.Retention {
	return &model.Retention{
		Series:      "R001",
		Correlative: "123",
		IssueDate:   IssueDate,
		Company:     Company(),
		Supplier:    Client(),
		Regime:      "01",
		Rate:        decimal.NewFromInt(3),
		Observation: "NOTA /><!-- HI -->",
		Retained:    decimal.NewFromInt(10),
		Paid:        decimal.NewFromInt(210),
		Details: []model.RetentionDetail{{
			DocType:       model.DocTypeInvoice,
			Number:        "F001-1",
			IssueDate:     IssueDate,
			RetentionDate: IssueDate,
			Currency:      "PEN",
			Total:         decimal.NewFromInt(200),
			Payable:       decimal.NewFromInt(200),
			Retained:      decimal.NewFromInt(5),
			Payments: []model.Payment{{
				Currency: "PEN",
				Date:     IssueDate,
				Amount:   decimal.NewFromInt(100),
			}},
			Exchange: &model.Exchange{
				Date:           IssueDate,
				Factor:         decimal.NewFromInt(1),
				SourceCurrency: "PEN",
				TargetCurrency: "PEN",
			},
		}},
	}
}

// Perception returns a perception certificate
func Perception() *model.Perception {
	return &model.Perception{
		Series:      "P001",
		Correlative: "123",
		IssueDate:   IssueDate,
		Company:     Company(),
		Customer:    Client(),
		Regime:      "01",
		Rate:        decimal.NewFromInt(2),
		Perceived:   decimal.NewFromInt(4),
		Collected:   decimal.NewFromInt(204),
		Details: []model.PerceptionDetail{{
			DocType:        model.DocTypeInvoice,
			Number:         "F001-1",
			IssueDate:      IssueDate,
			PerceptionDate: IssueDate,
			Currency:       "PEN",
			Total:          decimal.NewFromInt(200),
			Collectable:    decimal.NewFromInt(204),
			Perceived:      decimal.NewFromInt(4),
		}},
	}
}

// All returns one sample per kind, keyed by a descriptive name
func All() map[string]model.Document {
	return map[string]model.Document{
		"invoice":     Invoice(),
		"credit note": CreditNote(),
		"debit note":  DebitNote(),
		"summary":     Summary(),
		"voided":      Voided(),
		"reversion":   Reversion(),
		"despatch":    Despatch(),
		"retention":   Retention(),
		"perception":  Perception(),
	}
}
