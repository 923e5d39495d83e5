package see

import (
	"github.com/rezonia/einvoice-submit/internal/model"
	"github.com/rezonia/einvoice-submit/internal/xml/builder"
)

// Category selects how a document reaches the authority
type Category int

const (
	// CategoryBill documents are answered with a receipt in the same call
	CategoryBill Category = iota + 1
	// CategorySummary documents are answered with a ticket to poll
	CategorySummary
)

func (c Category) String() string {
	switch c {
	case CategoryBill:
		return "bill"
	case CategorySummary:
		return "summary"
	default:
		return "unknown"
	}
}

// Strategy pairs the builder for a kind with its submission category
type Strategy struct {
	Builder  builder.Factory
	Category Category
}

// Registry maps every document kind to its strategy
type Registry struct{}

// NewRegistry creates the document type registry
func NewRegistry() Registry {
	return Registry{}
}

// Resolve returns the strategy for kind. Kinds outside the eight known
// families fail with model.ErrUnsupportedDocumentKind.
func (Registry) Resolve(kind model.Kind) (Strategy, error) {
	switch kind {
	case model.KindInvoice:
		return Strategy{Builder: builder.NewInvoiceBuilder, Category: CategoryBill}, nil
	case model.KindNote:
		return Strategy{Builder: builder.NewNoteBuilder, Category: CategoryBill}, nil
	case model.KindDespatch:
		return Strategy{Builder: builder.NewDespatchBuilder, Category: CategoryBill}, nil
	case model.KindRetention:
		return Strategy{Builder: builder.NewRetentionBuilder, Category: CategoryBill}, nil
	case model.KindPerception:
		return Strategy{Builder: builder.NewPerceptionBuilder, Category: CategoryBill}, nil
	case model.KindSummary:
		return Strategy{Builder: builder.NewSummaryBuilder, Category: CategorySummary}, nil
	case model.KindVoided, model.KindReversion:
		return Strategy{Builder: builder.NewVoidedBuilder, Category: CategorySummary}, nil
	default:
		return Strategy{}, model.ErrUnsupportedKind(kind)
	}
}
