package model

// NewDocument returns an empty document of the given kind, ready to be
// decoded into (JSON input for the CLI and HTTP API)
func NewDocument(kind Kind) (Document, error) {
	switch kind {
	case KindInvoice:
		return &Invoice{}, nil
	case KindNote:
		return &Note{}, nil
	case KindSummary:
		return &Summary{}, nil
	case KindVoided:
		return &Voided{}, nil
	case KindReversion:
		return &Reversion{}, nil
	case KindDespatch:
		return &Despatch{}, nil
	case KindRetention:
		return &Retention{}, nil
	case KindPerception:
		return &Perception{}, nil
	default:
		return nil, ErrUnsupportedKind(kind)
	}
}
