package model

import "strings"

// Kind identifies one of the document families accepted by the tax authority
type Kind int

// Document kinds
const (
	KindUnknown Kind = iota
	KindInvoice
	KindNote
	KindSummary
	KindVoided
	KindReversion
	KindDespatch
	KindRetention
	KindPerception
)

var kindNames = map[Kind]string{
	KindInvoice:    "invoice",
	KindNote:       "note",
	KindSummary:    "summary",
	KindVoided:     "voided",
	KindReversion:  "reversion",
	KindDespatch:   "despatch",
	KindRetention:  "retention",
	KindPerception: "perception",
}

// Kinds returns every dispatchable kind in declaration order
func Kinds() []Kind {
	return []Kind{
		KindInvoice,
		KindNote,
		KindSummary,
		KindVoided,
		KindReversion,
		KindDespatch,
		KindRetention,
		KindPerception,
	}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether k is one of the eight dispatchable kinds
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind converts a kind name (case-insensitive) into a Kind
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindUnknown, ErrUnsupportedKind(s)
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
