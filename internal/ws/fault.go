package ws

import "fmt"

// Fault is a SOAP fault returned by the authority's web service
type Fault struct {
	Code   string `json:"code"`
	String string `json:"string"`
	Detail string `json:"detail,omitempty"`
}

func (f *Fault) Error() string {
	if f.Detail != "" {
		return fmt.Sprintf("soap fault %s: %s (%s)", f.Code, f.String, f.Detail)
	}
	return fmt.Sprintf("soap fault %s: %s", f.Code, f.String)
}
