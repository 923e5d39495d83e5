package sender

import (
	"strconv"
	"strings"

	"github.com/rezonia/einvoice-submit/internal/errcode"
	"github.com/rezonia/einvoice-submit/internal/model"
	"github.com/rezonia/einvoice-submit/internal/ws"
)

// Translate converts a fault into an authority error. The numeric code is
// taken from the fault code, else from the fault string. A catalog message
// wins over the fault's own text, which is the last resort.
func Translate(fault *ws.Fault, catalog errcode.Catalog) *model.Error {
	e := &model.Error{Code: fault.Code}

	code := codeFromFaultCode(fault)
	if code == "" {
		code = codeFromFaultString(fault)
	}

	var msg string
	if code != "" {
		e.Code = code
		msg = lookup(catalog, code)
	}
	if msg == "" {
		msg = fault.String
		if fault.Detail != "" {
			msg = fault.Detail
		}
	}
	e.Message = msg
	return e
}

func codeFromFaultCode(fault *ws.Fault) string {
	return digits(fault.Code)
}

func codeFromFaultString(fault *ws.Fault) string {
	return digits(fault.String)
}

// lookup consults the catalog with the integer value of code ("0160" is 160)
func lookup(catalog errcode.Catalog, code string) string {
	if catalog == nil {
		return ""
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return ""
	}
	msg, _ := catalog.Message(n)
	return msg
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
