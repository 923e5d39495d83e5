package ws

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"strings"

	"github.com/beevik/etree"
)

// Namespaces used on the wire
const (
	SOAP11Namespace   = "http://schemas.xmlsoap.org/soap/envelope/"
	ServiceNamespace  = "http://service.sunat.gob.pe"
	WSSecurityNS      = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-secext-1.0.xsd"
	PasswordTextType  = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-username-token-profile-1.0#PasswordText"
	SOAP11ContentType = "text/xml; charset=utf-8"
)

// Param is one named argument of an operation, in wire order
type Param struct {
	Name  string
	Value string
}

// buildEnvelope renders a SOAP 1.1 request with a WS-Security UsernameToken
func buildEnvelope(op Operation, creds Credentials, params []Param) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement("soapenv:Envelope")
	env.CreateAttr("xmlns:soapenv", SOAP11Namespace)
	env.CreateAttr("xmlns:ser", ServiceNamespace)
	env.CreateAttr("xmlns:wsse", WSSecurityNS)

	token := env.CreateElement("soapenv:Header").
		CreateElement("wsse:Security").
		CreateElement("wsse:UsernameToken")
	token.CreateElement("wsse:Username").SetText(creds.Username())
	pwd := token.CreateElement("wsse:Password")
	pwd.CreateAttr("Type", PasswordTextType)
	pwd.SetText(creds.Password)

	call := env.CreateElement("soapenv:Body").CreateElement("ser:" + string(op))
	for _, p := range params {
		call.CreateElement(p.Name).SetText(p.Value)
	}

	return doc.WriteToBytes()
}

type responseEnvelope struct {
	XMLName xml.Name     `xml:"Envelope"`
	Body    responseBody `xml:"Body"`
}

type responseBody struct {
	Fault       *faultElement        `xml:"Fault"`
	SendBill    *sendBillResponse    `xml:"sendBillResponse"`
	SendSummary *sendSummaryResponse `xml:"sendSummaryResponse"`
	GetStatus   *getStatusResponse   `xml:"getStatusResponse"`
}

type faultElement struct {
	Code   string       `xml:"faultcode"`
	String string       `xml:"faultstring"`
	Detail *faultDetail `xml:"detail"`
}

type faultDetail struct {
	Message string `xml:"message"`
}

type sendBillResponse struct {
	ApplicationResponse string `xml:"applicationResponse"`
}

type sendSummaryResponse struct {
	Ticket string `xml:"ticket"`
}

type getStatusResponse struct {
	Status struct {
		StatusCode string `xml:"statusCode"`
		Content    string `xml:"content"`
	} `xml:"status"`
}

func parseEnvelope(data []byte) (*responseEnvelope, error) {
	var env responseEnvelope
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (f *faultElement) toFault() *Fault {
	fault := &Fault{
		Code:   strings.TrimSpace(f.Code),
		String: strings.TrimSpace(f.String),
	}
	if f.Detail != nil {
		fault.Detail = strings.TrimSpace(f.Detail.Message)
	}
	return fault
}

// decodeBase64 tolerates line breaks inside the encoded payload
func decodeBase64(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
	return base64.StdEncoding.DecodeString(clean)
}
