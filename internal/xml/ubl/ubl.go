// Package ubl holds the namespaces and element helpers shared by the
// document builders, the resolver and the CDR reader.
package ubl

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/rezonia/einvoice-submit/internal/model"
)

// UBL 2 document namespaces
const (
	NSInvoice        = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NSCreditNote     = "urn:oasis:names:specification:ubl:schema:xsd:CreditNote-2"
	NSDebitNote      = "urn:oasis:names:specification:ubl:schema:xsd:DebitNote-2"
	NSDespatchAdvice = "urn:oasis:names:specification:ubl:schema:xsd:DespatchAdvice-2"
	NSAppResponse    = "urn:oasis:names:specification:ubl:schema:xsd:ApplicationResponse-2"

	NSCac = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NSCbc = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
	NSExt = "urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2"
	NSDS  = "http://www.w3.org/2000/09/xmldsig#"
)

// Peruvian (SUNAT) document namespaces
const (
	NSPeru             = "urn:sunat:names:specification:ubl:peru:schema:xsd:"
	NSSummaryDocuments = NSPeru + "SummaryDocuments-1"
	NSVoidedDocuments  = NSPeru + "VoidedDocuments-1"
	NSRetention        = NSPeru + "Retention-1"
	NSPerception       = NSPeru + "Perception-1"
	NSSac              = NSPeru + "SunatAggregateComponents-1"
)

// Versions written into cbc:UBLVersionID and cbc:CustomizationID
const (
	UBLVersion21    = "2.1"
	UBLVersion20    = "2.0"
	Customization20 = "2.0"
	Customization10 = "1.0"
	Customization11 = "1.1"
)

// SignatureID is the Id given to the enveloped signature and referenced by cac:Signature
const SignatureID = "SignSUNAT"

// ExtensionContentPath locates the slot that receives the enveloped signature
const ExtensionContentPath = "UBLExtensions/UBLExtension/ExtensionContent"

// Find returns the first element under parent matching path. Path steps are
// local names; any namespace prefix in the document is ignored.
func Find(parent *etree.Element, path string) *etree.Element {
	if parent == nil {
		return nil
	}
	return parent.FindElement(path)
}

// Text returns the trimmed text at path, or "" when the element is missing
func Text(parent *etree.Element, path string) string {
	el := Find(parent, path)
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

// FirstText returns the first non-empty text among paths
func FirstText(parent *etree.Element, paths ...string) string {
	for _, p := range paths {
		if v := Text(parent, p); v != "" {
			return v
		}
	}
	return ""
}

// RequireText is FirstText that fails with a missing element error naming the first path
func RequireText(parent *etree.Element, paths ...string) (string, error) {
	if v := FirstText(parent, paths...); v != "" {
		return v, nil
	}
	return "", model.ErrMissingElement(paths[0])
}

// Parse reads raw XML into a document
func Parse(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, model.ErrMalformedXML(err)
	}
	if doc.Root() == nil {
		return nil, model.ErrMalformedXML(nil)
	}
	return doc, nil
}
