package xml

import (
	"bytes"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/rezonia/einvoice-submit/internal/signature"
	"github.com/rezonia/einvoice-submit/internal/xml/ubl"
)

// SignatureExtractor locates the enveloped XMLDSig signature of a UBL document
type SignatureExtractor struct{}

// NewSignatureExtractor creates a new signature extractor
func NewSignatureExtractor() *SignatureExtractor {
	return &SignatureExtractor{}
}

// ExtractionResult contains the extracted signature and related elements
type ExtractionResult struct {
	// SignatureElement is the <ds:Signature> element
	SignatureElement *etree.Element
	// Document is the parsed XML document; its root is the signed element
	Document *etree.Document
}

// Extract parses data and finds its signature element
func (e *SignatureExtractor) Extract(data []byte) (*ExtractionResult, error) {
	doc, err := ubl.Parse(data)
	if err != nil {
		return nil, err
	}

	sig := findSignatureElement(doc.Root())
	if sig == nil {
		return nil, signature.ErrNoSignature()
	}

	return &ExtractionResult{
		SignatureElement: sig,
		Document:         doc,
	}, nil
}

// findSignatureElement looks in the extension slot first, then anywhere
func findSignatureElement(root *etree.Element) *etree.Element {
	if slot := ubl.Find(root, ubl.ExtensionContentPath); slot != nil {
		for _, child := range slot.ChildElements() {
			if isSignature(child) {
				return child
			}
		}
	}
	return findElementRecursive(root)
}

func findElementRecursive(elem *etree.Element) *etree.Element {
	if isSignature(elem) {
		return elem
	}
	for _, child := range elem.ChildElements() {
		if found := findElementRecursive(child); found != nil {
			return found
		}
	}
	return nil
}

func isSignature(elem *etree.Element) bool {
	return elem.Tag == "Signature" && elem.NamespaceURI() == ubl.NSDS
}

// ExtractCertificateData extracts the base64-encoded certificate from a Signature element
func ExtractCertificateData(sig *etree.Element) ([]byte, error) {
	certElem := sig.FindElement("KeyInfo/X509Data/X509Certificate")
	if certElem == nil || strings.TrimSpace(certElem.Text()) == "" {
		return nil, fmt.Errorf("no X509Certificate found in Signature")
	}
	return []byte(certElem.Text()), nil
}

// ParseCertificate decodes the signing certificate embedded in sig
func ParseCertificate(sig *etree.Element) (*x509.Certificate, error) {
	data, err := ExtractCertificateData(sig)
	if err != nil {
		return nil, err
	}

	compact := strings.Join(strings.Fields(string(data)), "")
	der, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("failed to decode certificate: %w", err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}
	return cert, nil
}

// CanExtract returns true if the data appears to be XML with a signature
func (e *SignatureExtractor) CanExtract(data []byte) bool {
	if len(data) < 5 {
		return false
	}

	trimmed := bytes.TrimSpace(data)
	if !bytes.HasPrefix(trimmed, []byte("<")) {
		return false
	}

	return bytes.Contains(data, []byte("<Signature")) ||
		bytes.Contains(data, []byte(":Signature"))
}
