package xml

import (
	_ "crypto/sha1" // digest for rsa-sha1 signatures

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"

	"github.com/rezonia/einvoice-submit/internal/signature"
	"github.com/rezonia/einvoice-submit/internal/xml/ubl"
)

// XMLSigner adds an enveloped RSA-SHA1 signature to UBL documents.
// The signature goes into the first ext:ExtensionContent slot, or is
// appended to the root when the document has no slot.
type XMLSigner struct {
	cert *signature.Certificate
}

var _ signature.Signer = (*XMLSigner)(nil)

// NewXMLSigner creates a signer for the given certificate
func NewXMLSigner(cert *signature.Certificate) *XMLSigner {
	return &XMLSigner{cert: cert}
}

// Certificate returns the signing certificate
func (s *XMLSigner) Certificate() *signature.Certificate {
	return s.cert
}

// Sign implements signature.Signer
func (s *XMLSigner) Sign(data []byte) ([]byte, error) {
	if s.cert == nil {
		return nil, signature.ErrSigningFailed("no signing certificate", nil)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, signature.ErrSigningFailed("failed to parse XML", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, signature.ErrSigningFailed("empty XML document", nil)
	}
	if findSignatureElement(root) != nil {
		return nil, signature.ErrSigningFailed("document is already signed", nil)
	}

	ctx := dsig.NewDefaultSigningContext(dsig.TLSCertKeyStore(s.cert.TLS))
	ctx.Canonicalizer = dsig.MakeC14N10RecCanonicalizer()
	if err := ctx.SetSignatureMethod(dsig.RSASHA1SignatureMethod); err != nil {
		return nil, signature.ErrSigningFailed("unsupported signature method", err)
	}

	sig, err := ctx.ConstructSignature(root, true)
	if err != nil {
		return nil, signature.ErrSigningFailed("failed to construct signature", err)
	}
	sig.CreateAttr("Id", ubl.SignatureID)

	if slot := ubl.Find(root, ubl.ExtensionContentPath); slot != nil {
		slot.AddChild(sig)
	} else {
		root.AddChild(sig)
	}

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, signature.ErrSigningFailed("failed to serialize document", err)
	}
	return out, nil
}
