package xml

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-submit/internal/model"
	"github.com/rezonia/einvoice-submit/internal/signature"
	"github.com/rezonia/einvoice-submit/internal/signature/trust"
	"github.com/rezonia/einvoice-submit/internal/testdocs"
	"github.com/rezonia/einvoice-submit/internal/xml/builder"
	"github.com/rezonia/einvoice-submit/internal/xml/ubl"
)

func loadTestCertificate(t *testing.T) *signature.Certificate {
	t.Helper()

	pemData, err := testdocs.CertificatePEM()
	require.NoError(t, err)
	cert, err := signature.LoadCertificate(pemData)
	require.NoError(t, err)
	return cert
}

func buildInvoice(t *testing.T, indent int) []byte {
	t.Helper()

	xml, err := builder.NewInvoiceBuilder(builder.Options{Indent: indent}).Build(testdocs.Invoice())
	require.NoError(t, err)
	return xml
}

func TestXMLSigner_PlacesSignatureInExtensionContent(t *testing.T) {
	signer := NewXMLSigner(loadTestCertificate(t))

	signed, err := signer.Sign(buildInvoice(t, 0))
	require.NoError(t, err)

	doc, err := ubl.Parse(signed)
	require.NoError(t, err)

	slot := ubl.Find(doc.Root(), ubl.ExtensionContentPath)
	require.NotNil(t, slot)
	require.Len(t, slot.ChildElements(), 1)

	sig := slot.ChildElements()[0]
	assert.Equal(t, "Signature", sig.Tag)
	assert.Equal(t, ubl.NSDS, sig.NamespaceURI())
	assert.Equal(t, ubl.SignatureID, sig.SelectAttrValue("Id", ""))
	assert.NotNil(t, sig.FindElement("KeyInfo/X509Data/X509Certificate"))
	assert.Contains(t, string(signed), "http://www.w3.org/2000/09/xmldsig#rsa-sha1")
	assert.True(t, strings.HasPrefix(string(signed), "<?xml"))
}

func TestXMLSigner_NoSlotAppendsToRoot(t *testing.T) {
	signer := NewXMLSigner(loadTestCertificate(t))

	signed, err := signer.Sign([]byte(`<Doc><Value>1</Value></Doc>`))
	require.NoError(t, err)

	doc, err := ubl.Parse(signed)
	require.NoError(t, err)
	children := doc.Root().ChildElements()
	require.Len(t, children, 2)
	assert.Equal(t, "Signature", children[1].Tag)
}

func TestXMLSigner_Errors(t *testing.T) {
	signer := NewXMLSigner(loadTestCertificate(t))

	tests := []struct {
		name string
		data []byte
	}{
		{"malformed", []byte(`<a attr=>`)},
		{"empty", []byte(``)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := signer.Sign(tt.data)
			assert.ErrorIs(t, err, signature.ErrSigning)
		})
	}

	t.Run("already signed", func(t *testing.T) {
		signed, err := signer.Sign(buildInvoice(t, 0))
		require.NoError(t, err)

		_, err = signer.Sign(signed)
		assert.ErrorIs(t, err, signature.ErrSigning)
	})

	t.Run("no certificate", func(t *testing.T) {
		_, err := NewXMLSigner(nil).Sign(buildInvoice(t, 0))
		assert.ErrorIs(t, err, signature.ErrSigning)
	})
}

func TestXMLVerifier_RoundTrip(t *testing.T) {
	cert := loadTestCertificate(t)
	signer := NewXMLSigner(cert)

	for name, doc := range testdocs.All() {
		t.Run(name, func(t *testing.T) {
			xml := buildDocument(t, doc)

			signed, err := signer.Sign(xml)
			require.NoError(t, err)

			result, err := NewXMLVerifier(nil).Verify(context.Background(), signed)
			require.NoError(t, err)
			assert.True(t, result.Valid, "errors: %v", result.Errors)
			assert.True(t, result.SignatureValid)
			assert.Equal(t, ubl.SignatureID, result.SignatureID)
			assert.Equal(t, doc.Kind().String(), result.Kind)
			assert.Equal(t, doc.Name(), result.Filename)
			require.NotNil(t, result.Signer)
			assert.Equal(t, "EMPRESA SAC", result.Signer.Name)
			assert.NotEmpty(t, result.Warnings)
		})
	}
}

func TestXMLVerifier_IndentedDocument(t *testing.T) {
	signed, err := NewXMLSigner(loadTestCertificate(t)).Sign(buildInvoice(t, 2))
	require.NoError(t, err)

	result, err := NewXMLVerifier(nil).Verify(context.Background(), signed)
	require.NoError(t, err)
	assert.True(t, result.Valid, "errors: %v", result.Errors)
}

func TestXMLVerifier_TamperedDocument(t *testing.T) {
	signed, err := NewXMLSigner(loadTestCertificate(t)).Sign(buildInvoice(t, 0))
	require.NoError(t, err)

	tampered := strings.Replace(string(signed), "EMPRESA 1", "EMPRESA 2", 1)
	require.NotEqual(t, string(signed), tampered)

	result, err := NewXMLVerifier(nil).Verify(context.Background(), []byte(tampered))
	require.NoError(t, err)
	assert.True(t, result.SignatureFound)
	assert.False(t, result.SignatureValid)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)
}

func TestXMLVerifier_TrustStore(t *testing.T) {
	cert := loadTestCertificate(t)
	signed, err := NewXMLSigner(cert).Sign(buildInvoice(t, 0))
	require.NoError(t, err)

	t.Run("trusted", func(t *testing.T) {
		store := trust.NewEmptyTrustStore()
		store.AddCertificate(cert.Leaf)

		result, err := NewXMLVerifier(store).Verify(context.Background(), signed)
		require.NoError(t, err)
		assert.True(t, result.Valid, "errors: %v", result.Errors)
		assert.True(t, result.CertChainValid)
		assert.Empty(t, result.Warnings)
		assert.NotEmpty(t, result.CertChain)
	})

	t.Run("untrusted", func(t *testing.T) {
		result, err := NewXMLVerifier(trust.NewEmptyTrustStore()).Verify(context.Background(), signed)
		require.NoError(t, err)
		assert.True(t, result.SignatureValid)
		assert.False(t, result.CertChainValid)
		assert.False(t, result.Valid)
	})
}

func TestXMLVerifier_Unsigned(t *testing.T) {
	result, err := NewXMLVerifier(nil).Verify(context.Background(), []byte(unsignedInvoice))
	require.Error(t, err)
	assert.True(t, IsNoSignature(err))
	assert.False(t, result.SignatureFound)
	assert.False(t, result.Valid)
}

func TestXMLVerifier_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewXMLVerifier(nil).Verify(ctx, []byte(unsignedInvoice))
	assert.ErrorIs(t, err, context.Canceled)
}

func buildDocument(t *testing.T, doc model.Document) []byte {
	t.Helper()

	var b builder.Builder
	opts := builder.DefaultOptions()
	switch doc.Kind() {
	case model.KindInvoice:
		b = builder.NewInvoiceBuilder(opts)
	case model.KindNote:
		b = builder.NewNoteBuilder(opts)
	case model.KindSummary:
		b = builder.NewSummaryBuilder(opts)
	case model.KindVoided, model.KindReversion:
		b = builder.NewVoidedBuilder(opts)
	case model.KindDespatch:
		b = builder.NewDespatchBuilder(opts)
	case model.KindRetention:
		b = builder.NewRetentionBuilder(opts)
	case model.KindPerception:
		b = builder.NewPerceptionBuilder(opts)
	default:
		t.Fatalf("no builder for %s", doc.Kind())
	}

	xml, err := b.Build(doc)
	require.NoError(t, err)
	return xml
}
