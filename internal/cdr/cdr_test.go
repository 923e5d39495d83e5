package cdr_test

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-submit/internal/archive"
	"github.com/rezonia/einvoice-submit/internal/cdr"
	"github.com/rezonia/einvoice-submit/internal/model"
)

const receipt = `<?xml version="1.0" encoding="utf-8"?>
<ar:ApplicationResponse xmlns:ar="urn:oasis:names:specification:ubl:schema:xsd:ApplicationResponse-2"
	xmlns:cac="urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	xmlns:cbc="urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2">
	<cbc:ID>1502345678901</cbc:ID>
	<cbc:IssueDate>2017-08-09</cbc:IssueDate>
	<cbc:Note>4252 - El dato ingresado como atributo @listName es incorrecto.</cbc:Note>
	<cbc:Note>4287 - El precio unitario de la operación que está informando difiere.</cbc:Note>
	<cac:DocumentResponse>
		<cac:Response>
			<cbc:ReferenceID>F001-1</cbc:ReferenceID>
			<cbc:ResponseCode>0</cbc:ResponseCode>
			<cbc:Description>La Factura numero F001-1, ha sido aceptada</cbc:Description>
		</cac:Response>
	</cac:DocumentResponse>
</ar:ApplicationResponse>`

func TestExtract(t *testing.T) {
	data, err := archive.Compress("R-20000000001-01-F001-1.xml", []byte(receipt))
	require.NoError(t, err)

	got, err := cdr.Extract(data)
	require.NoError(t, err)

	assert.Equal(t, "1502345678901", got.ID)
	assert.Equal(t, "0", got.Code)
	assert.Equal(t, "F001-1", got.Reference)
	assert.Equal(t, "La Factura numero F001-1, ha sido aceptada", got.Description)
	assert.Equal(t, []string{
		"4252 - El dato ingresado como atributo @listName es incorrecto.",
		"4287 - El precio unitario de la operación que está informando difiere.",
	}, got.Notes)
	assert.True(t, got.IsAccepted())
}

func TestExtract_UsesLastEntry(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range [][2]string{
		{"ignored.xml", "not a receipt <<"},
		{"R001-20-001.xml", receipt},
	} {
		f, err := w.Create(e[0])
		require.NoError(t, err)
		_, err = f.Write([]byte(e[1]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	got, err := cdr.Extract(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "1502345678901", got.ID)
	assert.Equal(t, "F001-1", got.Reference)
	assert.True(t, got.IsAccepted())
}

func TestParse_Rejected(t *testing.T) {
	rejected := `<ApplicationResponse xmlns="urn:oasis:names:specification:ubl:schema:xsd:ApplicationResponse-2"
		xmlns:cac="urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
		xmlns:cbc="urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2">
		<cac:DocumentResponse><cac:Response>
			<cbc:ResponseCode>2335</cbc:ResponseCode>
			<cbc:Description>El documento electronico ingresado ha sido alterado</cbc:Description>
		</cac:Response></cac:DocumentResponse>
	</ApplicationResponse>`

	got, err := cdr.Parse([]byte(rejected))
	require.NoError(t, err)
	assert.Equal(t, "2335", got.Code)
	assert.Empty(t, got.Notes)
	assert.False(t, got.IsAccepted())
}

func TestExtract_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not xml", "garbage <<"},
		{"wrong root", `<Invoice/>`},
		{"no response", `<ApplicationResponse/>`},
		{"no response code", `<ApplicationResponse><DocumentResponse><Response><Description>x</Description></Response></DocumentResponse></ApplicationResponse>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := archive.Compress("R-x.xml", []byte(tt.content))
			require.NoError(t, err)

			_, err = cdr.Extract(data)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrCdr)
			assert.NotErrorIs(t, err, model.ErrArchive)
		})
	}
}

func TestExtract_EmptyArchive(t *testing.T) {
	_, err := cdr.Extract(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrArchive)
}
