package ws_test

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-submit/internal/model"
	"github.com/rezonia/einvoice-submit/internal/ws"
)

var creds = ws.Credentials{RUC: "20000000001", User: "MODDATOS", Password: "moddatos"}

func envelope(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<soap-env:Envelope xmlns:soap-env="http://schemas.xmlsoap.org/soap/envelope/">
	<soap-env:Header/>
	<soap-env:Body>` + body + `</soap-env:Body>
</soap-env:Envelope>`
}

type captured struct {
	action string
	doc    *etree.Document
}

func newServer(t *testing.T, status int, reply string, got *captured) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if got != nil {
			got.action = r.Header.Get("SOAPAction")
			got.doc = etree.NewDocument()
			require.NoError(t, got.doc.ReadFromBytes(body))
		}
		w.Header().Set("Content-Type", "text/xml")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_SendBill(t *testing.T) {
	receipt := []byte("PK-receipt")
	reply := envelope(fmt.Sprintf(
		`<br:sendBillResponse xmlns:br="http://service.sunat.gob.pe"><applicationResponse>%s</applicationResponse></br:sendBillResponse>`,
		base64.StdEncoding.EncodeToString(receipt)))

	var got captured
	srv := newServer(t, http.StatusOK, reply, &got)
	client := ws.NewClient(srv.URL, creds)

	cdr, err := client.SendBill(context.Background(), "20000000001-01-F001-1.zip", []byte("zip-bytes"))
	require.NoError(t, err)
	assert.Equal(t, receipt, cdr)

	assert.Equal(t, "http://service.sunat.gob.pe/sendBill", got.action)
	root := got.doc.Root()
	assert.Equal(t, "20000000001MODDATOS", root.FindElement("Header/Security/UsernameToken/Username").Text())
	assert.Equal(t, "moddatos", root.FindElement("Header/Security/UsernameToken/Password").Text())
	call := root.FindElement("Body/sendBill")
	require.NotNil(t, call)
	assert.Equal(t, "20000000001-01-F001-1.zip", call.FindElement("fileName").Text())
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("zip-bytes")), call.FindElement("contentFile").Text())
}

func TestClient_SendSummary(t *testing.T) {
	reply := envelope(`<ns2:sendSummaryResponse xmlns:ns2="http://service.sunat.gob.pe"><ticket>1500000000001</ticket></ns2:sendSummaryResponse>`)

	var got captured
	srv := newServer(t, http.StatusOK, reply, &got)

	ticket, err := ws.NewClient(srv.URL, creds).SendSummary(context.Background(), "20000000001-RC-20170809-001.zip", []byte("zip"))
	require.NoError(t, err)
	assert.Equal(t, "1500000000001", ticket)
	assert.NotNil(t, got.doc.Root().FindElement("Body/sendSummary"))
}

func TestClient_SendSummary_NoTicket(t *testing.T) {
	reply := envelope(`<ns2:sendSummaryResponse xmlns:ns2="http://service.sunat.gob.pe"><ticket></ticket></ns2:sendSummaryResponse>`)
	srv := newServer(t, http.StatusOK, reply, nil)

	_, err := ws.NewClient(srv.URL, creds).SendSummary(context.Background(), "x.zip", nil)
	require.Error(t, err)
	assert.True(t, model.HasCode(err, model.ErrCodeMalformedResponse))
}

func TestClient_GetStatus(t *testing.T) {
	content := base64.StdEncoding.EncodeToString([]byte("PK-cdr"))
	// the service wraps long payloads across lines
	wrapped := content[:4] + "\n" + content[4:]
	reply := envelope(fmt.Sprintf(
		`<ns2:getStatusResponse xmlns:ns2="http://service.sunat.gob.pe"><status><content>%s</content><statusCode>0</statusCode></status></ns2:getStatusResponse>`,
		wrapped))

	var got captured
	srv := newServer(t, http.StatusOK, reply, &got)

	status, err := ws.NewClient(srv.URL, creds).GetStatus(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "0", status.Code)
	assert.Equal(t, []byte("PK-cdr"), status.Content)

	ticket := got.doc.Root().FindElement("Body/getStatus/ticket")
	require.NotNil(t, ticket, "empty tickets are sent as-is")
	assert.Equal(t, "", ticket.Text())
}

func TestClient_GetStatus_Pending(t *testing.T) {
	reply := envelope(`<ns2:getStatusResponse xmlns:ns2="http://service.sunat.gob.pe"><status><statusCode>98</statusCode></status></ns2:getStatusResponse>`)
	srv := newServer(t, http.StatusOK, reply, nil)

	status, err := ws.NewClient(srv.URL, creds).GetStatus(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "98", status.Code)
	assert.Nil(t, status.Content)
}

func TestClient_Fault(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   ws.Fault
	}{
		{
			name:   "client fault with code",
			status: http.StatusInternalServerError,
			body:   `<soap-env:Fault><faultcode>soap-env:Client.0160</faultcode><faultstring>El archivo XML esta vacio</faultstring></soap-env:Fault>`,
			want:   ws.Fault{Code: "soap-env:Client.0160", String: "El archivo XML esta vacio"},
		},
		{
			name:   "fault with detail",
			status: http.StatusInternalServerError,
			body: `<soap-env:Fault><faultcode>soap-env:Server</faultcode><faultstring>2335</faultstring>
				<detail><message>El documento electronico ingresado ha sido alterado</message></detail></soap-env:Fault>`,
			want: ws.Fault{Code: "soap-env:Server", String: "2335", Detail: "El documento electronico ingresado ha sido alterado"},
		},
		{
			name:   "fault with 200",
			status: http.StatusOK,
			body:   `<soap-env:Fault><faultcode>0102</faultcode><faultstring>Usuario o contraseña incorrectos</faultstring></soap-env:Fault>`,
			want:   ws.Fault{Code: "0102", String: "Usuario o contraseña incorrectos"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.status, envelope(tt.body), nil)

			_, err := ws.NewClient(srv.URL, creds).SendBill(context.Background(), "x.zip", nil)
			require.Error(t, err)

			var fault *ws.Fault
			require.True(t, errors.As(err, &fault))
			assert.Equal(t, tt.want, *fault)
		})
	}
}

func TestClient_HTTPErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"gateway error", http.StatusBadGateway, "<html>bad gateway</html>"},
		{"empty 503", http.StatusServiceUnavailable, ""},
		{"empty 200", http.StatusOK, ""},
		{"not soap", http.StatusOK, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.status, tt.body, nil)

			_, err := ws.NewClient(srv.URL, creds).SendBill(context.Background(), "x.zip", nil)
			require.Error(t, err)

			var fault *ws.Fault
			assert.False(t, errors.As(err, &fault))
		})
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	srv := newServer(t, http.StatusOK, envelope(""), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ws.NewClient(srv.URL, creds).GetStatus(ctx, "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
