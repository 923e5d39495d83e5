package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-submit/internal/model"
	"github.com/rezonia/einvoice-submit/internal/server"
	"github.com/rezonia/einvoice-submit/internal/signature"
	"github.com/rezonia/einvoice-submit/internal/testdocs"
	"github.com/rezonia/einvoice-submit/internal/xml/builder"
)

type fakeSubmitter struct {
	signed     model.Document
	sentKind   model.Kind
	sentName   string
	sentXML    []byte
	ticket     string
	result     *model.Result
	status     *model.StatusResult
	err        error
	signedBody []byte
}

func (f *fakeSubmitter) GetXmlSigned(_ context.Context, doc model.Document) ([]byte, error) {
	f.signed = doc
	return f.signedBody, f.err
}

func (f *fakeSubmitter) SendXml(_ context.Context, kind model.Kind, filename string, xml []byte) (*model.Result, error) {
	f.sentKind, f.sentName, f.sentXML = kind, filename, xml
	return f.result, f.err
}

func (f *fakeSubmitter) SendXmlFile(_ context.Context, xml []byte) (*model.Result, error) {
	f.sentXML = xml
	return f.result, f.err
}

func (f *fakeSubmitter) GetStatus(_ context.Context, ticket string) (*model.StatusResult, error) {
	f.ticket = ticket
	return f.status, f.err
}

type fakeVerifier struct {
	result *signature.VerificationResult
	err    error
}

func (f *fakeVerifier) Verify(context.Context, []byte) (*signature.VerificationResult, error) {
	return f.result, f.err
}

func newTestServer(sub server.Submitter, opts ...server.Option) *server.Server {
	return server.NewServer(&server.Config{Address: ":8080", MaxBodySize: 1 << 20}, sub, opts...)
}

func do(t *testing.T, srv *server.Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	w := do(t, newTestServer(&fakeSubmitter{}), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])
	assert.NotEmpty(t, w.Header().Get(server.RequestIDHeader))
}

func TestRequestIDPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(server.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	newTestServer(&fakeSubmitter{}).Handler().ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(server.RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "einvoice_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	w := do(t, newTestServer(&fakeSubmitter{}, server.WithGatherer(reg)), http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "einvoice_test_total 1")
}

func TestSendFileEndpoint(t *testing.T) {
	sub := &fakeSubmitter{result: &model.Result{Success: true, Ticket: "1500523236696"}}
	w := do(t, newTestServer(sub), http.MethodPost, "/api/v1/send", []byte("<SummaryDocuments/>"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<SummaryDocuments/>", string(sub.sentXML))

	var result model.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "1500523236696", result.Ticket)
}

func TestSendFileEndpoint_EmptyBody(t *testing.T) {
	w := do(t, newTestServer(&fakeSubmitter{}), http.MethodPost, "/api/v1/send", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendEndpoint(t *testing.T) {
	sub := &fakeSubmitter{result: &model.Result{Error: &model.Error{Code: "0111", Message: "No tiene el perfil"}}}
	w := do(t, newTestServer(sub), http.MethodPost, "/api/v1/send/invoice?filename=20000000001-01-F001-1", []byte("<Invoice/>"))

	// business rejections are not HTTP errors
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.KindInvoice, sub.sentKind)
	assert.Equal(t, "20000000001-01-F001-1", sub.sentName)

	var result model.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, "0111", result.Error.Code)
}

func TestSendEndpoint_BadRequests(t *testing.T) {
	srv := newTestServer(&fakeSubmitter{})

	w := do(t, srv, http.MethodPost, "/api/v1/send/order?filename=x", []byte("<x/>"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, "/api/v1/send/invoice", []byte("<x/>"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendEndpoint_HardFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unrecognized document", model.ErrUnrecognizedType("Order"), http.StatusUnprocessableEntity, model.ErrCodeUnrecognizedType},
		{"signing", signature.ErrSigningFailed("boom", nil), http.StatusUnprocessableEntity, signature.ErrCodeSigningFailed},
		{"malformed receipt", model.ErrMalformedArchive("empty archive", nil), http.StatusBadGateway, model.ErrCodeMalformedArchive},
		{"transport", errors.New("connection refused"), http.StatusBadGateway, ""},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, newTestServer(&fakeSubmitter{err: tt.err}), http.MethodPost, "/api/v1/send", []byte("<x/>"))
			assert.Equal(t, tt.status, w.Code)

			var resp server.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestSignEndpoint(t *testing.T) {
	sub := &fakeSubmitter{signedBody: []byte("<Invoice>signed</Invoice>")}
	body, err := json.Marshal(testdocs.Invoice())
	require.NoError(t, err)

	w := do(t, newTestServer(sub), http.MethodPost, "/api/v1/sign/invoice", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml", w.Header().Get("Content-Type"))
	assert.Equal(t, "<Invoice>signed</Invoice>", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "20000000001-01-F001-1.xml")

	inv, ok := sub.signed.(*model.Invoice)
	require.True(t, ok)
	assert.Equal(t, "F001", inv.Series)
	assert.True(t, inv.TotalAmount.Equal(testdocs.Invoice().TotalAmount))
}

func TestSignEndpoint_FilenameQuoted(t *testing.T) {
	inv := testdocs.Invoice()
	inv.Series = `F"01; x=1`
	body, err := json.Marshal(inv)
	require.NoError(t, err)

	w := do(t, newTestServer(&fakeSubmitter{signedBody: []byte("<Invoice/>")}), http.MethodPost, "/api/v1/sign/invoice", body)
	require.Equal(t, http.StatusOK, w.Code)

	disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, inv.Name()+".xml", params["filename"])
	assert.Len(t, params, 1)
}

func TestSignEndpoint_InvalidJSON(t *testing.T) {
	w := do(t, newTestServer(&fakeSubmitter{}), http.MethodPost, "/api/v1/sign/invoice", []byte("{"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusEndpoint(t *testing.T) {
	sub := &fakeSubmitter{status: &model.StatusResult{
		Result: model.Result{Error: &model.Error{Code: "98", Message: "El proceso de envío aún no ha terminado"}},
		Code:   "98",
	}}
	w := do(t, newTestServer(sub), http.MethodGet, "/api/v1/status/1500523236696", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1500523236696", sub.ticket)
	assert.Contains(t, w.Body.String(), `"code":"98"`)
}

func TestInfoEndpoint(t *testing.T) {
	xml, err := builder.NewDespatchBuilder(builder.DefaultOptions()).Build(testdocs.Despatch())
	require.NoError(t, err)

	w := do(t, newTestServer(&fakeSubmitter{}), http.MethodPost, "/api/v1/info", xml)

	assert.Equal(t, http.StatusOK, w.Code)
	var info map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "despatch", info["kind"])
	assert.Equal(t, testdocs.Despatch().Name(), info["filename"])
}

func TestInfoEndpoint_Unrecognized(t *testing.T) {
	w := do(t, newTestServer(&fakeSubmitter{}), http.MethodPost, "/api/v1/info", []byte(`<Order xmlns="urn:example"/>`))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestVerifyEndpoint(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		w := do(t, newTestServer(&fakeSubmitter{}), http.MethodPost, "/api/v1/verify", []byte("<x/>"))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("valid", func(t *testing.T) {
		v := &fakeVerifier{result: &signature.VerificationResult{Valid: true, SignatureFound: true}}
		w := do(t, newTestServer(&fakeSubmitter{}, server.WithVerifier(v)), http.MethodPost, "/api/v1/verify", []byte("<x/>"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"valid":true`)
	})

	t.Run("no signature", func(t *testing.T) {
		v := &fakeVerifier{result: signature.NewVerificationResult(), err: signature.ErrNoSignature()}
		w := do(t, newTestServer(&fakeSubmitter{}, server.WithVerifier(v)), http.MethodPost, "/api/v1/verify", []byte("<x/>"))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), `"signature_found":false`)
	})
}

func TestBodyLimit(t *testing.T) {
	srv := server.NewServer(&server.Config{MaxBodySize: 8}, &fakeSubmitter{})
	w := do(t, srv, http.MethodPost, "/api/v1/send", []byte(strings.Repeat("x", 64)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
