package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"arboriza/backend/internal/plantnet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartBody(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile(field, "leaf.jpg")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func newVendor(t *testing.T, status int, body string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "key-123", r.URL.Query().Get("api-key"))
		assert.Equal(t, "pt", r.URL.Query().Get("lang"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newIdentify(srv *httptest.Server, key string) *Identify {
	return &Identify{
		Client: &plantnet.Client{Client: srv.Client(), BaseURL: srv.URL},
		APIKey: key,
	}
}

func TestIdentifyRelaysVendorResponse(t *testing.T) {
	vendorBody := `{"results":[{"score":0.91,"species":{"scientificNameWithoutAuthor":"Handroanthus albus"}}]}`
	srv, calls := newVendor(t, http.StatusOK, vendorBody)
	h := newIdentify(srv, "key-123")

	body, ct := multipartBody(t, "image", []byte("jpegdata"))
	req := httptest.NewRequest(http.MethodPost, "/identify", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, vendorBody, rec.Body.String())
	assert.Equal(t, 1, *calls)
}

func TestIdentifyRewrapsVendorError(t *testing.T) {
	srv, _ := newVendor(t, http.StatusNotFound, `{"message":"Species not found"}`)
	h := newIdentify(srv, "key-123")

	body, ct := multipartBody(t, "images", []byte("jpegdata"))
	req := httptest.NewRequest(http.MethodPost, "/identify", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Species not found"}`, rec.Body.String())
}

func TestIdentifyVendorErrorWithoutMessage(t *testing.T) {
	srv, _ := newVendor(t, http.StatusServiceUnavailable, `{}`)
	h := newIdentify(srv, "key-123")

	body, ct := multipartBody(t, "image", []byte("jpegdata"))
	req := httptest.NewRequest(http.MethodPost, "/identify", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"Service Unavailable"}`, rec.Body.String())
}

func TestIdentifyAcceptsBase64Body(t *testing.T) {
	srv, calls := newVendor(t, http.StatusOK, `{"results":[]}`)
	h := newIdentify(srv, "key-123")

	raw, ct := multipartBody(t, "image", []byte("jpegdata"))
	encoded := base64.StdEncoding.EncodeToString(raw.Bytes())
	req := httptest.NewRequest(http.MethodPost, "/identify", bytes.NewBufferString(encoded))
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, *calls)
}

func TestIdentifyPreflight(t *testing.T) {
	srv, calls := newVendor(t, http.StatusOK, `{}`)
	h := newIdentify(srv, "key-123")

	req := httptest.NewRequest(http.MethodOptions, "/identify", nil)
	req.Header.Set("Origin", "https://arboriza.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://arboriza.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Zero(t, *calls)
}

func TestIdentifyMethodNotAllowed(t *testing.T) {
	srv, calls := newVendor(t, http.StatusOK, `{}`)
	h := newIdentify(srv, "key-123")

	req := httptest.NewRequest(http.MethodGet, "/identify", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Zero(t, *calls)
}

func TestIdentifyRejectsBadContentType(t *testing.T) {
	srv, calls := newVendor(t, http.StatusOK, `{}`)
	h := newIdentify(srv, "key-123")

	req := httptest.NewRequest(http.MethodPost, "/identify", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, *calls)
}

func TestIdentifyRejectsEmptyImage(t *testing.T) {
	srv, calls := newVendor(t, http.StatusOK, `{}`)
	h := newIdentify(srv, "key-123")

	body, ct := multipartBody(t, "image", nil)
	req := httptest.NewRequest(http.MethodPost, "/identify", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, *calls)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Nenhuma imagem enviada ou imagem vazia.", resp["error"])
}

func TestIdentifyMissingAPIKey(t *testing.T) {
	srv, calls := newVendor(t, http.StatusOK, `{}`)
	h := newIdentify(srv, "")

	body, ct := multipartBody(t, "image", []byte("jpegdata"))
	req := httptest.NewRequest(http.MethodPost, "/identify", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, *calls)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Erro de configuração do servidor (chave API em falta).", resp["error"])
}
