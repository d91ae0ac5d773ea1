package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/infra3-curator/internal/config"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	return New(config.Default(), nil).Handler()
}

// upload builds a multipart request carrying content under the given field.
func upload(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/convert", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeError(t *testing.T, body io.Reader) map[string]string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

const pipelineCSV = "Transaction Upload ID,Transaction Name,Financial close,Loan Debt Tranche 1 Type,Tranche 1 Tenor,Tranche 1 Volume USD (m),Tranche 1 Lenders\n" +
	"T1,North Road,2021-01-01,Senior Debt,18,100,\"Bank A, Bank B (30%)\"\n"

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeError(t, w.Body)["status"])
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequestIDPropagates(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")

	w := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestHome(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="file"`)
	assert.Contains(t, w.Body.String(), `action="/api/convert"`)
}

func TestConvertUpload(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(w, upload(t, UploadField, "pipeline.csv", []byte(pipelineCSV)))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="pipeline_INFRA3_`)
	assert.Equal(t, "0", w.Header().Get("X-Source-Warnings"))

	f, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer f.Close()

	assert.Len(t, f.GetSheetList(), 7)
	rows, err := f.GetRows("Tranche_Roles_Any")
	require.NoError(t, err)
	assert.Len(t, rows, 3, "header plus two lenders")
}

func TestConvertUploadErrors(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		filename string
		content  string
		status   int
	}{
		{"wrong field", "statement", "pipeline.csv", pipelineCSV, http.StatusBadRequest},
		{"unsupported format", UploadField, "pipeline.pdf", "%PDF", http.StatusUnsupportedMediaType},
		{"missing identifier", UploadField, "pipeline.csv", "Transaction Name\nNorth Road\n", http.StatusUnprocessableEntity},
		{"header only", UploadField, "pipeline.csv", "Transaction Upload ID\n", http.StatusUnprocessableEntity},
		{"empty csv", UploadField, "pipeline.csv", "\n,,\n", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newTestServer(t).ServeHTTP(w, upload(t, tt.field, tt.filename, []byte(tt.content)))

			assert.Equal(t, tt.status, w.Code)
			resp := decodeError(t, w.Body)
			assert.Equal(t, "error", resp["status"])
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestConvertRequiresPost(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/convert", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestMetrics(t *testing.T) {
	h := newTestServer(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, upload(t, UploadField, "pipeline.csv", []byte(pipelineCSV)))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `infra3_conversions_total{outcome="success"} 1`)
	assert.Contains(t, body, "infra3_source_rows_total 1")
	assert.Contains(t, body, "infra3_conversion_duration_seconds_count 1")
}
