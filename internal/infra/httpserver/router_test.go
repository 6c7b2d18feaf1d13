package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pau-interconnect/cv-analyzer/internal/application"
	"github.com/pau-interconnect/cv-analyzer/internal/application/analyses"
	"github.com/pau-interconnect/cv-analyzer/internal/domain/users"
	"github.com/pau-interconnect/cv-analyzer/internal/infra/db/jsonstore"
	"github.com/pau-interconnect/cv-analyzer/internal/infra/extract"
	"github.com/pau-interconnect/cv-analyzer/internal/infra/storage"
	"github.com/pau-interconnect/cv-analyzer/internal/middleware"
)

type stubAI struct {
	result string
	err    error
	calls  int
}

func (s *stubAI) AnalyzeFit(_ context.Context, _, _ string) (string, error) {
	s.calls++
	return s.result, s.err
}

type testEnv struct {
	handler   http.Handler
	usersFile string
	ai        *stubAI
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	usersFile := filepath.Join(dir, "users.json")
	ai := &stubAI{result: "Strong fit for Backend Intern."}

	svc := &analyses.Service{
		Uploads:   storage.NewLocal(filepath.Join(dir, "uploads")),
		Extractor: extract.NewPDF(),
		AI:        ai,
		Users:     jsonstore.New(usersFile),
		Clock:     application.SystemClock{},
		AITimeout: 5 * time.Second,
	}

	handler := NewRouter(svc, "*", map[string]middleware.HealthChecker{
		"store": &middleware.FileStoreHealthChecker{Path: usersFile},
	}, zerolog.Nop())

	return &testEnv{handler: handler, usersFile: usersFile, ai: ai}
}

func pdfBytes(t *testing.T, text string) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	doc.AddPage()
	doc.Cell(0, 10, text)

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func analyzeRequest(t *testing.T, name, email, internships, fileName string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("name", name))
	require.NoError(t, w.WriteField("email", email))
	require.NoError(t, w.WriteField("internships", internships))
	if file != nil {
		fw, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAnalyzeEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	before := time.Now().UTC().Add(-time.Second)

	req := analyzeRequest(t, "Jane Doe", "jane@example.com",
		`[{"title":"Backend Intern"}]`, "resume.pdf",
		pdfBytes(t, "Skilled in Python and SQL"))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "Strong fit for Backend Intern.", body["analysis"])

	raw, err := os.ReadFile(env.usersFile)
	require.NoError(t, err)
	var doc map[string]users.User
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Contains(t, doc, "jane@example.com")

	u := doc["jane@example.com"]
	assert.Equal(t, "Jane Doe", u.Name)
	require.Len(t, u.Analyses, 1)
	assert.Equal(t, "resume.pdf", u.Analyses[0].FileName)
	assert.False(t, u.Analyses[0].Date.Time().Before(before))
}

func TestAnalyzeTwiceSameEmailDifferentCase(t *testing.T) {
	env := newTestEnv(t)

	first := analyzeRequest(t, "Jane Doe", "Jane@Example.com",
		"[]", "first.pdf", pdfBytes(t, "Python"))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	second := analyzeRequest(t, "Someone Else", "jane@example.com",
		"[]", "second.pdf", pdfBytes(t, "SQL"))
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, second)
	require.Equal(t, http.StatusOK, rec.Code)

	raw, err := os.ReadFile(env.usersFile)
	require.NoError(t, err)
	var doc map[string]users.User
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc, 1)

	u := doc["jane@example.com"]
	assert.Equal(t, "Jane Doe", u.Name) // first write wins
	require.Len(t, u.Analyses, 2)
	assert.Equal(t, "first.pdf", u.Analyses[0].FileName)
	assert.Equal(t, "second.pdf", u.Analyses[1].FileName)
}

func TestAnalyzeModelFailureReturnsErrorPayload(t *testing.T) {
	env := newTestEnv(t)
	env.ai.err = errors.New("unexpected status 502")

	req := analyzeRequest(t, "Jane Doe", "jane@example.com",
		"[]", "resume.pdf", pdfBytes(t, "Python"))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "failed to get analysis from model api")

	// nothing persisted
	_, err := os.Stat(env.usersFile)
	assert.True(t, os.IsNotExist(err))
}

func TestAnalyzeMalformedPDFReturnsExtractionError(t *testing.T) {
	env := newTestEnv(t)

	req := analyzeRequest(t, "Jane Doe", "jane@example.com",
		"[]", "resume.pdf", []byte("not a pdf"))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "failed to extract text from pdf")
	assert.Zero(t, env.ai.calls)
}

func TestAnalyzeMissingFileIsBadRequest(t *testing.T) {
	env := newTestEnv(t)

	req := analyzeRequest(t, "Jane Doe", "jane@example.com", "[]", "", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "missing file")
}

func TestAnalyzeMissingEmailIsBadRequest(t *testing.T) {
	env := newTestEnv(t)

	req := analyzeRequest(t, "Jane Doe", "", "[]", "resume.pdf", pdfBytes(t, "Python"))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	env := newTestEnv(t)

	req := analyzeRequest(t, "Jane Doe", "jane@example.com",
		"[]", "resume.pdf", pdfBytes(t, "Python"))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/Jane@Example.com/analyses", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var u users.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	assert.Equal(t, "Jane Doe", u.Name)
	require.Len(t, u.Analyses, 1)
}

func TestHistoryUnknownUserIs404(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/nobody@example.com/analyses", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
