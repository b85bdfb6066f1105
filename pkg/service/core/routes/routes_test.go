package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheetflow/sheetflow-backend/pkg/database"
	"github.com/sheetflow/sheetflow-backend/pkg/service/core"
	"github.com/sheetflow/sheetflow-backend/pkg/service/core/handlers"
	"github.com/sheetflow/sheetflow-backend/pkg/service/core/routes"
	"github.com/sheetflow/sheetflow-backend/pkg/service/core/storage"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := zerolog.New(os.Stdout)

	repo, err := database.New(context.Background(), ":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	stores, err := storage.NewStores(repo, t.TempDir())
	require.NoError(t, err)

	services := core.NewServices(stores, 100, log)
	h := handlers.NewHandlers(services)

	router := chi.NewRouter()
	routes.Add(router,
		routes.NewUserRoutes(routes.NewUserEndpoints(log, h)),
		routes.NewWorkflowRoutes(routes.NewWorkflowEndpoints(log, h)),
		routes.NewQueryRoutes(routes.NewQueryEndpoints(log, h)),
		routes.NewUploadRoutes(routes.NewUploadEndpoints(log, h)),
		routes.NewAnalysisRoutes(routes.NewAnalysisEndpoints(log, h)),
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server
}

func postJSON(t *testing.T, server *httptest.Server, path string, body string) (int, map[string]any) {
	t.Helper()

	resp, err := http.Post(server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return resp.StatusCode, out
}

func getJSON(t *testing.T, server *httptest.Server, path string) (int, map[string]any) {
	t.Helper()

	resp, err := http.Get(server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return resp.StatusCode, out
}

func TestSignupAndLoginOverHTTP(t *testing.T) {
	server := newServer(t)

	code, body := postJSON(t, server, "/signup", `{"username":"ada","password":"hunter2"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"success": true, "message": "Signup successful"}, body)

	code, body = postJSON(t, server, "/login", `{"username":"ada","password":"wrong"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"success": false, "message": "Invalid username or password"}, body)
}

func TestWorkflowRoutes(t *testing.T) {
	server := newServer(t)

	code, _ := postJSON(t, server, "/signup", `{"username":"ada","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, code)

	code, created := postJSON(t, server, "/workflows", `{"username":"ada","name":"report","data_prep":"{}"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "report", created["name"])

	id := int64(created["id"].(float64))

	code, fetched := getJSON(t, server, fmt.Sprintf("/workflows/%d", id))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, created, fetched)

	code, body := getJSON(t, server, "/workflows/12345")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, map[string]any{"error": "Workflow not found"}, body)

	code, body = getJSON(t, server, "/workflows?username=nobody")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, map[string]any{"error": "User not found"}, body)

	code, _ = getJSON(t, server, "/workflows/abc")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestExecuteQueryOverHTTP(t *testing.T) {
	server := newServer(t)

	code, body := postJSON(t, server, "/api/execute-query",
		`{"query":"SELECT a FROM t WHERE a > 1","language":"sql","tables":{"t":[{"a":1},{"a":2}]}}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{map[string]any{"a": 2.0}}, body["data"])

	// Execution failures keep HTTP 200 and surface in the body.
	code, body = postJSON(t, server, "/api/execute-query",
		`{"query":"SELECT 1","language":"cobol","tables":{"t":[{"a":1}]}}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"error": "Invalid language"}, body)
}

func TestUploadOverHTTP(t *testing.T) {
	server := newServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "sales.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("region,amount\nnorth,10\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(server.URL+"/upload", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []any{"sheet1"}, body["sheet_names"])
	assert.Equal(t, "sheet1", body["selected_sheet"])
}

func TestDownloadExcelRoundTrip(t *testing.T) {
	server := newServer(t)

	content := []byte("region,amount\nnorth,10\n")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "sales.csv")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(server.URL+"/upload_excel", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var saved map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&saved))
	assert.Equal(t, "uploads/sales.csv", saved["path"])

	got, err := http.Get(server.URL + "/download_excel/sales.csv")
	require.NoError(t, err)
	defer got.Body.Close()

	assert.Equal(t, http.StatusOK, got.StatusCode)
	assert.Contains(t, got.Header.Get("Content-Disposition"), "sales.csv")

	data, err := io.ReadAll(got.Body)
	require.NoError(t, err)
	assert.Equal(t, content, data)

	// Missing files render a JSON error with HTTP 200.
	code, body := getJSON(t, server, "/download_excel/missing.xlsx")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"error": "File not found"}, body)
}

func TestRunAnalysisScriptOverHTTP(t *testing.T) {
	server := newServer(t)

	code, body := postJSON(t, server, "/run_analysis_script",
		`{"workflow_id":9999,"script":"SELECT 1","script_type":"sql"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Workflow or data not found", body["error"])
	assert.Contains(t, body, "trace")
}
