package requestlogger_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rs/zerolog"

	"github.com/sheetflow/sheetflow-backend/pkg/requestlogger"
)

type logLine struct {
	Level     string    `json:"level"`
	Time      time.Time `json:"time"`
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	Status    int       `json:"status"`
	BytesIn   int       `json:"bytes_in"`
	BytesOut  int       `json:"bytes_out"`
	LatencyMs float64   `json:"latency_ms"`
	Message   string    `json:"message"`
}

func TestMiddleware(t *testing.T) {
	testCases := []struct {
		name    string
		target  string
		filters []string
		expect  *logLine
	}{
		{
			name:   "Logs completed request",
			target: "http://example.com/workflows",
			expect: &logLine{
				Level:    "info",
				URL:      "/workflows",
				Method:   http.MethodGet,
				Status:   http.StatusOK,
				BytesOut: 2,
				Message:  "incoming_request",
			},
		},
		{
			name:    "Filtered path stays silent",
			target:  "http://example.com/internal/metrics",
			filters: []string{"/internal/metrics"},
			expect:  nil,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := zerolog.New(&buf)
			mw := requestlogger.Middleware(logger, tc.filters...)

			handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("OK"))
			}))

			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if tc.expect == nil {
				assert.Empty(t, buf.String())
				return
			}

			got := &logLine{}
			err := json.Unmarshal(buf.Bytes(), got)
			require.NoError(t, err)

			assert.Equal(t, tc.expect.Level, got.Level)
			assert.Equal(t, tc.expect.URL, got.URL)
			assert.Equal(t, tc.expect.Method, got.Method)
			assert.Equal(t, tc.expect.Status, got.Status)
			assert.Equal(t, tc.expect.BytesOut, got.BytesOut)
			assert.Equal(t, tc.expect.Message, got.Message)
			assert.GreaterOrEqual(t, got.LatencyMs, 0.0)
		})
	}
}
