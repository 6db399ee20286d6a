// internal/workers/lookup/record-lookup/handler_test.go
package recordlookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lookup-workers/internal/common/logger"
	"lookup-workers/internal/common/metrics"
	"lookup-workers/internal/lookup/aggregate"
	"lookup-workers/internal/lookup/client"
	"lookup-workers/internal/lookup/pipeline"
	"lookup-workers/internal/lookup/report"
	"lookup-workers/pkg/registry"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig(t *testing.T) *Config {
	reg, err := registry.LoadRegistry("../../../../configs/activity-registry.json")
	require.NoError(t, err)
	return &Config{
		Timeout:     3 * time.Second,
		InputSchema: reg.InputSchemaFor(TaskType),
	}
}

// newLookupServer answers every lookup call with body and status.
func newLookupServer(t *testing.T, status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, client.FindPath, r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func newTestHandler(t *testing.T, baseURL string) *Handler {
	log := logger.NewTestLogger(t)
	c := client.New(&client.Config{BaseURL: baseURL, APIKey: "test-api-key", Timeout: 2 * time.Second}, log)

	opts := report.DefaultOptions()
	opts.Renderer = report.Plain{}
	svc := pipeline.New(c, aggregate.New(nil), report.NewFormatter(opts), log,
		pipeline.WithRequestIDs(func() string { return "turn-1" }))

	h, err := NewHandler(createTestConfig(t), svc, log)
	require.NoError(t, err)
	return h
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Report(t *testing.T) {
	server := newLookupServer(t, http.StatusOK, `{
		"Responses": [{
			"Query": "Иванов Петр Петрович 1994",
			"Responses": [
				{"Phone": ["79250000000"], "FIO": "Иванов Петр Петрович"},
				{"phone": ["79250000000", "79251112233"], "sources": [{"name": "db1"}, {"url": "https://x"}]}
			]
		}]
	}`)
	defer server.Close()

	h := newTestHandler(t, server.URL)
	out := h.Execute(context.Background(), &Input{Mode: "fio", Text: "Иванов Петр Петрович 1994"})

	assert.Equal(t, metrics.OutcomeReport, out.Status)
	assert.Equal(t, "person", out.QueryKind)
	assert.Empty(t, out.ErrorCode)
	assert.Equal(t, "turn-1", out.RequestID)
	assert.Contains(t, out.Report, "Телефоны: 79250000000; 79251112233")
	assert.Contains(t, out.Report, "ФИО: Иванов Петр Петрович")
	assert.Contains(t, out.Report, "Источники: db1, https://x")
}

func TestHandler_Execute_KeepsCallerRequestID(t *testing.T) {
	server := newLookupServer(t, http.StatusOK, `{"Responses":[]}`)
	defer server.Close()

	h := newTestHandler(t, server.URL)
	out := h.Execute(context.Background(), &Input{Mode: "phone", Text: "89250000000", RequestID: "bpmn-42"})

	assert.Equal(t, "bpmn-42", out.RequestID)
	assert.Equal(t, metrics.OutcomeNothingFound, out.Status)
	assert.Equal(t, "⚠️ Ничего не найдено по валидным запросам.", out.Report)
}

// ==========================
// Error Path Tests
// ==========================

func TestHandler_Execute_HTTPErrorCompletesWithCode(t *testing.T) {
	server := newLookupServer(t, http.StatusUnauthorized, `{"error":"bad key"}`)
	defer server.Close()

	h := newTestHandler(t, server.URL)
	out := h.Execute(context.Background(), &Input{Mode: "phone", Text: "79250000000"})

	assert.Equal(t, metrics.OutcomeHTTPError, out.Status)
	assert.Equal(t, "LOOKUP_TRANSPORT_FAILED", out.ErrorCode)
	assert.Equal(t, "HTTP ошибка: 401", out.Report)
}

func TestHandler_Execute_InvalidQueryNoCall(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	h := newTestHandler(t, server.URL)
	out := h.Execute(context.Background(), &Input{Mode: "phone", Text: "not a phone"})

	assert.False(t, called)
	assert.Equal(t, "QUERY_CLASSIFICATION_FAILED", out.ErrorCode)
	assert.Equal(t, "invalid", out.QueryKind)
	assert.True(t, strings.HasPrefix(out.Report, "⚠️ Укажи номер"))
}

// ==========================
// Input Validation Tests
// ==========================

func TestHandler_DecodeInput(t *testing.T) {
	h := newTestHandler(t, "http://127.0.0.1:1")

	input, err := h.decodeInput([]byte(`{"mode":"fio","text":"Иванов Петр Петрович 1994","requestId":"r1","extra":true}`))
	require.NoError(t, err)
	assert.Equal(t, &Input{Mode: "fio", Text: "Иванов Петр Петрович 1994", RequestID: "r1"}, input)
}

func TestHandler_DecodeInput_Violations(t *testing.T) {
	tests := []struct {
		name string
		vars string
	}{
		{"not json", `{`},
		{"missing mode", `{"text":"79250000000"}`},
		{"missing text", `{"mode":"phone"}`},
		{"empty text", `{"mode":"phone","text":""}`},
		{"unknown mode", `{"mode":"email","text":"a"}`},
		{"text wrong type", `{"mode":"phone","text":79250000000}`},
	}

	h := newTestHandler(t, "http://127.0.0.1:1")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.decodeInput([]byte(tt.vars))
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
		})
	}
}
