package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lookup-workers/internal/common/logger"
	"lookup-workers/internal/lookup/query"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig(baseURL string) *Config {
	return &Config{
		BaseURL: baseURL,
		APIKey:  "test-api-key",
		Timeout: 3 * time.Second,
	}
}

func mustClassify(t *testing.T, text string) query.Query {
	t.Helper()
	q, err := query.Classify(text)
	require.NoError(t, err)
	return q
}

// ==========================
// Request Shape Tests
// ==========================

func TestClient_Find_PersonRequestShape(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, FindPath, r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"responses":[]}`))
	}))
	defer server.Close()

	c := New(createTestConfig(server.URL), logger.NewTestLogger(t))
	resp, err := c.Find(context.Background(), mustClassify(t, "Иванов  Петр Петрович 06.04.1994"))

	require.NoError(t, err)
	assert.True(t, resp.Recognized)
	assert.Empty(t, resp.Blocks)
	assert.Equal(t, []interface{}{"Иванов Петр Петрович 06.04.1994"}, got["Requests"])
	assert.Equal(t, "Detail", got["FindType"])
	assert.Equal(t, "RU", got["CountryType"])
}

func TestClient_Find_PhoneOmitsCountry(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"Responses":[{"Query":"79250000000","Responses":[{"Phone":["79250000000"]}]}]}`))
	}))
	defer server.Close()

	c := New(createTestConfig(server.URL+"/"), logger.NewTestLogger(t))
	resp, err := c.Find(context.Background(), mustClassify(t, "+7 (925) 000-00-00"))

	require.NoError(t, err)
	assert.Equal(t, []interface{}{"79250000000"}, got["Requests"])
	assert.NotContains(t, got, "CountryType")
	require.Len(t, resp.Blocks, 1)
	assert.Equal(t, "79250000000", resp.Blocks[0].Query)
}

func TestClient_BuildRequest(t *testing.T) {
	c := New(&Config{BaseURL: "http://lookup", FindType: "Short", CountryType: "KZ"}, logger.NewNoOpLogger())

	person := c.BuildRequest(mustClassify(t, "Иванов Петр Петрович 1994"))
	assert.Equal(t, Request{Requests: []string{"Иванов Петр Петрович 1994"}, FindType: "Short", CountryType: "KZ"}, person)

	phone := c.BuildRequest(mustClassify(t, "89250000000"))
	assert.Equal(t, Request{Requests: []string{"79250000000"}, FindType: "Short"}, phone)
}

// ==========================
// Error Path Tests
// ==========================

func TestClient_Find_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"unauthorized", http.StatusUnauthorized},
		{"server error", http.StatusInternalServerError},
		{"bad gateway", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte("nope"))
			}))
			defer server.Close()

			c := New(createTestConfig(server.URL), logger.NewTestLogger(t))
			_, err := c.Find(context.Background(), mustClassify(t, "79250000000"))

			var transportErr *TransportError
			require.True(t, errors.As(err, &transportErr), "got %v", err)
			assert.Equal(t, tt.status, transportErr.StatusCode)
			assert.Equal(t, "nope", transportErr.Body)
		})
	}
}

func TestClient_Find_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	cfg := createTestConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond
	c := New(cfg, logger.NewTestLogger(t))

	_, err := c.Find(context.Background(), mustClassify(t, "79250000000"))

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrLookupTimeout), "Expected LOOKUP_TIMEOUT, got: %v", err)
}

func TestClient_Find_SingleAttempt(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := New(createTestConfig(server.URL), logger.NewTestLogger(t))
	_, err := c.Find(context.Background(), mustClassify(t, "79250000000"))

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestClient_Find_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	}))
	defer server.Close()

	c := New(createTestConfig(server.URL), logger.NewTestLogger(t))
	_, err := c.Find(context.Background(), mustClassify(t, "79250000000"))

	assert.Error(t, err)
	var transportErr *TransportError
	assert.False(t, errors.As(err, &transportErr))
}

func TestClient_Find_RejectsUnclassifiedQuery(t *testing.T) {
	c := New(createTestConfig("http://127.0.0.1:1"), logger.NewNoOpLogger())
	_, err := c.Find(context.Background(), query.Query{})
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	c := New(&Config{BaseURL: "http://lookup/"}, logger.NewNoOpLogger())
	assert.Equal(t, DefaultTimeout, c.config.Timeout)
	assert.Equal(t, DefaultFindType, c.config.FindType)
	assert.Equal(t, DefaultCountryType, c.config.CountryType)
	assert.Equal(t, "http://lookup", c.config.BaseURL)
	assert.Equal(t, DefaultTimeout, c.http.Timeout())
}
