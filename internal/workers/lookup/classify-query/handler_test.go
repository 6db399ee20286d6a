// internal/workers/lookup/classify-query/handler_test.go
package classifyquery

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lookup-workers/pkg/registry"
)

// ==========================
// Test Logger Implementation
// ==========================

type TestLogger struct {
	t      *testing.T
	fields map[string]interface{}
}

func NewTestLogger(t *testing.T) *TestLogger {
	return &TestLogger{t: t, fields: make(map[string]interface{})}
}

func (l *TestLogger) Info(msg string, fields map[string]interface{}) {
	l.t.Logf("INFO: %s %v %v", msg, l.fields, fields)
}

func (l *TestLogger) Warn(msg string, fields map[string]interface{}) {
	l.t.Logf("WARN: %s %v %v", msg, l.fields, fields)
}

func (l *TestLogger) Error(msg string, fields map[string]interface{}) {
	l.t.Logf("ERROR: %s %v %v", msg, l.fields, fields)
}

func (l *TestLogger) With(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &TestLogger{t: l.t, fields: merged}
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig(t *testing.T) *Config {
	reg, err := registry.LoadRegistry("../../../../configs/activity-registry.json")
	require.NoError(t, err)
	return &Config{
		Timeout:     time.Second,
		Renderer:    "plain",
		InputSchema: reg.InputSchemaFor(TaskType),
	}
}

func newTestHandler(t *testing.T) *Handler {
	h, err := NewHandler(createTestConfig(t), NewTestLogger(t))
	require.NoError(t, err)
	return h
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name        string
		input       Input
		kind        string
		normalized  string
		needCountry bool
		valid       bool
	}{
		{"person with year", Input{Mode: "fio", Text: "Иванов Петр Петрович 1994"}, "person", "Иванов Петр Петрович 1994", true, true},
		{"person auto", Input{Text: " Иванов  Петр Петрович 06.04.1994 "}, "person", "Иванов Петр Петрович 06.04.1994", true, true},
		{"phone with 8", Input{Mode: "phone", Text: "89251234567"}, "phone", "79251234567", false, true},
		{"phone auto", Input{Text: "+7 (925) 000-00-00"}, "phone", "79250000000", false, true},
		{"phone in person mode", Input{Mode: "fio", Text: "79250000000"}, "invalid", "", false, false},
		{"garbage", Input{Text: "hello"}, "invalid", "", false, false},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := h.Execute(&tt.input)

			assert.Equal(t, tt.kind, out.QueryKind)
			assert.Equal(t, tt.normalized, out.NormalizedQuery)
			assert.Equal(t, tt.needCountry, out.NeedCountry)
			assert.Equal(t, tt.valid, out.Valid)
			if !tt.valid {
				assert.NotEmpty(t, out.Message)
			} else {
				assert.Empty(t, out.Message)
			}
		})
	}
}

func TestHandler_Execute_MessageMatchesMode(t *testing.T) {
	h := newTestHandler(t)

	assert.Contains(t, h.Execute(&Input{Mode: "phone", Text: "x"}).Message, "Укажи номер")
	assert.Contains(t, h.Execute(&Input{Mode: "fio", Text: "x"}).Message, "Формат не распознан")
}

// ==========================
// Input Validation Tests
// ==========================

func TestHandler_DecodeInput(t *testing.T) {
	h := newTestHandler(t)

	input, err := h.decodeInput(map[string]interface{}{"mode": "phone", "text": "79250000000"})
	require.NoError(t, err)
	assert.Equal(t, &Input{Mode: "phone", Text: "79250000000"}, input)

	input, err = h.decodeInput(map[string]interface{}{"text": "79250000000"})
	require.NoError(t, err)
	assert.Empty(t, input.Mode)
}

func TestHandler_DecodeInput_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]interface{}
	}{
		{"missing text", map[string]interface{}{"mode": "phone"}},
		{"text not string", map[string]interface{}{"text": 79250000000}},
		{"unknown mode", map[string]interface{}{"mode": "email", "text": "a@b.c"}},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.decodeInput(tt.vars)
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
		})
	}
}

func TestHandler_DecodeInput_WithoutSchema(t *testing.T) {
	h, err := NewHandler(LoadConfig(), NewTestLogger(t))
	require.NoError(t, err)

	_, err = h.decodeInput(map[string]interface{}{"mode": "email", "text": "x"})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = h.decodeInput(map[string]interface{}{})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestNewHandler_BadSchema(t *testing.T) {
	cfg := LoadConfig()
	cfg.InputSchema = map[string]interface{}{"type": 7}

	_, err := NewHandler(cfg, NewTestLogger(t))
	assert.Error(t, err)
}
