package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_TestModeReturnsNoOp(t *testing.T) {
	l, err := NewLogger("production")
	require.NoError(t, err)

	_, ok := l.(*NoOpLogger)
	assert.True(t, ok)
}

func TestNewZapLogger(t *testing.T) {
	tests := []struct {
		name string
		env  string
	}{
		{name: "Development environment", env: "development"},
		{name: "Production environment", env: "production"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := newZapLogger(tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.env, l.env)
			assert.NotNil(t, l.logger)
		})
	}
}

func TestLoggerZapImpl_Methods(t *testing.T) {
	l, err := newZapLogger("development")
	require.NoError(t, err)

	testCases := []struct {
		name   string
		method func()
	}{
		{
			name:   "Info logging",
			method: func() { l.Info("test info", "key1", "value1") },
		},
		{
			name:   "Debug logging",
			method: func() { l.Debug("test debug", "key1", "value1") },
		},
		{
			name:   "Error logging",
			method: func() { l.Error("test error", errors.New("boom"), "key1", "value1") },
		},
		{
			name:   "Error logging without error",
			method: func() { l.Error("test error", nil) },
		},
		{
			name:   "Child logger",
			method: func() { l.With("session", "abc").Info("scoped") },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotPanics(t, tc.method)
		})
	}
}

func TestWith_KeepsEnvironment(t *testing.T) {
	l, err := newZapLogger("development")
	require.NoError(t, err)

	child, ok := l.With("session", "abc").(*LoggerZapImpl)
	require.True(t, ok)
	assert.Equal(t, "development", child.env)
}

func TestParseFields(t *testing.T) {
	tests := []struct {
		name   string
		input  []interface{}
		length int
	}{
		{name: "Empty fields", input: []interface{}{}, length: 0},
		{name: "Key-value pairs", input: []interface{}{"key1", "value1", "key2", 42}, length: 2},
		{name: "Odd number of fields", input: []interface{}{"key1", "value1", "key2"}, length: 1},
		{name: "Non string key is skipped", input: []interface{}{1, "value1", "key2", 42}, length: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, parseFields(tt.input...), tt.length)
		})
	}
}
