package devlog

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/inference-gateway/support-chat/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransport_RestoresBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1"}`))
	}))
	defer server.Close()

	client := &http.Client{Transport: NewTransport(nil, logger.NewNoOpLogger())}
	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"chatcmpl-1"}`, string(body))
}

func TestHandleGzippedContent(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(`{"ok":true}`))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	m := &DevResponseModifier{logger: logger.NewNoOpLogger()}

	tests := []struct {
		name     string
		encoding string
		body     []byte
		expected string
	}{
		{name: "Gzipped", encoding: "gzip", body: buf.Bytes(), expected: `{"ok":true}`},
		{name: "Plain", encoding: "", body: []byte(`{"ok":false}`), expected: `{"ok":false}`},
		{name: "Broken gzip", encoding: "gzip", body: []byte("nope"), expected: "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{Header: http.Header{}}
			resp.Header.Set("Content-Encoding", tt.encoding)
			assert.Equal(t, tt.expected, string(m.handleGzippedContent(resp, tt.body)))
		})
	}
}

func TestModify_NonJSONUntouched(t *testing.T) {
	m := NewDevResponseModifier(logger.NewNoOpLogger())
	resp := &http.Response{
		Header: http.Header{"Content-Type": []string{"text/plain"}},
		Body:   io.NopCloser(strings.NewReader("hello")),
	}

	require.NoError(t, m.Modify(resp))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
}
