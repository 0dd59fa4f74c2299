// Package devlog logs the bodies of outbound JSON responses while running
// in the development environment.
package devlog

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/inference-gateway/support-chat/logger"
)

// ResponseModifier inspects a response before it is handed back to the caller
type ResponseModifier interface {
	Modify(resp *http.Response) error
}

// DevResponseModifier logs JSON bodies at debug level and restores them unchanged
type DevResponseModifier struct {
	logger logger.Logger
}

func NewDevResponseModifier(l logger.Logger) ResponseModifier {
	return &DevResponseModifier{logger: l}
}

func (m *DevResponseModifier) Modify(resp *http.Response) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		m.logger.Error("failed to read upstream response", err)
		return err
	}

	// Always restore the body
	defer func() {
		resp.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	}()

	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return nil
	}

	contentBody := m.handleGzippedContent(resp, bodyBytes)
	m.logJSONResponse(resp, contentBody)
	return nil
}

func (m *DevResponseModifier) handleGzippedContent(resp *http.Response, bodyBytes []byte) []byte {
	if resp.Header.Get("Content-Encoding") != "gzip" || len(bodyBytes) == 0 {
		return bodyBytes
	}

	reader, err := gzip.NewReader(bytes.NewReader(bodyBytes))
	if err != nil {
		m.logger.Error("invalid gzip content", err)
		return bodyBytes
	}
	defer reader.Close()

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		m.logger.Error("failed to read gzipped content", err)
		return bodyBytes
	}

	return decompressed
}

func (m *DevResponseModifier) logJSONResponse(resp *http.Response, body []byte) {
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		m.logger.Error("failed to unmarshal JSON response", err)
		return
	}

	url := ""
	if resp.Request != nil {
		url = resp.Request.URL.String()
	}
	m.logger.Debug("upstream response", "url", url, "status", resp.StatusCode, "body", data)
}

// Transport runs every response through a ResponseModifier
type Transport struct {
	Base     http.RoundTripper
	Modifier ResponseModifier
}

// NewTransport wraps base so JSON responses are logged through l
func NewTransport(base http.RoundTripper, l logger.Logger) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{
		Base:     base,
		Modifier: NewDevResponseModifier(l),
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.Base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if err := t.Modifier.Modify(resp); err != nil {
		return nil, err
	}
	return resp, nil
}
