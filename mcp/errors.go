package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// ErrToolNotFound is returned by CallTool when the name is not in the manifest
var ErrToolNotFound = errors.New("tool not found")

// ToolExecutionError means the server was reached but the tool call failed
type ToolExecutionError struct {
	Tool    string
	Message string
	Err     error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s failed: %s", e.Tool, e.Message)
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}

// ConnectionError means the MCP server could not be reached
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("mcp server %s unreachable: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// isConnectionFailure reports whether err comes from the transport rather than the tool
func isConnectionFailure(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	// gateway statuses mean the server behind the proxy is down; other HTTP
	// statuses come from a reachable server and count as tool failures
	msg := err.Error()
	for _, marker := range transportMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

var transportMarkers = []string{
	"connection refused",
	"connection reset",
	"no such host",
	"dial tcp",
	"i/o timeout",
	"(status: 502)",
	"(status: 503)",
	"(status: 504)",
}
