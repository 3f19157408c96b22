package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/loomlabs/loom/core"
)

// ErrStreamClosed is returned by Recv after the stream has been closed.
var ErrStreamClosed = errors.New("client: stream closed")

// errorEnvelope matches the endpoint's error body shape:
// {"error":{"message":"...","type":"...","code":"..."}}
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// normalizeStatusError maps a non-2xx response to a typed error.
func normalizeStatusError(status int, body []byte, requestID string) error {
	var env errorEnvelope
	_ = json.Unmarshal(body, &env)

	message := env.Error.Message
	if message == "" {
		message = http.StatusText(status)
	}

	return &core.Error{
		Status:    status,
		RequestID: requestID,
		Detail:    message,
		Err:       sentinelForStatus(status),
	}
}

// sentinelForStatus maps an HTTP status code to a core sentinel error.
func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return core.ErrInvalidValue
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return core.ErrAuthentication
	case status == http.StatusTooManyRequests:
		return core.ErrRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return core.ErrTimeout
	default:
		return core.ErrUnknown
	}
}

// networkError classifies a transport failure, distinguishing deadline
// expiry from other connection problems.
func networkError(err error) error {
	sentinel := core.ErrNetwork
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		sentinel = core.ErrTimeout
	}
	return &core.Error{Detail: err.Error(), Err: sentinel}
}

// decodeError wraps a payload-shape failure.
func decodeError(err error) error {
	return &core.Error{Detail: err.Error(), Err: core.ErrDecode}
}

// protocolError wraps a streaming framing failure.
func protocolError(err error) error {
	return &core.Error{Detail: err.Error(), Err: core.ErrProtocol}
}

// authenticationError reports a missing credential before any I/O.
func authenticationError() error {
	return &core.Error{
		Detail: fmt.Sprintf("no API key configured: pass one to New or set %s", DefaultAPIKeyEnvVar),
		Err:    core.ErrAuthentication,
	}
}
