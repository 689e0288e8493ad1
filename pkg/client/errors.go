package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"jup-ag/pkg/types"
)

// InvalidRequestError is returned when a request fails local validation.
// The network is never reached.
type InvalidRequestError struct {
	Op     string
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: invalid request: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s: invalid request: %s: %s", e.Op, e.Field, e.Reason)
}

// TransportError wraps a connection failure, timeout or cancellation.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: transport: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError is returned for a non-2xx response. Message is the server's
// error text, unmodified.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
	Code       string
	Body       []byte
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: API error (status %d, %s): %s", e.Op, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: API error (status %d): %s", e.Op, e.StatusCode, e.Message)
}

// DecodeError is returned when a response body is malformed or is missing
// required fields.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("%s: decode response: %v", e.Op, e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// IsInvalidRequest reports whether err is an *InvalidRequestError.
func IsInvalidRequest(err error) bool {
	var target *InvalidRequestError
	return errors.As(err, &target)
}

// IsTransport reports whether err is a *TransportError.
func IsTransport(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// IsRemote reports whether err is a *RemoteError.
func IsRemote(err error) bool {
	var target *RemoteError
	return errors.As(err, &target)
}

// IsDecode reports whether err is a *DecodeError.
func IsDecode(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}

func invalidRequest(op string, err error) error {
	var verr *types.ValidationError
	if errors.As(err, &verr) {
		return &InvalidRequestError{Op: op, Field: verr.Field, Reason: verr.Reason}
	}
	return &InvalidRequestError{Op: op, Reason: err.Error()}
}

// newRemoteError pulls the message and code out of an error body. Bodies that
// are not JSON are kept whole as the message.
func newRemoteError(op string, status int, body []byte) *RemoteError {
	e := &RemoteError{Op: op, StatusCode: status, Body: body}

	var errorResp map[string]interface{}
	if err := json.Unmarshal(body, &errorResp); err == nil {
		for _, key := range []string{"error", "message"} {
			if message, ok := errorResp[key].(string); ok && message != "" {
				e.Message = message
				break
			}
		}
		for _, key := range []string{"errorCode", "code"} {
			switch code := errorResp[key].(type) {
			case string:
				e.Code = code
			case float64:
				e.Code = strconv.FormatFloat(code, 'f', -1, 64)
			}
			if e.Code != "" {
				break
			}
		}
	}

	if e.Message == "" {
		e.Message = strings.TrimSpace(string(body))
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}
