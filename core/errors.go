package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
)

// ErrorKind identifies the class of a failed API call.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindServer
)

var kindNames = map[ErrorKind]string{
	KindUnknown:      "UnknownClientError",
	KindValidation:   "ValidationError",
	KindUnauthorized: "Unauthorized",
	KindForbidden:    "Forbidden",
	KindNotFound:     "NotFound",
	KindConflict:     "Conflict",
	KindServer:       "ServerError",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinels for errors.Is. ErrClient matches every *ClientError regardless of kind.
var (
	ErrClient       = errors.New("synapse client error")
	ErrUnknown      = &kindSentinel{KindUnknown}
	ErrValidation   = &kindSentinel{KindValidation}
	ErrUnauthorized = &kindSentinel{KindUnauthorized}
	ErrForbidden    = &kindSentinel{KindForbidden}
	ErrNotFound     = &kindSentinel{KindNotFound}
	ErrConflict     = &kindSentinel{KindConflict}
	ErrServer       = &kindSentinel{KindServer}
)

type kindSentinel struct {
	kind ErrorKind
}

func (s *kindSentinel) Error() string {
	return s.kind.String()
}

// ErrorEnvelope is the error part of a failed response body.
type ErrorEnvelope struct {
	ErrorCode string
	Message   string
	Raw       Record
}

// ExtractEnvelope reads error_code and error.en from a normalized body.
// Missing fields are left empty.
func ExtractEnvelope(body Record) ErrorEnvelope {
	env := ErrorEnvelope{Raw: body}
	if code, ok := body[KeyErrorCode]; ok && code != nil {
		env.ErrorCode = fmt.Sprint(code)
	}
	switch e := body[KeyError].(type) {
	case Record:
		if msg, ok := e[KeyErrorEn].(string); ok {
			env.Message = msg
		}
	case map[string]any:
		if msg, ok := e[KeyErrorEn].(string); ok {
			env.Message = msg
		}
	case string:
		env.Message = e
	}
	return env
}

// ClientError is returned for every non-success HTTP status.
type ClientError struct {
	Kind       ErrorKind
	StatusCode int
	Code       string // application error code from the envelope, distinct from StatusCode
	Message    string
	Response   Record
	Method     string
	URL        string
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	return e.Message
}

// Is matches the umbrella sentinel and the sentinel of the error's own kind.
func (e *ClientError) Is(target error) bool {
	if target == ErrClient {
		return true
	}
	if s, ok := target.(*kindSentinel); ok {
		return s.kind == e.Kind
	}
	return false
}

// Describe renders the error with request context, useful for logs.
func (e *ClientError) Describe() string {
	return fmt.Sprintf(
		"%s request to %s returned status code %d (%s, error_code=%q): %s",
		e.Method, e.URL, e.StatusCode, e.Kind, e.Code, e.Message,
	)
}

// KindForStatus maps an HTTP status code to an error kind.
// The boolean is false for success statuses (200-205).
func KindForStatus(status int) (ErrorKind, bool) {
	switch {
	case status >= 200 && status <= 205:
		return KindUnknown, false
	case status == http.StatusBadRequest:
		return KindValidation, true
	case status == http.StatusUnauthorized:
		return KindUnauthorized, true
	case status == http.StatusForbidden:
		return KindForbidden, true
	case status == http.StatusNotFound:
		return KindNotFound, true
	case status == http.StatusConflict:
		return KindConflict, true
	case status >= 500 && status <= 599:
		return KindServer, true
	default:
		return KindUnknown, true
	}
}

// Classify converts a status code and normalized body into a typed error.
// It returns nil for success statuses.
func Classify(status int, body Record) error {
	kind, failed := KindForStatus(status)
	if !failed {
		return nil
	}
	env := ExtractEnvelope(body)
	msg := env.Message
	if msg == "" {
		msg = genericMessage(status)
	}
	return &ClientError{
		Kind:       kind,
		StatusCode: status,
		Code:       env.ErrorCode,
		Message:    msg,
		Response:   body,
	}
}

func genericMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("request failed with HTTP status %d (%s)", status, text)
	}
	return fmt.Sprintf("request failed with HTTP status %d", status)
}

// TransportError reports a connectivity failure that never reached the API.
// It is never produced by Classify.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to perform %s request to %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was one of the transport budgets running out.
// The whole chain is inspected: net/http wraps deadline errors in types that do not forward Timeout.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, os.ErrDeadlineExceeded) || errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	for err := e.Err; err != nil; err = errors.Unwrap(err) {
		if t, ok := err.(interface{ Timeout() bool }); ok && t.Timeout() {
			return true
		}
	}
	return false
}

// ErrUnknownRoute is returned in StrictRoutes mode for requests outside the API catalogue.
var ErrUnknownRoute = errors.New("route is not part of the Synapse API catalogue")

func IsClientError(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr)
}

func IsTransportError(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// KindOf returns the kind of a *ClientError anywhere in the chain.
func KindOf(err error) (ErrorKind, bool) {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Kind, true
	}
	return KindUnknown, false
}

// ExpectKinds reports whether err is a ClientError of one of the given kinds.
func ExpectKinds(err error, kinds ...ErrorKind) bool {
	kind, ok := KindOf(err)
	if !ok {
		return false
	}
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// IgnoreKinds drops ClientErrors of the given kinds and passes every other error through.
func IgnoreKinds(err error, kinds ...ErrorKind) error {
	if ExpectKinds(err, kinds...) {
		return nil
	}
	return err
}
