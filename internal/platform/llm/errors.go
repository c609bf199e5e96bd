package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strconv"

	"github.com/tmc/langchaingo/llms/openai"
)

type ErrorKind string

const (
	KindAPIKeyMissing         ErrorKind = "api_key_missing"
	KindInvalidURL            ErrorKind = "invalid_url"
	KindEncodingError         ErrorKind = "encoding_error"
	KindHTTPError             ErrorKind = "http_error"
	KindInvalidResponseFormat ErrorKind = "invalid_response_format"
	KindNetworkError          ErrorKind = "network_error"
)

// Error is the typed failure of a Generate call. StatusCode is set for KindHTTPError.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := "llm " + string(e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (%d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports rate limits, server errors and network failures.
func (e *Error) Retryable() bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case KindNetworkError:
		return true
	case KindHTTPError:
		return e.StatusCode == 429 || e.StatusCode >= 500
	}
	return false
}

func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

var statusCodeRE = regexp.MustCompile(`status code: (\d{3})`)

// classify maps langchaingo and transport failures onto Error kinds.
func classify(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	switch {
	case errors.Is(err, openai.ErrMissingToken):
		return &Error{Kind: KindAPIKeyMissing, Err: err}
	case errors.Is(err, openai.ErrEmptyResponse):
		return &Error{Kind: KindInvalidResponseFormat, Err: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindNetworkError, Err: err}
	}

	var unsupported *json.UnsupportedTypeError
	var marshal *json.MarshalerError
	if errors.As(err, &unsupported) || errors.As(err, &marshal) {
		return &Error{Kind: KindEncodingError, Err: err}
	}
	var syntax *json.SyntaxError
	var unmarshal *json.UnmarshalTypeError
	if errors.As(err, &syntax) || errors.As(err, &unmarshal) {
		return &Error{Kind: KindInvalidResponseFormat, Err: err}
	}

	if m := statusCodeRE.FindStringSubmatch(err.Error()); len(m) == 2 {
		code, _ := strconv.Atoi(m[1])
		return &Error{Kind: KindHTTPError, StatusCode: code, Err: err}
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return &Error{Kind: KindNetworkError, Err: err}
	}
	return &Error{Kind: KindNetworkError, Err: err}
}
