package usecase

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrorInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrorRateLimited       ErrorCode = "RATE_LIMITED"
	ErrorUpstream          ErrorCode = "UPSTREAM_ERROR"
	ErrorMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	ErrorPreference        ErrorCode = "PREFERENCE_ERROR"
)

type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}

type httpStatusCoder interface {
	HTTPStatusCode() int
}

type malformedResponder interface {
	MalformedResponse() bool
}

type tooLargeResponder interface {
	ResponseTooLarge() bool
}

// classifyRetrieveError maps a client failure onto the controller's error codes.
func classifyRetrieveError(err error) *Error {
	var statusErr httpStatusCoder
	if errors.As(err, &statusErr) {
		if statusErr.HTTPStatusCode() == 429 {
			return newError(ErrorRateLimited, "retrieve_rate_limited", err)
		}
		return newError(ErrorUpstream, fmt.Sprintf("retrieve_status_%d", statusErr.HTTPStatusCode()), err)
	}
	var tooLarge tooLargeResponder
	if errors.As(err, &tooLarge) && tooLarge.ResponseTooLarge() {
		return newError(ErrorUpstream, "retrieve_response_too_large", err)
	}
	var malformed malformedResponder
	if errors.As(err, &malformed) && malformed.MalformedResponse() {
		return newError(ErrorMalformedResponse, "retrieve_decode_error", err)
	}
	return newError(ErrorUpstream, "retrieve_transport_error", err)
}
