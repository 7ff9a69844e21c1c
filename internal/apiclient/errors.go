package apiclient

import (
	"errors"
	"fmt"
)

// Kind classifies a failed API call.
type Kind string

const (
	KindHTTP    Kind = "http"
	KindNetwork Kind = "network"
	KindDecode  Kind = "decode"
	KindRequest Kind = "request"
)

const (
	networkMessage    = "Network error occurred"
	decodeMessage     = "Unexpected response from server"
	requestMessage    = "Could not prepare the request"
	httpStatusMessage = "HTTP error! status: %d"
)

// Error is returned by every Client method on failure.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError unwraps err into an *Error.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsStatus reports whether err is an HTTP error with the given status.
func IsStatus(err error, status int) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == KindHTTP && apiErr.Status == status
}

func httpError(status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf(httpStatusMessage, status)
	}
	return &Error{Kind: KindHTTP, Status: status, Message: message}
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: networkMessage, Err: err}
}

func decodeError(status int, err error) *Error {
	return &Error{Kind: KindDecode, Status: status, Message: decodeMessage, Err: err}
}

func requestError(err error) *Error {
	return &Error{Kind: KindRequest, Message: requestMessage, Err: err}
}
