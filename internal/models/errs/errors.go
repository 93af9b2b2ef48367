package errs

import (
	"errors"
	"fmt"
)

// Common sentinel errors.
var (
	ErrNotFound           = errors.New("not found")
	ErrDataConflict       = errors.New("data conflict")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidPayload     = errors.New("invalid payload")
	ErrInvalidContentType = errors.New("invalid content type")
	ErrRequiredBodyParam  = errors.New("required body parameter")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrRateLimit          = errors.New("rate limit")
)

// Order status errors.
var (
	// ErrInvalidStatus is returned when a candidate value is not a member
	// of the order status enumeration. Detected locally, never sent over
	// the network.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrTransportFailure covers every way a status update can fail once
	// it left the process: network errors, timeouts, non-2xx responses.
	ErrTransportFailure = errors.New("update failed")
	// ErrTransitionPending is returned when a control already has a
	// transition in flight.
	ErrTransitionPending = errors.New("transition pending")
)

// Type just for murshallig purpose.
// Should only be used immediately before marshalling.
type JSON struct {
	Error string `json:"error"`
}

// Let users know which required request parameter is not provided.
type RequiredJSONBodyParamError struct {
	ParamName string
}

func (e *RequiredJSONBodyParamError) Error() string {
	return fmt.Sprintf("%s: %s", ErrRequiredBodyParam, e.ParamName)
}

func (e *RequiredJSONBodyParamError) Unwrap() error {
	return ErrRequiredBodyParam
}

// UnexpectedStatusError keeps the response details of a failed remote
// call. It always unwraps to ErrTransportFailure.
type UnexpectedStatusError struct {
	Code int
	Body string
}

func (e *UnexpectedStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", ErrTransportFailure, e.Code)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", ErrTransportFailure, e.Code, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return ErrTransportFailure
}
