package domain

import (
	"errors"
	"fmt"
)

var (
	// Local validation errors, no request is made
	ErrEmailRequired       = errors.New("email is required")
	ErrCredentialsRequired = errors.New("email and password are required")

	// Flow errors
	ErrInvalidTransition = errors.New("transition not allowed from the current screen")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrBusy              = errors.New("request already in flight")

	// Response errors
	ErrMalformedResponse = errors.New("malformed server response")

	// Dev backend errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotVerified        = errors.New("account not verified")
	ErrInvalidOTP         = errors.New("invalid OTP code")
	ErrOTPExpired         = errors.New("OTP code has expired")
	ErrOTPMaxAttempts     = errors.New("maximum OTP attempts exceeded")
	ErrOTPNotFound        = errors.New("no OTP found, request a new one")
)

// APIError - the server answered with a non-2xx status
type APIError struct {
	Status  int
	Message string // body "error" field, empty when absent
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
}

// TransportError - no response was received
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// ServerMessage returns the server-provided error text of err, or fallback.
func ServerMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsTransport reports whether err means the server was never reached.
func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}
