package provider

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/api/googleapi"
)

// Kind is the closed set of provider failure classes. Every provider error
// maps to exactly one kind.
type Kind string

const (
	// KindUnauthenticated means no or invalid credential (HTTP 401).
	KindUnauthenticated Kind = "unauthenticated"
	// KindUnauthorized means the credential is valid but lacks scope (HTTP 403).
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindRateLimited  Kind = "rate_limited"
	// KindUnavailable covers 5xx responses and transport-level failures.
	KindUnavailable Kind = "provider_unavailable"
	KindUnknown     Kind = "unknown"
)

// Error is a classified provider failure.
type Error struct {
	Kind    Kind
	Status  int // HTTP status from the provider, 0 if none was received
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider: %s: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("provider: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("provider: %s", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify maps any error to a Kind. It is total: nil and unrecognized
// errors yield KindUnknown, and it never panics.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}

	var ge *googleapi.Error
	if errors.As(err, &ge) {
		return FromStatus(ge.Code)
	}

	// No response received at all.
	if errors.Is(err, context.DeadlineExceeded) {
		return KindUnavailable
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return KindUnavailable
	}

	return KindUnknown
}

// FromStatus maps an HTTP status code to a Kind.
func FromStatus(status int) Kind {
	switch {
	case status == 401:
		return KindUnauthenticated
	case status == 403:
		return KindUnauthorized
	case status == 404:
		return KindNotFound
	case status == 429:
		return KindRateLimited
	case status >= 500:
		return KindUnavailable
	default:
		return KindUnknown
	}
}

// Wrap classifies err and wraps it in an *Error. Already-classified errors
// pass through unchanged.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	e := &Error{Kind: Classify(err), Err: err}
	var ge *googleapi.Error
	if errors.As(err, &ge) {
		e.Status = ge.Code
		e.Message = ge.Message
	}
	return e
}
