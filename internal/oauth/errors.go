package oauth

import (
	"errors"
	"fmt"
)

// Callback-level errors.
var (
	ErrMissingCode  = errors.New("authorization code missing")
	ErrMissingState = errors.New("state parameter missing")
)

// ExchangeError wraps any failure of the code-for-token exchange.
// Transport marks network/timeout faults (upstream problem) as opposed
// to a malformed or rejected provider response.
type ExchangeError struct {
	Provider  string
	Cause     error
	Transport bool
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed for %s: %v", e.Provider, e.Cause)
}

func (e *ExchangeError) Unwrap() error { return e.Cause }

// ProfileError wraps any failure of the profile fetch.
type ProfileError struct {
	Provider  string
	Cause     error
	Transport bool
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("profile fetch failed for %s: %v", e.Provider, e.Cause)
}

func (e *ProfileError) Unwrap() error { return e.Cause }

// NormalizeError reports a provider payload missing a required field,
// which means either a provider contract change or a consent the user
// did not grant. Never retried.
type NormalizeError struct {
	Provider     string
	MissingField string
}

func (e *NormalizeError) Error() string {
	return fmt.Sprintf("profile for %s missing %s", e.Provider, e.MissingField)
}

// IsTransport reports whether err is an exchange or profile error
// caused by a transport fault rather than a provider-side rejection.
func IsTransport(err error) bool {
	var xe *ExchangeError
	if errors.As(err, &xe) {
		return xe.Transport
	}
	var pe *ProfileError
	if errors.As(err, &pe) {
		return pe.Transport
	}
	return false
}
