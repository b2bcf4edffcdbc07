package errors

import "fmt"

// Error types for the wallet backend
type (
	// ErrSessionExpired is an HTTP 419 or a CSRF mismatch; the session must reload
	ErrSessionExpired struct{ Message string }
	// ErrBackendResponse is a success:false body or an HTTP error carrying a message
	ErrBackendResponse struct {
		StatusCode int
		Message    string
	}
	// ErrBackendUnreachable is a transport failure or an unreadable body
	ErrBackendUnreachable struct{ Err error }
)

func (e ErrSessionExpired) Error() string {
	if e.Message == "" {
		return "session expired, please reload"
	}
	return fmt.Sprintf("session expired: %s", e.Message)
}

func (e ErrBackendResponse) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, e.Message)
}

func (e ErrBackendUnreachable) Error() string {
	return fmt.Sprintf("couldn't reach wallet backend: %v", e.Err)
}

// Unwrap returns the transport error
func (e ErrBackendUnreachable) Unwrap() error {
	return e.Err
}
