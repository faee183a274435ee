package directory

import (
	"errors"
	"fmt"

	"github.com/go-ldap/ldap/v3"
)

// The closed set of failures a profile query can surface. Nothing is retried;
// every error aborts the query it occurred in.
var (
	// ErrInvalidCredentials reports a bind rejected due to bad authentication.
	ErrInvalidCredentials = errors.New("invalid user credentials")

	// ErrInsufficientResults reports a required search that matched nothing.
	ErrInsufficientResults = errors.New("no results were provided for the search")
)

// AttributeMissingError reports a required attribute absent from an otherwise
// successfully retrieved entry.
type AttributeMissingError struct {
	Name string
}

func (e *AttributeMissingError) Error() string {
	return "response was missing attribute: " + e.Name
}

// TransportError reports an I/O failure reaching a directory. URL is set
// when the failure happened while dialing; mid-session network failures
// carry only the cause.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("network failure: %v", e.Err)
	}
	return fmt.Sprintf("connect %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DirectoryError reports any other non-success protocol outcome from a bind
// or search, carrying the server's own diagnostic.
type DirectoryError struct {
	Op   string
	Code uint16
	Err  error
}

func (e *DirectoryError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("ldap %s failed (code %d): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("ldap %s failed: %v", e.Op, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

// EncodingError reports a failure serializing the final profile. It is
// produced by the output layer, not by directory operations; it lives here so
// the whole error set stays in one place.
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode profile: %v", e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// translate maps a protocol-level failure onto the domain error set. Result
// code 49 is the one outcome callers branch on; everything else keeps its
// diagnostic behind DirectoryError, except client-side network failures,
// which stay transport errors.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials) {
		return ErrInvalidCredentials
	}

	var lerr *ldap.Error
	if errors.As(err, &lerr) {
		if lerr.ResultCode == ldap.ErrorNetwork {
			return &TransportError{Err: err}
		}
		return &DirectoryError{Op: op, Code: lerr.ResultCode, Err: err}
	}

	return &DirectoryError{Op: op, Err: err}
}
