package shared

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindUpstream
	KindTimeout
	KindUpstreamFormat
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindUpstream:
		return "upstream"
	case KindTimeout:
		return "timeout"
	case KindUpstreamFormat:
		return "upstream_format"
	default:
		return "internal"
	}
}

// Error is the application error carrying a Kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports bad caller input.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports that no matching owned entity exists.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized reports a missing or invalid caller identity.
func Unauthorized(message string, err error) error {
	return &Error{Kind: KindUnauthorized, Message: message, Err: err}
}

// Upstream reports a transport failure talking to a remote service.
func Upstream(message string, err error) error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

// Timeout reports that a remote service did not answer in time.
func Timeout(message string, err error) error {
	return &Error{Kind: KindTimeout, Message: message, Err: err}
}

// UpstreamFormat reports a remote response that could not be decoded.
func UpstreamFormat(message string, err error) error {
	return &Error{Kind: KindUpstreamFormat, Message: message, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
