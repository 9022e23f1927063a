// Package viserr defines the error-kind taxonomy shared by every vista-sdk
// component. Leaf components (chd, location) never log and never swallow an
// error; they wrap it in a *viserr.Error and return it.
package viserr

import "fmt"

// Kind identifies the category of failure, independent of which component raised it.
type Kind int

const (
	// ResourceMissing means an expected taxonomy/locations/versioning resource was not found.
	ResourceMissing Kind = iota
	// DecodeError means a resource's JSON was malformed or a required field was missing/mistyped.
	DecodeError
	// InvalidInput means a caller-supplied argument was invalid (empty/duplicate CHD keys, etc).
	InvalidInput
	// ConstructionFailure means the CHD seed search exceeded its iteration budget.
	ConstructionFailure
	// KeyNotFound means a lookup (CHD or GMOD) for an absent code.
	KeyNotFound
	// InvalidLocation means a location string failed grammar or alphabet validation.
	InvalidLocation
	// InvalidPath means structural or location-set validation failed during path construction.
	InvalidPath
	// ParseError means the short- or full-form path parser could not complete.
	ParseError
	// ConversionFailure means versioning could not produce a valid target path or node.
	ConversionFailure
	// UsageError means the API was misused (double-build, out-of-bounds indexing).
	UsageError
)

func (k Kind) String() string {
	switch k {
	case ResourceMissing:
		return "ResourceMissing"
	case DecodeError:
		return "DecodeError"
	case InvalidInput:
		return "InvalidInput"
	case ConstructionFailure:
		return "ConstructionFailure"
	case KeyNotFound:
		return "KeyNotFound"
	case InvalidLocation:
		return "InvalidLocation"
	case InvalidPath:
		return "InvalidPath"
	case ParseError:
		return "ParseError"
	case ConversionFailure:
		return "ConversionFailure"
	case UsageError:
		return "UsageError"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type every vista-sdk component returns.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf builds an *Error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error carrying a cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err is a *viserr.Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if ok := asError(err, &e); ok {
		return e.Kind == kind
	}
	return false
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
