// Package fdwerr defines the errors the adapter reports back to the host.
//
// Every error carries the SQLSTATE code Postgres would raise for the same
// condition, so a host can forward code, message and hint unchanged.
package fdwerr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies an adapter error.
type Kind int

const (
	KindUnknownOption Kind = iota + 1
	KindConflictingOption
	KindMalformedValue
	KindMissingRequiredOption
	KindUnsupported
	KindConnectionError
	KindApplyError
	KindInvalidState
)

func (k Kind) String() string {
	switch k {
	case KindUnknownOption:
		return "UnknownOption"
	case KindConflictingOption:
		return "ConflictingOption"
	case KindMalformedValue:
		return "MalformedValue"
	case KindMissingRequiredOption:
		return "MissingRequiredOption"
	case KindUnsupported:
		return "Unsupported"
	case KindConnectionError:
		return "ConnectionError"
	case KindApplyError:
		return "ApplyError"
	case KindInvalidState:
		return "InvalidState"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// SQLSTATE codes
const (
	CodeFdwError                       = "HV000"
	CodeFdwDynamicParameterValueNeeded = "HV002"
	CodeFdwInvalidHandle               = "HV00B"
	CodeFdwInvalidOptionName           = "HV00D"
	CodeFdwUnableToEstablishConnection = "HV00N"
	CodeSyntaxError                    = "42601"
	CodeObjectNotInPrerequisiteState   = "55000"
)

var (
	ErrUnknownOption         = errors.New("unknown option")
	ErrConflictingOption     = errors.New("conflicting or redundant options")
	ErrMalformedValue        = errors.New("malformed option value")
	ErrMissingRequiredOption = errors.New("missing required option")
	ErrUnsupported           = errors.New("operation not supported")
	ErrConnection            = errors.New("connection error")
	ErrApply                 = errors.New("apply error")
	ErrInvalidState          = errors.New("invalid session state")
)

var sentinels = map[Kind]error{
	KindUnknownOption:         ErrUnknownOption,
	KindConflictingOption:     ErrConflictingOption,
	KindMalformedValue:        ErrMalformedValue,
	KindMissingRequiredOption: ErrMissingRequiredOption,
	KindUnsupported:           ErrUnsupported,
	KindConnectionError:       ErrConnection,
	KindApplyError:            ErrApply,
	KindInvalidState:          ErrInvalidState,
}

// Error is the error value returned by every adapter entry point.
type Error struct {
	Kind Kind
	// Code is the SQLSTATE reported to the host
	Code string
	// Option is the name of the offending option, if any
	Option  string
	Message string
	// Hint enumerates valid alternatives where that helps the user
	Hint  string
	Cause error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Hint != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Hint)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel for the error kind, or another *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return t.Kind == e.Kind
	}
	return sentinels[e.Kind] == target
}

// PgError converts the error into the form used on the Postgres wire protocol.
func (e *Error) PgError() *pgconn.PgError {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return &pgconn.PgError{
		Severity: "ERROR",
		Code:     e.Code,
		Message:  msg,
		Hint:     e.Hint,
	}
}

// KindOf returns the kind of err, or zero if err is not an adapter error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func UnknownOption(name, hint string) *Error {
	return &Error{
		Kind:    KindUnknownOption,
		Code:    CodeFdwInvalidOptionName,
		Option:  name,
		Message: fmt.Sprintf("invalid option \"%s\"", name),
		Hint:    hint,
	}
}

func ConflictingOption(name string) *Error {
	return &Error{
		Kind:    KindConflictingOption,
		Code:    CodeSyntaxError,
		Option:  name,
		Message: "conflicting or redundant options",
		Hint:    fmt.Sprintf("option \"%s\" may only be specified once", name),
	}
}

func MalformedValue(name, value, expected string) *Error {
	return &Error{
		Kind:    KindMalformedValue,
		Code:    CodeSyntaxError,
		Option:  name,
		Message: fmt.Sprintf("%s requires a %s value", name, expected),
		Hint:    fmt.Sprintf("got \"%s\"", value),
	}
}

func MissingRequiredOption(name, objectKind string) *Error {
	return &Error{
		Kind:    KindMissingRequiredOption,
		Code:    CodeFdwDynamicParameterValueNeeded,
		Option:  name,
		Message: fmt.Sprintf("%s is required for %s", name, objectKind),
	}
}

// Unsupported reports a command kind the adapter refuses to plan.
func Unsupported(operation string) *Error {
	return &Error{
		Kind:    KindUnsupported,
		Code:    CodeFdwInvalidHandle,
		Message: fmt.Sprintf("not supported: %s", operation),
		Hint:    "only INSERT is supported on this foreign table",
	}
}

func Connection(cause error) *Error {
	return &Error{
		Kind:    KindConnectionError,
		Code:    CodeFdwUnableToEstablishConnection,
		Message: "could not connect to foreign source",
		Cause:   cause,
	}
}

func Apply(cause error) *Error {
	return &Error{
		Kind:    KindApplyError,
		Code:    CodeFdwError,
		Message: "could not apply row to foreign source",
		Cause:   cause,
	}
}

func InvalidState(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindInvalidState,
		Code:    CodeObjectNotInPrerequisiteState,
		Message: fmt.Sprintf(format, args...),
	}
}
