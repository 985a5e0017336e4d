// Package goerror carries classified errors from usecases to the two outer
// surfaces: admin command replies and CLI exit statuses.
package goerror

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores when a row does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned by stores on a unique key violation.
	ErrConflict = errors.New("resource conflict")
)

// Type classifies who is at fault.
type Type int

const (
	TypeServer Type = iota
	TypeBusiness
	TypeValidation
)

var typeNames = map[Type]string{
	TypeServer:     "ERROR_TYPE_SERVER",
	TypeBusiness:   "ERROR_TYPE_BUSINESS",
	TypeValidation: "ERROR_TYPE_VALIDATION",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "ERROR_TYPE_UNKNOWN"
}

// Code is the stable identifier sent in replies and mapped to exit statuses.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeInvalidInput
	CodeNotFound
	CodeConflict
	CodeTooManyRequest
	CodeUnauthorized
	CodeForbidden
	CodeTimeout
)

type codeInfo struct {
	name string
	exit int
}

// Exit statuses: 1 generic, 2 bad input, 3 auth, 4 missing, 5 conflict,
// 6 retry later.
var codes = map[Code]codeInfo{
	CodeInternal:       {"ERROR_CODE_INTERNAL", 1},
	CodeInvalidFormat:  {"ERROR_CODE_INVALID_FORMAT", 2},
	CodeInvalidInput:   {"ERROR_CODE_INVALID_INPUT", 2},
	CodeNotFound:       {"ERROR_CODE_NOT_FOUND", 4},
	CodeConflict:       {"ERROR_CODE_CONFLICT", 5},
	CodeTooManyRequest: {"ERROR_CODE_TOO_MANY_REQUESTS", 6},
	CodeUnauthorized:   {"ERROR_CODE_UNAUTHORIZED", 3},
	CodeForbidden:      {"ERROR_CODE_FORBIDDEN", 3},
	CodeTimeout:        {"ERROR_CODE_TIMEOUT", 6},
}

func (c Code) String() string {
	if info, ok := codes[c]; ok {
		return info.name
	}
	return codes[CodeInternal].name
}

// ParseCode is the inverse of Code.String. Unknown names are internal.
func ParseCode(name string) Code {
	for c, info := range codes {
		if info.name == name {
			return c
		}
	}
	return CodeInternal
}

// Error wraps an underlying error with a user-facing message, a Type and a
// Code. Validation errors may carry per-field messages.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

func (e *Error) Error() string {
	switch {
	case e.err != nil:
		return e.err.Error()
	case e.msg != "":
		return e.msg
	case e.errType == TypeValidation:
		return "Validation violation"
	case e.errType == TypeBusiness:
		return "Request rejected"
	default:
		return "Internal error"
	}
}

// String is the verbose form used in debug logs.
func (e *Error) String() string {
	return fmt.Sprintf("%s/%s msg=%q err=%v", e.errType, e.code, e.msg, e.err)
}

func (e *Error) Msg() string               { return e.msg }
func (e *Error) Type() Type                { return e.errType }
func (e *Error) Code() Code                { return e.code }
func (e *Error) Fields() map[string]string { return e.fields }
func (e *Error) Unwrap() error             { return e.err }

// ExitCode is the process exit status for the CLI.
func (e *Error) ExitCode() int {
	if info, ok := codes[e.code]; ok {
		return info.exit
	}
	return 1
}

// NewServer hides err behind a generic message.
func NewServer(err error) error {
	return &Error{err: err, msg: "Internal server error", errType: TypeServer, code: CodeInternal}
}

// NewBusiness rejects a request with msg, e.g. an unknown trigger.
func NewBusiness(msg string, code Code) error {
	return &Error{msg: msg, errType: TypeBusiness, code: code}
}

// NewInvalidInput wraps a validator error, or builds one from field/message
// pairs when err is nil. An odd number of pairs is treated as a bad format.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return &Error{err: err, msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput}
	}
	if len(kv)%2 != 0 {
		return NewInvalidFormat()
	}

	fields := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[kv[i]] = kv[i+1]
	}
	return &Error{msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput, fields: fields}
}

// NewInvalidFormat reports an undecodable payload; msgs[0] overrides the
// default message.
func NewInvalidFormat(msgs ...string) error {
	msg := "Invalid request body"
	if len(msgs) > 0 {
		msg = msgs[0]
	}
	return &Error{msg: msg, errType: TypeValidation, code: CodeInvalidFormat}
}

// As returns the structured error wrapped in err, if any.
func As(err error) (*Error, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// ExitCode returns the exit status for any error; plain errors map to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if ge, ok := As(err); ok {
		return ge.ExitCode()
	}
	return 1
}
