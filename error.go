package apicat

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECORRUPT        = "corrupt"         // container header or block chain is invalid
	EDECOMPRESS     = "decompress"      // entry data cannot be decompressed
	ETOC            = "toc"             // table of contents is missing or inconsistent
	EUNKNOWNBLOCK   = "unknown_block"   // page contains an unrecognised block marker
	EUNIMPLEMENTED  = "unimplemented"   // handler result requested before it saw enough input
	EINVALID        = "invalid"         // validation failed
	ENOTFOUND       = "not_found"       // generic lookup miss
	ETYPENOTFOUND   = "type_not_found"  // named type does not exist
	EMEMBERNOTFOUND = "member_not_found"
	ENOTLOADED      = "not_loaded" // no catalog has been published yet
	EINTERNAL       = "internal"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code & message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("apicat error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error."
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
