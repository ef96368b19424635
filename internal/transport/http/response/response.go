package response

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
)

// InternalMessage is what clients see for unexpected faults. Kept verbatim
// from the legacy API for wire compatibility.
const InternalMessage = "Something went wrong!"

type Error struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, never sent to the client
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func BadRequest(msg string) *Error   { return &Error{Kind: KindValidation, Msg: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Msg: msg} }
func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Msg: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Msg: msg} }
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// Fail writes the legacy error body and aborts the request. Unknown error
// values are treated as internal; internal faults never leak their cause.
func Fail(c *gin.Context, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = Internal("unexpected error", err)
	}
	msg := e.Msg
	if e.Kind == KindInternal {
		msg = InternalMessage
		_ = c.Error(e) // surfaces in the access log
	}
	c.AbortWithStatusJSON(e.Kind.HTTPStatus(), gin.H{
		"status":       false,
		"errorMessage": msg,
	})
}
