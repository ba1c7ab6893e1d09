// Package errcode defines the error envelope the HTTP surface answers with.
package errcode

import "net/http"

type Err struct {
	HTTPCode int    `json:"-"`
	Code     int    `json:"code"`
	Msg      string `json:"msg"`
}

func (e *Err) Error() string {
	return e.Msg
}

func NewErr(code int, msg string) *Err {
	return &Err{HTTPCode: http.StatusOK, Code: code, Msg: msg}
}

// NewCustomErr wraps an arbitrary message in the generic business-error code.
func NewCustomErr(msg string) *Err {
	return NewErr(CodeCustom, msg)
}

const (
	CodeOK            = 200
	CodeInvalidParams = 4001
	CodeUnauthorized  = 4003
	CodeNotFound      = 4004
	CodeCustom        = 5000
	CodeUnexpected    = 5001
)

var (
	ErrInvalidParams = NewErr(CodeInvalidParams, "invalid request parameters")
	ErrUnauthorized  = NewErr(CodeUnauthorized, "caller is not authorized")
	ErrNotFound      = NewErr(CodeNotFound, "resource not found")
	ErrUnexpected    = NewErr(CodeUnexpected, "unexpected internal error")
)
