package value

import (
	"errors"
)

const CodeParse = "#ERROR"

var (
	ErrNull  = createError("#NULL!", "range intersection is empty")
	ErrDiv0  = createError("#DIV/0!", "division by zero")
	ErrValue = createError("#VALUE!", "wrong type of argument")
	ErrRef   = createError("#REF!", "invalid reference")
	ErrName  = createError("#NAME!", "unknown name")
	ErrNum   = createError("#NUM!", "invalid numeric value")
	ErrNA    = createError("#N/A", "value not available")
)

var (
	ErrCast       = errors.New("value can not be casted")
	ErrCompatible = errors.New("values are not compatible")
)

// Error is an error kind of the engine. Each kind exists once as a
// package level sentinel; errors built on top of them wrap the sentinel
// so that errors.Is keeps working.
type Error struct {
	code    string
	message string
}

func createError(code, msg string) Error {
	return Error{
		code:    code,
		message: msg,
	}
}

func (Error) Type() string {
	return TypeError
}

func (Error) Kind() ValueKind {
	return KindError
}

func (e Error) Code() string {
	return e.code
}

func (e Error) Message() string {
	return e.message
}

func (e Error) Error() string {
	return e.code
}

func (e Error) String() string {
	return e.code
}

func (e Error) Scalar() any {
	return e.code
}

type coder interface {
	Code() string
}

// Code returns the code displayed for err. Errors that do not carry a
// code of their own are reported as generic errors.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return CodeParse
}

// Kinds lists every error kind of the engine.
func Kinds() []Error {
	return []Error{
		ErrNull,
		ErrDiv0,
		ErrValue,
		ErrRef,
		ErrName,
		ErrNum,
		ErrNA,
	}
}

// ErrorFromCode returns the error kind matching code.
func ErrorFromCode(code string) (Error, bool) {
	for _, e := range Kinds() {
		if e.code == code {
			return e, true
		}
	}
	return Error{}, false
}
