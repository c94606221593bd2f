package apierr

import "fmt"

// Error is what controllers render; Details is emitted verbatim under "details".
type Error struct {
	Status  int
	Code    string
	Err     error
	Details interface{}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// WithDetails returns e after attaching details.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}
