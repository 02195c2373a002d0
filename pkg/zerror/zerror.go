// Package zerror defines transport-agnostic application errors identified by
// a status class and a stable code.
package zerror

import "slices"

// ZError is an application error. Copies made by WithMsg, WithDetails and
// WrapParent still match the original under errors.Is.
type ZError struct {
	parent  error
	status  Status
	code    string
	msg     string
	details []Detail
}

// Detail points at one offending input field.
type Detail struct {
	Field   string
	Message string
}

// New returns a ZError. code example: PRODUCT_NOT_FOUND
func New(status Status, code, msg string) ZError {
	return ZError{
		status: status,
		code:   code,
		msg:    msg,
	}
}

func (e ZError) Error() string {
	s := e.code + ": " + e.msg
	if e.parent != nil {
		s += ": " + e.parent.Error()
	}
	return s
}

// WrapParent attaches the underlying cause. A nil parent is ignored.
func (e ZError) WrapParent(parent error) ZError {
	if parent != nil {
		e.parent = parent
	}
	return e
}

func (e ZError) WithMsg(msg string) ZError {
	e.msg = msg
	return e
}

// WithDetails returns a copy carrying the given field details in place of
// any previous ones.
func (e ZError) WithDetails(details ...Detail) ZError {
	e.details = slices.Clone(details)
	return e
}

func (e ZError) Unwrap() error {
	return e.parent
}

// Is matches on status and code only.
func (e ZError) Is(target error) bool {
	t, ok := target.(ZError)
	return ok && e.status == t.status && e.code == t.code
}

func (e ZError) Status() Status { return e.status }
func (e ZError) Code() string { return e.code }
func (e ZError) Msg() string { return e.msg }
func (e ZError) Parent() error { return e.parent }
func (e ZError) Details() []Detail { return e.details }

func NewBadRequest(code, msg string) ZError {
	return New(StatusBadRequest, code, msg)
}

func NewValidationFailed(code, msg string) ZError {
	return New(StatusValidationFailed, code, msg)
}

func NewUnauthorized(code, msg string) ZError {
	return New(StatusUnauthorized, code, msg)
}

func NewForbidden(code, msg string) ZError {
	return New(StatusForbidden, code, msg)
}

func NewNotFound(code, msg string) ZError {
	return New(StatusNotFound, code, msg)
}

func NewInternalServerError(code, msg string) ZError {
	return New(StatusInternalServerError, code, msg)
}

func NewServiceUnavailable(code, msg string) ZError {
	return New(StatusServiceUnavailable, code, msg)
}
