package common

import "errors"

// MessageError attaches a client-facing message to an error. The HTTP layer
// picks the status from the wrapped error and shows Message verbatim.
type MessageError struct {
	Err     error
	Message string
}

func (e *MessageError) Error() string {
	return e.Message + ": " + e.Err.Error()
}

func (e *MessageError) Unwrap() error {
	return e.Err
}

// WithMessage wraps err with msg. A nil err stays nil.
func WithMessage(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &MessageError{Err: err, Message: msg}
}

// BadRequest is a validation failure described by msg.
func BadRequest(msg string) error {
	return &MessageError{Err: ErrorValidation, Message: msg}
}

// MessageOf returns the outermost client-facing message in err's chain.
func MessageOf(err error) (string, bool) {
	var me *MessageError
	if errors.As(err, &me) {
		return me.Message, true
	}
	return "", false
}
