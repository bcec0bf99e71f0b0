package errors

import "github.com/pkg/errors"

// StackTracer is satisfied by errors that carry a captured stack, such as
// those produced by github.com/pkg/errors.
type StackTracer interface {
	StackTrace() errors.StackTrace
}

// ErrorTracer pairs a short operational message with an underlying error and
// guarantees the chain carries a stack trace. The logger recognizes it and
// prints the wrapped stack instead of its own capture point.
type ErrorTracer struct {
	// Message names the failed operation, e.g. "write trade events".
	Message string

	// Err is the underlying cause, stack-annotated on Wrap.
	Err error
}

// NewTracer creates an ErrorTracer with the given message and no cause yet.
// Call Wrap to attach the underlying error.
func NewTracer(message string) *ErrorTracer {
	return &ErrorTracer{
		Message: message,
	}
}

// TracerFromError wraps an existing error, reusing its message. The cause's
// stack is kept when it already has one.
func TracerFromError(err error) *ErrorTracer {
	return NewTracer(err.Error()).Wrap(err)
}

// Error implements the error interface.
func (e *ErrorTracer) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *ErrorTracer) Unwrap() error {
	return e.Err
}

// Wrap attaches the underlying error, annotating it with a stack trace unless
// it already carries one. It returns the receiver for chaining.
func (e *ErrorTracer) Wrap(err error) *ErrorTracer {
	if _, ok := err.(StackTracer); ok {
		e.Err = err
	} else {
		e.Err = errors.WithStack(err)
	}
	return e
}

// StackTrace returns the underlying error's stack, or nil when none was
// captured.
func (e *ErrorTracer) StackTrace() errors.StackTrace {
	if traced, ok := e.Unwrap().(StackTracer); ok {
		return traced.StackTrace()
	}
	return nil
}
