package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// OrderNotValid is returned when an order fails structural validation
	// before it touches the book.
	OrderNotValid ErrorCode = "order_not_valid"
	// BookCorrupt indicates a broken order book invariant. It is fatal for
	// the book instance that reported it.
	BookCorrupt ErrorCode = "book_corrupt"
	// InstrumentNotFound is returned when no book exists for a pair.
	InstrumentNotFound ErrorCode = "instrument_not_found"

	// RedisConfigError indicates an invalid or missing Redis configuration.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError indicates a failure connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisPublishError indicates a failure publishing to a Redis channel.
	RedisPublishError ErrorCode = "redis_publish_error"

	// QuestDBConnectionError indicates a failure connecting to QuestDB.
	QuestDBConnectionError ErrorCode = "questdb_connection_error"
	// QuestDBExecError indicates a failed QuestDB statement.
	QuestDBExecError ErrorCode = "questdb_exec_error"
)

// ErrorDetails represents detailed information about an error.
type ErrorDetails struct {
	// Message (required) is the user-defined error message.
	// E.g. "order amount must be positive".
	Message string

	// Code (required) is the machine-readable error code string.
	// E.g. "order_not_valid".
	Code string

	// Field (optional) is the related field the error occurred on, if any.
	Field string

	// Object (optional) is the related object the error occurred on, if any.
	Object interface{}
}

// NewErrorDetails creates a new ErrorDetails struct with the given parameters.
func NewErrorDetails(message, code, field string) *ErrorDetails {
	return &ErrorDetails{
		Message: message,
		Code:    code,
		Field:   field,
	}
}

// NewErrorDetailsWithObject creates a new ErrorDetails struct with an associated object.
func NewErrorDetailsWithObject(message, code, field string, object interface{}) *ErrorDetails {
	return &ErrorDetails{
		Message: message,
		Code:    code,
		Field:   field,
		Object:  object,
	}
}

// Error is used to implement the Golang `error` interface.
func (e *ErrorDetails) Error() string {
	return e.Message
}

// ErrorCodeEquals checks whether a given `error` has a specific code.
func ErrorCodeEquals(err error, code ErrorCode) bool {
	errDetails, ok := err.(*ErrorDetails)
	if !ok {
		return false
	}

	return errDetails.Code == string(code)
}
