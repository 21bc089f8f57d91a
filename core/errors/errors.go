package errors

import "fmt"

type ErrorCode string

const (
	ErrInternalServer             ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrInvalidInput               ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData         ErrorCode = "INVALID_REQUEST_DATA"
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"
	ErrForbidden                  ErrorCode = "FORBIDDEN"
	ErrNotFound                   ErrorCode = "NOT_FOUND"
	ErrAlreadyExists              ErrorCode = "ALREADY_EXISTS"

	// Scheduling conditions. SLOT_UNAVAILABLE is an expected, user-facing
	// outcome of a booking race and is kept machine-readable so clients can
	// refresh their slot list instead of showing a hard error.
	ErrInvalidRange     ErrorCode = "INVALID_RANGE"
	ErrInvalidDuration  ErrorCode = "INVALID_DURATION"
	ErrInvalidTimezone  ErrorCode = "INVALID_TIMEZONE"
	ErrSlotUnavailable  ErrorCode = "SLOT_UNAVAILABLE"
	ErrEventHasMeetings ErrorCode = "EVENT_HAS_MEETINGS"
)

// AppError is the error type services return to controllers.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches AppErrors by code, so callers can test conditions with
// errors.Is against a sentinel value.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
