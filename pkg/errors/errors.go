package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrScheduleNotFound   = errors.New("schedule not found")
	ErrInvalidRecurrence  = errors.New("invalid recurrence rule")
	ErrInvalidAmount      = errors.New("invalid order amount")
	ErrStoreUnavailable   = errors.New("schedule store unavailable")
	ErrSinkUnavailable    = errors.New("order sink unavailable")
	ErrSupplierNotFound   = errors.New("supplier not found")
	ErrTickAlreadyRunning = errors.New("tick already running")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeScheduleNotFound  = "SCHEDULE_NOT_FOUND"
	ErrCodeInvalidRecurrence = "INVALID_RECURRENCE"
	ErrCodeInvalidAmount     = "INVALID_AMOUNT"
	ErrCodeStoreUnavailable  = "STORE_UNAVAILABLE"
	ErrCodeSinkUnavailable   = "SINK_UNAVAILABLE"
	ErrCodeValidation        = "VALIDATION_ERROR"
)

func WrapScheduleNotFound(scheduleID string) *BusinessError {
	return NewBusinessError(
		ErrCodeScheduleNotFound,
		fmt.Sprintf("Schedule with ID %s not found", scheduleID),
		ErrScheduleNotFound,
	)
}

func WrapInvalidRecurrence(kind string, n int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidRecurrence,
		fmt.Sprintf("Recurrence %q with n=%d is not supported", kind, n),
		ErrInvalidRecurrence,
	)
}

func WrapInvalidAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidAmount,
		fmt.Sprintf("Amount %s must be zero or positive", amount),
		ErrInvalidAmount,
	)
}

// WrapStoreUnavailable keeps the cause reachable through errors.Is while
// classifying the failure as a store outage.
func WrapStoreUnavailable(op string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeStoreUnavailable,
		fmt.Sprintf("Schedule store failed during %s", op),
		errors.Join(ErrStoreUnavailable, err),
	)
}

func WrapSinkUnavailable(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeSinkUnavailable,
		"Order sink could not record the order",
		errors.Join(ErrSinkUnavailable, err),
	)
}

// Code returns the business code carried by err, or "" when err is not a
// BusinessError.
func Code(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
