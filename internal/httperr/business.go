package httperr

import (
	"errors"
	"net/http"
)

// Reason codes shared by the use cases and the HTTP layer.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeInvalidDate         = "INVALID_DATE"
	CodePastDate            = "PAST_DATE"
	CodeNotWorkingDay       = "NOT_WORKING_DAY"
	CodeOutsideWorkingHours = "OUTSIDE_WORKING_HOURS"
	CodeTimeConflict        = "TIME_CONFLICT"
	CodeSessionExhausted    = "SESSION_EXHAUSTED"
	CodeSaleFullyBooked     = "SALE_FULLY_BOOKED"
	CodeDuplicateClient     = "DUPLICATE_CLIENT"
	CodeAlreadyCompleted    = "ALREADY_COMPLETED"
	CodeAppointmentCanceled = "APPOINTMENT_CANCELLED"
	CodeInvalidStatus       = "INVALID_STATUS"
	CodeStaffNotFound       = "STAFF_NOT_FOUND"
	CodeServiceNotFound     = "SERVICE_NOT_FOUND"
	CodeSaleNotFound        = "SALE_NOT_FOUND"
	CodeAppointmentNotFound = "APPOINTMENT_NOT_FOUND"
	CodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	CodeDuplicateWorkingDay = "DUPLICATE_WORKING_DAY"
	CodeInvalidWorkingHours = "INVALID_WORKING_HOURS"
	CodeForbidden           = "FORBIDDEN"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInternal            = "INTERNAL_ERROR"
)

// BusinessError is a rejected request with a machine readable code.
// Details carries the structured payload (conflicting appointment,
// working window, partial availability result).
type BusinessError struct {
	Code    string
	Status  int
	Message string
	Details any
}

func (e BusinessError) Error() string {
	return e.Code
}

// WithMessage returns a copy with a more specific user message.
func (e BusinessError) WithMessage(msg string) BusinessError {
	e.Message = msg
	return e
}

func (e BusinessError) WithDetails(details any) BusinessError {
	e.Details = details
	return e
}

func ErrBusiness(code string) BusinessError {
	return BusinessError{Code: code, Status: http.StatusBadRequest, Message: MessageFor(code)}
}

func ErrNotFound(code string) BusinessError {
	return BusinessError{Code: code, Status: http.StatusNotFound, Message: MessageFor(code)}
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return BusinessError{}, false
}

func IsBusiness(err error, code string) bool {
	if be, ok := AsBusiness(err); ok {
		return be.Code == code
	}
	return false
}
