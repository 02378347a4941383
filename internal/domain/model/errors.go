package model

import (
	"errors"
	"strings"
)

// ErrModelUnavailable is returned when scoring is requested before the model
// artifacts have been loaded.
var ErrModelUnavailable = errors.New("model not loaded")

// Validation messages returned to callers verbatim.
const (
	MsgMissingFields          = "Missing required fields"
	MsgAmountNotPositive      = "Amount must be positive"
	MsgDistanceNegative       = "Distance cannot be negative"
	MsgInvalidTransactionType = "Invalid transaction type"
	msgInvalidInputPrefix     = "Invalid input: "
)

// ValidationError reports a transaction that cannot be scored. Message is
// safe to show to the caller.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewMissingFieldsError reports absent required fields.
func NewMissingFieldsError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Message: MsgMissingFields}
}

// NewInvalidInputError reports a value that is not usable as input at all,
// such as a non-numeric field or a malformed body.
func NewInvalidInputError(detail string, fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Message: msgInvalidInputPrefix + detail}
}

func newFieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: []string{field}, Message: message}
}

// IsInvalidInput reports whether the error came from NewInvalidInputError.
func (e *ValidationError) IsInvalidInput() bool {
	return strings.HasPrefix(e.Message, msgInvalidInputPrefix)
}
