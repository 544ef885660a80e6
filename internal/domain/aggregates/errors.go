package aggregates

import (
	"errors"
	"strings"
)

type ErrorCode string

const (
	CodeValidation         ErrorCode = "validation"
	CodeNotFound           ErrorCode = "not_found"
	CodeConflict           ErrorCode = "conflict"
	CodeInvariantViolation ErrorCode = "invariant_violation"
	CodePreconditionFailed ErrorCode = "precondition_failed"
	CodeRetryable          ErrorCode = "retryable"
	CodeInternal           ErrorCode = "internal"

	// Guards of the target state machine. The client sees these codes as-is.
	CodeAlreadyCompletedToday ErrorCode = "already_completed_today"
	CodeAlreadyLoggedToday    ErrorCode = "already_logged_today"
	CodeCompleteTodayFirst    ErrorCode = "complete_today_first"
	CodeAlreadyOnFinalDay     ErrorCode = "already_on_final_day"
)

var progressionCodes = map[ErrorCode]struct{}{
	CodeAlreadyCompletedToday: {},
	CodeAlreadyLoggedToday:    {},
	CodeCompleteTodayFirst:    {},
	CodeAlreadyOnFinalDay:     {},
}

// Error is returned by every aggregate write. Message is safe to show to the
// caller; Cause keeps the underlying driver error for logs.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

// Error renders "op: message (code)", dropping the parts that are empty.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		if e.Message != "" {
			b.WriteString(": ")
		}
	}
	b.WriteString(e.Message)
	if b.Len() == 0 {
		return string(e.Code)
	}
	b.WriteString(" (")
	b.WriteString(string(e.Code))
	b.WriteString(")")
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap gives err the code, reusing its text as the message.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

func asError(err error) (*Error, bool) {
	var out *Error
	if errors.As(err, &out) {
		return out, true
	}
	return nil, false
}

func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code && code != ""
}

func CodeOf(err error) ErrorCode {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// MessageOf is the caller-facing text of err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

func IsProgressionRejection(err error) bool {
	_, ok := progressionCodes[CodeOf(err)]
	return ok
}
