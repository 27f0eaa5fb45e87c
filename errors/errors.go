package errors

import (
	"fmt"
)

const (
	ErrFormat           = "FORMAT"
	ErrInvalidAmount    = "INVALID AMOUNT"
	ErrInvalidCategory  = "INVALID CATEGORY"
	ErrMissingArguments = "MISSING ARGUMENTS"
	ErrNotFound         = "NOT FOUND"
	ErrInternal         = "INTERNAL"
)

// Sentinels for errors.Is checks. Matching is by Code only.
var (
	FormatError           = ErrorResponse{Code: ErrFormat}
	InvalidAmountError    = ErrorResponse{Code: ErrInvalidAmount}
	InvalidCategoryError  = ErrorResponse{Code: ErrInvalidCategory}
	MissingArgumentsError = ErrorResponse{Code: ErrMissingArguments}
	NotFoundError         = ErrorResponse{Code: ErrNotFound}
	InternalError         = ErrorResponse{Code: ErrInternal}
)

type ErrorResponse struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	IsFeedBack bool   `json:"is_feedback"`
}

func (e ErrorResponse) Error() string {
	return fmt.Sprintf("code: %s, isFeedback: %v, message: %s", e.Code, e.IsFeedBack, e.Message)
}

func (e ErrorResponse) Is(target error) bool {
	t, ok := target.(ErrorResponse)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Feedback builds an error whose message is shown to the chat user as is.
func Feedback(code string, message string) ErrorResponse {
	return ErrorResponse{
		Code:       code,
		Message:    message,
		IsFeedBack: true,
	}
}

func Internal(message string) ErrorResponse {
	return ErrorResponse{
		Code:    ErrInternal,
		Message: message,
	}
}
