package response

import "errors"

type Response struct {
	ResponseError `json:"error,omitzero"`
}

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

//Error Codes
type ErrCode string

var (
	FAILED_REQUEST     ErrCode = "REQUEST_FAILED"
	BAD_REQUEST        ErrCode = "FAILED_TO_DECODE"
	VALIDATION         ErrCode = "VALIDATION_ERROR"
	NOT_FOUND          ErrCode = "NOT_FOUND"
	LOCKED             ErrCode = "LOCKED"
	CONFLICT           ErrCode = "CONFLICT"
	FORBIDDEN          ErrCode = "FORBIDDEN"
	INVALID_TRANSITION ErrCode = "INVALID_TRANSITION"
)

var (
	ErrBadRequest        = errors.New("bad request")
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("resource not found")
	ErrLocked            = errors.New("resource is locked")
	ErrConflict          = errors.New("conflict")
	ErrForbidden         = errors.New("actor is not allowed to perform this action")
	ErrInvalidTransition = errors.New("booking status transition is not allowed")
)

func Error(code, msg string) Response {
	return Response{
		ResponseError: ResponseError{
			Code:    code,
			Message: msg,
		},
	}
}
