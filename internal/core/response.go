// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Response is the envelope written for every API reply. Errors carry a string
// code in ErrorCode and a null Data.
type Response struct {
	ErrorCode string `json:"errorCode"`
	Msg       string `json:"msg"`
	Data      any    `json:"data"`
}

func JSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(body)
}

func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Response{
		ErrorCode: CodeSuccess,
		Msg:       successMessage,
		Data:      data,
	})
}

func OKMessage(w http.ResponseWriter, msg string, data any) {
	JSON(w, http.StatusOK, Response{
		ErrorCode: CodeSuccess,
		Msg:       msg,
		Data:      data,
	})
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Response{
		ErrorCode: CodeSuccess,
		Msg:       successMessage,
		Data:      data,
	})
}

func JSONError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		InternalServerError(w, err)
		return
	}

	JSON(w, appErr.StatusCode, Response{
		ErrorCode: appErr.Code,
		Msg:       appErr.Message,
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	JSONError(w, ValidationError(CodeInvalidValue, message))
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSONError(w, UnauthorizedError(message))
}

func NotFound(w http.ResponseWriter, code, message string) {
	JSONError(w, NotFoundError(code, message))
}

func InternalServerError(w http.ResponseWriter, err error) {
	slog.Error("internal server error", "error", err)

	JSON(w, http.StatusInternalServerError, Response{
		ErrorCode: CodeInternal,
		Msg:       internalErrorMessage,
	})
}
