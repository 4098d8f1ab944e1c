// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")

	ErrTokenInvalid = errors.New("token invalid")

	ErrMalformedAuthorization = errors.New("malformed authorization header")
	ErrInvalidAccessToken     = errors.New("invalid access token")
	ErrInvalidAPIKey          = errors.New("invalid api key")
)

const (
	CodeInvalidAccessToken = "INVALID_ACCESS_TOKEN"
	CodeInvalidAPIKey      = "INVALID_API_KEY"
	CodeAuthRequired       = "AUTH_REQUIRED"
	CodeAccessDenied       = "ACCESS_DENIED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodePasswordNotMatch   = "PASSWORD_NOT_MATCH"

	CodePinNotFound     = "PIN_NOT_FOUND"
	CodePinNoPermission = "PIN_NO_PERMISSION"
	CodeInvalidPinInput = "INVALID_PIN_INPUT"

	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeEmailExists       = "EMAIL_ALREADY_EXISTS"
	CodeNicknameExists    = "NICKNAME_ALREADY_EXISTS"
	CodeNoFieldsToUpdate  = "NO_FIELDS_TO_UPDATE"
	CodeBookmarkNotFound  = "BOOKMARK_NOT_FOUND"
	CodeBookmarkExists    = "BOOKMARK_ALREADY_EXISTS"
	CodeTagNotFound       = "TAG_NOT_FOUND"
	CodeTagExists         = "TAG_ALREADY_EXISTS"
	CodeTagLinkNotFound   = "TAG_LINK_NOT_FOUND"
	CodeTagAlreadyLinked  = "TAG_ALREADY_LINKED"
	CodeInvalidTagKeyword = "INVALID_TAG_KEYWORD"
	CodeInvalidTagInput   = "INVALID_TAG_INPUT"
	CodeInvalidValue      = "INVALID_VALUE"
	CodeRateLimited       = "RATE_LIMITED"
	CodeInternal          = "INTERNAL_ERROR"
	CodeSuccess           = "200"
	successMessage        = "success"
	internalErrorMessage  = "internal server error"
	authRequiredMessage   = "login required"
	accessDeniedMessage   = "access denied"
	invalidAccessTokenMsg = "access token is invalid"
	invalidAPIKeyMessage  = "api key is invalid"
)

// AppError carries the wire code and HTTP status for an error that is safe to
// show to the client.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, statusCode int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func InvalidAccessTokenError() *AppError {
	return NewAppError(
		ErrInvalidAccessToken,
		invalidAccessTokenMsg,
		http.StatusUnauthorized,
		CodeInvalidAccessToken,
	)
}

func InvalidAPIKeyError() *AppError {
	return NewAppError(
		ErrInvalidAPIKey,
		invalidAPIKeyMessage,
		http.StatusUnauthorized,
		CodeInvalidAPIKey,
	)
}

func AuthRequiredError() *AppError {
	return NewAppError(
		ErrUnauthorized,
		authRequiredMessage,
		http.StatusUnauthorized,
		CodeAuthRequired,
	)
}

func AccessDeniedError() *AppError {
	return NewAppError(
		ErrForbidden,
		accessDeniedMessage,
		http.StatusForbidden,
		CodeAccessDenied,
	)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = authRequiredMessage
	}
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, CodeAuthRequired)
}

func InvalidCredentialsError() *AppError {
	return NewAppError(
		ErrUnauthorized,
		"invalid email or password",
		http.StatusUnauthorized,
		CodeInvalidCredentials,
	)
}

func PinNotFoundError() *AppError {
	return NewAppError(ErrNotFound, "pin does not exist", http.StatusNotFound, CodePinNotFound)
}

func PinNoPermissionError() *AppError {
	return NewAppError(
		ErrForbidden,
		"no permission to modify this pin",
		http.StatusForbidden,
		CodePinNoPermission,
	)
}

func NotFoundError(code, message string) *AppError {
	return NewAppError(ErrNotFound, message, http.StatusNotFound, code)
}

func ConflictError(code, message string) *AppError {
	return NewAppError(ErrConflict, message, http.StatusConflict, code)
}

func ValidationError(code, message string) *AppError {
	if code == "" {
		code = CodeInvalidValue
	}
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, code)
}

func RateLimitedError(message string) *AppError {
	return NewAppError(nil, message, http.StatusTooManyRequests, CodeRateLimited)
}
