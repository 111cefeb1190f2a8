package httperr

import (
	"encoding/json"
	"errors"
	"net/http"
)

const (
	MsgValidation         = "Validation error"
	MsgAuthRequired       = "Authentication required"
	MsgPermissionDenied   = "You don't have permission to perform this action"
	MsgConflict           = "Conflict - resource already exists or unavailable"
	MsgInternal           = "Internal server error"
	MsgGeneric            = "An error occurred"
	MsgProxy              = "Proxy error"
	MsgServiceUnavailable = "Backend API is not available. Please ensure the backend service is running on "

	CodeNoToken            = "NO_TOKEN"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeProxyError         = "PROXY_ERROR"
	CodeRateLimited        = "RATE_LIMITED"
)

type backendBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Normalize turns a backend error response into the uniform shape. Only
// validation and conflict errors surface the backend's own wording; the others
// use fixed messages so backend details never leak.
func Normalize(status int, body []byte) *APIError {
	var b backendBody
	if len(body) > 0 {
		if err := json.Unmarshal(body, &b); err != nil {
			b = backendBody{}
		}
	}

	detail := b.Message
	if detail == "" {
		detail = b.Error
	}

	msg := MsgGeneric
	switch {
	case status == http.StatusBadRequest:
		msg = orDefault(detail, MsgValidation)
	case status == http.StatusUnauthorized:
		msg = MsgAuthRequired
	case status == http.StatusForbidden:
		msg = MsgPermissionDenied
	case status == http.StatusConflict:
		msg = orDefault(detail, MsgConflict)
	case status >= http.StatusInternalServerError:
		msg = MsgInternal
	}

	code := b.Error
	if code == "" {
		code = b.Message
	}
	if status == http.StatusForbidden || status >= http.StatusInternalServerError {
		code = ""
	}

	return &APIError{
		Message: msg,
		Code:    code,
		Status:  status,
	}
}

func NoToken() *APIError {
	return &APIError{Message: MsgAuthRequired, Code: CodeNoToken, Status: http.StatusUnauthorized}
}

// ServiceUnavailable names the unreachable dependency in its message.
func ServiceUnavailable(dependency string) *APIError {
	return &APIError{
		Message: MsgServiceUnavailable + dependency,
		Code:    CodeServiceUnavailable,
		Status:  http.StatusServiceUnavailable,
	}
}

func ProxyFailure() *APIError {
	return &APIError{Message: MsgProxy, Code: CodeProxyError, Status: http.StatusInternalServerError}
}

func RateLimited() *APIError {
	return &APIError{
		Message: "Too many requests, try again later",
		Code:    CodeRateLimited,
		Status:  http.StatusTooManyRequests,
	}
}

// FromError maps a locally detected error onto the uniform shape.
func FromError(err error) *APIError {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae
	}
	kind := KindOf(err)
	status := kind.Status()
	out := Normalize(status, nil)
	var be BusinessError
	if errors.As(err, &be) {
		out.Code = be.Code
		if be.Message != "" && (kind == KindValidation || kind == KindConflict) {
			out.Message = be.Message
		}
	}
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
