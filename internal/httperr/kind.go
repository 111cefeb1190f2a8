package httperr

import "net/http"

// Kind is the normalized error taxonomy the UI layer reacts to.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindAuthRequired       Kind = "authentication_required"
	KindPermissionDenied   Kind = "permission_denied"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindServiceUnavailable Kind = "service_unavailable"
	KindInternal           Kind = "internal"
	KindUnknown            Kind = "unknown"
)

func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusBadRequest:
		return KindValidation
	case status == http.StatusUnauthorized:
		return KindAuthRequired
	case status == http.StatusForbidden:
		return KindPermissionDenied
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusServiceUnavailable:
		return KindServiceUnavailable
	case status >= http.StatusInternalServerError:
		return KindInternal
	}
	return KindUnknown
}

func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthRequired:
		return http.StatusUnauthorized
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
