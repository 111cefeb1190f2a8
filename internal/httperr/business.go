package httperr

import "errors"

// BusinessError is a rule violation detected locally, before or instead of
// asking the backend.
type BusinessError struct {
	Code    string
	Kind    Kind
	Message string
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code, Kind: KindValidation}
}

func ErrValidation(code, message string) error {
	return BusinessError{Code: code, Kind: KindValidation, Message: message}
}

func ErrConflict(code string) error {
	return BusinessError{Code: code, Kind: KindConflict}
}

func ErrForbidden(code string) error {
	return BusinessError{Code: code, Kind: KindPermissionDenied}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf classifies any error produced by this module. Unrecognized errors are
// internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Kind()
	}
	return KindInternal
}

func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}
