package validators

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/hms-gateway/internal/httperr"
	"github.com/BruksfildServices01/hms-gateway/internal/models"
)

var hhmm = regexp.MustCompile(`^\d{2}:\d{2}$`)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})

		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return hhmm.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
			return models.Day(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
			return models.Gender(fl.Field().String()).Valid()
		})

		v.RegisterStructValidation(func(sl validator.StructLevel) {
			r := sl.Current().Interface().(models.CreateAppointmentRequest)
			if r.SlotStartTime.IsZero() {
				sl.ReportError(r.SlotStartTime, "slotStartTime", "SlotStartTime", "required", "")
			}
		}, models.CreateAppointmentRequest{})

		v.RegisterStructValidation(func(sl validator.StructLevel) {
			w := sl.Current().Interface().(models.WorkingHour)
			if !hhmm.MatchString(w.StartTime) || !hhmm.MatchString(w.EndTime) {
				return
			}
			if w.EndTime <= w.StartTime {
				sl.ReportError(w.EndTime, "endTime", "EndTime", "gtfield", "startTime")
			}
		}, models.WorkingHour{})

		v.RegisterStructValidation(func(sl validator.StructLevel) {
			r := sl.Current().Interface().(models.MarkVisitedRequest)
			if r.ActualStartTime.IsZero() || r.ActualEndTime.IsZero() {
				return
			}
			if r.ActualEndTime.Before(r.ActualStartTime.Time) {
				sl.ReportError(r.ActualEndTime, "actualEndTime", "ActualEndTime", "gtefield", "actualStartTime")
			}
		}, models.MarkVisitedRequest{})

		instance = v
	})
	return instance
}

// Struct validates a request payload. Failures come back as a validation
// BusinessError whose message names the first offending field.
func Struct(payload any) error {
	err := get().Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return httperr.ErrValidation("invalid_request", err.Error())
	}

	fe := verrs[0]
	return httperr.ErrValidation("invalid_"+fe.Field(), describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("at least %s %s required", fe.Param(), fe.Field())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "hhmm":
		return "Time must be in HH:mm format"
	case "weekday":
		return fmt.Sprintf("%s is not a valid day", fe.Field())
	case "gender":
		return "gender must be one of M, F, OTHER"
	case "gtfield":
		return fmt.Sprintf("%s must be after %s", fe.Field(), fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
