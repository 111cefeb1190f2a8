package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/BruksfildServices01/hms-gateway/internal/domain/appointment"
	"github.com/BruksfildServices01/hms-gateway/internal/models"
)

// localStep applies a transition to the local copy when the backend answers
// without a body.
type localStep func(a *appointment.Appointment, actor models.Role, now time.Time) error

// transition checks the move against the state machine first; a refusal there
// never reaches the network. On success the local copy is replaced by the
// backend's record. On failure it is left untouched.
func (c *Client) transition(
	ctx context.Context,
	a *appointment.Appointment,
	action appointment.Action,
	method, path string,
	body any,
	step localStep,
	invalidate ...string,
) error {
	role, err := c.role(ctx)
	if err != nil {
		return err
	}
	if err := appointment.Can(*a, role, action); err != nil {
		return err
	}

	var w models.Appointment
	if err := c.mutate(ctx, method, path, body, &w, invalidate...); err != nil {
		return err
	}

	if w.Status == "" {
		next := *a
		if err := step(&next, role, c.now()); err != nil {
			return err
		}
		*a = next
		return nil
	}

	updated, err := appointment.FromWire(w)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	if updated.DoctorName == "" {
		updated.DoctorName = a.DoctorName
	}
	if updated.PatientName == "" {
		updated.PatientName = a.PatientName
	}
	*a = updated
	return nil
}

func appointmentPath(role, id, verb string) string {
	return "/" + role + "/appointments/" + url.PathEscape(id) + "/" + verb
}

func toDomain(ws []models.Appointment, err error) ([]appointment.Appointment, error) {
	if err != nil {
		return nil, err
	}
	return appointment.FromWireList(ws)
}
