package client

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/BruksfildServices01/hms-gateway/internal/domain/appointment"
	"github.com/BruksfildServices01/hms-gateway/internal/domain/slot"
	"github.com/BruksfildServices01/hms-gateway/internal/models"
	"github.com/BruksfildServices01/hms-gateway/internal/validators"
)

const (
	patientDoctors       = "/patient/doctors"
	patientAppointments  = "/patient/appointments"
	patientPrescriptions = "/patient/prescriptions"
)

func (c *Client) Doctors(ctx context.Context) ([]models.Doctor, error) {
	var out []models.Doctor
	err := c.get(ctx, patientDoctors, nil, &out)
	return out, err
}

func (c *Client) Doctor(ctx context.Context, id string) (models.Doctor, error) {
	var out models.Doctor
	err := c.get(ctx, patientDoctors+"/"+url.PathEscape(id), nil, &out)
	return out, err
}

// AvailableSlots asks the backend for bookable starts on date, which excludes
// slots already taken.
func (c *Client) AvailableSlots(ctx context.Context, doctorID string, date time.Time) ([]time.Time, error) {
	var ts []models.Timestamp
	err := c.get(ctx, patientDoctors+"/"+url.PathEscape(doctorID)+"/slots",
		url.Values{"date": {date.Format("2006-01-02")}}, &ts)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, len(ts))
	for _, t := range ts {
		if !t.IsZero() {
			out = append(out, t.UTC())
		}
	}
	return out, nil
}

// TheoreticalSlots derives a doctor's slots on date from their working hours
// alone, with no network call.
func TheoreticalSlots(d models.Doctor, date time.Time) []time.Time {
	return slices.Collect(slot.ForDate(date, d.SlotDuration, d.WorkingHours))
}

func (c *Client) Book(ctx context.Context, req models.CreateAppointmentRequest) (appointment.Appointment, error) {
	if err := validators.Struct(req); err != nil {
		return appointment.Appointment{}, err
	}

	var w models.Appointment
	err := c.mutate(ctx, http.MethodPost, patientAppointments, req, &w,
		patientAppointments, patientDoctors+"/"+url.PathEscape(req.DoctorID)+"/slots")
	if err != nil {
		return appointment.Appointment{}, err
	}
	return appointment.FromWire(w)
}

// Appointments lists the signed-in patient's upcoming appointments.
func (c *Client) Appointments(ctx context.Context) ([]appointment.Appointment, error) {
	var ws []models.Appointment
	err := c.get(ctx, patientAppointments, nil, &ws)
	return toDomain(ws, err)
}

func (c *Client) AppointmentHistory(ctx context.Context) ([]models.AppointmentHistoryItem, error) {
	var out []models.AppointmentHistoryItem
	err := c.get(ctx, patientAppointments+"/history", nil, &out)
	return out, err
}

func (c *Client) AcceptReschedule(ctx context.Context, a *appointment.Appointment) error {
	return c.transition(ctx, a, appointment.ActionAcceptReschedule,
		http.MethodPut, appointmentPath("patient", a.ID, "accept-reschedule"), nil,
		appointment.AcceptReschedule,
		patientAppointments, patientDoctors)
}

func (c *Client) RejectReschedule(ctx context.Context, a *appointment.Appointment) error {
	return c.transition(ctx, a, appointment.ActionRejectReschedule,
		http.MethodPut, appointmentPath("patient", a.ID, "reject-reschedule"), nil,
		appointment.RejectReschedule,
		patientAppointments, patientDoctors)
}

func (c *Client) Prescriptions(ctx context.Context) ([]models.Prescription, error) {
	var out []models.Prescription
	err := c.get(ctx, patientPrescriptions, nil, &out)
	return out, err
}

func (c *Client) Prescription(ctx context.Context, id string) (models.Prescription, error) {
	var out models.Prescription
	err := c.get(ctx, patientPrescriptions+"/"+url.PathEscape(id), nil, &out)
	return out, err
}
