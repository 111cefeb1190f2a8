package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/BruksfildServices01/hms-gateway/internal/domain/appointment"
	"github.com/BruksfildServices01/hms-gateway/internal/models"
	"github.com/BruksfildServices01/hms-gateway/internal/validators"
)

const (
	doctorAppointments = "/doctor/appointments"
	doctorPatients     = "/doctor/patients"
)

// DoctorAppointments lists the signed-in doctor's appointments on date.
func (c *Client) DoctorAppointments(ctx context.Context, date time.Time) ([]appointment.Appointment, error) {
	var ws []models.Appointment
	err := c.get(ctx, doctorAppointments, url.Values{"date": {date.Format("2006-01-02")}}, &ws)
	return toDomain(ws, err)
}

func (c *Client) Accept(ctx context.Context, a *appointment.Appointment) error {
	return c.transition(ctx, a, appointment.ActionAccept,
		http.MethodPut, appointmentPath("doctor", a.ID, "accept"), nil,
		appointment.Accept,
		doctorAppointments, adminStats)
}

// AcceptKeepTime accepts a at its booked time; the backend then offers new
// times to overlapping pending requests, so every cached doctor list is stale.
func (c *Client) AcceptKeepTime(ctx context.Context, a *appointment.Appointment) error {
	return c.transition(ctx, a, appointment.ActionAccept,
		http.MethodPut, appointmentPath("doctor", a.ID, "accept-keep-time"), nil,
		appointment.Accept,
		doctorAppointments, doctorPatients, adminStats)
}

func (c *Client) Reject(ctx context.Context, a *appointment.Appointment) error {
	return c.transition(ctx, a, appointment.ActionReject,
		http.MethodPut, appointmentPath("doctor", a.ID, "reject"), nil,
		appointment.Reject,
		doctorAppointments)
}

// MarkVisited closes a. Zero times in req fall back to the booked slot.
func (c *Client) MarkVisited(ctx context.Context, a *appointment.Appointment, req models.MarkVisitedRequest) error {
	if err := validators.Struct(req); err != nil {
		return err
	}

	var actual *appointment.Window
	if !req.ActualStartTime.IsZero() || !req.ActualEndTime.IsZero() {
		w := a.Slot
		if !req.ActualStartTime.IsZero() {
			w.Start = req.ActualStartTime.UTC()
		}
		if !req.ActualEndTime.IsZero() {
			w.End = req.ActualEndTime.UTC()
		}
		actual = &w
	}

	step := func(a *appointment.Appointment, actor models.Role, now time.Time) error {
		return appointment.MarkVisited(a, actor, actual, now)
	}
	return c.transition(ctx, a, appointment.ActionMarkVisited,
		http.MethodPut, appointmentPath("doctor", a.ID, "visited"), req,
		step,
		doctorAppointments, doctorPatients)
}

// Extend lengthens an accepted appointment. Later appointments of the day
// receive reschedule offers on the backend.
func (c *Client) Extend(ctx context.Context, a *appointment.Appointment, extraMinutes int) error {
	req := models.ExtendAppointmentRequest{ExtraMinutes: extraMinutes}
	if err := validators.Struct(req); err != nil {
		return err
	}

	step := func(a *appointment.Appointment, actor models.Role, now time.Time) error {
		return appointment.Extend(a, actor, extraMinutes, now)
	}
	return c.transition(ctx, a, appointment.ActionExtend,
		http.MethodPut, appointmentPath("doctor", a.ID, "extend"), req,
		step,
		doctorAppointments)
}

// Prescribe writes the single prescription of a visited appointment.
func (c *Client) Prescribe(ctx context.Context, a appointment.Appointment, alreadyPrescribed bool, req models.CreatePrescriptionRequest) (models.Prescription, error) {
	var out models.Prescription

	role, err := c.role(ctx)
	if err != nil {
		return out, err
	}
	if err := appointment.CanPrescribe(a, role, alreadyPrescribed); err != nil {
		return out, err
	}
	if err := validators.Struct(req); err != nil {
		return out, err
	}

	err = c.mutate(ctx, http.MethodPost, "/doctor/appointments/"+url.PathEscape(a.ID)+"/prescription", req, &out,
		doctorPatients+"/"+url.PathEscape(a.PatientID))
	return out, err
}

func (c *Client) PatientHistory(ctx context.Context, patientID string) (models.PatientHistory, error) {
	var out models.PatientHistory
	err := c.get(ctx, doctorPatients+"/"+url.PathEscape(patientID)+"/history", nil, &out)
	return out, err
}
