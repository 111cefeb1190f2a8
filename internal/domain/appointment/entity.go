package appointment

import "time"

type Appointment struct {
	ID        string
	DoctorID  string
	PatientID string

	Slot   Window
	Reason string

	DoctorName  string
	PatientName string

	CreatedAt time.Time
	UpdatedAt time.Time

	State State
}

func (a Appointment) Status() Status {
	if a.State == nil {
		return StatusPending
	}
	return a.State.Status()
}

func (a Appointment) Terminal() bool {
	return a.Status().Terminal()
}

// Proposal returns the pending reschedule offer, if any.
func (a Appointment) Proposal() (Window, bool) {
	if s, ok := a.State.(ReschedulePendingPatient); ok {
		return s.Proposed, true
	}
	return Window{}, false
}

// Actual returns the visit bounds of a visited appointment.
func (a Appointment) Actual() (Window, bool) {
	if s, ok := a.State.(Visited); ok {
		return s.Actual, true
	}
	return Window{}, false
}
