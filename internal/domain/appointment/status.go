package appointment

import "github.com/BruksfildServices01/hms-gateway/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending                  Status = "PENDING"
	StatusAccepted                 Status = "ACCEPTED"
	StatusRejected                 Status = "REJECTED"
	StatusVisited                  Status = "VISITED"
	StatusCancelled                Status = "CANCELLED"
	StatusRescheduleProposed       Status = "RESCHEDULE_PROPOSED"
	StatusReschedulePendingPatient Status = "RESCHEDULE_PENDING_PATIENT"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusAccepted, StatusRejected, StatusVisited,
		StatusCancelled, StatusRescheduleProposed, StatusReschedulePendingPatient:
		return st, nil
	}
	return "", httperr.ErrValidation("unknown_status", "unknown appointment status "+s)
}

// Terminal states never transition again.
func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusVisited, StatusCancelled:
		return true
	}
	return false
}

// InitialStatus is the status of a freshly booked appointment.
func InitialStatus() Status {
	return StatusPending
}
