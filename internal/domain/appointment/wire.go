package appointment

import (
	"time"

	"github.com/BruksfildServices01/hms-gateway/internal/httperr"
	"github.com/BruksfildServices01/hms-gateway/internal/models"
)

// FromWire is the only place that reads the backend's duplicated field names.
// startTime/slotStartTime and proposedStartTime/proposedNewTime collapse into
// one value each, and the status string becomes a typed state. A
// RESCHEDULE_PROPOSED record that already carries a concrete time is promoted
// to RESCHEDULE_PENDING_PATIENT; a RESCHEDULE_PENDING_PATIENT record without
// one is held back as RESCHEDULE_PROPOSED.
func FromWire(w models.Appointment) (Appointment, error) {
	status, err := ParseStatus(w.Status)
	if err != nil {
		return Appointment{}, err
	}

	start := first(w.SlotStartTime, w.StartTime)
	if start.IsZero() {
		return Appointment{}, httperr.ErrValidation("missing_start_time", "appointment "+w.ID+" has no start time")
	}
	end := first(w.SlotEndTime, w.EndTime)
	if end.Before(start) {
		end = start
	}

	a := Appointment{
		ID:          w.ID,
		DoctorID:    w.DoctorID,
		PatientID:   w.PatientID,
		Slot:        Window{Start: start, End: end},
		Reason:      w.Reason,
		DoctorName:  w.DoctorName,
		PatientName: w.PatientName,
		CreatedAt:   first(w.CreatedAt),
		UpdatedAt:   first(w.UpdatedAt),
	}

	switch status {
	case StatusPending:
		a.State = Pending{}
	case StatusAccepted:
		a.State = Accepted{}
	case StatusRejected:
		a.State = Rejected{}
	case StatusCancelled:
		a.State = Cancelled{}
	case StatusVisited:
		actual := a.Slot
		if s := first(w.ActualStartTime); !s.IsZero() {
			actual.Start = s
		}
		if e := first(w.ActualEndTime); !e.IsZero() {
			actual.End = e
		}
		a.State = Visited{Actual: actual}
	case StatusRescheduleProposed, StatusReschedulePendingPatient:
		from := first(w.RescheduledFrom)
		if from.IsZero() {
			from = a.Slot.Start
		}
		a.State = RescheduleProposed{RescheduledFrom: from}

		proposedStart := first(w.ProposedStartTime, w.ProposedNewTime)
		if !proposedStart.IsZero() {
			proposed := Window{Start: proposedStart, End: first(w.ProposedEndTime)}
			if err := AttachProposal(&a, proposed, a.UpdatedAt); err != nil {
				return Appointment{}, err
			}
		}
	}

	return a, nil
}

// ToWire renders a with one canonical field per concept.
func ToWire(a Appointment) models.Appointment {
	w := models.Appointment{
		ID:            a.ID,
		DoctorID:      a.DoctorID,
		PatientID:     a.PatientID,
		SlotStartTime: models.At(a.Slot.Start).Ptr(),
		SlotEndTime:   models.At(a.Slot.End).Ptr(),
		Status:        string(a.Status()),
		Reason:        a.Reason,
		DoctorName:    a.DoctorName,
		PatientName:   a.PatientName,
		CreatedAt:     models.At(a.CreatedAt).Ptr(),
		UpdatedAt:     models.At(a.UpdatedAt).Ptr(),
	}

	switch s := a.State.(type) {
	case Visited:
		w.ActualStartTime = models.At(s.Actual.Start).Ptr()
		w.ActualEndTime = models.At(s.Actual.End).Ptr()
	case RescheduleProposed:
		w.RescheduledFrom = models.At(s.RescheduledFrom).Ptr()
	case ReschedulePendingPatient:
		w.ProposedStartTime = models.At(s.Proposed.Start).Ptr()
		w.ProposedEndTime = models.At(s.Proposed.End).Ptr()
		w.RescheduledFrom = models.At(s.RescheduledFrom).Ptr()
	}

	return w
}

// FromWireList converts a list, failing on the first malformed record.
func FromWireList(ws []models.Appointment) ([]Appointment, error) {
	out := make([]Appointment, 0, len(ws))
	for _, w := range ws {
		a, err := FromWire(w)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func first(ts ...*models.Timestamp) time.Time {
	for _, t := range ts {
		if t != nil && !t.IsZero() {
			return t.UTC()
		}
	}
	return time.Time{}
}
