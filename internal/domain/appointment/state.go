package appointment

import "time"

// Window is a half-open time range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// State is the status-specific part of an appointment. Each variant carries
// exactly the fields that are meaningful in that status.
type State interface {
	Status() Status
	isState()
}

type Pending struct{}

type Accepted struct{}

type Rejected struct{}

type Cancelled struct{}

// Visited carries the bounds the visit actually took.
type Visited struct {
	Actual Window
}

// RescheduleProposed is a doctor's intent to move the appointment before a
// concrete time is attached.
type RescheduleProposed struct {
	RescheduledFrom time.Time
}

// ReschedulePendingPatient waits for the patient to take or refuse Proposed.
type ReschedulePendingPatient struct {
	Proposed        Window
	RescheduledFrom time.Time
}

func (Pending) Status() Status                  { return StatusPending }
func (Accepted) Status() Status                 { return StatusAccepted }
func (Rejected) Status() Status                 { return StatusRejected }
func (Cancelled) Status() Status                { return StatusCancelled }
func (Visited) Status() Status                  { return StatusVisited }
func (RescheduleProposed) Status() Status       { return StatusRescheduleProposed }
func (ReschedulePendingPatient) Status() Status { return StatusReschedulePendingPatient }

func (Pending) isState()                  {}
func (Accepted) isState()                 {}
func (Rejected) isState()                 {}
func (Cancelled) isState()                {}
func (Visited) isState()                  {}
func (RescheduleProposed) isState()       {}
func (ReschedulePendingPatient) isState() {}
