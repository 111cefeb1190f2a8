package appointment

import (
	"slices"
	"time"

	"github.com/BruksfildServices01/hms-gateway/internal/httperr"
	"github.com/BruksfildServices01/hms-gateway/internal/models"
)

const (
	CodeInvalidTransition  = "invalid_transition"
	CodeForbidden          = "forbidden"
	CodeAlreadyPrescribed  = "already_prescribed"
	CodeInvalidVisitWindow = "invalid_visit_window"
	CodeInvalidExtension   = "invalid_extension"

	MinExtraMinutes = 5
	MaxExtraMinutes = 60
)

type Action string

const (
	ActionAccept            Action = "accept"
	ActionReject            Action = "reject"
	ActionMarkVisited       Action = "mark_visited"
	ActionExtend            Action = "extend"
	ActionProposeReschedule Action = "propose_reschedule"
	ActionAcceptReschedule  Action = "accept_reschedule"
	ActionRejectReschedule  Action = "reject_reschedule"
	ActionPrescribe         Action = "prescribe"
)

type rule struct {
	actor models.Role
	from  Status
}

// rules lists, in display order, who may do what from which status.
var rules = []struct {
	action Action
	rule   rule
}{
	{ActionAccept, rule{models.RoleDoctor, StatusPending}},
	{ActionReject, rule{models.RoleDoctor, StatusPending}},
	{ActionMarkVisited, rule{models.RoleDoctor, StatusAccepted}},
	{ActionExtend, rule{models.RoleDoctor, StatusAccepted}},
	{ActionProposeReschedule, rule{models.RoleDoctor, StatusAccepted}},
	{ActionAcceptReschedule, rule{models.RolePatient, StatusReschedulePendingPatient}},
	{ActionRejectReschedule, rule{models.RolePatient, StatusReschedulePendingPatient}},
	{ActionPrescribe, rule{models.RoleDoctor, StatusVisited}},
}

func lookup(action Action) (rule, bool) {
	for _, r := range rules {
		if r.action == action {
			return r.rule, true
		}
	}
	return rule{}, false
}

// ===============================
// Validations
// ===============================

// Can reports whether actor may perform action on a. A wrong actor is a
// permission error; a wrong status, including a repeat of a transition that
// already happened, is a conflict.
func Can(a Appointment, actor models.Role, action Action) error {
	r, ok := lookup(action)
	if !ok {
		return httperr.ErrBusiness("unknown_action")
	}
	if actor != r.actor {
		return httperr.ErrForbidden(CodeForbidden)
	}
	if a.Status() != r.from {
		return httperr.ErrConflict(CodeInvalidTransition)
	}
	return nil
}

// AvailableActions lists what actor may do with a right now.
func AvailableActions(a Appointment, actor models.Role) []Action {
	var out []Action
	for _, r := range rules {
		if Can(a, actor, r.action) == nil {
			out = append(out, r.action)
		}
	}
	return out
}

func Allowed(a Appointment, actor models.Role, action Action) bool {
	return slices.Contains(AvailableActions(a, actor), action)
}

// CanPrescribe additionally enforces the single prescription per visit.
func CanPrescribe(a Appointment, actor models.Role, alreadyPrescribed bool) error {
	if err := Can(a, actor, ActionPrescribe); err != nil {
		return err
	}
	if alreadyPrescribed {
		return httperr.ErrConflict(CodeAlreadyPrescribed)
	}
	return nil
}

// ===============================
// Domain Actions
// ===============================

func Accept(a *Appointment, actor models.Role, now time.Time) error {
	if err := Can(*a, actor, ActionAccept); err != nil {
		return err
	}
	a.State = Accepted{}
	a.UpdatedAt = now
	return nil
}

func Reject(a *Appointment, actor models.Role, now time.Time) error {
	if err := Can(*a, actor, ActionReject); err != nil {
		return err
	}
	a.State = Rejected{}
	a.UpdatedAt = now
	return nil
}

// MarkVisited closes the appointment. A nil actual window falls back to the
// booked slot.
func MarkVisited(a *Appointment, actor models.Role, actual *Window, now time.Time) error {
	if err := Can(*a, actor, ActionMarkVisited); err != nil {
		return err
	}
	w := a.Slot
	if actual != nil {
		if actual.End.Before(actual.Start) {
			return httperr.ErrValidation(CodeInvalidVisitWindow, "actual end must not be before actual start")
		}
		w = *actual
	}
	a.State = Visited{Actual: w}
	a.UpdatedAt = now
	return nil
}

// Extend pushes the end of an accepted appointment out by extraMinutes.
func Extend(a *Appointment, actor models.Role, extraMinutes int, now time.Time) error {
	if err := Can(*a, actor, ActionExtend); err != nil {
		return err
	}
	if extraMinutes < MinExtraMinutes || extraMinutes > MaxExtraMinutes {
		return httperr.ErrValidation(CodeInvalidExtension, "extraMinutes must be between 5 and 60")
	}
	a.Slot.End = a.Slot.End.Add(time.Duration(extraMinutes) * time.Minute)
	a.UpdatedAt = now
	return nil
}

func ProposeReschedule(a *Appointment, actor models.Role, now time.Time) error {
	if err := Can(*a, actor, ActionProposeReschedule); err != nil {
		return err
	}
	a.State = RescheduleProposed{RescheduledFrom: a.Slot.Start}
	a.UpdatedAt = now
	return nil
}

// AttachProposal is the system step that turns a proposal into an offer the
// patient can answer, once a concrete time exists.
func AttachProposal(a *Appointment, proposed Window, now time.Time) error {
	p, ok := a.State.(RescheduleProposed)
	if !ok {
		return httperr.ErrConflict(CodeInvalidTransition)
	}
	if proposed.Start.IsZero() {
		return httperr.ErrValidation("missing_proposed_time", "proposal has no concrete time")
	}
	if proposed.End.Before(proposed.Start) || proposed.End.Equal(proposed.Start) {
		proposed.End = proposed.Start.Add(a.Slot.Duration())
	}
	a.State = ReschedulePendingPatient{Proposed: proposed, RescheduledFrom: p.RescheduledFrom}
	a.UpdatedAt = now
	return nil
}

// AcceptReschedule adopts the proposed window as the new slot.
func AcceptReschedule(a *Appointment, actor models.Role, now time.Time) error {
	if err := Can(*a, actor, ActionAcceptReschedule); err != nil {
		return err
	}
	a.Slot = a.State.(ReschedulePendingPatient).Proposed
	a.State = Accepted{}
	a.UpdatedAt = now
	return nil
}

// RejectReschedule cancels the appointment; the original slot is not restored.
func RejectReschedule(a *Appointment, actor models.Role, now time.Time) error {
	if err := Can(*a, actor, ActionRejectReschedule); err != nil {
		return err
	}
	a.State = Cancelled{}
	a.UpdatedAt = now
	return nil
}
