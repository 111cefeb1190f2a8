package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/BruksfildServices01/hms-gateway/internal/audit"
	"github.com/BruksfildServices01/hms-gateway/internal/client"
	dbpkg "github.com/BruksfildServices01/hms-gateway/internal/db"
	"github.com/BruksfildServices01/hms-gateway/internal/domain/appointment"
	"github.com/BruksfildServices01/hms-gateway/internal/domain/slot"
	"github.com/BruksfildServices01/hms-gateway/internal/models"
	"github.com/BruksfildServices01/hms-gateway/internal/timezone"
)

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	switch cmd {
	case "login":
		email := fs.String("email", "", "")
		password := fs.String("password", "", "")
		if err := fs.Parse(args); err != nil {
			return err
		}
		user, err := a.client.Login(ctx, models.LoginRequest{Email: *email, Password: *password})
		if err != nil {
			return err
		}
		return a.print(user)

	case "signup":
		name := fs.String("name", "", "")
		email := fs.String("email", "", "")
		password := fs.String("password", "", "")
		age := fs.Int("age", 0, "")
		gender := fs.String("gender", "", "M, F or OTHER")
		contact := fs.String("contact", "", "")
		if err := fs.Parse(args); err != nil {
			return err
		}
		user, err := a.client.SignupPatient(ctx, models.PatientSignupRequest{
			Name:        *name,
			Email:       *email,
			Password:    *password,
			Age:         *age,
			Gender:      models.Gender(*gender),
			ContactInfo: *contact,
		})
		if err != nil {
			return err
		}
		return a.print(user)

	case "logout":
		return a.client.Logout(ctx)

	case "whoami":
		cur, err := a.client.Session().Current()
		if err != nil {
			return err
		}
		if !cur.Authenticated() {
			return fmt.Errorf("not logged in")
		}
		return a.print(cur.User)

	case "doctors":
		doctors, err := a.client.Doctors(ctx)
		if err != nil {
			return err
		}
		return a.print(doctors)

	case "slots":
		doctorID := fs.String("doctor", "", "")
		date := fs.String("date", timezone.Today(a.tz), "")
		local := fs.Bool("local", false, "derive from working hours instead of asking the backend")
		if err := fs.Parse(args); err != nil {
			return err
		}
		day, err := slot.ParseDate(*date)
		if err != nil {
			return fmt.Errorf("date: %w", err)
		}
		if *local {
			d, err := a.client.Doctor(ctx, *doctorID)
			if err != nil {
				return err
			}
			return a.print(client.TheoreticalSlots(d, day))
		}
		slots, err := a.client.AvailableSlots(ctx, *doctorID, day)
		if err != nil {
			return err
		}
		return a.print(slots)

	case "book":
		doctorID := fs.String("doctor", "", "")
		at := fs.String("at", "", "slot start, RFC3339 or wall clock in -tz")
		reason := fs.String("reason", "", "")
		if err := fs.Parse(args); err != nil {
			return err
		}
		start, err := timezone.ParseDateTime(a.tz, *at)
		if err != nil {
			return fmt.Errorf("at: %w", err)
		}
		appt, err := a.client.Book(ctx, models.CreateAppointmentRequest{
			DoctorID:      *doctorID,
			SlotStartTime: models.At(start),
			Reason:        *reason,
		})
		if err != nil {
			return err
		}
		return a.print(appointment.ToWire(appt))

	case "appointments":
		date := fs.String("date", timezone.Today(a.tz), "doctor only")
		if err := fs.Parse(args); err != nil {
			return err
		}
		list, err := a.appointments(ctx, *date)
		if err != nil {
			return err
		}
		return a.printAppointments(ctx, list)

	case "history":
		items, err := a.client.AppointmentHistory(ctx)
		if err != nil {
			return err
		}
		return a.print(items)

	case "accept", "reject", "accept-keep-time", "visited", "extend", "accept-reschedule", "reject-reschedule":
		id := fs.String("id", "", "")
		date := fs.String("date", timezone.Today(a.tz), "day of the appointment (doctor only)")
		minutes := fs.Int("minutes", 15, "extend only")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return a.transition(ctx, cmd, *id, *date, *minutes)

	case "prescriptions":
		rx, err := a.client.Prescriptions(ctx)
		if err != nil {
			return err
		}
		return a.print(rx)

	case "stats":
		stats, err := a.client.Stats(ctx)
		if err != nil {
			return err
		}
		return a.print(stats)

	case "audit":
		action := fs.String("action", "", "")
		user := fs.String("user", "", "")
		limit := fs.Int("limit", 50, "")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return a.audit(ctx, audit.Filter{Action: *action, UserID: *user, Limit: *limit})
	}

	return fmt.Errorf("unknown command %q", cmd)
}

func (a *app) appointments(ctx context.Context, date string) ([]appointment.Appointment, error) {
	cur, err := a.client.Session().Current()
	if err != nil {
		return nil, err
	}
	if cur.Authenticated() && cur.User.Role == models.RoleDoctor {
		day, err := slot.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("date: %w", err)
		}
		return a.client.DoctorAppointments(ctx, day)
	}
	return a.client.Appointments(ctx)
}

type appointmentView struct {
	models.Appointment
	Actions []appointment.Action `json:"actions"`
}

func (a *app) printAppointments(ctx context.Context, list []appointment.Appointment) error {
	cur, err := a.client.Session().Current()
	if err != nil {
		return err
	}
	var role models.Role
	if cur.User != nil {
		role = cur.User.Role
	}

	out := make([]appointmentView, 0, len(list))
	for _, ap := range list {
		out = append(out, appointmentView{
			Appointment: appointment.ToWire(ap),
			Actions:     appointment.AvailableActions(ap, role),
		})
	}
	return a.print(out)
}

func (a *app) transition(ctx context.Context, cmd, id, date string, minutes int) error {
	list, err := a.appointments(ctx, date)
	if err != nil {
		return err
	}

	var target *appointment.Appointment
	for i := range list {
		if list[i].ID == id {
			target = &list[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("appointment %s not found", id)
	}

	switch cmd {
	case "accept":
		err = a.client.Accept(ctx, target)
	case "reject":
		err = a.client.Reject(ctx, target)
	case "accept-keep-time":
		err = a.client.AcceptKeepTime(ctx, target)
	case "visited":
		err = a.client.MarkVisited(ctx, target, models.MarkVisitedRequest{})
	case "extend":
		err = a.client.Extend(ctx, target, minutes)
	case "accept-reschedule":
		err = a.client.AcceptReschedule(ctx, target)
	case "reject-reschedule":
		err = a.client.RejectReschedule(ctx, target)
	}
	if err != nil {
		return err
	}
	return a.print(appointment.ToWire(*target))
}

// audit reads the gateway's audit table directly; it is not exposed over HTTP.
func (a *app) audit(ctx context.Context, f audit.Filter) error {
	if !a.cfg.AuditEnabled() {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	db, err := dbpkg.NewDB(a.cfg.DBUrl)
	if err != nil {
		return err
	}
	defer dbpkg.Close(db)

	rows, total, err := audit.New(db).Query(ctx, f)
	if err != nil {
		return err
	}
	return a.print(map[string]any{"total": total, "logs": rows})
}
