package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/hms-gateway/internal/domain/appointment"
	"github.com/BruksfildServices01/hms-gateway/internal/httperr"
	"github.com/BruksfildServices01/hms-gateway/internal/models"
	"github.com/BruksfildServices01/hms-gateway/internal/session"
)

type call struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
}

// fakeBackend answers from a route table and records every call.
type fakeBackend struct {
	mu     sync.Mutex
	calls  []call
	routes map[string]func(w http.ResponseWriter, r *http.Request)
}

func newBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	b := &fakeBackend{routes: map[string]func(http.ResponseWriter, *http.Request){}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.calls = append(b.calls, call{r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("Authorization"), string(body)})
		h, ok := b.routes[r.Method+" "+r.URL.Path]
		b.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *fakeBackend) on(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

func (b *fakeBackend) hits(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (b *fakeBackend) last() call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[len(b.calls)-1]
}

func newClient(t *testing.T, srv *httptest.Server, p session.Persister, init bool) *Client {
	t.Helper()
	store := session.New(p, zap.NewNop())
	if init {
		store.Init(context.Background())
	}
	c, err := New(Options{BaseURL: srv.URL, HTTPClient: srv.Client()}, store, zap.NewNop())
	require.NoError(t, err)
	return c
}

func signedIn(t *testing.T, srv *httptest.Server, role models.Role) (*Client, *session.Memory) {
	t.Helper()
	p := session.NewMemory()
	c := newClient(t, srv, p, true)
	require.NoError(t, c.Session().Login(context.Background(), models.AuthResponse{
		Token: "jwt-" + string(role),
		ID:    "u1",
		Name:  "Someone",
		Role:  role,
	}))
	return c, p
}

const pendingJSON = `{"id":"a1","doctorId":"d1","patientId":"p1","startTime":"2024-01-01T09:00:00Z","endTime":"2024-01-01T09:30:00Z","status":"PENDING","reason":"checkup","patientName":"Ana"}`

func pending(t *testing.T) appointment.Appointment {
	t.Helper()
	var w models.Appointment
	require.NoError(t, json.Unmarshal([]byte(pendingJSON), &w))
	a, err := appointment.FromWire(w)
	require.NoError(t, err)
	return a
}

func TestLoginThenGatedRequest(t *testing.T) {
	b, srv := newBackend(t)
	b.on("POST", "/auth/login", 200, `{"token":"jwt-1","id":"d1","name":"Dr. House","role":"DOCTOR"}`)
	b.on("GET", "/doctor/appointments", 200, `[`+pendingJSON+`]`)

	p := session.NewMemory()
	c := newClient(t, srv, p, false)

	// a request issued before init waits for it
	done := make(chan error, 1)
	go func() {
		_, err := c.DoctorAppointments(context.Background(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		done <- err
	}()
	select {
	case <-done:
		t.Fatal("request completed before session init")
	case <-time.After(20 * time.Millisecond):
	}
	assert.Equal(t, 0, b.hits("GET", "/doctor/appointments"))

	c.Session().Init(context.Background())
	require.NoError(t, <-done)
	assert.Empty(t, b.last().Auth)

	user, err := c.Login(context.Background(), models.LoginRequest{Email: "house@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.User{ID: "d1", Name: "Dr. House", Role: models.RoleDoctor}, user)
	assert.Equal(t, "jwt-1", p.Snapshot().Token)

	// login drops the anonymous cache, so this goes out again with the credential
	list, err := c.DoctorAppointments(context.Background(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, appointment.StatusPending, list[0].Status())

	last := b.last()
	assert.Equal(t, "Bearer jwt-1", last.Auth)
	assert.Equal(t, "date=2024-01-01", last.Query)
	assert.Equal(t, 2, b.hits("GET", "/doctor/appointments"))
}

func TestLoginValidatesLocally(t *testing.T) {
	b, srv := newBackend(t)
	c := newClient(t, srv, session.NewMemory(), true)

	_, err := c.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "secret1"})
	assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))
	assert.Equal(t, 0, b.hits("POST", "/auth/login"))
}

func TestLoginFailureKeepsSignedOut(t *testing.T) {
	b, srv := newBackend(t)
	b.on("POST", "/auth/login", 401, `{"message":"Authentication required","error":"BAD_CREDENTIALS","status":401}`)
	c := newClient(t, srv, session.NewMemory(), true)

	_, err := c.Login(context.Background(), models.LoginRequest{Email: "a@example.com", Password: "wrong-pass"})
	var apiErr *httperr.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, httperr.MsgAuthRequired, apiErr.Message)

	ok, _ := c.Session().IsAuthenticated()
	assert.False(t, ok)
}

func TestDoubleAcceptIsRefusedLocally(t *testing.T) {
	b, srv := newBackend(t)
	b.on("PUT", "/doctor/appointments/a1/accept", 200,
		`{"id":"a1","doctorId":"d1","patientId":"p1","startTime":"2024-01-01T09:00:00Z","endTime":"2024-01-01T09:30:00Z","status":"ACCEPTED","reason":"checkup"}`)
	c, _ := signedIn(t, srv, models.RoleDoctor)

	a := pending(t)
	require.NoError(t, c.Accept(context.Background(), &a))
	assert.Equal(t, appointment.StatusAccepted, a.Status())
	assert.Equal(t, "Ana", a.PatientName)

	err := c.Accept(context.Background(), &a)
	assert.True(t, httperr.IsConflict(err))
	assert.Equal(t, 1, b.hits("PUT", "/doctor/appointments/a1/accept"))
	assert.Equal(t, appointment.StatusAccepted, a.Status())
}

func TestBackendConflictLeavesLocalCopyAndInvalidates(t *testing.T) {
	b, srv := newBackend(t)
	b.on("GET", "/doctor/appointments", 200, `[`+pendingJSON+`]`)
	b.on("PUT", "/doctor/appointments/a1/accept", 409, `{"message":"Conflict - resource already exists or unavailable","error":"Conflict exists","status":409}`)
	c, _ := signedIn(t, srv, models.RoleDoctor)
	ctx := context.Background()
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	list, err := c.DoctorAppointments(ctx, day)
	require.NoError(t, err)
	_, err = c.DoctorAppointments(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 1, b.hits("GET", "/doctor/appointments"))

	// another session already accepted it; our copy is stale
	stale := list[0]
	err = c.Accept(ctx, &stale)
	require.Error(t, err)
	assert.True(t, httperr.IsConflict(err))
	assert.Equal(t, appointment.StatusPending, stale.Status())

	_, err = c.DoctorAppointments(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 2, b.hits("GET", "/doctor/appointments"))
}

func TestAcceptKeepTimeInvalidatesDoctorLists(t *testing.T) {
	b, srv := newBackend(t)
	b.on("GET", "/doctor/appointments", 200, `[`+pendingJSON+`]`)
	b.on("GET", "/doctor/patients/p1/history", 200, `{"appointments":[],"prescriptions":[]}`)
	b.on("PUT", "/doctor/appointments/a1/accept-keep-time", 200, ``)
	c, _ := signedIn(t, srv, models.RoleDoctor)
	ctx := context.Background()
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	list, err := c.DoctorAppointments(ctx, day)
	require.NoError(t, err)
	_, err = c.PatientHistory(ctx, "p1")
	require.NoError(t, err)

	require.NoError(t, c.AcceptKeepTime(ctx, &list[0]))
	assert.Equal(t, appointment.StatusAccepted, list[0].Status())

	_, err = c.DoctorAppointments(ctx, day)
	require.NoError(t, err)
	_, err = c.PatientHistory(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, b.hits("GET", "/doctor/appointments"))
	assert.Equal(t, 2, b.hits("GET", "/doctor/patients/p1/history"))
}

func TestWrongActorNeverCallsBackend(t *testing.T) {
	b, srv := newBackend(t)
	c, _ := signedIn(t, srv, models.RolePatient)

	a := pending(t)
	err := c.Accept(context.Background(), &a)
	assert.Equal(t, httperr.KindPermissionDenied, httperr.KindOf(err))
	assert.Equal(t, 0, b.hits("PUT", "/doctor/appointments/a1/accept"))
}

func TestTransitionWithoutSession(t *testing.T) {
	_, srv := newBackend(t)
	c := newClient(t, srv, session.NewMemory(), true)

	a := pending(t)
	err := c.Accept(context.Background(), &a)
	assert.Equal(t, httperr.KindAuthRequired, httperr.KindOf(err))
}

func TestUnauthorizedTearsDownSession(t *testing.T) {
	b, srv := newBackend(t)
	b.on("GET", "/patient/appointments", 401, `{"message":"Authentication required","status":401}`)
	c, p := signedIn(t, srv, models.RolePatient)

	_, err := c.Appointments(context.Background())
	var apiErr *httperr.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, MsgSessionExpired, apiErr.Message)

	ok, err := c.Session().IsAuthenticated()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, p.Snapshot().Empty())
}

func TestMarkVisitedEmptyBodyAppliesLocally(t *testing.T) {
	b, srv := newBackend(t)
	b.on("PUT", "/doctor/appointments/a1/visited", 200, ``)
	c, _ := signedIn(t, srv, models.RoleDoctor)

	a := pending(t)
	a.State = appointment.Accepted{}
	end := a.Slot.Start.Add(45 * time.Minute)
	require.NoError(t, c.MarkVisited(context.Background(), &a, models.MarkVisitedRequest{ActualEndTime: models.At(end)}))

	actual, ok := a.Actual()
	require.True(t, ok)
	assert.Equal(t, a.Slot.Start, actual.Start)
	assert.Equal(t, end, actual.End)
	assert.JSONEq(t, `{"actualStartTime":null,"actualEndTime":"2024-01-01T09:45:00Z"}`, b.last().Body)
}

func TestRescheduleOffer(t *testing.T) {
	b, srv := newBackend(t)
	b.on("GET", "/patient/appointments", 200,
		`[{"id":"a1","doctorId":"d1","patientId":"p1","startTime":"2024-01-01T09:00:00Z","endTime":"2024-01-01T09:30:00Z","status":"RESCHEDULE_PENDING_PATIENT","reason":"checkup","proposedStartTime":"2024-01-01T10:00:00Z","proposedEndTime":"2024-01-01T10:30:00Z"}]`)
	b.on("PUT", "/patient/appointments/a1/reject-reschedule", 200,
		`{"id":"a1","doctorId":"d1","patientId":"p1","startTime":"2024-01-01T09:00:00Z","endTime":"2024-01-01T09:30:00Z","status":"CANCELLED","reason":"checkup"}`)
	c, _ := signedIn(t, srv, models.RolePatient)
	ctx := context.Background()

	list, err := c.Appointments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	offer, ok := list[0].Proposal()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), offer.Start)

	a := list[0]
	require.NoError(t, c.RejectReschedule(ctx, &a))
	assert.Equal(t, appointment.StatusCancelled, a.Status())

	// the list is refetched after the mutation
	_, err = c.Appointments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, b.hits("GET", "/patient/appointments"))
}

func TestBookValidatesAndInvalidatesSlots(t *testing.T) {
	b, srv := newBackend(t)
	b.on("GET", "/patient/doctors/d1/slots", 200, `["2024-01-01T09:00:00Z", 1704101400]`)
	b.on("POST", "/patient/appointments", 201, pendingJSON)
	c, _ := signedIn(t, srv, models.RolePatient)
	ctx := context.Background()
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	slots, err := c.AvailableSlots(ctx, "d1", day)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day.Add(9 * time.Hour), day.Add(9*time.Hour + 30*time.Minute)}, slots)

	_, err = c.Book(ctx, models.CreateAppointmentRequest{DoctorID: "d1", SlotStartTime: models.At(slots[0]), Reason: "ow"})
	assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))
	assert.Equal(t, 0, b.hits("POST", "/patient/appointments"))

	a, err := c.Book(ctx, models.CreateAppointmentRequest{DoctorID: "d1", SlotStartTime: models.At(slots[0]), Reason: "back pain"})
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusPending, a.Status())

	_, err = c.AvailableSlots(ctx, "d1", day)
	require.NoError(t, err)
	assert.Equal(t, 2, b.hits("GET", "/patient/doctors/d1/slots"))
}

func TestPrescribeGuards(t *testing.T) {
	b, srv := newBackend(t)
	b.on("POST", "/doctor/appointments/a1/prescription", 201, `{"id":"rx1","appointmentId":"a1","medications":[{"name":"Ibuprofen","dosage":"400mg","frequency":"8h","duration":"5 days"}]}`)
	c, _ := signedIn(t, srv, models.RoleDoctor)
	ctx := context.Background()

	req := models.CreatePrescriptionRequest{Medications: []models.Medication{{Name: "Ibuprofen", Dosage: "400mg", Frequency: "8h", Duration: "5 days"}}}

	a := pending(t)
	_, err := c.Prescribe(ctx, a, false, req)
	assert.True(t, httperr.IsConflict(err))

	a.State = appointment.Visited{Actual: a.Slot}
	_, err = c.Prescribe(ctx, a, true, req)
	assert.True(t, httperr.IsBusiness(err, appointment.CodeAlreadyPrescribed))
	assert.Equal(t, 0, b.hits("POST", "/doctor/appointments/a1/prescription"))

	rx, err := c.Prescribe(ctx, a, false, req)
	require.NoError(t, err)
	assert.Equal(t, "rx1", rx.ID)
}

func TestTheoreticalSlots(t *testing.T) {
	d := models.Doctor{
		SlotDuration: 30,
		WorkingHours: []models.WorkingHour{{Day: models.Monday, StartTime: "09:00", EndTime: "11:00"}},
	}
	got := TheoreticalSlots(d, time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC))
	assert.Len(t, got, 4)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC), got[3])
}

func TestUnreachableBackend(t *testing.T) {
	_, srv := newBackend(t)
	c := newClient(t, srv, session.NewMemory(), true)
	srv.Close()

	_, err := c.Doctors(context.Background())
	assert.Error(t, err)
	assert.Equal(t, httperr.KindInternal, httperr.KindOf(err))
}

func TestCacheInvalidate(t *testing.T) {
	c := NewCache()
	c.Put("/doctor/appointments?date=2024-01-01", []byte("a"))
	c.Put("/doctor/appointments?date=2024-01-02", []byte("b"))
	c.Put("/doctor/patients/p1/history", []byte("c"))

	assert.Equal(t, 2, c.Invalidate("/doctor/appointments"))
	assert.Equal(t, 1, c.Len())
	c.Clear()
	assert.Equal(t, 0, c.Len())
}
