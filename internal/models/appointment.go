package models

// Appointment is the wire shape shared with the backend. Two producers disagree
// on field names (slotStartTime vs startTime, proposedNewTime vs
// proposedStartTime); the domain package reconciles them once at the boundary.
type Appointment struct {
	ID        string `json:"id"`
	DoctorID  string `json:"doctorId"`
	PatientID string `json:"patientId"`

	SlotStartTime *Timestamp `json:"slotStartTime,omitempty"`
	SlotEndTime   *Timestamp `json:"slotEndTime,omitempty"`
	StartTime     *Timestamp `json:"startTime,omitempty"`
	EndTime       *Timestamp `json:"endTime,omitempty"`

	Status string `json:"status"`
	Reason string `json:"reason"`

	DoctorName  string `json:"doctorName,omitempty"`
	PatientName string `json:"patientName,omitempty"`

	ActualStartTime *Timestamp `json:"actualStartTime,omitempty"`
	ActualEndTime   *Timestamp `json:"actualEndTime,omitempty"`

	ProposedNewTime   *Timestamp `json:"proposedNewTime,omitempty"`
	ProposedStartTime *Timestamp `json:"proposedStartTime,omitempty"`
	ProposedEndTime   *Timestamp `json:"proposedEndTime,omitempty"`
	RescheduledFrom   *Timestamp `json:"rescheduledFrom,omitempty"`

	CreatedAt *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt *Timestamp `json:"updatedAt,omitempty"`
}

type CreateAppointmentRequest struct {
	DoctorID      string    `json:"doctorId" validate:"required"`
	SlotStartTime Timestamp `json:"slotStartTime"`
	Reason        string    `json:"reason" validate:"min=5"`
}

type MarkVisitedRequest struct {
	ActualStartTime Timestamp `json:"actualStartTime"`
	ActualEndTime   Timestamp `json:"actualEndTime"`
}

type ExtendAppointmentRequest struct {
	ExtraMinutes int `json:"extraMinutes" validate:"min=5,max=60"`
}

// AppointmentHistoryItem is a patient's past appointment with the doctor's name.
type AppointmentHistoryItem struct {
	ID         string     `json:"id"`
	StartTime  *Timestamp `json:"startTime,omitempty"`
	EndTime    *Timestamp `json:"endTime,omitempty"`
	Status     string     `json:"status"`
	Reason     string     `json:"reason"`
	DoctorName string     `json:"doctorName,omitempty"`
}

type PatientHistory struct {
	Appointments  []Appointment  `json:"appointments"`
	Prescriptions []Prescription `json:"prescriptions"`
}

type AdminStats struct {
	TotalDoctors      int `json:"totalDoctors"`
	TotalPatients     int `json:"totalPatients"`
	TodayAppointments int `json:"todayAppointments"`
}
