package models

type Medication struct {
	Name      string `json:"name" validate:"min=2"`
	Dosage    string `json:"dosage" validate:"min=1"`
	Frequency string `json:"frequency" validate:"min=1"`
	Duration  string `json:"duration" validate:"min=1"`
	Notes     string `json:"notes,omitempty"`
}

// Prescription is written once per visited appointment and never edited.
type Prescription struct {
	ID            string       `json:"id"`
	AppointmentID string       `json:"appointmentId"`
	PatientID     string       `json:"patientId"`
	DoctorID      string       `json:"doctorId"`
	Medications   []Medication `json:"medications"`
	Notes         string       `json:"notes"`
	CreatedAt     *Timestamp   `json:"createdAt,omitempty"`

	DoctorName           string `json:"doctorName,omitempty"`
	DoctorSpecialization string `json:"doctorSpecialization,omitempty"`
	PatientName          string `json:"patientName,omitempty"`
}

type CreatePrescriptionRequest struct {
	Medications []Medication `json:"medications" validate:"min=1,dive"`
	Notes       string       `json:"notes,omitempty"`
}
