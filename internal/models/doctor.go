package models

type Doctor struct {
	ID              string        `json:"id"`
	UserID          string        `json:"userId,omitempty"`
	Name            string        `json:"name"`
	Email           string        `json:"email"`
	Specialization  string        `json:"specialization"`
	ExperienceYears int           `json:"experienceYears"`
	SlotDuration    int           `json:"slotDuration"`
	WorkingHours    []WorkingHour `json:"workingHours"`
}

type CreateDoctorRequest struct {
	Name            string        `json:"name" validate:"required,min=2"`
	Email           string        `json:"email" validate:"required,email"`
	Password        string        `json:"password" validate:"required,min=6"`
	Specialization  string        `json:"specialization" validate:"required,min=2"`
	ExperienceYears int           `json:"experienceYears" validate:"min=0,max=70"`
	SlotDuration    int           `json:"slotDuration" validate:"min=10,max=120"`
	WorkingHours    []WorkingHour `json:"workingHours" validate:"min=1,dive"`
}

type UpdateDoctorRequest struct {
	Specialization  *string       `json:"specialization,omitempty"`
	ExperienceYears *int          `json:"experienceYears,omitempty" validate:"omitempty,min=0,max=70"`
	SlotDuration    *int          `json:"slotDuration,omitempty" validate:"omitempty,min=10,max=120"`
	WorkingHours    []WorkingHour `json:"workingHours,omitempty" validate:"omitempty,dive"`
}
