package models

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "OTHER"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type Patient struct {
	ID          string `json:"id"`
	UserID      string `json:"userId,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Age         int    `json:"age"`
	Gender      Gender `json:"gender"`
	ContactInfo string `json:"contactInfo"`
}

type UpdatePatientRequest struct {
	Age         *int    `json:"age,omitempty" validate:"omitempty,min=1,max=150"`
	Gender      *Gender `json:"gender,omitempty" validate:"omitempty,gender"`
	ContactInfo *string `json:"contactInfo,omitempty" validate:"omitempty,min=10"`
}
