package models

// Patient is a person appointments can be booked for.
type Patient struct {
	BaseModel
	Name           string `gorm:"size:255;not null" json:"name"`
	Age            int    `json:"age"`
	Email          string `gorm:"size:255;index" json:"email"`
	Phone          string `gorm:"size:50" json:"phone"`
	MedicalHistory string `gorm:"type:text" json:"medicalHistory"`
}
