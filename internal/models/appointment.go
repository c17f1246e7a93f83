package models

import (
	"strings"
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

// ParseAppointmentStatus normalizes s (case-insensitive, surrounding spaces
// ignored) to one of the known statuses.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch status := AppointmentStatus(strings.ToUpper(strings.TrimSpace(s))); status {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return status, true
	default:
		return "", false
	}
}

// Is reports whether s equals other ignoring case. Rows written by other
// clients may carry lower-case statuses.
func (s AppointmentStatus) Is(other AppointmentStatus) bool {
	return strings.EqualFold(string(s), string(other))
}

// Appointment represents a scheduled medical appointment
type Appointment struct {
	BaseModel
	PatientID       *string           `gorm:"size:36;index" json:"patientId,omitempty"`
	DoctorName      string            `gorm:"size:255;index" json:"doctorName"`
	AppointmentTime *time.Time        `gorm:"index" json:"appointmentTime"`
	Reason          string            `gorm:"size:1000" json:"reason"`
	Status          AppointmentStatus `gorm:"size:20;index;default:'SCHEDULED'" json:"status"`

	// Relations
	Patient *Patient `gorm:"foreignKey:PatientID;constraint:OnDelete:SET NULL" json:"patient"`
}

// SetPatient points the appointment at p, or clears the reference when p is nil.
func (a *Appointment) SetPatient(p *Patient) {
	a.Patient = p
	if p == nil {
		a.PatientID = nil
		return
	}
	id := p.ID
	a.PatientID = &id
}
