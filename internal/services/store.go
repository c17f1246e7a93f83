package services

import (
	"context"
	"time"

	"smartmedical-server/internal/models"
)

// AppointmentStore is the durable keyed storage behind the appointment core.
//
// FindByID returns an error matching ErrNotFound when the id is unknown. Every
// other failure is reported as a *StorageError. Sequence results are ordered
// ascending by appointment time.
type AppointmentStore interface {
	// Save assigns id and createdAt when the record has no id yet, otherwise
	// it overwrites the stored record with the same id.
	Save(ctx context.Context, appt *models.Appointment) error
	FindByID(ctx context.Context, id string) (*models.Appointment, error)
	FindAll(ctx context.Context) ([]models.Appointment, error)
	FindByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	// FindByTimeRange is inclusive on both ends.
	FindByTimeRange(ctx context.Context, from, to time.Time) ([]models.Appointment, error)
	FindByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error)
	// FindByStatusAndRange skips the doctor filter when doctorName is empty.
	FindByStatusAndRange(ctx context.Context, status models.AppointmentStatus, from, to time.Time, doctorName string) ([]models.Appointment, error)
	FindAfter(ctx context.Context, t time.Time) ([]models.Appointment, error)
	FindPage(ctx context.Context, req PageRequest) ([]models.Appointment, int64, error)
	// DeleteByID is a no-op for unknown ids.
	DeleteByID(ctx context.Context, id string) error
}

// PatientDirectory resolves patient identities.
type PatientDirectory interface {
	FindByID(ctx context.Context, id string) (*models.Patient, error)
	Count(ctx context.Context) (int64, error)
}

// Clock supplies the evaluation time for lifecycle decisions.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)
