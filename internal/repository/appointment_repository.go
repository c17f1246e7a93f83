package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"smartmedical-server/internal/models"
	"smartmedical-server/internal/services"
)

// sortColumns maps sortable API fields to table columns.
var sortColumns = map[services.SortField]string{
	services.SortByID:              "id",
	services.SortByPatientID:       "patient_id",
	services.SortByDoctorName:      "doctor_name",
	services.SortByAppointmentTime: "appointment_time",
	services.SortByReason:          "reason",
	services.SortByStatus:          "status",
	services.SortByCreatedAt:       "created_at",
}

// AppointmentRepository is the MySQL backed appointment store.
type AppointmentRepository struct {
	DB *gorm.DB
}

// NewAppointmentRepository creates a new AppointmentRepository.
func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{DB: db}
}

func (r *AppointmentRepository) query(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Preload("Patient")
}

// Save inserts appt when it has no id yet and overwrites it otherwise.
// The patient row is never written through the association.
func (r *AppointmentRepository) Save(ctx context.Context, appt *models.Appointment) error {
	tx := r.DB.WithContext(ctx).Omit(clause.Associations)
	if appt.ID == "" {
		return services.NewStorageError("create appointment", tx.Create(appt).Error)
	}
	return services.NewStorageError("save appointment", tx.Save(appt).Error)
}

// FindByID fetches a single appointment with its patient.
func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	if err := r.query(ctx).First(&appt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("appointment %s: %w", id, services.ErrNotFound)
		}
		return nil, services.NewStorageError("find appointment", err)
	}
	return &appt, nil
}

func (r *AppointmentRepository) find(op string, tx *gorm.DB) ([]models.Appointment, error) {
	var appts []models.Appointment
	if err := tx.Order("appointment_time asc").Order("id asc").Find(&appts).Error; err != nil {
		return nil, services.NewStorageError(op, err)
	}
	return appts, nil
}

func (r *AppointmentRepository) FindAll(ctx context.Context) ([]models.Appointment, error) {
	return r.find("list appointments", r.query(ctx))
}

func (r *AppointmentRepository) FindByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return r.find("list appointments by patient", r.query(ctx).Where("patient_id = ?", patientID))
}

func (r *AppointmentRepository) FindByTimeRange(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	return r.find("list appointments by range",
		r.query(ctx).Where("appointment_time BETWEEN ? AND ?", from, to))
}

func (r *AppointmentRepository) FindByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error) {
	return r.find("list appointments by status", r.query(ctx).Where("status = ?", status))
}

func (r *AppointmentRepository) FindByStatusAndRange(ctx context.Context, status models.AppointmentStatus, from, to time.Time, doctorName string) ([]models.Appointment, error) {
	tx := r.query(ctx).
		Where("status = ?", status).
		Where("appointment_time BETWEEN ? AND ?", from, to)
	if doctorName != "" {
		tx = tx.Where("doctor_name = ?", doctorName)
	}
	return r.find("filter appointments", tx)
}

func (r *AppointmentRepository) FindAfter(ctx context.Context, t time.Time) ([]models.Appointment, error) {
	return r.find("list upcoming appointments", r.query(ctx).Where("appointment_time > ?", t))
}

// FindPage counts the matching rows and loads one page of them.
func (r *AppointmentRepository) FindPage(ctx context.Context, req services.PageRequest) ([]models.Appointment, int64, error) {
	column, ok := sortColumns[req.SortBy]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", services.ErrInvalidSortField, req.SortBy)
	}

	scope := func(tx *gorm.DB) *gorm.DB {
		if req.Status != "" {
			return tx.Where("status = ?", req.Status)
		}
		return tx
	}

	var total int64
	if err := scope(r.DB.WithContext(ctx).Model(&models.Appointment{})).Count(&total).Error; err != nil {
		return nil, 0, services.NewStorageError("count appointments", err)
	}

	var appts []models.Appointment
	err := scope(r.query(ctx)).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: req.Direction == services.SortDesc}).
		Order("id asc").
		Offset(req.Offset()).
		Limit(req.Size).
		Find(&appts).Error
	if err != nil {
		return nil, 0, services.NewStorageError("page appointments", err)
	}
	return appts, total, nil
}

func (r *AppointmentRepository) DeleteByID(ctx context.Context, id string) error {
	return services.NewStorageError("delete appointment",
		r.DB.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id).Error)
}
