package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"smartmedical-server/internal/models"
	"smartmedical-server/internal/services"
)

// PatientRepository is the MySQL backed patient directory.
type PatientRepository struct {
	DB *gorm.DB
}

// NewPatientRepository creates a new PatientRepository.
func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{DB: db}
}

func (r *PatientRepository) Create(ctx context.Context, p *models.Patient) error {
	return services.NewStorageError("create patient", r.DB.WithContext(ctx).Create(p).Error)
}

func (r *PatientRepository) FindByID(ctx context.Context, id string) (*models.Patient, error) {
	var p models.Patient
	if err := r.DB.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("patient %s: %w", id, services.ErrNotFound)
		}
		return nil, services.NewStorageError("find patient", err)
	}
	return &p, nil
}

func (r *PatientRepository) FindAll(ctx context.Context) ([]models.Patient, error) {
	var patients []models.Patient
	if err := r.DB.WithContext(ctx).Order("created_at asc").Find(&patients).Error; err != nil {
		return nil, services.NewStorageError("list patients", err)
	}
	return patients, nil
}

func (r *PatientRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Patient{}).Count(&n).Error; err != nil {
		return 0, services.NewStorageError("count patients", err)
	}
	return n, nil
}

// DeleteByID removes a patient. The foreign key clears the patient
// reference of its appointments.
func (r *PatientRepository) DeleteByID(ctx context.Context, id string) error {
	return services.NewStorageError("delete patient",
		r.DB.WithContext(ctx).Delete(&models.Patient{}, "id = ?", id).Error)
}
