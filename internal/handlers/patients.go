package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"smartmedical-server/internal/models"
	"smartmedical-server/internal/utils"
)

// PatientStore is the patient storage the handler needs.
type PatientStore interface {
	Create(ctx context.Context, p *models.Patient) error
	FindByID(ctx context.Context, id string) (*models.Patient, error)
	FindAll(ctx context.Context) ([]models.Patient, error)
	DeleteByID(ctx context.Context, id string) error
}

// PatientHandler handles patient related requests.
type PatientHandler struct {
	Patients PatientStore
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(patients PatientStore) *PatientHandler {
	return &PatientHandler{Patients: patients}
}

// CreatePatientRequest represents the request body for registering a patient.
type CreatePatientRequest struct {
	Name           string `json:"name" binding:"required,max=255"`
	Age            int    `json:"age" binding:"gte=0,lte=150"`
	Email          string `json:"email" binding:"omitempty,email"`
	Phone          string `json:"phone" binding:"max=50"`
	MedicalHistory string `json:"medicalHistory"`
}

// CreatePatient handles registering a new patient.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req CreatePatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient := models.Patient{
		Name:           req.Name,
		Age:            req.Age,
		Email:          req.Email,
		Phone:          req.Phone,
		MedicalHistory: req.MedicalHistory,
	}
	if err := h.Patients.Create(c.Request.Context(), &patient); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Patient created successfully", patient)
}

// GetPatients handles fetching all patients.
func (h *PatientHandler) GetPatients(c *gin.Context) {
	patients, err := h.Patients.FindAll(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if patients == nil {
		patients = []models.Patient{}
	}
	utils.Success(c, "Patients fetched successfully", patients)
}

// GetPatientByID handles fetching a single patient.
func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	patient, err := h.Patients.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Patient fetched successfully", patient)
}

// DeletePatient handles deleting a patient. Their appointments stay, with
// the patient reference cleared.
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	if err := h.Patients.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Patient deleted successfully", nil)
}
