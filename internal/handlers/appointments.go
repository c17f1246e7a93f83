package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"smartmedical-server/internal/models"
	"smartmedical-server/internal/services"
	"smartmedical-server/internal/utils"
)

// dateTimeLayout is the wire format of appointment times: local time, no zone.
const dateTimeLayout = "2006-01-02T15:04:05"

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Service *services.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(service *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Service: service}
}

// PatientReference identifies the patient an appointment is booked for.
type PatientReference struct {
	ID string `json:"id"`
}

// AppointmentRequest represents the request body for creating or updating an appointment.
type AppointmentRequest struct {
	Patient         *PatientReference `json:"patient"`
	DoctorName      string            `json:"doctorName" binding:"max=255"`
	AppointmentTime string            `json:"appointmentTime" binding:"required,datetime=2006-01-02T15:04:05"`
	Reason          string            `json:"reason" binding:"max=1000"`
	Status          string            `json:"status" binding:"omitempty,oneof=SCHEDULED COMPLETED CANCELLED scheduled completed cancelled"`
}

func (r AppointmentRequest) toInput() (services.AppointmentInput, error) {
	t, err := time.ParseInLocation(dateTimeLayout, r.AppointmentTime, time.Local)
	if err != nil {
		return services.AppointmentInput{}, err
	}
	in := services.AppointmentInput{
		Patient:         services.NoPatient(),
		DoctorName:      r.DoctorName,
		AppointmentTime: &t,
		Reason:          r.Reason,
		Status:          models.AppointmentStatus(r.Status),
	}
	if r.Patient != nil {
		in.Patient = services.PatientByID(r.Patient.ID)
	}
	return in, nil
}

// CreateAppointment handles creating a new appointment.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req AppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		utils.BadRequest(c, "Invalid appointmentTime: "+err.Error())
		return
	}

	appointment, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Appointment created successfully", appointment)
}

// GetAppointments handles listing every appointment.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	appointments, err := h.Service.ListAll(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetUpcomingAppointments handles listing future appointments, earliest first.
func (h *AppointmentHandler) GetUpcomingAppointments(c *gin.Context) {
	appointments, err := h.Service.ListUpcoming(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Upcoming appointments fetched successfully", appointments)
}

// GetAppointmentsForPatient handles listing the appointments of one patient.
func (h *AppointmentHandler) GetAppointmentsForPatient(c *gin.Context) {
	appointments, err := h.Service.ListByPatient(c.Request.Context(), c.Param("patientId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentsInRange handles listing appointments between from and to.
func (h *AppointmentHandler) GetAppointmentsInRange(c *gin.Context) {
	from, to, ok := bindRange(c)
	if !ok {
		return
	}
	appointments, err := h.Service.ListBetween(c.Request.Context(), from, to)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointments fetched successfully", appointments)
}

// FilterAppointments handles listing appointments by status.
func (h *AppointmentHandler) FilterAppointments(c *gin.Context) {
	status, ok := c.GetQuery("status")
	if !ok {
		utils.BadRequest(c, "Query parameter 'status' is required")
		return
	}
	appointments, err := h.Service.ListByStatus(c.Request.Context(), status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointments fetched successfully", appointments)
}

// FilterAppointmentsByStatusAndDate handles filtering by status, range and
// optionally doctor name.
func (h *AppointmentHandler) FilterAppointmentsByStatusAndDate(c *gin.Context) {
	status, ok := c.GetQuery("status")
	if !ok {
		utils.BadRequest(c, "Query parameter 'status' is required")
		return
	}
	from, to, ok := bindRange(c)
	if !ok {
		return
	}
	appointments, err := h.Service.ListByStatusAndRange(c.Request.Context(), status, from, to, c.Query("doctorName"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetPagedAppointments handles the paginated, sortable appointment list.
func (h *AppointmentHandler) GetPagedAppointments(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		utils.BadRequest(c, "Invalid page: "+err.Error())
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "0"))
	if err != nil {
		utils.BadRequest(c, "Invalid size: "+err.Error())
		return
	}

	result, err := h.Service.ListPaged(c.Request.Context(), page, size,
		c.DefaultQuery("sortBy", string(services.SortByAppointmentTime)),
		c.DefaultQuery("direction", string(services.SortAsc)),
		c.Query("status"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointments fetched successfully", result)
}

// GetAppointmentByID handles fetching a single appointment by its ID.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointment, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointment fetched successfully", appointment)
}

// UpdateAppointment handles overwriting an appointment's fields.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	var req AppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		utils.BadRequest(c, "Invalid appointmentTime: "+err.Error())
		return
	}

	appointment, err := h.Service.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointment updated successfully", appointment)
}

// DeleteAppointment handles deleting an appointment. Unknown ids succeed.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointment deleted successfully", nil)
}

// CancelAppointment handles cancelling an appointment.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	appointment, err := h.Service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointment cancelled successfully", appointment)
}

// bindRange reads the from/to query parameters, answering 400 on failure.
func bindRange(c *gin.Context) (from, to time.Time, ok bool) {
	var err error
	if from, err = parseDateTimeQuery(c, "from"); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	if to, err = parseDateTimeQuery(c, "to"); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	return from, to, true
}

// parseDateTimeQuery accepts yyyy-MM-ddTHH:mm:ss in local time or RFC 3339.
func parseDateTimeQuery(c *gin.Context, key string) (time.Time, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return time.Time{}, fmt.Errorf("query parameter '%s' is required", key)
	}
	if t, err := time.ParseInLocation(dateTimeLayout, raw, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: use format yyyy-MM-ddTHH:mm:ss (example: 2025-08-14T00:00:00)", key, raw)
	}
	return t, nil
}
