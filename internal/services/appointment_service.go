package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smartmedical-server/internal/logger"
	"smartmedical-server/internal/models"
	"smartmedical-server/internal/monitoring"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// AppointmentInput carries the caller supplied fields for create and update.
// An empty Status means "default" on create and "keep" on update.
type AppointmentInput struct {
	Patient         PatientRef
	DoctorName      string
	AppointmentTime *time.Time
	Reason          string
	Status          models.AppointmentStatus
}

// AppointmentService exposes scheduling, lifecycle mutations and queries.
// Every read path runs its results through ApplyAutoCompletion and persists
// the records that changed before returning them.
type AppointmentService struct {
	store    AppointmentStore
	patients PatientDirectory
	clock    Clock
	log      *logger.Logger

	defaultPageSize int
	maxPageSize     int
}

// Option configures an AppointmentService.
type Option func(*AppointmentService)

// WithClock replaces the wall clock used for auto-completion.
func WithClock(c Clock) Option {
	return func(s *AppointmentService) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *AppointmentService) { s.log = l }
}

// WithPageLimits sets the page size used when none is given and the upper bound.
func WithPageLimits(defaultSize, maxSize int) Option {
	return func(s *AppointmentService) {
		if defaultSize > 0 {
			s.defaultPageSize = defaultSize
		}
		if maxSize > 0 {
			s.maxPageSize = maxSize
		}
	}
}

// NewAppointmentService creates a new AppointmentService.
func NewAppointmentService(store AppointmentStore, patients PatientDirectory, opts ...Option) *AppointmentService {
	s := &AppointmentService{
		store:           store,
		patients:        patients,
		clock:           SystemClock,
		log:             logger.Discard(),
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create schedules a new appointment. A supplied patient id must resolve.
func (s *AppointmentService) Create(ctx context.Context, in AppointmentInput) (*models.Appointment, error) {
	ref, err := in.Patient.Resolve(ctx, s.patients)
	if err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	status, err := normalizeStatus(in.Status, models.StatusScheduled)
	if err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	appt := &models.Appointment{
		DoctorName:      in.DoctorName,
		AppointmentTime: in.AppointmentTime,
		Reason:          in.Reason,
		Status:          status,
	}
	appt.SetPatient(ref.Patient())

	if err := s.store.Save(ctx, appt); err != nil {
		return nil, err
	}
	s.log.WithContext(ctx).WithField("appointment_id", appt.ID).Info("Appointment scheduled")
	return appt, nil
}

// GetByID returns one appointment, completing it first if it has elapsed.
func (s *AppointmentService) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment %s: %w", id, err)
	}
	if err := s.completeElapsed(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Update overwrites doctor name, time, reason and status of an existing
// appointment, and its patient when one is supplied. It is a direct
// correction and is not checked against the lifecycle.
func (s *AppointmentService) Update(ctx context.Context, id string, in AppointmentInput) (*models.Appointment, error) {
	appt, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update appointment %s: %w", id, err)
	}
	ref, err := in.Patient.Resolve(ctx, s.patients)
	if err != nil {
		return nil, fmt.Errorf("update appointment %s: %w", id, err)
	}
	status, err := normalizeStatus(in.Status, appt.Status)
	if err != nil {
		return nil, fmt.Errorf("update appointment %s: %w", id, err)
	}

	appt.DoctorName = in.DoctorName
	appt.AppointmentTime = in.AppointmentTime
	appt.Reason = in.Reason
	appt.Status = status
	if ref.IsResolved() {
		appt.SetPatient(ref.Patient())
	}

	if err := s.store.Save(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Cancel moves an appointment to CANCELLED. Completed appointments are
// rejected with an error matching ErrInvalidTransition and left untouched.
func (s *AppointmentService) Cancel(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cancel appointment %s: %w", id, err)
	}
	if err := checkTransition(appt.Status, models.StatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel appointment %s: %w", id, err)
	}

	appt.Status = models.StatusCancelled
	if err := s.store.Save(ctx, appt); err != nil {
		return nil, err
	}
	monitoring.RecordCancellation()
	s.log.WithContext(ctx).WithField("appointment_id", appt.ID).Info("Appointment cancelled")
	return appt, nil
}

// Delete removes an appointment regardless of its status. Unknown ids are ignored.
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteByID(ctx, id)
}

// ListAll returns every appointment.
func (s *AppointmentService) ListAll(ctx context.Context) ([]models.Appointment, error) {
	appts, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.completeAll(ctx, appts)
}

// ListUpcoming returns appointments after now, earliest first.
func (s *AppointmentService) ListUpcoming(ctx context.Context) ([]models.Appointment, error) {
	appts, err := s.store.FindAfter(ctx, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return s.completeAll(ctx, appts)
}

// ListByPatient returns the appointments of an existing patient.
func (s *AppointmentService) ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	ref, err := PatientByID(patientID).Resolve(ctx, s.patients)
	if err != nil {
		return nil, err
	}
	if ref.IsAbsent() {
		return nil, fmt.Errorf("%w: empty id", ErrPatientNotFound)
	}
	appts, err := s.store.FindByPatient(ctx, ref.ID())
	if err != nil {
		return nil, err
	}
	return s.completeAll(ctx, appts)
}

// ListBetween returns appointments with from <= time <= to. An inverted
// range yields nothing.
func (s *AppointmentService) ListBetween(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	if from.After(to) {
		return []models.Appointment{}, nil
	}
	appts, err := s.store.FindByTimeRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return s.completeAll(ctx, appts)
}

// ListByStatus returns appointments stored with status, earliest first.
func (s *AppointmentService) ListByStatus(ctx context.Context, status string) ([]models.Appointment, error) {
	st, ok := models.ParseAppointmentStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	appts, err := s.store.FindByStatus(ctx, st)
	if err != nil {
		return nil, err
	}
	return s.completeAll(ctx, appts)
}

// ListByStatusAndRange filters by status and time range, and by doctor name
// when doctorName is not blank.
func (s *AppointmentService) ListByStatusAndRange(ctx context.Context, status string, from, to time.Time, doctorName string) ([]models.Appointment, error) {
	st, ok := models.ParseAppointmentStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if from.After(to) {
		return []models.Appointment{}, nil
	}
	if strings.TrimSpace(doctorName) == "" {
		doctorName = ""
	}
	appts, err := s.store.FindByStatusAndRange(ctx, st, from, to, doctorName)
	if err != nil {
		return nil, err
	}
	return s.completeAll(ctx, appts)
}

// ListPaged returns one page of appointments, optionally restricted to a
// status. Auto-completion runs on the materialized page only; the page is
// not recomputed when records on it change status.
func (s *AppointmentService) ListPaged(ctx context.Context, page, size int, sortBy, direction, status string) (Page[models.Appointment], error) {
	field, ok := ParseSortField(sortBy)
	if !ok {
		return Page[models.Appointment]{}, fmt.Errorf("%w: %q", ErrInvalidSortField, sortBy)
	}
	req := PageRequest{
		Page:      max(page, 0),
		Size:      s.clampPageSize(size),
		SortBy:    field,
		Direction: ParseSortDirection(direction),
	}
	if strings.TrimSpace(status) != "" {
		st, ok := models.ParseAppointmentStatus(status)
		if !ok {
			return Page[models.Appointment]{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
		}
		req.Status = st
	}

	appts, total, err := s.store.FindPage(ctx, req)
	if err != nil {
		return Page[models.Appointment]{}, err
	}
	appts, err = s.completeAll(ctx, appts)
	if err != nil {
		return Page[models.Appointment]{}, err
	}
	return NewPage(appts, req, total), nil
}

func (s *AppointmentService) clampPageSize(size int) int {
	if size <= 0 {
		size = s.defaultPageSize
	}
	return min(size, s.maxPageSize)
}

func (s *AppointmentService) completeAll(ctx context.Context, appts []models.Appointment) ([]models.Appointment, error) {
	for i := range appts {
		if err := s.completeElapsed(ctx, &appts[i]); err != nil {
			return nil, err
		}
	}
	if appts == nil {
		appts = []models.Appointment{}
	}
	return appts, nil
}

// completeElapsed is the single place where reads write back.
func (s *AppointmentService) completeElapsed(ctx context.Context, appt *models.Appointment) error {
	if !ApplyAutoCompletion(appt, s.clock.Now()) {
		return nil
	}
	if err := s.store.Save(ctx, appt); err != nil {
		return err
	}
	monitoring.RecordAutoCompletion()
	s.log.WithContext(ctx).WithField("appointment_id", appt.ID).Debug("Appointment auto-completed")
	return nil
}

func normalizeStatus(status, fallback models.AppointmentStatus) (models.AppointmentStatus, error) {
	if strings.TrimSpace(string(status)) == "" {
		return fallback, nil
	}
	st, ok := models.ParseAppointmentStatus(string(status))
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return st, nil
}
