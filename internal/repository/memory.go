package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"smartmedical-server/internal/models"
	"smartmedical-server/internal/services"
)

// MemoryAppointmentStore keeps appointments in process. It backs the
// "memory" storage driver and tests. Records are copied in and out so
// callers never share state with the store.
type MemoryAppointmentStore struct {
	mu       sync.RWMutex
	records  map[string]models.Appointment
	patients *MemoryPatientStore
	now      func() time.Time
}

// NewMemoryAppointmentStore creates an empty store. When patients is not
// nil, loaded appointments carry their patient like the SQL store's preload.
func NewMemoryAppointmentStore(patients *MemoryPatientStore) *MemoryAppointmentStore {
	return &MemoryAppointmentStore{
		records:  map[string]models.Appointment{},
		patients: patients,
		now:      time.Now,
	}
}

func (s *MemoryAppointmentStore) Save(_ context.Context, appt *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	if existing, ok := s.records[appt.ID]; ok {
		appt.CreatedAt = existing.CreatedAt
	} else if appt.CreatedAt.IsZero() {
		appt.CreatedAt = now
	}
	if appt.Status == "" {
		appt.Status = models.StatusScheduled
	}
	appt.UpdatedAt = now

	stored := *appt
	stored.Patient = nil
	s.records[appt.ID] = stored
	return nil
}

func (s *MemoryAppointmentStore) FindByID(_ context.Context, id string) (*models.Appointment, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("appointment %s: %w", id, services.ErrNotFound)
	}
	out := s.load(rec)
	return &out, nil
}

func (s *MemoryAppointmentStore) FindAll(_ context.Context) ([]models.Appointment, error) {
	return s.filter(func(models.Appointment) bool { return true }), nil
}

func (s *MemoryAppointmentStore) FindByPatient(_ context.Context, patientID string) ([]models.Appointment, error) {
	return s.filter(func(a models.Appointment) bool {
		return a.PatientID != nil && *a.PatientID == patientID
	}), nil
}

func (s *MemoryAppointmentStore) FindByTimeRange(_ context.Context, from, to time.Time) ([]models.Appointment, error) {
	return s.filter(func(a models.Appointment) bool { return between(a, from, to) }), nil
}

func (s *MemoryAppointmentStore) FindByStatus(_ context.Context, status models.AppointmentStatus) ([]models.Appointment, error) {
	return s.filter(func(a models.Appointment) bool { return a.Status == status }), nil
}

func (s *MemoryAppointmentStore) FindByStatusAndRange(_ context.Context, status models.AppointmentStatus, from, to time.Time, doctorName string) ([]models.Appointment, error) {
	return s.filter(func(a models.Appointment) bool {
		if a.Status != status || !between(a, from, to) {
			return false
		}
		return doctorName == "" || a.DoctorName == doctorName
	}), nil
}

func (s *MemoryAppointmentStore) FindAfter(_ context.Context, t time.Time) ([]models.Appointment, error) {
	return s.filter(func(a models.Appointment) bool {
		return a.AppointmentTime != nil && a.AppointmentTime.After(t)
	}), nil
}

func (s *MemoryAppointmentStore) FindPage(_ context.Context, req services.PageRequest) ([]models.Appointment, int64, error) {
	compare, ok := memoryComparators[req.SortBy]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", services.ErrInvalidSortField, req.SortBy)
	}
	all := s.filter(func(a models.Appointment) bool {
		return req.Status == "" || a.Status == req.Status
	})
	slices.SortStableFunc(all, func(a, b models.Appointment) int {
		c := compare(a, b)
		if req.Direction == services.SortDesc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	total := int64(len(all))
	start := min(req.Offset(), len(all))
	end := min(start+req.Size, len(all))
	return all[start:end], total, nil
}

func (s *MemoryAppointmentStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.records, id)
	s.mu.Unlock()
	return nil
}

// clearPatient drops references to a deleted patient, like ON DELETE SET NULL.
func (s *MemoryAppointmentStore) clearPatient(patientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rec := range s.records {
		if rec.PatientID != nil && *rec.PatientID == patientID {
			rec.PatientID = nil
			s.records[id] = rec
		}
	}
}

func (s *MemoryAppointmentStore) filter(keep func(models.Appointment) bool) []models.Appointment {
	s.mu.RLock()
	out := make([]models.Appointment, 0, len(s.records))
	for _, rec := range s.records {
		if keep(rec) {
			out = append(out, s.load(rec))
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b models.Appointment) int {
		if c := compareTime(a.AppointmentTime, b.AppointmentTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// load copies rec and attaches its patient.
func (s *MemoryAppointmentStore) load(rec models.Appointment) models.Appointment {
	out := rec
	if rec.AppointmentTime != nil {
		t := *rec.AppointmentTime
		out.AppointmentTime = &t
	}
	if rec.PatientID != nil {
		id := *rec.PatientID
		out.PatientID = &id
		if s.patients != nil {
			if p, ok := s.patients.get(id); ok {
				out.Patient = &p
			}
		}
	}
	return out
}

func between(a models.Appointment, from, to time.Time) bool {
	return a.AppointmentTime != nil && !a.AppointmentTime.Before(from) && !a.AppointmentTime.After(to)
}

// compareTime orders nil times first, as MySQL does for NULL ascending.
func compareTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var memoryComparators = map[services.SortField]func(a, b models.Appointment) int{
	services.SortByID: func(a, b models.Appointment) int { return cmp.Compare(a.ID, b.ID) },
	services.SortByPatientID: func(a, b models.Appointment) int {
		return cmp.Compare(derefOrEmpty(a.PatientID), derefOrEmpty(b.PatientID))
	},
	services.SortByDoctorName: func(a, b models.Appointment) int {
		return strings.Compare(a.DoctorName, b.DoctorName)
	},
	services.SortByAppointmentTime: func(a, b models.Appointment) int {
		return compareTime(a.AppointmentTime, b.AppointmentTime)
	},
	services.SortByReason: func(a, b models.Appointment) int { return strings.Compare(a.Reason, b.Reason) },
	services.SortByStatus: func(a, b models.Appointment) int {
		return cmp.Compare(a.Status, b.Status)
	},
	services.SortByCreatedAt: func(a, b models.Appointment) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

// MemoryPatientStore keeps patients in process.
type MemoryPatientStore struct {
	mu           sync.RWMutex
	records      map[string]models.Patient
	appointments *MemoryAppointmentStore
}

// NewMemoryPatientStore creates an empty patient store.
func NewMemoryPatientStore() *MemoryPatientStore {
	return &MemoryPatientStore{records: map[string]models.Patient{}}
}

// NewMemoryStores creates a linked patient and appointment store pair.
func NewMemoryStores() (*MemoryAppointmentStore, *MemoryPatientStore) {
	patients := NewMemoryPatientStore()
	appts := NewMemoryAppointmentStore(patients)
	patients.appointments = appts
	return appts, patients
}

func (s *MemoryPatientStore) Create(_ context.Context, p *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.records[p.ID] = *p
	return nil
}

func (s *MemoryPatientStore) FindByID(_ context.Context, id string) (*models.Patient, error) {
	p, ok := s.get(id)
	if !ok {
		return nil, fmt.Errorf("patient %s: %w", id, services.ErrNotFound)
	}
	return &p, nil
}

func (s *MemoryPatientStore) FindAll(_ context.Context) ([]models.Patient, error) {
	s.mu.RLock()
	out := make([]models.Patient, 0, len(s.records))
	for _, p := range s.records {
		out = append(out, p)
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b models.Patient) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *MemoryPatientStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

func (s *MemoryPatientStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.records, id)
	s.mu.Unlock()
	if s.appointments != nil {
		s.appointments.clearPatient(id)
	}
	return nil
}

func (s *MemoryPatientStore) get(id string) (models.Patient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.records[id]
	return p, ok
}
