package services

import (
	"cmp"
	"context"
	"slices"
	"time"

	"smartmedical-server/internal/models"
	"smartmedical-server/internal/monitoring"
)

const (
	unknownStatusKey = "UNKNOWN"
	unknownDoctorKey = "Unknown"
	dayKeyLayout     = "2006-01-02"
)

// DashboardService computes dashboard statistics.
type DashboardService struct {
	store    AppointmentStore
	patients PatientDirectory
	clock    Clock
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(store AppointmentStore, patients PatientDirectory, clock Clock) *DashboardService {
	if clock == nil {
		clock = SystemClock
	}
	return &DashboardService{store: store, patients: patients, clock: clock}
}

// Compute reduces the stored appointments to DashboardStats. It reads raw
// stored statuses and writes nothing back, so an elapsed SCHEDULED
// appointment keeps counting as SCHEDULED until a query touches it.
func (s *DashboardService) Compute(ctx context.Context) (*models.DashboardStats, error) {
	start := time.Now()
	defer func() { monitoring.RecordDashboardCompute(time.Since(start)) }()

	totalPatients, err := s.patients.Count(ctx)
	if err != nil {
		return nil, err
	}
	appts, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := Summarize(appts, s.clock.Now())
	stats.TotalPatients = totalPatients
	return stats, nil
}

// Summarize computes the appointment part of DashboardStats in one pass.
func Summarize(appts []models.Appointment, now time.Time) *models.DashboardStats {
	var upcoming int64
	byStatus := map[string]int64{}
	byDoctor := map[string]int64{}
	byDay := map[string]int64{}

	for _, a := range appts {
		status := string(a.Status)
		if status == "" {
			status = unknownStatusKey
		}
		byStatus[status]++

		doctor := a.DoctorName
		if doctor == "" {
			doctor = unknownDoctorKey
		}
		byDoctor[doctor]++

		if a.AppointmentTime == nil {
			continue
		}
		byDay[a.AppointmentTime.Format(dayKeyLayout)]++
		if a.AppointmentTime.After(now) && a.Status.Is(models.StatusScheduled) {
			upcoming++
		}
	}

	return &models.DashboardStats{
		TotalAppointments:     int64(len(appts)),
		UpcomingAppointments:  upcoming,
		StatusBreakdown:       sortByKey(byStatus),
		AppointmentsPerDoctor: sortByCountDesc(byDoctor),
		AppointmentsPerDay:    sortByKey(byDay),
	}
}

func toSeries(m map[string]int64) models.CountSeries {
	series := make(models.CountSeries, 0, len(m))
	for k, v := range m {
		series = append(series, models.Count{Key: k, Count: v})
	}
	return series
}

func sortByKey(m map[string]int64) models.CountSeries {
	series := toSeries(m)
	slices.SortFunc(series, func(a, b models.Count) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return series
}

// sortByCountDesc breaks ties by key so the order is stable across calls.
func sortByCountDesc(m map[string]int64) models.CountSeries {
	series := toSeries(m)
	slices.SortFunc(series, func(a, b models.Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return series
}
