package services

import (
	"time"

	"smartmedical-server/internal/models"
)

// ApplyAutoCompletion moves a SCHEDULED appointment whose time is strictly
// before now to COMPLETED. It reports whether appt changed and therefore
// needs to be written back. Appointments without a time never complete.
func ApplyAutoCompletion(appt *models.Appointment, now time.Time) bool {
	if appt == nil || appt.AppointmentTime == nil {
		return false
	}
	if !appt.Status.Is(models.StatusScheduled) || !appt.AppointmentTime.Before(now) {
		return false
	}
	appt.Status = models.StatusCompleted
	return true
}

// CanTransition reports whether the lifecycle allows a status change from
// -> to. COMPLETED is terminal. Cancelling an already cancelled appointment
// is allowed and changes nothing. Statuses written by other clients that
// are not part of the lifecycle may only be cancelled.
func CanTransition(from, to models.AppointmentStatus) bool {
	switch {
	case from.Is(models.StatusScheduled):
		return to == models.StatusCompleted || to == models.StatusCancelled
	case from.Is(models.StatusCancelled):
		return to == models.StatusCancelled
	case from.Is(models.StatusCompleted):
		return false
	default:
		return to == models.StatusCancelled
	}
}

func checkTransition(from, to models.AppointmentStatus) error {
	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}
