package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smartmedical-server/internal/models"
)

type patientRefState int

const (
	patientRefAbsent patientRefState = iota
	patientRefPending
	patientRefResolved
)

// PatientRef is an optional patient reference carried by create and update
// requests. It is absent (no patient supplied), pending (an id that still
// has to resolve) or resolved (backed by a directory entry). A pending id
// that fails to resolve is an error, never a silent drop.
type PatientRef struct {
	state   patientRefState
	id      string
	patient *models.Patient
}

// NoPatient is the absent reference.
func NoPatient() PatientRef {
	return PatientRef{}
}

// PatientByID is a pending reference to id. A blank id is absent.
func PatientByID(id string) PatientRef {
	id = strings.TrimSpace(id)
	if id == "" {
		return NoPatient()
	}
	return PatientRef{state: patientRefPending, id: id}
}

// IsAbsent reports whether no patient was supplied.
func (r PatientRef) IsAbsent() bool { return r.state == patientRefAbsent }

// IsResolved reports whether the reference is backed by a directory entry.
func (r PatientRef) IsResolved() bool { return r.state == patientRefResolved }

// ID returns the referenced id, empty when absent.
func (r PatientRef) ID() string { return r.id }

// Patient returns the resolved patient, nil unless IsResolved.
func (r PatientRef) Patient() *models.Patient { return r.patient }

// Resolve looks a pending reference up in dir. Absent and resolved
// references come back unchanged.
func (r PatientRef) Resolve(ctx context.Context, dir PatientDirectory) (PatientRef, error) {
	if r.state != patientRefPending {
		return r, nil
	}
	p, err := dir.FindByID(ctx, r.id)
	if errors.Is(err, ErrNotFound) {
		return r, fmt.Errorf("%w: id %s", ErrPatientNotFound, r.id)
	}
	if err != nil {
		return r, err
	}
	return PatientRef{state: patientRefResolved, id: p.ID, patient: p}, nil
}
