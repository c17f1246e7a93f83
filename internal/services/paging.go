package services

import (
	"math"
	"strings"

	"smartmedical-server/internal/models"
)

// SortField names an appointment field paging may order by.
type SortField string

const (
	SortByID              SortField = "id"
	SortByPatientID       SortField = "patientId"
	SortByDoctorName      SortField = "doctorName"
	SortByAppointmentTime SortField = "appointmentTime"
	SortByReason          SortField = "reason"
	SortByStatus          SortField = "status"
	SortByCreatedAt       SortField = "createdAt"
)

var sortFields = map[SortField]bool{
	SortByID:              true,
	SortByPatientID:       true,
	SortByDoctorName:      true,
	SortByAppointmentTime: true,
	SortByReason:          true,
	SortByStatus:          true,
	SortByCreatedAt:       true,
}

// ParseSortField validates name against the sortable fields. An empty name
// sorts by appointment time.
func ParseSortField(name string) (SortField, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SortByAppointmentTime, true
	}
	f := SortField(name)
	return f, sortFields[f]
}

// SortDirection is asc or desc.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection accepts "desc" in any case; everything else is asc.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// PageRequest selects one zero-based page of appointments. An empty Status
// pages over every record.
type PageRequest struct {
	Page      int
	Size      int
	SortBy    SortField
	Direction SortDirection
	Status    models.AppointmentStatus
}

// Offset is the number of records preceding the page. It saturates at
// math.MaxInt so a page far past the end reads as empty.
func (r PageRequest) Offset() int {
	if r.Page <= 0 || r.Size <= 0 {
		return 0
	}
	if r.Page > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return r.Page * r.Size
}

// Page is a bounded slice of an ordered result set.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// NewPage builds a page and derives TotalPages from total and the request size.
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}
