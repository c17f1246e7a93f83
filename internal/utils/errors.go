package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"smartmedical-server/internal/services"
)

// StatusForError maps core error kinds to HTTP status codes.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrPatientNotFound):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, services.ErrInvalidSortField):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondError sends err with the status its kind maps to and records it on
// the context for the request logger.
func RespondError(c *gin.Context, err error) {
	_ = c.Error(err)
	Error(c, StatusForError(err), err.Error())
}
