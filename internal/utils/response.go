package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ResponseData represents the structure of a standard API response.
type ResponseData struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, ResponseData{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// Success sends a standard success response.
func Success(c *gin.Context, message string, data any) {
	respond(c, http.StatusOK, message, data)
}

// Created sends a standard resource created response.
func Created(c *gin.Context, message string, data any) {
	respond(c, http.StatusCreated, message, data)
}

// Error sends a standard error response. The message is the status text,
// the detail goes in the error field.
func Error(c *gin.Context, statusCode int, errorMessage string) {
	c.AbortWithStatusJSON(statusCode, ResponseData{
		Status:  statusCode,
		Message: http.StatusText(statusCode),
		Error:   errorMessage,
	})
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(c *gin.Context, errorMessage string) {
	Error(c, http.StatusBadRequest, errorMessage)
}
