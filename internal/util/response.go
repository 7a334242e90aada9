package util

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is a failure that maps directly onto an HTTP status. Stores and
// handlers raise it; Fail renders it into the uniform envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

func NewAPIError(status int, message string) *APIError {
	return &APIError{Status: status, Message: message}
}

func BadRequest(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, message)
}

func Unauthorized(message string) *APIError {
	return NewAPIError(http.StatusUnauthorized, message)
}

func NotFound(message string) *APIError {
	return NewAPIError(http.StatusNotFound, message)
}

func Conflict(message string) *APIError {
	return NewAPIError(http.StatusConflict, message)
}

func Internal(message string) *APIError {
	return NewAPIError(http.StatusInternalServerError, message)
}

// JSON writes the uniform response envelope. Success is derived purely from
// the status code.
func JSON(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"statusCode": status,
		"data":       data,
		"message":    message,
		"success":    status < 400,
	})
}

// Fail renders any error through the envelope. APIErrors keep their status
// and message; everything else becomes an opaque 500.
func Fail(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		JSON(c, apiErr.Status, nil, apiErr.Message)
		return
	}
	JSON(c, http.StatusInternalServerError, nil, "Something went wrong")
}
