package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/troophq/packtrack/internal/validate"
)

// ErrorResponse is the JSON error envelope returned by all handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse carries per-field schema violations.
type ValidationErrorResponse struct {
	Errors []validate.FieldError `json:"errors"`
}

// MessageResponse acknowledges an operation with no entity to return.
type MessageResponse struct {
	Message string `json:"message"`
}

// parseID validates an id path parameter as a positive integer. On failure it
// writes a 400 response and returns false.
func parseID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "ID must be a positive integer"})
		return 0, false
	}
	return uint(v), true
}

// bindJSON binds the request body and writes a field-level 400 on failure.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{Errors: validate.Fields(err)})
		return false
	}
	return true
}

// parseDate accepts RFC 3339 timestamps or bare YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
