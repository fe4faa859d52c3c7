package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Machine-readable error codes carried alongside the message when the
// remediation differs from the status code's default reading.
const (
	// CodeNoFirmAccess marks a 403 caused by the caller holding zero active
	// firm assignments; the fix is an admin granting one, not a permission
	// change.
	CodeNoFirmAccess = "no_firm_access"
	// CodeTokenExpired marks a 401 that a client may resolve by refreshing.
	CodeTokenExpired = "token_expired"
)

// Body is the standard API response envelope.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

// NoContent sends 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends 400 with error message.
func BadRequest(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Error: err})
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, err string) {
	c.JSON(http.StatusUnauthorized, Body{Success: false, Error: err})
}

// UnauthorizedCode sends 401 with a machine-readable code.
func UnauthorizedCode(c *gin.Context, code, err string) {
	c.JSON(http.StatusUnauthorized, Body{Success: false, Error: err, Code: code})
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, err string) {
	c.JSON(http.StatusForbidden, Body{Success: false, Error: err})
}

// ForbiddenCode sends 403 with a machine-readable code.
func ForbiddenCode(c *gin.Context, code, err string) {
	c.JSON(http.StatusForbidden, Body{Success: false, Error: err, Code: code})
}

// NotFound sends 404.
func NotFound(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, Body{Success: false, Error: err})
}

// Conflict sends 409.
func Conflict(c *gin.Context, err string) {
	c.JSON(http.StatusConflict, Body{Success: false, Error: err})
}

// ServiceUnavailable sends 503.
func ServiceUnavailable(c *gin.Context, err string) {
	c.JSON(http.StatusServiceUnavailable, Body{Success: false, Error: err})
}

// TooManyRequests sends 429.
func TooManyRequests(c *gin.Context, err string) {
	c.JSON(http.StatusTooManyRequests, Body{Success: false, Error: err})
}

// Internal sends 500.
func Internal(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, Body{Success: false, Error: err})
}
