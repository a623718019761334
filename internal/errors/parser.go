package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError turns a store error into a code and a message that is safe to
// show. context names the operation, e.g. "create business".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// PostgreSQL 23505 / SQLite UNIQUE
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// 23503
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "The record is referenced by other data",
		}
	}

	// 23502 / SQLite NOT NULL
	if strings.Contains(errStrLower, "not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "Please fill in all required fields.",
		}
	}

	// 23514
	if strings.Contains(errStrLower, "check constraint") {
		if strings.Contains(errStrLower, "latitude") || strings.Contains(errStrLower, "longitude") {
			return ErrorInfo{
				Code:    ValidationInvalidRange,
				Message: "Coordinates are out of range",
			}
		}
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "The submitted data is not valid",
		}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabase,
			Message: "The service is temporarily unavailable. Please try again later.",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "slug") {
		return ErrorInfo{
			Code:    BusinessSlugExists,
			Message: "A business with this name already exists in this LGA",
		}
	}
	if strings.Contains(errLower, "phone") {
		return ErrorInfo{
			Code:    BusinessPhoneExists,
			Message: "This phone number is already registered",
		}
	}
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "registration"):
		return "Registration not found"
	case strings.Contains(contextLower, "business"):
		return "Business not found"
	}
	return "The requested record was not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "submit"):
		return "Failed to submit registration. Please try again."
	case strings.Contains(contextLower, "convert"):
		return "Failed to convert registration"
	case strings.Contains(contextLower, "create"):
		return "Failed to create record. Please try again later."
	case strings.Contains(contextLower, "update"):
		return "Failed to update record. Please try again later."
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete record. Please try again later."
	}
	return "Something went wrong. Please try again later."
}

// statusFor picks the HTTP status that matches a parsed error code.
func statusFor(code string) int {
	switch code {
	case ResourceNotFound, BusinessNotFound, RegistrationNotFound:
		return http.StatusNotFound
	case ResourceAlreadyExists, ResourceConflict, BusinessSlugExists, BusinessPhoneExists, RegistrationFinalized:
		return http.StatusConflict
	case ValidationRequired, ValidationInvalidInput, ValidationInvalidRange, ValidationInvalidFormat, ValidationInvalidStatus:
		return http.StatusBadRequest
	case InternalDatabase:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// ParseAndRespond parses err and writes the matching status and body.
func ParseAndRespond(c *gin.Context, err error, context string) {
	info := ParseError(err, context)
	c.JSON(statusFor(info.Code), ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
