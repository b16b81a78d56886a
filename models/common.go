package models

import (
	"strings"
	"time"
)

// AuditFields contains common audit tracking fields shared by every
// domain record. CreatedBy/UpdatedBy reference the acting user's ID and
// stay nil when no persisted actor was available at write time.
type AuditFields struct {
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	CreatedBy *int64    `json:"created_by,omitempty" db:"created_by"`
	UpdatedBy *int64    `json:"updated_by,omitempty" db:"updated_by"`
}

// ValidationError represents a single field constraint violation
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// HasErrors returns true if there are validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Messages returns all error messages as a slice of strings
func (ve ValidationErrors) Messages() []string {
	messages := make([]string, len(ve))
	for i, err := range ve {
		messages[i] = err.Message
	}
	return messages
}

// Error implements the error interface so services can return the
// violations directly
func (ve ValidationErrors) Error() string {
	return "validation failed: " + strings.Join(ve.Messages(), ", ")
}

// ParseDate parses a YYYY-MM-DD string into a time.Time
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}
