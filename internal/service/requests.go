package service

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// validate checks incoming request structs before any workflow touches the DB.
var validate = validator.New()

// AbsenceRequest is a time-off submission before it becomes a record.
type AbsenceRequest struct {
	AnalystID uint      `validate:"required"`
	Type      string    `validate:"required,oneof=vacation sick_leave personal emergency training conference comp_off"`
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required"`
	Notes     string    `validate:"max=500"`

	// PreApproved submits and approves in one step (lead shortcut).
	PreApproved bool
}

// GenerationRequest bounds a schedule-generation run.
type GenerationRequest struct {
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required"`
}
