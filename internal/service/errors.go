package service

import (
	"errors"
	"fmt"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"
	"github.com/bishwashp/ShiftPlanner-sub003/pkg/dateutil"
)

var (
	ErrAnalystNotFound     = errors.New("analyst not found")
	ErrAbsenceNotFound     = errors.New("absence request not found")
	ErrInvalidDateRange    = errors.New("end date is before start date")
	ErrInvalidTransition   = errors.New("invalid absence status transition")
	ErrInsufficientCompOff = errors.New("insufficient comp-off balance")
	ErrDuplicateAbsence    = errors.New("duplicate absence request")
	ErrAbsenceOverlap      = errors.New("absence overlaps an existing request")
)

// DuplicateAbsenceError marks a request with the same type and exact dates as
// one already on file. It carries the existing record's ID so callers can
// offer a review action instead of a dead end.
type DuplicateAbsenceError struct {
	ExistingID uint
}

func (e *DuplicateAbsenceError) Error() string {
	return fmt.Sprintf("duplicate absence request, matches existing request #%d", e.ExistingID)
}

func (e *DuplicateAbsenceError) Unwrap() error {
	return ErrDuplicateAbsence
}

// OverlapAbsenceError marks a request whose dates collide with a different
// live request of the same analyst.
type OverlapAbsenceError struct {
	Existing models.Absence
}

func (e *OverlapAbsenceError) Error() string {
	return fmt.Sprintf("absence overlaps existing %s request #%d (%s to %s)",
		e.Existing.Type, e.Existing.ID,
		dateutil.DayKey(e.Existing.StartDate), dateutil.DayKey(e.Existing.EndDate))
}

func (e *OverlapAbsenceError) Unwrap() error {
	return ErrAbsenceOverlap
}
