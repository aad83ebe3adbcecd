package models

// ShiftType is the fixed work-period category an analyst rotates in.
type ShiftType string

const (
	ShiftTypeMorning ShiftType = "MORNING" // "AM" in calendar feeds
	ShiftTypeEvening ShiftType = "EVENING" // "PM" in calendar feeds
	ShiftTypeWeekend ShiftType = "WEEKEND" // single rotating weekend analyst
	ShiftTypeDay     ShiftType = "DAY"     // single-shift regions
)

// DisplayName returns the human-readable label used in conflict reports.
func (st ShiftType) DisplayName() string {
	switch st {
	case ShiftTypeMorning:
		return "Morning"
	case ShiftTypeEvening:
		return "Evening"
	case ShiftTypeWeekend:
		return "Weekend"
	case ShiftTypeDay:
		return "Day"
	default:
		return string(st)
	}
}

// IsValid checks the category is one the system schedules.
func (st ShiftType) IsValid() bool {
	switch st {
	case ShiftTypeMorning, ShiftTypeEvening, ShiftTypeWeekend, ShiftTypeDay:
		return true
	}
	return false
}

// ParseShiftType maps user input (including the AM/PM feed labels) to a category.
func ParseShiftType(s string) (ShiftType, bool) {
	switch s {
	case "MORNING", "morning", "AM", "am":
		return ShiftTypeMorning, true
	case "EVENING", "evening", "PM", "pm":
		return ShiftTypeEvening, true
	case "WEEKEND", "weekend", "WKND", "wknd":
		return ShiftTypeWeekend, true
	case "DAY", "day":
		return ShiftTypeDay, true
	}
	return "", false
}
