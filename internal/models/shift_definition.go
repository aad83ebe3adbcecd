package models

// ShiftDefinition carries the per-region shift metadata (working hours, label).
// Cross-timezone optimization is out of scope: the lookup is per region only.
type ShiftDefinition struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Region    string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_region_shift" json:"region"`
	ShiftType ShiftType `gorm:"type:varchar(20);not null;uniqueIndex:idx_region_shift" json:"shift_type"`
	Label     string    `gorm:"not null" json:"label"`
	StartHour int       `gorm:"not null;check:start_hour >= 0 AND start_hour <= 23" json:"start_hour"`
	EndHour   int       `gorm:"not null;check:end_hour >= 0 AND end_hour <= 23" json:"end_hour"`
}

func (ShiftDefinition) TableName() string {
	return "shift_definitions"
}

// IsValid checks validity of the definition data
func (sd *ShiftDefinition) IsValid() bool {
	if sd.Region == "" {
		return false
	}
	if !sd.ShiftType.IsValid() {
		return false
	}
	if sd.StartHour < 0 || sd.StartHour > 23 {
		return false
	}
	if sd.EndHour < 0 || sd.EndHour > 23 {
		return false
	}
	return true
}

// DefaultShiftDefinitions returns the seed rows for a region that has no
// definitions yet. Hours follow the AMR rotations.
func DefaultShiftDefinitions(region string) []ShiftDefinition {
	return []ShiftDefinition{
		{Region: region, ShiftType: ShiftTypeMorning, Label: region + " AM Analysts", StartHour: 6, EndHour: 14},
		{Region: region, ShiftType: ShiftTypeEvening, Label: region + " PM Analysts", StartHour: 14, EndHour: 22},
		{Region: region, ShiftType: ShiftTypeWeekend, Label: region + " Weekend Duty", StartHour: 9, EndHour: 17},
	}
}
