package domain

import (
	"strings"
	"time"
)

// ShiftSetting is one named shift of a schedule. Times are "15:04" strings
// and may wrap past midnight (e.g. Night 23:00-07:00).
type ShiftSetting struct {
	Name      string `json:"name"`
	Enabled   bool   `json:"checked"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type Deadline struct {
	Enabled bool   `json:"enabled"`
	Day     string `json:"day,omitempty"`
	Time    string `json:"time,omitempty"`
}

type Schedule struct {
	ID        int64          `json:"id"`
	OwnerID   int64          `json:"ownerId"`
	Name      string         `json:"name"`
	Stations  int32          `json:"stations"`
	Days      []time.Weekday `json:"days"`
	Shifts    []ShiftSetting `json:"shifts"`
	Deadline  Deadline       `json:"deadline"`
	CreatedAt time.Time      `json:"createdAt"`
	Version   int32          `json:"-"`
}

// DefaultShifts returns the three-shift configuration new schedules start
// with, matching what the client shows before the owner edits settings.
func DefaultShifts() []ShiftSetting {
	return []ShiftSetting{
		{Name: "Morning", Enabled: true, StartTime: "07:00", EndTime: "15:00"},
		{Name: "Afternoon", Enabled: true, StartTime: "15:00", EndTime: "23:00"},
		{Name: "Night", Enabled: true, StartTime: "23:00", EndTime: "07:00"},
	}
}

// DefaultDays returns the full week, Sunday first. Slot ordering depends on
// this order staying fixed.
func DefaultDays() []time.Weekday {
	return []time.Weekday{
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	}
}

func (s *Schedule) EnabledShifts() []ShiftSetting {
	enabled := make([]ShiftSetting, 0, len(s.Shifts))
	for _, shift := range s.Shifts {
		if shift.Enabled {
			enabled = append(enabled, shift)
		}
	}
	return enabled
}

// ShiftByName looks a shift up case-insensitively and returns the stored
// setting, whose Name is the canonical spelling used in slot keys.
func (s *Schedule) ShiftByName(name string) (ShiftSetting, bool) {
	for _, shift := range s.Shifts {
		if strings.EqualFold(shift.Name, name) {
			return shift, true
		}
	}
	return ShiftSetting{}, false
}

func (s *Schedule) HasDay(day time.Weekday) bool {
	for _, d := range s.Days {
		if d == day {
			return true
		}
	}
	return false
}
