package scheduler

import (
	"fmt"
	"time"

	"github.com/shiftwise/scheduler/internal/domain"
)

// Slot is one (day, shift, station) coordinate of a schedule's grid.
type Slot struct {
	Day     time.Weekday
	Shift   string
	Station int32
}

// Grid is the authoritative coordinate space for one schedule: configured
// days × enabled shifts × stations 1..N, in that traversal order. The order
// is stable across calls for the same settings, so slot keys are
// deterministic and arrangement diffs stay meaningful across builds.
type Grid struct {
	Slots    []Slot
	Warnings []string

	intervals map[string]shiftInterval
}

// shiftInterval is a shift's time range in minutes since midnight. A range
// whose end is not after its start wraps past midnight.
type shiftInterval struct {
	start int
	end   int
}

const minutesPerDay = 24 * 60

func parseShiftTime(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("bad time %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// segments splits the interval into non-wrapping [start, end) pieces.
func (iv shiftInterval) segments() [][2]int {
	if iv.start < iv.end {
		return [][2]int{{iv.start, iv.end}}
	}
	return [][2]int{{iv.start, minutesPerDay}, {0, iv.end}}
}

func (iv shiftInterval) overlaps(other shiftInterval) bool {
	for _, a := range iv.segments() {
		for _, b := range other.segments() {
			if a[0] < b[1] && b[0] < a[1] {
				return true
			}
		}
	}
	return false
}

// scheduleDays returns the schedule's configured days, falling back to the
// full Sunday-first week for schedules created before days were configurable.
func scheduleDays(s *domain.Schedule) []time.Weekday {
	if len(s.Days) > 0 {
		return s.Days
	}
	return domain.DefaultDays()
}

// BuildGrid computes the slot grid for a schedule from its persisted
// settings. It fails with ErrInvalidConfiguration when no shift is enabled or
// the station count is not positive. Overlapping enabled shifts are legal but
// reported as warnings on the grid.
func BuildGrid(s *domain.Schedule) (*Grid, error) {
	if s.Stations < 1 {
		return nil, fmt.Errorf("%w: station count must be positive, got %d", domain.ErrInvalidConfiguration, s.Stations)
	}

	enabled := s.EnabledShifts()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("%w: no enabled shifts", domain.ErrInvalidConfiguration)
	}

	grid := &Grid{
		intervals: make(map[string]shiftInterval, len(enabled)),
	}

	for _, shift := range enabled {
		start, err := parseShiftTime(shift.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: shift %q: %s", domain.ErrInvalidConfiguration, shift.Name, err)
		}
		end, err := parseShiftTime(shift.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: shift %q: %s", domain.ErrInvalidConfiguration, shift.Name, err)
		}
		grid.intervals[shift.Name] = shiftInterval{start: start, end: end}
	}

	for i := 0; i < len(enabled); i++ {
		for j := i + 1; j < len(enabled); j++ {
			if grid.intervals[enabled[i].Name].overlaps(grid.intervals[enabled[j].Name]) {
				grid.Warnings = append(grid.Warnings, fmt.Sprintf("shifts %q and %q overlap", enabled[i].Name, enabled[j].Name))
			}
		}
	}

	days := scheduleDays(s)
	grid.Slots = make([]Slot, 0, len(days)*len(enabled)*int(s.Stations))
	for _, day := range days {
		for _, shift := range enabled {
			for station := int32(1); station <= s.Stations; station++ {
				grid.Slots = append(grid.Slots, Slot{Day: day, Shift: shift.Name, Station: station})
			}
		}
	}

	return grid, nil
}

// ShiftsOverlap reports whether two enabled shifts share any minute of the
// day, wrap-aware. A shift always overlaps itself.
func (g *Grid) ShiftsOverlap(a, b string) bool {
	ivA, okA := g.intervals[a]
	ivB, okB := g.intervals[b]
	if !okA || !okB {
		return false
	}
	return ivA.overlaps(ivB)
}
