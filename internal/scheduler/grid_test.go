package scheduler

import (
	"testing"
	"time"

	"github.com/shiftwise/scheduler/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultSchedule() *domain.Schedule {
	return &domain.Schedule{
		ID:       1,
		OwnerID:  1,
		Name:     "Test",
		Stations: 2,
		Days:     domain.DefaultDays(),
		Shifts:   domain.DefaultShifts(),
	}
}

func TestBuildGridSlotCountAndOrder(t *testing.T) {
	grid, err := BuildGrid(defaultSchedule())
	require.NoError(t, err)

	// 7 days x 3 shifts x 2 stations
	require.Len(t, grid.Slots, 42)

	// Traversal order is day, then shift, then station.
	assert.Equal(t, Slot{Day: time.Sunday, Shift: "Morning", Station: 1}, grid.Slots[0])
	assert.Equal(t, Slot{Day: time.Sunday, Shift: "Morning", Station: 2}, grid.Slots[1])
	assert.Equal(t, Slot{Day: time.Sunday, Shift: "Afternoon", Station: 1}, grid.Slots[2])
	assert.Equal(t, Slot{Day: time.Monday, Shift: "Morning", Station: 1}, grid.Slots[6])
}

func TestBuildGridSkipsDisabledShifts(t *testing.T) {
	schedule := defaultSchedule()
	schedule.Shifts[2].Enabled = false // Night

	grid, err := BuildGrid(schedule)
	require.NoError(t, err)
	require.Len(t, grid.Slots, 28)
	for _, slot := range grid.Slots {
		assert.NotEqual(t, "Night", slot.Shift)
	}
}

func TestBuildGridDeterministic(t *testing.T) {
	first, err := BuildGrid(defaultSchedule())
	require.NoError(t, err)
	second, err := BuildGrid(defaultSchedule())
	require.NoError(t, err)
	assert.Equal(t, first.Slots, second.Slots)
}

func TestBuildGridRejectsNoEnabledShifts(t *testing.T) {
	schedule := defaultSchedule()
	for i := range schedule.Shifts {
		schedule.Shifts[i].Enabled = false
	}

	_, err := BuildGrid(schedule)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestBuildGridRejectsNonPositiveStations(t *testing.T) {
	schedule := defaultSchedule()
	schedule.Stations = 0

	_, err := BuildGrid(schedule)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestBuildGridRejectsUnparseableTimes(t *testing.T) {
	schedule := defaultSchedule()
	schedule.Shifts[0].StartTime = "7am"

	_, err := BuildGrid(schedule)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestBuildGridFallsBackToFullWeek(t *testing.T) {
	schedule := defaultSchedule()
	schedule.Days = nil

	grid, err := BuildGrid(schedule)
	require.NoError(t, err)
	assert.Len(t, grid.Slots, 42)
}

func TestBuildGridDefaultShiftsDoNotWarn(t *testing.T) {
	grid, err := BuildGrid(defaultSchedule())
	require.NoError(t, err)
	assert.Empty(t, grid.Warnings)
}

func TestBuildGridWarnsOnOverlap(t *testing.T) {
	schedule := defaultSchedule()
	schedule.Shifts = []domain.ShiftSetting{
		{Name: "Evening", Enabled: true, StartTime: "18:00", EndTime: "01:00"},
		{Name: "Night", Enabled: true, StartTime: "23:00", EndTime: "07:00"},
	}

	grid, err := BuildGrid(schedule)
	require.NoError(t, err)
	// Overlap is legal, just reported.
	require.Len(t, grid.Warnings, 1)
	assert.Contains(t, grid.Warnings[0], "Evening")
	assert.Contains(t, grid.Warnings[0], "Night")
}

func TestShiftsOverlapWrapAware(t *testing.T) {
	schedule := defaultSchedule()
	schedule.Shifts = append(schedule.Shifts, domain.ShiftSetting{
		Name: "Graveyard", Enabled: true, StartTime: "22:00", EndTime: "02:00",
	})

	grid, err := BuildGrid(schedule)
	require.NoError(t, err)

	// Night (23:00-07:00) wraps; Graveyard (22:00-02:00) wraps too and
	// shares the 23:00-02:00 stretch with it.
	assert.True(t, grid.ShiftsOverlap("Night", "Graveyard"))
	assert.True(t, grid.ShiftsOverlap("Night", "Night"))
	assert.False(t, grid.ShiftsOverlap("Graveyard", "Morning"))
	assert.False(t, grid.ShiftsOverlap("Morning", "Afternoon"))
	assert.False(t, grid.ShiftsOverlap("Night", "Afternoon"))
}
