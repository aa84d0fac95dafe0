package scheduler

import (
	"testing"
	"time"

	"github.com/shiftwise/scheduler/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var submissionBase = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func priorityFor(userID int64, name string, station string, minutesAfterBase int, keys ...domain.SlotKey) *domain.Priority {
	return &domain.Priority{
		ID:          userID,
		ScheduleID:  1,
		Submitter:   domain.UserRef{ID: userID, Name: name},
		Station:     station,
		Preferences: keys,
		CreatedAt:   submissionBase.Add(time.Duration(minutesAfterBase) * time.Minute),
	}
}

func mustGrid(t *testing.T, schedule *domain.Schedule) *Grid {
	t.Helper()
	grid, err := BuildGrid(schedule)
	require.NoError(t, err)
	return grid
}

func assigneesAt(t *testing.T, a *domain.Arrangement, day time.Weekday, shift string, station int32) []domain.Assignee {
	t.Helper()
	for _, slot := range a.Slots {
		if slot.Day == day && slot.Shift == shift && slot.Station == station {
			return slot.Assignees
		}
	}
	t.Fatalf("no slot %v %s station %d", day, shift, station)
	return nil
}

func TestAssignFailsWithoutSubmissions(t *testing.T) {
	grid := mustGrid(t, defaultSchedule())

	_, err := New(Parameters{SlotCapacity: 1}, grid, nil).Assign()
	assert.ErrorIs(t, err, domain.ErrNoSubmissions)
}

func TestAssignIsDeterministic(t *testing.T) {
	grid := mustGrid(t, defaultSchedule())
	priorities := []*domain.Priority{
		priorityFor(1, "Alice Baker", "", 0,
			domain.SlotKey{Day: time.Monday, Shift: "Morning"},
			domain.SlotKey{Day: time.Tuesday, Shift: "Afternoon"},
		),
		priorityFor(2, "Ben Clark", "station2", 5,
			domain.SlotKey{Day: time.Monday, Shift: "Morning"},
		),
		priorityFor(3, "Carol Davis", "", 10,
			domain.SlotKey{Day: time.Monday, Shift: "Morning"},
			domain.SlotKey{Day: time.Tuesday, Shift: "Afternoon"},
		),
	}

	params := Parameters{SlotCapacity: 1}
	first, err := New(params, grid, priorities).Assign()
	require.NoError(t, err)
	second, err := New(params, grid, priorities).Assign()
	require.NoError(t, err)

	assert.Equal(t, first.Slots, second.Slots)
}

func TestAssignCoversEverySlot(t *testing.T) {
	grid := mustGrid(t, defaultSchedule())
	priorities := []*domain.Priority{
		priorityFor(1, "Alice Baker", "", 0, domain.SlotKey{Day: time.Monday, Shift: "Morning"}),
	}

	arrangement, err := New(Parameters{SlotCapacity: 1}, grid, priorities).Assign()
	require.NoError(t, err)

	// One slot per grid coordinate, unwanted ones explicitly vacant.
	require.Len(t, arrangement.Slots, len(grid.Slots))
	for _, slot := range arrangement.Slots {
		require.NotNil(t, slot.Assignees)
	}
	assert.Empty(t, assigneesAt(t, arrangement, time.Friday, "Night", 1))
}

func TestAssignEarlierSubmissionWinsContestedSlot(t *testing.T) {
	grid := mustGrid(t, defaultSchedule())
	want := domain.SlotKey{Day: time.Monday, Shift: "Morning"}
	priorities := []*domain.Priority{
		priorityFor(2, "Ben Clark", "station1", 30, want),
		priorityFor(1, "Alice Baker", "station1", 0, want),
	}

	arrangement, err := New(Parameters{SlotCapacity: 1}, grid, priorities).Assign()
	require.NoError(t, err)

	got := assigneesAt(t, arrangement, time.Monday, "Morning", 1)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestAssignPrefersLessLoadedEmployee(t *testing.T) {
	grid := mustGrid(t, defaultSchedule())
	priorities := []*domain.Priority{
		// Alice submitted first and wants both Monday shifts.
		priorityFor(1, "Alice Baker", "station1", 0,
			domain.SlotKey{Day: time.Monday, Shift: "Morning"},
			domain.SlotKey{Day: time.Monday, Shift: "Afternoon"},
		),
		// Ben only wants the afternoon.
		priorityFor(2, "Ben Clark", "station1", 30,
			domain.SlotKey{Day: time.Monday, Shift: "Afternoon"},
		),
	}

	arrangement, err := New(Parameters{SlotCapacity: 1}, grid, priorities).Assign()
	require.NoError(t, err)

	morning := assigneesAt(t, arrangement, time.Monday, "Morning", 1)
	require.Len(t, morning, 1)
	assert.Equal(t, int64(1), morning[0].ID)

	// Alice already holds the morning, so the afternoon goes to Ben even
	// though Alice submitted earlier.
	afternoon := assigneesAt(t, arrangement, time.Monday, "Afternoon", 1)
	require.Len(t, afternoon, 1)
	assert.Equal(t, int64(2), afternoon[0].ID)
}

func TestAssignTieBreaksOnUserID(t *testing.T) {
	grid := mustGrid(t, defaultSchedule())
	want := domain.SlotKey{Day: time.Wednesday, Shift: "Night"}
	priorities := []*domain.Priority{
		priorityFor(9, "Ruth Shaw", "station1", 0, want),
		priorityFor(4, "David Evans", "station1", 0, want),
	}

	arrangement, err := New(Parameters{SlotCapacity: 1}, grid, priorities).Assign()
	require.NoError(t, err)

	got := assigneesAt(t, arrangement, time.Wednesday, "Night", 1)
	require.Len(t, got, 1)
	assert.Equal(t, int64(4), got[0].ID)
}

func TestAssignRespectsStationScope(t *testing.T) {
	grid := mustGrid(t, defaultSchedule())
	want := domain.SlotKey{Day: time.Monday, Shift: "Morning"}
	priorities := []*domain.Priority{
		priorityFor(1, "Alice Baker", "station2", 0, want),
	}

	arrangement, err := New(Parameters{SlotCapacity: 1}, grid, priorities).Assign()
	require.NoError(t, err)

	assert.Empty(t, assigneesAt(t, arrangement, time.Monday, "Morning", 1))
	got := assigneesAt(t, arrangement, time.Monday, "Morning", 2)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestAssignUnscopedSubmissionTakesAnyStation(t *testing.T) {
	grid := mustGrid(t, defaultSchedule())
	want := domain.SlotKey{Day: time.Monday, Shift: "Afternoon"}
	priorities := []*domain.Priority{
		priorityFor(1, "Alice Baker", "station1", 0, want),
		priorityFor(2, "Ben Clark", "", 10, want),
	}

	arrangement, err := New(Parameters{SlotCapacity: 1}, grid, priorities).Assign()
	require.NoError(t, err)

	station1 := assigneesAt(t, arrangement, time.Monday, "Afternoon", 1)
	require.Len(t, station1, 1)
	assert.Equal(t, int64(1), station1[0].ID)

	station2 := assigneesAt(t, arrangement, time.Monday, "Afternoon", 2)
	require.Len(t, station2, 1)
	assert.Equal(t, int64(2), station2[0].ID)
}

func TestAssignNeverDoubleBooksAcrossStations(t *testing.T) {
	grid := mustGrid(t, defaultSchedule())
	want := domain.SlotKey{Day: time.Monday, Shift: "Night"}
	priorities := []*domain.Priority{
		priorityFor(1, "Alice Baker", "", 0, want),
	}

	arrangement, err := New(Parameters{SlotCapacity: 1}, grid, priorities).Assign()
	require.NoError(t, err)

	// A shift overlaps itself, so Alice gets exactly one of the two
	// stations for Monday Night.
	station1 := assigneesAt(t, arrangement, time.Monday, "Night", 1)
	station2 := assigneesAt(t, arrangement, time.Monday, "Night", 2)
	assert.Len(t, station1, 1)
	assert.Empty(t, station2)
}

func TestAssignNeverDoubleBooksOverlappingShifts(t *testing.T) {
	schedule := defaultSchedule()
	schedule.Stations = 1
	schedule.Shifts = []domain.ShiftSetting{
		{Name: "Evening", Enabled: true, StartTime: "18:00", EndTime: "01:00"},
		{Name: "Night", Enabled: true, StartTime: "23:00", EndTime: "07:00"},
	}
	grid := mustGrid(t, schedule)

	priorities := []*domain.Priority{
		priorityFor(1, "Alice Baker", "", 0,
			domain.SlotKey{Day: time.Friday, Shift: "Evening"},
			domain.SlotKey{Day: time.Friday, Shift: "Night"},
		),
	}

	arrangement, err := New(Parameters{SlotCapacity: 1}, grid, priorities).Assign()
	require.NoError(t, err)

	// Evening comes first in grid order, Night overlaps it past midnight.
	evening := assigneesAt(t, arrangement, time.Friday, "Evening", 1)
	require.Len(t, evening, 1)
	assert.Empty(t, assigneesAt(t, arrangement, time.Friday, "Night", 1))
}

func TestAssignHonorsMaxSlotsPerEmployee(t *testing.T) {
	grid := mustGrid(t, defaultSchedule())
	priorities := []*domain.Priority{
		priorityFor(1, "Alice Baker", "station1", 0,
			domain.SlotKey{Day: time.Monday, Shift: "Morning"},
			domain.SlotKey{Day: time.Tuesday, Shift: "Morning"},
			domain.SlotKey{Day: time.Wednesday, Shift: "Morning"},
		),
	}

	arrangement, err := New(Parameters{SlotCapacity: 1, MaxSlotsPerEmployee: 2}, grid, priorities).Assign()
	require.NoError(t, err)

	total := 0
	for _, slot := range arrangement.Slots {
		total += len(slot.Assignees)
	}
	assert.Equal(t, 2, total)
	// Grid order decides which preferences stick.
	assert.Len(t, assigneesAt(t, arrangement, time.Monday, "Morning", 1), 1)
	assert.Len(t, assigneesAt(t, arrangement, time.Tuesday, "Morning", 1), 1)
	assert.Empty(t, assigneesAt(t, arrangement, time.Wednesday, "Morning", 1))
}

func TestAssignSlotCapacityAboveOne(t *testing.T) {
	grid := mustGrid(t, defaultSchedule())
	want := domain.SlotKey{Day: time.Thursday, Shift: "Morning"}
	priorities := []*domain.Priority{
		priorityFor(1, "Alice Baker", "station1", 0, want),
		priorityFor(2, "Ben Clark", "station1", 5, want),
		priorityFor(3, "Carol Davis", "station1", 10, want),
	}

	arrangement, err := New(Parameters{SlotCapacity: 2}, grid, priorities).Assign()
	require.NoError(t, err)

	got := assigneesAt(t, arrangement, time.Thursday, "Morning", 1)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
}

func TestAssignSundayThroughThursdayWeek(t *testing.T) {
	// One station, Morning and Night only, working week Sunday-Thursday.
	schedule := defaultSchedule()
	schedule.Stations = 1
	schedule.Days = []time.Weekday{
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	}
	schedule.Shifts = []domain.ShiftSetting{
		{Name: "Morning", Enabled: true, StartTime: "07:00", EndTime: "15:00"},
		{Name: "Night", Enabled: true, StartTime: "23:00", EndTime: "07:00"},
	}
	grid := mustGrid(t, schedule)
	require.Len(t, grid.Slots, 10)

	priorities := []*domain.Priority{
		priorityFor(1, "Alice Baker", "", 0,
			domain.SlotKey{Day: time.Sunday, Shift: "Morning"},
			domain.SlotKey{Day: time.Monday, Shift: "Morning"},
		),
		priorityFor(2, "Ben Clark", "", 10,
			domain.SlotKey{Day: time.Sunday, Shift: "Morning"},
		),
	}

	arrangement, err := New(Parameters{SlotCapacity: 1}, grid, priorities).Assign()
	require.NoError(t, err)

	// Sunday Morning is contested; Alice submitted first and both are
	// unloaded, so she takes it. Monday Morning has Alice as the only
	// candidate and she is not at any cap.
	sunday := assigneesAt(t, arrangement, time.Sunday, "Morning", 1)
	require.Len(t, sunday, 1)
	assert.Equal(t, int64(1), sunday[0].ID)

	monday := assigneesAt(t, arrangement, time.Monday, "Morning", 1)
	require.Len(t, monday, 1)
	assert.Equal(t, int64(1), monday[0].ID)

	// Every other slot stays vacant.
	total := 0
	for _, slot := range arrangement.Slots {
		total += len(slot.Assignees)
	}
	assert.Equal(t, 2, total)
}

func TestAssignTwoEmployeesSharedPreference(t *testing.T) {
	// Both want Monday Morning on a single-station schedule; one of them
	// also listed a fallback. Everyone ends up with exactly one slot.
	schedule := defaultSchedule()
	schedule.Stations = 1
	grid := mustGrid(t, schedule)

	priorities := []*domain.Priority{
		priorityFor(1, "Alice Baker", "", 0,
			domain.SlotKey{Day: time.Monday, Shift: "Morning"},
		),
		priorityFor(2, "Ben Clark", "", 10,
			domain.SlotKey{Day: time.Monday, Shift: "Morning"},
			domain.SlotKey{Day: time.Monday, Shift: "Afternoon"},
		),
	}

	arrangement, err := New(Parameters{SlotCapacity: 1}, grid, priorities).Assign()
	require.NoError(t, err)

	morning := assigneesAt(t, arrangement, time.Monday, "Morning", 1)
	require.Len(t, morning, 1)
	assert.Equal(t, int64(1), morning[0].ID)

	afternoon := assigneesAt(t, arrangement, time.Monday, "Afternoon", 1)
	require.Len(t, afternoon, 1)
	assert.Equal(t, int64(2), afternoon[0].ID)
}
