package scheduler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shiftwise/scheduler/internal/domain"
)

// ValidatePreferences checks every preference key against the schedule's
// configured days and currently enabled shifts, and returns the keys with
// shift names canonicalized to the schedule's stored spelling. Duplicates are
// collapsed, first occurrence wins.
func ValidatePreferences(schedule *domain.Schedule, keys []domain.SlotKey) ([]domain.SlotKey, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: at least one preference is required", domain.ErrInvalidPreference)
	}

	days := scheduleDays(schedule)
	dayAllowed := make(map[string]bool, len(days))
	for _, day := range days {
		dayAllowed[day.String()] = true
	}

	seen := make(map[domain.SlotKey]bool, len(keys))
	canonical := make([]domain.SlotKey, 0, len(keys))

	for _, key := range keys {
		if !dayAllowed[key.Day.String()] {
			return nil, fmt.Errorf("%w: %s is not one of the schedule's days", domain.ErrInvalidPreference, key.Day)
		}

		shift, ok := schedule.ShiftByName(key.Shift)
		if !ok {
			return nil, fmt.Errorf("%w: unknown shift %q", domain.ErrInvalidPreference, key.Shift)
		}
		if !shift.Enabled {
			return nil, fmt.Errorf("%w: shift %q is disabled", domain.ErrInvalidPreference, shift.Name)
		}

		k := domain.SlotKey{Day: key.Day, Shift: shift.Name}
		if seen[k] {
			continue
		}
		seen[k] = true
		canonical = append(canonical, k)
	}

	return canonical, nil
}

// ValidateStation rejects station labels that name a station the schedule
// does not have. Labels that are not of the "station<N>" form are free-form
// and accepted as-is.
func ValidateStation(schedule *domain.Schedule, station string) error {
	n, ok := stationIndex(station)
	if ok && (n < 1 || n > schedule.Stations) {
		return fmt.Errorf("%w: schedule has %d stations, got %q", domain.ErrInvalidPreference, schedule.Stations, station)
	}
	return nil
}

// stationIndex maps the client's "station<N>" labels onto a station number.
func stationIndex(label string) (int32, bool) {
	rest, found := strings.CutPrefix(strings.ToLower(label), "station")
	if !found || rest == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(rest, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}
