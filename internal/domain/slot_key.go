package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SlotKey identifies one (day, shift) cell of a schedule's grid. The wire
// form is "<Day>-<Shift>", e.g. "Monday-Morning"; everything past the
// boundary works with the parsed pair, never the raw string.
type SlotKey struct {
	Day   time.Weekday
	Shift string
}

var weekdaysByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday parses an English day name, case-insensitively.
func ParseWeekday(s string) (time.Weekday, error) {
	day, ok := weekdaysByName[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown day %q", s)
	}
	return day, nil
}

// ParseSlotKey parses the "<Day>-<Shift>" wire form. The day match is
// case-insensitive; the shift part is kept as provided and canonicalized
// later against the owning schedule's shift names.
func ParseSlotKey(s string) (SlotKey, error) {
	dayPart, shiftPart, found := strings.Cut(s, "-")
	if !found || shiftPart == "" {
		return SlotKey{}, fmt.Errorf("%w: malformed key %q", ErrInvalidPreference, s)
	}

	day, ok := weekdaysByName[strings.ToLower(strings.TrimSpace(dayPart))]
	if !ok {
		return SlotKey{}, fmt.Errorf("%w: unknown day %q", ErrInvalidPreference, dayPart)
	}

	return SlotKey{Day: day, Shift: strings.TrimSpace(shiftPart)}, nil
}

func (k SlotKey) String() string {
	return k.Day.String() + "-" + k.Shift
}

func (k SlotKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *SlotKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := ParseSlotKey(s)
	if err != nil {
		return err
	}

	*k = parsed
	return nil
}
