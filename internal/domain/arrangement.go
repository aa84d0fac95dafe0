package domain

import "time"

type Assignee struct {
	ID   int64  `json:"_id"`
	Name string `json:"name"`
}

// ArrangementSlot is one (day, shift, station) coordinate with its assigned
// employees. An empty Assignees list means the slot is vacant.
type ArrangementSlot struct {
	Day       time.Weekday `json:"day"`
	Shift     string       `json:"shift"`
	Station   int32        `json:"station"`
	Assignees []Assignee   `json:"assignees"`
}

// Arrangement is one generated work arrangement for a schedule. Arrangements
// are immutable: regeneration inserts a new build with a strictly higher
// BuildNumber and never touches prior ones.
type Arrangement struct {
	ID          int64             `json:"id"`
	ScheduleID  int64             `json:"scheduleId"`
	BuildNumber int64             `json:"buildNumber"`
	Slots       []ArrangementSlot `json:"slots"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// SlotMap flattens the arrangement into the client's
// "<Day>-<Shift>" -> assignees mapping. Stations sharing a cell are merged in
// station order; vacant cells are present with an empty array.
func (a *Arrangement) SlotMap() map[string][]Assignee {
	out := make(map[string][]Assignee, len(a.Slots))
	for _, slot := range a.Slots {
		key := SlotKey{Day: slot.Day, Shift: slot.Shift}.String()
		if _, exists := out[key]; !exists {
			out[key] = make([]Assignee, 0, len(slot.Assignees))
		}
		out[key] = append(out[key], slot.Assignees...)
	}
	return out
}
