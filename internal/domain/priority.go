package domain

import "time"

// Priority is one employee's preference submission for a schedule, optionally
// scoped to a station. Resubmission overwrites the previous record for the
// same (submitter, schedule, station) tuple.
type Priority struct {
	ID          int64     `json:"id"`
	ScheduleID  int64     `json:"scheduleId"`
	Submitter   UserRef   `json:"userId"`
	Station     string    `json:"station,omitempty"`
	Preferences []SlotKey `json:"preferences"`
	CreatedAt   time.Time `json:"createdAt"`
	Version     int32     `json:"-"`
}
