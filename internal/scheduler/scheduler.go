package scheduler

import (
	"sort"
	"time"

	"github.com/shiftwise/scheduler/internal/domain"
)

// Parameters tune the assigner. Zero values of the caps mean unconstrained.
type Parameters struct {
	SlotCapacity        int // max assignees per slot
	MaxSlotsPerEmployee int // max slots one employee may hold per arrangement
}

type Scheduler struct {
	params     Parameters
	grid       *Grid
	priorities []*domain.Priority
}

func New(params Parameters, grid *Grid, priorities []*domain.Priority) *Scheduler {
	return &Scheduler{
		params:     params,
		grid:       grid,
		priorities: priorities,
	}
}

// candidate is one submission's claim on a slot.
type candidate struct {
	user        domain.UserRef
	station     int32 // 0 = eligible for any station
	submittedAt time.Time
}

// Assign produces a complete work arrangement covering every slot of the
// grid. The traversal follows grid order (day, shift, station) and candidate
// ranking is fully keyed — fewest assignments so far, then earliest
// submission, then lowest employee id — so two runs over the same inputs
// yield identical output. Slots nobody wants, or nobody may take, stay
// explicitly vacant.
func (s *Scheduler) Assign() (*domain.Arrangement, error) {
	if len(s.priorities) == 0 {
		return nil, domain.ErrNoSubmissions
	}

	// Demand aggregation: who listed each (day, shift) cell, and for which
	// station. Unscoped submissions claim every station.
	demand := make(map[domain.SlotKey][]candidate)
	for _, priority := range s.priorities {
		station, scoped := stationIndex(priority.Station)
		if !scoped {
			station = 0
		}
		for _, key := range priority.Preferences {
			demand[key] = append(demand[key], candidate{
				user:        priority.Submitter,
				station:     station,
				submittedAt: priority.CreatedAt,
			})
		}
	}

	assignedCount := make(map[int64]int)
	// Shifts each employee already holds per day, for overlap checks.
	booked := make(map[int64]map[time.Weekday][]string)

	slots := make([]domain.ArrangementSlot, 0, len(s.grid.Slots))

	for _, slot := range s.grid.Slots {
		all := demand[domain.SlotKey{Day: slot.Day, Shift: slot.Shift}]

		eligible := make([]candidate, 0, len(all))
		seen := make(map[int64]bool, len(all))
		for _, cand := range all {
			if cand.station != 0 && cand.station != slot.Station {
				continue
			}
			if seen[cand.user.ID] {
				// The same employee may match via several submissions
				// (one per station); one claim per slot is enough.
				continue
			}
			seen[cand.user.ID] = true
			if s.params.MaxSlotsPerEmployee > 0 && assignedCount[cand.user.ID] >= s.params.MaxSlotsPerEmployee {
				continue
			}
			if s.isDoubleBooked(booked[cand.user.ID], slot) {
				continue
			}
			eligible = append(eligible, cand)
		}

		sort.SliceStable(eligible, func(i, j int) bool {
			ci, cj := eligible[i], eligible[j]
			if assignedCount[ci.user.ID] != assignedCount[cj.user.ID] {
				return assignedCount[ci.user.ID] < assignedCount[cj.user.ID]
			}
			if !ci.submittedAt.Equal(cj.submittedAt) {
				return ci.submittedAt.Before(cj.submittedAt)
			}
			return ci.user.ID < cj.user.ID
		})

		if s.params.SlotCapacity > 0 && len(eligible) > s.params.SlotCapacity {
			eligible = eligible[:s.params.SlotCapacity]
		}

		assignees := make([]domain.Assignee, 0, len(eligible))
		for _, cand := range eligible {
			assignees = append(assignees, domain.Assignee{ID: cand.user.ID, Name: cand.user.Name})
			assignedCount[cand.user.ID]++
			if booked[cand.user.ID] == nil {
				booked[cand.user.ID] = make(map[time.Weekday][]string)
			}
			booked[cand.user.ID][slot.Day] = append(booked[cand.user.ID][slot.Day], slot.Shift)
		}

		slots = append(slots, domain.ArrangementSlot{
			Day:       slot.Day,
			Shift:     slot.Shift,
			Station:   slot.Station,
			Assignees: assignees,
		})
	}

	return &domain.Arrangement{Slots: slots}, nil
}

func (s *Scheduler) isDoubleBooked(dayShifts map[time.Weekday][]string, slot Slot) bool {
	for _, held := range dayShifts[slot.Day] {
		if s.grid.ShiftsOverlap(held, slot.Shift) {
			return true
		}
	}
	return false
}
