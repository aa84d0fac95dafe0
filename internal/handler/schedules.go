package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/shiftwise/scheduler/internal/domain"
)

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string                `json:"name" validate:"required,max=64"`
		Stations *int32                `json:"stations" validate:"omitempty,min=1,max=32"`
		Days     []time.Weekday        `json:"days" validate:"omitempty,dive,min=0,max=6"`
		Shifts   []domain.ShiftSetting `json:"shifts"`
		Deadline *domain.Deadline      `json:"deadline"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	schedule := &domain.Schedule{
		OwnerID:  myInfo.ID,
		Name:     req.Name,
		Stations: 1,
		Days:     domain.DefaultDays(),
		Shifts:   domain.DefaultShifts(),
	}
	if req.Stations != nil {
		schedule.Stations = *req.Stations
	}
	if len(req.Days) > 0 {
		schedule.Days = req.Days
	}
	if len(req.Shifts) > 0 {
		schedule.Shifts = req.Shifts
	}
	if req.Deadline != nil {
		schedule.Deadline = *req.Deadline
	}

	if len(schedule.EnabledShifts()) == 0 {
		h.errorResponse(w, r, "at least one shift must be enabled")
		return
	}

	if err := h.repository.CreateSchedule(schedule); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "schedule created", schedule)
}

func (h *Handler) GetMySchedules(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	schedules, err := h.repository.GetSchedulesByOwnerID(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "ok", schedules)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)
	h.successResponse(w, r, "ok", schedule)
}

func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     *string                `json:"name" validate:"omitempty,max=64"`
		Stations *int32                 `json:"stations" validate:"omitempty,min=1,max=32"`
		Days     *[]time.Weekday        `json:"days" validate:"omitempty,dive,min=0,max=6"`
		Shifts   *[]domain.ShiftSetting `json:"shifts"`
		Deadline *domain.Deadline       `json:"deadline"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	if req.Name != nil {
		schedule.Name = *req.Name
	}
	if req.Stations != nil {
		schedule.Stations = *req.Stations
	}
	if req.Days != nil {
		schedule.Days = *req.Days
	}
	if req.Shifts != nil {
		schedule.Shifts = *req.Shifts
	}
	if req.Deadline != nil {
		schedule.Deadline = *req.Deadline
	}

	if len(schedule.EnabledShifts()) == 0 {
		h.errorResponse(w, r, "at least one shift must be enabled")
		return
	}

	if err := h.repository.UpdateSchedule(schedule); err != nil {
		switch {
		case errors.Is(err, domain.ErrConcurrencyConflict):
			h.failureResponse(w, r, err)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "schedule updated", schedule)
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	if err := h.repository.DeleteSchedule(schedule.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "schedule deleted", nil)
}
