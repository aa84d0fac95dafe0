package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shiftwise/scheduler/internal/domain"
	"github.com/shiftwise/scheduler/internal/scheduler"
)

func (h *Handler) SubmitPriority(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScheduleID  int64            `json:"scheduleId" validate:"required"`
		Station     string           `json:"station"`
		Preferences []domain.SlotKey `json:"preferences" validate:"required,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedule, err := h.repository.GetScheduleByID(req.ScheduleID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "schedule not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := scheduler.ValidateStation(schedule, req.Station); err != nil {
		h.failureResponse(w, r, err)
		return
	}
	preferences, err := scheduler.ValidatePreferences(schedule, req.Preferences)
	if err != nil {
		h.failureResponse(w, r, err)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	priority := &domain.Priority{
		ScheduleID:  schedule.ID,
		Submitter:   domain.UserRef{ID: myInfo.ID, Name: myInfo.Name, Email: myInfo.Email},
		Station:     req.Station,
		Preferences: preferences,
	}
	if err := h.repository.UpsertPriority(priority); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.notifyScheduleOwner(schedule, myInfo, req.Station)

	h.successResponse(w, r, "priority submitted", priority)
}

// notifyScheduleOwner emails the owner about a new submission. Best effort,
// the submission itself is already committed.
func (h *Handler) notifyScheduleOwner(schedule *domain.Schedule, submitter *domain.User, station string) {
	if schedule.OwnerID == submitter.ID {
		return
	}

	owner, err := h.repository.GetUserByID(schedule.OwnerID)
	if err != nil {
		slog.Error("failed to load schedule owner for notification", "scheduleId", schedule.ID, "error", err)
		return
	}

	msg := domain.NotificationMessage{
		Type: "priority_submitted",
		To:   owner.Email,
		Data: domain.PrioritySubmittedData{
			OwnerName:    owner.Name,
			EmployeeName: submitter.Name,
			ScheduleName: schedule.Name,
			Station:      station,
		},
	}
	if err := h.publishNotification(msg); err != nil {
		slog.Error("failed to publish priority notification", "scheduleId", schedule.ID, "error", err)
	}
}

func (h *Handler) GetSchedulePriorities(w http.ResponseWriter, r *http.Request) {
	scheduleIDParam := r.URL.Query().Get("scheduleId")
	scheduleID, err := strconv.ParseInt(scheduleIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid schedule id")
		return
	}

	schedule, err := h.repository.GetScheduleByID(scheduleID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "schedule not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	if schedule.OwnerID != myInfo.ID {
		h.errorResponse(w, r, "only the schedule owner may list priorities")
		return
	}

	priorities, err := h.repository.GetPrioritiesByScheduleID(scheduleID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "ok", priorities)
}

func (h *Handler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Station     *string          `json:"station"`
		Preferences []domain.SlotKey `json:"preferences" validate:"omitempty,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	priority := r.Context().Value(PriorityCtx).(*domain.Priority)

	schedule, err := h.repository.GetScheduleByID(priority.ScheduleID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if req.Station != nil {
		priority.Station = *req.Station
	}
	if req.Preferences != nil {
		priority.Preferences = req.Preferences
	}

	if err := scheduler.ValidateStation(schedule, priority.Station); err != nil {
		h.failureResponse(w, r, err)
		return
	}
	priority.Preferences, err = scheduler.ValidatePreferences(schedule, priority.Preferences)
	if err != nil {
		h.failureResponse(w, r, err)
		return
	}

	// Changing the station moves the record to another (user, schedule,
	// station) tuple; the swap is a single transaction so a failure never
	// drops the existing submission.
	if err := h.repository.ReplacePriority(priority.ID, priority); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "priority updated", priority)
}

func (h *Handler) DeletePriority(w http.ResponseWriter, r *http.Request) {
	priority := r.Context().Value(PriorityCtx).(*domain.Priority)

	if err := h.repository.DeletePriority(priority.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "priority deleted", nil)
}
