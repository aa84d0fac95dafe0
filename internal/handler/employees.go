package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shiftwise/scheduler/internal/domain"
)

func (h *Handler) GetScheduleEmployees(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	employees, err := h.repository.GetEmployeesByScheduleID(schedule.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "ok", employees)
}

func (h *Handler) AddScheduleEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name" validate:"required,max=64"`
		Email string `json:"email" validate:"required,email"`
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
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	employee := &domain.ScheduleEmployee{
		ScheduleID: schedule.ID,
		Name:       req.Name,
		Email:      req.Email,
	}
	if err := h.repository.AddScheduleEmployee(employee); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// Invitation email, best effort.
	msg := domain.NotificationMessage{
		Type: "employee_invited",
		To:   employee.Email,
		Data: domain.EmployeeInvitedData{
			InviteeName:  employee.Name,
			InviterName:  myInfo.Name,
			ScheduleName: schedule.Name,
		},
	}
	if err := h.publishNotification(msg); err != nil {
		slog.Error("failed to publish invitation", "scheduleId", schedule.ID, "error", err)
	}

	h.successResponse(w, r, "employee added", employee)
}

func (h *Handler) DeleteScheduleEmployee(w http.ResponseWriter, r *http.Request) {
	employeeIDParam := chi.URLParam(r, "employeeID")
	employeeID, err := strconv.ParseInt(employeeIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid employee id")
		return
	}

	employee, err := h.repository.GetScheduleEmployeeByID(employeeID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "employee not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// Only the owner of the employee's schedule may remove them.
	schedule, err := h.repository.GetScheduleByID(employee.ScheduleID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	if schedule.OwnerID != myInfo.ID {
		h.errorResponse(w, r, "only the schedule owner may do this")
		return
	}

	if err := h.repository.DeleteScheduleEmployee(employeeID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "employee removed", nil)
}
