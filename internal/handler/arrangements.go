package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/shiftwise/scheduler/internal/domain"
	"github.com/shiftwise/scheduler/internal/scheduler"
)

func (h *Handler) GenerateArrangement(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	grid, err := scheduler.BuildGrid(schedule)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidConfiguration):
			h.failureResponse(w, r, err)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	for _, warning := range grid.Warnings {
		slog.Warn("schedule configuration warning", "scheduleId", schedule.ID, "warning", warning)
	}

	params := scheduler.Parameters{
		SlotCapacity:        h.config.Scheduler.SlotCapacity,
		MaxSlotsPerEmployee: h.config.Scheduler.MaxSlotsPerEmployee,
	}

	arrangement, err := h.repository.BuildArrangement(
		schedule.ID,
		myInfo,
		h.config.Quota.FreeTierBuilds,
		func(priorities []*domain.Priority, buildNumber int64) (*domain.Arrangement, error) {
			return scheduler.New(params, grid, priorities).Assign()
		},
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrQuotaExceeded),
			errors.Is(err, domain.ErrNoSubmissions):
			h.failureResponse(w, r, err)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "arrangement generated", map[string]any{
		"arrangements": arrangement.SlotMap(),
		"buildNumber":  arrangement.BuildNumber,
	})
}

func (h *Handler) GetArrangement(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	arrangement, err := h.repository.GetLatestArrangementByScheduleID(schedule.ID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoArrangement):
			h.writeJSON(w, r, http.StatusNotFound, Response{
				Success: false,
				Message: err.Error(),
				Code:    domain.ErrorCode(err),
				Data:    nil,
			})
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "ok", map[string]any{
		"arrangements": arrangement.SlotMap(),
		"buildNumber":  arrangement.BuildNumber,
		"createdAt":    arrangement.CreatedAt,
	})
}
