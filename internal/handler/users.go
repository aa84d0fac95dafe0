package handler

import (
	"errors"
	"net/http"

	"github.com/shiftwise/scheduler/internal/domain"
)

func (h *Handler) GetBuildCount(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	count, err := h.repository.GetBuildCount(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "ok", map[string]any{
		"count": count,
		"limit": h.config.Quota.FreeTierBuilds,
		"plan":  myInfo.Plan,
	})
}

func (h *Handler) IncrementBuildCount(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	// Premium accounts are not metered.
	if myInfo.Plan == domain.PlanPremium {
		h.successResponse(w, r, "ok", map[string]any{"count": 0})
		return
	}

	count, err := h.repository.IncrementBuildCount(myInfo.ID, h.config.Quota.FreeTierBuilds)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrQuotaExceeded):
			h.failureResponse(w, r, err)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "ok", map[string]any{"count": count})
}
