package handler

import (
	"net/http"
	"time"

	"schedule-agent/internal/delivery/dto"
	"schedule-agent/internal/domain/entity"
	"schedule-agent/internal/usecase"
	"schedule-agent/pkg/response"
)

type AvailabilityHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
}

func NewAvailabilityHandler(availabilityUsecase usecase.AvailabilityUsecase) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
	}
}

// GetAvailability returns the open days and free slots of the scan window.
// Query params: date (YYYY-MM-DD, optional, defaults to today) and service.
func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	var anchor *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
			return
		}
		anchor = &parsed
	}

	svc := entity.Service(r.URL.Query().Get("service"))

	days, err := h.availabilityUsecase.ComputeAvailability(r.Context(), anchor, svc)
	if err != nil {
		response.InternalServerError(w, "Failed to compute availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", dto.AvailabilityResponse{Days: days})
}
