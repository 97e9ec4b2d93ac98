package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"schedule-agent/internal/delivery/dto"
	"schedule-agent/internal/usecase"
	"schedule-agent/pkg/response"
	"schedule-agent/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewAppointmentHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

// CreateAppointment books an appointment from the manual (front desk)
// channel, creating the patient when the document number is unknown.
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.bookingUsecase.CreateManualAppointment(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidAppointmentDate:
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Failed to create appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

// ListAppointments returns the non-cancelled appointments of one day,
// ascending by hour, with patient data.
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		response.Error(w, http.StatusBadRequest, "Query param date is required", nil)
		return
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		return
	}

	appointments, err := h.bookingUsecase.ListAppointmentsByDate(r.Context(), day)
	if err != nil {
		response.InternalServerError(w, "Failed to list appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// CancelAppointment cancels one appointment; the freed slot becomes
// available again.
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	if err := h.bookingUsecase.CancelAppointment(r.Context(), id); err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrAppointmentAlreadyCancelled:
			response.Error(w, http.StatusConflict, "Appointment is already cancelled", nil)
		default:
			response.InternalServerError(w, "Failed to cancel appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", nil)
}
