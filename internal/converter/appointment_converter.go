package converter

import (
	"schedule-agent/internal/delivery/dto"
	"schedule-agent/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:        appointment.ID,
		Service:   string(appointment.Service),
		Date:      appointment.Date.Format("2006-01-02"),
		Hour:      appointment.Hour,
		Status:    string(appointment.Status),
		Channel:   string(appointment.Channel),
		CreatedAt: appointment.CreatedAt,
	}

	// Include patient info if loaded
	if appointment.Patient.ID != uuid.Nil {
		response.Patient = PatientToResponse(&appointment.Patient)
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		resp := AppointmentToResponse(&appointment)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
