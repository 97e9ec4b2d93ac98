package converter

import (
	"schedule-agent/internal/delivery/dto"
	"schedule-agent/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:             patient.ID,
		FullName:       patient.FullName,
		DocumentType:   string(patient.DocumentType),
		DocumentNumber: patient.DocumentNumber,
		Phone:          patient.Phone,
		EPS:            patient.EPS,
		Email:          patient.Email,
	}
}
