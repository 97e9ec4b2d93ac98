package repository

import (
	"errors"

	"schedule-agent/internal/domain/entity"
	domainRepo "schedule-agent/internal/domain/repository"

	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	return db.Create(patient).Error
}

func (r *patientRepository) FindByDocumentNumber(db *gorm.DB, documentNumber string) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Where("document_number = ?", documentNumber).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}
