package repository

import (
	"schedule-agent/internal/domain/entity"

	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByDocumentNumber(db *gorm.DB, documentNumber string) (*entity.Patient, error)
}
