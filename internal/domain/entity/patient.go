package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentType is the identity document category used in Colombia
type DocumentType string

const (
	DocumentTypeCC DocumentType = "CC" // Cédula de Ciudadanía
	DocumentTypeCE DocumentType = "CE" // Cédula de Extranjería
	DocumentTypePP DocumentType = "PP" // Pasaporte
	DocumentTypeTI DocumentType = "TI" // Tarjeta de Identidad
)

// Sex constants
const (
	SexFemale = "F"
	SexMale   = "M"
)

// Patient represents a clinic patient record, keyed by document number
type Patient struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FullName       string       `gorm:"type:varchar(150);not null" json:"full_name"`
	DocumentType   DocumentType `gorm:"type:varchar(2);not null" json:"document_type"`
	DocumentNumber string       `gorm:"type:varchar(20);uniqueIndex;not null" json:"document_number"`
	BirthDate      time.Time    `gorm:"type:date;not null" json:"birth_date"`
	Sex            string       `gorm:"type:char(1);not null" json:"sex"`
	Phone          string       `gorm:"type:varchar(20);index" json:"phone"`
	EPS            string       `gorm:"type:varchar(100)" json:"eps"`
	Address        string       `gorm:"type:text" json:"address,omitempty"`
	Email          string       `gorm:"type:varchar(150)" json:"email,omitempty"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"appointments,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}
