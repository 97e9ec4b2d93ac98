package entity

import (
	"time"

	"github.com/google/uuid"
)

// Service is an imaging exam offered by the clinic
type Service string

const (
	ServiceMammography  Service = "mamografia"
	ServiceDensitometry Service = "densitometria"
)

// DisplayName returns the patient-facing name of the service
func (s Service) DisplayName() string {
	switch s {
	case ServiceMammography:
		return "Mamografía"
	case ServiceDensitometry:
		return "Densitometría"
	default:
		return string(s)
	}
}

// IsValid reports whether the service is one the clinic offers
func (s Service) IsValid() bool {
	return s == ServiceMammography || s == ServiceDensitometry
}

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusConfirmed AppointmentStatus = "confirmada"
	AppointmentStatusCancelled AppointmentStatus = "cancelada"
)

// Channel is the origin channel of an appointment
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelManual   Channel = "manual"
)

// Appointment represents one scheduled occurrence of a service for a patient
type Appointment struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Service   Service           `gorm:"type:varchar(30);not null;index" json:"service"`
	Date      time.Time         `gorm:"type:date;not null;index" json:"date"`
	Hour      string            `gorm:"type:varchar(5);not null" json:"hour"`
	Status    AppointmentStatus `gorm:"type:varchar(20);not null;default:'confirmada';index" json:"status"`
	Channel   Channel           `gorm:"type:varchar(20);not null" json:"channel"`
	PatientID uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsCancelled checks if the appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// Cancel changes appointment status to cancelled
func (a *Appointment) Cancel() {
	a.Status = AppointmentStatusCancelled
}
