package repository

import (
	"time"

	"schedule-agent/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	// FindBookedHours returns the hours ("HH:MM") of every non-cancelled
	// appointment on the given calendar day, any service.
	FindBookedHours(db *gorm.DB, day time.Time) ([]string, error)
	FindByDateWithPatient(db *gorm.DB, day time.Time) ([]entity.Appointment, error)
	CancelAppointment(db *gorm.DB, id uuid.UUID) (int64, error)
}
