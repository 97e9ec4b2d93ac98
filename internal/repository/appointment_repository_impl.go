package repository

import (
	"errors"
	"time"

	"schedule-agent/internal/domain/entity"
	domainRepo "schedule-agent/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Patient").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindBookedHours(db *gorm.DB, day time.Time) ([]string, error) {
	start, end := dayBounds(day)

	var hours []string
	err := db.Model(&entity.Appointment{}).
		Where("date >= ? AND date <= ? AND status <> ?", start, end, entity.AppointmentStatusCancelled).
		Pluck("hour", &hours).Error
	if err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *appointmentRepository) FindByDateWithPatient(db *gorm.DB, day time.Time) ([]entity.Appointment, error) {
	start, end := dayBounds(day)

	var appointments []entity.Appointment
	err := db.Preload("Patient").
		Where("date >= ? AND date <= ? AND status <> ?", start, end, entity.AppointmentStatusCancelled).
		Order("hour ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// CancelAppointment atomically cancels an appointment ONLY if it's not already
// cancelled. Returns affected rows: 1 = success, 0 = already cancelled.
func (r *appointmentRepository) CancelAppointment(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status <> ?", id, entity.AppointmentStatusCancelled).
		Update("status", entity.AppointmentStatusCancelled)
	return result.RowsAffected, result.Error
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}
