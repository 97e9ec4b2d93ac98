package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"schedule-agent/internal/converter"
	"schedule-agent/internal/delivery/dto"
	"schedule-agent/internal/domain/entity"
	"schedule-agent/internal/domain/repository"
	"schedule-agent/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound         = errors.New("appointment not found")
	ErrAppointmentAlreadyCancelled = errors.New("appointment is already cancelled")
	ErrInvalidAppointmentDate      = errors.New("invalid appointment date format, use YYYY-MM-DD")
	ErrIncompleteBookingData       = errors.New("conversation is missing booking data")
)

type BookingUsecase interface {
	CreateManualAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	ListAppointmentsByDate(ctx context.Context, day time.Time) (*dto.AppointmentListResponse, error)
	CancelAppointment(ctx context.Context, id uuid.UUID) error

	// CommitConversationBooking turns a confirmed conversation into a
	// patient + appointment pair. Implements BookingCommitter.
	CommitConversationBooking(ctx context.Context, conv *entity.Conversation) error
}

type bookingUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
	slotCache       *service.SlotCacheService
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	slotCache *service.SlotCacheService,
) BookingUsecase {
	return &bookingUsecase{
		db:              db,
		log:             log,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
		slotCache:       slotCache,
	}
}

// CommitConversationBooking persists the collected conversation data. Patient
// find-or-create and the appointment insert run in one transaction, so a
// failure between the two never leaves an orphan patient.
func (u *bookingUsecase) CommitConversationBooking(ctx context.Context, conv *entity.Conversation) error {
	if conv.Service == nil || conv.AppointmentDate == nil || conv.AppointmentHour == nil ||
		conv.Data[entity.FieldDocumentNumber] == "" {
		return ErrIncompleteBookingData
	}

	var appointment *entity.Appointment
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		patient, err := u.findOrCreatePatient(tx, conv.Data)
		if err != nil {
			return err
		}

		appointment = &entity.Appointment{
			Service:   *conv.Service,
			Date:      *conv.AppointmentDate,
			Hour:      *conv.AppointmentHour,
			Status:    entity.AppointmentStatusConfirmed,
			Channel:   entity.ChannelWhatsApp,
			PatientID: patient.ID,
		}
		if err := u.appointmentRepo.Create(tx, appointment); err != nil {
			u.log.Warnf("Failed to create appointment: %+v", err)
			return err
		}

		return u.auditService.LogCreate(tx, entity.AuditActionAppointmentCreate, "appointment",
			appointment.ID.String(), map[string]interface{}{
				"service": string(appointment.Service),
				"date":    appointment.Date.Format("2006-01-02"),
				"hour":    appointment.Hour,
				"channel": string(appointment.Channel),
			})
	})
	if err != nil {
		return err
	}

	if u.slotCache != nil {
		u.slotCache.Invalidate(ctx, appointment.Date)
	}

	u.log.Infof("Appointment booked via WhatsApp: id=%s, service=%s, date=%s %s",
		appointment.ID, appointment.Service, appointment.Date.Format("2006-01-02"), appointment.Hour)
	return nil
}

func (u *bookingUsecase) CreateManualAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidAppointmentDate
	}
	birthDate, err := time.Parse("2006-01-02", req.Patient.BirthDate)
	if err != nil {
		return nil, ErrInvalidAppointmentDate
	}

	var appointment *entity.Appointment
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		patient, err := u.findOrCreatePatientEntity(tx, &entity.Patient{
			FullName:       req.Patient.FullName,
			DocumentType:   entity.DocumentType(req.Patient.DocumentType),
			DocumentNumber: req.Patient.DocumentNumber,
			BirthDate:      birthDate,
			Sex:            req.Patient.Sex,
			Phone:          req.Patient.Phone,
			EPS:            req.Patient.EPS,
			Address:        req.Patient.Address,
			Email:          req.Patient.Email,
		})
		if err != nil {
			return err
		}

		appointment = &entity.Appointment{
			Service:   entity.Service(req.Service),
			Date:      date,
			Hour:      req.Hour,
			Status:    entity.AppointmentStatusConfirmed,
			Channel:   entity.ChannelManual,
			PatientID: patient.ID,
		}
		if err := u.appointmentRepo.Create(tx, appointment); err != nil {
			u.log.Warnf("Failed to create manual appointment: %+v", err)
			return err
		}

		return u.auditService.LogCreate(tx, entity.AuditActionAppointmentCreate, "appointment",
			appointment.ID.String(), map[string]interface{}{
				"service": req.Service,
				"date":    req.Date,
				"hour":    req.Hour,
				"channel": string(entity.ChannelManual),
			})
	})
	if err != nil {
		return nil, err
	}

	if u.slotCache != nil {
		u.slotCache.Invalidate(ctx, date)
	}

	full, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointment.ID, err)
		return converter.AppointmentToResponse(appointment), nil
	}

	u.log.Infof("Manual appointment created: id=%s, service=%s, date=%s %s",
		appointment.ID, req.Service, req.Date, req.Hour)
	return converter.AppointmentToResponse(full), nil
}

func (u *bookingUsecase) ListAppointmentsByDate(ctx context.Context, day time.Time) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByDateWithPatient(u.db.WithContext(ctx), day)
	if err != nil {
		u.log.Warnf("Failed to list appointments for %s: %+v", day.Format("2006-01-02"), err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *bookingUsecase) CancelAppointment(ctx context.Context, id uuid.UUID) error {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}
	if appointment.IsCancelled() {
		return ErrAppointmentAlreadyCancelled
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := u.appointmentRepo.CancelAppointment(tx, id)
		if err != nil {
			return err
		}
		// 0 rows means a concurrent cancel won
		if affected == 0 {
			return ErrAppointmentAlreadyCancelled
		}

		return u.auditService.LogCancel(tx, entity.AuditActionAppointmentCancel, "appointment", id.String())
	})
	if err != nil {
		return err
	}

	if u.slotCache != nil {
		u.slotCache.Invalidate(ctx, appointment.Date)
	}

	u.log.Infof("Appointment cancelled: id=%s", id)
	return nil
}

// findOrCreatePatient builds the patient entity from the conversation's
// accumulated fields. An existing record wins as-is: newly supplied fields
// never overwrite it.
func (u *bookingUsecase) findOrCreatePatient(tx *gorm.DB, data entity.ConversationData) (*entity.Patient, error) {
	birthDate := parseStoredBirthDate(data[entity.FieldBirthDate])

	return u.findOrCreatePatientEntity(tx, &entity.Patient{
		FullName:       data[entity.FieldFullName],
		DocumentType:   entity.DocumentType(data[entity.FieldDocumentType]),
		DocumentNumber: data[entity.FieldDocumentNumber],
		BirthDate:      birthDate,
		Sex:            data[entity.FieldSex],
		Phone:          data[entity.FieldPhone],
		EPS:            data[entity.FieldEPS],
		Address:        data[entity.FieldAddress],
		Email:          data[entity.FieldEmail],
	})
}

func (u *bookingUsecase) findOrCreatePatientEntity(tx *gorm.DB, candidate *entity.Patient) (*entity.Patient, error) {
	existing, err := u.patientRepo.FindByDocumentNumber(tx, candidate.DocumentNumber)
	if err != nil {
		u.log.Warnf("Failed to look up patient by document %s: %+v", candidate.DocumentNumber, err)
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if err := u.patientRepo.Create(tx, candidate); err != nil {
		// A concurrent request may have created the same document number
		// between the lookup and the insert; the unique index settles it.
		if isDuplicateKeyError(err, "document") {
			return u.patientRepo.FindByDocumentNumber(tx, candidate.DocumentNumber)
		}
		u.log.Warnf("Failed to create patient %s: %+v", candidate.DocumentNumber, err)
		return nil, err
	}

	if err := u.auditService.LogCreate(tx, entity.AuditActionPatientCreate, "patient",
		candidate.ID.String(), map[string]interface{}{
			"document_type":   string(candidate.DocumentType),
			"document_number": candidate.DocumentNumber,
		}); err != nil {
		return nil, err
	}

	return candidate, nil
}

func parseStoredBirthDate(raw string) time.Time {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	t, _ := time.Parse("2006-01-02", raw)
	return t
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint
// violation containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
