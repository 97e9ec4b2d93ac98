package usecase

import (
	"testing"
	"time"

	"schedule-agent/internal/domain/entity"
	"schedule-agent/pkg/dates"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB returns a gorm handle backed by sqlmock. The fakes below ignore
// the db argument, so tests only script Begin/Commit for transactional paths.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return db, mock
}

type fakePatientRepo struct {
	byDocument map[string]*entity.Patient
	created    []*entity.Patient
	findErr    error
	createErr  error
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{byDocument: map[string]*entity.Patient{}}
}

func (f *fakePatientRepo) Create(db *gorm.DB, patient *entity.Patient) error {
	if f.createErr != nil {
		return f.createErr
	}
	patient.ID = uuid.New()
	f.byDocument[patient.DocumentNumber] = patient
	f.created = append(f.created, patient)
	return nil
}

func (f *fakePatientRepo) FindByDocumentNumber(db *gorm.DB, documentNumber string) (*entity.Patient, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byDocument[documentNumber], nil
}

type fakeAppointmentRepo struct {
	byID          map[uuid.UUID]*entity.Appointment
	bookedByDay   map[string][]string
	created       []*entity.Appointment
	cancelled     []uuid.UUID
	createErr     error
	bookedErr     error
	cancelledRows int64
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		byID:          map[uuid.UUID]*entity.Appointment{},
		bookedByDay:   map[string][]string{},
		cancelledRows: 1,
	}
}

func (f *fakeAppointmentRepo) Create(db *gorm.DB, appointment *entity.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	appointment.ID = uuid.New()
	f.byID[appointment.ID] = appointment
	f.created = append(f.created, appointment)
	return nil
}

func (f *fakeAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	return f.byID[id], nil
}

func (f *fakeAppointmentRepo) FindBookedHours(db *gorm.DB, day time.Time) ([]string, error) {
	if f.bookedErr != nil {
		return nil, f.bookedErr
	}
	return f.bookedByDay[dates.FormatISO(day)], nil
}

func (f *fakeAppointmentRepo) FindByDateWithPatient(db *gorm.DB, day time.Time) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range f.byID {
		if dates.FormatISO(a.Date) == dates.FormatISO(day) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) CancelAppointment(db *gorm.DB, id uuid.UUID) (int64, error) {
	f.cancelled = append(f.cancelled, id)
	if f.cancelledRows > 0 {
		if a, ok := f.byID[id]; ok {
			a.Cancel()
		}
	}
	return f.cancelledRows, nil
}

type fakeConversationRepo struct {
	latest    *entity.Conversation
	created   []*entity.Conversation
	updated   []*entity.Conversation
	lastPhone string
}

func (f *fakeConversationRepo) Create(db *gorm.DB, conversation *entity.Conversation) error {
	conversation.ID = uuid.New()
	f.created = append(f.created, conversation)
	return nil
}

func (f *fakeConversationRepo) FindLatestByPhone(db *gorm.DB, phone string) (*entity.Conversation, error) {
	f.lastPhone = phone
	return f.latest, nil
}

func (f *fakeConversationRepo) Update(db *gorm.DB, conversation *entity.Conversation) error {
	f.updated = append(f.updated, conversation)
	return nil
}

type fakeAuditService struct {
	creates []string
	cancels []string
}

func (f *fakeAuditService) LogCreate(tx *gorm.DB, action, entityName, entityID string, newValue interface{}) error {
	f.creates = append(f.creates, action)
	return nil
}

func (f *fakeAuditService) LogCancel(tx *gorm.DB, action, entityName, entityID string) error {
	f.cancels = append(f.cancels, action)
	return nil
}
