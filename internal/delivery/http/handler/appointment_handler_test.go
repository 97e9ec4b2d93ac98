package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"schedule-agent/internal/delivery/dto"
	"schedule-agent/internal/domain/entity"
	"schedule-agent/internal/usecase"
	"schedule-agent/pkg/response"
	"schedule-agent/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingUsecase struct {
	created   *dto.AppointmentResponse
	createErr error
	list      *dto.AppointmentListResponse
	listErr   error
	cancelErr error
	cancelled []uuid.UUID
}

func (f *fakeBookingUsecase) CreateManualAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	return f.created, f.createErr
}

func (f *fakeBookingUsecase) ListAppointmentsByDate(ctx context.Context, day time.Time) (*dto.AppointmentListResponse, error) {
	return f.list, f.listErr
}

func (f *fakeBookingUsecase) CancelAppointment(ctx context.Context, id uuid.UUID) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

func (f *fakeBookingUsecase) CommitConversationBooking(ctx context.Context, conv *entity.Conversation) error {
	return nil
}

func validCreateBody() []byte {
	body, _ := json.Marshal(dto.CreateAppointmentRequest{
		Service: "mamografia",
		Date:    "2026-03-06",
		Hour:    "07:00",
		Patient: dto.CreatePatientRequest{
			FullName:       "Ana María Pérez",
			DocumentType:   "CC",
			DocumentNumber: "1023456789",
			BirthDate:      "1985-03-15",
			Sex:            "F",
			Phone:          "573001234567",
			EPS:            "Particular",
			Address:        "Calle 10 # 5-20",
			Email:          "ana@example.com",
		},
	})
	return body
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var env response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestCreateAppointment(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		uc := &fakeBookingUsecase{created: &dto.AppointmentResponse{
			ID:      uuid.New(),
			Service: "mamografia",
			Date:    "2026-03-06",
			Hour:    "07:00",
		}}
		h := NewAppointmentHandler(uc, validator.NewValidator())

		req := httptest.NewRequest("POST", "/api/v1/appointments", bytes.NewReader(validCreateBody()))
		rec := httptest.NewRecorder()
		h.CreateAppointment(rec, req)

		assert.Equal(t, 201, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.True(t, env.Success)
	})

	t.Run("malformed json", func(t *testing.T) {
		h := NewAppointmentHandler(&fakeBookingUsecase{}, validator.NewValidator())

		req := httptest.NewRequest("POST", "/api/v1/appointments", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()
		h.CreateAppointment(rec, req)

		assert.Equal(t, 400, rec.Code)
	})

	t.Run("validation failure names the field", func(t *testing.T) {
		h := NewAppointmentHandler(&fakeBookingUsecase{}, validator.NewValidator())

		body, _ := json.Marshal(map[string]interface{}{
			"service": "radiografia",
			"date":    "2026-03-06",
			"hour":    "07:00",
		})
		req := httptest.NewRequest("POST", "/api/v1/appointments", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.CreateAppointment(rec, req)

		assert.Equal(t, 400, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.Equal(t, "Validation failed", env.Message)
	})

	t.Run("usecase date error maps to 400", func(t *testing.T) {
		uc := &fakeBookingUsecase{createErr: usecase.ErrInvalidAppointmentDate}
		h := NewAppointmentHandler(uc, validator.NewValidator())

		req := httptest.NewRequest("POST", "/api/v1/appointments", bytes.NewReader(validCreateBody()))
		rec := httptest.NewRecorder()
		h.CreateAppointment(rec, req)

		assert.Equal(t, 400, rec.Code)
	})
}

func TestListAppointments(t *testing.T) {
	t.Run("requires date param", func(t *testing.T) {
		h := NewAppointmentHandler(&fakeBookingUsecase{}, validator.NewValidator())

		req := httptest.NewRequest("GET", "/api/v1/appointments", nil)
		rec := httptest.NewRecorder()
		h.ListAppointments(rec, req)

		assert.Equal(t, 400, rec.Code)
	})

	t.Run("returns the day's appointments", func(t *testing.T) {
		uc := &fakeBookingUsecase{list: &dto.AppointmentListResponse{
			Appointments: []dto.AppointmentResponse{{Hour: "07:00"}},
			Total:        1,
		}}
		h := NewAppointmentHandler(uc, validator.NewValidator())

		req := httptest.NewRequest("GET", "/api/v1/appointments?date=2026-03-06", nil)
		rec := httptest.NewRecorder()
		h.ListAppointments(rec, req)

		assert.Equal(t, 200, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.True(t, env.Success)
	})
}

func TestCancelAppointmentHandler(t *testing.T) {
	cancelRequest := func(h *AppointmentHandler, id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/v1/appointments/"+id+"/cancel", nil)
		req = mux.SetURLVars(req, map[string]string{"id": id})
		rec := httptest.NewRecorder()
		h.CancelAppointment(rec, req)
		return rec
	}

	t.Run("cancels", func(t *testing.T) {
		uc := &fakeBookingUsecase{}
		h := NewAppointmentHandler(uc, validator.NewValidator())
		id := uuid.New()

		rec := cancelRequest(h, id.String())

		assert.Equal(t, 200, rec.Code)
		assert.Contains(t, uc.cancelled, id)
	})

	t.Run("bad uuid", func(t *testing.T) {
		h := NewAppointmentHandler(&fakeBookingUsecase{}, validator.NewValidator())
		rec := cancelRequest(h, "not-a-uuid")
		assert.Equal(t, 400, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		uc := &fakeBookingUsecase{cancelErr: usecase.ErrAppointmentNotFound}
		h := NewAppointmentHandler(uc, validator.NewValidator())
		rec := cancelRequest(h, uuid.NewString())
		assert.Equal(t, 404, rec.Code)
	})

	t.Run("already cancelled", func(t *testing.T) {
		uc := &fakeBookingUsecase{cancelErr: usecase.ErrAppointmentAlreadyCancelled}
		h := NewAppointmentHandler(uc, validator.NewValidator())
		rec := cancelRequest(h, uuid.NewString())
		assert.Equal(t, 409, rec.Code)
	})
}
