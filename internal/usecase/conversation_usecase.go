package usecase

import (
	"context"
	"strings"
	"time"

	"schedule-agent/internal/domain/entity"
	"schedule-agent/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ConversationUsecase interface {
	// HandleInbound processes one WhatsApp message end to end and returns
	// the reply text to send back.
	HandleInbound(ctx context.Context, from, body string) (string, error)
}

type conversationUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	conversationRepo repository.ConversationRepository
	machine          *ConversationMachine
	now              func() time.Time
}

func NewConversationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	conversationRepo repository.ConversationRepository,
	machine *ConversationMachine,
) ConversationUsecase {
	return &conversationUsecase{
		db:               db,
		log:              log,
		conversationRepo: conversationRepo,
		machine:          machine,
		now:              time.Now,
	}
}

func (u *conversationUsecase) HandleInbound(ctx context.Context, from, body string) (string, error) {
	phone := NormalizePhone(from)
	db := u.db.WithContext(ctx)

	conv, err := u.conversationRepo.FindLatestByPhone(db, phone)
	if err != nil {
		u.log.Warnf("Failed to load conversation for %s: %+v", phone, err)
		return "", err
	}

	// A stale conversation starts over: its accumulated data is discarded,
	// never carried into the new one.
	if conv == nil || conv.IsStale(u.now()) {
		conv = &entity.Conversation{
			PhoneFrom: phone,
			State:     entity.StateInicio,
		}
		if err := u.conversationRepo.Create(db, conv); err != nil {
			u.log.Warnf("Failed to create conversation for %s: %+v", phone, err)
			return "", err
		}
	}

	result, err := u.machine.Turn(ctx, conv, body)
	if err != nil {
		return "", err
	}

	conv.State = result.NextState
	if result.Service != nil {
		conv.Service = result.Service
	}
	if result.Date != nil {
		conv.AppointmentDate = result.Date
	}
	if result.Hour != nil {
		conv.AppointmentHour = result.Hour
	}
	if result.Data != nil {
		conv.Data = result.Data
	}

	if err := u.conversationRepo.Update(db, conv); err != nil {
		u.log.Warnf("Failed to update conversation %s: %+v", conv.ID, err)
		return "", err
	}

	return result.Reply, nil
}

// NormalizePhone strips the transport prefix and the leading "+" from the
// webhook sender field, e.g. "whatsapp:+573001234567" -> "573001234567".
func NormalizePhone(from string) string {
	phone := strings.TrimPrefix(from, "whatsapp:")
	return strings.TrimPrefix(phone, "+")
}
