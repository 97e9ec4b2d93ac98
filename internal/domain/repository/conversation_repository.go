package repository

import (
	"schedule-agent/internal/domain/entity"

	"gorm.io/gorm"
)

type ConversationRepository interface {
	Create(db *gorm.DB, conversation *entity.Conversation) error
	// FindLatestByPhone returns the most recently updated conversation for
	// the caller, or nil when none exists.
	FindLatestByPhone(db *gorm.DB, phone string) (*entity.Conversation, error)
	Update(db *gorm.DB, conversation *entity.Conversation) error
}
