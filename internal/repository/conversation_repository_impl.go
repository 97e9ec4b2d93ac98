package repository

import (
	"errors"

	"schedule-agent/internal/domain/entity"
	domainRepo "schedule-agent/internal/domain/repository"

	"gorm.io/gorm"
)

type conversationRepository struct{}

func NewConversationRepository() domainRepo.ConversationRepository {
	return &conversationRepository{}
}

func (r *conversationRepository) Create(db *gorm.DB, conversation *entity.Conversation) error {
	return db.Create(conversation).Error
}

func (r *conversationRepository) FindLatestByPhone(db *gorm.DB, phone string) (*entity.Conversation, error) {
	var conversation entity.Conversation
	err := db.Where("phone_from = ?", phone).
		Order("updated_at DESC").
		First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepository) Update(db *gorm.DB, conversation *entity.Conversation) error {
	return db.Save(conversation).Error
}
