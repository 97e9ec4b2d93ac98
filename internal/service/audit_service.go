package service

import (
	"schedule-agent/internal/domain/entity"
	"schedule-agent/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditService appends booking events to the audit trail. Entries are written
// inside the caller's transaction so an event is recorded iff the write it
// describes committed.
type AuditService interface {
	LogCreate(tx *gorm.DB, action string, entityName string, entityID string, newValue interface{}) error
	LogCancel(tx *gorm.DB, action string, entityName string, entityID string) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) LogCreate(tx *gorm.DB, action string, entityName string, entityID string, newValue interface{}) error {
	metadata := entity.JSON{
		"entity":    entityName,
		"entity_id": entityID,
		"new_value": newValue,
	}

	auditLog := &entity.AuditLog{
		Action:   action,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}

func (s *auditService) LogCancel(tx *gorm.DB, action string, entityName string, entityID string) error {
	metadata := entity.JSON{
		"entity":    entityName,
		"entity_id": entityID,
	}

	auditLog := &entity.AuditLog{
		Action:   action,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
