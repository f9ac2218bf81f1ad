package repository

import (
	"time"

	"github.com/mlegrand/portfolio-backend/internal/app/model"
	"github.com/mlegrand/portfolio-backend/pkg/logger"
	"gorm.io/gorm"
)

type ContactRepository interface {
	Create(message *model.ContactMessage) error
	FindByID(id uint) (*model.ContactMessage, error)
	FindAll() ([]model.ContactMessage, error)
	Delete(id uint) error
	DeleteOlderThan(before time.Time) (int64, error)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(message *model.ContactMessage) error {
	logger.Debug("Creating contact message in database", map[string]interface{}{
		"email": message.Email,
		"objet": message.Objet,
	})

	if err := r.db.Create(message).Error; err != nil {
		logger.Error("Failed to create contact message in database", err, map[string]interface{}{
			"email": message.Email,
		})
		return err
	}
	return nil
}

func (r *contactRepository) FindByID(id uint) (*model.ContactMessage, error) {
	var message model.ContactMessage
	if err := r.db.First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *contactRepository) FindAll() ([]model.ContactMessage, error) {
	var messages []model.ContactMessage
	if err := r.db.Order("date_envoyee DESC").Find(&messages).Error; err != nil {
		logger.Error("Failed to list contact messages in database", err, nil)
		return nil, err
	}
	return messages, nil
}

func (r *contactRepository) Delete(id uint) error {
	result := r.db.Delete(&model.ContactMessage{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete contact message from database", result.Error, map[string]interface{}{
			"message_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteOlderThan purge les messages au-delà de la durée de rétention.
// Appelé par le planificateur.
func (r *contactRepository) DeleteOlderThan(before time.Time) (int64, error) {
	result := r.db.Where("date_envoyee < ?", before).Delete(&model.ContactMessage{})
	if result.Error != nil {
		logger.Error("Failed to purge old contact messages from database", result.Error, map[string]interface{}{
			"before": before,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
