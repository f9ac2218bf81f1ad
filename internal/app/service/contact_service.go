package service

import (
	"errors"
	"time"

	"github.com/mlegrand/portfolio-backend/internal/app/model"
	"github.com/mlegrand/portfolio-backend/internal/app/repository"
	"github.com/mlegrand/portfolio-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrContactMessageNotFound = errors.New("contact message not found")

type ContactInput struct {
	Nom       string
	Prenom    string
	Email     string
	Telephone string
	Objet     string
	Message   string
}

type ContactService interface {
	Create(input ContactInput) (*model.ContactMessage, error)
	GetAll() ([]model.ContactMessage, error)
	GetByID(id uint) (*model.ContactMessage, error)
	Delete(id uint) error
	PurgeOlderThan(days int) (int64, error)
}

type contactService struct {
	contactRepo repository.ContactRepository
	events      EventPublisher
}

func NewContactService(contactRepo repository.ContactRepository, events EventPublisher) ContactService {
	return &contactService{
		contactRepo: contactRepo,
		events:      events,
	}
}

func (s *contactService) Create(input ContactInput) (*model.ContactMessage, error) {
	logger.Info("Creating contact message", map[string]interface{}{
		"email": input.Email,
		"objet": input.Objet,
	})

	message := &model.ContactMessage{
		Nom:       input.Nom,
		Prenom:    input.Prenom,
		Email:     input.Email,
		Telephone: input.Telephone,
		Objet:     input.Objet,
		Message:   input.Message,
	}
	if err := s.contactRepo.Create(message); err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Publish("contact.created", message)
	}
	return message, nil
}

func (s *contactService) GetAll() ([]model.ContactMessage, error) {
	return s.contactRepo.FindAll()
}

func (s *contactService) GetByID(id uint) (*model.ContactMessage, error) {
	message, err := s.contactRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactMessageNotFound
		}
		return nil, err
	}
	return message, nil
}

func (s *contactService) Delete(id uint) error {
	err := s.contactRepo.Delete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrContactMessageNotFound
	}
	return err
}

// PurgeOlderThan supprime les messages plus vieux que la durée de rétention.
func (s *contactService) PurgeOlderThan(days int) (int64, error) {
	before := time.Now().AddDate(0, 0, -days)

	purged, err := s.contactRepo.DeleteOlderThan(before)
	if err != nil {
		return 0, err
	}

	if purged > 0 {
		logger.Info("Old contact messages purged", map[string]interface{}{
			"purged_count":   purged,
			"retention_days": days,
		})
	}
	return purged, nil
}
