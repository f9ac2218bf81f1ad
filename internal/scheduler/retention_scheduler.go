package scheduler

import (
	"github.com/mlegrand/portfolio-backend/config"
	"github.com/mlegrand/portfolio-backend/internal/app/repository"
	"github.com/mlegrand/portfolio-backend/internal/app/service"
	"github.com/mlegrand/portfolio-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// RetentionScheduler nettoyage périodique : purge des messages de contact
// au-delà de la durée de rétention et suppression définitive des lignes de
// panier marquées supprimées.
type RetentionScheduler struct {
	cron           *cron.Cron
	contactService service.ContactService
	cartRepo       repository.CartRepository
	cfg            config.RetentionConfig
}

func NewRetentionScheduler(
	contactService service.ContactService,
	cartRepo repository.CartRepository,
	cfg config.RetentionConfig,
) *RetentionScheduler {
	return &RetentionScheduler{
		cron:           cron.New(),
		contactService: contactService,
		cartRepo:       cartRepo,
		cfg:            cfg,
	}
}

// Start enregistre la tâche et démarre le cron.
func (s *RetentionScheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.Schedule, s.runCleanup)
	if err != nil {
		logger.Error("Failed to register retention cron job", err, map[string]interface{}{
			"schedule": s.cfg.Schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Retention scheduler started", map[string]interface{}{
		"schedule":       s.cfg.Schedule,
		"retention_days": s.cfg.ContactMessageDays,
	})
	return nil
}

// Stop arrête le cron, les tâches en cours se terminent.
func (s *RetentionScheduler) Stop() {
	logger.Info("Stopping retention scheduler...")
	s.cron.Stop()
	logger.Info("Retention scheduler stopped")
}

func (s *RetentionScheduler) runCleanup() {
	logger.Info("Starting scheduled retention cleanup", map[string]interface{}{
		"retention_days": s.cfg.ContactMessageDays,
	})

	purgedMessages, err := s.contactService.PurgeOlderThan(s.cfg.ContactMessageDays)
	if err != nil {
		logger.Error("Failed to purge old contact messages", err)
	}

	purgedCartRows, err := s.cartRepo.PurgeDeleted(nil)
	if err != nil {
		logger.Error("Failed to purge deleted cart rows", err)
	}

	logger.Info("Retention cleanup completed", map[string]interface{}{
		"purged_contact_messages": purgedMessages,
		"purged_cart_rows":        purgedCartRows,
	})
}
