package repository

import (
	"github.com/mlegrand/portfolio-backend/internal/app/model"
	"github.com/mlegrand/portfolio-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(cartItem *model.CartItem) error
	FindByUserID(userID uint) ([]model.CartItem, error)
	FindByUserAndService(userID, serviceID uint) (*model.CartItem, error)
	Update(cartItem *model.CartItem) error
	Delete(id uint) error
	DeleteByUserID(userID uint) error
	PurgeDeleted(db *gorm.DB) (int64, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(cartItem *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"user_id":    cartItem.UserID,
		"service_id": cartItem.ServiceID,
		"quantite":   cartItem.Quantite,
	})

	if err := r.db.Create(cartItem).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"user_id":    cartItem.UserID,
			"service_id": cartItem.ServiceID,
		})
		return err
	}
	return nil
}

// FindByUserID renvoie les lignes du panier triées par ordre d'insertion,
// avec le service et sa hiérarchie de catégories joints pour construire
// la réponse complète (slugs de navigation compris).
func (r *cartRepository) FindByUserID(userID uint) ([]model.CartItem, error) {
	var cartItems []model.CartItem
	err := r.db.Where("user_id = ?", userID).
		Preload("Service.SousCategorie.Category").
		Order("id ASC").
		Find(&cartItems).Error
	if err != nil {
		logger.Error("Failed to find cart items by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return cartItems, nil
}

func (r *cartRepository) FindByUserAndService(userID, serviceID uint) (*model.CartItem, error) {
	var cartItem model.CartItem
	err := r.db.Where("user_id = ? AND service_id = ?", userID, serviceID).
		First(&cartItem).Error
	if err != nil {
		return nil, err
	}
	return &cartItem, nil
}

func (r *cartRepository) Update(cartItem *model.CartItem) error {
	logger.Debug("Updating cart item in database", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"quantite":     cartItem.Quantite,
	})

	if err := r.db.Save(cartItem).Error; err != nil {
		logger.Error("Failed to update cart item in database", err, map[string]interface{}{
			"cart_item_id": cartItem.ID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) Delete(id uint) error {
	logger.Debug("Deleting cart item from database", map[string]interface{}{
		"cart_item_id": id,
	})

	if err := r.db.Delete(&model.CartItem{}, id).Error; err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteByUserID(userID uint) error {
	logger.Debug("Clearing cart for user in database", map[string]interface{}{
		"user_id": userID,
	})

	if err := r.db.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to clear cart for user in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}

// PurgeDeleted supprime définitivement les lignes soft-deleted.
// Appelé par le planificateur de rétention.
func (r *cartRepository) PurgeDeleted(db *gorm.DB) (int64, error) {
	if db == nil {
		db = r.db
	}
	result := db.Unscoped().
		Where("deleted_at IS NOT NULL").
		Delete(&model.CartItem{})
	if result.Error != nil {
		logger.Error("Failed to purge deleted cart items from database", result.Error, nil)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
