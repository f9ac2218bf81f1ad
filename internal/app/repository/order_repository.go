package repository

import (
	"time"

	"github.com/mlegrand/portfolio-backend/internal/app/model"
	"github.com/mlegrand/portfolio-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(db *gorm.DB, order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	FindAll() ([]model.Order, error)
	FindBetween(from, to time.Time) ([]model.Order, error)
	UpdateStatus(id uint, status model.OrderStatus) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create insère la commande et ses lignes. Le tx permet de la créer dans la
// même transaction que le vidage du panier.
func (r *orderRepository) Create(db *gorm.DB, order *model.Order) error {
	if db == nil {
		db = r.db
	}

	logger.Debug("Creating order in database", map[string]interface{}{
		"client_email": order.ClientEmail,
		"total_amount": order.TotalAmount,
		"item_count":   len(order.OrderItems),
	})

	if err := db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"client_email": order.ClientEmail,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id": order.ID,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("OrderItems").
		Preload("OrderItems.Service").
		Preload("User").
		First(&order, id).Error
	if err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Where("user_id = ?", userID).
		Preload("OrderItems").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) FindAll() ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("OrderItems").
		Preload("User").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to list orders in database", err, nil)
		return nil, err
	}
	return orders, nil
}

// FindBetween renvoie les commandes d'une période pour l'export comptable.
func (r *orderRepository) FindBetween(from, to time.Time) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Where("created_at >= ? AND created_at < ?", from, to).
		Preload("OrderItems").
		Preload("User").
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders between dates in database", err, map[string]interface{}{
			"from": from,
			"to":   to,
		})
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(id uint, status model.OrderStatus) error {
	logger.Debug("Updating order status in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	result := r.db.Model(&model.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to update order status in database", result.Error, map[string]interface{}{
			"order_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
