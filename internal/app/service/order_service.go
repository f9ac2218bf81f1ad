package service

import (
	"errors"
	"time"

	"github.com/mlegrand/portfolio-backend/internal/app/model"
	"github.com/mlegrand/portfolio-backend/internal/app/repository"
	"github.com/mlegrand/portfolio-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

// EventPublisher pousse les événements temps réel vers le tableau de bord.
// Implémenté par le hub websocket, no-op si aucun client connecté.
type EventPublisher interface {
	Publish(eventType string, payload interface{})
}

type CheckoutInput struct {
	ClientNom   string
	ClientEmail string
	ClientNotes string
}

// GuestOrderLine ligne d'une commande invité, validée contre le catalogue.
type GuestOrderLine struct {
	ServiceID uint
	Quantite  int
}

type OrderService interface {
	CreateFromCart(userID uint, input CheckoutInput) (*model.Order, error)
	CreateGuestOrder(input CheckoutInput, lines []GuestOrderLine) (*model.Order, error)
	GetOrder(id uint) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetAllOrders() ([]model.Order, error)
	GetOrdersBetween(from, to time.Time) ([]model.Order, error)
	UpdateStatus(id uint, status model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	serviceRepo repository.ServiceRepository
	events      EventPublisher
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	serviceRepo repository.ServiceRepository,
	events EventPublisher,
) OrderService {
	return &orderService{
		db:          db,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		serviceRepo: serviceRepo,
		events:      events,
	}
}

func (s *orderService) publish(eventType string, payload interface{}) {
	if s.events != nil {
		s.events.Publish(eventType, payload)
	}
}

// CreateFromCart transforme le panier persisté en commande puis le vide,
// dans la même transaction. Les prix sont figés depuis les lignes du panier.
func (s *orderService) CreateFromCart(userID uint, input CheckoutInput) (*model.Order, error) {
	logger.Info("Creating order from cart", map[string]interface{}{
		"user_id":      userID,
		"client_email": input.ClientEmail,
	})

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		logger.Warn("Checkout rejected: empty cart", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	uid := userID
	order := &model.Order{
		UserID:      &uid,
		Status:      model.OrderStatusPending,
		ClientNom:   input.ClientNom,
		ClientEmail: input.ClientEmail,
		ClientNotes: input.ClientNotes,
	}
	for _, item := range cartItems {
		subTotal := float64(item.Quantite) * item.PrixUnitaire
		order.OrderItems = append(order.OrderItems, model.OrderItem{
			ServiceID:    item.ServiceID,
			NomService:   item.Service.Nom,
			Quantite:     item.Quantite,
			PrixUnitaire: item.PrixUnitaire,
			SubTotal:     subTotal,
		})
		order.TotalAmount += subTotal
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(tx, order); err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
	})
	if err != nil {
		logger.Error("Failed to create order from cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Order created from cart", map[string]interface{}{
		"order_id":     order.ID,
		"user_id":      userID,
		"total_amount": order.TotalAmount,
	})

	s.publish("order.created", order)
	return order, nil
}

// CreateGuestOrder valide chaque ligne contre le catalogue courant.
// Les invités n'ont pas de panier serveur, le frontend envoie les lignes.
func (s *orderService) CreateGuestOrder(input CheckoutInput, lines []GuestOrderLine) (*model.Order, error) {
	logger.Info("Creating guest order", map[string]interface{}{
		"client_email": input.ClientEmail,
		"line_count":   len(lines),
	})

	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := &model.Order{
		Status:      model.OrderStatusPending,
		ClientNom:   input.ClientNom,
		ClientEmail: input.ClientEmail,
		ClientNotes: input.ClientNotes,
	}
	for _, line := range lines {
		if line.Quantite <= 0 {
			return nil, ErrInvalidQuantity
		}
		svc, err := s.serviceRepo.FindByID(line.ServiceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrServiceNotFound
			}
			return nil, err
		}
		if !svc.EstDisponible {
			return nil, ErrServiceUnavailable
		}

		subTotal := float64(line.Quantite) * svc.Prix
		order.OrderItems = append(order.OrderItems, model.OrderItem{
			ServiceID:    svc.ID,
			NomService:   svc.Nom,
			Quantite:     line.Quantite,
			PrixUnitaire: svc.Prix,
			SubTotal:     subTotal,
		})
		order.TotalAmount += subTotal
	}

	if err := s.orderRepo.Create(nil, order); err != nil {
		return nil, err
	}

	logger.Info("Guest order created", map[string]interface{}{
		"order_id":     order.ID,
		"total_amount": order.TotalAmount,
	})

	s.publish("order.created", order)
	return order, nil
}

func (s *orderService) GetOrder(id uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	return s.orderRepo.FindByUserID(userID)
}

func (s *orderService) GetAllOrders() ([]model.Order, error) {
	return s.orderRepo.FindAll()
}

func (s *orderService) GetOrdersBetween(from, to time.Time) ([]model.Order, error) {
	return s.orderRepo.FindBetween(from, to)
}

func (s *orderService) UpdateStatus(id uint, status model.OrderStatus) (*model.Order, error) {
	logger.Info("Updating order status", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	if !model.ValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	s.publish("order.status_updated", order)
	return order, nil
}
