package service

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/mlegrand/portfolio-backend/internal/app/model"
	"github.com/mlegrand/portfolio-backend/internal/app/repository"
	"github.com/mlegrand/portfolio-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrServiceNotFound    = errors.New("service not found")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrInvalidQuantity    = errors.New("invalid quantity")
)

// CartLine ligne de panier renvoyée au frontend, service joint.
// Le prix part sur le réseau en chaîne décimale ("1200.00"), le frontend
// le reconvertit à sa frontière de validation.
type CartLine struct {
	ServiceID        uint
	Nom              string
	Slug             string
	ImageURL         string
	MainCategorySlug string
	SubCategorySlug  string
	PrixUnitaire     float64
	Quantite         int
}

func (l CartLine) MarshalJSON() ([]byte, error) {
	type wire struct {
		ServiceID        uint   `json:"service_id"`
		Nom              string `json:"nom"`
		Slug             string `json:"slugs"`
		ImageURL         string `json:"image_url"`
		MainCategorySlug string `json:"main_category_slugs"`
		SubCategorySlug  string `json:"sub_category_slugs"`
		PrixUnitaire     string `json:"prix_unitaire"`
		Quantite         int    `json:"quantite"`
	}
	return json.Marshal(wire{
		ServiceID:        l.ServiceID,
		Nom:              l.Nom,
		Slug:             l.Slug,
		ImageURL:         l.ImageURL,
		MainCategorySlug: l.MainCategorySlug,
		SubCategorySlug:  l.SubCategorySlug,
		PrixUnitaire:     strconv.FormatFloat(l.PrixUnitaire, 'f', 2, 64),
		Quantite:         l.Quantite,
	})
}

type CartService interface {
	GetUserCart(userID uint) ([]CartLine, error)
	AddToCart(userID, serviceID uint, quantity int) ([]CartLine, error)
	UpdateItem(userID, serviceID uint, quantity int) ([]CartLine, error)
	RemoveItem(userID, serviceID uint) ([]CartLine, error)
	ClearCart(userID uint) ([]CartLine, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	serviceRepo repository.ServiceRepository
}

func NewCartService(cartRepo repository.CartRepository, serviceRepo repository.ServiceRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		serviceRepo: serviceRepo,
	}
}

// toLines projette les lignes persistées en réponse, dans l'ordre d'insertion.
// Renvoie toujours une slice non nil pour que le panier vide sérialise en [].
func toLines(items []model.CartItem) []CartLine {
	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, CartLine{
			ServiceID:        item.ServiceID,
			Nom:              item.Service.Nom,
			Slug:             item.Service.Slug,
			ImageURL:         item.Service.ImageURL,
			MainCategorySlug: item.Service.SousCategorie.Category.Slug,
			SubCategorySlug:  item.Service.SousCategorie.Slug,
			PrixUnitaire:     item.PrixUnitaire,
			Quantite:         item.Quantite,
		})
	}
	return lines
}

func (s *cartService) GetUserCart(userID uint) ([]CartLine, error) {
	logger.Debug("Fetching user cart", map[string]interface{}{
		"user_id": userID,
	})

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return toLines(cartItems), nil
}

// AddToCart ajoute un service au panier. Si la ligne existe déjà, les
// quantités s'additionnent et le prix unitaire est réaligné sur le prix
// catalogue courant.
func (s *cartService) AddToCart(userID, serviceID uint, quantity int) ([]CartLine, error) {
	logger.Info("Adding service to cart", map[string]interface{}{
		"user_id":    userID,
		"service_id": serviceID,
		"quantite":   quantity,
	})

	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	svc, err := s.serviceRepo.FindByID(serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: service not found", map[string]interface{}{
				"user_id":    userID,
				"service_id": serviceID,
			})
			return nil, ErrServiceNotFound
		}
		logger.Error("Failed to fetch service", err, map[string]interface{}{
			"service_id": serviceID,
		})
		return nil, err
	}

	if !svc.EstDisponible {
		logger.Warn("Cannot add to cart: service unavailable", map[string]interface{}{
			"user_id":    userID,
			"service_id": serviceID,
		})
		return nil, ErrServiceUnavailable
	}

	existing, err := s.cartRepo.FindByUserAndService(userID, serviceID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing cart item", err, map[string]interface{}{
			"user_id":    userID,
			"service_id": serviceID,
		})
		return nil, err
	}

	if existing != nil {
		existing.Quantite += quantity
		existing.PrixUnitaire = svc.Prix
		if err := s.cartRepo.Update(existing); err != nil {
			return nil, err
		}
	} else {
		cartItem := &model.CartItem{
			UserID:       userID,
			ServiceID:    serviceID,
			Quantite:     quantity,
			PrixUnitaire: svc.Prix,
		}
		if err := s.cartRepo.Create(cartItem); err != nil {
			return nil, err
		}
	}

	return s.GetUserCart(userID)
}

// UpdateItem remplace la quantité d'une ligne (valeur absolue, pas un delta).
func (s *cartService) UpdateItem(userID, serviceID uint, quantity int) ([]CartLine, error) {
	logger.Info("Updating cart item quantity", map[string]interface{}{
		"user_id":    userID,
		"service_id": serviceID,
		"quantite":   quantity,
	})

	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	cartItem, err := s.cartRepo.FindByUserAndService(userID, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found for update", map[string]interface{}{
				"user_id":    userID,
				"service_id": serviceID,
			})
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	cartItem.Quantite = quantity
	if err := s.cartRepo.Update(cartItem); err != nil {
		return nil, err
	}

	return s.GetUserCart(userID)
}

func (s *cartService) RemoveItem(userID, serviceID uint) ([]CartLine, error) {
	logger.Info("Removing cart item", map[string]interface{}{
		"user_id":    userID,
		"service_id": serviceID,
	})

	cartItem, err := s.cartRepo.FindByUserAndService(userID, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found for removal", map[string]interface{}{
				"user_id":    userID,
				"service_id": serviceID,
			})
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	if err := s.cartRepo.Delete(cartItem.ID); err != nil {
		return nil, err
	}

	return s.GetUserCart(userID)
}

func (s *cartService) ClearCart(userID uint) ([]CartLine, error) {
	logger.Info("Clearing user cart", map[string]interface{}{
		"user_id": userID,
	})

	if err := s.cartRepo.DeleteByUserID(userID); err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return []CartLine{}, nil
}
