package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mlegrand/portfolio-backend/internal/app/service"
	"github.com/mlegrand/portfolio-backend/internal/errors"
	"github.com/mlegrand/portfolio-backend/internal/middleware"
)

// CartController expose le panier serveur des utilisateurs connectés.
// Chaque mutation renvoie le panier complet, lignes jointes au catalogue
// et triées par ordre d'insertion, pour que le frontend l'adopte tel quel.
type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

// AddToCartRequest la quantité est optionnelle et vaut 1 par défaut ;
// un zéro explicite descend jusqu'au service qui le rejette.
type AddToCartRequest struct {
	ServiceID uint `json:"service_id" binding:"required"`
	Quantite  *int `json:"quantite"`
}

type UpdateCartRequest struct {
	Quantite *int `json:"quantite" binding:"required"`
}

// GetCart renvoie le panier de l'utilisateur connecté
// GET /api/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	cart, err := ctrl.cartService.GetUserCart(userID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "Impossible de récupérer le panier")
		return
	}

	c.JSON(http.StatusOK, cart)
}

// AddToCart ajoute un service au panier (quantités additionnées si la ligne existe)
// POST /api/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Données de panier invalides")
		return
	}

	quantity := 1
	if req.Quantite != nil {
		quantity = *req.Quantite
	}

	cart, err := ctrl.cartService.AddToCart(userID, req.ServiceID, quantity)
	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrServiceNotFound):
			errors.NotFound(c, errors.ServiceNotFound, "Service introuvable")
		case stderrors.Is(err, service.ErrServiceUnavailable):
			errors.NotFound(c, errors.ServiceUnavailable, "Ce service n'est plus disponible")
		case stderrors.Is(err, service.ErrInvalidQuantity):
			errors.BadRequest(c, errors.CartInvalidQuantity, "La quantité doit être supérieure à zéro")
		default:
			log.Error("Failed to add item to cart", err, map[string]interface{}{
				"user_id":    userID,
				"service_id": req.ServiceID,
			})
			errors.InternalError(c, "Impossible d'ajouter au panier")
		}
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"user_id":    userID,
		"service_id": req.ServiceID,
		"quantite":   quantity,
	})

	c.JSON(http.StatusCreated, cart)
}

// UpdateCartItem remplace la quantité d'une ligne (valeur absolue)
// PUT /api/cart/item/:serviceId
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	serviceID, ok := parseServiceID(c)
	if !ok {
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"user_id":    userID,
			"service_id": serviceID,
			"error":      err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Données de panier invalides")
		return
	}

	cart, err := ctrl.cartService.UpdateItem(userID, serviceID, *req.Quantite)
	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrInvalidQuantity):
			errors.BadRequest(c, errors.CartInvalidQuantity, "La quantité doit être supérieure à zéro")
		case stderrors.Is(err, service.ErrCartItemNotFound):
			errors.NotFound(c, errors.CartItemNotFound, "Article non trouvé")
		default:
			log.Error("Failed to update cart item", err, map[string]interface{}{
				"user_id":    userID,
				"service_id": serviceID,
			})
			errors.InternalError(c, "Impossible de modifier le panier")
		}
		return
	}

	c.JSON(http.StatusOK, cart)
}

// RemoveCartItem retire une ligne du panier
// DELETE /api/cart/item/:serviceId
func (ctrl *CartController) RemoveCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	serviceID, ok := parseServiceID(c)
	if !ok {
		return
	}

	cart, err := ctrl.cartService.RemoveItem(userID, serviceID)
	if err != nil {
		if stderrors.Is(err, service.ErrCartItemNotFound) {
			errors.NotFound(c, errors.CartItemNotFound, "Article non trouvé")
			return
		}
		log.Error("Failed to remove cart item", err, map[string]interface{}{
			"user_id":    userID,
			"service_id": serviceID,
		})
		errors.InternalError(c, "Impossible de modifier le panier")
		return
	}

	c.JSON(http.StatusOK, cart)
}

// ClearCart vide le panier et renvoie un tableau vide
// DELETE /api/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	cart, err := ctrl.cartService.ClearCart(userID)
	if err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "Impossible de vider le panier")
		return
	}

	c.JSON(http.StatusOK, cart)
}

func parseServiceID(c *gin.Context) (uint, bool) {
	idStr := c.Param("serviceId")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Identifiant de service invalide")
		return 0, false
	}
	return uint(id), true
}
