package controller

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mlegrand/portfolio-backend/internal/app/model"
	"github.com/mlegrand/portfolio-backend/internal/app/service"
	"github.com/mlegrand/portfolio-backend/internal/errors"
	"github.com/mlegrand/portfolio-backend/internal/export"
	"github.com/mlegrand/portfolio-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type GuestOrderLineRequest struct {
	ServiceID uint `json:"service_id" binding:"required"`
	Quantite  int  `json:"quantite" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	ClientNom   string                  `json:"client_nom" binding:"required"`
	ClientEmail string                  `json:"client_email" binding:"required,email"`
	ClientNotes string                  `json:"client_notes"`
	Items       []GuestOrderLineRequest `json:"items"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

// CreateOrder valide une commande. Connecté : le panier serveur est
// transformé puis vidé. Invité : les lignes viennent du corps de la requête.
// POST /api/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid order request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Données de commande invalides")
		return
	}

	input := service.CheckoutInput{
		ClientNom:   req.ClientNom,
		ClientEmail: req.ClientEmail,
		ClientNotes: req.ClientNotes,
	}

	var (
		order *model.Order
		err   error
	)
	if userID, authenticated := middleware.GetUserID(c); authenticated {
		order, err = ctrl.orderService.CreateFromCart(userID, input)
	} else {
		lines := make([]service.GuestOrderLine, 0, len(req.Items))
		for _, item := range req.Items {
			lines = append(lines, service.GuestOrderLine{
				ServiceID: item.ServiceID,
				Quantite:  item.Quantite,
			})
		}
		order, err = ctrl.orderService.CreateGuestOrder(input, lines)
	}

	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrEmptyCart):
			errors.BadRequest(c, errors.OrderEmptyCart, "Le panier est vide")
		case stderrors.Is(err, service.ErrServiceNotFound):
			errors.NotFound(c, errors.ServiceNotFound, "Un service de la commande est introuvable")
		case stderrors.Is(err, service.ErrServiceUnavailable):
			errors.NotFound(c, errors.ServiceUnavailable, "Un service de la commande n'est plus disponible")
		case stderrors.Is(err, service.ErrInvalidQuantity):
			errors.BadRequest(c, errors.CartInvalidQuantity, "Quantité invalide dans la commande")
		default:
			log.Error("Failed to create order", err, map[string]interface{}{
				"client_email": req.ClientEmail,
			})
			errors.InternalError(c, "Impossible de créer la commande")
		}
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetUserOrders liste les commandes de l'utilisateur connecté
// GET /api/orders/user
func (ctrl *OrderController) GetUserOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		log.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder renvoie une commande, réservée à son propriétaire ou à un Admin
// GET /api/orders/:orderId
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrder(orderID)
	if err != nil {
		if stderrors.Is(err, service.ErrOrderNotFound) {
			errors.NotFound(c, errors.OrderNotFound, "Commande introuvable")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		errors.InternalError(c, "")
		return
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)
	isOwner := order.UserID != nil && *order.UserID == userID
	if !isOwner && role != model.RoleAdmin {
		log.Warn("Order access denied", map[string]interface{}{
			"order_id": orderID,
			"user_id":  userID,
		})
		errors.NotFound(c, errors.OrderNotFound, "Commande introuvable")
		return
	}

	c.JSON(http.StatusOK, order)
}

// GetAllOrders liste toutes les commandes pour le tableau de bord
// GET /api/orders/admin
func (ctrl *OrderController) GetAllOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orders, err := ctrl.orderService.GetAllOrders()
	if err != nil {
		log.Error("Failed to fetch all orders", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// ExportOrders télécharge les commandes au format Excel
// GET /api/orders/admin/export?from=2026-01-01&to=2026-02-01
func (ctrl *OrderController) ExportOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var (
		orders []model.Order
		err    error
	)

	fromStr, toStr := c.Query("from"), c.Query("to")
	if fromStr != "" || toStr != "" {
		from, errFrom := time.Parse("2006-01-02", fromStr)
		to, errTo := time.Parse("2006-01-02", toStr)
		if errFrom != nil || errTo != nil {
			errors.BadRequest(c, errors.ValidationInvalidInput, "Période invalide (format attendu AAAA-MM-JJ)")
			return
		}
		orders, err = ctrl.orderService.GetOrdersBetween(from, to.AddDate(0, 0, 1))
	} else {
		orders, err = ctrl.orderService.GetAllOrders()
	}
	if err != nil {
		log.Error("Failed to fetch orders for export", err, nil)
		errors.InternalError(c, "")
		return
	}

	f, err := export.OrdersToXLSX(orders)
	if err != nil {
		log.Error("Failed to build orders export", err, nil)
		errors.InternalError(c, "Impossible de générer l'export")
		return
	}
	defer f.Close()

	filename := export.ExportFilename(time.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to stream orders export", err, nil)
	}

	log.Info("Orders exported", map[string]interface{}{
		"order_count": len(orders),
		"filename":    filename,
	})
}

// UpdateOrderStatus change le statut d'une commande
// PUT /api/orders/:orderId
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Statut manquant")
		return
	}

	order, err := ctrl.orderService.UpdateStatus(orderID, req.Status)
	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrInvalidOrderStatus):
			errors.BadRequest(c, errors.OrderInvalidStatus, "Statut de commande invalide")
		case stderrors.Is(err, service.ErrOrderNotFound):
			errors.NotFound(c, errors.OrderNotFound, "Commande introuvable")
		default:
			log.Error("Failed to update order status", err, map[string]interface{}{
				"order_id": orderID,
			})
			errors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, order)
}
