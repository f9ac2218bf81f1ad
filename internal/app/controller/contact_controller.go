package controller

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mlegrand/portfolio-backend/internal/app/service"
	"github.com/mlegrand/portfolio-backend/internal/errors"
	"github.com/mlegrand/portfolio-backend/internal/middleware"
)

type ContactController struct {
	contactService service.ContactService
}

func NewContactController(contactService service.ContactService) *ContactController {
	return &ContactController{
		contactService: contactService,
	}
}

type ContactRequest struct {
	Nom       string `json:"nom" binding:"required"`
	Prenom    string `json:"prenom" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Telephone string `json:"telephone"`
	Objet     string `json:"objet" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// SubmitMessage reçoit le formulaire de contact du site public
// POST /api/contact
func (ctrl *ContactController) SubmitMessage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid contact request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Tous les champs obligatoires doivent être remplis")
		return
	}

	message, err := ctrl.contactService.Create(service.ContactInput{
		Nom:       req.Nom,
		Prenom:    req.Prenom,
		Email:     req.Email,
		Telephone: req.Telephone,
		Objet:     req.Objet,
		Message:   req.Message,
	})
	if err != nil {
		log.Error("Failed to save contact message", err, map[string]interface{}{
			"email": req.Email,
		})
		errors.InternalError(c, "Impossible d'envoyer le message")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Votre message a bien été envoyé",
		"id":      message.ID,
	})
}

// GetMessages liste les messages reçus pour le tableau de bord
// GET /api/contact
func (ctrl *ContactController) GetMessages(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	messages, err := ctrl.contactService.GetAll()
	if err != nil {
		log.Error("Failed to list contact messages", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, messages)
}

// GetMessage renvoie un message
// GET /api/contact/:id
func (ctrl *ContactController) GetMessage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	message, err := ctrl.contactService.GetByID(id)
	if err != nil {
		if stderrors.Is(err, service.ErrContactMessageNotFound) {
			errors.NotFound(c, errors.ContactMessageNotFound, "Message introuvable")
			return
		}
		log.Error("Failed to fetch contact message", err, map[string]interface{}{
			"message_id": id,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, message)
}

// DeleteMessage supprime un message traité
// DELETE /api/contact/:id
func (ctrl *ContactController) DeleteMessage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.contactService.Delete(id); err != nil {
		if stderrors.Is(err, service.ErrContactMessageNotFound) {
			errors.NotFound(c, errors.ContactMessageNotFound, "Message introuvable")
			return
		}
		log.Error("Failed to delete contact message", err, map[string]interface{}{
			"message_id": id,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message supprimé"})
}
