package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse structure standard des réponses d'erreur
type ErrorResponse struct {
	Error   string `json:"error"`   // code d'erreur (pour le mapping frontend)
	Message string `json:"message"` // message utilisateur en français
}

// RespondWithError envoie une réponse d'erreur standardisée
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Raccourcis pour les réponses fréquentes

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Connexion requise"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Accès refusé"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Erreur serveur. Veuillez réessayer plus tard"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationError réponse de validation avec détail par champ
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationInvalidInput,
		Message: "Les données fournies sont invalides",
		Fields:  fields,
	})
}
