package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mlegrand/portfolio-backend/internal/errors"
	"github.com/mlegrand/portfolio-backend/internal/middleware"
	"github.com/mlegrand/portfolio-backend/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type UploadImageRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

var allowedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}

// GenerateImageUploadURL renvoie une URL pré-signée pour téléverser un
// visuel de service vers S3 depuis le tableau de bord
// POST /api/upload/image
func (ctrl *UploadController) GenerateImageUploadURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req UploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid upload request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Nom de fichier et type de contenu obligatoires")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedImageTypes); err != nil {
		log.Warn("Rejected upload content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		errors.BadRequest(c, errors.UploadInvalidFileType, "Seules les images sont acceptées (JPEG, PNG, GIF, WEBP)")
		return
	}

	response, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, "services")
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
		})
		errors.RespondWithError(c, http.StatusInternalServerError, errors.UploadFailed, "Impossible de préparer le téléversement")
		return
	}

	log.Info("Presigned upload URL generated", map[string]interface{}{
		"key": response.Key,
	})

	c.JSON(http.StatusOK, response)
}
