package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mlegrand/portfolio-backend/internal/app/repository"
	"github.com/mlegrand/portfolio-backend/internal/app/service"
	"github.com/mlegrand/portfolio-backend/internal/errors"
	"github.com/mlegrand/portfolio-backend/internal/middleware"
)

// CatalogController sert le catalogue public (navigation, listes, fiches)
// et les opérations de gestion du tableau de bord.
type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

type CategoryRequest struct {
	Nom string `json:"nom" binding:"required"`
}

type SubCategoryRequest struct {
	Nom        string `json:"nom" binding:"required"`
	CategoryID uint   `json:"id_categorie"`
}

type ServiceRequest struct {
	Nom           string   `json:"nom" binding:"required"`
	Description   string   `json:"description"`
	Prix          float64  `json:"prix" binding:"required,gt=0"`
	ImageURL      string   `json:"image_url"`
	EstDisponible *bool    `json:"est_disponible"`
	Tags          []string `json:"tags"`
	SubCategoryID uint     `json:"id_sous_categorie" binding:"required"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Identifiant invalide")
		return 0, false
	}
	return uint(id), true
}

// GetNavigation renvoie l'arborescence catégories/sous-catégories du menu
// GET /api/services/navigation
func (ctrl *CatalogController) GetNavigation(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	nav, err := ctrl.catalogService.GetNavigation()
	if err != nil {
		log.Error("Failed to build navigation tree", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, nav)
}

// ListServices renvoie les services filtrés pour la page catalogue
// GET /api/services/list?mainCat=...&subCat=...&q=...
func (ctrl *CatalogController) ListServices(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ServiceFilter{
		CategorySlug:    c.Query("mainCat"),
		SubCategorySlug: c.Query("subCat"),
		Search:          c.Query("q"),
		OnlyAvailable:   true,
	}

	services, err := ctrl.catalogService.ListServices(filter)
	if err != nil {
		log.Error("Failed to list services", err, map[string]interface{}{
			"main_cat": filter.CategorySlug,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, services)
}

// GetServiceDetail renvoie la fiche publique d'un service
// GET /api/services/detail/:serviceSlug
func (ctrl *CatalogController) GetServiceDetail(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	slug := c.Param("serviceSlug")

	view, err := ctrl.catalogService.GetServiceBySlug(slug)
	if err != nil {
		if stderrors.Is(err, service.ErrServiceNotFound) {
			errors.NotFound(c, errors.ServiceNotFound, "Service introuvable")
			return
		}
		log.Error("Failed to fetch service detail", err, map[string]interface{}{
			"slug": slug,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, view)
}

// ==================== Catégories (Admin) ====================

// GetCategories liste toutes les catégories
// GET /api/categories
func (ctrl *CatalogController) GetCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.catalogService.GetCategories()
	if err != nil {
		log.Error("Failed to list categories", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, categories)
}

// CreateCategory crée une catégorie, slug généré depuis le nom
// POST /api/categories
func (ctrl *CatalogController) CreateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Le nom de la catégorie est obligatoire")
		return
	}

	category, err := ctrl.catalogService.CreateCategory(req.Nom)
	if err != nil {
		info := errors.ParseError(err, "category create")
		log.Error("Failed to create category", err, map[string]interface{}{
			"nom": req.Nom,
		})
		if info.Code == errors.CategoryNameExists || info.Code == errors.ResourceAlreadyExists {
			errors.Conflict(c, info.Code, info.Message)
			return
		}
		errors.InternalError(c, info.Message)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory renomme une catégorie (le slug suit)
// PUT /api/categories/:id
func (ctrl *CatalogController) UpdateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Le nom de la catégorie est obligatoire")
		return
	}

	category, err := ctrl.catalogService.UpdateCategory(id, req.Nom)
	if err != nil {
		if stderrors.Is(err, service.ErrCategoryNotFound) {
			errors.NotFound(c, errors.CategoryNotFound, "Catégorie introuvable")
			return
		}
		log.Error("Failed to update category", err, map[string]interface{}{
			"category_id": id,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory supprime une catégorie vide
// DELETE /api/categories/:id
func (ctrl *CatalogController) DeleteCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.catalogService.DeleteCategory(id); err != nil {
		if stderrors.Is(err, service.ErrCategoryNotFound) {
			errors.NotFound(c, errors.CategoryNotFound, "Catégorie introuvable")
			return
		}
		info := errors.ParseError(err, "category delete")
		log.Error("Failed to delete category", err, map[string]interface{}{
			"category_id": id,
		})
		if info.Code == errors.ResourceConflict {
			errors.Conflict(c, info.Code, info.Message)
			return
		}
		errors.InternalError(c, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Catégorie supprimée"})
}

// ==================== Sous-catégories (Admin) ====================

// GetSubCategories liste les sous-catégories avec leur catégorie parente
// GET /api/sous-categories
func (ctrl *CatalogController) GetSubCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	subs, err := ctrl.catalogService.GetSubCategories()
	if err != nil {
		log.Error("Failed to list sub-categories", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, subs)
}

// CreateSubCategory crée une sous-catégorie rattachée à une catégorie
// POST /api/sous-categories
func (ctrl *CatalogController) CreateSubCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CategoryID == 0 {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Nom et catégorie parente obligatoires")
		return
	}

	sub, err := ctrl.catalogService.CreateSubCategory(req.Nom, req.CategoryID)
	if err != nil {
		if stderrors.Is(err, service.ErrCategoryNotFound) {
			errors.NotFound(c, errors.CategoryNotFound, "Catégorie parente introuvable")
			return
		}
		log.Error("Failed to create sub-category", err, map[string]interface{}{
			"nom": req.Nom,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// UpdateSubCategory modifie une sous-catégorie
// PUT /api/sous-categories/:id
func (ctrl *CatalogController) UpdateSubCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Le nom est obligatoire")
		return
	}

	sub, err := ctrl.catalogService.UpdateSubCategory(id, req.Nom, req.CategoryID)
	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrSubCategoryNotFound):
			errors.NotFound(c, errors.SubCategoryNotFound, "Sous-catégorie introuvable")
		case stderrors.Is(err, service.ErrCategoryNotFound):
			errors.NotFound(c, errors.CategoryNotFound, "Catégorie parente introuvable")
		default:
			log.Error("Failed to update sub-category", err, map[string]interface{}{
				"sub_category_id": id,
			})
			errors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, sub)
}

// DeleteSubCategory supprime une sous-catégorie vide
// DELETE /api/sous-categories/:id
func (ctrl *CatalogController) DeleteSubCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.catalogService.DeleteSubCategory(id); err != nil {
		if stderrors.Is(err, service.ErrSubCategoryNotFound) {
			errors.NotFound(c, errors.SubCategoryNotFound, "Sous-catégorie introuvable")
			return
		}
		info := errors.ParseError(err, "category delete")
		log.Error("Failed to delete sub-category", err, map[string]interface{}{
			"sub_category_id": id,
		})
		if info.Code == errors.ResourceConflict {
			errors.Conflict(c, info.Code, info.Message)
			return
		}
		errors.InternalError(c, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sous-catégorie supprimée"})
}

// ==================== Services (Admin) ====================

// ListServicesAdmin liste tous les services, disponibles ou non
// GET /api/services-crud
func (ctrl *CatalogController) ListServicesAdmin(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	services, err := ctrl.catalogService.ListServices(repository.ServiceFilter{})
	if err != nil {
		log.Error("Failed to list services for admin", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, services)
}

// CreateService crée un service dans le catalogue
// POST /api/services-crud
func (ctrl *CatalogController) CreateService(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Données de service invalides")
		return
	}

	svc, err := ctrl.catalogService.CreateService(service.ServiceInput{
		Nom:           req.Nom,
		Description:   req.Description,
		Prix:          req.Prix,
		ImageURL:      req.ImageURL,
		EstDisponible: req.EstDisponible,
		Tags:          req.Tags,
		SubCategoryID: req.SubCategoryID,
	})
	if err != nil {
		if stderrors.Is(err, service.ErrSubCategoryNotFound) {
			errors.NotFound(c, errors.SubCategoryNotFound, "Sous-catégorie introuvable")
			return
		}
		info := errors.ParseError(err, "service create")
		log.Error("Failed to create service", err, map[string]interface{}{
			"nom": req.Nom,
		})
		if info.Code == errors.ResourceAlreadyExists {
			errors.Conflict(c, errors.ServiceSlugExists, "Un service avec ce nom existe déjà")
			return
		}
		errors.InternalError(c, info.Message)
		return
	}

	c.JSON(http.StatusCreated, svc)
}

// UpdateService modifie un service
// PUT /api/services-crud/:id
func (ctrl *CatalogController) UpdateService(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Données de service invalides")
		return
	}

	svc, err := ctrl.catalogService.UpdateService(id, service.ServiceInput{
		Nom:           req.Nom,
		Description:   req.Description,
		Prix:          req.Prix,
		ImageURL:      req.ImageURL,
		EstDisponible: req.EstDisponible,
		Tags:          req.Tags,
		SubCategoryID: req.SubCategoryID,
	})
	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrServiceNotFound):
			errors.NotFound(c, errors.ServiceNotFound, "Service introuvable")
		case stderrors.Is(err, service.ErrSubCategoryNotFound):
			errors.NotFound(c, errors.SubCategoryNotFound, "Sous-catégorie introuvable")
		default:
			log.Error("Failed to update service", err, map[string]interface{}{
				"service_id": id,
			})
			errors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, svc)
}

// DeleteService retire un service du catalogue
// DELETE /api/services-crud/:id
func (ctrl *CatalogController) DeleteService(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.catalogService.DeleteService(id); err != nil {
		if stderrors.Is(err, service.ErrServiceNotFound) {
			errors.NotFound(c, errors.ServiceNotFound, "Service introuvable")
			return
		}
		info := errors.ParseError(err, "service delete")
		log.Error("Failed to delete service", err, map[string]interface{}{
			"service_id": id,
		})
		if info.Code == errors.ResourceConflict {
			errors.Conflict(c, info.Code, info.Message)
			return
		}
		errors.InternalError(c, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service supprimé"})
}
