package repository

import (
	"github.com/mlegrand/portfolio-backend/internal/app/model"
	"github.com/mlegrand/portfolio-backend/pkg/logger"
	"gorm.io/gorm"
)

// ServiceFilter critères de la page catalogue publique.
type ServiceFilter struct {
	CategorySlug    string // slug de catégorie principale
	SubCategorySlug string // slug de sous-catégorie
	Search          string // recherche plein texte sur nom/description
	OnlyAvailable   bool   // exclure les services indisponibles
}

type ServiceRepository interface {
	Create(service *model.Service) error
	FindByID(id uint) (*model.Service, error)
	FindBySlug(slug string) (*model.Service, error)
	FindAll(filter ServiceFilter) ([]model.Service, error)
	Update(service *model.Service) error
	Delete(id uint) error
}

type serviceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(service *model.Service) error {
	logger.Debug("Creating service in database", map[string]interface{}{
		"nom":  service.Nom,
		"slug": service.Slug,
	})

	if err := r.db.Create(service).Error; err != nil {
		logger.Error("Failed to create service in database", err, map[string]interface{}{
			"nom": service.Nom,
		})
		return err
	}
	return nil
}

func (r *serviceRepository) FindByID(id uint) (*model.Service, error) {
	var service model.Service
	if err := r.db.Preload("SousCategorie.Category").First(&service, id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) FindBySlug(slug string) (*model.Service, error) {
	var service model.Service
	err := r.db.Where("slugs = ?", slug).
		Preload("SousCategorie.Category").
		First(&service).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) FindAll(filter ServiceFilter) ([]model.Service, error) {
	logger.Debug("Finding services in database", map[string]interface{}{
		"category_slug":     filter.CategorySlug,
		"sub_category_slug": filter.SubCategorySlug,
		"search":            filter.Search,
	})

	query := r.db.Model(&model.Service{}).
		Joins("JOIN sous_categorie ON sous_categorie.id = services.id_sous_categorie").
		Joins("JOIN categories ON categories.id = sous_categorie.id_categorie").
		Preload("SousCategorie.Category")

	if filter.CategorySlug != "" {
		query = query.Where("categories.slugs = ?", filter.CategorySlug)
	}
	if filter.SubCategorySlug != "" {
		query = query.Where("sous_categorie.slugs = ?", filter.SubCategorySlug)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(services.nom) LIKE LOWER(?) OR LOWER(services.description) LIKE LOWER(?)", pattern, pattern)
	}
	if filter.OnlyAvailable {
		query = query.Where("services.est_disponible = ?", true)
	}

	var services []model.Service
	if err := query.Order("services.nom ASC").Find(&services).Error; err != nil {
		logger.Error("Failed to find services in database", err, map[string]interface{}{
			"category_slug": filter.CategorySlug,
		})
		return nil, err
	}

	logger.Debug("Services found in database", map[string]interface{}{
		"count": len(services),
	})
	return services, nil
}

func (r *serviceRepository) Update(service *model.Service) error {
	logger.Debug("Updating service in database", map[string]interface{}{
		"service_id": service.ID,
	})

	if err := r.db.Save(service).Error; err != nil {
		logger.Error("Failed to update service in database", err, map[string]interface{}{
			"service_id": service.ID,
		})
		return err
	}
	return nil
}

func (r *serviceRepository) Delete(id uint) error {
	logger.Debug("Deleting service from database", map[string]interface{}{
		"service_id": id,
	})

	if err := r.db.Delete(&model.Service{}, id).Error; err != nil {
		logger.Error("Failed to delete service from database", err, map[string]interface{}{
			"service_id": id,
		})
		return err
	}
	return nil
}
