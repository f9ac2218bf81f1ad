package repository

import (
	"github.com/mlegrand/portfolio-backend/internal/app/model"
	"github.com/mlegrand/portfolio-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindByID(id uint) (*model.Category, error)
	FindBySlug(slug string) (*model.Category, error)
	FindAll() ([]model.Category, error)
	FindAllWithTree() ([]model.Category, error)
	Update(category *model.Category) error
	Delete(id uint) error

	CreateSubCategory(sub *model.SubCategory) error
	FindSubCategoryByID(id uint) (*model.SubCategory, error)
	FindSubCategories(categoryID uint) ([]model.SubCategory, error)
	FindAllSubCategories() ([]model.SubCategory, error)
	UpdateSubCategory(sub *model.SubCategory) error
	DeleteSubCategory(id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"nom":  category.Nom,
		"slug": category.Slug,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"nom": category.Nom,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.Preload("SousCategories").First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindBySlug(slug string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("slugs = ?", slug).Preload("SousCategories").First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Order("nom ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to list categories in database", err, nil)
		return nil, err
	}
	return categories, nil
}

// FindAllWithTree charge l'arborescence complète pour le menu de navigation.
func (r *categoryRepository) FindAllWithTree() ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Order("nom ASC").
		Preload("SousCategories", func(db *gorm.DB) *gorm.DB {
			return db.Order("sous_categorie.nom ASC")
		}).
		Find(&categories).Error
	if err != nil {
		logger.Error("Failed to load category tree from database", err, nil)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Update(category *model.Category) error {
	logger.Debug("Updating category in database", map[string]interface{}{
		"category_id": category.ID,
	})

	if err := r.db.Save(category).Error; err != nil {
		logger.Error("Failed to update category in database", err, map[string]interface{}{
			"category_id": category.ID,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) Delete(id uint) error {
	logger.Debug("Deleting category from database", map[string]interface{}{
		"category_id": id,
	})

	if err := r.db.Delete(&model.Category{}, id).Error; err != nil {
		logger.Error("Failed to delete category from database", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) CreateSubCategory(sub *model.SubCategory) error {
	logger.Debug("Creating sub-category in database", map[string]interface{}{
		"nom":          sub.Nom,
		"id_categorie": sub.CategoryID,
	})

	if err := r.db.Create(sub).Error; err != nil {
		logger.Error("Failed to create sub-category in database", err, map[string]interface{}{
			"nom": sub.Nom,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) FindSubCategoryByID(id uint) (*model.SubCategory, error) {
	var sub model.SubCategory
	if err := r.db.Preload("Category").First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *categoryRepository) FindSubCategories(categoryID uint) ([]model.SubCategory, error) {
	var subs []model.SubCategory
	if err := r.db.Where("id_categorie = ?", categoryID).Order("nom ASC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *categoryRepository) FindAllSubCategories() ([]model.SubCategory, error) {
	var subs []model.SubCategory
	if err := r.db.Preload("Category").Order("nom ASC").Find(&subs).Error; err != nil {
		logger.Error("Failed to list sub-categories in database", err, nil)
		return nil, err
	}
	return subs, nil
}

func (r *categoryRepository) UpdateSubCategory(sub *model.SubCategory) error {
	if err := r.db.Save(sub).Error; err != nil {
		logger.Error("Failed to update sub-category in database", err, map[string]interface{}{
			"sub_category_id": sub.ID,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) DeleteSubCategory(id uint) error {
	if err := r.db.Delete(&model.SubCategory{}, id).Error; err != nil {
		logger.Error("Failed to delete sub-category from database", err, map[string]interface{}{
			"sub_category_id": id,
		})
		return err
	}
	return nil
}
