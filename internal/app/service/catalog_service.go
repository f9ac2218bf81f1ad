package service

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/mlegrand/portfolio-backend/internal/app/model"
	"github.com/mlegrand/portfolio-backend/internal/app/repository"
	"github.com/mlegrand/portfolio-backend/pkg/logger"
	"github.com/mlegrand/portfolio-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubCategoryNotFound = errors.New("sub-category not found")
)

// NavigationCategory entrée du menu de navigation public, avec ses
// sous-catégories. Les slugs portent les noms attendus par le frontend.
type NavigationCategory struct {
	Nom            string                  `json:"nom"`
	Slug           string                  `json:"main_category_slugs"`
	SousCategories []NavigationSubCategory `json:"sous_categories"`
}

type NavigationSubCategory struct {
	Nom  string `json:"nom"`
	Slug string `json:"sub_category_slugs"`
}

// ServiceView projection publique d'un service, prix en chaîne décimale.
type ServiceView struct {
	ID              uint
	Nom             string
	Slug            string
	Description     string
	Prix            float64
	ImageURL        string
	EstDisponible   bool
	Tags            []string
	SubCategorySlug string
	CategorySlug    string
}

func (v ServiceView) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID              uint     `json:"id"`
		Nom             string   `json:"nom"`
		Slug            string   `json:"slugs"`
		Description     string   `json:"description"`
		Prix            string   `json:"prix"`
		ImageURL        string   `json:"image_url"`
		EstDisponible   bool     `json:"est_disponible"`
		Tags            []string `json:"tags,omitempty"`
		SubCategorySlug string   `json:"sub_category_slugs,omitempty"`
		CategorySlug    string   `json:"main_category_slugs,omitempty"`
	}
	return json.Marshal(wire{
		ID:              v.ID,
		Nom:             v.Nom,
		Slug:            v.Slug,
		Description:     v.Description,
		Prix:            strconv.FormatFloat(v.Prix, 'f', 2, 64),
		ImageURL:        v.ImageURL,
		EstDisponible:   v.EstDisponible,
		Tags:            v.Tags,
		SubCategorySlug: v.SubCategorySlug,
		CategorySlug:    v.CategorySlug,
	})
}

func toServiceView(svc *model.Service) ServiceView {
	return ServiceView{
		ID:              svc.ID,
		Nom:             svc.Nom,
		Slug:            svc.Slug,
		Description:     svc.Description,
		Prix:            svc.Prix,
		ImageURL:        svc.ImageURL,
		EstDisponible:   svc.EstDisponible,
		Tags:            svc.Tags,
		SubCategorySlug: svc.SousCategorie.Slug,
		CategorySlug:    svc.SousCategorie.Category.Slug,
	}
}

type ServiceInput struct {
	Nom           string
	Description   string
	Prix          float64
	ImageURL      string
	EstDisponible *bool
	Tags          []string
	SubCategoryID uint
}

type CatalogService interface {
	// navigation et lecture publique
	GetNavigation() ([]NavigationCategory, error)
	ListServices(filter repository.ServiceFilter) ([]ServiceView, error)
	GetServiceBySlug(slug string) (*ServiceView, error)

	// gestion des catégories (tableau de bord)
	GetCategories() ([]model.Category, error)
	CreateCategory(nom string) (*model.Category, error)
	UpdateCategory(id uint, nom string) (*model.Category, error)
	DeleteCategory(id uint) error

	// gestion des sous-catégories
	GetSubCategories() ([]model.SubCategory, error)
	CreateSubCategory(nom string, categoryID uint) (*model.SubCategory, error)
	UpdateSubCategory(id uint, nom string, categoryID uint) (*model.SubCategory, error)
	DeleteSubCategory(id uint) error

	// gestion des services
	GetServiceByID(id uint) (*model.Service, error)
	CreateService(input ServiceInput) (*model.Service, error)
	UpdateService(id uint, input ServiceInput) (*model.Service, error)
	DeleteService(id uint) error
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	serviceRepo  repository.ServiceRepository
}

func NewCatalogService(categoryRepo repository.CategoryRepository, serviceRepo repository.ServiceRepository) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		serviceRepo:  serviceRepo,
	}
}

// GetNavigation construit l'arborescence du menu du site public.
func (s *catalogService) GetNavigation() ([]NavigationCategory, error) {
	categories, err := s.categoryRepo.FindAllWithTree()
	if err != nil {
		return nil, err
	}

	nav := make([]NavigationCategory, 0, len(categories))
	for _, cat := range categories {
		subs := make([]NavigationSubCategory, 0, len(cat.SousCategories))
		for _, sub := range cat.SousCategories {
			subs = append(subs, NavigationSubCategory{
				Nom:  sub.Nom,
				Slug: sub.Slug,
			})
		}
		nav = append(nav, NavigationCategory{
			Nom:            cat.Nom,
			Slug:           cat.Slug,
			SousCategories: subs,
		})
	}
	return nav, nil
}

func (s *catalogService) ListServices(filter repository.ServiceFilter) ([]ServiceView, error) {
	services, err := s.serviceRepo.FindAll(filter)
	if err != nil {
		return nil, err
	}

	views := make([]ServiceView, 0, len(services))
	for i := range services {
		views = append(views, toServiceView(&services[i]))
	}
	return views, nil
}

func (s *catalogService) GetServiceBySlug(slug string) (*ServiceView, error) {
	svc, err := s.serviceRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	view := toServiceView(svc)
	return &view, nil
}

func (s *catalogService) GetCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *catalogService) CreateCategory(nom string) (*model.Category, error) {
	logger.Info("Creating category", map[string]interface{}{
		"nom": nom,
	})

	category := &model.Category{
		Nom:  nom,
		Slug: util.Slugify(nom),
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) UpdateCategory(id uint, nom string) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	category.Nom = nom
	category.Slug = util.Slugify(nom)
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(id uint) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return s.categoryRepo.Delete(id)
}

func (s *catalogService) GetSubCategories() ([]model.SubCategory, error) {
	return s.categoryRepo.FindAllSubCategories()
}

func (s *catalogService) CreateSubCategory(nom string, categoryID uint) (*model.SubCategory, error) {
	logger.Info("Creating sub-category", map[string]interface{}{
		"nom":          nom,
		"id_categorie": categoryID,
	})

	if _, err := s.categoryRepo.FindByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	sub := &model.SubCategory{
		Nom:        nom,
		Slug:       util.Slugify(nom),
		CategoryID: categoryID,
	}
	if err := s.categoryRepo.CreateSubCategory(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *catalogService) UpdateSubCategory(id uint, nom string, categoryID uint) (*model.SubCategory, error) {
	sub, err := s.categoryRepo.FindSubCategoryByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubCategoryNotFound
		}
		return nil, err
	}

	if categoryID != 0 && categoryID != sub.CategoryID {
		if _, err := s.categoryRepo.FindByID(categoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		sub.CategoryID = categoryID
	}

	sub.Nom = nom
	sub.Slug = util.Slugify(nom)
	if err := s.categoryRepo.UpdateSubCategory(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *catalogService) DeleteSubCategory(id uint) error {
	if _, err := s.categoryRepo.FindSubCategoryByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubCategoryNotFound
		}
		return err
	}
	return s.categoryRepo.DeleteSubCategory(id)
}

func (s *catalogService) GetServiceByID(id uint) (*model.Service, error) {
	svc, err := s.serviceRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return svc, nil
}

func (s *catalogService) CreateService(input ServiceInput) (*model.Service, error) {
	logger.Info("Creating service", map[string]interface{}{
		"nom":               input.Nom,
		"id_sous_categorie": input.SubCategoryID,
	})

	if _, err := s.categoryRepo.FindSubCategoryByID(input.SubCategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubCategoryNotFound
		}
		return nil, err
	}

	disponible := true
	if input.EstDisponible != nil {
		disponible = *input.EstDisponible
	}

	svc := &model.Service{
		Nom:           input.Nom,
		Slug:          util.Slugify(input.Nom),
		Description:   input.Description,
		Prix:          input.Prix,
		ImageURL:      input.ImageURL,
		EstDisponible: disponible,
		Tags:          input.Tags,
		SubCategoryID: input.SubCategoryID,
	}
	if err := s.serviceRepo.Create(svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *catalogService) UpdateService(id uint, input ServiceInput) (*model.Service, error) {
	svc, err := s.serviceRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	if input.SubCategoryID != 0 && input.SubCategoryID != svc.SubCategoryID {
		if _, err := s.categoryRepo.FindSubCategoryByID(input.SubCategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSubCategoryNotFound
			}
			return nil, err
		}
		svc.SubCategoryID = input.SubCategoryID
	}

	svc.Nom = input.Nom
	svc.Slug = util.Slugify(input.Nom)
	svc.Description = input.Description
	svc.Prix = input.Prix
	svc.ImageURL = input.ImageURL
	if input.EstDisponible != nil {
		svc.EstDisponible = *input.EstDisponible
	}
	if input.Tags != nil {
		svc.Tags = input.Tags
	}

	if err := s.serviceRepo.Update(svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *catalogService) DeleteService(id uint) error {
	if _, err := s.serviceRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrServiceNotFound
		}
		return err
	}
	return s.serviceRepo.Delete(id)
}
