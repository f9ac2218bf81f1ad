package service

import (
	"encoding/json"
	"testing"

	"github.com/mlegrand/portfolio-backend/internal/app/repository"
	"github.com/mlegrand/portfolio-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCatalogServiceTest(t *testing.T) (*gorm.DB, CatalogService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	categoryRepo := repository.NewCategoryRepository(testDB)
	serviceRepo := repository.NewServiceRepository(testDB)
	return testDB, NewCatalogService(categoryRepo, serviceRepo)
}

func TestCatalogService_CreateCategory_GeneratesSlug(t *testing.T) {
	testDB, svc := setupCatalogServiceTest(t)
	defer db.CleanupTestDB(testDB)

	category, err := svc.CreateCategory("Développement web")
	require.NoError(t, err)
	assert.Equal(t, "developpement-web", category.Slug)
}

func TestCatalogService_GetNavigation(t *testing.T) {
	testDB, svc := setupCatalogServiceTest(t)
	defer db.CleanupTestDB(testDB)

	category, err := svc.CreateCategory("Développement web")
	require.NoError(t, err)
	_, err = svc.CreateSubCategory("Sites vitrines", category.ID)
	require.NoError(t, err)
	_, err = svc.CreateSubCategory("Boutiques en ligne", category.ID)
	require.NoError(t, err)

	nav, err := svc.GetNavigation()
	require.NoError(t, err)
	require.Len(t, nav, 1)
	assert.Equal(t, "developpement-web", nav[0].Slug)
	require.Len(t, nav[0].SousCategories, 2)
	// tri alphabétique sur le nom
	assert.Equal(t, "boutiques-en-ligne", nav[0].SousCategories[0].Slug)

	// les slugs partent sous les clés attendues par le menu
	data, err := json.Marshal(nav[0])
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "developpement-web", decoded["main_category_slugs"])
}

func TestCatalogService_CreateSubCategory_UnknownCategory(t *testing.T) {
	testDB, svc := setupCatalogServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.CreateSubCategory("Sites vitrines", 999)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCatalogService_ServiceLifecycle(t *testing.T) {
	testDB, svc := setupCatalogServiceTest(t)
	defer db.CleanupTestDB(testDB)

	category, err := svc.CreateCategory("Développement web")
	require.NoError(t, err)
	sub, err := svc.CreateSubCategory("Sites vitrines", category.ID)
	require.NoError(t, err)

	created, err := svc.CreateService(ServiceInput{
		Nom:           "Site vitrine 5 pages",
		Description:   "Un site complet de 5 pages",
		Prix:          1200,
		SubCategoryID: sub.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "site-vitrine-5-pages", created.Slug)
	assert.True(t, created.EstDisponible)

	view, err := svc.GetServiceBySlug("site-vitrine-5-pages")
	require.NoError(t, err)
	assert.Equal(t, "sites-vitrines", view.SubCategorySlug)
	assert.Equal(t, "developpement-web", view.CategorySlug)

	disponible := false
	updated, err := svc.UpdateService(created.ID, ServiceInput{
		Nom:           "Site vitrine 8 pages",
		Description:   created.Description,
		Prix:          1600,
		EstDisponible: &disponible,
		SubCategoryID: sub.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "site-vitrine-8-pages", updated.Slug)
	assert.False(t, updated.EstDisponible)

	require.NoError(t, svc.DeleteService(created.ID))
	_, err = svc.GetServiceByID(created.ID)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestCatalogService_CreateService_UnavailablePersists(t *testing.T) {
	testDB, svc := setupCatalogServiceTest(t)
	defer db.CleanupTestDB(testDB)

	category, err := svc.CreateCategory("Développement web")
	require.NoError(t, err)
	sub, err := svc.CreateSubCategory("Sites vitrines", category.ID)
	require.NoError(t, err)

	off := false
	created, err := svc.CreateService(ServiceInput{Nom: "Offre retirée", Prix: 900, EstDisponible: &off, SubCategoryID: sub.ID})
	require.NoError(t, err)

	// relire depuis la base : l'indisponibilité survit à l'insertion
	reloaded, err := svc.GetServiceByID(created.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.EstDisponible)
}

func TestCatalogService_ListServices_FilterAvailable(t *testing.T) {
	testDB, svc := setupCatalogServiceTest(t)
	defer db.CleanupTestDB(testDB)

	category, err := svc.CreateCategory("Développement web")
	require.NoError(t, err)
	sub, err := svc.CreateSubCategory("Sites vitrines", category.ID)
	require.NoError(t, err)

	_, err = svc.CreateService(ServiceInput{Nom: "Site vitrine", Prix: 1200, SubCategoryID: sub.ID})
	require.NoError(t, err)
	off := false
	_, err = svc.CreateService(ServiceInput{Nom: "Ancienne offre", Prix: 900, EstDisponible: &off, SubCategoryID: sub.ID})
	require.NoError(t, err)

	views, err := svc.ListServices(repository.ServiceFilter{OnlyAvailable: true})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Site vitrine", views[0].Nom)
}

func TestServiceView_MarshalJSON_PriceAsDecimalString(t *testing.T) {
	view := ServiceView{
		ID:   1,
		Nom:  "Audit SEO",
		Slug: "audit-seo",
		Prix: 450.5,
	}

	data, err := json.Marshal(view)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "450.50", decoded["prix"])
}

func TestCatalogService_DeleteCategory_NotFound(t *testing.T) {
	testDB, svc := setupCatalogServiceTest(t)
	defer db.CleanupTestDB(testDB)

	err := svc.DeleteCategory(999)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
