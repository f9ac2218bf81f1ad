package service

import (
	"encoding/json"
	"testing"

	"github.com/mlegrand/portfolio-backend/internal/app/model"
	"github.com/mlegrand/portfolio-backend/internal/app/repository"
	"github.com/mlegrand/portfolio-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (*gorm.DB, CartService, *model.User, *model.Service) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	cartRepo := repository.NewCartRepository(testDB)
	serviceRepo := repository.NewServiceRepository(testDB)
	svc := NewCartService(cartRepo, serviceRepo)

	user := &model.User{
		Email:        "client@example.com",
		PasswordHash: "hash",
		Nom:          "Dupont",
		Prenom:       "Marie",
		Role:         model.RoleUtilisateur,
	}
	testDB.Create(user)

	category := &model.Category{Nom: "Développement web", Slug: "developpement-web"}
	testDB.Create(category)
	sub := &model.SubCategory{Nom: "Sites vitrines", Slug: "sites-vitrines", CategoryID: category.ID}
	testDB.Create(sub)

	service := &model.Service{
		Nom:           "Site vitrine 5 pages",
		Slug:          "site-vitrine-5-pages",
		Prix:          1200,
		EstDisponible: true,
		SubCategoryID: sub.ID,
	}
	testDB.Create(service)

	return testDB, svc, user, service
}

func TestCartService_AddToCart_NewLine(t *testing.T) {
	testDB, svc, user, service := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	cart, err := svc.AddToCart(user.ID, service.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, service.ID, cart[0].ServiceID)
	assert.Equal(t, 2, cart[0].Quantite)
	assert.Equal(t, 1200.0, cart[0].PrixUnitaire)
}

func TestCartService_AddToCart_ExistingLineAddsQuantities(t *testing.T) {
	testDB, svc, user, service := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.AddToCart(user.ID, service.ID, 2)
	require.NoError(t, err)

	cart, err := svc.AddToCart(user.ID, service.ID, 3)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, 5, cart[0].Quantite)
}

func TestCartService_AddToCart_RefreshesUnitPrice(t *testing.T) {
	testDB, svc, user, service := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.AddToCart(user.ID, service.ID, 1)
	require.NoError(t, err)

	// le prix catalogue change entre deux ajouts
	require.NoError(t, testDB.Model(service).Update("prix", 1500.0).Error)

	cart, err := svc.AddToCart(user.ID, service.ID, 1)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, 2, cart[0].Quantite)
	assert.Equal(t, 1500.0, cart[0].PrixUnitaire)
}

func TestCartService_AddToCart_ServiceNotFound(t *testing.T) {
	testDB, svc, user, _ := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.AddToCart(user.ID, 999, 1)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestCartService_AddToCart_ServiceUnavailable(t *testing.T) {
	testDB, svc, user, service := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, testDB.Model(service).Update("est_disponible", false).Error)

	_, err := svc.AddToCart(user.ID, service.ID, 1)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestCartService_UpdateItem_SetsAbsoluteQuantity(t *testing.T) {
	testDB, svc, user, service := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.AddToCart(user.ID, service.ID, 2)
	require.NoError(t, err)

	cart, err := svc.UpdateItem(user.ID, service.ID, 7)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, 7, cart[0].Quantite)
}

func TestCartService_UpdateItem_RejectsNonPositiveQuantity(t *testing.T) {
	testDB, svc, user, service := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.AddToCart(user.ID, service.ID, 2)
	require.NoError(t, err)

	_, err = svc.UpdateItem(user.ID, service.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.UpdateItem(user.ID, service.ID, -3)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_UpdateItem_NotFound(t *testing.T) {
	testDB, svc, user, service := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.UpdateItem(user.ID, service.ID, 3)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_RemoveItem(t *testing.T) {
	testDB, svc, user, service := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.AddToCart(user.ID, service.ID, 2)
	require.NoError(t, err)

	cart, err := svc.RemoveItem(user.ID, service.ID)
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestCartService_RemoveItem_NotFound(t *testing.T) {
	testDB, svc, user, service := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.RemoveItem(user.ID, service.ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_ClearCart_ReturnsEmptySlice(t *testing.T) {
	testDB, svc, user, service := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.AddToCart(user.ID, service.ID, 2)
	require.NoError(t, err)

	cart, err := svc.ClearCart(user.ID)
	require.NoError(t, err)
	assert.NotNil(t, cart)
	assert.Empty(t, cart)

	// sérialise en [] et non en null
	data, err := json.Marshal(cart)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestCartService_GetUserCart_InsertionOrder(t *testing.T) {
	testDB, svc, user, service := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	second := &model.Service{
		Nom:           "Audit SEO",
		Slug:          "audit-seo",
		Prix:          450,
		EstDisponible: true,
		SubCategoryID: service.SubCategoryID,
	}
	testDB.Create(second)

	_, err := svc.AddToCart(user.ID, service.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddToCart(user.ID, second.ID, 1)
	require.NoError(t, err)

	// incrémenter la première ligne ne change pas l'ordre
	cart, err := svc.AddToCart(user.ID, service.ID, 1)
	require.NoError(t, err)
	require.Len(t, cart, 2)
	assert.Equal(t, service.ID, cart[0].ServiceID)
	assert.Equal(t, second.ID, cart[1].ServiceID)
}

func TestCartService_GetUserCart_NavigationSlugs(t *testing.T) {
	testDB, svc, user, service := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.AddToCart(user.ID, service.ID, 1)
	require.NoError(t, err)

	// les slugs de catégorie remontent avec la ligne pour les liens
	// de navigation du panier
	cart, err := svc.GetUserCart(user.ID)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, "developpement-web", cart[0].MainCategorySlug)
	assert.Equal(t, "sites-vitrines", cart[0].SubCategorySlug)
}

func TestCartLine_MarshalJSON_PriceAsDecimalString(t *testing.T) {
	line := CartLine{
		ServiceID:        3,
		Nom:              "Audit SEO",
		Slug:             "audit-seo",
		MainCategorySlug: "marketing",
		SubCategorySlug:  "referencement",
		PrixUnitaire:     450,
		Quantite:         2,
	}

	data, err := json.Marshal(line)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "450.00", decoded["prix_unitaire"])
	assert.Equal(t, float64(2), decoded["quantite"])
	assert.Equal(t, "audit-seo", decoded["slugs"])
	assert.Equal(t, "marketing", decoded["main_category_slugs"])
	assert.Equal(t, "referencement", decoded["sub_category_slugs"])
}
