package service

import (
	"testing"

	"github.com/mlegrand/portfolio-backend/internal/app/model"
	"github.com/mlegrand/portfolio-backend/internal/app/repository"
	"github.com/mlegrand/portfolio-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(eventType string, payload interface{}) {
	p.events = append(p.events, eventType)
}

func setupOrderServiceTest(t *testing.T) (*gorm.DB, OrderService, CartService, *recordingPublisher, *model.User, *model.Service) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	cartRepo := repository.NewCartRepository(testDB)
	serviceRepo := repository.NewServiceRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)

	publisher := &recordingPublisher{}
	orderSvc := NewOrderService(testDB, orderRepo, cartRepo, serviceRepo, publisher)
	cartSvc := NewCartService(cartRepo, serviceRepo)

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

	return testDB, orderSvc, cartSvc, publisher, user, service
}

func TestOrderService_CreateFromCart(t *testing.T) {
	testDB, orderSvc, cartSvc, publisher, user, service := setupOrderServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := cartSvc.AddToCart(user.ID, service.ID, 2)
	require.NoError(t, err)

	order, err := orderSvc.CreateFromCart(user.ID, CheckoutInput{
		ClientNom:   "Marie Dupont",
		ClientEmail: "client@example.com",
	})
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.Equal(t, 2400.0, order.TotalAmount)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, "Site vitrine 5 pages", order.OrderItems[0].NomService)
	assert.Equal(t, 1200.0, order.OrderItems[0].PrixUnitaire)

	// le panier est vidé dans la même transaction
	cart, err := cartSvc.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart)

	assert.Contains(t, publisher.events, "order.created")
}

func TestOrderService_CreateFromCart_EmptyCart(t *testing.T) {
	testDB, orderSvc, _, _, user, _ := setupOrderServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := orderSvc.CreateFromCart(user.ID, CheckoutInput{
		ClientNom:   "Marie Dupont",
		ClientEmail: "client@example.com",
	})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderService_CreateGuestOrder(t *testing.T) {
	testDB, orderSvc, _, _, _, service := setupOrderServiceTest(t)
	defer db.CleanupTestDB(testDB)

	order, err := orderSvc.CreateGuestOrder(
		CheckoutInput{ClientNom: "Paul Martin", ClientEmail: "paul@example.com"},
		[]GuestOrderLine{{ServiceID: service.ID, Quantite: 3}},
	)
	require.NoError(t, err)
	assert.Nil(t, order.UserID)
	assert.Equal(t, 3600.0, order.TotalAmount)
}

func TestOrderService_CreateGuestOrder_UnknownService(t *testing.T) {
	testDB, orderSvc, _, _, _, _ := setupOrderServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := orderSvc.CreateGuestOrder(
		CheckoutInput{ClientNom: "Paul Martin", ClientEmail: "paul@example.com"},
		[]GuestOrderLine{{ServiceID: 999, Quantite: 1}},
	)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestOrderService_CreateGuestOrder_UnavailableService(t *testing.T) {
	testDB, orderSvc, _, _, _, service := setupOrderServiceTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, testDB.Model(service).Update("est_disponible", false).Error)

	_, err := orderSvc.CreateGuestOrder(
		CheckoutInput{ClientNom: "Paul Martin", ClientEmail: "paul@example.com"},
		[]GuestOrderLine{{ServiceID: service.ID, Quantite: 1}},
	)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	testDB, orderSvc, cartSvc, publisher, user, service := setupOrderServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := cartSvc.AddToCart(user.ID, service.ID, 1)
	require.NoError(t, err)
	order, err := orderSvc.CreateFromCart(user.ID, CheckoutInput{
		ClientNom:   "Marie Dupont",
		ClientEmail: "client@example.com",
	})
	require.NoError(t, err)

	updated, err := orderSvc.UpdateStatus(order.ID, model.OrderStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, updated.Status)
	assert.Contains(t, publisher.events, "order.status_updated")
}

func TestOrderService_UpdateStatus_InvalidStatus(t *testing.T) {
	testDB, orderSvc, _, _, _, _ := setupOrderServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := orderSvc.UpdateStatus(1, model.OrderStatus("expediee"))
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
}

func TestOrderService_UpdateStatus_NotFound(t *testing.T) {
	testDB, orderSvc, _, _, _, _ := setupOrderServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := orderSvc.UpdateStatus(999, model.OrderStatusPaid)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
