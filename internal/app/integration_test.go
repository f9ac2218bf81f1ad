package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mlegrand/portfolio-backend/internal/app/controller"
	"github.com/mlegrand/portfolio-backend/internal/app/model"
	"github.com/mlegrand/portfolio-backend/internal/app/repository"
	"github.com/mlegrand/portfolio-backend/internal/app/service"
	"github.com/mlegrand/portfolio-backend/internal/db"
	"github.com/mlegrand/portfolio-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	serviceRepo := repository.NewServiceRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)

	authService := service.NewAuthService(
		userRepo,
		nil,
		"test-secret",
		15*time.Minute,
		7*24*time.Hour,
	)
	catalogService := service.NewCatalogService(categoryRepo, serviceRepo)
	cartService := service.NewCartService(cartRepo, serviceRepo)
	orderService := service.NewOrderService(testDB, orderRepo, cartRepo, serviceRepo, nil)

	authController := controller.NewAuthController(authService)
	catalogController := controller.NewCatalogController(catalogService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)

	authMiddleware := middleware.NewAuthMiddleware("test-secret", nil)

	router := gin.New()
	api := router.Group("/api")
	{
		api.POST("/register", authController.Register)
		api.POST("/login", authController.Login)

		api.GET("/services/list", catalogController.ListServices)
		api.GET("/services/detail/:serviceSlug", catalogController.GetServiceDetail)

		cart := api.Group("/cart")
		cart.Use(authMiddleware.Authenticate())
		{
			cart.GET("", cartController.GetCart)
			cart.POST("", cartController.AddToCart)
			cart.DELETE("", cartController.ClearCart)
			cart.PUT("/item/:serviceId", cartController.UpdateCartItem)
			cart.DELETE("/item/:serviceId", cartController.RemoveCartItem)
		}

		api.POST("/orders", authMiddleware.OptionalAuthenticate(), orderController.CreateOrder)
		api.GET("/orders/user", authMiddleware.Authenticate(), orderController.GetUserOrders)
	}

	return &TestServer{
		Router: router,
		DB:     testDB,
	}
}

func seedCatalog(t *testing.T, testDB *gorm.DB) *model.Service {
	t.Helper()

	category := &model.Category{Nom: "Développement", Slug: "developpement"}
	require.NoError(t, testDB.Create(category).Error)

	sub := &model.SubCategory{Nom: "Web", Slug: "web", CategoryID: category.ID}
	require.NoError(t, testDB.Create(sub).Error)

	svc := &model.Service{
		Nom:           "Site vitrine",
		Slug:          "site-vitrine",
		Description:   "Site vitrine responsive",
		Prix:          1200.0,
		EstDisponible: true,
		SubCategoryID: sub.ID,
	}
	require.NoError(t, testDB.Create(svc).Error)
	return svc
}

func TestCompleteClientJourney(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	svc := seedCatalog(t, ts.DB)

	// 1. Inscription
	registerReq := map[string]string{
		"email":    "marie@example.com",
		"password": "motdepasse123",
		"nom":      "Legrand",
		"prenom":   "Marie",
	}
	body, _ := json.Marshal(registerReq)
	req := httptest.NewRequest("POST", "/api/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var registerResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registerResp))
	accessToken := registerResp["access_token"].(string)
	require.NotEmpty(t, accessToken)

	// 2. Parcours du catalogue public
	req = httptest.NewRequest("GET", "/api/services/list", nil)
	w = httptest.NewRecorder()

	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var services []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &services))
	require.Len(t, services, 1)
	assert.Equal(t, "site-vitrine", services[0]["slugs"])
	assert.Equal(t, "1200.00", services[0]["prix"])

	// 3. Ajout au panier
	addReq := map[string]interface{}{
		"service_id": svc.ID,
		"quantite":   2,
	}
	body, _ = json.Marshal(addReq)
	req = httptest.NewRequest("POST", "/api/cart", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()

	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	// 4. Lecture du panier : tableau de lignes, prix en chaîne décimale
	req = httptest.NewRequest("GET", "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()

	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var cart []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart, 1)
	assert.Equal(t, float64(2), cart[0]["quantite"])
	assert.Equal(t, "1200.00", cart[0]["prix_unitaire"])
	assert.Equal(t, "developpement", cart[0]["main_category_slugs"])
	assert.Equal(t, "web", cart[0]["sub_category_slugs"])

	// 5. Validation de la commande
	orderReq := map[string]string{
		"client_nom":   "Marie Legrand",
		"client_email": "marie@example.com",
		"client_notes": "Livraison avant fin de mois",
	}
	body, _ = json.Marshal(orderReq)
	req = httptest.NewRequest("POST", "/api/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()

	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var order map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, 2400.0, order["total_amount"])

	// 6. Historique des commandes
	req = httptest.NewRequest("GET", "/api/orders/user", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()

	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var orders []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Len(t, orders, 1)

	// 7. Le panier serveur a été vidé par la commande
	req = httptest.NewRequest("GET", "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()

	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestGuestOrderFlow(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	svc := seedCatalog(t, ts.DB)

	orderReq := map[string]interface{}{
		"client_nom":   "Paul Invité",
		"client_email": "paul@example.com",
		"items": []map[string]interface{}{
			{"service_id": svc.ID, "quantite": 3},
		},
	}
	body, _ := json.Marshal(orderReq)
	req := httptest.NewRequest("POST", "/api/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var order map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, 3600.0, order["total_amount"])
	assert.Nil(t, order["user_id"])
}

func TestCartLineQuantityRules(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	svc := seedCatalog(t, ts.DB)

	registerReq := map[string]string{
		"email":    "client@example.com",
		"password": "motdepasse123",
		"nom":      "Martin",
		"prenom":   "Luc",
	}
	body, _ := json.Marshal(registerReq)
	req := httptest.NewRequest("POST", "/api/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var registerResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registerResp))
	accessToken := registerResp["access_token"].(string)

	// deux ajouts successifs cumulent la quantité sur une seule ligne
	for i := 0; i < 2; i++ {
		addReq := map[string]interface{}{"service_id": svc.ID, "quantite": 1}
		body, _ = json.Marshal(addReq)
		req = httptest.NewRequest("POST", "/api/cart", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+accessToken)
		w = httptest.NewRecorder()
		ts.Router.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var cart []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart, 1)
	assert.Equal(t, float64(2), cart[0]["quantite"])

	// mise à jour absolue de la quantité
	updateReq := map[string]interface{}{"quantite": 5}
	body, _ = json.Marshal(updateReq)
	req = httptest.NewRequest("PUT", fmt.Sprintf("/api/cart/item/%d", svc.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart, 1)
	assert.Equal(t, float64(5), cart[0]["quantite"])

	// quantité nulle explicite : erreur panier dédiée, pas une erreur de binding
	req = httptest.NewRequest("PUT", fmt.Sprintf("/api/cart/item/%d", svc.ID), bytes.NewBuffer([]byte(`{"quantite": 0}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var errResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "CART_INVALID_QUANTITY", errResp["error"])

	// mise à jour d'une ligne absente : 404
	req = httptest.NewRequest("PUT", "/api/cart/item/9999", bytes.NewBuffer([]byte(`{"quantite": 1}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// retrait de la ligne
	req = httptest.NewRequest("DELETE", fmt.Sprintf("/api/cart/item/%d", svc.ID), nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	// ajout sans quantité : une unité par défaut
	body, _ = json.Marshal(map[string]interface{}{"service_id": svc.ID})
	req = httptest.NewRequest("POST", "/api/cart", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart, 1)
	assert.Equal(t, float64(1), cart[0]["quantite"])
}

func TestUnauthorizedAccess(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	protectedRoutes := []string{
		"/api/cart",
		"/api/orders/user",
	}

	for _, route := range protectedRoutes {
		t.Run(route, func(t *testing.T) {
			req := httptest.NewRequest("GET", route, nil)
			w := httptest.NewRecorder()

			ts.Router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
