package router

import (
	"github.com/gin-gonic/gin"
	"github.com/mlegrand/portfolio-backend/config"
	"github.com/mlegrand/portfolio-backend/internal/app/controller"
	"github.com/mlegrand/portfolio-backend/internal/app/model"
	"github.com/mlegrand/portfolio-backend/internal/middleware"
)

type Router struct {
	authController    *controller.AuthController
	userController    *controller.UserController
	catalogController *controller.CatalogController
	cartController    *controller.CartController
	orderController   *controller.OrderController
	contactController *controller.ContactController
	uploadController  *controller.UploadController
	eventsController  *controller.EventsController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	catalogController *controller.CatalogController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	contactController *controller.ContactController,
	uploadController *controller.UploadController,
	eventsController *controller.EventsController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		userController:    userController,
		catalogController: catalogController,
		cartController:    cartController,
		orderController:   orderController,
		contactController: contactController,
		uploadController:  uploadController,
		eventsController:  eventsController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Portfolio API is running",
		})
	})

	api := router.Group("/api")
	{
		api.POST("/register", r.authController.Register)
		api.POST("/login", r.authController.Login)
		api.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)

		users := api.Group("/users")
		users.Use(r.authMiddleware.Authenticate())
		{
			users.GET("/profile", r.userController.GetProfile)
			users.PUT("/profile", r.userController.UpdateProfile)
			users.PUT("/password", r.userController.ChangePassword)

			users.GET("",
				r.authMiddleware.RequireRole(string(model.RoleAdmin)),
				r.userController.GetAllUsers,
			)
			users.PUT("/:id",
				r.authMiddleware.RequireRole(string(model.RoleAdmin)),
				r.userController.UpdateUser,
			)
			users.DELETE("/:id",
				r.authMiddleware.RequireRole(string(model.RoleAdmin)),
				r.userController.DeleteUser,
			)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", r.catalogController.GetCategories)
			categories.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(string(model.RoleAdmin)),
				r.catalogController.CreateCategory,
			)
			categories.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(string(model.RoleAdmin)),
				r.catalogController.UpdateCategory,
			)
			categories.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(string(model.RoleAdmin)),
				r.catalogController.DeleteCategory,
			)
		}

		subCategories := api.Group("/sous-categories")
		{
			subCategories.GET("", r.catalogController.GetSubCategories)
			subCategories.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(string(model.RoleAdmin)),
				r.catalogController.CreateSubCategory,
			)
			subCategories.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(string(model.RoleAdmin)),
				r.catalogController.UpdateSubCategory,
			)
			subCategories.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(string(model.RoleAdmin)),
				r.catalogController.DeleteSubCategory,
			)
		}

		services := api.Group("/services")
		{
			services.GET("/navigation", r.catalogController.GetNavigation)
			services.GET("/list", r.catalogController.ListServices)
			services.GET("/detail/:serviceSlug", r.catalogController.GetServiceDetail)
		}

		servicesCrud := api.Group("/services-crud")
		servicesCrud.Use(
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(string(model.RoleAdmin)),
		)
		{
			servicesCrud.GET("", r.catalogController.ListServicesAdmin)
			servicesCrud.POST("", r.catalogController.CreateService)
			servicesCrud.PUT("/:id", r.catalogController.UpdateService)
			servicesCrud.DELETE("/:id", r.catalogController.DeleteService)
		}

		cart := api.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.DELETE("", r.cartController.ClearCart)
			cart.PUT("/item/:serviceId", r.cartController.UpdateCartItem)
			cart.DELETE("/item/:serviceId", r.cartController.RemoveCartItem)
		}

		orders := api.Group("/orders")
		{
			// la commande invitée passe par le même point d'entrée,
			// l'identité est résolue si un jeton valide est présent
			orders.POST("", r.authMiddleware.OptionalAuthenticate(), r.orderController.CreateOrder)

			orders.GET("/user", r.authMiddleware.Authenticate(), r.orderController.GetUserOrders)
			orders.GET("/admin",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(string(model.RoleAdmin)),
				r.orderController.GetAllOrders,
			)
			orders.GET("/admin/export",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(string(model.RoleAdmin)),
				r.orderController.ExportOrders,
			)
			orders.GET("/:orderId", r.authMiddleware.Authenticate(), r.orderController.GetOrder)
			orders.PUT("/:orderId",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(string(model.RoleAdmin)),
				r.orderController.UpdateOrderStatus,
			)
		}

		contact := api.Group("/contact")
		{
			contact.POST("", r.contactController.SubmitMessage)
			contact.GET("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(string(model.RoleAdmin)),
				r.contactController.GetMessages,
			)
			contact.GET("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(string(model.RoleAdmin)),
				r.contactController.GetMessage,
			)
			contact.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(string(model.RoleAdmin)),
				r.contactController.DeleteMessage,
			)
		}

		upload := api.Group("/upload")
		upload.Use(
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(string(model.RoleAdmin)),
		)
		{
			upload.POST("/image", r.uploadController.GenerateImageUploadURL)
		}

		admin := api.Group("/admin")
		admin.Use(
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(string(model.RoleAdmin)),
		)
		{
			admin.GET("/events", r.eventsController.Connect)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
