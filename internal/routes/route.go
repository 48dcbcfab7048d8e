package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/kofi-bentum/tastebay/internal/container"
	"github.com/kofi-bentum/tastebay/internal/handlers"
	"github.com/kofi-bentum/tastebay/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	cfg := container.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "tastebay-api",
			})
		})

		// public routes
		api.POST("/auth/signup", handlers.Signup(container.UserService, cfg.IsProduction()))
		api.POST("/auth/login", handlers.Login(container.UserService, cfg.IsProduction()))
		api.POST("/auth/logout", handlers.Logout())
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret, container.Logger))

	authRoutes := protected.Group("/auth")
	{
		authRoutes.PUT("", handlers.UpdateProfile(container.UserService))
		authRoutes.DELETE("", handlers.RemoveProfile(container.UserService))
	}

	userRoutes := protected.Group("/users")
	{
		userRoutes.GET("", handlers.ListUsers(container.UserService))
		userRoutes.GET("/:id", handlers.GetUser(container.UserService))
		userRoutes.PUT("/:id", handlers.UpdateUser(container.UserService))
		userRoutes.DELETE("/:id", handlers.DeleteUser(container.UserService))
	}

	restaurantRoutes := protected.Group("/restaurants")
	{
		restaurantRoutes.POST("", handlers.CreateRestaurant(container.RestaurantService))
		restaurantRoutes.GET("", handlers.ListRestaurants(container.RestaurantService))
		restaurantRoutes.PUT("/:id", handlers.UpdateRestaurant(container.RestaurantService))
		restaurantRoutes.DELETE("/:id", handlers.DeleteRestaurant(container.RestaurantService))

		restaurantRoutes.GET("/:id/reviews", handlers.ListReviews(container.ReviewService))
		restaurantRoutes.POST("/:id/reviews", handlers.CreateReview(container.ReviewService))
		restaurantRoutes.PUT("/reviews/:id", handlers.UpdateReview(container.ReviewService))
		restaurantRoutes.DELETE("/reviews/:id", handlers.DeleteReview(container.ReviewService))
		restaurantRoutes.GET("/pendingreview", handlers.PendingReviews(container.ReviewService))
	}

	return r
}
