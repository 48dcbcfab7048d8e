package container

import (
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kofi-bentum/tastebay/internal/config"
	"github.com/kofi-bentum/tastebay/internal/models"
	"github.com/kofi-bentum/tastebay/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger        *slog.Logger
	Config        *config.Config
	MongoDBClient *mongo.Client

	UserRepo models.UserRepo

	UserService       *services.UserService
	RestaurantService *services.RestaurantService
	ReviewService     *services.ReviewService
}

// NewContainer creates a new dependency injection container
func NewContainer(logger *slog.Logger, cfg *config.Config, mongoDBClient *mongo.Client) *Container {
	repo := models.MongodbNewRepo(mongoDBClient, cfg.MongoDBName)

	userService := services.NewUserService(repo, repo, repo, cfg.JWTSecret, cfg.TokenTTL)
	restaurantService := services.NewRestaurantService(repo, repo, repo)
	reviewService := services.NewReviewService(repo, repo)

	return &Container{
		Logger:            logger,
		Config:            cfg,
		MongoDBClient:     mongoDBClient,
		UserRepo:          repo,
		UserService:       userService,
		RestaurantService: restaurantService,
		ReviewService:     reviewService,
	}
}
