package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kofi-bentum/tastebay/internal/apperr"
	"github.com/kofi-bentum/tastebay/internal/helpers"
	"github.com/kofi-bentum/tastebay/internal/models"
	"github.com/kofi-bentum/tastebay/internal/policy"
)

// loginFailedMessage is deliberately identical for unknown email and wrong
// password.
const loginFailedMessage = "Not found. Please check your email and password again. They do not match."

type UserService struct {
	userRepo       models.UserRepo
	restaurantRepo models.RestaurantRepo
	reviewRepo     models.ReviewRepo
	jwtSecret      string
	tokenTTL       time.Duration
}

func NewUserService(userRepo models.UserRepo, restaurantRepo models.RestaurantRepo, reviewRepo models.ReviewRepo, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		userRepo:       userRepo,
		restaurantRepo: restaurantRepo,
		reviewRepo:     reviewRepo,
		jwtSecret:      jwtSecret,
		tokenTTL:       tokenTTL,
	}
}

func (us *UserService) Signup(ctx context.Context, payload models.SignupPayload) (*models.User, string, error) {
	if err := models.Validate.Struct(payload); err != nil {
		return nil, "", apperr.Validation(models.ValidationMessage(err))
	}
	if !helpers.IsPasswordStrong(payload.Password) {
		return nil, "", apperr.Validation("Password must contain lowercase, uppercase, number and special characters.")
	}

	exist, err := us.userRepo.GetUserByEmail(ctx, payload.Email)
	if err != nil {
		return nil, "", apperr.Wrap(err, "failed to look up user")
	}
	if exist != nil {
		return nil, "", apperr.Conflict("User already registered.")
	}

	hash, err := helpers.HashPassword(payload.Password)
	if err != nil {
		return nil, "", apperr.Wrap(err, "failed to hash password")
	}

	user, err := us.userRepo.CreateUser(ctx, &models.User{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Password:  hash,
		Role:      payload.Role,
	})
	if err != nil {
		return nil, "", apperr.Wrap(err, "failed to create user")
	}

	token, err := helpers.GenerateToken(user.ID.Hex(), user.Role, user.Email, us.jwtSecret, us.tokenTTL)
	if err != nil {
		return nil, "", apperr.Wrap(err, "failed to sign token")
	}
	return user, token, nil
}

func (us *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, "", apperr.Validation("A valid email is required.")
	}
	if password == "" {
		return nil, "", apperr.Validation("Password is required.")
	}

	user, err := us.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", apperr.Wrap(err, "failed to look up user")
	}
	if user == nil || !helpers.CheckPassword(user.Password, password) {
		return nil, "", apperr.Unauthorized(loginFailedMessage)
	}

	token, err := helpers.GenerateToken(user.ID.Hex(), user.Role, user.Email, us.jwtSecret, us.tokenTTL)
	if err != nil {
		return nil, "", apperr.Wrap(err, "failed to sign token")
	}
	return user, token, nil
}

func (us *UserService) Read(ctx context.Context, id primitive.ObjectID) (*models.PublicUser, error) {
	user, err := us.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to get user")
	}
	if user == nil {
		return nil, apperr.NotFound("User doesn't exist")
	}
	return user.Public(), nil
}

func (us *UserService) List(ctx context.Context, actor models.Actor, filter models.UserFilter) ([]*models.PublicUser, int64, error) {
	if !filter.All && (filter.Page <= 0 || filter.PageSize <= 0) {
		return nil, 0, apperr.Unprocessable("Page and Page Size must be positive integer.")
	}
	switch filter.Role {
	case "", models.RoleAdmin, models.RoleOwner, models.RoleRegular:
	default:
		return nil, 0, apperr.Validation("Role should be admin, owner, or regular")
	}

	filter.Exclude = actor.ID
	users, count, err := us.userRepo.ListUsers(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Wrap(err, "failed to list users")
	}
	return users, count, nil
}

func (us *UserService) Update(ctx context.Context, id primitive.ObjectID, payload models.UpdateUserPayload) (*models.PublicUser, error) {
	if err := models.Validate.Struct(payload); err != nil {
		return nil, apperr.Validation(models.ValidationMessage(err))
	}

	taken, err := us.userRepo.EmailTaken(ctx, payload.Email, id)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to check email")
	}
	if taken {
		return nil, apperr.Conflict("User is already registered!")
	}

	exist, err := us.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to get user")
	}
	if exist == nil {
		return nil, apperr.NotFound("User doesn't exist")
	}

	update := models.UserUpdate{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Role:      payload.Role,
	}
	if payload.Password != "" {
		hash, err := helpers.HashPassword(payload.Password)
		if err != nil {
			return nil, apperr.Wrap(err, "failed to hash password")
		}
		update.Password = hash
	}

	updated, err := us.userRepo.UpdateUser(ctx, id, update)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to update user")
	}
	if updated == nil {
		return nil, apperr.NotFound("User doesn't exist")
	}
	return updated.Public(), nil
}

// Remove deletes a user and cascades: first the reviews the user authored,
// then the restaurants the user owns, then the user itself. Reviews left by
// other users on the removed restaurants become orphans; every remaining
// per-collection invariant still holds.
func (us *UserService) Remove(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if err := policy.Can(actor, policy.OpDeleteUser, id); err != nil {
		return err
	}
	return us.removeCascade(ctx, id)
}

// RemoveSelf deletes the actor's own account with the same cascade.
func (us *UserService) RemoveSelf(ctx context.Context, actor models.Actor) error {
	return us.removeCascade(ctx, actor.ID)
}

func (us *UserService) removeCascade(ctx context.Context, id primitive.ObjectID) error {
	user, err := us.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return apperr.Wrap(err, "failed to get user")
	}
	if user == nil {
		return apperr.NotFound("User doesn't exist")
	}

	if err := us.reviewRepo.DeleteReviewsByUser(ctx, id); err != nil {
		return apperr.Wrap(err, "failed to delete user's reviews")
	}
	if err := us.restaurantRepo.DeleteRestaurantsByOwner(ctx, id); err != nil {
		return apperr.Wrap(err, "failed to delete user's restaurants")
	}
	if err := us.userRepo.DeleteUser(ctx, id); err != nil {
		return apperr.Wrap(err, "failed to delete user")
	}
	return nil
}
