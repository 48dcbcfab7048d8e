package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kofi-bentum/tastebay/internal/apperr"
	"github.com/kofi-bentum/tastebay/internal/helpers"
	"github.com/kofi-bentum/tastebay/internal/models"
	"github.com/kofi-bentum/tastebay/internal/policy"
)

type RestaurantService struct {
	restaurantRepo models.RestaurantRepo
	reviewRepo     models.ReviewRepo
	userRepo       models.UserRepo
}

func NewRestaurantService(restaurantRepo models.RestaurantRepo, reviewRepo models.ReviewRepo, userRepo models.UserRepo) *RestaurantService {
	return &RestaurantService{
		restaurantRepo: restaurantRepo,
		reviewRepo:     reviewRepo,
		userRepo:       userRepo,
	}
}

// Create makes a restaurant for the acting owner, or for the owner an admin
// designates. An admin never owns the restaurant itself.
func (rs *RestaurantService) Create(ctx context.Context, actor models.Actor, payload models.CreateRestaurantPayload) (*models.Restaurant, error) {
	name := helpers.StringTrim(payload.Name)
	if name == "" {
		return nil, apperr.Validation("Name is required.")
	}
	if err := policy.Can(actor, policy.OpCreateRestaurant, actor.ID); err != nil {
		return nil, err
	}

	exist, err := rs.restaurantRepo.GetRestaurantByName(ctx, name)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to look up restaurant")
	}
	if exist != nil {
		return nil, apperr.Conflict("Restaurant already exists with same name.")
	}

	ownerID := actor.ID
	if actor.IsAdmin() {
		target, err := rs.resolveOwnerTarget(ctx, payload.User)
		if err != nil {
			return nil, err
		}
		ownerID = target
	}

	restaurant, err := rs.restaurantRepo.CreateRestaurant(ctx, &models.Restaurant{
		Name: name,
		User: ownerID,
	})
	if err != nil {
		return nil, apperr.Wrap(err, "failed to create restaurant")
	}
	return restaurant, nil
}

func (rs *RestaurantService) List(ctx context.Context, actor models.Actor, filter models.RestaurantFilter) ([]*models.RestaurantWithOwner, int64, error) {
	if filter.Page <= 0 || filter.PageSize <= 0 {
		return nil, 0, apperr.Unprocessable("Page and Page Size must be positive integer.")
	}
	if filter.MinRating > filter.MaxRating {
		return nil, 0, apperr.Validation("Max value should be more than min value.")
	}

	if actor.IsOwner() {
		owner := actor.ID
		filter.Owner = &owner
	}

	restaurants, count, err := rs.restaurantRepo.ListRestaurants(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Wrap(err, "failed to list restaurants")
	}
	return restaurants, count, nil
}

func (rs *RestaurantService) Update(ctx context.Context, actor models.Actor, id primitive.ObjectID, payload models.CreateRestaurantPayload) (*models.Restaurant, error) {
	// Pre-check with the actor as owner so regular users are denied before
	// any data access; re-checked against the real owner after the fetch.
	if err := policy.Can(actor, policy.OpUpdateRestaurant, actor.ID); err != nil {
		return nil, err
	}

	restaurant, err := rs.restaurantRepo.GetRestaurantByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to get restaurant")
	}
	if restaurant == nil {
		return nil, apperr.NotFound("Restaurant doesn't exist.")
	}
	if err := policy.Can(actor, policy.OpUpdateRestaurant, restaurant.User); err != nil {
		return nil, err
	}

	name := helpers.StringTrim(payload.Name)
	if name == "" {
		return nil, apperr.Validation("Restaurant name is required.")
	}

	var newOwner *primitive.ObjectID
	if actor.IsAdmin() {
		target, err := rs.resolveOwnerTargetForUpdate(ctx, payload.User)
		if err != nil {
			return nil, err
		}
		newOwner = &target
	}

	updated, err := rs.restaurantRepo.UpdateRestaurant(ctx, id, name, newOwner)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to update restaurant")
	}
	if updated == nil {
		return nil, apperr.NotFound("Restaurant doesn't exist.")
	}
	return updated, nil
}

// Remove deletes a restaurant after deleting every review attached to it.
func (rs *RestaurantService) Remove(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if err := policy.Can(actor, policy.OpDeleteRestaurant, actor.ID); err != nil {
		return err
	}

	restaurant, err := rs.restaurantRepo.GetRestaurantByID(ctx, id)
	if err != nil {
		return apperr.Wrap(err, "failed to get restaurant")
	}
	if restaurant == nil {
		return apperr.NotFound("Restaurant doesn't exist.")
	}
	if err := policy.Can(actor, policy.OpDeleteRestaurant, restaurant.User); err != nil {
		return err
	}

	if err := rs.reviewRepo.DeleteReviewsByRestaurant(ctx, id); err != nil {
		return apperr.Wrap(err, "failed to delete restaurant reviews")
	}
	if err := rs.restaurantRepo.DeleteRestaurant(ctx, id); err != nil {
		return apperr.Wrap(err, "failed to delete restaurant")
	}
	return nil
}

// resolveOwnerTarget validates the owner id an admin supplies on create.
func (rs *RestaurantService) resolveOwnerTarget(ctx context.Context, idHex string) (primitive.ObjectID, error) {
	if idHex == "" {
		return primitive.NilObjectID, apperr.Validation("User is required.")
	}
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return primitive.NilObjectID, apperr.Unprocessable("User ID is not valid id.")
	}
	user, err := rs.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return primitive.NilObjectID, apperr.Wrap(err, "failed to get user")
	}
	if user == nil || user.Role != models.RoleOwner {
		return primitive.NilObjectID, apperr.Unprocessable("Restaurant is authorized to only owners")
	}
	return id, nil
}

// resolveOwnerTargetForUpdate mirrors resolveOwnerTarget but a non-owner
// target conflicts with the existing assignment rather than being
// unprocessable, matching the update endpoint's behavior.
func (rs *RestaurantService) resolveOwnerTargetForUpdate(ctx context.Context, idHex string) (primitive.ObjectID, error) {
	if idHex == "" {
		return primitive.NilObjectID, apperr.Validation("User is required.")
	}
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return primitive.NilObjectID, apperr.Unprocessable("User ID is not valid id.")
	}
	user, err := rs.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return primitive.NilObjectID, apperr.Wrap(err, "failed to get user")
	}
	if user == nil || user.Role != models.RoleOwner {
		return primitive.NilObjectID, apperr.Conflict("Restaurant is authorized to only owners")
	}
	return id, nil
}
