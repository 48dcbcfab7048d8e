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

type ReviewService struct {
	reviewRepo     models.ReviewRepo
	restaurantRepo models.RestaurantRepo
}

func NewReviewService(reviewRepo models.ReviewRepo, restaurantRepo models.RestaurantRepo) *ReviewService {
	return &ReviewService{
		reviewRepo:     reviewRepo,
		restaurantRepo: restaurantRepo,
	}
}

// Create inserts a review for a restaurant and recomputes the restaurant's
// rating fields. One review per (restaurant, reviewer); the reply field is
// dropped unless the actor is an admin.
func (vs *ReviewService) Create(ctx context.Context, actor models.Actor, restaurantID primitive.ObjectID, payload models.CreateReviewPayload) (*models.Review, error) {
	if err := policy.Can(actor, policy.OpCreateReview, actor.ID); err != nil {
		return nil, err
	}
	// Trim before validating so a whitespace-only comment fails required.
	payload.Comment = helpers.StringTrim(payload.Comment)
	if err := models.Validate.Struct(payload); err != nil {
		return nil, apperr.Validation(models.ValidationMessage(err))
	}

	restaurant, err := vs.restaurantRepo.GetRestaurantByID(ctx, restaurantID)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to get restaurant")
	}
	if restaurant == nil {
		return nil, apperr.NotFound("Restaurant doesn't exist.")
	}

	exist, err := vs.reviewRepo.GetReviewForRestaurantByUser(ctx, restaurantID, actor.ID)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to look up review")
	}
	if exist != nil {
		return nil, apperr.Conflict("You already reviewed this restaurant.")
	}

	reply := payload.Reply
	if !actor.IsAdmin() {
		reply = ""
	}
	date := payload.Date
	if date.IsZero() {
		date = time.Now()
	}

	review, err := vs.reviewRepo.CreateReview(ctx, &models.Review{
		Restaurant: restaurantID,
		FromUser:   actor.ID,
		Rate:       payload.Rate,
		Comment:    payload.Comment,
		Reply:      reply,
		Date:       date,
	})
	if err != nil {
		return nil, apperr.Wrap(err, "failed to create review")
	}

	if err := vs.recomputeRatings(ctx, restaurantID); err != nil {
		return nil, err
	}
	return review, nil
}

// List returns one page of a restaurant's reviews with the reviewer joined,
// plus the restaurant itself so the client can render the current aggregates
// in the header.
func (vs *ReviewService) List(ctx context.Context, restaurantID primitive.ObjectID, page, pageSize int) ([]*models.ReviewDetail, int64, *models.Restaurant, error) {
	if page <= 0 || pageSize <= 0 {
		return nil, 0, nil, apperr.Unprocessable("Page and Page Size must be positive integer.")
	}

	restaurant, err := vs.restaurantRepo.GetRestaurantByID(ctx, restaurantID)
	if err != nil {
		return nil, 0, nil, apperr.Wrap(err, "failed to get restaurant")
	}
	if restaurant == nil {
		return nil, 0, nil, apperr.NotFound("Restaurant doesn't exist.")
	}

	reviews, count, err := vs.reviewRepo.ListReviewsByRestaurant(ctx, restaurantID, page, pageSize)
	if err != nil {
		return nil, 0, nil, apperr.Wrap(err, "failed to list reviews")
	}
	return reviews, count, restaurant, nil
}

// Pending returns the owner's reply queue: reviews on the actor's
// restaurants that have no reply yet.
func (vs *ReviewService) Pending(ctx context.Context, actor models.Actor, page, pageSize int) ([]*models.ReviewDetail, int64, error) {
	if err := policy.Can(actor, policy.OpListPendingReviews, actor.ID); err != nil {
		return nil, 0, err
	}
	if page <= 0 || pageSize <= 0 {
		return nil, 0, apperr.Unprocessable("Page and Page Size must be positive integer.")
	}

	ids, err := vs.restaurantRepo.ListRestaurantIDsByOwner(ctx, actor.ID)
	if err != nil {
		return nil, 0, apperr.Wrap(err, "failed to list restaurants")
	}
	if len(ids) == 0 {
		return []*models.ReviewDetail{}, 0, nil
	}

	reviews, count, err := vs.reviewRepo.ListPendingReviews(ctx, ids, page, pageSize)
	if err != nil {
		return nil, 0, apperr.Wrap(err, "failed to list pending reviews")
	}
	return reviews, count, nil
}

// Update edits a review. A payload touching rate, comment or date is a full
// edit and is admin-only; a reply-only payload goes through the owner reply
// rules (first reply only — an existing reply is immutable to owners).
func (vs *ReviewService) Update(ctx context.Context, actor models.Actor, id primitive.ObjectID, payload models.UpdateReviewPayload) (*models.Review, error) {
	if err := models.Validate.Struct(payload); err != nil {
		return nil, apperr.Validation(models.ValidationMessage(err))
	}

	review, err := vs.reviewRepo.GetReviewByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to get review")
	}
	if review == nil {
		return nil, apperr.NotFound("Review doesn't exist.")
	}

	// Snapshot before the write: a repo may hand back the same object it
	// later mutates, so comparing against review.Rate afterwards would always
	// see the new value.
	oldRate := review.Rate

	fullEdit := payload.Rate != nil || payload.Comment != nil || payload.Date != nil
	if fullEdit {
		if err := policy.Can(actor, policy.OpUpdateReview, actor.ID); err != nil {
			return nil, err
		}
	} else {
		if payload.Reply == nil {
			return nil, apperr.Validation("Reply is required.")
		}

		restaurant, err := vs.restaurantRepo.GetRestaurantByID(ctx, review.Restaurant)
		if err != nil {
			return nil, apperr.Wrap(err, "failed to get restaurant")
		}
		if restaurant == nil {
			return nil, apperr.NotFound("Restaurant doesn't exist.")
		}
		if err := policy.Can(actor, policy.OpReplyReview, restaurant.User); err != nil {
			return nil, err
		}
		if !actor.IsAdmin() && review.HasReply() {
			return nil, apperr.Authorization("Reply already exists.")
		}
	}

	updated, err := vs.reviewRepo.UpdateReview(ctx, id, models.ReviewUpdate{
		Rate:    payload.Rate,
		Comment: payload.Comment,
		Reply:   payload.Reply,
		Date:    payload.Date,
	})
	if err != nil {
		return nil, apperr.Wrap(err, "failed to update review")
	}
	if updated == nil {
		return nil, apperr.NotFound("Review doesn't exist.")
	}

	if payload.Rate != nil && *payload.Rate != oldRate {
		if err := vs.recomputeRatings(ctx, review.Restaurant); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// Remove deletes a review and recomputes the parent restaurant's ratings.
func (vs *ReviewService) Remove(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if err := policy.Can(actor, policy.OpDeleteReview, actor.ID); err != nil {
		return err
	}

	review, err := vs.reviewRepo.GetReviewByID(ctx, id)
	if err != nil {
		return apperr.Wrap(err, "failed to get review")
	}
	if review == nil {
		return apperr.NotFound("Review doesn't exist.")
	}

	if err := vs.reviewRepo.DeleteReview(ctx, id); err != nil {
		return apperr.Wrap(err, "failed to delete review")
	}
	return vs.recomputeRatings(ctx, review.Restaurant)
}

// recomputeRatings recalculates a restaurant's rating fields from the full
// review set. Full recompute rather than an incremental update: concurrent
// edits can race, but last-write-wins always lands on values derived from
// some complete state.
func (vs *ReviewService) recomputeRatings(ctx context.Context, restaurantID primitive.ObjectID) error {
	rates, err := vs.reviewRepo.ListRatesByRestaurant(ctx, restaurantID)
	if err != nil {
		return apperr.Wrap(err, "failed to load review rates")
	}
	summary := models.ComputeRatingSummary(rates)
	if err := vs.restaurantRepo.UpdateRestaurantRatings(ctx, restaurantID, summary); err != nil {
		return apperr.Wrap(err, "failed to store rating summary")
	}
	return nil
}
