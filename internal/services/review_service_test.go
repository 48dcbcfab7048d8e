package services

import (
	"context"
	"testing"

	"github.com/kofi-bentum/tastebay/internal/apperr"
	"github.com/kofi-bentum/tastebay/internal/models"
)

func newReviewFixture(t *testing.T) (*fakeStore, *ReviewService, *models.Restaurant, models.Actor) {
	t.Helper()
	store := newFakeStore()
	owner := seedUser(store, models.RoleOwner)
	restaurant := seedRestaurant(store, "Pho House", owner.ID)
	regular := seedUser(store, models.RoleRegular)
	return store, NewReviewService(store, store), restaurant, actorFor(regular)
}

func TestCreateReviewRecomputesAggregates(t *testing.T) {
	ctx := context.Background()
	store, svc, restaurant, reviewer := newReviewFixture(t)

	if restaurant.OverallRating != 0 || restaurant.HighestRating != 0 || restaurant.LowestRating != 0 {
		t.Fatalf("new restaurant must start with zero ratings, got %+v", restaurant)
	}

	fourStar, err := svc.Create(ctx, reviewer, restaurant.ID, models.CreateReviewPayload{
		Rate:    4,
		Comment: "Great broth",
	})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if restaurant.OverallRating != 4 || restaurant.HighestRating != 4 || restaurant.LowestRating != 4 {
		t.Fatalf("after one 4-star review want 4/4/4, got %v/%v/%v",
			restaurant.OverallRating, restaurant.HighestRating, restaurant.LowestRating)
	}

	second := actorFor(seedUser(store, models.RoleRegular))
	if _, err := svc.Create(ctx, second, restaurant.ID, models.CreateReviewPayload{
		Rate:    2,
		Comment: "Too salty",
	}); err != nil {
		t.Fatalf("create second review: %v", err)
	}
	if restaurant.OverallRating != 3 || restaurant.HighestRating != 4 || restaurant.LowestRating != 2 {
		t.Fatalf("after 4 and 2 want 3/4/2, got %v/%v/%v",
			restaurant.OverallRating, restaurant.HighestRating, restaurant.LowestRating)
	}

	// Deleting the 4-star review leaves only the 2.
	admin := actorFor(seedUser(store, models.RoleAdmin))
	if err := svc.Remove(ctx, admin, fourStar.ID); err != nil {
		t.Fatalf("remove review: %v", err)
	}
	if restaurant.OverallRating != 2 || restaurant.HighestRating != 2 || restaurant.LowestRating != 2 {
		t.Fatalf("after removal want 2/2/2, got %v/%v/%v",
			restaurant.OverallRating, restaurant.HighestRating, restaurant.LowestRating)
	}
}

func TestCreateReviewOnlyRegular(t *testing.T) {
	ctx := context.Background()
	store, svc, restaurant, _ := newReviewFixture(t)

	for _, role := range []string{models.RoleOwner, models.RoleAdmin} {
		actor := actorFor(seedUser(store, role))
		_, err := svc.Create(ctx, actor, restaurant.ID, models.CreateReviewPayload{Rate: 3, Comment: "x"})
		if !apperr.IsKind(err, apperr.KindAuthorization) {
			t.Fatalf("role %s: want authorization error, got %v", role, err)
		}
	}
}

func TestCreateReviewTrimsComment(t *testing.T) {
	ctx := context.Background()
	_, svc, restaurant, reviewer := newReviewFixture(t)

	_, err := svc.Create(ctx, reviewer, restaurant.ID, models.CreateReviewPayload{Rate: 3, Comment: "   "})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("whitespace-only comment: want validation error, got %v", err)
	}

	review, err := svc.Create(ctx, reviewer, restaurant.ID, models.CreateReviewPayload{Rate: 3, Comment: "  lovely spot  "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if review.Comment != "lovely spot" {
		t.Fatalf("comment must be stored trimmed, got %q", review.Comment)
	}
}

func TestCreateReviewOncePerUser(t *testing.T) {
	ctx := context.Background()
	_, svc, restaurant, reviewer := newReviewFixture(t)

	if _, err := svc.Create(ctx, reviewer, restaurant.ID, models.CreateReviewPayload{Rate: 3, Comment: "ok"}); err != nil {
		t.Fatalf("first review: %v", err)
	}
	_, err := svc.Create(ctx, reviewer, restaurant.ID, models.CreateReviewPayload{Rate: 5, Comment: "again"})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("want conflict on second review, got %v", err)
	}
}

func TestCreateReviewDropsReplyForRegular(t *testing.T) {
	ctx := context.Background()
	_, svc, restaurant, reviewer := newReviewFixture(t)

	review, err := svc.Create(ctx, reviewer, restaurant.ID, models.CreateReviewPayload{
		Rate:    3,
		Comment: "fine",
		Reply:   "thanks for coming",
	})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if review.Reply != "" {
		t.Fatalf("reply must be dropped for non-admin, got %q", review.Reply)
	}
}

func TestOwnerReplyFirstOnly(t *testing.T) {
	ctx := context.Background()
	store, svc, restaurant, reviewer := newReviewFixture(t)

	review, err := svc.Create(ctx, reviewer, restaurant.ID, models.CreateReviewPayload{Rate: 3, Comment: "ok"})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}

	owner := models.Actor{ID: restaurant.User, Role: models.RoleOwner}
	reply := "glad you liked it"
	updated, err := svc.Update(ctx, owner, review.ID, models.UpdateReviewPayload{Reply: &reply})
	if err != nil {
		t.Fatalf("first reply: %v", err)
	}
	if updated.Reply != reply {
		t.Fatalf("want reply %q, got %q", reply, updated.Reply)
	}

	again := "changed my mind"
	_, err = svc.Update(ctx, owner, review.ID, models.UpdateReviewPayload{Reply: &again})
	if !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("editing an existing reply must be denied for owners, got %v", err)
	}

	// Admins may edit an existing reply.
	admin := actorFor(seedUser(store, models.RoleAdmin))
	updated, err = svc.Update(ctx, admin, review.ID, models.UpdateReviewPayload{Reply: &again})
	if err != nil {
		t.Fatalf("admin reply edit: %v", err)
	}
	if updated.Reply != again {
		t.Fatalf("want reply %q, got %q", again, updated.Reply)
	}
}

func TestOwnerCannotReplyToOtherOwnersRestaurant(t *testing.T) {
	ctx := context.Background()
	store, svc, restaurant, reviewer := newReviewFixture(t)

	review, err := svc.Create(ctx, reviewer, restaurant.ID, models.CreateReviewPayload{Rate: 3, Comment: "ok"})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}

	other := actorFor(seedUser(store, models.RoleOwner))
	reply := "not my restaurant"
	_, err = svc.Update(ctx, other, review.ID, models.UpdateReviewPayload{Reply: &reply})
	if !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("want authorization error, got %v", err)
	}
}

func TestFullReviewEditIsAdminOnly(t *testing.T) {
	ctx := context.Background()
	_, svc, restaurant, reviewer := newReviewFixture(t)

	review, err := svc.Create(ctx, reviewer, restaurant.ID, models.CreateReviewPayload{Rate: 3, Comment: "ok"})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}

	rate := 4.5
	owner := models.Actor{ID: restaurant.User, Role: models.RoleOwner}
	if _, err := svc.Update(ctx, owner, review.ID, models.UpdateReviewPayload{Rate: &rate}); !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("owner full edit must be denied, got %v", err)
	}
	if _, err := svc.Update(ctx, reviewer, review.ID, models.UpdateReviewPayload{Rate: &rate}); !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("regular full edit must be denied, got %v", err)
	}
}

func TestAdminRateEditRecomputes(t *testing.T) {
	ctx := context.Background()
	store, svc, restaurant, reviewer := newReviewFixture(t)

	review, err := svc.Create(ctx, reviewer, restaurant.ID, models.CreateReviewPayload{Rate: 3, Comment: "ok"})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}

	admin := actorFor(seedUser(store, models.RoleAdmin))
	rate := 4.75
	if _, err := svc.Update(ctx, admin, review.ID, models.UpdateReviewPayload{Rate: &rate}); err != nil {
		t.Fatalf("admin edit: %v", err)
	}
	if restaurant.OverallRating != 4.75 || restaurant.HighestRating != 4.75 || restaurant.LowestRating != 4.75 {
		t.Fatalf("want recomputed 4.75 across the board, got %v/%v/%v",
			restaurant.OverallRating, restaurant.HighestRating, restaurant.LowestRating)
	}

	// Resending the same rate must not recompute; stale aggregates stay put.
	restaurant.OverallRating = 1
	if _, err := svc.Update(ctx, admin, review.ID, models.UpdateReviewPayload{Rate: &rate}); err != nil {
		t.Fatalf("admin same-rate edit: %v", err)
	}
	if restaurant.OverallRating != 1 {
		t.Fatalf("unchanged rate must skip the recompute, got %v", restaurant.OverallRating)
	}
}

func TestRemoveReviewAdminOnly(t *testing.T) {
	ctx := context.Background()
	_, svc, restaurant, reviewer := newReviewFixture(t)

	review, err := svc.Create(ctx, reviewer, restaurant.ID, models.CreateReviewPayload{Rate: 3, Comment: "ok"})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}

	owner := models.Actor{ID: restaurant.User, Role: models.RoleOwner}
	if err := svc.Remove(ctx, owner, review.ID); !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("owner delete must be denied, got %v", err)
	}
	if err := svc.Remove(ctx, reviewer, review.ID); !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("regular delete must be denied, got %v", err)
	}
}

func TestPendingReviews(t *testing.T) {
	ctx := context.Background()
	store, svc, restaurant, reviewer := newReviewFixture(t)
	owner := models.Actor{ID: restaurant.User, Role: models.RoleOwner}

	if _, _, err := svc.Pending(ctx, reviewer, 1, 5); !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("pending list must be owner-only, got %v", err)
	}

	review, err := svc.Create(ctx, reviewer, restaurant.ID, models.CreateReviewPayload{Rate: 3, Comment: "ok"})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}

	pending, count, err := svc.Pending(ctx, owner, 1, 5)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if count != 1 || len(pending) != 1 {
		t.Fatalf("want one pending review, got count=%d len=%d", count, len(pending))
	}
	if pending[0].RestaurantDetail == nil || pending[0].RestaurantDetail.ID != restaurant.ID {
		t.Fatalf("pending review must carry its restaurant")
	}

	reply := "thanks"
	if _, err := svc.Update(ctx, owner, review.ID, models.UpdateReviewPayload{Reply: &reply}); err != nil {
		t.Fatalf("reply: %v", err)
	}

	_, count, err = svc.Pending(ctx, owner, 1, 5)
	if err != nil {
		t.Fatalf("pending after reply: %v", err)
	}
	if count != 0 {
		t.Fatalf("replied review must leave the queue, count=%d", count)
	}

	// An owner without restaurants has an empty queue.
	lonely := actorFor(seedUser(store, models.RoleOwner))
	reviews, count, err := svc.Pending(ctx, lonely, 1, 5)
	if err != nil {
		t.Fatalf("pending for owner without restaurants: %v", err)
	}
	if count != 0 || len(reviews) != 0 {
		t.Fatalf("want empty queue, got count=%d len=%d", count, len(reviews))
	}
}

func TestListReviewsReturnsRestaurantHeader(t *testing.T) {
	ctx := context.Background()
	_, svc, restaurant, reviewer := newReviewFixture(t)

	if _, err := svc.Create(ctx, reviewer, restaurant.ID, models.CreateReviewPayload{Rate: 4, Comment: "ok"}); err != nil {
		t.Fatalf("create review: %v", err)
	}

	reviews, count, header, err := svc.List(ctx, restaurant.ID, 1, 5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if count != 1 || len(reviews) != 1 {
		t.Fatalf("want one review, got count=%d len=%d", count, len(reviews))
	}
	if reviews[0].Reviewer == nil || reviews[0].Reviewer.ID != reviewer.ID {
		t.Fatalf("review must carry its reviewer")
	}
	if header == nil || header.OverallRating != 4 {
		t.Fatalf("header restaurant must carry current aggregates, got %+v", header)
	}

	if _, _, _, err := svc.List(ctx, restaurant.ID, 0, 5); !apperr.IsKind(err, apperr.KindUnprocessable) {
		t.Fatalf("page=0 must be rejected, got %v", err)
	}
}
