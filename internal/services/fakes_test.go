package services

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kofi-bentum/tastebay/internal/models"
)

// fakeStore is an in-memory stand-in for the Mongo repo, implementing the
// three repo interfaces with the same semantics the services rely on:
// nil results for missing records, insertion order preserved for ties.
type fakeStore struct {
	users       []*models.User
	restaurants []*models.Restaurant
	reviews     []*models.Review
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func paginate[T any](items []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// UserRepo

func (f *fakeStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users = append(f.users, user)
	return user, nil
}

func (f *fakeStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) EmailTaken(ctx context.Context, email string, except primitive.ObjectID) (bool, error) {
	for _, u := range f.users {
		if u.Email == email && u.ID != except {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.PublicUser, int64, error) {
	others := []*models.User{}
	for _, u := range f.users {
		if u.ID != filter.Exclude {
			others = append(others, u)
		}
	}
	// Count before the role filter, like the real repo.
	count := int64(len(others))

	role := filter.Role
	if filter.All {
		role = models.RoleOwner
	}
	matched := []*models.User{}
	for _, u := range others {
		if role == "" || u.Role == role {
			matched = append(matched, u)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Role > matched[j].Role })

	if !filter.All {
		matched = paginate(matched, filter.Page, filter.PageSize)
	}
	users := []*models.PublicUser{}
	for _, u := range matched {
		users = append(users, u.Public())
	}
	return users, count, nil
}

func (f *fakeStore) UpdateUser(ctx context.Context, id primitive.ObjectID, update models.UserUpdate) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			u.FirstName = update.FirstName
			u.LastName = update.LastName
			u.Email = update.Email
			if update.Password != "" {
				u.Password = update.Password
			}
			if update.Role != "" {
				u.Role = update.Role
			}
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	kept := f.users[:0]
	for _, u := range f.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	f.users = kept
	return nil
}

// RestaurantRepo

func (f *fakeStore) CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) (*models.Restaurant, error) {
	if restaurant.ID.IsZero() {
		restaurant.ID = primitive.NewObjectID()
	}
	f.restaurants = append(f.restaurants, restaurant)
	return restaurant, nil
}

func (f *fakeStore) GetRestaurantByID(ctx context.Context, id primitive.ObjectID) (*models.Restaurant, error) {
	for _, r := range f.restaurants {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetRestaurantByName(ctx context.Context, name string) (*models.Restaurant, error) {
	for _, r := range f.restaurants {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListRestaurants(ctx context.Context, filter models.RestaurantFilter) ([]*models.RestaurantWithOwner, int64, error) {
	matched := []*models.Restaurant{}
	for _, r := range f.restaurants {
		if r.OverallRating < filter.MinRating || r.OverallRating > filter.MaxRating {
			continue
		}
		if filter.Owner != nil && r.User != *filter.Owner {
			continue
		}
		matched = append(matched, r)
	}
	count := int64(len(matched))

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].OverallRating > matched[j].OverallRating
	})
	matched = paginate(matched, filter.Page, filter.PageSize)

	result := []*models.RestaurantWithOwner{}
	for _, r := range matched {
		item := &models.RestaurantWithOwner{Restaurant: *r}
		if owner, _ := f.GetUserByID(ctx, r.User); owner != nil {
			item.Owner = owner.Public()
		}
		result = append(result, item)
	}
	return result, count, nil
}

func (f *fakeStore) ListRestaurantIDsByOwner(ctx context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error) {
	ids := []primitive.ObjectID{}
	for _, r := range f.restaurants {
		if r.User == owner {
			ids = append(ids, r.ID)
		}
	}
	return ids, nil
}

func (f *fakeStore) UpdateRestaurant(ctx context.Context, id primitive.ObjectID, name string, owner *primitive.ObjectID) (*models.Restaurant, error) {
	for _, r := range f.restaurants {
		if r.ID == id {
			r.Name = name
			if owner != nil {
				r.User = *owner
			}
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UpdateRestaurantRatings(ctx context.Context, id primitive.ObjectID, summary models.RatingSummary) error {
	for _, r := range f.restaurants {
		if r.ID == id {
			r.OverallRating = summary.Overall
			r.HighestRating = summary.Highest
			r.LowestRating = summary.Lowest
			return nil
		}
	}
	return nil
}

func (f *fakeStore) DeleteRestaurant(ctx context.Context, id primitive.ObjectID) error {
	kept := f.restaurants[:0]
	for _, r := range f.restaurants {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.restaurants = kept
	return nil
}

func (f *fakeStore) DeleteRestaurantsByOwner(ctx context.Context, owner primitive.ObjectID) error {
	kept := f.restaurants[:0]
	for _, r := range f.restaurants {
		if r.User != owner {
			kept = append(kept, r)
		}
	}
	f.restaurants = kept
	return nil
}

// ReviewRepo

func (f *fakeStore) CreateReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	review.BeforeCreate()
	f.reviews = append(f.reviews, review)
	return review, nil
}

func (f *fakeStore) GetReviewByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	for _, r := range f.reviews {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetReviewForRestaurantByUser(ctx context.Context, restaurantID, userID primitive.ObjectID) (*models.Review, error) {
	for _, r := range f.reviews {
		if r.Restaurant == restaurantID && r.FromUser == userID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListReviewsByRestaurant(ctx context.Context, restaurantID primitive.ObjectID, page, pageSize int) ([]*models.ReviewDetail, int64, error) {
	matched := []*models.Review{}
	for _, r := range f.reviews {
		if r.Restaurant == restaurantID {
			matched = append(matched, r)
		}
	}
	count := int64(len(matched))
	matched = paginate(matched, page, pageSize)

	result := []*models.ReviewDetail{}
	for _, r := range matched {
		item := &models.ReviewDetail{Review: *r}
		if reviewer, _ := f.GetUserByID(ctx, r.FromUser); reviewer != nil {
			item.Reviewer = reviewer.Public()
		}
		result = append(result, item)
	}
	return result, count, nil
}

func (f *fakeStore) ListRatesByRestaurant(ctx context.Context, restaurantID primitive.ObjectID) ([]float64, error) {
	rates := []float64{}
	for _, r := range f.reviews {
		if r.Restaurant == restaurantID {
			rates = append(rates, r.Rate)
		}
	}
	return rates, nil
}

func (f *fakeStore) ListPendingReviews(ctx context.Context, restaurantIDs []primitive.ObjectID, page, pageSize int) ([]*models.ReviewDetail, int64, error) {
	inSet := map[primitive.ObjectID]bool{}
	for _, id := range restaurantIDs {
		inSet[id] = true
	}
	matched := []*models.Review{}
	for _, r := range f.reviews {
		if inSet[r.Restaurant] && !r.HasReply() {
			matched = append(matched, r)
		}
	}
	count := int64(len(matched))
	matched = paginate(matched, page, pageSize)

	result := []*models.ReviewDetail{}
	for _, r := range matched {
		item := &models.ReviewDetail{Review: *r}
		if reviewer, _ := f.GetUserByID(ctx, r.FromUser); reviewer != nil {
			item.Reviewer = reviewer.Public()
		}
		if restaurant, _ := f.GetRestaurantByID(ctx, r.Restaurant); restaurant != nil {
			item.RestaurantDetail = restaurant
		}
		result = append(result, item)
	}
	return result, count, nil
}

func (f *fakeStore) UpdateReview(ctx context.Context, id primitive.ObjectID, update models.ReviewUpdate) (*models.Review, error) {
	for _, r := range f.reviews {
		if r.ID == id {
			if update.Rate != nil {
				r.Rate = *update.Rate
			}
			if update.Comment != nil {
				r.Comment = *update.Comment
			}
			if update.Reply != nil {
				r.Reply = *update.Reply
			}
			if update.Date != nil {
				r.Date = *update.Date
			}
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) DeleteReview(ctx context.Context, id primitive.ObjectID) error {
	kept := f.reviews[:0]
	for _, r := range f.reviews {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.reviews = kept
	return nil
}

func (f *fakeStore) DeleteReviewsByRestaurant(ctx context.Context, restaurantID primitive.ObjectID) error {
	kept := f.reviews[:0]
	for _, r := range f.reviews {
		if r.Restaurant != restaurantID {
			kept = append(kept, r)
		}
	}
	f.reviews = kept
	return nil
}

func (f *fakeStore) DeleteReviewsByUser(ctx context.Context, userID primitive.ObjectID) error {
	kept := f.reviews[:0]
	for _, r := range f.reviews {
		if r.FromUser != userID {
			kept = append(kept, r)
		}
	}
	f.reviews = kept
	return nil
}

// Interface checks keep the fake honest.
var (
	_ models.UserRepo       = (*fakeStore)(nil)
	_ models.RestaurantRepo = (*fakeStore)(nil)
	_ models.ReviewRepo     = (*fakeStore)(nil)
)

// Shared test fixtures.

func seedUser(f *fakeStore, role string) *models.User {
	user := &models.User{
		ID:        primitive.NewObjectID(),
		FirstName: "Test",
		LastName:  role,
		Email:     role + "-" + primitive.NewObjectID().Hex() + "@example.com",
		Password:  "irrelevant",
		Role:      role,
	}
	f.users = append(f.users, user)
	return user
}

func seedRestaurant(f *fakeStore, name string, owner primitive.ObjectID) *models.Restaurant {
	restaurant := &models.Restaurant{
		ID:   primitive.NewObjectID(),
		Name: name,
		User: owner,
	}
	f.restaurants = append(f.restaurants, restaurant)
	return restaurant
}

func actorFor(user *models.User) models.Actor {
	return models.Actor{ID: user.ID, Role: user.Role}
}
