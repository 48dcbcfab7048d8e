package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Restaurant struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name string             `bson:"name" json:"name"`
	// User references the owning user. Exactly one owner per restaurant.
	User primitive.ObjectID `bson:"user" json:"user"`

	// Derived from the restaurant's reviews, never set by clients. All three
	// are 0 while no reviews exist.
	OverallRating float64 `bson:"overall_rating" json:"overall_rating"`
	HighestRating float64 `bson:"highest_rating" json:"highest_rating"`
	LowestRating  float64 `bson:"lowest_rating" json:"lowest_rating"`

	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// RestaurantWithOwner is a restaurant with its owner joined in. Owner shares
// the "user" JSON key with the embedded reference on purpose: the shallower
// field wins, so clients see the populated owner object where the raw id
// would otherwise be.
type RestaurantWithOwner struct {
	Restaurant `bson:",inline"`
	Owner      *PublicUser `bson:"owner" json:"user"`
}

// RestaurantFilter drives the restaurant listing. Owner, when set, restricts
// the result to that owner's restaurants.
type RestaurantFilter struct {
	MinRating float64
	MaxRating float64
	Owner     *primitive.ObjectID
	Page      int
	PageSize  int
}

type CreateRestaurantPayload struct {
	Name string `json:"name"`
	// User is the owner id an admin designates. Owners leave it empty; they
	// are the implicit target.
	User string `json:"user"`
}
