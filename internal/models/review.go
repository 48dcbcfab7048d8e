package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RateStep is the granularity of star ratings.
const RateStep = 0.25

type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Restaurant primitive.ObjectID `bson:"restaurant" json:"restaurant"`
	FromUser   primitive.ObjectID `bson:"from_user" json:"from_user"`
	Rate       float64            `bson:"rate" json:"rate"`
	Comment    string             `bson:"comment" json:"comment"`
	// Reply is set once by the restaurant's owner (or at will by an admin).
	Reply     string    `bson:"reply,omitempty" json:"reply,omitempty"`
	Date      time.Time `bson:"date" json:"date"`
	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

func (r *Review) BeforeCreate() {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
}

func (r *Review) HasReply() bool {
	return r.Reply != ""
}

// ReviewDetail is a review with its reviewer (and, for the pending queue, its
// restaurant) joined in. The populated fields shadow the raw references in
// JSON the same way RestaurantWithOwner does.
type ReviewDetail struct {
	Review           `bson:",inline"`
	Reviewer         *PublicUser `bson:"reviewer" json:"from_user,omitempty"`
	RestaurantDetail *Restaurant `bson:"restaurant_doc" json:"restaurant,omitempty"`
}

type CreateReviewPayload struct {
	Rate    float64   `json:"rate" validate:"required,gte=0.25,lte=5,ratestep"`
	Comment string    `json:"comment" validate:"required"`
	Reply   string    `json:"reply"`
	Date    time.Time `json:"date"`
}

// UpdateReviewPayload is a partial edit. Admins may send any combination;
// owners may only send Reply.
type UpdateReviewPayload struct {
	Rate    *float64   `json:"rate" validate:"omitempty,gte=0.25,lte=5,ratestep"`
	Comment *string    `json:"comment"`
	Reply   *string    `json:"reply"`
	Date    *time.Time `json:"date"`
}

// ReviewUpdate carries the fields a repo merges onto the stored record.
type ReviewUpdate struct {
	Rate    *float64
	Comment *string
	Reply   *string
	Date    *time.Time
}

// RatingSummary holds the three derived rating fields of a restaurant.
type RatingSummary struct {
	Overall float64
	Highest float64
	Lowest  float64
}

// ComputeRatingSummary derives a restaurant's rating fields from the full set
// of its review rates: arithmetic mean (rounded to two decimals for display),
// max and min. The empty set yields all zeroes.
func ComputeRatingSummary(rates []float64) RatingSummary {
	if len(rates) == 0 {
		return RatingSummary{}
	}
	sum := 0.0
	highest := rates[0]
	lowest := rates[0]
	for _, r := range rates {
		sum += r
		if r > highest {
			highest = r
		}
		if r < lowest {
			lowest = r
		}
	}
	overall := math.Round(sum/float64(len(rates))*100) / 100
	return RatingSummary{Overall: overall, Highest: highest, Lowest: lowest}
}
