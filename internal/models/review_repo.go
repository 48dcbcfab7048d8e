package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ReviewsColName = "reviews"

type ReviewRepo interface {
	CreateReview(ctx context.Context, review *Review) (*Review, error)
	GetReviewByID(ctx context.Context, id primitive.ObjectID) (*Review, error)
	GetReviewForRestaurantByUser(ctx context.Context, restaurantID, userID primitive.ObjectID) (*Review, error)
	ListReviewsByRestaurant(ctx context.Context, restaurantID primitive.ObjectID, page, pageSize int) ([]*ReviewDetail, int64, error)
	ListRatesByRestaurant(ctx context.Context, restaurantID primitive.ObjectID) ([]float64, error)
	ListPendingReviews(ctx context.Context, restaurantIDs []primitive.ObjectID, page, pageSize int) ([]*ReviewDetail, int64, error)
	UpdateReview(ctx context.Context, id primitive.ObjectID, update ReviewUpdate) (*Review, error)
	DeleteReview(ctx context.Context, id primitive.ObjectID) error
	DeleteReviewsByRestaurant(ctx context.Context, restaurantID primitive.ObjectID) error
	DeleteReviewsByUser(ctx context.Context, userID primitive.ObjectID) error
}

// pendingFilter matches reviews still waiting for an owner reply.
func pendingFilter(restaurantIDs []primitive.ObjectID) bson.M {
	return bson.M{
		"restaurant": bson.M{"$in": restaurantIDs},
		"$or": []bson.M{
			{"reply": bson.M{"$exists": false}},
			{"reply": ""},
		},
	}
}

func (mdb *MongodbRepo) CreateReview(ctx context.Context, review *Review) (*Review, error) {
	col, err := mdb.GetCollection(ctx, ReviewsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	review.BeforeCreate()
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	if _, err := col.InsertOne(ctx, review); err != nil {
		return nil, fmt.Errorf("error inserting review: %v", err)
	}
	return review, nil
}

func (mdb *MongodbRepo) GetReviewByID(ctx context.Context, id primitive.ObjectID) (*Review, error) {
	col, err := mdb.GetCollection(ctx, ReviewsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var review Review
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding review: %v", err)
	}
	return &review, nil
}

func (mdb *MongodbRepo) GetReviewForRestaurantByUser(ctx context.Context, restaurantID, userID primitive.ObjectID) (*Review, error) {
	col, err := mdb.GetCollection(ctx, ReviewsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var review Review
	err = col.FindOne(ctx, bson.M{"restaurant": restaurantID, "from_user": userID}).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding review: %v", err)
	}
	return &review, nil
}

func (mdb *MongodbRepo) ListReviewsByRestaurant(ctx context.Context, restaurantID primitive.ObjectID, page, pageSize int) ([]*ReviewDetail, int64, error) {
	col, err := mdb.GetCollection(ctx, ReviewsColName)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting collection: %v", err)
	}

	where := bson.M{"restaurant": restaurantID}
	count, err := col.CountDocuments(ctx, where)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting reviews: %v", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: where}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$skip", Value: int64(page-1) * int64(pageSize)}},
		{{Key: "$limit", Value: int64(pageSize)}},
		{{Key: "$lookup", Value: bson.M{
			"from":         UsersColName,
			"localField":   "from_user",
			"foreignField": "_id",
			"as":           "reviewer",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$reviewer",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$project", Value: bson.M{"reviewer.password": 0}}},
	}

	return mdb.aggregateReviews(ctx, col, pipeline, count)
}

func (mdb *MongodbRepo) ListRatesByRestaurant(ctx context.Context, restaurantID primitive.ObjectID) ([]float64, error) {
	col, err := mdb.GetCollection(ctx, ReviewsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetProjection(bson.M{"rate": 1})
	cursor, err := col.Find(ctx, bson.M{"restaurant": restaurantID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding review rates: %v", err)
	}
	defer cursor.Close(ctx)

	rates := []float64{}
	for cursor.Next(ctx) {
		var doc struct {
			Rate float64 `bson:"rate"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding review rate: %v", err)
		}
		rates = append(rates, doc.Rate)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return rates, nil
}

// ListPendingReviews returns reviews without a reply on the given
// restaurants, newest first, with both the reviewer and the restaurant joined
// for the owner's reply queue.
func (mdb *MongodbRepo) ListPendingReviews(ctx context.Context, restaurantIDs []primitive.ObjectID, page, pageSize int) ([]*ReviewDetail, int64, error) {
	col, err := mdb.GetCollection(ctx, ReviewsColName)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting collection: %v", err)
	}

	where := pendingFilter(restaurantIDs)
	count, err := col.CountDocuments(ctx, where)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting pending reviews: %v", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: where}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$skip", Value: int64(page-1) * int64(pageSize)}},
		{{Key: "$limit", Value: int64(pageSize)}},
		{{Key: "$lookup", Value: bson.M{
			"from":         UsersColName,
			"localField":   "from_user",
			"foreignField": "_id",
			"as":           "reviewer",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$reviewer",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         RestaurantsColName,
			"localField":   "restaurant",
			"foreignField": "_id",
			"as":           "restaurant_doc",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$restaurant_doc",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$project", Value: bson.M{"reviewer.password": 0}}},
	}

	return mdb.aggregateReviews(ctx, col, pipeline, count)
}

func (mdb *MongodbRepo) aggregateReviews(ctx context.Context, col *mongo.Collection, pipeline mongo.Pipeline, count int64) ([]*ReviewDetail, int64, error) {
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("error aggregating reviews: %v", err)
	}
	defer cursor.Close(ctx)

	reviews := []*ReviewDetail{}
	for cursor.Next(ctx) {
		var review ReviewDetail
		if err := cursor.Decode(&review); err != nil {
			return nil, 0, fmt.Errorf("error decoding review: %v", err)
		}
		reviews = append(reviews, &review)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %v", err)
	}

	return reviews, count, nil
}

func (mdb *MongodbRepo) UpdateReview(ctx context.Context, id primitive.ObjectID, update ReviewUpdate) (*Review, error) {
	col, err := mdb.GetCollection(ctx, ReviewsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	set := bson.M{"updated_at": time.Now()}
	if update.Rate != nil {
		set["rate"] = *update.Rate
	}
	if update.Comment != nil {
		set["comment"] = *update.Comment
	}
	if update.Reply != nil {
		set["reply"] = *update.Reply
	}
	if update.Date != nil {
		set["date"] = *update.Date
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var review Review
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error updating review: %v", err)
	}
	return &review, nil
}

func (mdb *MongodbRepo) DeleteReview(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, ReviewsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	if _, err := col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("error deleting review: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) DeleteReviewsByRestaurant(ctx context.Context, restaurantID primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, ReviewsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	if _, err := col.DeleteMany(ctx, bson.M{"restaurant": restaurantID}); err != nil {
		return fmt.Errorf("error deleting reviews by restaurant: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) DeleteReviewsByUser(ctx context.Context, userID primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, ReviewsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	if _, err := col.DeleteMany(ctx, bson.M{"from_user": userID}); err != nil {
		return fmt.Errorf("error deleting reviews by user: %v", err)
	}
	return nil
}
