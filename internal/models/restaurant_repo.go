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

const RestaurantsColName = "restaurants"

type RestaurantRepo interface {
	CreateRestaurant(ctx context.Context, restaurant *Restaurant) (*Restaurant, error)
	GetRestaurantByID(ctx context.Context, id primitive.ObjectID) (*Restaurant, error)
	GetRestaurantByName(ctx context.Context, name string) (*Restaurant, error)
	ListRestaurants(ctx context.Context, filter RestaurantFilter) ([]*RestaurantWithOwner, int64, error)
	ListRestaurantIDsByOwner(ctx context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error)
	UpdateRestaurant(ctx context.Context, id primitive.ObjectID, name string, owner *primitive.ObjectID) (*Restaurant, error)
	UpdateRestaurantRatings(ctx context.Context, id primitive.ObjectID, summary RatingSummary) error
	DeleteRestaurant(ctx context.Context, id primitive.ObjectID) error
	DeleteRestaurantsByOwner(ctx context.Context, owner primitive.ObjectID) error
}

func (mdb *MongodbRepo) CreateRestaurant(ctx context.Context, restaurant *Restaurant) (*Restaurant, error) {
	col, err := mdb.GetCollection(ctx, RestaurantsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if restaurant.ID.IsZero() {
		restaurant.ID = primitive.NewObjectID()
	}
	now := time.Now()
	restaurant.CreatedAt = now
	restaurant.UpdatedAt = now

	if _, err := col.InsertOne(ctx, restaurant); err != nil {
		return nil, fmt.Errorf("error inserting restaurant: %v", err)
	}
	return restaurant, nil
}

func (mdb *MongodbRepo) GetRestaurantByID(ctx context.Context, id primitive.ObjectID) (*Restaurant, error) {
	col, err := mdb.GetCollection(ctx, RestaurantsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var restaurant Restaurant
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&restaurant)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding restaurant: %v", err)
	}
	return &restaurant, nil
}

func (mdb *MongodbRepo) GetRestaurantByName(ctx context.Context, name string) (*Restaurant, error) {
	col, err := mdb.GetCollection(ctx, RestaurantsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var restaurant Restaurant
	err = col.FindOne(ctx, bson.M{"name": name}).Decode(&restaurant)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding restaurant by name: %v", err)
	}
	return &restaurant, nil
}

// ListRestaurants filters by overall_rating range (and owner, when set),
// sorts by overall_rating descending and joins the owner with the password
// projected away. The join is the document-store counterpart of populate.
func (mdb *MongodbRepo) ListRestaurants(ctx context.Context, filter RestaurantFilter) ([]*RestaurantWithOwner, int64, error) {
	col, err := mdb.GetCollection(ctx, RestaurantsColName)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting collection: %v", err)
	}

	where := bson.M{
		"overall_rating": bson.M{"$gte": filter.MinRating, "$lte": filter.MaxRating},
	}
	if filter.Owner != nil {
		where["user"] = *filter.Owner
	}

	count, err := col.CountDocuments(ctx, where)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting restaurants: %v", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: where}},
		{{Key: "$sort", Value: bson.D{{Key: "overall_rating", Value: -1}}}},
		{{Key: "$skip", Value: int64(filter.Page-1) * int64(filter.PageSize)}},
		{{Key: "$limit", Value: int64(filter.PageSize)}},
		{{Key: "$lookup", Value: bson.M{
			"from":         UsersColName,
			"localField":   "user",
			"foreignField": "_id",
			"as":           "owner",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$owner",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$project", Value: bson.M{"owner.password": 0}}},
	}

	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("error aggregating restaurants: %v", err)
	}
	defer cursor.Close(ctx)

	restaurants := []*RestaurantWithOwner{}
	for cursor.Next(ctx) {
		var restaurant RestaurantWithOwner
		if err := cursor.Decode(&restaurant); err != nil {
			return nil, 0, fmt.Errorf("error decoding restaurant: %v", err)
		}
		restaurants = append(restaurants, &restaurant)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %v", err)
	}

	return restaurants, count, nil
}

func (mdb *MongodbRepo) ListRestaurantIDsByOwner(ctx context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error) {
	col, err := mdb.GetCollection(ctx, RestaurantsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := col.Find(ctx, bson.M{"user": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding restaurants by owner: %v", err)
	}
	defer cursor.Close(ctx)

	ids := []primitive.ObjectID{}
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding restaurant id: %v", err)
		}
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return ids, nil
}

func (mdb *MongodbRepo) UpdateRestaurant(ctx context.Context, id primitive.ObjectID, name string, owner *primitive.ObjectID) (*Restaurant, error) {
	col, err := mdb.GetCollection(ctx, RestaurantsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	set := bson.M{
		"name":       name,
		"updated_at": time.Now(),
	}
	if owner != nil {
		set["user"] = *owner
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var restaurant Restaurant
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&restaurant)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error updating restaurant: %v", err)
	}
	return &restaurant, nil
}

func (mdb *MongodbRepo) UpdateRestaurantRatings(ctx context.Context, id primitive.ObjectID, summary RatingSummary) error {
	col, err := mdb.GetCollection(ctx, RestaurantsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	_, err = col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"overall_rating": summary.Overall,
		"highest_rating": summary.Highest,
		"lowest_rating":  summary.Lowest,
		"updated_at":     time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("error updating restaurant ratings: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) DeleteRestaurant(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, RestaurantsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	if _, err := col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("error deleting restaurant: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) DeleteRestaurantsByOwner(ctx context.Context, owner primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, RestaurantsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	if _, err := col.DeleteMany(ctx, bson.M{"user": owner}); err != nil {
		return fmt.Errorf("error deleting restaurants by owner: %v", err)
	}
	return nil
}
