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

const UsersColName = "users"

type UserRepo interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	EmailTaken(ctx context.Context, email string, except primitive.ObjectID) (bool, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]*PublicUser, int64, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, update UserUpdate) (*User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

func (mdb *MongodbRepo) CreateUser(ctx context.Context, user *User) (*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := col.InsertOne(ctx, user); err != nil {
		return nil, fmt.Errorf("error inserting user: %v", err)
	}
	return user, nil
}

func (mdb *MongodbRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var user User
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding user: %v", err)
	}
	return &user, nil
}

func (mdb *MongodbRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var user User
	err = col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding user by email: %v", err)
	}
	return &user, nil
}

func (mdb *MongodbRepo) EmailTaken(ctx context.Context, email string, except primitive.ObjectID) (bool, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return false, fmt.Errorf("error getting collection: %v", err)
	}

	count, err := col.CountDocuments(ctx, bson.M{
		"email": email,
		"_id":   bson.M{"$ne": except},
	})
	if err != nil {
		return false, fmt.Errorf("error counting users: %v", err)
	}
	return count > 0, nil
}

func (mdb *MongodbRepo) ListUsers(ctx context.Context, filter UserFilter) ([]*PublicUser, int64, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting collection: %v", err)
	}

	where := bson.M{"_id": bson.M{"$ne": filter.Exclude}}

	// The count intentionally ignores the role filter; the admin table shows
	// the total of all other users regardless of the active filter.
	count, err := col.CountDocuments(ctx, where)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting users: %v", err)
	}

	if filter.All {
		where["role"] = RoleOwner
	} else if filter.Role != "" {
		where["role"] = filter.Role
	}

	opts := options.Find().SetSort(bson.D{{Key: "role", Value: -1}})
	if !filter.All {
		opts = opts.
			SetSkip(int64(filter.Page-1) * int64(filter.PageSize)).
			SetLimit(int64(filter.PageSize))
	}

	cursor, err := col.Find(ctx, where, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error finding users: %v", err)
	}
	defer cursor.Close(ctx)

	users := []*PublicUser{}
	for cursor.Next(ctx) {
		var user PublicUser
		if err := cursor.Decode(&user); err != nil {
			return nil, 0, fmt.Errorf("error decoding user: %v", err)
		}
		users = append(users, &user)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %v", err)
	}

	return users, count, nil
}

func (mdb *MongodbRepo) UpdateUser(ctx context.Context, id primitive.ObjectID, update UserUpdate) (*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	set := bson.M{
		"first_name": update.FirstName,
		"last_name":  update.LastName,
		"email":      update.Email,
		"updated_at": time.Now(),
	}
	if update.Password != "" {
		set["password"] = update.Password
	}
	if update.Role != "" {
		set["role"] = update.Role
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user User
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error updating user: %v", err)
	}
	return &user, nil
}

func (mdb *MongodbRepo) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	if _, err := col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("error deleting user: %v", err)
	}
	return nil
}
