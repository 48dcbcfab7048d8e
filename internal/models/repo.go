package models

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

var Validate = validator.New()

func init() {
	// ratestep: the rating must land on a quarter-star boundary.
	_ = Validate.RegisterValidation("ratestep", func(fl validator.FieldLevel) bool {
		v := fl.Field().Float()
		steps := v / RateStep
		return math.Abs(steps-math.Round(steps)) < 1e-9
	})
}

// ValidationMessage renders a validator error as a short client-facing
// message instead of the library's internal field dump. Only the first
// failing field is reported.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request."
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required."
	case "email":
		return "A valid email is required."
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters."
	case "eqfield":
		return "Passwords do not match."
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param() + "."
	case "gte", "lte", "ratestep":
		return "Rate must be between 0.25 and 5 in steps of 0.25."
	default:
		return fe.Field() + " is not valid."
	}
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(mdb.dbName).Collection(colName), nil
}
