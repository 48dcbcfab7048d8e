package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin   = "admin"
	RoleOwner   = "owner"
	RoleRegular = "regular"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FirstName string             `bson:"first_name" json:"firstName"`
	LastName  string             `bson:"last_name" json:"lastName"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// PublicUser is the profile shape returned to clients and decoded from
// $lookup stages. It has no password field at all, so the hash can never be
// serialized by accident.
type PublicUser struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	FirstName string             `bson:"first_name" json:"firstName"`
	LastName  string             `bson:"last_name" json:"lastName"`
	Email     string             `bson:"email" json:"email"`
	Role      string             `bson:"role" json:"role"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
	}
}

// Actor is the authenticated identity attached to every service call.
type Actor struct {
	ID   primitive.ObjectID
	Role string
}

func (a Actor) IsAdmin() bool   { return a.Role == RoleAdmin }
func (a Actor) IsOwner() bool   { return a.Role == RoleOwner }
func (a Actor) IsRegular() bool { return a.Role == RoleRegular }

type SignupPayload struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"required,oneof=regular owner"`
}

// UpdateUserPayload is shared by profile self-edit and the admin user edit.
// Password and Role are optional; everything else is required on every update.
type UpdateUserPayload struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"omitempty,min=8"`
	Role      string `json:"role" validate:"omitempty,oneof=admin owner regular"`
}

// UserUpdate carries the fields a repo merges onto the stored record.
// Password must already be hashed by the caller.
type UserUpdate struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
}

// UserFilter drives the user listing. Exclude drops the requesting actor from
// the result. All=true forces the owner role and disables pagination, which
// backs the owner-selection dropdown.
type UserFilter struct {
	Exclude  primitive.ObjectID
	Role     string
	All      bool
	Page     int
	PageSize int
}
