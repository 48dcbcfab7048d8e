// Package policy is the single authorization module consulted by every
// mutating service call. Each operation has one named rule mapping
// (actor role, actor id, resource owner id) to allow or a specific denial,
// so role checks are never scattered through the services.
package policy

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kofi-bentum/tastebay/internal/apperr"
	"github.com/kofi-bentum/tastebay/internal/models"
)

type Operation string

const (
	OpCreateRestaurant   Operation = "restaurant.create"
	OpUpdateRestaurant   Operation = "restaurant.update"
	OpDeleteRestaurant   Operation = "restaurant.delete"
	OpCreateReview       Operation = "review.create"
	OpReplyReview        Operation = "review.reply"
	OpUpdateReview       Operation = "review.update"
	OpDeleteReview       Operation = "review.delete"
	OpListPendingReviews Operation = "review.pending"
	OpDeleteUser         Operation = "user.delete"
)

type rule func(actor models.Actor, owner primitive.ObjectID) error

var rules = map[Operation]rule{
	OpCreateRestaurant: func(actor models.Actor, _ primitive.ObjectID) error {
		// Admins pass here but must designate a valid owner; the service
		// validates the target. An admin never becomes an owner itself.
		if actor.IsRegular() {
			return apperr.Authorization("You're not authorized to create a restaurant.")
		}
		return nil
	},
	OpUpdateRestaurant: func(actor models.Actor, owner primitive.ObjectID) error {
		if actor.IsRegular() {
			return apperr.Authorization("You are not authorized to update a restaurant.")
		}
		if actor.IsOwner() && actor.ID != owner {
			return apperr.Authorization("You are not authorized to update another owner's restaurant.")
		}
		return nil
	},
	OpDeleteRestaurant: func(actor models.Actor, owner primitive.ObjectID) error {
		if actor.IsRegular() {
			return apperr.Authorization("You're not authorized to remove the restaurant.")
		}
		if actor.IsOwner() && actor.ID != owner {
			return apperr.Authorization("You can not remove another owner's restaurant.")
		}
		return nil
	},
	OpCreateReview: func(actor models.Actor, _ primitive.ObjectID) error {
		if !actor.IsRegular() {
			return apperr.Authorization("Only regular users can review a restaurant.")
		}
		return nil
	},
	OpReplyReview: func(actor models.Actor, owner primitive.ObjectID) error {
		if actor.IsAdmin() {
			return nil
		}
		if !actor.IsOwner() {
			return apperr.Authorization("You're not authorized to reply to reviews.")
		}
		if actor.ID != owner {
			return apperr.Authorization("You can not reply to reviews of another owner's restaurant.")
		}
		return nil
	},
	OpUpdateReview: func(actor models.Actor, _ primitive.ObjectID) error {
		if !actor.IsAdmin() {
			return apperr.Authorization("You're not authorized to update the review.")
		}
		return nil
	},
	OpDeleteReview: func(actor models.Actor, _ primitive.ObjectID) error {
		if !actor.IsAdmin() {
			return apperr.Authorization("You're not authorized to remove the review.")
		}
		return nil
	},
	OpListPendingReviews: func(actor models.Actor, _ primitive.ObjectID) error {
		if !actor.IsOwner() {
			return apperr.Authorization("Only owners can view pending reviews.")
		}
		return nil
	},
	OpDeleteUser: func(actor models.Actor, _ primitive.ObjectID) error {
		if !actor.IsAdmin() {
			return apperr.Authorization("You're not authorized to remove user.")
		}
		return nil
	},
}

// Can reports whether the actor may perform op against a resource owned by
// owner. A nil return means allow; otherwise the error carries the specific
// denial reason and maps to 403.
func Can(actor models.Actor, op Operation, owner primitive.ObjectID) error {
	r, ok := rules[op]
	if !ok {
		return apperr.Authorization("You're not authorized to perform this operation.")
	}
	return r(actor, owner)
}
