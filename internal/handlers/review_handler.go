package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kofi-bentum/tastebay/internal/models"
	"github.com/kofi-bentum/tastebay/internal/services"
)

func CreateReview(v *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			return
		}
		restaurantID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Restaurant doesn't exist."))
			return
		}

		var payload models.CreateReviewPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		review, err := v.Create(c.Request.Context(), actor, restaurantID, payload)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"review": review})
	}
}

func ListReviews(v *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Restaurant doesn't exist."))
			return
		}
		page, pageSize, ok := parsePageParams(c)
		if !ok {
			return
		}

		reviews, count, restaurant, err := v.List(c.Request.Context(), restaurantID, page, pageSize)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"reviews":    reviews,
			"count":      count,
			"restaurant": restaurant,
		})
	}
}

func PendingReviews(v *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			return
		}
		page, pageSize, ok := parsePageParams(c)
		if !ok {
			return
		}

		reviews, count, err := v.Pending(c.Request.Context(), actor, page, pageSize)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"reviews": reviews,
			"count":   count,
		})
	}
}

func UpdateReview(v *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			return
		}
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Review doesn't exist."))
			return
		}

		var payload models.UpdateReviewPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		review, err := v.Update(c.Request.Context(), actor, id, payload)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"review": review})
	}
}

func DeleteReview(v *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			return
		}
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Review doesn't exist."))
			return
		}

		if err := v.Remove(c.Request.Context(), actor, id); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
