package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kofi-bentum/tastebay/internal/models"
	"github.com/kofi-bentum/tastebay/internal/services"
)

func CreateRestaurant(r *services.RestaurantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			return
		}

		var payload models.CreateRestaurantPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		restaurant, err := r.Create(c.Request.Context(), actor, payload)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"restaurant": restaurant})
	}
}

func ListRestaurants(r *services.RestaurantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			return
		}
		page, pageSize, ok := parsePageParams(c)
		if !ok {
			return
		}

		min, err1 := strconv.ParseFloat(c.DefaultQuery("min", "0"), 64)
		max, err2 := strconv.ParseFloat(c.DefaultQuery("max", "5"), 64)
		if err1 != nil || err2 != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Min and Max must be numbers."))
			return
		}

		restaurants, count, err := r.List(c.Request.Context(), actor, models.RestaurantFilter{
			MinRating: min,
			MaxRating: max,
			Page:      page,
			PageSize:  pageSize,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"restaurants": restaurants,
			"count":       count,
		})
	}
}

func UpdateRestaurant(r *services.RestaurantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			return
		}
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Restaurant doesn't exist."))
			return
		}

		var payload models.CreateRestaurantPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		restaurant, err := r.Update(c.Request.Context(), actor, id, payload)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
	}
}

func DeleteRestaurant(r *services.RestaurantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			return
		}
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Restaurant doesn't exist."))
			return
		}

		if err := r.Remove(c.Request.Context(), actor, id); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
