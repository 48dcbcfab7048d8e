package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kofi-bentum/tastebay/internal/models"
	"github.com/kofi-bentum/tastebay/internal/services"
)

func GetUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("User doesn't exist"))
			return
		}

		user, err := u.Read(c.Request.Context(), id)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func ListUsers(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			return
		}
		page, pageSize, ok := parsePageParams(c)
		if !ok {
			return
		}

		filter := models.UserFilter{
			Role:     c.Query("role"),
			All:      c.Query("all") == "true",
			Page:     page,
			PageSize: pageSize,
		}

		users, count, err := u.List(c.Request.Context(), actor, filter)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"users": users,
			"count": count,
		})
	}
}

func UpdateUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("User doesn't exist"))
			return
		}

		var payload models.UpdateUserPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		user, err := u.Update(c.Request.Context(), id, payload)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func DeleteUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			return
		}
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("User doesn't exist"))
			return
		}

		if err := u.Remove(c.Request.Context(), actor, id); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
