package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kofi-bentum/tastebay/internal/models"
	"github.com/kofi-bentum/tastebay/internal/services"
)

const cookieMaxAge = 3600 * 24

func setAuthCookie(c *gin.Context, token string, isProduction bool) {
	c.SetCookie("access_token", token, cookieMaxAge, "/", "", isProduction, true)
}

func Signup(u *services.UserService, isProduction bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload models.SignupPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		user, token, err := u.Signup(c.Request.Context(), payload)
		if err != nil {
			fail(c, err)
			return
		}

		setAuthCookie(c, token, isProduction)
		c.JSON(http.StatusCreated, gin.H{
			"user":  user.Public(),
			"token": token,
		})
	}
}

func Login(u *services.UserService, isProduction bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		user, token, err := u.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			fail(c, err)
			return
		}

		setAuthCookie(c, token, isProduction)
		c.JSON(http.StatusOK, gin.H{
			"user":  user.Public(),
			"token": token,
		})
	}
}

func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie("access_token", "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}

// UpdateProfile lets the authenticated user edit their own record. The role
// field is ignored so nobody can promote themselves.
func UpdateProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			return
		}

		var payload models.UpdateUserPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		payload.Role = ""

		user, err := u.Update(c.Request.Context(), actor.ID, payload)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// RemoveProfile deletes the authenticated user's own account, cascading to
// owned restaurants and authored reviews.
func RemoveProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			return
		}

		if err := u.RemoveSelf(c.Request.Context(), actor); err != nil {
			fail(c, err)
			return
		}

		c.SetCookie("access_token", "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
