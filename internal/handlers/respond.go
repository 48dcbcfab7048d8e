package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kofi-bentum/tastebay/internal/apperr"
	"github.com/kofi-bentum/tastebay/internal/helpers"
	"github.com/kofi-bentum/tastebay/internal/models"
)

// fail converts a service error into its HTTP response. Internal errors are
// pushed onto the gin error list so the error middleware logs them; the
// client only ever sees the taxonomy message.
func fail(c *gin.Context, err error) {
	status := apperr.StatusOf(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, models.ErrorResponse(apperr.MessageOf(err)))
}

// actorFrom extracts the authenticated actor placed in the context by the
// auth middleware. A false return means the response has been written.
func actorFrom(c *gin.Context) (models.Actor, bool) {
	v, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("Unauthorized access"))
		return models.Actor{}, false
	}
	claims, ok := v.(*helpers.Claims)
	if !ok {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse("Something went wrong."))
		return models.Actor{}, false
	}
	id, err := claims.ActorID()
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("Unauthorized access"))
		return models.Actor{}, false
	}
	return models.Actor{ID: id, Role: claims.Role}, true
}

// parsePageParams reads page/pageSize with the API's defaults. A false
// return means the 422 response has been written.
func parsePageParams(c *gin.Context) (int, int, bool) {
	page, err1 := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, err2 := strconv.Atoi(c.DefaultQuery("pageSize", "5"))
	if err1 != nil || err2 != nil || page <= 0 || pageSize <= 0 {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse("Page and Page Size must be positive integer."))
		return 0, 0, false
	}
	return page, pageSize, true
}
