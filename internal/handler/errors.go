package handler

import (
	"errors"
	"net/http"

	"mcc-backend/internal/service"
	"mcc-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// abortWithError maps the service error taxonomy onto HTTP status codes.
// Storage failures are already logged server-side and surface as a generic
// internal error.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, response.Fail(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Fail(err.Error()))
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, response.Fail(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Fail("internal server error"))
	}
}
