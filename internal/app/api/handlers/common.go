package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subtrackr/subtrackr/internal/app/api/middleware"
	"github.com/subtrackr/subtrackr/internal/app/service/settings"
	subsvc "github.com/subtrackr/subtrackr/internal/app/service/subscription"
	"github.com/subtrackr/subtrackr/pkg/response"
	"github.com/subtrackr/subtrackr/pkg/types"
)

// identity pulls the caller placed by the auth middleware. Handlers behind
// the protected group always find one; the guard covers misrouting.
func identity(c *gin.Context) (types.Identity, bool) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, nil))
	}
	return id, ok
}

// writeServiceError maps service sentinels to HTTP statuses.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, subsvc.ErrNotFound):
		c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
	case errors.Is(err, subsvc.ErrValidation), errors.Is(err, settings.ErrValidation):
		c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
	}
}
