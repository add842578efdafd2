package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subtrackr/subtrackr/internal/app/service/settings"
	"github.com/subtrackr/subtrackr/pkg/response"
)

// @Summary      Get settings
// @Description  Returns the caller's settings; defaults when none have been saved yet.
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  response.APIResponse[models.UserSettings]
// @Router       /api/v1/settings [get]
func GetSettings(svc *settings.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok {
			return
		}
		st, err := svc.Get(c.Request.Context(), id.OwnerID)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(st))
	}
}

// @Summary      Update settings
// @Description  Saves currency, budgets and alert threshold. Omitted budgets clear the limit.
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        body  body      settings.Input  true  "Settings fields"
// @Success      200   {object}  response.APIResponse[models.UserSettings]
// @Router       /api/v1/settings [put]
func UpdateSettings(svc *settings.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok {
			return
		}
		var in settings.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		st, err := svc.Upsert(c.Request.Context(), id.OwnerID, &in)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(st))
	}
}

func RegisterSettingsRoutes(r gin.IRouter, svc *settings.Service) {
	r.GET("/settings", GetSettings(svc))
	r.PUT("/settings", UpdateSettings(svc))
}
