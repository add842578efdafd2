package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/subtrackr/subtrackr/internal/app/service/notify"
	subsvc "github.com/subtrackr/subtrackr/internal/app/service/subscription"
	"github.com/subtrackr/subtrackr/pkg/response"
	"github.com/subtrackr/subtrackr/pkg/tool"
)

// @Summary      List subscriptions
// @Description  Returns the caller's subscriptions, ordered by next billing date. Past-due active rows are advanced one cycle on read.
// @Tags         Subscriptions
// @Produce      json
// @Success      200  {object}  response.APIResponse[[]models.Subscription]
// @Router       /api/v1/subscriptions [get]
func ListSubscriptions(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok {
			return
		}
		subs, err := svc.List(c.Request.Context(), id.OwnerID)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(subs))
	}
}

// @Summary      Get subscription
// @Tags         Subscriptions
// @Produce      json
// @Param        id   path      string  true  "Subscription ID"
// @Success      200  {object}  response.APIResponse[models.Subscription]
// @Router       /api/v1/subscriptions/{id} [get]
func GetSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok {
			return
		}
		sub, err := svc.Get(c.Request.Context(), id.OwnerID, c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

// @Summary      Create subscription
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Param        body  body      subsvc.Input  true  "Subscription fields"
// @Success      200   {object}  response.APIResponse[models.Subscription]
// @Router       /api/v1/subscriptions [post]
func CreateSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok {
			return
		}
		var in subsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		sub, err := svc.Create(c.Request.Context(), id.OwnerID, &in)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

// @Summary      Update subscription
// @Description  Full update of the caller's subscription. A cost change dispatches a price-change email off the request path.
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Param        id    path      string        true  "Subscription ID"
// @Param        body  body      subsvc.Input  true  "Subscription fields"
// @Success      200   {object}  response.APIResponse[models.Subscription]
// @Router       /api/v1/subscriptions/{id} [put]
func UpdateSubscription(svc *subsvc.Service, notifier *notify.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok {
			return
		}
		var in subsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.Update(c.Request.Context(), id.OwnerID, c.Param("id"), &in)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		if res.CostChanged {
			caller := id
			sub := res.Subscription
			oldCost := res.OldCost
			tool.Detach(log, "price_change_notification", func() error {
				return notifier.PriceChange(context.Background(), caller, sub, oldCost, sub.Cost)
			})
		}
		c.JSON(http.StatusOK, response.OKT(res.Subscription))
	}
}

// @Summary      Delete subscription
// @Tags         Subscriptions
// @Produce      json
// @Param        id   path      string  true  "Subscription ID"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/subscriptions/{id} [delete]
func DeleteSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id.OwnerID, c.Param("id")); err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Renew subscription now
// @Description  Explicit "mark as paid": advances the next billing date one cycle.
// @Tags         Subscriptions
// @Produce      json
// @Param        id   path      string  true  "Subscription ID"
// @Success      200  {object}  response.APIResponse[models.Subscription]
// @Router       /api/v1/subscriptions/{id}/renew [post]
func RenewSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok {
			return
		}
		sub, err := svc.RenewNow(c.Request.Context(), id.OwnerID, c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

func RegisterSubscriptionRoutes(r gin.IRouter, svc *subsvc.Service, notifier *notify.Service, log *zap.SugaredLogger) {
	r.GET("/subscriptions", ListSubscriptions(svc))
	r.POST("/subscriptions", CreateSubscription(svc))
	r.GET("/subscriptions/:id", GetSubscription(svc))
	r.PUT("/subscriptions/:id", UpdateSubscription(svc, notifier, log))
	r.DELETE("/subscriptions/:id", DeleteSubscription(svc))
	r.POST("/subscriptions/:id/renew", RenewSubscription(svc))
}
