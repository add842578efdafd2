package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subtrackr/subtrackr/internal/app/service/assist"
	"github.com/subtrackr/subtrackr/internal/app/service/spending"
	subsvc "github.com/subtrackr/subtrackr/internal/app/service/subscription"
	"github.com/subtrackr/subtrackr/pkg/response"
)

type ParseRequest struct {
	Text string `json:"text" binding:"required"`
}

// @Summary      Parse subscription from text
// @Description  Extracts structured subscription fields from free text. Shares the hourly AI budget.
// @Tags         Assist
// @Accept       json
// @Produce      json
// @Param        body  body      ParseRequest  true  "Free text"
// @Success      200   {object}  response.APIResponse[assist.ParsedSubscription]
// @Router       /api/v1/assist/parse [post]
func ParseSubscription(svc *assist.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok {
			return
		}
		var req ParseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		svc.RecordRequest(c.Request.Context(), id.OwnerID, "parse", len(req.Text))
		parsed, err := svc.ParseSubscription(c.Request.Context(), req.Text)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(parsed))
	}
}

// @Summary      Suggest budgets
// @Description  Recommends monthly and yearly budgets from current spending. Degrades to a deterministic rule on model failure.
// @Tags         Assist
// @Produce      json
// @Success      200  {object}  response.APIResponse[assist.BudgetSuggestion]
// @Router       /api/v1/assist/budget [post]
func SuggestBudget(svc *assist.Service, subSvc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok {
			return
		}
		subs, err := subSvc.List(c.Request.Context(), id.OwnerID)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		summary := spending.Aggregate(subs)

		svc.RecordRequest(c.Request.Context(), id.OwnerID, "budget", 0)
		suggestion := svc.SuggestBudget(c.Request.Context(), summary)
		c.JSON(http.StatusOK, response.OKT(suggestion))
	}
}

func RegisterAssistRoutes(r gin.IRouter, svc *assist.Service, subSvc *subsvc.Service) {
	r.POST("/assist/parse", ParseSubscription(svc))
	r.POST("/assist/budget", SuggestBudget(svc, subSvc))
}
